// Package sigauth authenticates mutating requests with Ed25519
// signatures. The caller's public key doubles as their owner identity:
// owners are the lowercase hex encoding of the verification key, which
// fits the owner ceiling exactly.
package sigauth

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// TimestampWindow is the maximum age of a signed request before it is
// rejected.
const TimestampWindow = 5 * time.Minute

// Headers carried by signed requests. Insecure mode reads only
// HeaderOwner.
const (
	HeaderKey       = "X-Incarra-Key"
	HeaderTimestamp = "X-Incarra-Timestamp"
	HeaderSignature = "X-Incarra-Signature"
	HeaderOwner     = "X-Incarra-Owner"
)

// Mode selects how callers are identified.
type Mode string

const (
	// ModeSignature requires a valid Ed25519 signature on every request.
	ModeSignature Mode = "signature"
	// ModeInsecure trusts the owner header as-is. Local development only.
	ModeInsecure Mode = "insecure"
)

// OwnerFromKey returns a public key encoded as 64-character lowercase
// hexadecimal. This serves as the caller's owner identity.
func OwnerFromKey(pub ed25519.PublicKey) string {
	return hex.EncodeToString(pub)
}

// SignRequest adds the key, timestamp, and signature headers to an
// outgoing HTTP request. The signature covers:
//
//	method + path + timestamp + body
func SignRequest(req *http.Request, priv ed25519.PrivateKey, body []byte) {
	pub := priv.Public().(ed25519.PublicKey)
	ts := strconv.FormatInt(time.Now().Unix(), 10)

	req.Header.Set(HeaderKey, OwnerFromKey(pub))
	req.Header.Set(HeaderTimestamp, ts)

	msg := req.Method + req.URL.Path + ts + string(body)
	sig := ed25519.Sign(priv, []byte(msg))
	req.Header.Set(HeaderSignature, hex.EncodeToString(sig))
}

// VerifyRequest checks that:
//  1. The key header decodes to an Ed25519 public key.
//  2. The timestamp is within TimestampWindow of the current time.
//  3. The signature is valid for the reconstructed message.
//
// On success it returns the caller's owner identity.
func VerifyRequest(req *http.Request, body []byte) (string, error) {
	keyHex := req.Header.Get(HeaderKey)
	tsStr := req.Header.Get(HeaderTimestamp)
	sigHex := req.Header.Get(HeaderSignature)

	if keyHex == "" {
		return "", fmt.Errorf("missing %s header", HeaderKey)
	}
	if tsStr == "" {
		return "", fmt.Errorf("missing %s header", HeaderTimestamp)
	}
	if sigHex == "" {
		return "", fmt.Errorf("missing %s header", HeaderSignature)
	}

	key, err := hex.DecodeString(strings.ToLower(keyHex))
	if err != nil {
		return "", fmt.Errorf("invalid key hex: %w", err)
	}
	if len(key) != ed25519.PublicKeySize {
		return "", fmt.Errorf("invalid key size: %d bytes, want %d", len(key), ed25519.PublicKeySize)
	}

	ts, err := strconv.ParseInt(tsStr, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp: %w", err)
	}
	diff := math.Abs(float64(time.Now().Unix() - ts))
	if diff > TimestampWindow.Seconds() {
		return "", fmt.Errorf("timestamp expired: %.0fs drift exceeds %v window", diff, TimestampWindow)
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return "", fmt.Errorf("invalid signature hex: %w", err)
	}

	pub := ed25519.PublicKey(key)
	msg := req.Method + req.URL.Path + tsStr + string(body)
	if !ed25519.Verify(pub, []byte(msg), sig) {
		return "", fmt.Errorf("ed25519 signature verification failed")
	}

	return OwnerFromKey(pub), nil
}

// Authenticator resolves the caller identity of a request under the
// configured mode.
type Authenticator struct {
	Mode Mode
}

// Caller identifies the request's caller. Signature mode reconstructs
// and verifies the signed message against the supplied body bytes;
// insecure mode trusts the owner header.
func (a Authenticator) Caller(req *http.Request, body []byte) (string, error) {
	switch a.Mode {
	case ModeInsecure:
		owner := strings.TrimSpace(req.Header.Get(HeaderOwner))
		if owner == "" {
			return "", fmt.Errorf("missing %s header", HeaderOwner)
		}
		return owner, nil
	case ModeSignature:
		return VerifyRequest(req, body)
	default:
		return "", fmt.Errorf("unsupported auth mode %q", a.Mode)
	}
}
