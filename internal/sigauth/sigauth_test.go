package sigauth

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func testKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return pub, priv
}

func signedRequest(t *testing.T, priv ed25519.PrivateKey, body []byte) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, "http://localhost/v1/agents", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	SignRequest(req, priv, body)
	return req
}

func TestSignAndVerifyRequest(t *testing.T) {
	t.Parallel()

	pub, priv := testKeyPair(t)
	body := []byte(`{"agent_name":"Nova"}`)
	req := signedRequest(t, priv, body)

	if req.Header.Get(HeaderKey) != OwnerFromKey(pub) {
		t.Fatalf("key header mismatch: got=%q want=%q", req.Header.Get(HeaderKey), OwnerFromKey(pub))
	}
	if req.Header.Get(HeaderTimestamp) == "" {
		t.Fatalf("timestamp header not set")
	}
	if req.Header.Get(HeaderSignature) == "" {
		t.Fatalf("signature header not set")
	}

	owner, err := VerifyRequest(req, body)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if owner != OwnerFromKey(pub) {
		t.Fatalf("owner mismatch: got=%q want=%q", owner, OwnerFromKey(pub))
	}
}

func TestVerifyRequestRejectsExpiredTimestamp(t *testing.T) {
	t.Parallel()

	pub, priv := testKeyPair(t)
	body := []byte(`{}`)

	req, err := http.NewRequest(http.MethodPost, "http://localhost/v1/agents", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	req.Header.Set(HeaderKey, OwnerFromKey(pub))
	req.Header.Set(HeaderTimestamp, ts)

	msg := req.Method + req.URL.Path + ts + string(body)
	sig := ed25519.Sign(priv, []byte(msg))
	req.Header.Set(HeaderSignature, hex.EncodeToString(sig))

	if _, err := VerifyRequest(req, body); err == nil {
		t.Fatalf("expected error for expired timestamp")
	}
}

func TestVerifyRequestRejectsBadSignature(t *testing.T) {
	t.Parallel()

	pub, _ := testKeyPair(t)
	_, wrongPriv := testKeyPair(t)

	body := []byte(`{"category":"conversation"}`)
	req := signedRequest(t, wrongPriv, body)
	// Claim to be pub while signing with the wrong key.
	req.Header.Set(HeaderKey, OwnerFromKey(pub))

	if _, err := VerifyRequest(req, body); err == nil {
		t.Fatalf("expected error for bad signature")
	}
}

func TestVerifyRequestRejectsTamperedBody(t *testing.T) {
	t.Parallel()

	_, priv := testKeyPair(t)
	req := signedRequest(t, priv, []byte(`{"gain":10}`))

	if _, err := VerifyRequest(req, []byte(`{"gain":9999}`)); err == nil {
		t.Fatalf("expected error for tampered body")
	}
}

func TestVerifyRequestRejectsMissingHeaders(t *testing.T) {
	t.Parallel()

	_, priv := testKeyPair(t)
	body := []byte(`{}`)

	testCases := []struct {
		name string
		drop string
	}{
		{name: "missing key", drop: HeaderKey},
		{name: "missing timestamp", drop: HeaderTimestamp},
		{name: "missing signature", drop: HeaderSignature},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := signedRequest(t, priv, body)
			req.Header.Del(tc.drop)

			if _, err := VerifyRequest(req, body); err == nil {
				t.Fatalf("expected error with %s removed", tc.drop)
			}
		})
	}
}

func TestVerifyRequestRejectsMalformedKey(t *testing.T) {
	t.Parallel()

	_, priv := testKeyPair(t)
	body := []byte(`{}`)

	testCases := []struct {
		name string
		key  string
	}{
		{name: "not hex", key: "zz-not-hex"},
		{name: "wrong size", key: hex.EncodeToString([]byte("short"))},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req := signedRequest(t, priv, body)
			req.Header.Set(HeaderKey, tc.key)

			if _, err := VerifyRequest(req, body); err == nil {
				t.Fatalf("expected error for key %q", tc.key)
			}
		})
	}
}

func TestOwnerFromKey(t *testing.T) {
	t.Parallel()

	pub, _ := testKeyPair(t)
	owner := OwnerFromKey(pub)

	if len(owner) != 64 {
		t.Fatalf("owner length mismatch: got=%d want=64", len(owner))
	}
	if _, err := hex.DecodeString(owner); err != nil {
		t.Fatalf("owner is not valid hex: %v", err)
	}
}

func TestAuthenticatorInsecureMode(t *testing.T) {
	t.Parallel()

	auth := Authenticator{Mode: ModeInsecure}

	req, err := http.NewRequest(http.MethodPost, "http://localhost/v1/agents", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set(HeaderOwner, "owner-1")

	owner, err := auth.Caller(req, nil)
	if err != nil {
		t.Fatalf("caller: %v", err)
	}
	if owner != "owner-1" {
		t.Fatalf("owner mismatch: got=%q want=%q", owner, "owner-1")
	}

	req.Header.Del(HeaderOwner)
	if _, err := auth.Caller(req, nil); err == nil {
		t.Fatalf("expected error without owner header")
	}
}

func TestAuthenticatorSignatureMode(t *testing.T) {
	t.Parallel()

	pub, priv := testKeyPair(t)
	body := []byte(`{"proof":"proof-payload-0123456789"}`)
	req := signedRequest(t, priv, body)

	owner, err := Authenticator{Mode: ModeSignature}.Caller(req, body)
	if err != nil {
		t.Fatalf("caller: %v", err)
	}
	if owner != OwnerFromKey(pub) {
		t.Fatalf("owner mismatch: got=%q want=%q", owner, OwnerFromKey(pub))
	}
}

func TestAuthenticatorRejectsUnknownMode(t *testing.T) {
	t.Parallel()

	req, err := http.NewRequest(http.MethodGet, "http://localhost/v1/agents/owner-1/context", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}

	if _, err := (Authenticator{Mode: "oauth"}).Caller(req, nil); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestCallerContextRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := WithCaller(context.Background(), "owner-1")
	owner, ok := CallerFrom(ctx)
	if !ok || owner != "owner-1" {
		t.Fatalf("caller mismatch: got=%q ok=%v", owner, ok)
	}

	if _, ok := CallerFrom(context.Background()); ok {
		t.Fatalf("empty context reported a caller")
	}
}
