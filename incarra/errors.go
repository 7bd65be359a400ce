package incarra

import "errors"

// Sentinel errors returned by the record state machine. Callers branch with
// errors.Is; wrapped variants add field names and offending values.

// Field and capacity validation.
var (
	ErrFieldEmpty       = errors.New("required field is empty")
	ErrFieldTooLong     = errors.New("field exceeds maximum length")
	ErrCapacityExceeded = errors.New("list capacity exceeded")
	ErrGainOutOfRange   = errors.New("gain value out of range")
)

// Identity binding and verification.
var (
	ErrIdentityFormatInvalid     = errors.New("identity claim format invalid")
	ErrIdentityNotBound          = errors.New("identity claim not bound")
	ErrIdentityNotVerified       = errors.New("identity not verified")
	ErrIdentityAlreadyVerified   = errors.New("identity already verified")
	ErrVerificationProofTooShort = errors.New("verification proof too short")
)

// Record state and authorization.
var (
	ErrUnauthorized      = errors.New("caller is not the record owner")
	ErrRecordInactive    = errors.New("record is deactivated")
	ErrRecordInvalid     = errors.New("record state invalid")
	ErrSuccessionInvalid = errors.New("record succession invalid")
)

// Store contract.
var (
	ErrRecordExists          = errors.New("record already exists")
	ErrRecordNotFound        = errors.New("record not found")
	ErrRecordVersionConflict = errors.New("record version conflict")
)

// Dispatch and dependency wiring.
var (
	ErrContextNil         = errors.New("context is nil")
	ErrCommandNil         = errors.New("command is nil")
	ErrCommandInvalid     = errors.New("command invalid")
	ErrCommandUnsupported = errors.New("command kind unsupported")
	ErrMissingRecordStore = errors.New("record store dependency missing")
	ErrMissingClock       = errors.New("clock dependency missing")
)

// Events.
var (
	ErrEventInvalid = errors.New("event invalid")
	ErrEventPublish = errors.New("event publish failed")
)

// Binary layout.
var (
	ErrCodecInvalid = errors.New("record encoding invalid")
)
