package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Verification workflow failures. The envelope error string shown to the
// caller comes from the wrapping message, so these stay short.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrNoCodeRequested       = errors.New("no verification code requested")
	ErrCodeExpired           = errors.New("verification code expired")
	ErrCodeMismatch          = errors.New("verification code mismatch")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrNotConfigured         = errors.New("not configured")
)

// ErrInsufficientFunds rejects a transfer whose amount exceeds the source
// account balance. Mapped to 422 at the HTTP boundary.
var ErrInsufficientFunds = errors.New("insufficient funds")
