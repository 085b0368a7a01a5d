package types

import "errors"

// Sentinel errors shared across services and handlers. Services wrap these
// with fmt.Errorf("...: %w", err) and handlers translate them to HTTP status
// codes with errors.Is.
var (
	// ErrValidation signals malformed or missing input (400).
	ErrValidation = errors.New("invalid input")
	// ErrConflict signals a duplicate unique field such as email or username (400).
	ErrConflict = errors.New("item already exists or conflict")
	// ErrUnauthenticated signals bad credentials. Handlers must keep the
	// client-facing message uniform regardless of which check failed (400).
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	// ErrInvalidToken signals a token that failed signature, expiry or
	// set-membership checks (401/403 depending on the flow).
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotFound signals a missing record, including a user that vanished
	// between token issuance and use (404).
	ErrNotFound = errors.New("requested item not found")
	// ErrForbidden signals an action on a resource owned by someone else (403).
	ErrForbidden = errors.New("action forbidden")
	// ErrMissingConfig signals a recoverable server misconfiguration such as
	// an unset JWT signing secret (500). Checked per request, never fatal.
	ErrMissingConfig = errors.New("server configuration missing")
)
