package business

import "fmt"

// ValidationError reports malformed input caught before any signing attempt.
// Recoverable: the caller corrects the input and retries.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// MismatchError reports the first inconsistent field found between the two
// independently produced authorizations. Always a caller or integration bug;
// never retried.
type MismatchError struct {
	Field string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("authorization mismatch on %s", e.Field)
}

// SigningUnavailableError indicates the relevant key holder could not sign
// (missing key, unreachable signer). Surfaced verbatim, never retried
// automatically.
type SigningUnavailableError struct {
	Role string // "service" or "user"
	Err  error
}

func (e *SigningUnavailableError) Error() string {
	return fmt.Sprintf("%s signer unavailable: %v", e.Role, e.Err)
}

func (e *SigningUnavailableError) Unwrap() error { return e.Err }

// SigningRejectedError indicates the key holder declined to sign. The flow
// must not silently retry or fabricate a signature.
type SigningRejectedError struct {
	Role string
	Err  error
}

func (e *SigningRejectedError) Error() string {
	return fmt.Sprintf("%s signer rejected the request: %v", e.Role, e.Err)
}

func (e *SigningRejectedError) Unwrap() error { return e.Err }

// StaleNonceError indicates the executor rejected a bundle because its nonce
// was consumed by another authorization. The core cannot self-detect this
// race; it is surfaced at submission time by whoever calls the executor.
type StaleNonceError struct {
	Account string
	Nonce   string
}

func (e *StaleNonceError) Error() string {
	return fmt.Sprintf("nonce %s for %s is no longer current on the ledger", e.Nonce, e.Account)
}
