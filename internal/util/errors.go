// internal/util/errors.go
package util

import "errors"

// Common application-specific errors.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input provided")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDuplicateEntry    = errors.New("duplicate entry") // For cases like registering an existing username
	ErrUserNotFound      = errors.New("user not found")
	ErrWrongPassword     = errors.New("wrong password")
	// ErrNotEligible covers both "publication not in the required state" and
	// "actor lacks the required role". Callers must not be able to tell the
	// two apart, so a single sentinel serves both.
	ErrNotEligible = errors.New("publication not found or not eligible")
	ErrSelfAccept  = errors.New("cannot accept your own publication")
)

// IsError reports whether err matches the given sentinel error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
