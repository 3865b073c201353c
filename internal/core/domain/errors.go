package domain

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountExists        = errors.New("an account with this email or phone already exists")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrRateLimited          = errors.New("too many requests")
	ErrVerificationRequired = errors.New("contact verification required")
	ErrValidation           = errors.New("validation failed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
