package notes

import (
	"errors"

	internalTypes "github.com/eshaffer321/notes-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrSessionExpired is returned when the refresh token was rejected.
	// The stored credentials are already cleared when it is seen.
	ErrSessionExpired = internalTypes.ErrSessionExpired

	// ErrForbidden is returned on 403 responses
	ErrForbidden = internalTypes.ErrForbidden

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = internalTypes.ErrRateLimited

	// ErrTimeout is returned on timeout
	ErrTimeout = internalTypes.ErrTimeout

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError
)

// Error is the normalized API error
type Error = internalTypes.Error

// FieldError holds the validation messages for one field
type FieldError = internalTypes.FieldError

// ErrorKind discriminates normalized errors
type ErrorKind = internalTypes.Kind

// Error kinds
const (
	KindTransport      = internalTypes.KindTransport
	KindAuthentication = internalTypes.KindAuthentication
	KindValidation     = internalTypes.KindValidation
	KindSessionExpired = internalTypes.KindSessionExpired
	KindUnknown        = internalTypes.KindUnknown
)

// KindOf returns the kind of a normalized error, KindUnknown otherwise
func KindOf(err error) ErrorKind {
	return internalTypes.KindOf(err)
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrSessionExpired) ||
		KindOf(err) == KindAuthentication ||
		KindOf(err) == KindSessionExpired
}

// IsSessionExpired reports whether the session ended and a new login is needed
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// IsValidationError reports whether the server rejected the input
func IsValidationError(err error) bool {
	return KindOf(err) == KindValidation
}

// FieldErrorsOf returns the per-field messages of a validation error
func FieldErrorsOf(err error) []FieldError {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.FieldErrors
	}
	return nil
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServerError) {
		return true
	}

	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	return false
}
