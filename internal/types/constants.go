package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default notes API base URL
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 10 * time.Second

	// DefaultAppVersion is sent in X-App-Version when none is configured
	DefaultAppVersion = "1.0.0"

	// UserAgent is the user agent string
	UserAgent = "notes-go/1.0.0"
)

// API endpoints, relative to the base URL
const (
	LoginEndpoint    = "/auth/token/"
	RefreshEndpoint  = "/auth/token/refresh/"
	RegisterEndpoint = "/auth/register/"
	ProfileEndpoint  = "/auth/profile/"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when authentication is required
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrSessionExpired is returned when the refresh token was rejected
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden is returned on 403 responses
	ErrForbidden = errors.New("forbidden")

	// ErrRateLimited is returned when rate limited
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout is returned on timeout
	ErrTimeout = errors.New("request timeout")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")
)

// IsAuthEndpoint reports whether path is one of the endpoints that must never
// carry a bearer token or trigger a refresh.
func IsAuthEndpoint(path string) bool {
	switch path {
	case LoginEndpoint, RefreshEndpoint, RegisterEndpoint:
		return true
	}
	return false
}
