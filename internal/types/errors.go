package types

import (
	"errors"
	"fmt"
)

// Kind discriminates normalized errors
type Kind string

const (
	KindTransport      Kind = "transport"
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindSessionExpired Kind = "session_expired"
	KindUnknown        Kind = "unknown"
)

// UnknownErrorMessage is the message used when nothing better is available
const UnknownErrorMessage = "unknown error"

// FieldError holds the messages the server reported for one input field
type FieldError struct {
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
}

// Error is the normalized error surfaced to callers
type Error struct {
	Kind        Kind         `json:"kind"`
	Message     string       `json:"message"`
	StatusCode  int          `json:"statusCode,omitempty"`
	FieldErrors []FieldError `json:"fieldErrors,omitempty"`
	RequestID   string       `json:"requestId,omitempty"`
	Err         error        `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error: %s", e.Kind)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind; sentinels are matched through Unwrap.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Field returns the messages for field, or nil
func (e *Error) Field(name string) []string {
	for _, fe := range e.FieldErrors {
		if fe.Field == name {
			return fe.Messages
		}
	}
	return nil
}

// KindOf returns the kind of err, or KindUnknown when err is not normalized
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}
