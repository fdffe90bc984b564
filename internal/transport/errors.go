package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/eshaffer321/notes-go/internal/types"
)

// errorBody is the subset of an error response the normalizer reads
type errorBody struct {
	Detail  string          `json:"detail"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// normalizeHTTPError builds the normalized error for a non-2xx response
func normalizeHTTPError(statusCode int, body []byte, requestID string) *types.Error {
	var errResp errorBody
	_ = json.Unmarshal(body, &errResp)

	apiErr := &types.Error{
		Kind:       types.KindTransport,
		StatusCode: statusCode,
		RequestID:  requestID,
		Message: pickMessage(
			errResp.Detail,
			errResp.Message,
			fmt.Sprintf("request failed with status code %d", statusCode),
		),
	}

	// Map status codes to errors
	switch statusCode {
	case http.StatusUnauthorized:
		apiErr.Kind = types.KindAuthentication
		apiErr.Err = types.ErrNotAuthenticated
	case http.StatusBadRequest:
		fields := parseFieldErrors(errResp.Errors, false)
		if fields == nil && len(errResp.Errors) == 0 {
			// DRF serializers report field errors at the top level
			fields = parseFieldErrors(body, true)
		}
		if len(fields) > 0 {
			apiErr.Kind = types.KindValidation
			apiErr.FieldErrors = fields
		}
	case http.StatusForbidden:
		apiErr.Err = types.ErrForbidden
	case http.StatusNotFound:
		apiErr.Err = types.ErrNotFound
	case http.StatusTooManyRequests:
		apiErr.Err = types.ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		apiErr.Err = types.ErrTimeout
	default:
		if statusCode >= 500 {
			apiErr.Err = types.ErrServerError
			if errResp.Detail == "" && errResp.Message == "" {
				if desc := httpStatusDescription(statusCode); desc != "" {
					apiErr.Message = fmt.Sprintf("%s (%s)", apiErr.Message, desc)
				}
			}
		}
	}

	return apiErr
}

// normalizeTransportError wraps a failure that produced no HTTP response
func normalizeTransportError(err error, requestID string) *types.Error {
	apiErr := &types.Error{
		Kind:      types.KindTransport,
		RequestID: requestID,
		Message:   pickMessage("", "", err.Error()),
		Err:       err,
	}
	if apiErr.Message == types.UnknownErrorMessage {
		apiErr.Kind = types.KindUnknown
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		apiErr.Err = fmt.Errorf("%w: %w", types.ErrTimeout, err)
	}

	return apiErr
}

// pickMessage returns the first non-empty candidate in priority order
func pickMessage(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return types.UnknownErrorMessage
}

// parseFieldErrors reads {"field": ["msg", ...], ...} keeping the payload's
// field order. Unless listsOnly is set, a bare string value counts as a
// single message. It returns nil when raw does not have that shape.
func parseFieldErrors(raw []byte, listsOnly bool) []types.FieldError {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil
	}

	var fields []types.FieldError
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		name, ok := tok.(string)
		if !ok {
			return nil
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil
		}

		messages, ok := decodeMessages(value, listsOnly)
		if !ok {
			return nil
		}
		fields = append(fields, types.FieldError{Field: name, Messages: messages})
	}

	return fields
}

func decodeMessages(value json.RawMessage, listsOnly bool) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(value, &list); err == nil && list != nil {
		return list, true
	}
	if listsOnly {
		return nil, false
	}
	var single string
	if err := json.Unmarshal(value, &single); err == nil {
		return []string{single}, true
	}
	return nil, false
}

// httpStatusDescription returns a human-readable description for common HTTP status codes.
func httpStatusDescription(statusCode int) string {
	descriptions := map[int]string{
		500: "Internal Server Error",
		501: "Not Implemented",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
	}
	return descriptions[statusCode]
}
