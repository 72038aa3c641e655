// Package domainerrors defines the outward error taxonomy for bulletin.
//
// Services translate infrastructure facts (pkg/platform/sentinel) into these
// coded errors; the HTTP layer translates codes into status lines. Storage
// engine details never cross this boundary.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code categorizes a failure for callers that must not see internals.
type Code string

const (
	// CodeBadRequest marks malformed client input (validation failures).
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks a client-supplied reference to a missing entity.
	CodeNotFound Code = "not_found"
	// CodeInternal marks a persistence or invariant failure. Cause is
	// logged server-side, never exposed.
	CodeInternal Code = "internal"
	// CodeUnavailable marks a failed call to an external dependency.
	CodeUnavailable Code = "unavailable"
	// CodeTimeout marks a cancelled or deadline-exceeded operation.
	CodeTimeout Code = "timeout"
)

// Error is a coded domain error. Field is set for validation failures so the
// transport layer can report which input was rejected.
type Error struct {
	Code    Code
	Message string
	Field   string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewValidation builds a CodeBadRequest error tagged with the offending field.
func NewValidation(field, reason string) *Error {
	return &Error{Code: CodeBadRequest, Message: reason, Field: field}
}

// Wrap attaches a code and message to an underlying cause. The cause stays
// reachable through errors.Unwrap for logging but is not part of Error().
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that never passed through this package.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to the HTTP status the transport layer reports.
// CodeNotFound maps to 400: a missing token is a bad client reference, not a
// missing server resource.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeNotFound:
		return http.StatusBadRequest
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
