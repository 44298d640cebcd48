// Package domainerrors defines the coded error type used across service and
// transport layers. Services attach a Code describing the kind of failure;
// handlers translate codes into HTTP statuses without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks malformed or missing input. Client's fault, no
	// state change.
	CodeValidation Code = "validation"
	// CodeUnauthorized marks requests without a usable authenticated identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden marks callers that lack rights over the target entity.
	CodeForbidden Code = "forbidden"
	// CodeNotFound marks an absent target identifier.
	CodeNotFound Code = "not_found"
	// CodeConflict marks an operation rejected by the entity's current state.
	CodeConflict Code = "conflict"
	// CodeInternal marks infrastructure failures, including store errors. The
	// underlying message is preserved so callers can surface it.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It optionally wraps a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause remains
// reachable through errors.Is/As so sentinel checks keep working.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// ToHTTPStatus maps a code to its HTTP response status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
