package proxy

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the closed error kind used across the proxy layer. Every failure
// a route handler can see is one of these; the HTTP layer maps Status and
// Message straight into the client-facing body.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewError builds an error for an arbitrary status. Unmapped statuses fall
// back to the internal kind.
func NewError(status int, message string) *Error {
	code := "internal"
	switch status {
	case http.StatusBadRequest:
		code = "bad_request"
	case http.StatusUnauthorized:
		code = "unauthorized"
	case http.StatusForbidden:
		code = "forbidden"
	case http.StatusNotFound:
		code = "not_found"
	case http.StatusBadGateway:
		code = "bad_gateway"
	}
	return &Error{Status: status, Code: code, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "forbidden", Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", Message: message}
}

func BadGateway(message string) *Error {
	return &Error{Status: http.StatusBadGateway, Code: "bad_gateway", Message: message}
}

func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "internal", Message: message}
}

// AsError normalizes any error into *Error. Unknown errors become the
// internal kind with a generic message so upstream detail never leaks.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return Internal("internal error")
}

// Errorf is a formatting convenience for the internal kind.
func Errorf(format string, args ...any) *Error {
	return Internal(fmt.Sprintf(format, args...))
}
