package apperr

import (
	"errors"
	"net/http"
)

// Error carries the HTTP status a failure should surface as. Handlers and
// stores return it; the response helpers map it onto the JSON envelope.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New constructs an Error with an explicit status code.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation marks a malformed or incomplete request (400).
func Validation(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Auth marks a missing or invalid credential (403).
func Auth(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound marks a lookup that matched nothing (404).
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict marks a duplicate or competing request (409).
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// From returns err as an *Error, wrapping unknown errors as a 500 so raw
// failures never reach the transport layer with their original text.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return New(http.StatusInternalServerError, "internal error")
}
