package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a domain failure that carries the HTTP status it should be
// reported with and the external detail message. Detail messages are part
// of the API contract: login failures and reset-token failures are kept
// deliberately vague so callers cannot enumerate accounts or distinguish
// token states.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// BadRequest is shorthand for a 400 with the given detail.
func BadRequest(detail string) *Error {
	return &Error{Status: http.StatusBadRequest, Detail: detail}
}

// Validation is shorthand for a 422 with the given detail.
func Validation(detail string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Detail: detail}
}

// NotFound is shorthand for a 404 with the given detail.
func NotFound(detail string) *Error {
	return &Error{Status: http.StatusNotFound, Detail: detail}
}

// NotFoundf formats a 404 detail.
func NotFoundf(format string, v ...interface{}) *Error {
	return &Error{Status: http.StatusNotFound, Detail: fmt.Sprintf(format, v...)}
}

// Shared failures. The uniform wording matters: authentication failures are
// indistinguishable regardless of root cause, and an already-used reset
// token reports the same detail as an expired one.
var (
	ErrInvalidCredentials = &Error{Status: http.StatusBadRequest, Detail: "Invalid credentials"}
	ErrDuplicateEmail     = &Error{Status: http.StatusBadRequest, Detail: "Email already registered"}
	ErrUnauthenticated    = &Error{Status: http.StatusUnauthorized, Detail: "Could not validate credentials"}
	ErrForbidden          = &Error{Status: http.StatusForbidden, Detail: "Insufficient permissions"}
	ErrInvalidResetToken  = &Error{Status: http.StatusBadRequest, Detail: "Invalid token"}
	ErrExpiredResetToken  = &Error{Status: http.StatusBadRequest, Detail: "Expired token"}
)

// As unwraps err into *Error when possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
