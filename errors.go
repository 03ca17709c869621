package htmltable

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	EINTERNAL = "internal"
	EINVALID  = "invalid"
	ENOTFOUND = "not_found"
	EFETCH    = "fetch"
)

// Error represents an application-specific error. Code is machine-readable,
// Message is meant for the end user.
type Error struct {
	Code    string
	Message string

	// Err is the underlying cause, if the message was built with %w.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("htmltable error: code=%s message=%s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf is a helper function to return an Error with a given code and
// formatted message. A %w verb in format records the wrapped cause.
func Errorf(code string, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{
		Code:    code,
		Message: err.Error(),
		Err:     errors.Unwrap(err),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}
