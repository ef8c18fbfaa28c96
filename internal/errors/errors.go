package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is a typed domain failure carrying a machine-readable code.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error renders the human-readable message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// E builds a typed Error.
func E(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Ef builds a typed Error with a formatted message.
func Ef(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a typed Error around a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// HTTPStatus maps any error to an HTTP status code for client responses.
func HTTPStatus(err error) int {
	return GetCode(err).HTTPStatus()
}
