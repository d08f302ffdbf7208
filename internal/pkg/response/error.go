package response

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError is an error with an HTTP status. Anything else reaching the
// adapter is reported as a 500 without its message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func NewError(code int, msg string) *AppError {
	return &AppError{Code: code, Message: msg}
}

// Wrap attaches a status to err, keeping err's text as the message.
func Wrap(code int, err error) *AppError {
	return &AppError{Code: code, Message: err.Error(), Err: err}
}

func BadRequest(msg string) error { return NewError(http.StatusBadRequest, msg) }

func Unauthorized(msg string) error { return NewError(http.StatusUnauthorized, msg) }

func Forbidden(msg string) error { return NewError(http.StatusForbidden, msg) }

func NotFound(msg string) error { return NewError(http.StatusNotFound, msg) }

func Conflict(msg string) error { return NewError(http.StatusConflict, msg) }

// StatusOf returns the status an error should be rendered with and the
// message safe to show to the client.
func StatusOf(err error) (int, string) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code, ae.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
