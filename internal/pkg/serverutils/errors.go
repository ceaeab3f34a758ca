package serverutils

import (
	"fmt"
	"net/http"
)

// AppError carries the HTTP status an error should be answered with.
type AppError struct {
	Code    int
	Message string
	Details *string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ConfigurationMissing: a required setting (API key, database URL) is absent.
func ConfigurationMissing(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message}
}

// ValidationFailed: the body is malformed or violates a constraint.
func ValidationFailed(err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: err.Error(), Err: err}
}

// BadRequest: a required query parameter is missing.
func BadRequest(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message}
}

// Upstream relays a provider failure with the provider's own status code and raw body.
func Upstream(status int, message, body string) *AppError {
	return &AppError{Code: status, Message: message, Details: &body}
}

func NotFound(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message}
}

func MethodNotAllowed() *AppError {
	return &AppError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"}
}
