package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode categorizes gateway failures.
type ErrorCode string

const (
	// ErrCodeNotReady means a send was attempted while the session is not
	// authenticated. The caller is expected to retry later.
	ErrCodeNotReady ErrorCode = "NOT_READY"

	// ErrCodeInvalidInput means the request was missing required fields.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeRelayFailed means the underlying send call itself failed.
	// Network timeouts and remote rejections surface identically.
	ErrCodeRelayFailed ErrorCode = "RELAY_FAILED"

	// ErrCodeLookupFailed means the directory confirmation step failed.
	// It is absorbed by the resolver's fallback and never reaches a caller.
	ErrCodeLookupFailed ErrorCode = "LOOKUP_FAILED"

	// Configuration and catch-all codes
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured gateway error.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with a gateway error code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Cause: err}
}

// GetCode extracts the error code from an error.
func GetCode(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// CauseMessage returns the message of the wrapped cause, or the error's own
// message when there is none. The /send contract exposes the raw provider
// error text, not the internal code prefix.
func CauseMessage(err error) string {
	if appErr, ok := err.(*AppError); ok {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}

// HTTPStatusCode maps error codes to HTTP statuses for the facade.
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotReady:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
