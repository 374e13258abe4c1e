package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MsgVerificationFailed is deliberately generic: it must not tell the caller
// whether the ids or the signature were wrong.
const MsgVerificationFailed = "Payment verification failed."

// ValidationError creates a 400 error for malformed or missing input
func ValidationError(message string, err error) *AppError {
	return NewAppError(http.StatusBadRequest, message, err)
}

// UnauthorizedError creates a 401 Unauthorized error
func UnauthorizedError(message string, err error) *AppError {
	return NewAppError(http.StatusUnauthorized, message, err)
}

// NotFoundError creates a 404 Not Found error
func NotFoundError(message string, err error) *AppError {
	return NewAppError(http.StatusNotFound, message, err)
}

// ConflictError creates a 409 Conflict error
func ConflictError(message string, err error) *AppError {
	return NewAppError(http.StatusConflict, message, err)
}

// ConfigurationError creates a 500 error for missing provider credentials
func ConfigurationError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// ProviderError creates a 500 error for an upstream payment processor failure.
// The message is what the caller sees; err is only logged.
func ProviderError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// VerificationFailedError creates the generic 400 signature-mismatch error
func VerificationFailedError(err error) *AppError {
	return NewAppError(http.StatusBadRequest, MsgVerificationFailed, err)
}

// InternalError creates a 500 error for unexpected failures
func InternalError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// ServiceUnavailableError creates a 503 Service Unavailable error
func ServiceUnavailableError(message string, err error) *AppError {
	return NewAppError(http.StatusServiceUnavailable, message, err)
}

// GetAppError returns the AppError if err is or wraps one
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	return GetAppError(err) != nil
}

// StatusCode returns the HTTP status an error maps to
func StatusCode(err error) int {
	if appErr := GetAppError(err); appErr != nil {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFoundError checks if an error is a "not found" error
func IsNotFoundError(err error) bool {
	return StatusCode(err) == http.StatusNotFound && IsAppError(err)
}

// IsBadRequestError checks if an error is a bad request error
func IsBadRequestError(err error) bool {
	return StatusCode(err) == http.StatusBadRequest && IsAppError(err)
}

// IsUnauthorizedError checks if an error is an unauthorized error
func IsUnauthorizedError(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized && IsAppError(err)
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return StatusCode(err) == http.StatusConflict && IsAppError(err)
}
