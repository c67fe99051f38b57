package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Domain errors
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"

	// Guard rejections: invariant-preserving refusals (locked layer,
	// last remaining layer, duplicate layer name). Surfaced to the user
	// as warnings, never as validation failures.
	ErrorTypeGuard ErrorType = "GUARD"

	// Application errors
	ErrorTypeInternal ErrorType = "INTERNAL"

	// Infrastructure errors
	ErrorTypeIO ErrorType = "IO"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewGuardError creates a guard rejection
func NewGuardError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeGuard,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewLockedLayerError creates a guard rejection for a mutation attempt on a
// locked layer. Callers surface this distinctly from validation failures.
func NewLockedLayerError(layer string) *AppError {
	return &AppError{
		Type:       ErrorTypeGuard,
		Message:    fmt.Sprintf("layer %q is locked", layer),
		Code:       "LAYER_LOCKED",
		HTTPStatus: http.StatusLocked,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewIOError creates an I/O error for file operations
func NewIOError(operation string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeIO,
		Message:    fmt.Sprintf("file operation %q failed", operation),
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsGuard checks if an error is a guard rejection
func IsGuard(err error) bool {
	return IsType(err, ErrorTypeGuard)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsIO checks if an error is an I/O error
func IsIO(err error) bool {
	return IsType(err, ErrorTypeIO)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
