package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidQuery indicates a query rejected before any backend call
	ErrorTypeInvalidQuery ErrorType = "INVALID_QUERY"

	// ErrorTypeBackendUnavailable indicates the search backend failed or timed out
	ErrorTypeBackendUnavailable ErrorType = "BACKEND_UNAVAILABLE"

	// ErrorTypeConfiguration indicates the configuration store is unreadable
	ErrorTypeConfiguration ErrorType = "CONFIGURATION"

	// ErrorTypeTracking indicates an interaction log write failed
	ErrorTypeTracking ErrorType = "TRACKING"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewInvalidQueryError creates a new invalid query error
func NewInvalidQueryError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidQuery,
		Message: message,
	}
}

// NewBackendUnavailableError creates a new backend unavailable error
func NewBackendUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeBackendUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfiguration,
		Message: message,
		Err:     err,
	}
}

// NewTrackingError creates a new tracking error
func NewTrackingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTracking,
		Message: message,
		Err:     err,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
