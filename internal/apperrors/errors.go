package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Code     string
	Message  string
	Internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []any {
	fields := []any{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
	}
	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}
	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	return &AppError{Type: errorType, Code: code, Message: message, Internal: err}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// Convenience constructors for common cases
func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, "VALIDATION", message)
}

func NewStorageError(err error) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE", "Storage operation failed")
}

func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api))
}
