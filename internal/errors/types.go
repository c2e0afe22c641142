package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType defines the category of the error
type ErrorType string

const (
	ErrorTypeValidation        ErrorType = "VALIDATION_ERROR"
	ErrorTypeCredentialMissing ErrorType = "CREDENTIAL_MISSING"
	ErrorTypeNoModelAvailable  ErrorType = "NO_MODEL_AVAILABLE"
	ErrorTypeSystemFailure     ErrorType = "SYSTEM_FAILURE"
	ErrorTypeUnauthorized      ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal          ErrorType = "INTERNAL_ERROR"
)

// AppError represents a structured error for the application
type AppError struct {
	Type          ErrorType `json:"type"`
	Message       string    `json:"message"`
	StatusCode    int       `json:"statusCode"`
	ErrorCode     string    `json:"errorCode"`
	IsOperational bool      `json:"isOperational"`
	Recovery      string    `json:"recoverySuggestion,omitempty"`
	Detail        string    `json:"detail,omitempty"`
	Err           error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Code returns the application-specific error code
func (e *AppError) Code() string {
	return e.ErrorCode
}

// RecoverySuggestion returns the suggestion on how to recover from the error
func (e *AppError) RecoverySuggestion() string {
	return e.Recovery
}

// IsRetryable reports whether the user may simply try the same request again
// later. Configuration problems and bad input are not retryable.
func (e *AppError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNoModelAvailable, ErrorTypeSystemFailure:
		return true
	default:
		return false
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
// when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// As is a shorthand for errors.As with an *AppError target.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// NewValidationError creates a new validation error (400)
func NewValidationError(message string, errorCode string, suggestion string) *AppError {
	return &AppError{
		Type:          ErrorTypeValidation,
		Message:       message,
		StatusCode:    http.StatusBadRequest,
		ErrorCode:     errorCode,
		IsOperational: true,
		Recovery:      suggestion,
	}
}

// NewUnauthorizedError creates a new authentication error (401)
func NewUnauthorizedError(message string, errorCode string) *AppError {
	return &AppError{
		Type:          ErrorTypeUnauthorized,
		Message:       message,
		StatusCode:    http.StatusUnauthorized,
		ErrorCode:     errorCode,
		IsOperational: true,
	}
}

// NewCredentialMissingError is returned before any upstream call when no
// API key could be resolved (500).
func NewCredentialMissingError(key string) *AppError {
	return &AppError{
		Type:          ErrorTypeCredentialMissing,
		Message:       "API key not found. Check the environment configuration.",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "ERROR_KEY_MISSING",
		IsOperational: true,
		Recovery:      fmt.Sprintf("Set %s in the environment or the secrets file and try again.", key),
	}
}

// NewNoModelAvailableError is returned once every candidate model has failed (503).
// err is the last per-candidate failure; it is kept for logs only.
func NewNoModelAvailableError(attempts int, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeNoModelAvailable,
		Message:       fmt.Sprintf("no Gemini model succeeded after %d attempts", attempts),
		StatusCode:    http.StatusServiceUnavailable,
		ErrorCode:     "ERROR_MODEL_NOT_FOUND",
		IsOperational: true,
		Recovery:      "AI model unavailable. Check the documentation for supported models.",
		Err:           err,
	}
}

// NewSystemFailureError wraps an unexpected failure outside the model loop (500).
// The cause's message is surfaced as Detail for diagnostics.
func NewSystemFailureError(err error) *AppError {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &AppError{
		Type:          ErrorTypeSystemFailure,
		Message:       "system failure",
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     "ERROR_SYSTEM",
		IsOperational: false,
		Recovery:      "A system error occurred. Check your internet connection and try again.",
		Detail:        detail,
		Err:           err,
	}
}

// NewInternalError creates a generic internal error (500)
func NewInternalError(message string, errorCode string, err error) *AppError {
	return &AppError{
		Type:          ErrorTypeInternal,
		Message:       message,
		StatusCode:    http.StatusInternalServerError,
		ErrorCode:     errorCode,
		IsOperational: false,
		Err:           err,
	}
}
