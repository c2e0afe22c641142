package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := &AppError{
		Message: "something went wrong",
	}
	if err.Error() != "something went wrong" {
		t.Errorf("expected 'something went wrong', got %v", err.Error())
	}

	wrappedErr := errors.New("underlying error")
	errWithWrap := &AppError{
		Message: "failed operation",
		Err:     wrappedErr,
	}
	expected := "failed operation: underlying error"
	if errWithWrap.Error() != expected {
		t.Errorf("expected %q, got %q", expected, errWithWrap.Error())
	}
	if !errors.Is(errWithWrap, wrappedErr) {
		t.Error("expected AppError to unwrap to its cause")
	}
}

func TestAppError_Code(t *testing.T) {
	err := &AppError{
		ErrorCode: "ERR_CODE_123",
	}
	if err.Code() != "ERR_CODE_123" {
		t.Errorf("expected ERR_CODE_123, got %v", err.Code())
	}
}

func TestAppError_IsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want bool
	}{
		{
			name: "no model available is retryable",
			err:  NewNoModelAvailableError(3, nil),
			want: true,
		},
		{
			name: "system failure is retryable",
			err:  NewSystemFailureError(errors.New("dial tcp: timeout")),
			want: true,
		},
		{
			name: "missing credential is not retryable",
			err:  NewCredentialMissingError("GEMINI_API_KEY"),
			want: false,
		},
		{
			name: "validation error is not retryable",
			err:  NewValidationError("bad", "BAD", ""),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.IsRetryable(); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantType   ErrorType
		wantStatus int
		wantCode   string
	}{
		{"credential missing", NewCredentialMissingError("GEMINI_API_KEY"), ErrorTypeCredentialMissing, http.StatusInternalServerError, "ERROR_KEY_MISSING"},
		{"no model available", NewNoModelAvailableError(5, nil), ErrorTypeNoModelAvailable, http.StatusServiceUnavailable, "ERROR_MODEL_NOT_FOUND"},
		{"system failure", NewSystemFailureError(errors.New("boom")), ErrorTypeSystemFailure, http.StatusInternalServerError, "ERROR_SYSTEM"},
		{"validation", NewValidationError("bad diet", "INVALID_DIET", "pick one"), ErrorTypeValidation, http.StatusBadRequest, "INVALID_DIET"},
		{"unauthorized", NewUnauthorizedError("no token", "MISSING_TOKEN"), ErrorTypeUnauthorized, http.StatusUnauthorized, "MISSING_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", tt.err.Type, tt.wantType)
			}
			if tt.err.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.wantStatus)
			}
			if tt.err.Code() != tt.wantCode {
				t.Errorf("Code() = %s, want %s", tt.err.Code(), tt.wantCode)
			}
		})
	}
}

func TestSystemFailureCarriesDetail(t *testing.T) {
	err := NewSystemFailureError(errors.New("failed to create genai client: bad config"))
	if err.Detail != "failed to create genai client: bad config" {
		t.Errorf("unexpected detail %q", err.Detail)
	}

	if NewSystemFailureError(nil).Detail != "" {
		t.Error("expected empty detail for nil cause")
	}
}

func TestTypeOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewCredentialMissingError("GEMINI_API_KEY"))
	if got := TypeOf(wrapped); got != ErrorTypeCredentialMissing {
		t.Errorf("TypeOf() = %q, want %q", got, ErrorTypeCredentialMissing)
	}
	if got := TypeOf(errors.New("plain")); got != "" {
		t.Errorf("TypeOf(plain) = %q, want empty", got)
	}

	appErr, ok := As(wrapped)
	if !ok || appErr.Code() != "ERROR_KEY_MISSING" {
		t.Errorf("As() = %v, %v", appErr, ok)
	}
}
