package recipe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrEmptyResponse is returned by a Generator when the model answered with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// UpstreamError is an HTTP-level rejection from the model API.
type UpstreamError struct {
	Model      string
	StatusCode int
	Status     string
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model %s: HTTP %d %s: %s", e.Model, e.StatusCode, e.Status, e.Message)
}

// Failure kinds used for logs and metrics. None of them changes control flow:
// every failed candidate is followed by the next one.
const (
	FailureNotFound      = "not_found"
	FailureRateLimit     = "rate_limit"
	FailureServerError   = "server_error"
	FailureClientError   = "client_error"
	FailureTimeout       = "timeout"
	FailureEmptyResponse = "empty_response"
	FailureUnknown       = "unknown"
)

// CandidateError is a classified failure of one candidate model.
type CandidateError struct {
	Type    string
	Message string
	Model   string
}

func (e *CandidateError) Error() string {
	return e.Message
}

// ClassifyError buckets a candidate failure.
func ClassifyError(err error, model string) *CandidateError {
	if err == nil {
		return nil
	}
	return &CandidateError{Type: classify(err), Message: err.Error(), Model: model}
}

func classify(err error) string {
	if errors.Is(err, ErrEmptyResponse) {
		return FailureEmptyResponse
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		switch code := upstream.StatusCode; {
		case code == 404:
			return FailureNotFound
		case code == 429:
			return FailureRateLimit
		case code >= 500:
			return FailureServerError
		case code >= 400:
			return FailureClientError
		}
	}

	msg := err.Error()
	switch {
	case containsSubstring(msg, "404"),
		containsSubstring(msg, "not found"),
		containsSubstring(msg, "is not supported for generatecontent"):
		return FailureNotFound
	case containsSubstring(msg, "429"),
		containsSubstring(msg, "rate limit"),
		containsSubstring(msg, "resource_exhausted"),
		containsSubstring(msg, "quota"),
		containsSubstring(msg, "too many requests"):
		return FailureRateLimit
	case containsSubstring(msg, "timeout"),
		containsSubstring(msg, "deadline exceeded"):
		return FailureTimeout
	case containsSubstring(msg, "status 5"),
		containsSubstring(msg, "HTTP 5"),
		containsSubstring(msg, "server error"),
		containsSubstring(msg, "unavailable"),
		containsSubstring(msg, "internal error"):
		return FailureServerError
	case containsSubstring(msg, "status 4"),
		containsSubstring(msg, "HTTP 4"),
		containsSubstring(msg, "bad request"),
		containsSubstring(msg, "invalid argument"),
		containsSubstring(msg, "permission denied"),
		containsSubstring(msg, "unauthorized"),
		containsSubstring(msg, "forbidden"):
		return FailureClientError
	}
	return FailureUnknown
}

// IsRetryableError reports whether the same model might succeed if called again.
// Fallback does not consult it; it feeds the retryable log attribute.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	switch classify(err) {
	case FailureRateLimit, FailureServerError, FailureTimeout:
		return true
	default:
		return false
	}
}

// containsSubstring checks if a string contains a substring (case-insensitive)
func containsSubstring(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
