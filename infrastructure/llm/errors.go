package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by providers.
var (
	// ErrEmptyAPIKey indicates that an API key was required but not
	// provided.
	ErrEmptyAPIKey = errors.New("API key cannot be empty")

	// ErrEmptyResponse indicates the provider returned no content.
	ErrEmptyResponse = errors.New("empty response from provider")
)

// ErrorType classifies a provider error for standardized handling,
// in particular for deciding retryability.
type ErrorType int

const (
	// ErrorTypeUnknown is an error of undetermined category.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuthentication is an invalid or rejected credential.
	ErrorTypeAuthentication
	// ErrorTypeRateLimit means the provider throttled the request.
	ErrorTypeRateLimit
	// ErrorTypeBadRequest is a malformed request or invalid parameter.
	ErrorTypeBadRequest
	// ErrorTypeServerError is a failure on the provider's side.
	ErrorTypeServerError
	// ErrorTypeNetwork is a client-side transport problem.
	ErrorTypeNetwork
	// ErrorTypeTimeout means the request exceeded its deadline.
	ErrorTypeTimeout
)

// ProviderError normalizes provider-specific failures into a common
// shape carrying the classified type and HTTP status when known.
type ProviderError struct {
	// Provider names the LLM provider that produced the error.
	Provider string
	// Type classifies the error.
	Type ErrorType
	// StatusCode is the HTTP status from the provider, 0 when absent.
	StatusCode int
	// Message is a short human-readable description.
	Message string
	// Err is the underlying provider error.
	Err error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d): %v", e.Provider, e.Message, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError creates a classified ProviderError.
func NewProviderError(provider string, errType ErrorType, status int, message string, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Type:       errType,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// ErrorClassifier maps raw provider failures onto ProviderError values
// for one provider.
type ErrorClassifier struct {
	// Provider is stamped onto every classified error.
	Provider string
}

// ClassifyHTTPError classifies an error by its HTTP status code.
func (c *ErrorClassifier) ClassifyHTTPError(status int, message string, err error) error {
	var errType ErrorType
	switch {
	case status == 401 || status == 403:
		errType = ErrorTypeAuthentication
	case status == 429:
		errType = ErrorTypeRateLimit
	case status >= 400 && status < 500:
		errType = ErrorTypeBadRequest
	case status >= 500:
		errType = ErrorTypeServerError
	default:
		errType = ErrorTypeUnknown
	}
	return NewProviderError(c.Provider, errType, status, message, err)
}

// ClassifyContextError classifies cancellation and deadline errors.
func (c *ErrorClassifier) ClassifyContextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(c.Provider, ErrorTypeTimeout, 0, "request timed out", err)
	}
	return NewProviderError(c.Provider, ErrorTypeNetwork, 0, "request canceled", err)
}

// IsTransient reports whether an error is likely to succeed on retry:
// rate limits, server errors, timeouts, and network failures. Callers
// map transient failures onto the domain's retryable taxonomy.
func IsTransient(err error) bool {
	var pe *ProviderError
	if !errors.As(err, &pe) {
		return false
	}
	switch pe.Type {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout, ErrorTypeNetwork:
		return true
	}
	return false
}
