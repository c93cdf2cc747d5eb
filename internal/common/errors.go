// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Common application errors.
var (
	// Gateway errors.
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrRequestTimeout     = errors.New("request timed out")
	ErrMaxRetries         = errors.New("max retries exceeded")

	// Selection errors.
	ErrUnknownRetailer = errors.New("unknown retailer code")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// RetryableError wraps an error with retry-specific metadata.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string {
	return e.Err.Error()
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// HTTPError represents a non-2xx response from the gateway. 5xx statuses are
// considered transient; 4xx statuses are not retried.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("gateway returned %d", e.Status)
}

// Retryable reports whether the status indicates a transient server failure.
func (e *HTTPError) Retryable() bool {
	return e.Status >= http.StatusInternalServerError
}

// NotImplementedError marks a backend capability that does not exist yet.
// Callers show "coming soon" for these instead of a failure.
type NotImplementedError struct {
	Resource string
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("%s is not implemented by the backend", e.Resource)
}

// IsNotImplemented reports whether err marks an absent backend capability.
func IsNotImplemented(err error) bool {
	var nie *NotImplementedError
	return errors.As(err, &nie)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrGatewayUnavailable) ||
		errors.Is(err, ErrRequestTimeout) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
