// Package domain contains the core domain models and types.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure cases.
var (
	// ErrEmptyMessage indicates the inbound message is empty or whitespace only.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrAITimeout indicates the completion provider did not respond in time.
	ErrAITimeout = errors.New("AI provider timeout")

	// ErrAIUnavailable indicates the completion provider is not available.
	ErrAIUnavailable = errors.New("AI provider unavailable")

	// ErrEmptyCompletion indicates the provider returned no usable text.
	ErrEmptyCompletion = errors.New("empty AI completion")

	// ErrMissingCredential indicates the tenant has no provider credential.
	ErrMissingCredential = errors.New("missing AI credential")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ResolveError wraps an error with additional context.
type ResolveError struct {
	// Op is the operation that failed.
	Op string

	// Err is the underlying error.
	Err error

	// Retryable indicates if the operation could succeed on a retry.
	// The pipeline itself never retries; the flag is for callers with
	// their own retry policy.
	Retryable bool
}

// Error implements the error interface.
func (e *ResolveError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// WrapError creates a new ResolveError with context.
func WrapError(op string, err error, retryable bool) *ResolveError {
	return &ResolveError{
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var re *ResolveError
	if errors.As(err, &re) {
		return re.Retryable
	}
	return false
}
