package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestResolveError(t *testing.T) {
	wrapped := WrapError("ai_complete", ErrAITimeout, true)

	if got := wrapped.Error(); got != "ai_complete: AI provider timeout" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(wrapped, ErrAITimeout) {
		t.Error("wrapped error should match its sentinel")
	}
	if !IsRetryable(wrapped) {
		t.Error("IsRetryable should report the wrapped flag")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"retryable", WrapError("op", ErrAIUnavailable, true), true},
		{"terminal", WrapError("op", ErrMissingCredential, false), false},
		{"nested", fmt.Errorf("outer: %w", WrapError("op", ErrRateLimited, true)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
