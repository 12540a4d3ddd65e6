// Package ai provides the generative completion gateway and its provider
// implementations.
package ai

import "context"

// CompletionRequest carries a single chat completion attempt. The
// credential and model travel with the request because they are
// tenant-owned settings, not service configuration.
type CompletionRequest struct {
	// SystemPrompt establishes the assistant's role and business context.
	SystemPrompt string

	// UserMessage is the raw visitor message.
	UserMessage string

	// Model to use; empty selects the service-wide default.
	Model string

	// APIKey is the tenant's provider credential.
	APIKey string
}

// Gateway is the capability boundary to the completion provider. A
// failed completion is reported as an error value, never a panic; the
// resolution pipeline alone decides what a failure means (it treats it
// as a stage miss).
type Gateway interface {
	// Complete returns the completion text. The context carries the
	// timeout and cancellation bounds; there is no retry inside the
	// gateway, at most one provider call per invocation.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
