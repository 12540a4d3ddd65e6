package ai

import (
	"context"

	"go.uber.org/zap"
)

// MockGateway implements Gateway for testing and local development.
type MockGateway struct {
	logger *zap.Logger
}

// NewMockGateway creates a gateway that returns canned completions.
func NewMockGateway(logger *zap.Logger) *MockGateway {
	return &MockGateway{
		logger: logger.Named("mock_gateway"),
	}
}

// Complete returns a canned completion without calling any provider.
func (g *MockGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	g.logger.Debug("mock completion", zap.Int("message_length", len(req.UserMessage)))
	return "This is a mock AI reply. Set AI_MOCK_MODE=false to enable real completions.", nil
}
