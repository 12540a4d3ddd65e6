package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/replydesk/internal/config"
	"github.com/replydesk/internal/domain"
	"go.uber.org/zap"
)

// OpenAIGateway implements Gateway using an OpenAI-compatible chat
// completions API.
type OpenAIGateway struct {
	config     *config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// OpenAI API request/response structures
type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewOpenAIGateway creates a new OpenAI-compatible completion gateway.
func NewOpenAIGateway(cfg *config.AIConfig, logger *zap.Logger) *OpenAIGateway {
	return &OpenAIGateway{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("openai_gateway"),
	}
}

// Complete sends one chat completion request and returns the completion
// text. There is no retry: the resolution pipeline makes at most one
// attempt per message.
func (g *OpenAIGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if req.APIKey == "" {
		return "", domain.WrapError("missing_credential", domain.ErrMissingCredential, false)
	}

	model := req.Model
	if model == "" {
		model = g.config.DefaultModel
	}

	startTime := time.Now()
	g.logger.Debug("starting completion",
		zap.String("model", model),
		zap.Int("message_length", len(req.UserMessage)),
	)

	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserMessage},
		},
		MaxTokens: g.config.MaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.WrapError("marshal_request", err, false)
	}

	url := fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(g.config.BaseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.WrapError("create_request", err, false)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", req.APIKey))

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", domain.WrapError("ai_timeout", domain.ErrAITimeout, true)
		}
		return "", domain.WrapError("http_request", err, true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.WrapError("read_response", err, true)
	}

	// Handle HTTP errors
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests {
			return "", domain.WrapError("rate_limit", domain.ErrRateLimited, true)
		}
		if resp.StatusCode >= 500 {
			return "", domain.WrapError("ai_unavailable", domain.ErrAIUnavailable, true)
		}
		return "", domain.WrapError("ai_error",
			fmt.Errorf("AI API returned status %d: %s", resp.StatusCode, truncate(string(body), 200)), false)
	}

	// Parse the response
	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", domain.WrapError("parse_response", err, false)
	}

	if chatResp.Error != nil {
		return "", domain.WrapError("ai_api_error",
			fmt.Errorf("%s: %s", chatResp.Error.Type, chatResp.Error.Message), false)
	}

	if len(chatResp.Choices) == 0 {
		return "", domain.WrapError("empty_response", domain.ErrEmptyCompletion, false)
	}

	completion := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if completion == "" {
		return "", domain.WrapError("empty_completion", domain.ErrEmptyCompletion, false)
	}

	g.logger.Debug("completion finished",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("completion_length", len(completion)),
	)

	return completion, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
