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

// GeminiGateway implements Gateway using Google's Gemini API.
type GeminiGateway struct {
	config     *config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// Gemini API request/response structures

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates     []geminiCandidate     `json:"candidates"`
	PromptFeedback *geminiPromptFeedback `json:"promptFeedback,omitempty"`
	Error          *geminiError          `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type geminiPromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// NewGeminiGateway creates a new Gemini completion gateway.
func NewGeminiGateway(cfg *config.AIConfig, logger *zap.Logger) *GeminiGateway {
	return &GeminiGateway{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.Named("gemini_gateway"),
	}
}

// Complete sends a single generateContent request. Gemini has no system
// role on this endpoint, so the system prompt is prepended to the user
// message.
func (g *GeminiGateway) Complete(ctx context.Context, req CompletionRequest) (string, error) {
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

	combined := req.UserMessage
	if req.SystemPrompt != "" {
		combined = fmt.Sprintf("%s\n\n---\n\n%s", req.SystemPrompt, req.UserMessage)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: combined}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			MaxOutputTokens: g.config.MaxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.WrapError("marshal_request", err, false)
	}

	url := g.buildURL(model, req.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", domain.WrapError("create_request", err, false)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", domain.WrapError("gemini_timeout", domain.ErrAITimeout, true)
		}
		return "", domain.WrapError("http_request", err, true)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.WrapError("read_response", err, true)
	}

	if resp.StatusCode != http.StatusOK {
		return "", g.handleHTTPError(resp.StatusCode, body)
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", domain.WrapError("parse_response", err, false)
	}

	if geminiResp.Error != nil {
		return "", domain.WrapError("gemini_api_error",
			fmt.Errorf("[%d] %s: %s", geminiResp.Error.Code, geminiResp.Error.Status, geminiResp.Error.Message), false)
	}

	if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
		return "", domain.WrapError("content_blocked",
			fmt.Errorf("prompt blocked: %s", geminiResp.PromptFeedback.BlockReason), false)
	}

	if len(geminiResp.Candidates) == 0 {
		return "", domain.WrapError("empty_response", domain.ErrEmptyCompletion, false)
	}

	candidate := geminiResp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return "", domain.WrapError("safety_filter",
			fmt.Errorf("response blocked by safety filter"), false)
	}

	var textContent strings.Builder
	for _, part := range candidate.Content.Parts {
		textContent.WriteString(part.Text)
	}

	completion := strings.TrimSpace(textContent.String())
	if completion == "" {
		return "", domain.WrapError("empty_completion", domain.ErrEmptyCompletion, false)
	}

	g.logger.Debug("completion finished",
		zap.Duration("duration", time.Since(startTime)),
		zap.Int("completion_length", len(completion)),
	)

	return completion, nil
}

// buildURL constructs the Gemini API URL with the key as a query parameter.
func (g *GeminiGateway) buildURL(model, apiKey string) string {
	baseURL := strings.TrimSuffix(g.config.BaseURL, "/")

	// Support both full URL and just the base
	if strings.Contains(baseURL, "/v1") || strings.Contains(baseURL, "/v1beta") {
		return fmt.Sprintf("%s/models/%s:generateContent?key=%s", baseURL, model, apiKey)
	}

	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", baseURL, model, apiKey)
}

// handleHTTPError maps HTTP error responses to gateway errors.
func (g *GeminiGateway) handleHTTPError(statusCode int, body []byte) error {
	var errResp geminiResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != nil {
		g.logger.Warn("Gemini API error",
			zap.Int("status", statusCode),
			zap.String("error_status", errResp.Error.Status),
			zap.String("error_message", errResp.Error.Message),
		)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return domain.WrapError("rate_limit", domain.ErrRateLimited, true)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.WrapError("auth_error",
			fmt.Errorf("authentication failed (status %d): check the tenant API key", statusCode), false)
	case http.StatusNotFound:
		return domain.WrapError("model_not_found",
			fmt.Errorf("model not found: check the configured model name"), false)
	default:
		if statusCode >= 500 {
			return domain.WrapError("gemini_unavailable", domain.ErrAIUnavailable, true)
		}
		return domain.WrapError("gemini_error",
			fmt.Errorf("Gemini API returned status %d: %s", statusCode, truncate(string(body), 200)), false)
	}
}
