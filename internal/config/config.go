// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/replydesk/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Server ServerConfig

	// AI gateway configuration
	AI AIConfig

	// Store configuration
	Store StoreConfig

	// Request limits
	Limits LimitsConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the HTTP port to listen on.
	Port string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
}

// AIProvider represents the completion provider to use.
type AIProvider string

const (
	// AIProviderOpenAI uses an OpenAI-compatible chat completions API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGemini uses the Google Gemini API.
	AIProviderGemini AIProvider = "gemini"
)

// AIConfig contains completion gateway settings. Credentials are not
// configured here: each tenant supplies its own API key per call.
type AIConfig struct {
	// Provider selects the gateway implementation (openai, gemini).
	Provider AIProvider

	// BaseURL is the base URL for the provider API.
	BaseURL string

	// DefaultModel is used when a tenant has not configured one.
	DefaultModel string

	// Timeout bounds a single completion call.
	Timeout time.Duration

	// MaxTokens caps the completion length.
	MaxTokens int

	// MockMode enables canned completions for testing without API calls.
	MockMode bool
}

// StoreConfig contains rule and settings store settings.
type StoreConfig struct {
	// DatabaseURL is the Postgres connection string.
	DatabaseURL string

	// MemoryMode runs with an empty in-memory store for local development.
	MemoryMode bool
}

// LimitsConfig contains request limit settings.
type LimitsConfig struct {
	// MaxMessageSize caps the inbound message in bytes before the AI stage.
	MaxMessageSize int

	// ResolveRate is resolutions per second allowed per tenant; 0 disables
	// rate limiting.
	ResolveRate float64

	// ResolveBurst is the per-tenant burst capacity.
	ResolveBurst int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Determine AI provider
	provider := AIProvider(getEnvOrDefault("AI_PROVIDER", "openai"))

	// Set provider-specific defaults
	var defaultBaseURL, defaultModel string
	switch provider {
	case AIProviderGemini:
		defaultBaseURL = "https://generativelanguage.googleapis.com"
		defaultModel = "gemini-2.0-flash"
	default:
		provider = AIProviderOpenAI
		defaultBaseURL = "https://api.openai.com/v1"
		defaultModel = "gpt-3.5-turbo"
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvOrDefault("PORT", "8080"),
			ReadTimeout:  getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		AI: AIConfig{
			Provider:     provider,
			BaseURL:      getEnvOrDefault("AI_BASE_URL", defaultBaseURL),
			DefaultModel: getEnvOrDefault("AI_DEFAULT_MODEL", defaultModel),
			Timeout:      getDurationOrDefault("AI_TIMEOUT", 15*time.Second),
			MaxTokens:    getIntOrDefault("AI_MAX_TOKENS", 150),
			MockMode:     getBoolOrDefault("AI_MOCK_MODE", false),
		},
		Store: StoreConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			MemoryMode:  getBoolOrDefault("STORE_MEMORY_MODE", false),
		},
		Limits: LimitsConfig{
			MaxMessageSize: getIntOrDefault("MAX_MESSAGE_SIZE", 4000),
			ResolveRate:    getFloatOrDefault("RESOLVE_RATE_LIMIT", 5),
			ResolveBurst:   getIntOrDefault("RESOLVE_RATE_BURST", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !c.Store.MemoryMode && c.Store.DatabaseURL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required when not in memory mode", domain.ErrInvalidConfig)
	}

	if c.AI.Timeout < time.Second {
		return fmt.Errorf("%w: AI_TIMEOUT must be at least 1 second", domain.ErrInvalidConfig)
	}

	if c.AI.MaxTokens < 1 {
		return fmt.Errorf("%w: AI_MAX_TOKENS must be positive", domain.ErrInvalidConfig)
	}

	if c.Limits.MaxMessageSize < 100 {
		return fmt.Errorf("%w: MAX_MESSAGE_SIZE must be at least 100 bytes", domain.ErrInvalidConfig)
	}

	if c.Limits.ResolveRate < 0 {
		return fmt.Errorf("%w: RESOLVE_RATE_LIMIT must not be negative", domain.ErrInvalidConfig)
	}

	if c.Limits.ResolveRate > 0 && c.Limits.ResolveBurst < 1 {
		return fmt.Errorf("%w: RESOLVE_RATE_BURST must be at least 1", domain.ErrInvalidConfig)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getFloatOrDefault(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		// Try parsing as seconds first (e.g., "15")
		if secs, err := strconv.Atoi(val); err == nil {
			return time.Duration(secs) * time.Second
		}
		// Try parsing as duration string (e.g., "15s", "1m")
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
