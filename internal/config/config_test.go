package config

import (
	"errors"
	"testing"
	"time"

	"github.com/replydesk/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_MEMORY_MODE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.AI.Provider != AIProviderOpenAI {
		t.Errorf("Provider = %q, want openai", cfg.AI.Provider)
	}
	if cfg.AI.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.DefaultModel != "gpt-3.5-turbo" {
		t.Errorf("DefaultModel = %q", cfg.AI.DefaultModel)
	}
	if cfg.AI.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.AI.Timeout)
	}
	if cfg.AI.MaxTokens != 150 {
		t.Errorf("MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.Limits.MaxMessageSize != 4000 {
		t.Errorf("MaxMessageSize = %d", cfg.Limits.MaxMessageSize)
	}
}

func TestLoad_GeminiProviderDefaults(t *testing.T) {
	t.Setenv("STORE_MEMORY_MODE", "true")
	t.Setenv("AI_PROVIDER", "gemini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AI.Provider != AIProviderGemini {
		t.Errorf("Provider = %q, want gemini", cfg.AI.Provider)
	}
	if cfg.AI.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.DefaultModel != "gemini-2.0-flash" {
		t.Errorf("DefaultModel = %q", cfg.AI.DefaultModel)
	}
}

func TestLoad_UnknownProviderFallsBackToOpenAI(t *testing.T) {
	t.Setenv("STORE_MEMORY_MODE", "true")
	t.Setenv("AI_PROVIDER", "anthropic")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Provider != AIProviderOpenAI {
		t.Errorf("Provider = %q, want openai fallback", cfg.AI.Provider)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_MEMORY_MODE", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("AI_TIMEOUT", "30")
	t.Setenv("AI_MAX_TOKENS", "256")
	t.Setenv("RESOLVE_RATE_LIMIT", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q", cfg.Server.Port)
	}
	if cfg.AI.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want bare seconds parsed", cfg.AI.Timeout)
	}
	if cfg.AI.MaxTokens != 256 {
		t.Errorf("MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.Limits.ResolveRate != 2.5 {
		t.Errorf("ResolveRate = %v", cfg.Limits.ResolveRate)
	}
}

func TestLoad_DurationString(t *testing.T) {
	t.Setenv("STORE_MEMORY_MODE", "true")
	t.Setenv("AI_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AI.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v", cfg.AI.Timeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AI: AIConfig{
				Timeout:   15 * time.Second,
				MaxTokens: 150,
			},
			Store: StoreConfig{MemoryMode: true},
			Limits: LimitsConfig{
				MaxMessageSize: 4000,
				ResolveRate:    5,
				ResolveBurst:   10,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"rate limiting disabled", func(c *Config) { c.Limits.ResolveRate = 0; c.Limits.ResolveBurst = 0 }, false},
		{"no database outside memory mode", func(c *Config) { c.Store.MemoryMode = false }, true},
		{"ai timeout too short", func(c *Config) { c.AI.Timeout = 500 * time.Millisecond }, true},
		{"max tokens zero", func(c *Config) { c.AI.MaxTokens = 0 }, true},
		{"message size too small", func(c *Config) { c.Limits.MaxMessageSize = 50 }, true},
		{"negative rate", func(c *Config) { c.Limits.ResolveRate = -1 }, true},
		{"rate without burst", func(c *Config) { c.Limits.ResolveBurst = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidConfig) {
				t.Errorf("error %v should wrap ErrInvalidConfig", err)
			}
		})
	}
}
