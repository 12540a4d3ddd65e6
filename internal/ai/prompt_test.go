package ai

import (
	"testing"

	"github.com/replydesk/internal/domain"
)

func TestSystemPrompt(t *testing.T) {
	tests := []struct {
		name string
		cfg  domain.TenantConfig
		want string
	}{
		{
			name: "name and context",
			cfg: domain.TenantConfig{
				BusinessName: "Acme",
				AI:           domain.AISettings{BusinessContext: "We sell anvils."},
			},
			want: "You are a helpful assistant for Acme. We sell anvils.",
		},
		{
			name: "name only",
			cfg:  domain.TenantConfig{BusinessName: "Acme"},
			want: "You are a helpful assistant for Acme.",
		},
		{
			name: "nothing configured",
			cfg:  domain.TenantConfig{},
			want: "You are a helpful assistant for a business.",
		},
		{
			name: "whitespace name treated as unset",
			cfg:  domain.TenantConfig{BusinessName: "   "},
			want: "You are a helpful assistant for a business.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SystemPrompt(tt.cfg); got != tt.want {
				t.Errorf("SystemPrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}
