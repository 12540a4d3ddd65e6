package ai

import (
	"fmt"
	"strings"

	"github.com/replydesk/internal/domain"
)

// SystemPrompt assembles the system role content for a tenant: the
// assistant persona bound to the business name, plus whatever business
// context the tenant configured.
func SystemPrompt(cfg domain.TenantConfig) string {
	business := strings.TrimSpace(cfg.BusinessName)
	if business == "" {
		business = "a business"
	}

	prompt := fmt.Sprintf("You are a helpful assistant for %s.", business)
	if ctx := strings.TrimSpace(cfg.AI.BusinessContext); ctx != "" {
		prompt += " " + ctx
	}
	return prompt
}
