// Package resolver implements the reply-resolution pipeline: a fixed
// cascade of stages (auto-reply, advanced-reply, AI completion, fallback)
// evaluated in order until one produces a reply.
package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/replydesk/internal/ai"
	"github.com/replydesk/internal/domain"
	"github.com/replydesk/internal/matcher"
	"github.com/replydesk/internal/ruleset"
	"github.com/replydesk/pkg/normalize"
	"go.uber.org/zap"
)

// Stage names reported in ReplyResult.Source.
const (
	StageAutoReply     = "auto_reply"
	StageAdvancedReply = "advanced_reply"
	StageAI            = "ai"
	StageFallback      = "fallback"
)

// Config contains resolver settings.
type Config struct {
	// AITimeout bounds the completion call; zero selects a default.
	AITimeout time.Duration

	// MaxMessageSize caps the message handed to the AI stage, in bytes.
	MaxMessageSize int
}

const (
	defaultAITimeout      = 15 * time.Second
	defaultMaxMessageSize = 4000
)

// Resolver orchestrates the resolution cascade. It holds no per-call
// state, so a single Resolver is safe for concurrent use across tenants.
type Resolver struct {
	rules          ruleset.Index
	matcher        *matcher.Matcher
	gateway        ai.Gateway
	aiTimeout      time.Duration
	maxMessageSize int
	logger         *zap.Logger
}

// New creates a Resolver with all dependencies.
func New(rules ruleset.Index, m *matcher.Matcher, gateway ai.Gateway, cfg Config, logger *zap.Logger) *Resolver {
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = defaultAITimeout
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = defaultMaxMessageSize
	}
	return &Resolver{
		rules:          rules,
		matcher:        m,
		gateway:        gateway,
		aiTimeout:      cfg.AITimeout,
		maxMessageSize: cfg.MaxMessageSize,
		logger:         logger.Named("resolver"),
	}
}

// query carries a single resolution call through the stages.
type query struct {
	tenantID string
	message  string
	cfg      domain.TenantConfig
}

// stageFunc returns a result to short-circuit the cascade, or nil to
// fall through to the next stage. An error is also a fall-through; the
// runner logs it and keeps going.
type stageFunc func(ctx context.Context, q *query) (*domain.ReplyResult, error)

// Resolve runs the message through the cascade and always returns
// exactly one ReplyResult. Internal failures never surface to the
// caller; the worst case is the fallback text.
func (r *Resolver) Resolve(ctx context.Context, tenantID, message string, cfg domain.TenantConfig) domain.ReplyResult {
	start := time.Now()
	q := &query{
		tenantID: tenantID,
		message:  normalize.Trim(message),
		cfg:      cfg,
	}

	stages := []struct {
		name string
		fn   stageFunc
	}{
		{StageAutoReply, r.autoReplyStage},
		{StageAdvancedReply, r.advancedReplyStage},
		{StageAI, r.aiStage},
		{StageFallback, r.fallbackStage},
	}

	for _, st := range stages {
		result, err := st.fn(ctx, q)
		if err != nil {
			r.logger.Warn("stage failed, falling through",
				zap.String("stage", st.name),
				zap.String("tenant_id", tenantID),
				zap.Error(err),
			)
			continue
		}
		if result == nil {
			continue
		}

		result.Source = st.name
		r.logger.Debug("message resolved",
			zap.String("stage", st.name),
			zap.String("tenant_id", tenantID),
			zap.Duration("duration", time.Since(start)),
		)
		return *result
	}

	// Unreachable: the fallback stage never misses. Kept so the function
	// is total even if the stage list changes.
	return domain.ReplyResult{
		Kind:   domain.ReplyText,
		Text:   fallbackText(q.cfg),
		Source: StageFallback,
	}
}

// autoReplyStage scans the tenant's auto-reply rules in stored order and
// returns the first match. Stored order is the tie-break: there is no
// scoring across rules.
func (r *Resolver) autoReplyStage(ctx context.Context, q *query) (*domain.ReplyResult, error) {
	rules, err := r.rules.RulesFor(ctx, q.tenantID, domain.RuleClassAuto)
	if err != nil {
		return nil, domain.WrapError("fetch_auto_replies", err, false)
	}

	for i := range rules {
		if r.matcher.Matches(q.message, &rules[i]) {
			return &domain.ReplyResult{
				Kind: domain.ReplyText,
				Text: rules[i].Response,
			}, nil
		}
	}
	return nil, nil
}

// advancedReplyStage scans the advanced-reply rules. A match carries the
// configured response kind and button label so the caller can render the
// call-to-action.
func (r *Resolver) advancedReplyStage(ctx context.Context, q *query) (*domain.ReplyResult, error) {
	rules, err := r.rules.RulesFor(ctx, q.tenantID, domain.RuleClassAdvanced)
	if err != nil {
		return nil, domain.WrapError("fetch_advanced_replies", err, false)
	}

	for i := range rules {
		if !r.matcher.Matches(q.message, &rules[i]) {
			continue
		}

		kind := rules[i].ResponseKind
		if !kind.IsValid() || kind == domain.ReplyNone {
			kind = domain.ReplyText
		}
		return &domain.ReplyResult{
			Kind:       kind,
			Text:       rules[i].Response,
			ButtonText: rules[i].ButtonText,
		}, nil
	}
	return nil, nil
}

// aiStage asks the completion gateway for a reply. It only runs when the
// tenant enabled AI and supplied a credential; any gateway failure,
// including timeout, is a miss. One attempt, no retry.
func (r *Resolver) aiStage(ctx context.Context, q *query) (*domain.ReplyResult, error) {
	if !q.cfg.AI.Enabled || q.cfg.AI.APIKey == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.aiTimeout)
	defer cancel()

	completion, err := r.gateway.Complete(ctx, ai.CompletionRequest{
		SystemPrompt: ai.SystemPrompt(q.cfg),
		UserMessage:  normalize.Truncate(q.message, r.maxMessageSize),
		Model:        q.cfg.AI.Model,
		APIKey:       q.cfg.AI.APIKey,
	})
	if err != nil {
		return nil, domain.WrapError("ai_complete", err, false)
	}
	if strings.TrimSpace(completion) == "" {
		return nil, domain.WrapError("ai_complete", domain.ErrEmptyCompletion, false)
	}

	return &domain.ReplyResult{
		Kind: domain.ReplyText,
		Text: completion,
	}, nil
}

// fallbackStage always succeeds.
func (r *Resolver) fallbackStage(ctx context.Context, q *query) (*domain.ReplyResult, error) {
	return &domain.ReplyResult{
		Kind: domain.ReplyText,
		Text: fallbackText(q.cfg),
	}, nil
}

func fallbackText(cfg domain.TenantConfig) string {
	if text := strings.TrimSpace(cfg.FallbackMessage); text != "" {
		return cfg.FallbackMessage
	}
	return domain.DefaultFallbackMessage
}
