// Package store provides the rule and tenant-settings sources consumed
// by the resolution pipeline and the HTTP surface.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/replydesk/internal/domain"
	"go.uber.org/zap"
)

// Postgres reads reply rules and tenant settings from a Postgres
// database. It implements ruleset.Index; rules come back newest-first,
// the canonical order the dashboard stores them in, and the pipeline
// never re-sorts.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates a store backed by the given connection pool.
func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) *Postgres {
	return &Postgres{
		pool:   pool,
		logger: logger.Named("postgres_store"),
	}
}

// schema holds the tables this service reads. Keywords are a text array;
// ids default to a random UUID so external writers may omit them.
const schema = `
CREATE TABLE IF NOT EXISTS auto_replies (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id     TEXT NOT NULL,
	keywords      TEXT[] NOT NULL,
	matching_type TEXT NOT NULL DEFAULT 'word',
	response      TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS auto_replies_tenant_idx ON auto_replies (tenant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS advanced_replies (
	id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	tenant_id     TEXT NOT NULL,
	keywords      TEXT[] NOT NULL,
	matching_type TEXT NOT NULL DEFAULT 'word',
	response      TEXT NOT NULL,
	response_type TEXT NOT NULL DEFAULT 'text',
	button_text   TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS advanced_replies_tenant_idx ON advanced_replies (tenant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS widget_settings (
	tenant_id        TEXT PRIMARY KEY,
	business_name    TEXT NOT NULL DEFAULT '',
	primary_color    TEXT NOT NULL DEFAULT '',
	sales_rep_name   TEXT NOT NULL DEFAULT '',
	welcome_message  TEXT NOT NULL DEFAULT '',
	fallback_message TEXT NOT NULL DEFAULT '',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ai_settings (
	tenant_id        TEXT PRIMARY KEY,
	enabled          BOOLEAN NOT NULL DEFAULT FALSE,
	api_key          TEXT NOT NULL DEFAULT '',
	model            TEXT NOT NULL DEFAULT '',
	business_context TEXT NOT NULL DEFAULT '',
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables if they do not exist.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RulesFor returns the tenant's rules of the requested class, newest
// first. A tenant with no rules gets an empty slice, never nil.
func (s *Postgres) RulesFor(ctx context.Context, tenantID string, class domain.RuleClass) ([]domain.Rule, error) {
	if class == domain.RuleClassAdvanced {
		return s.advancedRules(ctx, tenantID)
	}
	return s.autoRules(ctx, tenantID)
}

func (s *Postgres) autoRules(ctx context.Context, tenantID string) ([]domain.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keywords, matching_type, response
		FROM auto_replies
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query auto_replies: %w", err)
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		var (
			rule         domain.Rule
			matchingType string
		)
		if err := rows.Scan(&rule.ID, &rule.Keywords, &matchingType, &rule.Response); err != nil {
			return nil, fmt.Errorf("scan auto_reply: %w", err)
		}
		rule.TenantID = tenantID
		rule.MatchingType = domain.ParseMatchingType(matchingType)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func (s *Postgres) advancedRules(ctx context.Context, tenantID string) ([]domain.Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, keywords, matching_type, response, response_type, button_text
		FROM advanced_replies
		WHERE tenant_id = $1
		ORDER BY created_at DESC, id DESC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("query advanced_replies: %w", err)
	}
	defer rows.Close()

	rules := []domain.Rule{}
	for rows.Next() {
		var (
			rule         domain.Rule
			matchingType string
			responseType string
		)
		if err := rows.Scan(&rule.ID, &rule.Keywords, &matchingType, &rule.Response, &responseType, &rule.ButtonText); err != nil {
			return nil, fmt.Errorf("scan advanced_reply: %w", err)
		}
		rule.TenantID = tenantID
		rule.MatchingType = domain.ParseMatchingType(matchingType)
		rule.ResponseKind = domain.ParseReplyKind(responseType)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// TenantConfig assembles the per-call configuration from the widget and
// AI settings tables. A tenant with no stored settings gets the built-in
// defaults; missing rows are not an error.
func (s *Postgres) TenantConfig(ctx context.Context, tenantID string) (domain.TenantConfig, error) {
	cfg := domain.TenantConfig{}

	err := s.pool.QueryRow(ctx, `
		SELECT business_name, welcome_message, fallback_message
		FROM widget_settings
		WHERE tenant_id = $1
	`, tenantID).Scan(&cfg.BusinessName, &cfg.WelcomeMessage, &cfg.FallbackMessage)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.TenantConfig{}, fmt.Errorf("query widget_settings: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT enabled, api_key, model, business_context
		FROM ai_settings
		WHERE tenant_id = $1
	`, tenantID).Scan(&cfg.AI.Enabled, &cfg.AI.APIKey, &cfg.AI.Model, &cfg.AI.BusinessContext)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.TenantConfig{}, fmt.Errorf("query ai_settings: %w", err)
	}

	return cfg, nil
}

// WidgetSettings returns what the embeddable widget needs to bootstrap,
// filling built-in defaults for anything unset.
func (s *Postgres) WidgetSettings(ctx context.Context, tenantID string) (domain.WidgetSettings, error) {
	settings := domain.WidgetSettings{TenantID: tenantID}

	err := s.pool.QueryRow(ctx, `
		SELECT business_name, primary_color, sales_rep_name, welcome_message, fallback_message
		FROM widget_settings
		WHERE tenant_id = $1
	`, tenantID).Scan(
		&settings.BusinessName,
		&settings.PrimaryColor,
		&settings.SalesRepName,
		&settings.WelcomeMessage,
		&settings.FallbackMessage,
	)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.WidgetSettings{}, fmt.Errorf("query widget_settings: %w", err)
	}

	applyWidgetDefaults(&settings)
	return settings, nil
}

func applyWidgetDefaults(settings *domain.WidgetSettings) {
	if settings.PrimaryColor == "" {
		settings.PrimaryColor = domain.DefaultPrimaryColor
	}
	if settings.WelcomeMessage == "" {
		settings.WelcomeMessage = domain.DefaultWelcomeMessage
	}
	if settings.FallbackMessage == "" {
		settings.FallbackMessage = domain.DefaultFallbackMessage
	}
}
