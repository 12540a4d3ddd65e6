package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/replydesk/internal/domain"
)

// Memory is an in-memory store for tests and local development
// (STORE_MEMORY_MODE). Seeded snapshots are immutable from the reader's
// point of view: readers always get copies.
type Memory struct {
	mu       sync.RWMutex
	auto     map[string][]domain.Rule
	advanced map[string][]domain.Rule
	tenants  map[string]domain.TenantConfig
	widgets  map[string]domain.WidgetSettings
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		auto:     make(map[string][]domain.Rule),
		advanced: make(map[string][]domain.Rule),
		tenants:  make(map[string]domain.TenantConfig),
		widgets:  make(map[string]domain.WidgetSettings),
	}
}

// SeedRule appends a rule to the tenant's collection of the given class,
// preserving insertion order as the stored order. Rules without an ID
// get one assigned.
func (m *Memory) SeedRule(class domain.RuleClass, rule domain.Rule) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if class == domain.RuleClassAdvanced {
		m.advanced[rule.TenantID] = append(m.advanced[rule.TenantID], rule)
		return
	}
	m.auto[rule.TenantID] = append(m.auto[rule.TenantID], rule)
}

// SeedTenant stores the tenant's configuration.
func (m *Memory) SeedTenant(tenantID string, cfg domain.TenantConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants[tenantID] = cfg
}

// SeedWidget stores the tenant's widget settings.
func (m *Memory) SeedWidget(settings domain.WidgetSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.widgets[settings.TenantID] = settings
}

// RulesFor returns a copy of the tenant's rules in seeded order. An
// unknown tenant gets an empty slice, never nil.
func (m *Memory) RulesFor(ctx context.Context, tenantID string, class domain.RuleClass) ([]domain.Rule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	source := m.auto
	if class == domain.RuleClassAdvanced {
		source = m.advanced
	}

	rules := make([]domain.Rule, len(source[tenantID]))
	copy(rules, source[tenantID])
	return rules, nil
}

// TenantConfig returns the seeded configuration, or a zero value for an
// unknown tenant (AI disabled, built-in fallback).
func (m *Memory) TenantConfig(ctx context.Context, tenantID string) (domain.TenantConfig, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tenants[tenantID], nil
}

// WidgetSettings returns the seeded widget settings with built-in
// defaults filled in.
func (m *Memory) WidgetSettings(ctx context.Context, tenantID string) (domain.WidgetSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	settings := m.widgets[tenantID]
	settings.TenantID = tenantID
	applyWidgetDefaults(&settings)
	return settings, nil
}
