package store

import (
	"context"
	"testing"

	"github.com/replydesk/internal/domain"
)

func TestMemory_RulesFor(t *testing.T) {
	m := NewMemory()
	m.SeedRule(domain.RuleClassAuto, domain.Rule{TenantID: "t1", Keywords: []string{"price"}, Response: "first"})
	m.SeedRule(domain.RuleClassAuto, domain.Rule{TenantID: "t1", Keywords: []string{"hours"}, Response: "second"})
	m.SeedRule(domain.RuleClassAdvanced, domain.Rule{TenantID: "t1", Keywords: []string{"demo"}, Response: "https://example.com", ResponseKind: domain.ReplyURL})
	m.SeedRule(domain.RuleClassAuto, domain.Rule{TenantID: "t2", Keywords: []string{"refund"}, Response: "other tenant"})

	ctx := context.Background()

	auto, err := m.RulesFor(ctx, "t1", domain.RuleClassAuto)
	if err != nil {
		t.Fatalf("RulesFor() error = %v", err)
	}
	if len(auto) != 2 {
		t.Fatalf("got %d auto rules, want 2", len(auto))
	}
	if auto[0].Response != "first" || auto[1].Response != "second" {
		t.Errorf("seeded order not preserved: %q, %q", auto[0].Response, auto[1].Response)
	}
	if auto[0].ID == "" {
		t.Error("seeded rule should get an ID assigned")
	}

	advanced, err := m.RulesFor(ctx, "t1", domain.RuleClassAdvanced)
	if err != nil {
		t.Fatalf("RulesFor() error = %v", err)
	}
	if len(advanced) != 1 || advanced[0].ResponseKind != domain.ReplyURL {
		t.Errorf("advanced rules = %+v", advanced)
	}
}

func TestMemory_RulesForUnknownTenant(t *testing.T) {
	m := NewMemory()
	m.SeedRule(domain.RuleClassAuto, domain.Rule{TenantID: "t1", Keywords: []string{"price"}, Response: "mine"})

	rules, err := m.RulesFor(context.Background(), "t2", domain.RuleClassAuto)
	if err != nil {
		t.Fatalf("RulesFor() error = %v", err)
	}
	if rules == nil {
		t.Error("unknown tenant should get an empty slice, not nil")
	}
	if len(rules) != 0 {
		t.Errorf("got %d rules for a foreign tenant, want 0", len(rules))
	}
}

func TestMemory_RulesForReturnsCopies(t *testing.T) {
	m := NewMemory()
	m.SeedRule(domain.RuleClassAuto, domain.Rule{TenantID: "t1", Keywords: []string{"price"}, Response: "original"})

	first, _ := m.RulesFor(context.Background(), "t1", domain.RuleClassAuto)
	first[0].Response = "mutated"

	second, _ := m.RulesFor(context.Background(), "t1", domain.RuleClassAuto)
	if second[0].Response != "original" {
		t.Error("caller mutation leaked into the store")
	}
}

func TestMemory_TenantConfig(t *testing.T) {
	m := NewMemory()
	m.SeedTenant("t1", domain.TenantConfig{
		BusinessName:    "Acme",
		FallbackMessage: "We reply within a day.",
		AI:              domain.AISettings{Enabled: true, APIKey: "k"},
	})

	cfg, err := m.TenantConfig(context.Background(), "t1")
	if err != nil {
		t.Fatalf("TenantConfig() error = %v", err)
	}
	if cfg.BusinessName != "Acme" || !cfg.AI.Enabled {
		t.Errorf("config = %+v", cfg)
	}

	// Unknown tenants resolve with AI off and the built-in fallback.
	unknown, err := m.TenantConfig(context.Background(), "t2")
	if err != nil {
		t.Fatalf("TenantConfig() error = %v", err)
	}
	if unknown.AI.Enabled || unknown.FallbackMessage != "" {
		t.Errorf("unknown tenant config = %+v, want zero value", unknown)
	}
}

func TestMemory_WidgetSettings(t *testing.T) {
	m := NewMemory()
	m.SeedWidget(domain.WidgetSettings{
		TenantID:     "t1",
		BusinessName: "Acme",
		PrimaryColor: "#FF0000",
	})

	got, err := m.WidgetSettings(context.Background(), "t1")
	if err != nil {
		t.Fatalf("WidgetSettings() error = %v", err)
	}
	if got.PrimaryColor != "#FF0000" {
		t.Errorf("PrimaryColor = %q, want seeded value kept", got.PrimaryColor)
	}
	if got.WelcomeMessage != domain.DefaultWelcomeMessage {
		t.Errorf("WelcomeMessage = %q, want default filled in", got.WelcomeMessage)
	}

	unknown, err := m.WidgetSettings(context.Background(), "t2")
	if err != nil {
		t.Fatalf("WidgetSettings() error = %v", err)
	}
	if unknown.TenantID != "t2" {
		t.Errorf("TenantID = %q", unknown.TenantID)
	}
	if unknown.PrimaryColor != domain.DefaultPrimaryColor {
		t.Errorf("PrimaryColor = %q, want built-in default", unknown.PrimaryColor)
	}
	if unknown.FallbackMessage != domain.DefaultFallbackMessage {
		t.Errorf("FallbackMessage = %q, want built-in default", unknown.FallbackMessage)
	}
}
