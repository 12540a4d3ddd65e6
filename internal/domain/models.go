// Package domain contains the core domain models and types.
// These models represent the reply-resolution contracts and are independent
// of any infrastructure concerns.
package domain

// MatchingType selects the keyword comparison strategy for a rule.
type MatchingType string

const (
	// MatchWord matches when any keyword appears as a literal substring.
	MatchWord MatchingType = "word"

	// MatchFuzzy matches when the whole message is within edit distance 2
	// of any keyword.
	MatchFuzzy MatchingType = "fuzzy"

	// MatchRegex treats each keyword as a case-insensitive pattern.
	MatchRegex MatchingType = "regex"

	// MatchSynonym matches a keyword substring or any of its listed
	// synonyms from the synonym table.
	MatchSynonym MatchingType = "synonym"
)

// ParseMatchingType maps a stored value to a strategy. Unrecognized values
// get word semantics; that is the documented default, not an error.
func ParseMatchingType(s string) MatchingType {
	switch MatchingType(s) {
	case MatchWord, MatchFuzzy, MatchRegex, MatchSynonym:
		return MatchingType(s)
	default:
		return MatchWord
	}
}

// RuleClass separates the two stored rule collections.
type RuleClass string

const (
	// RuleClassAuto is a plain keyword-triggered text reply.
	RuleClassAuto RuleClass = "auto"

	// RuleClassAdvanced adds a call-to-action button to the reply.
	RuleClassAdvanced RuleClass = "advanced"
)

// ReplyKind describes what the caller should do with a reply.
type ReplyKind string

const (
	// ReplyNone signals no content is available. The fallback stage
	// normally prevents this from reaching a caller.
	ReplyNone ReplyKind = "none"

	// ReplyText is posted as a bot message.
	ReplyText ReplyKind = "text"

	// ReplyURL means the paired button opens the reply text as a link.
	ReplyURL ReplyKind = "url"
)

// IsValid checks if the reply kind is one of the allowed values.
func (k ReplyKind) IsValid() bool {
	switch k {
	case ReplyNone, ReplyText, ReplyURL:
		return true
	default:
		return false
	}
}

// ParseReplyKind maps a stored response type to a ReplyKind, defaulting
// to text for unrecognized values.
func ParseReplyKind(s string) ReplyKind {
	if k := ReplyKind(s); k == ReplyText || k == ReplyURL {
		return k
	}
	return ReplyText
}

// Rule is a keyword-triggered reply configuration owned by a tenant.
// The engine only ever reads rules; creation and updates happen on an
// external management surface.
type Rule struct {
	// ID is the opaque unique identifier assigned by the store.
	ID string

	// TenantID is the owning tenant. A tenant only ever matches its
	// own rules.
	TenantID string

	// Keywords is the ordered keyword set, compared case-insensitively.
	// A rule with no keywords never matches.
	Keywords []string

	// MatchingType selects the comparison strategy.
	MatchingType MatchingType

	// Response is the text returned when the rule matches.
	Response string

	// ResponseKind and ButtonText only apply to advanced replies and
	// stay zero for auto replies.
	ResponseKind ReplyKind
	ButtonText   string
}

// AISettings is the per-tenant generative completion configuration.
type AISettings struct {
	// Enabled gates the AI stage. A missing APIKey also disables it.
	Enabled bool

	// APIKey is the tenant-owned provider credential.
	APIKey string

	// Model overrides the service-wide default model when set.
	Model string

	// BusinessContext is injected into the system prompt.
	BusinessContext string
}

// TenantConfig is the per-tenant configuration supplied with each
// resolution call. The engine treats it as read-only.
type TenantConfig struct {
	BusinessName    string
	WelcomeMessage  string
	FallbackMessage string
	AI              AISettings
}

// ReplyResult is the single outcome of a resolution call. Exactly one
// is produced per call.
type ReplyResult struct {
	// Kind tells the caller how to render the reply.
	Kind ReplyKind `json:"kind"`

	// Text is the reply content (or the link target for kind=url).
	Text string `json:"text"`

	// ButtonText labels the optional call-to-action button.
	ButtonText string `json:"button_text,omitempty"`

	// Source names the pipeline stage that produced the reply.
	Source string `json:"source,omitempty"`
}

// WidgetSettings is what the embeddable widget needs to bootstrap.
type WidgetSettings struct {
	TenantID        string `json:"tenant_id"`
	BusinessName    string `json:"business_name"`
	PrimaryColor    string `json:"primary_color"`
	SalesRepName    string `json:"sales_rep_name,omitempty"`
	WelcomeMessage  string `json:"welcome_message"`
	FallbackMessage string `json:"fallback_message"`
}

// Built-in defaults used when a tenant has not configured the widget.
const (
	DefaultWelcomeMessage  = "Hi there! How can I help you today?"
	DefaultFallbackMessage = "Thanks for your message. We'll get back to you as soon as possible."
	DefaultPrimaryColor    = "#3B82F6"
)

// ResolveRequest represents an incoming resolution request.
type ResolveRequest struct {
	// TenantID identifies the rule set and configuration to resolve against.
	TenantID string `json:"tenant_id" binding:"required"`

	// Message is the free-text visitor message.
	Message string `json:"message" binding:"required"`
}
