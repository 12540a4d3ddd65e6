// Package matcher provides unit tests for the matching strategies.
package matcher

import (
	"testing"

	"github.com/replydesk/internal/domain"
)

func TestMatcher_Matches(t *testing.T) {
	m := New(nil)

	tests := []struct {
		name         string
		message      string
		keywords     []string
		matchingType domain.MatchingType
		want         bool
	}{
		// word
		{
			name:         "word - keyword present",
			message:      "What is your price?",
			keywords:     []string{"price"},
			matchingType: domain.MatchWord,
			want:         true,
		},
		{
			name:         "word - keyword absent",
			message:      "What is your price?",
			keywords:     []string{"cost"},
			matchingType: domain.MatchWord,
			want:         false,
		},
		{
			name:         "word - case insensitive both sides",
			message:      "TELL ME THE PRICE",
			keywords:     []string{"Price"},
			matchingType: domain.MatchWord,
			want:         true,
		},
		{
			name:         "word - OR across keywords",
			message:      "do you ship abroad",
			keywords:     []string{"refund", "ship"},
			matchingType: domain.MatchWord,
			want:         true,
		},
		{
			name:         "word - substring inside a longer word",
			message:      "overpriced stuff",
			keywords:     []string{"price"},
			matchingType: domain.MatchWord,
			want:         true,
		},
		// fuzzy
		{
			name:         "fuzzy - one typo",
			message:      "orded",
			keywords:     []string{"order"},
			matchingType: domain.MatchFuzzy,
			want:         true,
		},
		{
			name:         "fuzzy - exact",
			message:      "order",
			keywords:     []string{"order"},
			matchingType: domain.MatchFuzzy,
			want:         true,
		},
		{
			name:         "fuzzy - whole message compared, substring does not help",
			message:      "ordering system completely unrelated",
			keywords:     []string{"order"},
			matchingType: domain.MatchFuzzy,
			want:         false,
		},
		{
			name:         "fuzzy - three edits is too far",
			message:      "ordxyz",
			keywords:     []string{"or"},
			matchingType: domain.MatchFuzzy,
			want:         false,
		},
		{
			name:         "fuzzy - case insensitive",
			message:      "Orded",
			keywords:     []string{"ORDER"},
			matchingType: domain.MatchFuzzy,
			want:         true,
		},
		// regex
		{
			name:         "regex - anchored pattern, case insensitive",
			message:      "Hi there",
			keywords:     []string{`^hi\b`},
			matchingType: domain.MatchRegex,
			want:         true,
		},
		{
			name:         "regex - pattern matches anywhere",
			message:      "my order number is 42",
			keywords:     []string{`\d+`},
			matchingType: domain.MatchRegex,
			want:         true,
		},
		{
			name:         "regex - invalid pattern is skipped, not fatal",
			message:      "Hi there",
			keywords:     []string{"(unclosed", `^hi\b`},
			matchingType: domain.MatchRegex,
			want:         true,
		},
		{
			name:         "regex - only invalid patterns",
			message:      "Hi there",
			keywords:     []string{"(unclosed"},
			matchingType: domain.MatchRegex,
			want:         false,
		},
		// synonym
		{
			name:         "synonym - cost triggers price",
			message:      "what's the cost",
			keywords:     []string{"price"},
			matchingType: domain.MatchSynonym,
			want:         true,
		},
		{
			name:         "synonym - purchase triggers buy",
			message:      "I want to purchase",
			keywords:     []string{"buy"},
			matchingType: domain.MatchSynonym,
			want:         true,
		},
		{
			name:         "synonym - direct keyword hit still works",
			message:      "what's the price",
			keywords:     []string{"price"},
			matchingType: domain.MatchSynonym,
			want:         true,
		},
		{
			name:         "synonym - non-canonical keyword gets no expansion",
			message:      "I need assistance",
			keywords:     []string{"support"},
			matchingType: domain.MatchSynonym,
			want:         false,
		},
		{
			name:         "synonym - no hit at all",
			message:      "good morning",
			keywords:     []string{"price"},
			matchingType: domain.MatchSynonym,
			want:         false,
		},
		// defaults and edge cases
		{
			name:         "unknown matching type falls back to word",
			message:      "what's the price",
			keywords:     []string{"price"},
			matchingType: domain.MatchingType("semantic"),
			want:         true,
		},
		{
			name:         "empty keyword set never matches",
			message:      "anything at all",
			keywords:     nil,
			matchingType: domain.MatchWord,
			want:         false,
		},
		{
			name:         "blank keywords are ignored",
			message:      "hello",
			keywords:     []string{"", "hello"},
			matchingType: domain.MatchWord,
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := &domain.Rule{
				ID:           "r1",
				TenantID:     "t1",
				Keywords:     tt.keywords,
				MatchingType: tt.matchingType,
			}
			if got := m.Matches(tt.message, rule); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatcher_InjectedSynonymTable(t *testing.T) {
	m := New(SynonymTable{
		"hours": {"open", "opening", "close"},
	})

	rule := &domain.Rule{
		Keywords:     []string{"hours"},
		MatchingType: domain.MatchSynonym,
	}

	if !m.Matches("when do you open", rule) {
		t.Error("expected custom synonym to match")
	}

	// The built-in table is replaced, not merged.
	priceRule := &domain.Rule{
		Keywords:     []string{"price"},
		MatchingType: domain.MatchSynonym,
	}
	if m.Matches("what's the cost", priceRule) {
		t.Error("built-in synonyms should not apply with a custom table")
	}
}

func TestDefaultSynonyms(t *testing.T) {
	table := DefaultSynonyms()

	for canonical, wantLen := range map[string]int{"price": 4, "help": 3, "buy": 3} {
		if got := len(table[canonical]); got != wantLen {
			t.Errorf("synonyms for %q = %d entries, want %d", canonical, got, wantLen)
		}
	}
}
