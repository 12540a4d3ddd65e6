// Package matcher implements the keyword matching strategies applied to
// inbound visitor messages. A Matcher holds no mutable state and is safe
// for concurrent use.
package matcher

import (
	"regexp"
	"strings"

	"github.com/replydesk/internal/domain"
	"github.com/replydesk/pkg/normalize"
)

// fuzzyMaxDistance is the edit-distance threshold for fuzzy matches.
const fuzzyMaxDistance = 2

// Matcher evaluates messages against a rule's keyword set.
type Matcher struct {
	synonyms SynonymTable
}

// New creates a Matcher with the given synonym table. A nil table falls
// back to the built-in one.
func New(synonyms SynonymTable) *Matcher {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Matcher{synonyms: synonyms}
}

// Matches reports whether the message triggers the rule. Matching is
// case-insensitive on both the message and the keywords. A rule with no
// keywords never matches.
func (m *Matcher) Matches(message string, rule *domain.Rule) bool {
	if len(rule.Keywords) == 0 {
		return false
	}

	folded := normalize.Fold(message)

	switch rule.MatchingType {
	case domain.MatchFuzzy:
		return m.matchFuzzy(folded, rule.Keywords)
	case domain.MatchRegex:
		return m.matchRegex(message, rule.Keywords)
	case domain.MatchSynonym:
		return m.matchSynonym(folded, rule.Keywords)
	default:
		// Word semantics, also the documented default for values the
		// store hands back that we do not recognize.
		return m.matchWord(folded, rule.Keywords)
	}
}

// matchWord reports a hit when ANY keyword appears as a literal substring
// of the folded message. This is an OR across keywords, not an AND.
func (m *Matcher) matchWord(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// matchFuzzy compares the entire folded message against each keyword and
// accepts edit distance <= 2. The whole-string comparison is deliberate:
// it reproduces the stored rule semantics and is not an approximate
// substring search, so long messages rarely fuzzy-match short keywords.
func (m *Matcher) matchFuzzy(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if levenshtein(folded, strings.ToLower(kw)) <= fuzzyMaxDistance {
			return true
		}
	}
	return false
}

// matchRegex compiles each keyword as a case-insensitive pattern and
// accepts a match anywhere in the message. A keyword that fails to
// compile is skipped; it never aborts the scan.
func (m *Matcher) matchRegex(message string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + kw)
		if err != nil {
			continue
		}
		if re.MatchString(message) {
			return true
		}
	}
	return false
}

// matchSynonym accepts a direct keyword substring hit, or, when the
// keyword is a canonical term in the table, a hit on any of that term's
// listed synonyms. Lookup is one level deep.
func (m *Matcher) matchSynonym(folded string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		kwLower := strings.ToLower(kw)
		if strings.Contains(folded, kwLower) {
			return true
		}
		for _, syn := range m.synonyms[kwLower] {
			if strings.Contains(folded, strings.ToLower(syn)) {
				return true
			}
		}
	}
	return false
}
