package matcher

// SynonymTable maps a canonical term to alternates that should also
// trigger it. The table is read-only once handed to a Matcher; injecting
// it keeps the matching functions pure and leaves room for per-tenant
// tables later.
type SynonymTable map[string][]string

// DefaultSynonyms returns the built-in synonym table. Lookup is one
// level only; synonyms of synonyms are not expanded.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		"price": {"cost", "fee", "charge", "payment"},
		"help":  {"assist", "support", "aid"},
		"buy":   {"purchase", "order", "get"},
	}
}
