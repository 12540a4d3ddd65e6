// Package ruleset defines how the resolution pipeline reads a tenant's
// configured reply rules.
package ruleset

import (
	"context"

	"github.com/replydesk/internal/domain"
)

// Index provides ordered, per-tenant access to stored reply rules.
//
// Implementations must hand rules back in canonical stored order (the
// pipeline never re-sorts) and must return an empty slice, never nil,
// when a tenant has no rules of the requested class. The tenant ID is a
// mandatory filter key: an Index can only ever return rules owned by
// that tenant, which makes cross-tenant leakage structurally impossible
// rather than something caught at runtime.
type Index interface {
	RulesFor(ctx context.Context, tenantID string, class domain.RuleClass) ([]domain.Rule, error)
}
