package handler

import (
	"sync"

	"golang.org/x/time/rate"
)

// tenantLimiter hands out one token bucket per tenant so a noisy widget
// cannot starve the other tenants' resolutions.
type tenantLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newTenantLimiter(limit rate.Limit, burst int) *tenantLimiter {
	return &tenantLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *tenantLimiter) allow(tenantID string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters[tenantID]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[tenantID] = limiter
	}
	l.mu.Unlock()

	return limiter.Allow()
}
