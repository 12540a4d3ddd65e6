// Package handler contains HTTP handlers for the API.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/replydesk/internal/domain"
	"github.com/replydesk/internal/resolver"
	"github.com/replydesk/pkg/normalize"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// TenantSource loads per-tenant configuration for a resolution call.
type TenantSource interface {
	TenantConfig(ctx context.Context, tenantID string) (domain.TenantConfig, error)
}

// ResolveHandler handles reply-resolution requests from widgets and
// webhook integrations.
type ResolveHandler struct {
	resolver *resolver.Resolver
	tenants  TenantSource
	limiter  *tenantLimiter
	logger   *zap.Logger
}

// NewResolveHandler creates a new ResolveHandler. A zero rate disables
// per-tenant rate limiting.
func NewResolveHandler(res *resolver.Resolver, tenants TenantSource, resolveRate float64, burst int, logger *zap.Logger) *ResolveHandler {
	var limiter *tenantLimiter
	if resolveRate > 0 {
		limiter = newTenantLimiter(rate.Limit(resolveRate), burst)
	}
	return &ResolveHandler{
		resolver: res,
		tenants:  tenants,
		limiter:  limiter,
		logger:   logger.Named("resolve_handler"),
	}
}

// Handle processes POST /api/v1/resolve requests. The response is always
// a ReplyResult: store or AI trouble degrades to the fallback text, it
// never becomes a 5xx.
func (h *ResolveHandler) Handle(c *gin.Context) {
	var req domain.ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	if normalize.IsEmpty(req.Message) {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrEmptyMessage.Error()})
		return
	}

	if h.limiter != nil && !h.limiter.allow(req.TenantID) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": domain.ErrRateLimited.Error()})
		return
	}

	ctx := c.Request.Context()

	cfg, err := h.tenants.TenantConfig(ctx, req.TenantID)
	if err != nil {
		// Resolution still answers; the tenant just gets defaults.
		h.logger.Warn("tenant config unavailable, using defaults",
			zap.String("tenant_id", req.TenantID),
			zap.Error(err),
		)
		cfg = domain.TenantConfig{}
	}

	result := h.resolver.Resolve(ctx, req.TenantID, req.Message, cfg)

	h.logger.Info("message resolved",
		zap.String("tenant_id", req.TenantID),
		zap.String("source", result.Source),
		zap.String("kind", string(result.Kind)),
	)

	c.JSON(http.StatusOK, result)
}
