package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/replydesk/internal/domain"
	"go.uber.org/zap"
)

// WidgetSource loads the settings the embeddable widget needs.
type WidgetSource interface {
	WidgetSettings(ctx context.Context, tenantID string) (domain.WidgetSettings, error)
}

// WidgetHandler serves the bootstrap settings for the embeddable chat
// widget.
type WidgetHandler struct {
	settings WidgetSource
	logger   *zap.Logger
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(settings WidgetSource, logger *zap.Logger) *WidgetHandler {
	return &WidgetHandler{
		settings: settings,
		logger:   logger.Named("widget_handler"),
	}
}

// Handle processes GET /api/v1/widget/:tenant_id requests. The widget
// must always render, so a store failure degrades to the built-in
// defaults rather than an error page.
func (h *WidgetHandler) Handle(c *gin.Context) {
	tenantID := c.Param("tenant_id")

	settings, err := h.settings.WidgetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.logger.Warn("widget settings unavailable, using defaults",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		settings = domain.WidgetSettings{
			TenantID:        tenantID,
			PrimaryColor:    domain.DefaultPrimaryColor,
			WelcomeMessage:  domain.DefaultWelcomeMessage,
			FallbackMessage: domain.DefaultFallbackMessage,
		}
	}

	c.JSON(http.StatusOK, settings)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger *zap.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger.Named("health_handler"),
	}
}

// Handle processes GET /health requests.
func (h *HealthHandler) Handle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
