// Reply resolution service - server entry point.
//
// Wires the rule store, matcher, completion gateway and resolution
// pipeline together behind the HTTP API and starts the server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/replydesk/internal/ai"
	"github.com/replydesk/internal/config"
	"github.com/replydesk/internal/handler"
	"github.com/replydesk/internal/logger"
	"github.com/replydesk/internal/matcher"
	"github.com/replydesk/internal/resolver"
	"github.com/replydesk/internal/ruleset"
	"github.com/replydesk/internal/store"
	"go.uber.org/zap"
)

func main() {
	// Load .env file if it exists (development)
	_ = godotenv.Load()

	// Determine if we're in development mode
	isDev := os.Getenv("GIN_MODE") != "release"

	// Initialize logger
	zapLogger, err := logger.New(isDev)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting reply resolution service",
		zap.Bool("development", isDev),
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}

	zapLogger.Info("configuration loaded",
		zap.String("port", cfg.Server.Port),
		zap.String("ai_provider", string(cfg.AI.Provider)),
		zap.String("ai_default_model", cfg.AI.DefaultModel),
		zap.Bool("ai_mock_mode", cfg.AI.MockMode),
		zap.Bool("store_memory_mode", cfg.Store.MemoryMode),
	)

	// Initialize the rule and settings store
	var (
		rules   ruleset.Index
		tenants handler.TenantSource
		widgets handler.WidgetSource
	)

	if cfg.Store.MemoryMode {
		zapLogger.Warn("running with an in-memory store - rules reset on restart")
		mem := store.NewMemory()
		rules, tenants, widgets = mem, mem, mem
	} else {
		pool, err := pgxpool.New(context.Background(), cfg.Store.DatabaseURL)
		if err != nil {
			zapLogger.Fatal("failed to create database pool", zap.Error(err))
		}
		defer pool.Close()

		pg := store.NewPostgres(pool, zapLogger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := pg.EnsureSchema(ctx); err != nil {
			cancel()
			zapLogger.Fatal("failed to ensure database schema", zap.Error(err))
		}
		cancel()

		rules, tenants, widgets = pg, pg, pg
	}

	// Initialize the completion gateway
	var gateway ai.Gateway
	if cfg.AI.MockMode {
		zapLogger.Warn("running in mock mode - AI completions are simulated")
		gateway = ai.NewMockGateway(zapLogger)
	} else if cfg.AI.Provider == config.AIProviderGemini {
		gateway = ai.NewGeminiGateway(&cfg.AI, zapLogger)
	} else {
		gateway = ai.NewOpenAIGateway(&cfg.AI, zapLogger)
	}

	// Initialize the resolution pipeline
	replyResolver := resolver.New(
		rules,
		matcher.New(matcher.DefaultSynonyms()),
		gateway,
		resolver.Config{
			AITimeout:      cfg.AI.Timeout,
			MaxMessageSize: cfg.Limits.MaxMessageSize,
		},
		zapLogger,
	)

	// Initialize handlers
	resolveHandler := handler.NewResolveHandler(
		replyResolver,
		tenants,
		cfg.Limits.ResolveRate,
		cfg.Limits.ResolveBurst,
		zapLogger,
	)
	widgetHandler := handler.NewWidgetHandler(widgets, zapLogger)
	healthHandler := handler.NewHealthHandler(zapLogger)

	// Setup Gin router
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Apply middleware
	router.Use(handler.RecoveryMiddleware(zapLogger))
	router.Use(handler.RequestIDMiddleware())
	router.Use(handler.LoggingMiddleware(zapLogger))
	router.Use(handler.CORSMiddleware())

	// Register routes
	router.GET("/health", healthHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/resolve", resolveHandler.Handle)
		v1.GET("/widget/:tenant_id", widgetHandler.Handle)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server...")

	// Give the server 10 seconds to finish in-flight resolutions
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("server stopped")
}
