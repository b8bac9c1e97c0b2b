package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BerylCAtieno/legalease/internal/analyzer"
	"github.com/BerylCAtieno/legalease/internal/config"
	"github.com/BerylCAtieno/legalease/internal/db"
	"github.com/BerylCAtieno/legalease/internal/ratelimit"
	"github.com/BerylCAtieno/legalease/internal/repository"
	"github.com/BerylCAtieno/legalease/internal/router"
	"github.com/BerylCAtieno/legalease/internal/services"
	"github.com/BerylCAtieno/legalease/internal/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger := utils.NewLogger(cfg.LogLevel)

	// Provider selection is fixed for the life of the process.
	provider := analyzer.ProviderFromConfig(cfg)
	if provider != nil {
		logger.Info("AI provider configured",
			"provider", provider.Name,
			"model", provider.Model,
			"label", provider.DisplayName(),
			"context_chars", provider.Capability.ContextChars,
			"max_tokens", provider.Capability.MaxTokens)
	} else {
		logger.Warn("No AI API key configured, using mock responses",
			"hint", "set OPENROUTER_API_KEY or OPENAI_API_KEY")
	}
	docAnalyzer := analyzer.New(provider, logger)

	var opts []services.Option

	// Optional audit ledger
	if cfg.AuditDBPath != "" {
		database, err := db.OpenAuditDB(cfg.AuditDBPath)
		if err != nil {
			logger.Fatal("Failed to open audit database", "error", err, "path", cfg.AuditDBPath)
		}
		defer database.Close()
		opts = append(opts, services.WithAuditRepository(repository.NewAuditRepository(database)))
		logger.Info("Audit ledger enabled", "path", cfg.AuditDBPath)
	}

	docService := services.NewService(docAnalyzer, cfg.MaxFileSize, logger, opts...)

	limiter := newLimiter(cfg, logger)

	// Setup HTTP router
	handler, err := router.NewRouter(docService, limiter, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build router", "error", err)
	}

	// Write timeout covers a full model round trip.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      cfg.AITimeout + 60*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment, "api", "http://localhost:"+cfg.Port+"/api/")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}

func newLimiter(cfg *config.Config, logger *utils.Logger) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		limiter, err := ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
		if err != nil {
			logger.Fatal("Failed to create rate limiter", "error", err)
		}
		return limiter
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("Failed to reach Redis for rate limiting", "error", err, "addr", cfg.RedisAddr)
	}

	limiter, err := ratelimit.NewRedisLimiter(client, ratelimit.DefaultRedisPrefix, cfg.RateLimitMax, cfg.RateLimitWindow)
	if err != nil {
		logger.Fatal("Failed to create rate limiter", "error", err)
	}
	logger.Info("Rate limiter backed by Redis", "addr", cfg.RedisAddr)
	return limiter
}
