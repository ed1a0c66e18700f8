// Package main provides the entry point for the coffee shop API.
// It wires together all components using dependency injection and manages
// the server lifecycle with graceful shutdown.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesprial/coffee-shop/internal/config"
	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/oauth"
	"github.com/jamesprial/coffee-shop/internal/storage"
	"github.com/jamesprial/coffee-shop/internal/transport"
)

const (
	shutdownTimeout = 30 * time.Second
	warmupTimeout   = 10 * time.Second
)

func main() {
	// Load configuration from the environment and .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info("server configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		stop()
		os.Exit(1)
	}

	logger.Info("server stopped successfully")
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// Wire persistence
	repo, err := storage.Open(ctx, storage.Config{
		Driver:       cfg.DatabaseDriver,
		DSN:          cfg.DatabaseDSN,
		MaxOpenConns: cfg.DatabaseMaxOpenConns,
		MaxIdleConns: cfg.DatabaseMaxIdleConns,
		Reset:        cfg.DatabaseReset,
		Logger:       logging.WithComponent(logger, "storage"),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	// Wire OAuth components
	oauthCfg := &oauth.Config{
		Issuer:       cfg.AuthIssuer,
		Audience:     cfg.AuthAudience,
		JWKSURL:      cfg.AuthJWKSURL,
		JWKSCacheTTL: cfg.JWKSCacheTTL,
		ClockSkew:    cfg.ClockSkew,
	}
	tokenValidator, permissionChecker, jwksClient := oauth.NewOAuthServices(oauthCfg)

	// A cold cache only costs the first guarded request a fetch.
	warmCtx, cancelWarm := context.WithTimeout(ctx, warmupTimeout)
	if err := jwksClient.RefreshKeys(warmCtx); err != nil {
		logger.Warn("jwks warmup failed", "jwks_url", oauthCfg.ResolvedJWKSURL(), "error", err)
	}
	cancelWarm()

	logger.Info("oauth services initialized",
		"issuer", cfg.AuthIssuer,
		"jwks_url", oauthCfg.ResolvedJWKSURL(),
		"jwks_cache_ttl", cfg.JWKSCacheTTL,
		"clock_skew", cfg.ClockSkew,
	)

	// Wire transport layer
	server, _, err := transport.NewTransportServices(&transport.Config{
		ServerConfig: cfg,
		Validator:    tokenValidator,
		Permissions:  permissionChecker,
		Repository:   repo,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	// Start server in background goroutine
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Addr)
		serverErrCh <- server.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping server gracefully...")
	case err := <-serverErrCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
