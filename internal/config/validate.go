package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/jamesprial/coffee-shop/internal/logging"
)

// Validate checks that the configuration is valid and complete.
// It returns an error if required fields are missing or values are invalid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateServer(cfg); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}

	if err := validateDatabase(cfg); err != nil {
		return fmt.Errorf("invalid database config: %w", err)
	}

	if err := validateAuth(cfg); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	if err := validateLogging(cfg); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}

	return nil
}

// isLocalhost returns true if the host is localhost or a loopback address,
// with or without a port.
func isLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// validateServer validates the server-related fields.
func validateServer(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}

	if cfg.ReadTimeout <= 0 {
		return fmt.Errorf("SERVER_READ_TIMEOUT must be positive")
	}

	if cfg.WriteTimeout <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}

	// 0 means no idle timeout
	if cfg.IdleTimeout < 0 {
		return fmt.Errorf("SERVER_IDLE_TIMEOUT must be non-negative")
	}

	return nil
}

// validateDatabase validates the database-related fields.
func validateDatabase(cfg *Config) error {
	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DATABASE_DRIVER must be postgres or sqlite, got %q", cfg.DatabaseDriver)
	}

	if strings.TrimSpace(cfg.DatabaseDSN) == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}

	if cfg.DatabaseMaxOpenConns <= 0 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS must be positive")
	}

	if cfg.DatabaseMaxIdleConns < 0 {
		return fmt.Errorf("DATABASE_MAX_IDLE_CONNS must be non-negative")
	}

	if cfg.DatabaseMaxIdleConns > cfg.DatabaseMaxOpenConns {
		return fmt.Errorf("DATABASE_MAX_IDLE_CONNS must not exceed DATABASE_MAX_OPEN_CONNS")
	}

	return nil
}

// validateAuth validates the token validation fields.
func validateAuth(cfg *Config) error {
	if cfg.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER is required")
	}

	if err := validateServiceURL("AUTH_ISSUER", cfg.AuthIssuer); err != nil {
		return err
	}

	// Auth0 style audiences are API identifiers, not necessarily URLs.
	if strings.TrimSpace(cfg.AuthAudience) == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required")
	}

	if cfg.AuthJWKSURL != "" {
		if err := validateServiceURL("AUTH_JWKS_URL", cfg.AuthJWKSURL); err != nil {
			return err
		}
	}

	if cfg.JWKSCacheTTL <= 0 {
		return fmt.Errorf("AUTH_JWKS_CACHE_TTL must be positive")
	}

	if cfg.ClockSkew < 0 {
		return fmt.Errorf("AUTH_CLOCK_SKEW must be non-negative")
	}

	return nil
}

// validateServiceURL requires an absolute https URL, or http for localhost.
func validateServiceURL(name, raw string) error {
	parsedURL, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if !parsedURL.IsAbs() || parsedURL.Host == "" {
		return fmt.Errorf("%s must be an absolute URL", name)
	}

	if parsedURL.Scheme != "https" && parsedURL.Scheme != "http" {
		return fmt.Errorf("%s must use http or https scheme", name)
	}

	if parsedURL.Scheme == "http" && !isLocalhost(parsedURL.Host) {
		return fmt.Errorf("%s must use https scheme for non-localhost hosts", name)
	}

	return nil
}

// validateLogging validates the log level and format.
func validateLogging(cfg *Config) error {
	if !logging.ValidLevel(cfg.LogLevel) {
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	switch logging.LogFormat(strings.ToLower(cfg.LogFormat)) {
	case logging.FormatJSON, logging.FormatText:
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}

	return nil
}
