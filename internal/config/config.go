// Package config provides configuration management for the coffee shop API.
// Configuration is loaded from environment variables with sensible defaults.
// An optional .env file in the working directory is read first; variables
// already present in the environment win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is the optional file loaded before reading the environment.
const dotEnvFile = ".env"

// Config holds the complete server configuration in a flat structure.
type Config struct {
	// Server settings
	// Addr is the address to bind the HTTP server (e.g., ":8080").
	Addr string

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration

	// Database settings
	// DatabaseDriver selects the dialect: "postgres" or "sqlite".
	DatabaseDriver string

	// DatabaseDSN is the driver specific connection string.
	DatabaseDSN string

	// DatabaseMaxOpenConns caps the connection pool.
	DatabaseMaxOpenConns int

	// DatabaseMaxIdleConns caps idle pooled connections.
	DatabaseMaxIdleConns int

	// DatabaseReset drops and reseeds the drinks table at startup.
	DatabaseReset bool

	// Auth settings
	// AuthIssuer is the identity provider URL expected in the iss claim.
	AuthIssuer string

	// AuthAudience is the expected audience (aud) claim in access tokens.
	AuthAudience string

	// AuthJWKSURL overrides the JWKS location derived from AuthIssuer.
	AuthJWKSURL string

	// JWKSCacheTTL is how long to cache the identity provider's keys.
	JWKSCacheTTL time.Duration

	// ClockSkew is the allowed clock skew for token expiration validation.
	ClockSkew time.Duration

	// Logging settings
	// LogLevel is one of debug, info, warn or error.
	LogLevel string

	// LogFormat is json or text.
	LogFormat string
}

// Load reads configuration from the environment and returns a validated Config.
func Load() (*Config, error) {
	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}

	readTimeout, err := parseDurationWithDefault("SERVER_READ_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := parseDurationWithDefault("SERVER_WRITE_TIMEOUT", "30s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := parseDurationWithDefault("SERVER_IDLE_TIMEOUT", "120s")
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_IDLE_TIMEOUT: %w", err)
	}

	maxOpenConns, err := parseIntWithDefault("DATABASE_MAX_OPEN_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_MAX_OPEN_CONNS: %w", err)
	}

	maxIdleConns, err := parseIntWithDefault("DATABASE_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_MAX_IDLE_CONNS: %w", err)
	}

	reset, err := parseBoolWithDefault("DATABASE_RESET", false)
	if err != nil {
		return nil, fmt.Errorf("invalid DATABASE_RESET: %w", err)
	}

	jwksCacheTTL, err := parseDurationWithDefault("AUTH_JWKS_CACHE_TTL", "1h")
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_JWKS_CACHE_TTL: %w", err)
	}

	clockSkew, err := parseDurationWithDefault("AUTH_CLOCK_SKEW", "1m")
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_CLOCK_SKEW: %w", err)
	}

	cfg := &Config{
		// Server settings
		Addr:         getEnvWithDefault("SERVER_ADDR", ":8080"),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,

		// Database settings
		DatabaseDriver:       getEnvWithDefault("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:          os.Getenv("DATABASE_DSN"),
		DatabaseMaxOpenConns: maxOpenConns,
		DatabaseMaxIdleConns: maxIdleConns,
		DatabaseReset:        reset,

		// Auth settings
		AuthIssuer:   os.Getenv("AUTH_ISSUER"),
		AuthAudience: os.Getenv("AUTH_AUDIENCE"),
		AuthJWKSURL:  os.Getenv("AUTH_JWKS_URL"),
		JWKSCacheTTL: jwksCacheTTL,
		ClockSkew:    clockSkew,

		// Logging settings
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "json"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// getEnvWithDefault returns the environment variable value or the default if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseDurationWithDefault parses a duration from an environment variable.
// If the variable is not set, it uses the default value.
// Returns an error if the value is set but cannot be parsed.
func parseDurationWithDefault(key, defaultValue string) (time.Duration, error) {
	value := getEnvWithDefault(key, defaultValue)

	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("cannot parse duration %q: %w", value, err)
	}
	return duration, nil
}

func parseIntWithDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("cannot parse integer %q: %w", value, err)
	}
	return n, nil
}

func parseBoolWithDefault(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("cannot parse boolean %q: %w", value, err)
	}
	return b, nil
}

// String returns a string representation of the configuration (for debugging).
// The database DSN is redacted because it usually embeds a password.
func (c *Config) String() string {
	dsn := ""
	if c.DatabaseDSN != "" {
		dsn = "[redacted]"
	}
	return fmt.Sprintf("Config{Addr: %s, ReadTimeout: %v, WriteTimeout: %v, IdleTimeout: %v, DatabaseDriver: %s, DatabaseDSN: %s, DatabaseMaxOpenConns: %d, DatabaseMaxIdleConns: %d, DatabaseReset: %t, AuthIssuer: %s, AuthAudience: %s, AuthJWKSURL: %s, JWKSCacheTTL: %v, ClockSkew: %v, LogLevel: %s, LogFormat: %s}",
		c.Addr, c.ReadTimeout, c.WriteTimeout, c.IdleTimeout,
		c.DatabaseDriver, dsn, c.DatabaseMaxOpenConns, c.DatabaseMaxIdleConns, c.DatabaseReset,
		c.AuthIssuer, c.AuthAudience, c.AuthJWKSURL, c.JWKSCacheTTL, c.ClockSkew,
		c.LogLevel, c.LogFormat)
}
