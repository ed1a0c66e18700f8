package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// requiredEnv is the minimal environment Load accepts.
func requiredEnv() map[string]string {
	return map[string]string{
		"DATABASE_DSN":  "host=localhost user=coffee dbname=coffee sslmode=disable",
		"AUTH_ISSUER":   "https://coffee.eu.auth0.com/",
		"AUTH_AUDIENCE": "coffee",
	}
}

func TestLoad(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv as it modifies process env
	tests := []struct {
		name        string
		envVars     map[string]string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name:    "all required env vars set",
			envVars: requiredEnv(),
			validate: func(t *testing.T, cfg *Config) {
				if cfg.AuthIssuer != "https://coffee.eu.auth0.com/" {
					t.Errorf("AuthIssuer = %q, want https://coffee.eu.auth0.com/", cfg.AuthIssuer)
				}
				if cfg.AuthAudience != "coffee" {
					t.Errorf("AuthAudience = %q, want coffee", cfg.AuthAudience)
				}
				if !strings.HasPrefix(cfg.DatabaseDSN, "host=localhost") {
					t.Errorf("DatabaseDSN = %q, want the configured DSN", cfg.DatabaseDSN)
				}
			},
		},
		{
			name: "default values applied",
			envVars: requiredEnv(),
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Addr != ":8080" {
					t.Errorf("default Addr = %q, want :8080", cfg.Addr)
				}
				if cfg.ReadTimeout != 30*time.Second || cfg.WriteTimeout != 30*time.Second {
					t.Errorf("default read/write timeouts = %v/%v, want 30s", cfg.ReadTimeout, cfg.WriteTimeout)
				}
				if cfg.IdleTimeout != 120*time.Second {
					t.Errorf("default IdleTimeout = %v, want 120s", cfg.IdleTimeout)
				}
				if cfg.DatabaseDriver != "postgres" {
					t.Errorf("default DatabaseDriver = %q, want postgres", cfg.DatabaseDriver)
				}
				if cfg.DatabaseMaxOpenConns != 10 || cfg.DatabaseMaxIdleConns != 5 {
					t.Errorf("default pool = %d/%d, want 10/5", cfg.DatabaseMaxOpenConns, cfg.DatabaseMaxIdleConns)
				}
				if cfg.DatabaseReset {
					t.Error("default DatabaseReset = true, want false")
				}
				if cfg.JWKSCacheTTL != time.Hour {
					t.Errorf("default JWKSCacheTTL = %v, want 1h", cfg.JWKSCacheTTL)
				}
				if cfg.ClockSkew != time.Minute {
					t.Errorf("default ClockSkew = %v, want 1m", cfg.ClockSkew)
				}
				if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
					t.Errorf("default logging = %s/%s, want info/json", cfg.LogLevel, cfg.LogFormat)
				}
			},
		},
		{
			name: "overrides applied",
			envVars: merge(requiredEnv(), map[string]string{
				"SERVER_ADDR":             ":9090",
				"DATABASE_DRIVER":         "sqlite",
				"DATABASE_MAX_OPEN_CONNS": "1",
				"DATABASE_MAX_IDLE_CONNS": "1",
				"DATABASE_RESET":          "true",
				"AUTH_JWKS_URL":           "http://localhost:3000/jwks.json",
				"AUTH_CLOCK_SKEW":         "0s",
				"LOG_LEVEL":               "debug",
				"LOG_FORMAT":              "text",
			}),
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Addr != ":9090" || cfg.DatabaseDriver != "sqlite" {
					t.Errorf("Addr/Driver = %s/%s, want :9090/sqlite", cfg.Addr, cfg.DatabaseDriver)
				}
				if !cfg.DatabaseReset {
					t.Error("DatabaseReset = false, want true")
				}
				if cfg.AuthJWKSURL != "http://localhost:3000/jwks.json" {
					t.Errorf("AuthJWKSURL = %q", cfg.AuthJWKSURL)
				}
				if cfg.ClockSkew != 0 {
					t.Errorf("ClockSkew = %v, want 0", cfg.ClockSkew)
				}
			},
		},
		{
			name:        "missing DATABASE_DSN",
			envVars:     without(requiredEnv(), "DATABASE_DSN"),
			wantErr:     true,
			errContains: "DATABASE_DSN",
		},
		{
			name:        "missing AUTH_ISSUER",
			envVars:     without(requiredEnv(), "AUTH_ISSUER"),
			wantErr:     true,
			errContains: "AUTH_ISSUER",
		},
		{
			name:        "missing AUTH_AUDIENCE",
			envVars:     without(requiredEnv(), "AUTH_AUDIENCE"),
			wantErr:     true,
			errContains: "AUTH_AUDIENCE",
		},
		{
			name:        "invalid duration",
			envVars:     merge(requiredEnv(), map[string]string{"AUTH_JWKS_CACHE_TTL": "soon"}),
			wantErr:     true,
			errContains: "AUTH_JWKS_CACHE_TTL",
		},
		{
			name:        "invalid integer",
			envVars:     merge(requiredEnv(), map[string]string{"DATABASE_MAX_OPEN_CONNS": "ten"}),
			wantErr:     true,
			errContains: "DATABASE_MAX_OPEN_CONNS",
		},
		{
			name:        "invalid boolean",
			envVars:     merge(requiredEnv(), map[string]string{"DATABASE_RESET": "maybe"}),
			wantErr:     true,
			errContains: "DATABASE_RESET",
		},
		{
			name:        "unsupported driver",
			envVars:     merge(requiredEnv(), map[string]string{"DATABASE_DRIVER": "mysql"}),
			wantErr:     true,
			errContains: "DATABASE_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnvVars(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Load() expected error containing %q", tt.errContains)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("Load() error = %q, want it to contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "COFFEE_SHOP_DOTENV_TEST"
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	if err := loadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("loadDotEnv(missing) error = %v, want nil", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error = %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}
}

func TestLoadDotEnv_EnvironmentWins(t *testing.T) {
	t.Setenv("COFFEE_SHOP_DOTENV_PRECEDENCE", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("COFFEE_SHOP_DOTENV_PRECEDENCE=from-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error = %v", err)
	}
	if got := os.Getenv("COFFEE_SHOP_DOTENV_PRECEDENCE"); got != "from-env" {
		t.Errorf("value = %q, want the environment to win", got)
	}
}

func TestConfig_StringRedactsDSN(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DatabaseDSN = "postgres://coffee:s3cret@db/coffee"

	if s := cfg.String(); strings.Contains(s, "s3cret") {
		t.Errorf("String() leaked the DSN: %s", s)
	}
}

// clearConfigEnvVars blanks every variable Load reads.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"SERVER_ADDR", "SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
		"DATABASE_DRIVER", "DATABASE_DSN", "DATABASE_MAX_OPEN_CONNS", "DATABASE_MAX_IDLE_CONNS", "DATABASE_RESET",
		"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWKS_URL", "AUTH_JWKS_CACHE_TTL", "AUTH_CLOCK_SKEW",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func merge(base, extra map[string]string) map[string]string {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

func without(env map[string]string, key string) map[string]string {
	delete(env, key)
	return env
}
