package oauth

import (
	"strings"
	"time"

	"github.com/jamesprial/coffee-shop/internal/oauth/internal/jwks"
	"github.com/jamesprial/coffee-shop/internal/oauth/internal/token"
)

// wellKnownJWKSPath is where OIDC providers publish their signing keys.
const wellKnownJWKSPath = "/.well-known/jwks.json"

// Config holds the configuration needed to construct OAuth services.
type Config struct {
	// Issuer is the expected iss claim, e.g. "https://tenant.auth0.com/".
	Issuer string

	// Audience is the expected audience (aud) claim in access tokens.
	Audience string

	// JWKSURL overrides the key set location. Empty means
	// <Issuer>/.well-known/jwks.json.
	JWKSURL string

	// JWKSCacheTTL is how long a fetched key set stays valid.
	JWKSCacheTTL time.Duration

	// ClockSkew is the allowed clock skew for time based claims.
	ClockSkew time.Duration
}

// ResolvedJWKSURL returns the JWKS URL to fetch keys from.
func (c *Config) ResolvedJWKSURL() string {
	if c.JWKSURL != "" {
		return c.JWKSURL
	}
	return strings.TrimRight(c.Issuer, "/") + wellKnownJWKSPath
}

// NewJWKSClient creates a new JWKS client with the provided configuration.
func NewJWKSClient(cfg *Config) JWKSClient {
	return jwks.NewClient(cfg.ResolvedJWKSURL(), cfg.JWKSCacheTTL)
}

// NewTokenValidator creates a new token validator with the provided configuration.
// The validator uses the JWKS client to verify token signatures and validates
// the issuer, audience and expiration.
func NewTokenValidator(cfg *Config, jwksClient JWKSClient) TokenValidator {
	return token.NewValidator(jwksClient, cfg.Issuer, cfg.Audience, cfg.ClockSkew)
}

// NewPermissionChecker creates a new permission checker.
func NewPermissionChecker() PermissionChecker {
	return token.NewPermissionChecker()
}

// NewOAuthServices creates all OAuth services from the configuration.
// This is a convenience function for dependency injection.
func NewOAuthServices(cfg *Config) (TokenValidator, PermissionChecker, JWKSClient) {
	jwksClient := NewJWKSClient(cfg)
	tokenValidator := NewTokenValidator(cfg, jwksClient)
	permissionChecker := NewPermissionChecker()

	return tokenValidator, permissionChecker, jwksClient
}
