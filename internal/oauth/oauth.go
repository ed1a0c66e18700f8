// Package oauth provides bearer token validation and permission checks for
// the coffee shop API acting as a resource server of an OIDC identity
// provider.
package oauth

import (
	"context"

	"github.com/jamesprial/coffee-shop/internal/oauth/internal/token"
)

// TokenValidator validates bearer access tokens.
// Implementations must verify token signatures, expiration, issuer
// and audience before returning claims.
type TokenValidator interface {
	// ValidateToken validates an access token and returns the parsed claims.
	// The signing key is resolved by kid from the identity provider's JWKS.
	//
	// Every failure is an *errors.AuthError from internal/errors carrying
	// the HTTP status and error code to answer with.
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

// TokenClaims represents validated JWT claims from an access token.
// All fields are populated from the token after successful validation.
type TokenClaims = token.TokenClaims

// JWKSClient fetches and caches the identity provider's JSON Web Key Set.
// The client keeps the key set in memory with a TTL so key rotation is
// picked up without a restart.
type JWKSClient interface {
	// GetKey retrieves the public key for the given key ID (kid).
	//
	// Returns the public key (*rsa.PublicKey or *ecdsa.PublicKey)
	// suitable for JWT signature verification.
	GetKey(ctx context.Context, keyID string) (any, error)

	// RefreshKeys forces a refetch of the key set.
	RefreshKeys(ctx context.Context) error
}

// PermissionChecker validates the permissions claim against the
// permission a route requires.
type PermissionChecker interface {
	// RequirePermission returns a 403 *errors.AuthError when the claims
	// carry no permissions claim or lack permission.
	RequirePermission(claims *TokenClaims, permission string) error
}
