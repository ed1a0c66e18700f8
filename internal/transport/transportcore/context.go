package transportcore

import (
	"context"

	"github.com/jamesprial/coffee-shop/internal/oauth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsContextKey is the context key for validated token claims.
	ClaimsContextKey contextKey = "oauth_claims"
)

// ClaimsFromContext extracts token claims from the request context.
// Returns nil and false if the claims are not present in the context.
func ClaimsFromContext(ctx context.Context) (*oauth.TokenClaims, bool) {
	if ctx == nil {
		return nil, false
	}
	claims, ok := ctx.Value(ClaimsContextKey).(*oauth.TokenClaims)
	return claims, ok && claims != nil
}

// ContextWithClaims adds token claims to the request context.
//
// This is used by the authorization middleware to store validated claims.
func ContextWithClaims(ctx context.Context, claims *oauth.TokenClaims) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ClaimsContextKey, claims)
}
