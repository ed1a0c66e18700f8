package transport

import (
	"context"

	"github.com/jamesprial/coffee-shop/internal/logging"
	"github.com/jamesprial/coffee-shop/internal/oauth"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
)

// ClaimsContextKey is the context key for validated token claims.
const ClaimsContextKey = transportcore.ClaimsContextKey

// ClaimsFromContext extracts token claims from the request context.
// Returns nil and false if the claims are not present in the context.
//
// Claims are only present on routes guarded by a permission.
func ClaimsFromContext(ctx context.Context) (*oauth.TokenClaims, bool) {
	return transportcore.ClaimsFromContext(ctx)
}

// ContextWithClaims adds token claims to the request context.
func ContextWithClaims(ctx context.Context, claims *oauth.TokenClaims) context.Context {
	return transportcore.ContextWithClaims(ctx, claims)
}

// RequestIDFromContext returns the ID the request ID middleware assigned.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return logging.RequestIDFromContext(ctx)
}
