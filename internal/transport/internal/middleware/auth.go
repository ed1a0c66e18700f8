// Package middleware provides HTTP middleware for the transport layer.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
	"github.com/jamesprial/coffee-shop/internal/oauth"
	"github.com/jamesprial/coffee-shop/internal/oauth/oautherr"
	"github.com/jamesprial/coffee-shop/internal/transport/transportcore"
	pkgoauth "github.com/jamesprial/coffee-shop/pkg/oauth"
)

// authMiddleware implements transportcore.AuthMiddleware.
type authMiddleware struct {
	validator oauth.TokenValidator
	checker   oauth.PermissionChecker
	responder transportcore.ErrorResponder
}

// NewAuthMiddleware creates the permission guard.
// It validates bearer tokens with validator, checks permissions with checker
// and reports failures through responder.
func NewAuthMiddleware(
	validator oauth.TokenValidator,
	checker oauth.PermissionChecker,
	responder transportcore.ErrorResponder,
) transportcore.AuthMiddleware {
	if validator == nil {
		panic("validator cannot be nil")
	}
	if checker == nil {
		panic("checker cannot be nil")
	}
	if responder == nil {
		panic("responder cannot be nil")
	}

	return &authMiddleware{
		validator: validator,
		checker:   checker,
		responder: responder,
	}
}

// RequirePermission authorizes the request for permission before calling
// next. The validated claims are stored in the request context.
func (m *authMiddleware) RequirePermission(permission string) transportcore.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := m.authorize(r, permission)
			if err != nil {
				m.responder.Respond(w, r, err)
				return
			}

			ctx := transportcore.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authorize runs header extraction, token validation and the permission
// check in that order.
func (m *authMiddleware) authorize(r *http.Request, permission string) (*oauth.TokenClaims, error) {
	token, err := extractBearerToken(r)
	if err != nil {
		return nil, err
	}

	claims, err := m.validator.ValidateToken(r.Context(), token)
	if err != nil {
		var authErr *ierrors.AuthError
		if !errors.As(err, &authErr) {
			// Validators report failures as AuthError; anything else is
			// still an authentication failure, never a 500.
			return nil, oautherr.NewInvalidTokenError(err)
		}
		return nil, err
	}

	if err := m.checker.RequirePermission(claims, permission); err != nil {
		return nil, err
	}

	return claims, nil
}

// extractBearerToken extracts the Bearer token from the Authorization header.
// The header must hold exactly two whitespace separated fields, the first
// being the Bearer scheme (case-insensitive per RFC 6750).
//
// Format: Authorization: Bearer <token>
func extractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get(pkgoauth.HeaderAuthorization)
	if authHeader == "" {
		return "", oautherr.NewHeaderMissingError()
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], pkgoauth.BearerToken) {
		scheme := ""
		if len(parts) > 0 {
			scheme = parts[0]
		}
		return "", oautherr.NewMalformedHeaderError(scheme, len(parts))
	}

	return parts[1], nil
}
