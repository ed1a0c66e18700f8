package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jamesprial/coffee-shop/pkg/oauth"
)

// TokenClaims represents validated JWT claims from an access token.
type TokenClaims struct {
	Subject  string
	Issuer   string
	Audience []string

	// Permissions is the RBAC permission list granted to the caller.
	Permissions []string

	// PermissionsPresent reports whether the token carried a permissions
	// claim at all, as opposed to an empty one.
	PermissionsPresent bool

	// Scopes is parsed from the space separated scope claim.
	Scopes []string

	ExpiresAt time.Time
	IssuedAt  time.Time
	JTI       string
}

// HasPermission returns true if the token grants the permission.
func (c *TokenClaims) HasPermission(permission string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// extractClaims copies the verified registered and custom claims.
func extractClaims(mapClaims jwt.MapClaims) *TokenClaims {
	claims := &TokenClaims{}

	claims.Subject, _ = mapClaims.GetSubject()
	claims.Issuer, _ = mapClaims.GetIssuer()
	claims.Audience, _ = mapClaims.GetAudience()

	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if jti, ok := mapClaims["jti"].(string); ok {
		claims.JTI = jti
	}

	if raw, ok := mapClaims[oauth.ClaimPermissions]; ok {
		claims.PermissionsPresent = true
		claims.Permissions = parsePermissions(raw)
	}
	if scope, ok := mapClaims[oauth.ClaimScope].(string); ok {
		claims.Scopes = strings.Fields(scope)
	}

	return claims
}

// parsePermissions accepts the JSON array form issued by the identity
// provider and a space separated string. Non-string entries are skipped.
func parsePermissions(raw any) []string {
	switch v := raw.(type) {
	case []any:
		permissions := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				permissions = append(permissions, s)
			}
		}
		return permissions
	case string:
		return strings.Fields(v)
	default:
		return nil
	}
}
