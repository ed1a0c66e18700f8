package token

import (
	"github.com/jamesprial/coffee-shop/internal/oauth/oautherr"
)

// PermissionChecker validates the permissions claim of a token.
type PermissionChecker struct{}

// NewPermissionChecker creates a new permission checker.
func NewPermissionChecker() *PermissionChecker {
	return &PermissionChecker{}
}

// RequirePermission checks that the token grants permission.
func (p *PermissionChecker) RequirePermission(claims *TokenClaims, permission string) error {
	if claims == nil || !claims.PermissionsPresent {
		return oautherr.NewMissingPermissionsClaimError()
	}
	if !claims.HasPermission(permission) {
		return oautherr.NewPermissionDeniedError(permission)
	}
	return nil
}
