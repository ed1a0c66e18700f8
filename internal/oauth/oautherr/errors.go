// Package oautherr provides the authorization error constructors.
// This package is separate from internal/oauth to avoid import cycles
// when internal packages need to create auth errors.
package oautherr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	ierrors "github.com/jamesprial/coffee-shop/internal/errors"
)

// Sentinel causes attached to auth errors for identification.
var (
	// ErrKeyNotFound indicates the signing key (kid) was not found in the JWKS.
	ErrKeyNotFound = errors.New("key not found")

	// ErrJWKSFetchFailed indicates fetching the JWKS document failed.
	ErrJWKSFetchFailed = errors.New("jwks fetch failed")

	// ErrUnsupportedAlgorithm indicates the token uses an unsupported signing algorithm.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrMissingPermissions indicates the token carries no permissions claim.
	ErrMissingPermissions = errors.New("missing permissions claim")
)

// Client-facing descriptions.
const (
	descHeaderMissing   = "Authorization header is expected."
	descBearerPrefix    = `Authorization header must start with "Bearer".`
	descTokenNotFound   = "Token not found."
	descBearerToken     = "Authorization header must be bearer token."
	descMalformed       = "Authorization malformed."
	descUnparsable      = "Unable to parse authentication token."
	descKeyNotFound     = "Unable to find the appropriate key."
	descExpired         = "Token expired."
	descIncorrectClaims = "Incorrect claims. Please, check the audience and issuer."
	descNoPermissions   = "Permissions not included in JWT."
	descPermission      = "Permission not found."
)

// NewHeaderMissingError is returned when no Authorization header is sent.
func NewHeaderMissingError() *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeAuthorizationHeaderMissing, descHeaderMissing)
}

// NewMalformedHeaderError is returned when the Authorization header is not
// exactly "Bearer <token>". parts is the number of space separated fields.
func NewMalformedHeaderError(scheme string, parts int) *ierrors.AuthError {
	desc := descBearerToken
	switch {
	case parts > 0 && !strings.EqualFold(scheme, "bearer"):
		desc = descBearerPrefix
	case parts == 1:
		desc = descTokenNotFound
	}
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, desc)
}

// NewInvalidTokenError is returned for tokens that cannot be parsed or
// whose signature does not verify.
func NewInvalidTokenError(err error) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, descUnparsable).Wrap(err)
}

// NewMissingKeyIDError is returned when the token header has no kid.
func NewMissingKeyIDError() *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, descMalformed)
}

// NewUnsupportedAlgorithmError is returned when the alg header is not allowed.
func NewUnsupportedAlgorithmError(algorithm string) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, descUnparsable).
		Wrap(fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm))
}

// NewKeyNotFoundError is returned when no JWKS key matches the kid.
func NewKeyNotFoundError(keyID string) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, descKeyNotFound).
		Wrap(fmt.Errorf("%w: kid %q", ErrKeyNotFound, keyID))
}

// NewJWKSFetchError is returned when the JWKS document cannot be loaded.
// The cause stays server-side.
func NewJWKSFetchError(jwksURL string, err error) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidHeader, descKeyNotFound).
		Wrap(fmt.Errorf("%w: %s: %w", ErrJWKSFetchFailed, jwksURL, err))
}

// NewTokenExpiredError is returned for tokens past their expiry.
func NewTokenExpiredError(err error) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeTokenExpired, descExpired).Wrap(err)
}

// NewInvalidClaimsError is returned for a wrong issuer or audience, or a
// missing registered claim.
func NewInvalidClaimsError(err error) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusUnauthorized, ierrors.CodeInvalidClaims, descIncorrectClaims).Wrap(err)
}

// NewMissingPermissionsClaimError is returned when the token has no
// permissions claim at all.
func NewMissingPermissionsClaimError() *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusForbidden, ierrors.CodeInvalidClaims, descNoPermissions).
		Wrap(ErrMissingPermissions)
}

// NewPermissionDeniedError is returned when the permissions claim lacks
// the required permission.
func NewPermissionDeniedError(permission string) *ierrors.AuthError {
	return ierrors.NewAuthError(http.StatusForbidden, ierrors.CodeUnauthorized, descPermission).
		Wrap(fmt.Errorf("missing permission %q", permission))
}
