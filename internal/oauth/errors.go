package oauth

import (
	"github.com/jamesprial/coffee-shop/internal/oauth/oautherr"
)

// Sentinel causes for auth failures, re-exported for callers outside the
// internal tree. Use errors.Is against an *errors.AuthError chain.
var (
	// ErrKeyNotFound indicates the signing key (kid) was not found in the JWKS.
	ErrKeyNotFound = oautherr.ErrKeyNotFound

	// ErrJWKSFetchFailed indicates fetching the JWKS document failed.
	ErrJWKSFetchFailed = oautherr.ErrJWKSFetchFailed

	// ErrUnsupportedAlgorithm indicates the token uses an unsupported signing algorithm.
	ErrUnsupportedAlgorithm = oautherr.ErrUnsupportedAlgorithm

	// ErrMissingPermissions indicates the token carries no permissions claim.
	ErrMissingPermissions = oautherr.ErrMissingPermissions
)
