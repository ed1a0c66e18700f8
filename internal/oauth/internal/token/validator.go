package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jamesprial/coffee-shop/internal/oauth/oautherr"
)

// JWKSClient defines the interface for fetching signing keys.
// This avoids importing the parent oauth package.
type JWKSClient interface {
	GetKey(ctx context.Context, keyID string) (any, error)
	RefreshKeys(ctx context.Context) error
}

// Whitelisted asymmetric signing algorithms. HMAC and "none" are rejected
// before any key lookup.
var allowedAlgorithms = map[string]bool{
	"RS256": true,
	"RS384": true,
	"RS512": true,
	"ES256": true,
	"ES384": true,
	"ES512": true,
}

// Validator validates bearer tokens issued by the identity provider.
type Validator struct {
	jwksClient JWKSClient
	issuer     string
	audience   string
	clockSkew  time.Duration
}

// NewValidator creates a new token validator. An empty issuer disables the
// issuer check.
func NewValidator(jwksClient JWKSClient, issuer, audience string, clockSkew time.Duration) *Validator {
	return &Validator{
		jwksClient: jwksClient,
		issuer:     issuer,
		audience:   audience,
		clockSkew:  clockSkew,
	}
}

// ValidateToken verifies the token and returns its claims. Every failure
// is an *errors.AuthError.
func (v *Validator) ValidateToken(ctx context.Context, tokenString string) (*TokenClaims, error) {
	unverified, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, oautherr.NewInvalidTokenError(fmt.Errorf("parse token: %w", err))
	}

	alg, _ := unverified.Header["alg"].(string)
	if !allowedAlgorithms[alg] {
		return nil, oautherr.NewUnsupportedAlgorithmError(alg)
	}

	kid, _ := unverified.Header["kid"].(string)
	if kid == "" {
		return nil, oautherr.NewMissingKeyIDError()
	}

	key, err := v.jwksClient.GetKey(ctx, kid)
	if err != nil {
		return nil, err
	}
	if key == nil {
		return nil, oautherr.NewKeyNotFoundError(kid)
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{alg}),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.clockSkew),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	verified, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return key, nil
	}, opts...)
	if err != nil {
		return nil, classifyParseError(err)
	}

	mapClaims, ok := verified.Claims.(jwt.MapClaims)
	if !ok || !verified.Valid {
		return nil, oautherr.NewInvalidTokenError(errors.New("token is invalid"))
	}

	return extractClaims(mapClaims), nil
}

// classifyParseError maps jwt validation errors onto auth errors. Expiry
// wins over claim mismatches when both apply.
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return oautherr.NewTokenExpiredError(err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return oautherr.NewInvalidClaimsError(err)
	default:
		return oautherr.NewInvalidTokenError(err)
	}
}
