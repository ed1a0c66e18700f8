package jwks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jamesprial/coffee-shop/internal/oauth/oautherr"
	"golang.org/x/sync/singleflight"
)

const (
	// fetchTimeout bounds a single JWKS request.
	fetchTimeout = 10 * time.Second

	// maxDocumentSize caps the JWKS response body.
	maxDocumentSize = 1 << 20

	// defaultMinRefreshInterval stops tokens with unknown kids from
	// hammering the identity provider.
	defaultMinRefreshInterval = 10 * time.Second
)

// JWKS represents a JSON Web Key Set.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// JWK represents a single JSON Web Key.
type JWK struct {
	KeyType   string `json:"kty"`
	Use       string `json:"use,omitempty"`
	KeyID     string `json:"kid"`
	Algorithm string `json:"alg,omitempty"`
	// RSA public key parameters
	N string `json:"n,omitempty"` // modulus
	E string `json:"e,omitempty"` // exponent
	// EC public key parameters
	Curve string `json:"crv,omitempty"`
	X     string `json:"x,omitempty"`
	Y     string `json:"y,omitempty"`
}

// Client fetches and caches the identity provider's JWKS document.
type Client struct {
	httpClient         *http.Client
	jwksURL            string
	cache              *Cache
	group              singleflight.Group
	minRefreshInterval time.Duration
}

// NewClient creates a new JWKS client for a single JWKS URL.
func NewClient(jwksURL string, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
		jwksURL:            jwksURL,
		cache:              NewCache(cacheTTL),
		minRefreshInterval: defaultMinRefreshInterval,
	}
}

// GetKey returns the public key for keyID, fetching the key set when the
// cache is empty, expired or missing the key. An unknown kid only causes a
// refetch once per minimum refresh interval.
func (c *Client) GetKey(ctx context.Context, keyID string) (any, error) {
	if keyID == "" {
		return nil, oautherr.NewKeyNotFoundError(keyID)
	}

	if key, ok := c.cache.Lookup(keyID); ok {
		return key, nil
	}

	if !c.cache.Stale() && c.cache.FetchedWithin(c.minRefreshInterval) {
		// A concurrent refresh may have landed since the first lookup.
		if key, ok := c.cache.Lookup(keyID); ok {
			return key, nil
		}
		return nil, oautherr.NewKeyNotFoundError(keyID)
	}

	if err := c.RefreshKeys(ctx); err != nil {
		return nil, err
	}

	if key, ok := c.cache.Lookup(keyID); ok {
		return key, nil
	}
	return nil, oautherr.NewKeyNotFoundError(keyID)
}

// RefreshKeys refetches the key set. Concurrent callers share one request.
func (c *Client) RefreshKeys(ctx context.Context) error {
	// The shared fetch must not die with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)

	_, err, _ := c.group.Do(c.jwksURL, func() (any, error) {
		set, err := c.fetchJWKS(fetchCtx)
		if err != nil {
			return nil, err
		}
		c.cache.Replace(set.publicKeys())
		return nil, nil
	})
	return err
}

// fetchJWKS fetches the JWKS document.
func (c *Client) fetchJWKS(ctx context.Context) (*JWKS, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return nil, oautherr.NewJWKSFetchError(c.jwksURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, oautherr.NewJWKSFetchError(c.jwksURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, oautherr.NewJWKSFetchError(c.jwksURL,
			fmt.Errorf("jwks endpoint returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, oautherr.NewJWKSFetchError(c.jwksURL, err)
	}

	var set JWKS
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, oautherr.NewJWKSFetchError(c.jwksURL, err)
	}

	return &set, nil
}

// publicKeys converts every usable signing key in the set. Keys without a
// kid, meant for encryption, or with bad parameters are skipped.
func (s *JWKS) publicKeys() map[string]any {
	keys := make(map[string]any, len(s.Keys))
	for i := range s.Keys {
		jwk := &s.Keys[i]
		if jwk.KeyID == "" || (jwk.Use != "" && jwk.Use != "sig") {
			continue
		}
		key, err := jwk.PublicKey()
		if err != nil {
			continue
		}
		keys[jwk.KeyID] = key
	}
	return keys
}
