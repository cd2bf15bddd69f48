package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const jwksTTL = 1 * time.Hour

// JWKSKeyCache is a KeySource backed by the identity provider's JWKS endpoint.
// Keys are kept in memory for an hour; the HTTP client is expected to honour
// cache headers as well (see client.NewCachingHTTPClient).
type JWKSKeyCache struct {
	jwksURL    string
	httpClient *http.Client

	mu        sync.RWMutex
	keys      map[string]*ecdsa.PublicKey // kid -> public key
	expiresAt time.Time
}

// NewJWKSKeyCache creates a new JWKS backed key source.
func NewJWKSKeyCache(jwksURL string, httpClient *http.Client) *JWKSKeyCache {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	return &JWKSKeyCache{
		jwksURL:    jwksURL,
		httpClient: httpClient,
	}
}

// Key returns the public key for kid, refreshing the JWKS when the key is
// unknown or the cache has expired.
func (c *JWKSKeyCache) Key(ctx context.Context, kid string) (*ecdsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	fresh := time.Now().Before(c.expiresAt)
	c.mu.RUnlock()

	if ok && fresh {
		log.Debug().Str("kid", kid).Msg("JWKS cache hit")
		return key, nil
	}

	keys, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.keys = keys
	c.expiresAt = time.Now().Add(jwksTTL)
	c.mu.Unlock()

	key, ok = keys[kid]
	if !ok {
		return nil, fmt.Errorf("kid not found in JWKS: %s", kid)
	}

	log.Info().Str("kid", kid).Int("total_keys", len(keys)).Msg("Cached JWKS")
	return key, nil
}

func (c *JWKSKeyCache) fetch(ctx context.Context) (map[string]*ecdsa.PublicKey, error) {
	log.Debug().Str("jwks_url", c.jwksURL).Msg("Fetching JWKS")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("JWKS request failed: %s", resp.Status)
	}

	var jwks struct {
		Keys []map[string]any `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode JWKS: %w", err)
	}

	keys := make(map[string]*ecdsa.PublicKey)
	for _, jwk := range jwks.Keys {
		kid, ok := jwk["kid"].(string)
		if !ok {
			log.Warn().Msg("JWK missing kid")
			continue
		}

		key, err := parseJWK(jwk)
		if err != nil {
			log.Warn().Err(err).Str("kid", kid).Msg("Failed to parse JWK")
			continue
		}

		keys[kid] = key
	}

	return keys, nil
}

// parseJWK parses a JWK (JSON Web Key) into an ECDSA P-256 public key.
func parseJWK(jwk map[string]any) (*ecdsa.PublicKey, error) {
	kty, ok := jwk["kty"].(string)
	if !ok || kty != "EC" {
		return nil, fmt.Errorf("unsupported key type: %v", jwk["kty"])
	}

	crv, ok := jwk["crv"].(string)
	if !ok || crv != "P-256" {
		return nil, fmt.Errorf("unsupported curve: %v", jwk["crv"])
	}

	xStr, ok := jwk["x"].(string)
	if !ok {
		return nil, fmt.Errorf("missing x coordinate")
	}

	yStr, ok := jwk["y"].(string)
	if !ok {
		return nil, fmt.Errorf("missing y coordinate")
	}

	xBytes, err := base64.RawURLEncoding.DecodeString(xStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode x: %w", err)
	}

	yBytes, err := base64.RawURLEncoding.DecodeString(yStr)
	if err != nil {
		return nil, fmt.Errorf("failed to decode y: %w", err)
	}

	return &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xBytes),
		Y:     new(big.Int).SetBytes(yBytes),
	}, nil
}
