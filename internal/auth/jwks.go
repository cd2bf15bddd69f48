package auth

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mr-tron/base58"
)

// KeyID returns the kid for a public key: the base58 encoded SHA256 of its
// DER encoding.
func KeyID(publicKey *ecdsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}

	hash := sha256.Sum256(der)
	return base58.Encode(hash[:]), nil
}

// JWK returns the public key in JWK format.
func JWK(publicKey *ecdsa.PublicKey) (map[string]any, error) {
	kid, err := KeyID(publicKey)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"kty": "EC",
		"use": "sig",
		"crv": "P-256",
		"kid": kid,
		"x":   base64.RawURLEncoding.EncodeToString(publicKey.X.FillBytes(make([]byte, 32))),
		"y":   base64.RawURLEncoding.EncodeToString(publicKey.Y.FillBytes(make([]byte, 32))),
		"alg": "ES256",
	}, nil
}

// NewJWKSHandler serves the given keys as a JWKS document, cacheable for an
// hour.
func NewJWKSHandler(keys ...*ecdsa.PublicKey) (http.Handler, error) {
	jwks := struct {
		Keys []map[string]any `json:"keys"`
	}{Keys: make([]map[string]any, 0, len(keys))}

	for _, key := range keys {
		jwk, err := JWK(key)
		if err != nil {
			return nil, err
		}
		jwks.Keys = append(jwks.Keys, jwk)
	}

	body, err := json.Marshal(jwks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JWKS: %w", err)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(body)
	}), nil
}
