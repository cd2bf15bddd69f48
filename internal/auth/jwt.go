package auth

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// Claims are the claims read from identity provider tokens.
// The subject is the external user ID; the org claims describe the
// organization the user is currently working in.
type Claims struct {
	jwt.RegisteredClaims

	OrgID     string `json:"org_id,omitempty"`
	OrgName   string `json:"org_name,omitempty"`
	OrgRole   string `json:"org_role,omitempty"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
}

// KeySource returns the public key used to verify a token signed with kid.
type KeySource interface {
	Key(ctx context.Context, kid string) (*ecdsa.PublicKey, error)
}

// StaticKey is a KeySource that serves one key regardless of kid.
type StaticKey struct {
	publicKey *ecdsa.PublicKey
}

// NewStaticKeyFromPEM creates a StaticKey from a PEM encoded ECDSA public key.
func NewStaticKeyFromPEM(publicKeyPEM string) (*StaticKey, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not provided")
	}

	publicKey, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}

	return &StaticKey{publicKey: publicKey}, nil
}

// PublicKey returns the verification key.
func (k *StaticKey) PublicKey() *ecdsa.PublicKey {
	return k.publicKey
}

// Key implements KeySource.
func (k *StaticKey) Key(context.Context, string) (*ecdsa.PublicKey, error) {
	return k.publicKey, nil
}

// TokenVerifier validates ES256 bearer tokens issued by the identity provider.
type TokenVerifier struct {
	keys     KeySource
	issuer   string
	audience string
}

// NewTokenVerifier creates a verifier. Empty issuer or audience disables that check.
func NewTokenVerifier(keys KeySource, issuer, audience string) *TokenVerifier {
	return &TokenVerifier{keys: keys, issuer: issuer, audience: audience}
}

// Verify parses and validates a token, returning its claims.
func (v *TokenVerifier) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.Key(ctx, kid)
	}, opts...)
	if err != nil {
		log.Debug().Err(err).Msg("JWT parse error")
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if !parsed.Valid {
		return nil, errors.New("token invalid")
	}

	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return claims, nil
}
