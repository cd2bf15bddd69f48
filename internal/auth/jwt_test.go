package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func generateECKeyPair() (*ecdsa.PrivateKey, *ecdsa.PublicKey, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return privateKey, &privateKey.PublicKey, nil
}

func createSignedToken(t *testing.T, privateKey *ecdsa.PrivateKey, kid string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	tokenStr, err := token.SignedString(privateKey)
	require.NoError(t, err)
	return tokenStr
}

func generatePublicKeyPEM(t *testing.T, publicKey *ecdsa.PublicKey) string {
	t.Helper()
	publicKeyDER, err := x509.MarshalPKIXPublicKey(publicKey)
	require.NoError(t, err)

	publicKeyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicKeyDER,
	})
	require.NotNil(t, publicKeyPEM)
	return string(publicKeyPEM)
}

func generatePrivateKeyPEM(t *testing.T, privateKey *ecdsa.PrivateKey) string {
	t.Helper()
	der, err := x509.MarshalECPrivateKey(privateKey)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_ana",
			Issuer:    "https://idp.example.com",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		OrgID:   "org_a",
		OrgRole: "org:admin",
		Email:   "ana@example.com",
	}
}

func TestNewStaticKeyFromPEM(t *testing.T) {
	t.Run("empty public key", func(t *testing.T) {
		k, err := NewStaticKeyFromPEM("")
		require.Error(t, err)
		require.Nil(t, k)
		require.Equal(t, "JWT public key not provided", err.Error())
	})

	t.Run("invalid PEM", func(t *testing.T) {
		k, err := NewStaticKeyFromPEM("invalid pem")
		require.Error(t, err)
		require.Nil(t, k)
	})

	t.Run("valid public key PEM", func(t *testing.T) {
		_, publicKey, err := generateECKeyPair()
		require.NoError(t, err)

		k, err := NewStaticKeyFromPEM(generatePublicKeyPEM(t, publicKey))
		require.NoError(t, err)

		got, err := k.Key(context.Background(), "any")
		require.NoError(t, err)
		require.True(t, publicKey.Equal(got))
	})
}

func TestTokenVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	privateKey, publicKey, err := generateECKeyPair()
	require.NoError(t, err)

	keys, err := NewStaticKeyFromPEM(generatePublicKeyPEM(t, publicKey))
	require.NoError(t, err)
	verifier := NewTokenVerifier(keys, "https://idp.example.com", "")

	t.Run("valid token", func(t *testing.T) {
		claims, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "", validClaims()))
		require.NoError(t, err)
		require.Equal(t, "user_ana", claims.Subject)
		require.Equal(t, "org_a", claims.OrgID)
		require.Equal(t, "org:admin", claims.OrgRole)
		require.Equal(t, "ana@example.com", claims.Email)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "", claims))
		require.Error(t, err)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil
		_, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "", claims))
		require.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.example.com"
		_, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "", claims))
		require.Error(t, err)
	})

	t.Run("signed by another key", func(t *testing.T) {
		otherKey, _, err := generateECKeyPair()
		require.NoError(t, err)
		_, err = verifier.Verify(ctx, createSignedToken(t, otherKey, "", validClaims()))
		require.Error(t, err)
	})

	t.Run("wrong signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
		tokenStr, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)
		_, err = verifier.Verify(ctx, tokenStr)
		require.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""
		_, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "", claims))
		require.Error(t, err)
	})
}

func TestIssueToken(t *testing.T) {
	privateKey, publicKey, err := generateECKeyPair()
	require.NoError(t, err)

	tokenStr, err := IssueToken(generatePrivateKeyPEM(t, privateKey), Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_bo"},
		OrgID:            "org_a",
		OrgRole:          "MEMBER",
	}, time.Hour)
	require.NoError(t, err)

	keys, err := NewStaticKeyFromPEM(generatePublicKeyPEM(t, publicKey))
	require.NoError(t, err)

	claims, err := NewTokenVerifier(keys, "sprintboard", "").Verify(context.Background(), tokenStr)
	require.NoError(t, err)
	require.Equal(t, "user_bo", claims.Subject)
	require.Equal(t, "MEMBER", claims.OrgRole)
}

func jwkFor(kid string, publicKey *ecdsa.PublicKey) map[string]any {
	return map[string]any{
		"kty": "EC",
		"crv": "P-256",
		"kid": kid,
		"x":   base64.RawURLEncoding.EncodeToString(publicKey.X.FillBytes(make([]byte, 32))),
		"y":   base64.RawURLEncoding.EncodeToString(publicKey.Y.FillBytes(make([]byte, 32))),
	}
}

func TestJWKSKeyCache(t *testing.T) {
	ctx := context.Background()
	privateKey, publicKey, err := generateECKeyPair()
	require.NoError(t, err)

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]any{
				jwkFor("key-1", publicKey),
				{"kty": "RSA", "kid": "ignored"},
			},
		})
	}))
	defer srv.Close()

	cache := NewJWKSKeyCache(srv.URL, srv.Client())

	t.Run("known kid", func(t *testing.T) {
		key, err := cache.Key(ctx, "key-1")
		require.NoError(t, err)
		require.True(t, publicKey.Equal(key))

		_, err = cache.Key(ctx, "key-1")
		require.NoError(t, err)
		require.Equal(t, int32(1), fetches.Load(), "second lookup is served from memory")
	})

	t.Run("unknown kid refetches", func(t *testing.T) {
		_, err := cache.Key(ctx, "key-2")
		require.Error(t, err)
		require.Equal(t, int32(2), fetches.Load())
	})

	t.Run("verifies tokens", func(t *testing.T) {
		verifier := NewTokenVerifier(cache, "", "")
		claims, err := verifier.Verify(ctx, createSignedToken(t, privateKey, "key-1", validClaims()))
		require.NoError(t, err)
		require.Equal(t, "user_ana", claims.Subject)
	})
}

func TestParseJWK(t *testing.T) {
	_, publicKey, err := generateECKeyPair()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		key, err := parseJWK(jwkFor("k", publicKey))
		require.NoError(t, err)
		require.True(t, publicKey.Equal(key))
	})

	t.Run("unsupported key type", func(t *testing.T) {
		_, err := parseJWK(map[string]any{"kty": "RSA"})
		require.Error(t, err)
	})

	t.Run("unsupported curve", func(t *testing.T) {
		_, err := parseJWK(map[string]any{"kty": "EC", "crv": "P-384"})
		require.Error(t, err)
	})

	t.Run("missing coordinates", func(t *testing.T) {
		_, err := parseJWK(map[string]any{"kty": "EC", "crv": "P-256"})
		require.Error(t, err)
	})
}
