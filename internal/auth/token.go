package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IssueToken creates a signed ES256 token carrying claims, valid for ttl.
// signingKeyPEM is the PEM-encoded ECDSA private key. Used for development
// setups where the server runs with a static public key.
func IssueToken(signingKeyPEM string, claims Claims, ttl time.Duration) (string, error) {
	signingKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(signingKeyPEM))
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	if claims.Issuer == "" {
		claims.Issuer = "sprintboard"
	}

	kid, err := KeyID(&signingKey.PublicKey)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, &claims)
	token.Header["kid"] = kid
	return token.SignedString(signingKey)
}
