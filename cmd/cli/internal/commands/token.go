package commands

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wolfeidau/sprintboard/internal/auth"
)

// TokenCmd issues a development token for a server started with
// --jwt-public-key-file.
type TokenCmd struct {
	Subject        string        `help:"Subject (external user id)" required:""`
	OrgName        string        `help:"Organization name" default:""`
	Role           string        `help:"Organization role claim" default:"org:member" enum:"org:admin,org:member"`
	Email          string        `help:"Email claim" default:""`
	FirstName      string        `help:"First name claim" default:""`
	LastName       string        `help:"Last name claim" default:""`
	Issuer         string        `help:"Issuer claim" default:"sprintboard"`
	Audience       string        `help:"Audience claim" default:""`
	TTL            time.Duration `help:"Token lifetime" default:"1h"`
	SigningKeyFile string        `help:"PEM encoded ECDSA private key" required:"" env:"SPRINTCTL_SIGNING_KEY_FILE" type:"existingfile"`
}

func (t *TokenCmd) Run(ctx context.Context, globals *Globals) error {
	if globals.Org == "" {
		return fmt.Errorf("--org is required")
	}

	signingKey, err := os.ReadFile(t.SigningKeyFile)
	if err != nil {
		return fmt.Errorf("failed to read signing key: %w", err)
	}

	token, err := issueDevToken(string(signingKey), globals.Org, t)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func issueDevToken(signingKeyPEM, orgID string, t *TokenCmd) (string, error) {
	claims := auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: t.Subject,
			Issuer:  t.Issuer,
		},
		OrgID:     orgID,
		OrgName:   t.OrgName,
		OrgRole:   t.Role,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
	}
	if t.Audience != "" {
		claims.Audience = jwt.ClaimStrings{t.Audience}
	}

	token, err := auth.IssueToken(signingKeyPEM, claims, t.TTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// KeygenCmd writes a P-256 key pair for development tokens.
type KeygenCmd struct {
	Dir  string `help:"output directory" default:"."`
	Name string `help:"file name prefix" default:"sprintboard"`
}

func (k *KeygenCmd) Run(ctx context.Context) error {
	privPath, pubPath, err := writeKeyPair(k.Dir, k.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Private key: %s\n", privPath)
	fmt.Printf("Public key:  %s\n", pubPath)
	fmt.Println()
	fmt.Println("Start the server with:")
	fmt.Printf("  sprintboard serve --jwt-public-key-file %s\n", pubPath)
	return nil
}

func writeKeyPair(dir, name string) (string, string, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate key: %w", err)
	}

	privDER, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode public key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", "", fmt.Errorf("failed to create directory: %w", err)
	}

	privPath := filepath.Join(dir, name+".key")
	pubPath := filepath.Join(dir, name+".pub")

	if err := os.WriteFile(privPath, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER}), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write private key: %w", err)
	}
	if err := os.WriteFile(pubPath, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write public key: %w", err)
	}

	return privPath, pubPath, nil
}
