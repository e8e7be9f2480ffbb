package security

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens verifies the backend-issued bearer JWTs locally: HS256 with the
// shared secret, a `sub` claim carrying the user ID. Local verification is a
// fast reject only; the authoritative identity still comes from the backend.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

// Subject parses and verifies raw and returns its sub claim.
func (t *Tokens) Subject(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithLeeway(30*time.Second)) // small clock skew
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token: claims parsing error")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("invalid token: missing sub")
	}
	return sub, nil
}

// Digest returns a stable fingerprint of a token, safe to use as a cache key.
func Digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:16])
}
