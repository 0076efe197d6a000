// Package auth resolves the authenticated principal for the remote backend.
// Sign-up and sign-in happen elsewhere; this package only implements
// session lookup: a signed HMAC-SHA256 token maps to a principal, or to none.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quanghm/coindex/internal/models"
)

// Manager issues and verifies session tokens.
type Manager struct {
	secret []byte
}

// NewManager creates a manager signing with the given secret.
func NewManager(secret string) *Manager {
	return &Manager{secret: []byte(secret)}
}

// Issue creates a signed session token for the principal.
func (m *Manager) Issue(principalID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": principalID,
		"iss": "coindex",
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses a session token and returns the principal it was issued to.
func (m *Manager) Verify(tokenString string) (*models.Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("session token has no subject")
	}
	return &models.Principal{ID: sub}, nil
}
