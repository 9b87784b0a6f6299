// internal/pkg/token/manager.go
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// SessionTTL is the fixed lifetime of an admin session.
const SessionTTL = 24 * time.Hour

// Claims bind a session to one admin account and its issuance time.
type Claims struct {
	AdminID string `json:"admin_id"`
	jwt.RegisteredClaims
}

// Manager issues and verifies signed session tokens. Sessions are
// stateless: there is no server-side table, validity is the signature
// plus the embedded expiry.
type Manager struct {
	secret []byte
	issuer string
}

func NewManager(secret, issuer string) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token manager requires a non-empty session secret")
	}
	return &Manager{secret: []byte(secret), issuer: issuer}, nil
}

// Issue creates a signed session token for the given admin id.
func (m *Manager) Issue(adminID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		AdminID: adminID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   adminID,
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify parses a session token and returns its claims.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, fmt.Errorf("invalid session token claims")
	}
	if claims.AdminID == "" {
		return nil, fmt.Errorf("session token missing admin id")
	}

	return claims, nil
}
