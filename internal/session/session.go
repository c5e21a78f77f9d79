// Package session issues and verifies signed, self-contained session
// credentials. Sessions are stateless: nothing is persisted server-side and
// there is no revocation before expiry. Compromise recovery is rotating the
// signing secret, which invalidates all outstanding sessions at once.
package session

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campuswell/psychtool/internal/errs"
)

// DefaultTTL is the fixed session lifetime. There is no "remember me"
// variance.
const DefaultTTL = 60 * 24 * time.Hour

// Manager signs and verifies session credentials with a process-wide secret
// loaded once at startup.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager constructs a Manager with the given signing secret and lifetime.
func NewManager(secret []byte, ttl time.Duration) *Manager {
	return &Manager{secret: secret, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue creates a signed HS256 credential binding the given user id with a
// deterministic expiry window.
func (m *Manager) Issue(userID int64) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// Verify checks the signature and expiry of a presented credential and
// returns the embedded user id. Tampered, malformed and expired tokens all
// collapse to ErrUnauthorized; callers get no distinction.
func (m *Manager) Verify(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, errs.ErrUnauthorized
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errs.ErrUnauthorized
	}
	return id, nil
}
