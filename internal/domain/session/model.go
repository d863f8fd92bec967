package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultLifetime applies when the bearer token carries no usable exp claim.
const DefaultLifetime = 7 * 24 * time.Hour

// ErrNotFound is returned when no live session matches an id.
var ErrNotFound = errors.New("session not found")

// ErrEmptyToken is returned when a session is created without a bearer token.
var ErrEmptyToken = errors.New("session requires a bearer token")

// Session is a signed-in viewer as seen by this server.
// Token is the backend bearer token; it never leaves the server.
type Session struct {
	ID        string
	Token     string
	Name      string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// New creates a session for a freshly issued bearer token.
// PRE: token is non-empty
// POST: ID is a new uuid; ExpiresAt follows the token's exp claim
func New(token, name, email string, now time.Time) (Session, error) {
	if token == "" {
		return Session{}, ErrEmptyToken
	}
	return Session{
		ID:        uuid.NewString(),
		Token:     token,
		Name:      name,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: ExpiryFromToken(token, now),
	}, nil
}

// Expired reports whether the session is no longer usable at now.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// ExpiryFromToken reads the exp claim of a JWT without verifying it.
// The backend owns signature checks; this only bounds how long the
// server keeps the token around.
func ExpiryFromToken(token string, now time.Time) time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return now.Add(DefaultLifetime)
	}
	if claims.ExpiresAt == nil {
		return now.Add(DefaultLifetime)
	}
	return claims.ExpiresAt.Time
}
