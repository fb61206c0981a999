// Package session provides server-side session management for
// authenticated users.
//
// A session is created at login, carried by a JWT access token, and
// checked on every authenticated request so revocation takes effect
// immediately. The Store interface supports:
//   - Get/Set/Delete operations
//   - Per-user listing and bulk revocation (used when suspending a user)
//   - Last-active tracking for the session listing UI
//
// Backends:
//   - memory: in-process storage for development and tests
//   - redis: shared storage for multi-instance deployments, with TTL
//     expiry matching the token lifetime
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")

	// ErrRevoked is returned when a session has been revoked.
	ErrRevoked = errors.New("revoked")
)

// DefaultTTL is the default session duration, matching the access token
// lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// Session stores one signed-in device for a user.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	IPAddress  string    `json:"ipAddress,omitempty"`
	UserAgent  string    `json:"userAgent,omitempty"`
	LastActive time.Time `json:"lastActive"`
	Revoked    bool      `json:"isRevoked"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Valid reports whether the session can authenticate a request.
func (s *Session) Valid() bool {
	return s != nil && !s.Revoked && !s.IsExpired()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns ErrNotFound if absent, ErrExpired if past its TTL, and
	// ErrRevoked if revoked. Expired and revoked sessions are still
	// returned alongside the error so callers can inspect them.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// ListByUser returns all live (unexpired) sessions for a user,
	// revoked ones included.
	ListByUser(ctx context.Context, userID string) ([]*Session, error)

	// Revoke marks a session revoked without deleting it, so the session
	// listing can still show it.
	Revoke(ctx context.Context, id string) error

	// RevokeAll revokes every session belonging to a user. Used when an
	// account is suspended or deleted.
	RevokeAll(ctx context.Context, userID string) error

	// Touch updates a session's last-active timestamp.
	Touch(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// GenerateID creates a cryptographically secure random session ID.
func GenerateID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// New creates a session for userID with the given TTL.
func New(userID, ip, userAgent string, ttl time.Duration) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	return &Session{
		ID:         id,
		UserID:     userID,
		IPAddress:  ip,
		UserAgent:  userAgent,
		LastActive: now,
		ExpiresAt:  now.Add(ttl),
		CreatedAt:  now,
	}, nil
}
