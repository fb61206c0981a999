package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process session store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get retrieves a session by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	clone := *sess
	switch {
	case clone.Revoked:
		return &clone, ErrRevoked
	case clone.IsExpired():
		return &clone, ErrExpired
	}
	return &clone, nil
}

// Set stores a session.
func (s *MemoryStore) Set(ctx context.Context, sess *Session) error {
	clone := *sess
	s.mu.Lock()
	s.sessions[sess.ID] = &clone
	s.mu.Unlock()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// ListByUser returns all unexpired sessions for a user.
func (s *MemoryStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Session
	for _, sess := range s.sessions {
		if sess.UserID == userID && !sess.IsExpired() {
			clone := *sess
			out = append(out, &clone)
		}
	}
	return out, nil
}

// Revoke marks a session revoked.
func (s *MemoryStore) Revoke(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.Revoked = true
	return nil
}

// RevokeAll revokes every session belonging to a user.
func (s *MemoryStore) RevokeAll(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sess := range s.sessions {
		if sess.UserID == userID {
			sess.Revoked = true
		}
	}
	return nil
}

// Touch updates a session's last-active timestamp.
func (s *MemoryStore) Touch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return ErrNotFound
	}
	sess.LastActive = time.Now()
	return nil
}

// Close clears the store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()
	return nil
}

var _ Store = (*MemoryStore)(nil)
