package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a redis-backed session store. Each session lives under its
// own key with a TTL matching the session lifetime, so expired sessions
// vanish without a sweeper. A per-user set tracks session IDs for listing
// and bulk revocation; members whose session key already expired are
// pruned on read.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on an existing redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id string) string { return "session:" + id }
func userKey(userID string) string { return "user-sessions:" + userID }

func ttlUntil(t time.Time) time.Duration {
	return time.Until(t)
}

// Get retrieves a session by ID.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	switch {
	case sess.Revoked:
		return &sess, ErrRevoked
	case sess.IsExpired():
		return &sess, ErrExpired
	}
	return &sess, nil
}

// Set stores a session with a TTL matching its expiry.
func (s *RedisStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	ttl := ttlUntil(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(sess.ID), data, ttl)
	pipe.SAdd(ctx, userKey(sess.UserID), sess.ID)
	pipe.Expire(ctx, userKey(sess.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil && sess == nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	pipe.SRem(ctx, userKey(sess.UserID), id)
	_, err = pipe.Exec(ctx)
	return err
}

// ListByUser returns all live sessions for a user, pruning set members
// whose session key has expired.
func (s *RedisStore) ListByUser(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var out []*Session
	var stale []any
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		switch err {
		case nil, ErrRevoked:
			out = append(out, sess)
		case ErrNotFound, ErrExpired:
			stale = append(stale, id)
		default:
			return nil, err
		}
	}
	if len(stale) > 0 {
		_ = s.client.SRem(ctx, userKey(userID), stale...).Err()
	}
	return out, nil
}

// Revoke marks a session revoked, keeping its key alive until expiry so
// the session listing can show it.
func (s *RedisStore) Revoke(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil && err != ErrRevoked {
		return err
	}
	if sess.Revoked {
		return nil
	}

	sess.Revoked = true
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := ttlUntil(sess.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}
	return s.client.Set(ctx, sessionKey(id), data, ttl).Err()
}

// RevokeAll revokes every session belonging to a user.
func (s *RedisStore) RevokeAll(ctx context.Context, userID string) error {
	ids, err := s.client.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, id := range ids {
		if err := s.Revoke(ctx, id); err != nil && err != ErrNotFound && err != ErrExpired {
			return err
		}
	}
	return nil
}

// Touch updates a session's last-active timestamp, preserving its TTL.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	sess.LastActive = time.Now()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, sessionKey(id), data, redis.KeepTTL).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
