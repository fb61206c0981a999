package server

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window rate limiter keyed by client IP.
type Limiter interface {
	// Allow reports whether the request under key fits the window.
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is an in-process fixed-window limiter.
type MemoryLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	records   map[string]*windowRecord
	nextSweep time.Time
}

type windowRecord struct {
	count     int
	expiresAt time.Time
}

// NewMemoryLimiter allows limit requests per window for each key.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:   limit,
		window:  window,
		records: make(map[string]*windowRecord),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Closed windows for idle keys would otherwise accumulate forever;
	// sweep them at most once per window.
	if now.After(l.nextSweep) {
		for k, rec := range l.records {
			if now.After(rec.expiresAt) {
				delete(l.records, k)
			}
		}
		l.nextSweep = now.Add(l.window)
	}

	rec, ok := l.records[key]
	if !ok || now.After(rec.expiresAt) {
		l.records[key] = &windowRecord{count: 1, expiresAt: now.Add(l.window)}
		return true, nil
	}
	if rec.count >= l.limit {
		return false, nil
	}
	rec.count++
	return true, nil
}

var _ Limiter = (*MemoryLimiter)(nil)

// RedisLimiter is a fixed-window limiter shared across instances. Each
// key's counter lives for one window and increments atomically.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit requests per window for each key.
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window}
}

// Allow implements Limiter. On redis failure the request is allowed;
// shedding traffic because the limiter is down would be worse than
// briefly not limiting.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := "ratelimit:" + key

	n, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if n == 1 {
		// First hit opens the window; later hits must not extend it.
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
	}
	return n <= int64(l.limit), nil
}

var _ Limiter = (*RedisLimiter)(nil)
