// Package cache provides byte-level caching with pluggable backends.
//
// The service uses it for link-preview metadata: scraping a third-party
// page is slow and rate-limited, so successful scrapes are cached under a
// hashed URL key. Backends:
//   - memory: in-process map for development and tests
//   - redis: shared cache for multi-instance deployments
//   - null: disabled caching
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves data by key. The bool reports whether the key was
	// present; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
