// Package cache is the computation cache that fronts derived, TTL-bound
// artifacts such as recommendations and busyness predictions.
//
// Values are stored as JSON. A key is either absent or fresh; expired
// entries read as absent. Callers use GetOrCompute for reads and Invalidate
// after any write that changes a derived value's inputs. Both treat backend
// failures as misses so a cache outage degrades to recomputation.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidTTL is returned by Set for a non-positive ttl.
var ErrInvalidTTL = errors.New("ttl must be positive")

// Cache is a key-value store with per-key TTLs.
type Cache interface {
	// Get returns the stored bytes and true on a hit. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A non-positive ttl returns
	// ErrInvalidTTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(ctx context.Context, prefix string) error

	// Flush removes every key owned by this cache.
	Flush(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
