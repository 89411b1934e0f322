package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/metrics"
)

// GetOrCompute returns the cached value for key or, on a miss, calls compute
// once and stores its result for ttl.
//
// A cached empty value counts as a hit. Cache read, write and decode failures
// are logged and treated as misses; only compute errors are returned, and a
// failed compute stores nothing.
func GetOrCompute[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	log := logger.FromContext(ctx).WithField(logger.FieldCacheKey, key)
	family := Family(key)

	if c != nil {
		data, ok, err := c.Get(ctx, key)
		switch {
		case err != nil:
			metrics.RecordCacheLookup(family, metrics.ResultError)
			log.WithError(err).Warn("Cache read failed, recomputing")
		case ok:
			var cached T
			err := json.Unmarshal(data, &cached)
			if err == nil {
				metrics.RecordCacheLookup(family, metrics.ResultHit)
				log.Debug("Cache hit")
				return cached, nil
			}
			metrics.RecordCacheLookup(family, metrics.ResultError)
			log.WithError(err).Warn("Discarding undecodable cache entry")
		default:
			metrics.RecordCacheLookup(family, metrics.ResultMiss)
		}
	}

	start := time.Now()
	value, err := compute(ctx)
	metrics.RecordCompute(family, time.Since(start))
	if err != nil {
		var zero T
		return zero, err
	}

	if c != nil {
		Store(ctx, c, key, value, ttl)
	}
	return value, nil
}

// Store encodes value and writes it under key. Failures are logged, not returned.
func Store(ctx context.Context, c Cache, key string, value any, ttl time.Duration) {
	log := logger.FromContext(ctx).WithField(logger.FieldCacheKey, key)

	data, err := json.Marshal(value)
	if err != nil {
		log.WithError(err).Warn("Failed to encode cache value")
		return
	}
	if err := c.Set(ctx, key, data, ttl); err != nil {
		log.WithError(err).Warn("Cache write failed")
		return
	}
	log.Debug("Saved to cache")
}

// Lookup decodes the value under key into dest. It reports false on a miss
// or on any cache failure.
func Lookup(ctx context.Context, c Cache, key string, dest any) bool {
	if c == nil {
		return false
	}
	log := logger.FromContext(ctx).WithField(logger.FieldCacheKey, key)

	data, ok, err := c.Get(ctx, key)
	if err != nil {
		log.WithError(err).Warn("Cache read failed")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.WithError(err).Warn("Discarding undecodable cache entry")
		return false
	}
	return true
}

// Invalidate deletes keys. It must run after the write that made them stale
// and before the write is reported as successful. A failed delete is logged
// at error level and not returned, since the write itself succeeded.
func Invalidate(ctx context.Context, c Cache, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	log := logger.FromContext(ctx).WithField("keys", keys)
	err := c.Delete(ctx, keys...)
	metrics.RecordInvalidation(err)
	if err != nil {
		log.WithError(err).Error("Cache invalidation failed")
		return
	}
	log.Info("Cache invalidated")
}

// InvalidatePrefix deletes every key starting with prefix, with the same
// error handling as Invalidate.
func InvalidatePrefix(ctx context.Context, c Cache, prefix string) {
	if c == nil {
		return
	}
	log := logger.FromContext(ctx).WithField("prefix", prefix)
	err := c.DeletePrefix(ctx, prefix)
	metrics.RecordInvalidation(err)
	if err != nil {
		log.WithError(err).Error("Cache invalidation failed")
		return
	}
	log.Info("Cache invalidated")
}
