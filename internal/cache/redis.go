package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

// RedisConfig holds the Redis connection configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	KeyPrefix    string
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// BreakerTimeout is how long the breaker stays open before letting a
	// trial call through. Zero means 30s.
	BreakerTimeout time.Duration
}

// RedisCache implements Cache on a shared Redis instance. Calls go through
// a circuit breaker: after repeated failures they are rejected without
// touching the network until the breaker half-opens and a trial call succeeds.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	cb        *gobreaker.CircuitBreaker[struct{}]
}

// NewRedisCache creates a cache for cfg. Connections are dialled on first
// use, so an unreachable server at startup is not fatal; use Ping to check.
func NewRedisCache(cfg *RedisConfig) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	return newRedisCache(client, cfg.KeyPrefix, cfg.BreakerTimeout)
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client, keyPrefix string) *RedisCache {
	return newRedisCache(client, keyPrefix, 0)
}

func newRedisCache(client *redis.Client, keyPrefix string, breakerTimeout time.Duration) *RedisCache {
	if breakerTimeout <= 0 {
		breakerTimeout = 30 * time.Second
	}
	metrics.RecordBreakerState(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.GetDefault().WithFields(logger.Fields{
				logger.FieldComponent: "cache",
				"breaker":             name,
				"from":                from.String(),
				"to":                  to.String(),
			}).Warn("Redis circuit breaker changed state")
			metrics.RecordBreakerState(breakerGauge(to))
		},
	})

	return &RedisCache{client: client, keyPrefix: keyPrefix, cb: cb}
}

func breakerGauge(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Ping checks that Redis answers within five seconds.
func (r *RedisCache) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.do(func() error {
		if err := r.client.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		return nil
	})
}

func (r *RedisCache) do(fn func() error) error {
	_, err := r.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data []byte
		hit  bool
	)
	err := r.do(func() error {
		b, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			return nil
		case err != nil:
			return fmt.Errorf("redis get %s: %w", key, err)
		}
		data, hit = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, hit, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("set %s: %w", key, ErrInvalidTTL)
	}
	return r.do(func() error {
		if err := r.client.Set(ctx, r.fullKey(key), value, ttl).Err(); err != nil {
			return fmt.Errorf("redis set %s: %w", key, err)
		}
		return nil
	})
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.fullKey(k)
	}
	return r.do(func() error {
		if err := r.client.Del(ctx, full...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	})
}

// DeletePrefix deletes every key starting with prefix.
func (r *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	return r.do(func() error { return r.deleteMatching(ctx, r.fullKey(prefix)+"*") })
}

// Flush deletes every key under the configured prefix.
func (r *RedisCache) Flush(ctx context.Context) error {
	return r.do(func() error { return r.deleteMatching(ctx, r.keyPrefix+"*") })
}

// deleteMatching scans for pattern and deletes matches in batches of 100.
func (r *RedisCache) deleteMatching(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()

	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del %s: %w", pattern, err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan %s: %w", pattern, err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del %s: %w", pattern, err)
		}
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) fullKey(key string) string {
	return r.keyPrefix + key
}
