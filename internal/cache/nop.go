package cache

import (
	"context"
	"fmt"
	"time"
)

// NopCache stores nothing. Every read misses, so every value is recomputed.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NopCache) Set(_ context.Context, key string, _ []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("set %s: %w", key, ErrInvalidTTL)
	}
	return nil
}

func (NopCache) Delete(context.Context, ...string) error    { return nil }
func (NopCache) DeletePrefix(context.Context, string) error { return nil }
func (NopCache) Flush(context.Context) error                { return nil }
func (NopCache) Close() error                               { return nil }
