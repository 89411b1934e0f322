package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/savorly/recommender/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenCache fails every operation, like an unreachable backend.
type brokenCache struct{}

var errBackendDown = errors.New("backend down")

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errBackendDown
}
func (brokenCache) Set(context.Context, string, []byte, time.Duration) error { return errBackendDown }
func (brokenCache) Delete(context.Context, ...string) error                  { return errBackendDown }
func (brokenCache) DeletePrefix(context.Context, string) error               { return errBackendDown }
func (brokenCache) Flush(context.Context) error                              { return errBackendDown }
func (brokenCache) Close() error                                             { return nil }

type item struct {
	ID    uint    `json:"id"`
	Score float64 `json:"score"`
}

func TestGetOrComputeComputesOncePerMiss(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	calls := 0
	compute := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: 1, Score: 1.3}}, nil
	}

	first, err := GetOrCompute(ctx, c, "k", time.Hour, compute)
	require.NoError(t, err)
	second, err := GetOrCompute(ctx, c, "k", time.Hour, compute)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestGetOrComputeEmptyValueIsAHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	calls := 0
	compute := func(context.Context) ([]item, error) {
		calls++
		return []item{}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrCompute(ctx, c, "empty", time.Hour, compute)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
	assert.Equal(t, 1, calls)
}

func TestGetOrComputeFailsOpen(t *testing.T) {
	ctx := context.Background()

	calls := 0
	compute := func(context.Context) (int, error) {
		calls++
		return 42, nil
	}

	for i := 0; i < 2; i++ {
		got, err := GetOrCompute[int](ctx, brokenCache{}, "k", time.Hour, compute)
		require.NoError(t, err)
		assert.Equal(t, 42, got)
	}
	assert.Equal(t, 2, calls, "an unavailable cache degrades to recomputation")
}

func TestGetOrComputeDoesNotStoreFailures(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	boom := errors.New("storage down")

	_, err := GetOrCompute(ctx, c, "k", time.Hour, func(context.Context) (int, error) {
		return 0, boom
	})
	assert.ErrorIs(t, err, boom)

	_, ok, _ := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestGetOrComputeReplacesUndecodableEntry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "k", []byte("not json"), time.Hour))

	got, err := GetOrCompute(ctx, c, "k", time.Hour, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	var cached int
	assert.True(t, Lookup(ctx, c, "k", &cached))
	assert.Equal(t, 7, cached)
}

func TestInvalidateThenReadIsFresh(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	version := 1
	compute := func(context.Context) (int, error) { return version, nil }

	got, _ := GetOrCompute(ctx, c, UserPreferencesKey(3), time.Hour, compute)
	assert.Equal(t, 1, got)

	version = 2
	got, _ = GetOrCompute(ctx, c, UserPreferencesKey(3), time.Hour, compute)
	assert.Equal(t, 1, got, "stale within TTL until invalidated")

	Invalidate(ctx, c, PreferenceDerivedKeys(3)...)
	got, _ = GetOrCompute(ctx, c, UserPreferencesKey(3), time.Hour, compute)
	assert.Equal(t, 2, got)
}

func TestInvalidateToleratesBrokenCache(t *testing.T) {
	assert.NotPanics(t, func() {
		Invalidate(context.Background(), brokenCache{}, "a", "b")
		Invalidate(context.Background(), nil, "a")
	})
}

func TestDerivedKeys(t *testing.T) {
	assert.Equal(t, []string{
		"user_preferences_5", "similar_users_5", "recommend_restaurants_5",
	}, PreferenceDerivedKeys(5))
	assert.Equal(t, []string{
		"user_liked_restaurants_5", "recommend_restaurants_5",
	}, LikeDerivedKeys(5))
	assert.Equal(t, "busyness_prediction_2024-06-01T12:00:00", BusynessPredictionKey("2024-06-01T12:00:00"))
}

func TestFamily(t *testing.T) {
	tests := map[string]string{
		RecommendationsKey(12):                       "recommend_restaurants",
		SimilarUsersKey(3):                           "similar_users",
		LikedRestaurantsKey(7):                       "user_liked_restaurants",
		ProfileKey(1):                                "profile",
		BusynessPredictionKey("2024-07-19T18:30:00"): "busyness_prediction",
		KeyPredictionModel:                           "prediction_model",
		KeyTemperature:                               "temperature",
		RestaurantListKey(" Uncle Boons "):           "restaurants_search",
		KeyRestaurantsAll:                            "restaurants_all",
		"trailing_":                                  "trailing_",
	}
	for key, want := range tests {
		assert.Equal(t, want, Family(key), key)
	}
}

func TestRestaurantListKey(t *testing.T) {
	assert.Equal(t, "restaurants_all", RestaurantListKey(""))
	assert.Equal(t, "restaurants_all", RestaurantListKey("   "))
	assert.Equal(t, "restaurants_search_uncle boons", RestaurantListKey(" Uncle Boons "))
	assert.Equal(t, RestaurantListKey("thai"), RestaurantListKey("THAI"))
}

func TestInvalidatePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	for _, key := range []string{KeyRestaurantsAll, RestaurantListKey("thai"), SimilarUsersKey(1)} {
		require.NoError(t, c.Set(ctx, key, []byte("[]"), time.Hour))
	}

	InvalidatePrefix(ctx, c, RestaurantsPrefix)

	_, ok, _ := c.Get(ctx, KeyRestaurantsAll)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, RestaurantListKey("thai"))
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, SimilarUsersKey(1))
	assert.True(t, ok)

	assert.NotPanics(t, func() { InvalidatePrefix(ctx, brokenCache{}, RestaurantsPrefix) })
	assert.NotPanics(t, func() { InvalidatePrefix(ctx, nil, RestaurantsPrefix) })
}

func TestGetOrComputeRecordsLookups(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	family := Family(SimilarUsersKey(99))
	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(family, metrics.ResultMiss))
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(family, metrics.ResultHit))

	compute := func(context.Context) ([]int, error) { return []int{1}, nil }
	_, err := GetOrCompute(ctx, c, SimilarUsersKey(99), time.Minute, compute)
	require.NoError(t, err)
	_, err = GetOrCompute(ctx, c, SimilarUsersKey(99), time.Minute, compute)
	require.NoError(t, err)

	assert.Equal(t, misses+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(family, metrics.ResultMiss)))
	assert.Equal(t, hits+1, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues(family, metrics.ResultHit)))
}
