package service

import (
	"context"
	"testing"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaintenanceCleanupPreferences(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewMaintenanceService(e.prefs, e.likes, e.cache, MaintenanceConfig{
		PreferenceRetention: 180 * 24 * time.Hour,
		LikeRetention:       180 * 24 * time.Hour,
	})

	stale := e.user(t, "stale@example.com")
	active := e.user(t, "active@example.com")
	p := e.preference(t, "Thai", true)
	require.NoError(t, e.prefs.AddUserPreference(ctx, &domain.UserPreference{
		UserID: stale, PreferenceID: p, LastAccessed: time.Now().AddDate(-1, 0, 0),
	}))
	e.hold(t, active, p)

	for _, u := range []uint{stale, active} {
		for _, key := range cache.PreferenceDerivedKeys(u) {
			require.NoError(t, e.cache.Set(ctx, key, []byte("[]"), time.Hour))
		}
	}

	res, err := svc.CleanupPreferences(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Removed)
	assert.Equal(t, []uint{stale}, res.AffectedUsers)

	for _, key := range cache.PreferenceDerivedKeys(stale) {
		assert.False(t, e.cached(key), key)
	}
	for _, key := range cache.PreferenceDerivedKeys(active) {
		assert.True(t, e.cached(key), key)
	}
}

func TestMaintenanceCleanupLikes(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewMaintenanceService(e.prefs, e.likes, e.cache, MaintenanceConfig{LikeRetention: 180 * 24 * time.Hour})

	user := e.user(t, "a@example.com")
	r := e.restaurant(t, "R1", "Midtown", 161)
	require.NoError(t, e.likes.Add(ctx, &domain.UserLikedRestaurant{UserID: user, RestaurantID: r, LikedDate: time.Now().AddDate(0, -7, 0)}))
	require.NoError(t, e.cache.Set(ctx, cache.RecommendationsKey(user), []byte("[]"), time.Hour))

	res, err := svc.CleanupLikes(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Removed)
	assert.False(t, e.cached(cache.RecommendationsKey(user)))

	res, err = svc.CleanupLikes(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.Removed)
	assert.Empty(t, res.AffectedUsers)
}

func TestMaintenanceClearCache(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewMaintenanceService(e.prefs, e.likes, e.cache, MaintenanceConfig{})

	require.NoError(t, e.cache.Set(ctx, cache.SimilarUsersKey(1), []byte("[]"), time.Hour))
	require.NoError(t, svc.ClearCache(ctx))
	assert.False(t, e.cached(cache.SimilarUsersKey(1)))

	broken := NewMaintenanceService(e.prefs, e.likes, unavailableCache{}, MaintenanceConfig{})
	assert.Error(t, broken.ClearCache(ctx))
}
