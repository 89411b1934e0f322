package service

import (
	"context"
	"testing"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestaurantList(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewRestaurantService(e.restaurants, e.cache, cache.DefaultTTLs().Restaurants)
	carbone := e.restaurant(t, "Carbone", "Greenwich Village", 113)
	boons := e.restaurant(t, "Uncle Boons", "Nolita", 144)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, carbone, all[0].ID)
	assert.True(t, e.cached(cache.KeyRestaurantsAll))

	got, err := svc.List(ctx, "BOON")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, boons, got[0].ID)
	assert.True(t, e.cached("restaurants_search_boon"))

	// Cached listings are served until invalidated.
	e.restaurant(t, "Boon Thai", "Midtown", 161)
	got, err = svc.List(ctx, "boon")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	cache.InvalidatePrefix(ctx, e.cache, cache.RestaurantsPrefix)
	got, err = svc.List(ctx, "boon")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRestaurantListEmptyIsCached(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewRestaurantService(e.restaurants, e.cache, cache.DefaultTTLs().Restaurants)

	got, err := svc.List(ctx, "sushi")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.True(t, e.cached(cache.RestaurantListKey("sushi")))
}

func TestRestaurantListFailsOpen(t *testing.T) {
	e := newTestEnv(t)
	e.restaurant(t, "Carbone", "Greenwich Village", 113)
	svc := NewRestaurantService(e.restaurants, unavailableCache{}, cache.DefaultTTLs().Restaurants)

	got, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRestaurantSearch(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewRestaurantService(e.restaurants, e.cache, cache.DefaultTTLs().Restaurants)
	e.restaurant(t, "Carbone", "Greenwich Village", 113)

	got, err := svc.Search(ctx, "  ")
	require.NoError(t, err)
	assert.Equal(t, []domain.Restaurant{}, got)

	got, err = svc.Search(ctx, "carb")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Carbone", got[0].Name)
	assert.False(t, e.cached(cache.RestaurantListKey("carb")))
}
