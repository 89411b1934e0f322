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

func TestLikedRestaurantService(t *testing.T) {
	ctx := context.Background()
	e := newTestEnv(t)
	svc := NewLikedRestaurantService(e.likes, e.restaurants, e.cache, time.Hour)
	user := e.user(t, "a@example.com")
	r1 := e.restaurant(t, "R1", "Midtown", 161)

	_, err := svc.Add(ctx, user, 999)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	likes, err := svc.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, likes)
	require.NoError(t, e.cache.Set(ctx, cache.RecommendationsKey(user), []byte("[]"), time.Hour))
	require.NoError(t, e.cache.Set(ctx, cache.SimilarUsersKey(user), []byte("[]"), time.Hour))

	like, err := svc.Add(ctx, user, r1)
	require.NoError(t, err)
	assert.Equal(t, "R1", like.Restaurant.Name)
	assert.False(t, e.cached(cache.LikedRestaurantsKey(user)))
	assert.False(t, e.cached(cache.RecommendationsKey(user)))
	assert.True(t, e.cached(cache.SimilarUsersKey(user)), "likes do not affect similarity")

	_, err = svc.Add(ctx, user, r1)
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	likes, err = svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, r1, likes[0].RestaurantID)

	require.NoError(t, svc.Remove(ctx, user, r1))
	assert.ErrorIs(t, svc.Remove(ctx, user, r1), domain.ErrNotFound)

	likes, err = svc.List(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, likes)
}
