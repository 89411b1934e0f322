package repository

import (
	"context"
	"testing"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikedRestaurantRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLikedRestaurantRepository(db)
	users := seedUsers(t, db, "a@example.com", "b@example.com")
	rs := seedRestaurants(t, db, "R1", "R2", "R3")

	require.NoError(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[0].ID, RestaurantID: rs[2].ID}))
	require.NoError(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[0].ID, RestaurantID: rs[0].ID}))
	require.NoError(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[1].ID, RestaurantID: rs[1].ID}))
	assert.ErrorIs(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[0].ID, RestaurantID: rs[0].ID}), domain.ErrAlreadyExists)

	ids, err := repo.ListLikedRestaurantIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{rs[0].ID, rs[2].ID}, ids)

	byUser, err := repo.ListLikedIDsByUsers(ctx, []uint{users[0].ID, users[1].ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[uint][]uint{
		users[0].ID: {rs[0].ID, rs[2].ID},
		users[1].ID: {rs[1].ID},
	}, byUser)

	likes, err := repo.ListLiked(ctx, users[1].ID)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, "R2", likes[0].Restaurant.Name)

	require.NoError(t, repo.Remove(ctx, users[0].ID, rs[0].ID))
	assert.ErrorIs(t, repo.Remove(ctx, users[0].ID, rs[0].ID), domain.ErrNotFound)
}

func TestLikedRestaurantRepositoryDeleteBefore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewLikedRestaurantRepository(db)
	users := seedUsers(t, db, "a@example.com", "b@example.com")
	rs := seedRestaurants(t, db, "R1", "R2")

	now := time.Now()
	require.NoError(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[1].ID, RestaurantID: rs[0].ID, LikedDate: now.AddDate(-1, 0, 0)}))
	require.NoError(t, repo.Add(ctx, &domain.UserLikedRestaurant{UserID: users[0].ID, RestaurantID: rs[1].ID, LikedDate: now}))

	affected, removed, err := repo.DeleteBefore(ctx, now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Equal(t, []uint{users[1].ID}, affected)
	assert.EqualValues(t, 1, removed)
}
