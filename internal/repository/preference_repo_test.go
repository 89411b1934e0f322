package repository

import (
	"context"
	"testing"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepositorySelectableIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewPreferenceRepository(newTestDB(t))

	for _, p := range []domain.Preference{
		{Description: "Italian", Type: domain.PreferenceTypeCuisine, IsSelectable: true},
		{Description: "Legacy", Type: domain.PreferenceTypeCuisine, IsSelectable: false},
		{Description: "$$", Type: domain.PreferenceTypePrice, IsSelectable: true},
	} {
		p := p
		require.NoError(t, repo.Create(ctx, &p))
	}

	ids, err := repo.ListSelectableIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 3}, ids)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = repo.GetByID(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreferenceRepositoryUserSelections(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	users := seedUsers(t, db, "a@example.com")

	for _, d := range []string{"Thai", "Greek"} {
		require.NoError(t, repo.Create(ctx, &domain.Preference{Description: d, Type: domain.PreferenceTypeCuisine, IsSelectable: true}))
	}

	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[0].ID, PreferenceID: 2}))
	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[0].ID, PreferenceID: 1}))
	err := repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[0].ID, PreferenceID: 1})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)

	ids, err := repo.ListUserPreferenceIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1, 2}, ids)

	links, err := repo.ListUserPreferences(ctx, users[0].ID)
	require.NoError(t, err)
	require.Len(t, links, 2)
	assert.Equal(t, "Thai", links[0].Preference.Description)

	require.NoError(t, repo.RemoveUserPreference(ctx, users[0].ID, 1))
	assert.ErrorIs(t, repo.RemoveUserPreference(ctx, users[0].ID, 1), domain.ErrNotFound)

	ids, err = repo.ListUserPreferenceIDs(ctx, users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{2}, ids)
}

func TestPreferenceRepositoryDeleteBefore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	users := seedUsers(t, db, "a@example.com", "b@example.com", "c@example.com")
	require.NoError(t, repo.Create(ctx, &domain.Preference{Description: "Thai", Type: domain.PreferenceTypeCuisine, IsSelectable: true}))
	require.NoError(t, repo.Create(ctx, &domain.Preference{Description: "Greek", Type: domain.PreferenceTypeCuisine, IsSelectable: true}))

	now := time.Now()
	old := now.AddDate(0, 0, -200)
	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[2].ID, PreferenceID: 1, LastAccessed: old}))
	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[2].ID, PreferenceID: 2, LastAccessed: old}))
	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[0].ID, PreferenceID: 1, LastAccessed: old}))
	require.NoError(t, repo.AddUserPreference(ctx, &domain.UserPreference{UserID: users[1].ID, PreferenceID: 1, LastAccessed: now}))

	affected, removed, err := repo.DeleteUserPreferencesBefore(ctx, now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Equal(t, []uint{users[0].ID, users[2].ID}, affected)
	assert.EqualValues(t, 3, removed)

	ids, err := repo.ListUserPreferenceIDs(ctx, users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids)

	affected, removed, err = repo.DeleteUserPreferencesBefore(ctx, now.AddDate(0, 0, -180))
	require.NoError(t, err)
	assert.Empty(t, affected)
	assert.Zero(t, removed)
}

func TestPreferenceRepositoryEnsureCatalogue(t *testing.T) {
	db := newTestDB(t)
	repo := NewPreferenceRepository(db)
	ctx := context.Background()

	added, err := repo.EnsureCatalogue(ctx, []domain.Preference{
		{Description: "Italian", Type: domain.PreferenceTypeCuisine, IsSelectable: true},
		{Description: "$$", Type: domain.PreferenceTypePrice, IsSelectable: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), added)

	added, err = repo.EnsureCatalogue(ctx, []domain.Preference{
		{Description: "Italian", Type: domain.PreferenceTypeCuisine, IsSelectable: true},
		{Description: "Thai", Type: domain.PreferenceTypeCuisine, IsSelectable: true},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), added)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	added, err = repo.EnsureCatalogue(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, added)
}
