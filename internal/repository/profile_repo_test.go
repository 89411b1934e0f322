package repository

import (
	"context"
	"testing"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRepositoryUpsert(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository(newTestDB(t))

	_, err := repo.GetByUserID(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Upsert(ctx, &domain.Profile{UserID: 1, FirstName: "Ada", Surname: "Byron", Slug: "ada-byron"}))
	require.NoError(t, repo.Upsert(ctx, &domain.Profile{UserID: 1, FirstName: "Ada", Surname: "Lovelace", Slug: "ada-lovelace"}))

	got, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.Surname)
	assert.Equal(t, "ada-lovelace", got.Slug)

	require.NoError(t, repo.DeleteByUserID(ctx, 1))
	assert.ErrorIs(t, repo.DeleteByUserID(ctx, 1), domain.ErrNotFound)
}

func TestWeatherRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWeatherRepository(newTestDB(t))
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := repo.Latest(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.CreateBatch(ctx, []domain.WeatherData{
		{Timestamp: base.AddDate(0, 0, -10), Temperature: 10},
		{Timestamp: base.Add(time.Hour), Temperature: 30},
		{Timestamp: base.Add(-time.Hour), Temperature: 20},
	}))

	latest, err := repo.Latest(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 30, latest.Temperature, 1e-9)

	removed, err := repo.DeleteBefore(ctx, base.AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestPredictionModelRepositoryGetActive(t *testing.T) {
	ctx := context.Background()
	repo := NewPredictionModelRepository(newTestDB(t))

	_, err := repo.GetActive(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, repo.Create(ctx, &domain.PredictionModel{ModelName: "v1", ArtifactKey: "models/v1.json", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &domain.PredictionModel{ModelName: "v2", ArtifactKey: "models/v2.json", IsActive: true}))
	require.NoError(t, repo.Create(ctx, &domain.PredictionModel{ModelName: "draft", ArtifactKey: "models/draft.json", IsActive: false}))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "v2", active.ModelName)
}
