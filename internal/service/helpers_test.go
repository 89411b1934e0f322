package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/config"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	prefs       *repository.PreferenceRepository
	likes       *repository.LikedRestaurantRepository
	users       *repository.UserRepository
	restaurants *repository.RestaurantRepository
	profiles    *repository.ProfileRepository
	weather     *repository.WeatherRepository
	models      *repository.PredictionModelRepository
	cache       *cache.MemoryCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         ":memory:",
		MaxIdleConns: 1,
		MaxOpenConns: 1,
		AutoMigrate:  true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{
		db:          db,
		prefs:       repository.NewPreferenceRepository(db),
		likes:       repository.NewLikedRestaurantRepository(db),
		users:       repository.NewUserRepository(db),
		restaurants: repository.NewRestaurantRepository(db),
		profiles:    repository.NewProfileRepository(db),
		weather:     repository.NewWeatherRepository(db),
		models:      repository.NewPredictionModelRepository(db),
		cache:       cache.NewMemoryCache(),
	}
}

func (e *testEnv) user(t *testing.T, email string) uint {
	t.Helper()
	u := domain.User{Email: email, FirstName: "Test", Surname: "User", IsActive: true, DateJoined: time.Now()}
	require.NoError(t, e.users.Create(context.Background(), &u))
	return u.ID
}

func (e *testEnv) preference(t *testing.T, description string, selectable bool) uint {
	t.Helper()
	p := domain.Preference{Description: description, Type: domain.PreferenceTypeCuisine, IsSelectable: selectable}
	require.NoError(t, e.prefs.Create(context.Background(), &p))
	return p.ID
}

func (e *testEnv) restaurant(t *testing.T, name, zone string, locationID int) uint {
	t.Helper()
	r := domain.Restaurant{Name: name, Zone: zone, LocationID: locationID}
	require.NoError(t, e.restaurants.Create(context.Background(), &r))
	return r.ID
}

func (e *testEnv) hold(t *testing.T, userID uint, prefIDs ...uint) {
	t.Helper()
	for _, id := range prefIDs {
		require.NoError(t, e.prefs.AddUserPreference(context.Background(), &domain.UserPreference{UserID: userID, PreferenceID: id}))
	}
}

func (e *testEnv) like(t *testing.T, userID uint, restaurantIDs ...uint) {
	t.Helper()
	for _, id := range restaurantIDs {
		require.NoError(t, e.likes.Add(context.Background(), &domain.UserLikedRestaurant{UserID: userID, RestaurantID: id}))
	}
}

func (e *testEnv) cached(key string) bool {
	_, ok, _ := e.cache.Get(context.Background(), key)
	return ok
}

var errUnavailable = errors.New("cache unavailable")

// unavailableCache fails every call, like an unreachable Redis.
type unavailableCache struct{}

func (unavailableCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errUnavailable
}
func (unavailableCache) Set(context.Context, string, []byte, time.Duration) error { return errUnavailable }
func (unavailableCache) Delete(context.Context, ...string) error                  { return errUnavailable }
func (unavailableCache) DeletePrefix(context.Context, string) error               { return errUnavailable }
func (unavailableCache) Flush(context.Context) error                              { return errUnavailable }
func (unavailableCache) Close() error                                             { return nil }
