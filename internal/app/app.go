// Package app assembles repositories, cache, storage and services from
// configuration. Both the API server and the maintenance jobs start here.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/config"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
	"github.com/savorly/recommender/internal/service"
	"github.com/savorly/recommender/internal/storage"
	"gorm.io/gorm"
)

// App holds the wired dependencies.
type App struct {
	DB      *gorm.DB
	Cache   cache.Cache
	Storage storage.ObjectStorage

	Recommendations *service.RecommendationService
	Preferences     *service.PreferenceService
	Likes           *service.LikedRestaurantService
	Profiles        *service.ProfileService
	Busyness        *service.BusynessService
	Restaurants     *service.RestaurantService
	Weather         *service.WeatherService
	Maintenance     *service.MaintenanceService
	Catalogue       *service.CatalogueService
}

// New opens the database, connects the cache and object storage, and
// builds every service.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	objectStorage, err := storage.NewStorage(ctx, &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	c, err := NewCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return Build(cfg, db, c, objectStorage), nil
}

// NewCache builds the configured cache backend. An unreachable Redis is
// not fatal: calls fail open until it answers again.
func NewCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	log := logger.GetDefault().WithField(logger.FieldComponent, "cache")

	switch cfg.Cache.Backend {
	case config.CacheBackendRedis, "":
		rc := cache.NewRedisCache(&cache.RedisConfig{
			Addr:           cfg.Redis.Addr,
			Password:       cfg.Redis.Password,
			DB:             cfg.Redis.DB,
			KeyPrefix:      cfg.Redis.KeyPrefix,
			PoolSize:       cfg.Redis.PoolSize,
			DialTimeout:    cfg.Redis.DialTimeout,
			ReadTimeout:    cfg.Redis.ReadTimeout,
			WriteTimeout:   cfg.Redis.WriteTimeout,
			BreakerTimeout: cfg.Redis.BreakerTimeout,
		})
		if err := rc.Ping(ctx); err != nil {
			log.WithError(err).Warnf("Redis unreachable at %s, recomputing until it recovers", cfg.Redis.Addr)
		} else {
			log.Infof("Connected to Redis at %s", cfg.Redis.Addr)
		}
		return rc, nil
	case config.CacheBackendLocal:
		log.Warn("Using process-local cache, invalidations from other processes are not seen")
		return cache.NewMemoryCache(), nil
	case config.CacheBackendNone:
		log.Info("Cache disabled, every value is recomputed")
		return cache.NopCache{}, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Build wires services over already constructed infrastructure.
func Build(cfg *config.Config, db *gorm.DB, c cache.Cache, objectStorage storage.ObjectStorage) *App {
	prefRepo := repository.NewPreferenceRepository(db)
	likeRepo := repository.NewLikedRestaurantRepository(db)
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	weatherRepo := repository.NewWeatherRepository(db)
	modelRepo := repository.NewPredictionModelRepository(db)

	ttls := TTLs(cfg)

	return &App{
		DB:      db,
		Cache:   c,
		Storage: objectStorage,

		Recommendations: service.NewRecommendationService(prefRepo, likeRepo, userRepo, restaurantRepo, c, ttls),
		Preferences:     service.NewPreferenceService(prefRepo, c, ttls.UserPreferences),
		Likes:           service.NewLikedRestaurantService(likeRepo, restaurantRepo, c, ttls.LikedRestaurants),
		Profiles:        service.NewProfileService(profileRepo, userRepo, objectStorage, c, ttls.Profile),
		Busyness: service.NewBusynessService(modelRepo, weatherRepo, restaurantRepo, objectStorage, c, service.BusynessConfig{
			PredictionTTL: ttls.Busyness,
			ModelTTL:      ttls.PredictionModel,
			WeatherTTL:    ttls.Weather,
		}),
		Restaurants: service.NewRestaurantService(restaurantRepo, c, ttls.Restaurants),
		Weather: service.NewWeatherService(service.WeatherConfig{
			APIURL:    cfg.Weather.APIURL,
			Latitude:  cfg.Weather.Latitude,
			Longitude: cfg.Weather.Longitude,
			Timeout:   cfg.Weather.Timeout,
			CacheTTL:  ttls.Weather,
			Retention: days(cfg.Maintenance.WeatherRetentionDays),
		}, weatherRepo, c),
		Maintenance: service.NewMaintenanceService(prefRepo, likeRepo, c, service.MaintenanceConfig{
			PreferenceRetention: days(cfg.Maintenance.PreferenceRetentionDays),
			LikeRetention:       days(cfg.Maintenance.LikeRetentionDays),
		}),
		Catalogue: service.NewCatalogueService(prefRepo, restaurantRepo, c),
	}
}

// TTLs maps configured lifetimes onto cache.TTLs, keeping defaults for
// unset values.
func TTLs(cfg *config.Config) cache.TTLs {
	ttls := cache.DefaultTTLs()
	override(&ttls.Recommendations, cfg.Recommend.RecommendationsTTL)
	override(&ttls.SimilarUsers, cfg.Recommend.SimilarUsersTTL)
	override(&ttls.UserPreferences, cfg.Recommend.UserPreferencesTTL)
	override(&ttls.LikedRestaurants, cfg.Recommend.LikedRestaurantsTTL)
	override(&ttls.Profile, cfg.Recommend.ProfileTTL)
	override(&ttls.Restaurants, cfg.Recommend.RestaurantsTTL)
	override(&ttls.PredictionModel, cfg.Busyness.ModelTTL)
	override(&ttls.Busyness, cfg.Busyness.PredictionTTL)
	override(&ttls.Weather, cfg.Busyness.WeatherTTL)
	return ttls
}

func override(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

func days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// Close releases the cache and database connections.
func (a *App) Close() error {
	var firstErr error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
