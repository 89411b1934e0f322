package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
	"github.com/savorly/recommender/internal/storage"
)

// BusynessTimeLayout is the accepted prediction time format.
const BusynessTimeLayout = "2006-01-02T15:04:05"

// ErrNoActiveModel is returned when no prediction model is active.
var ErrNoActiveModel = errors.New("no active prediction model found")

// FeatureNames lists model inputs in the order they are computed.
var FeatureNames = []string{
	"DOLocationID",
	"temp",
	"dwpt",
	"prcp",
	"day_of_week",
	"month_cos",
	"hour_cos",
	"minute_cos",
	"dow_cos",
	"month_sin",
	"hour_sin",
	"minute_sin",
	"dow_sin",
}

// LinearModel is a serialized regression over FeatureNames.
type LinearModel struct {
	Name         string             `json:"name"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
}

// Predict returns the intercept plus the weighted features, summed in
// FeatureNames order so equal inputs give bit-identical results. Names
// outside FeatureNames are ignored.
func (m *LinearModel) Predict(features map[string]float64) float64 {
	sum := m.Intercept
	for _, name := range FeatureNames {
		sum += m.Coefficients[name] * features[name]
	}
	return sum
}

// Weather is the observation fed into predictions.
type Weather struct {
	Temperature   float64
	Dewpoint      float64
	Precipitation float64
}

// BusynessConfig holds cache lifetimes for predictions and their inputs.
type BusynessConfig struct {
	PredictionTTL time.Duration
	ModelTTL      time.Duration
	// WeatherTTL applies when weather is re-cached from the database.
	WeatherTTL time.Duration
}

// BusynessService predicts zone busyness for a point in time.
type BusynessService struct {
	models      *repository.PredictionModelRepository
	weather     *repository.WeatherRepository
	restaurants *repository.RestaurantRepository
	storage     storage.ObjectStorage
	cache       cache.Cache
	cfg         BusynessConfig
}

// NewBusynessService creates a new busyness service.
func NewBusynessService(
	models *repository.PredictionModelRepository,
	weather *repository.WeatherRepository,
	restaurants *repository.RestaurantRepository,
	objectStorage storage.ObjectStorage,
	c cache.Cache,
	cfg BusynessConfig,
) *BusynessService {
	return &BusynessService{
		models:      models,
		weather:     weather,
		restaurants: restaurants,
		storage:     objectStorage,
		cache:       c,
		cfg:         cfg,
	}
}

// ParseBusynessTime parses a time in BusynessTimeLayout.
func ParseBusynessTime(value string) (time.Time, error) {
	t, err := time.Parse(BusynessTimeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("time must match %s: %w", BusynessTimeLayout, domain.ErrInvalidInput)
	}
	return t, nil
}

// Predict returns one predicted value per distinct (zone, location) pair,
// cached under busyness_prediction_{time}.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - at: prediction time; seconds precision.
//
// Returns:
//   - *domain.BusynessPrediction: predictions ordered by location ID.
//   - error: ErrNoActiveModel when no model is active, wrapped storage errors otherwise.
func (s *BusynessService) Predict(ctx context.Context, at time.Time) (*domain.BusynessPrediction, error) {
	stamp := at.Format(BusynessTimeLayout)
	ctx = logger.SetComponent(ctx, "busyness")

	return cache.GetOrCompute(ctx, s.cache, cache.BusynessPredictionKey(stamp), s.cfg.PredictionTTL,
		func(ctx context.Context) (*domain.BusynessPrediction, error) {
			start := time.Now()

			model, err := s.LoadModel(ctx)
			if err != nil {
				return nil, err
			}
			weather, err := s.currentWeather(ctx)
			if err != nil {
				return nil, err
			}
			zones, err := s.restaurants.DistinctZoneLocations(ctx)
			if err != nil {
				return nil, fmt.Errorf("list zones: %w", err)
			}

			result := &domain.BusynessPrediction{
				Time:        stamp,
				Predictions: make([]domain.ZoneBusyness, 0, len(zones)),
			}
			for _, z := range zones {
				result.Predictions = append(result.Predictions, domain.ZoneBusyness{
					Zone:           z.Zone,
					LocationID:     z.LocationID,
					PredictedValue: model.Predict(Features(z.LocationID, weather, at)),
				})
			}

			logger.With(logger.Fields{"model": model.Name}).
				WithDuration(time.Since(start).Milliseconds()).
				WithCount(len(result.Predictions)).
				Info(ctx, "Busyness predicted for %s", stamp)
			return result, nil
		})
}

// LoadModel returns the active model through prediction_model, reading the
// artifact from object storage on a miss.
func (s *BusynessService) LoadModel(ctx context.Context) (*LinearModel, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.KeyPredictionModel, s.cfg.ModelTTL,
		func(ctx context.Context) (*LinearModel, error) {
			record, err := s.models.GetActive(ctx)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return nil, ErrNoActiveModel
				}
				return nil, fmt.Errorf("load active model: %w", err)
			}
			if s.storage == nil {
				return nil, errors.New("model storage is not configured")
			}

			rc, err := s.storage.Download(ctx, record.ArtifactKey)
			if errors.Is(err, storage.ErrObjectNotFound) {
				logger.FromContext(ctx).WithField("artifact", record.ArtifactKey).
					Warn("Active model artifact is missing")
				return nil, fmt.Errorf("model %s artifact %s: %w", record.ModelName, record.ArtifactKey, ErrNoActiveModel)
			}
			if err != nil {
				return nil, fmt.Errorf("download model %s: %w", record.ModelName, err)
			}
			defer rc.Close()

			var model LinearModel
			if err := json.NewDecoder(rc).Decode(&model); err != nil {
				return nil, fmt.Errorf("decode model %s: %w", record.ModelName, err)
			}
			if model.Name == "" {
				model.Name = record.ModelName
			}

			logger.FromContext(ctx).WithField("model", model.Name).Info("Prediction model loaded")
			return &model, nil
		})
}

// currentWeather reads the cached observation and falls back to the newest
// stored row, which is then re-cached.
func (s *BusynessService) currentWeather(ctx context.Context) (Weather, error) {
	var w Weather
	if cache.Lookup(ctx, s.cache, cache.KeyTemperature, &w.Temperature) &&
		cache.Lookup(ctx, s.cache, cache.KeyDewpoint, &w.Dewpoint) &&
		cache.Lookup(ctx, s.cache, cache.KeyPrecipitation, &w.Precipitation) {
		return w, nil
	}

	row, err := s.weather.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Weather{}, errors.New("no weather data available")
		}
		return Weather{}, fmt.Errorf("load weather: %w", err)
	}
	w = Weather{Temperature: row.Temperature, Dewpoint: row.Dewpoint, Precipitation: row.Precipitation}
	storeWeather(ctx, s.cache, w, s.cfg.WeatherTTL)
	return w, nil
}

func storeWeather(ctx context.Context, c cache.Cache, w Weather, ttl time.Duration) {
	if c == nil {
		return
	}
	cache.Store(ctx, c, cache.KeyTemperature, w.Temperature, ttl)
	cache.Store(ctx, c, cache.KeyDewpoint, w.Dewpoint, ttl)
	cache.Store(ctx, c, cache.KeyPrecipitation, w.Precipitation, ttl)
}

// Features builds the model input for one location. Day of week runs from
// 1 (Monday) to 7 (Sunday); cyclic fields are encoded as cos and sin of
// their position within the period.
func Features(locationID int, w Weather, at time.Time) map[string]float64 {
	dow := float64((int(at.Weekday())+6)%7 + 1)
	month := float64(at.Month())
	hour := float64(at.Hour())
	minute := float64(at.Minute())

	return map[string]float64{
		"DOLocationID": float64(locationID),
		"temp":         w.Temperature,
		"dwpt":         w.Dewpoint,
		"prcp":         w.Precipitation,
		"day_of_week":  dow,
		"month_cos":    cyclic(math.Cos, month, 12),
		"hour_cos":     cyclic(math.Cos, hour, 24),
		"minute_cos":   cyclic(math.Cos, minute, 60),
		"dow_cos":      cyclic(math.Cos, dow, 7),
		"month_sin":    cyclic(math.Sin, month, 12),
		"hour_sin":     cyclic(math.Sin, hour, 24),
		"minute_sin":   cyclic(math.Sin, minute, 60),
		"dow_sin":      cyclic(math.Sin, dow, 7),
	}
}

func cyclic(fn func(float64) float64, value, period float64) float64 {
	return fn(value / period * 2 * math.Pi)
}
