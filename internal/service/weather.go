package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
)

// WeatherConfig holds configuration for the weather client.
type WeatherConfig struct {
	APIURL    string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
	// CacheTTL is how long fetched values stay cached.
	CacheTTL time.Duration
	// Retention is how long stored observations are kept.
	Retention time.Duration
}

// WeatherService pulls the current forecast from Open-Meteo.
type WeatherService struct {
	client *resty.Client
	cfg    WeatherConfig
	repo   *repository.WeatherRepository
	cache  cache.Cache
}

// NewWeatherService creates a new weather service.
func NewWeatherService(cfg WeatherConfig, repo *repository.WeatherRepository, c cache.Cache) *WeatherService {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &WeatherService{client: client, cfg: cfg, repo: repo, cache: c}
}

type openMeteoResponse struct {
	Hourly *struct {
		Temperature   []*float64 `json:"temperature_2m"`
		Dewpoint      []*float64 `json:"dewpoint_2m"`
		Precipitation []*float64 `json:"precipitation"`
	} `json:"hourly"`
	Reason string `json:"reason,omitempty"`
}

// Fetch stores the first hourly forecast value, caches it, and prunes
// observations older than the retention window.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//
// Returns:
//   - *domain.WeatherData: the stored observation.
//   - error: non-nil if the API call or storage write fails.
func (s *WeatherService) Fetch(ctx context.Context) (*domain.WeatherData, error) {
	ctx = logger.SetComponent(ctx, "weather")

	var resp openMeteoResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  strconv.FormatFloat(s.cfg.Latitude, 'f', -1, 64),
			"longitude": strconv.FormatFloat(s.cfg.Longitude, 'f', -1, 64),
			"hourly":    "temperature_2m,dewpoint_2m,precipitation",
		}).
		SetResult(&resp).
		SetError(&resp).
		Get(s.cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to call weather API: %w", err)
	}
	if httpResp.StatusCode() != http.StatusOK {
		if resp.Reason != "" {
			return nil, fmt.Errorf("weather API error: %s", resp.Reason)
		}
		return nil, fmt.Errorf("weather API error: status %d", httpResp.StatusCode())
	}
	if resp.Hourly == nil {
		return nil, fmt.Errorf("weather API response has no hourly data")
	}

	temp := first(resp.Hourly.Temperature)
	dwpt := first(resp.Hourly.Dewpoint)
	prcp := first(resp.Hourly.Precipitation)
	if temp == nil || dwpt == nil || prcp == nil {
		return nil, fmt.Errorf("weather API response is missing hourly values")
	}

	row := domain.WeatherData{
		Timestamp:     time.Now().UTC(),
		Temperature:   *temp,
		Dewpoint:      *dwpt,
		Precipitation: *prcp,
	}
	rows := []domain.WeatherData{row}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return nil, fmt.Errorf("store weather: %w", err)
	}
	row = rows[0]
	storeWeather(ctx, s.cache, Weather{Temperature: row.Temperature, Dewpoint: row.Dewpoint, Precipitation: row.Precipitation}, s.cfg.CacheTTL)

	log := logger.FromContext(ctx)
	if s.cfg.Retention > 0 {
		removed, err := s.repo.DeleteBefore(ctx, row.Timestamp.Add(-s.cfg.Retention))
		if err != nil {
			log.WithError(err).Warn("Failed to prune old weather data")
		} else if removed > 0 {
			log.WithField(logger.FieldCount, removed).Info("Old weather data pruned")
		}
	}

	log.WithFields(logger.Fields{
		"temperature":   row.Temperature,
		"dewpoint":      row.Dewpoint,
		"precipitation": row.Precipitation,
	}).Info("Weather data stored")
	return &row, nil
}

func first(values []*float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	return values[0]
}
