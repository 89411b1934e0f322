package repository

import (
	"context"
	"errors"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
)

// WeatherRepository stores weather observations.
type WeatherRepository struct {
	db *gorm.DB
}

// NewWeatherRepository creates a new WeatherRepository.
func NewWeatherRepository(db *gorm.DB) *WeatherRepository {
	return &WeatherRepository{db: db}
}

// CreateBatch inserts observations.
func (r *WeatherRepository) CreateBatch(ctx context.Context, rows []domain.WeatherData) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, 100).Error
}

// Latest returns the newest observation.
// Returns domain.ErrNotFound when the table is empty.
func (r *WeatherRepository) Latest(ctx context.Context) (*domain.WeatherData, error) {
	var row domain.WeatherData
	err := r.db.WithContext(ctx).
		Order("timestamp DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// DeleteBefore removes observations older than cutoff and returns the count removed.
func (r *WeatherRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&domain.WeatherData{})
	return result.RowsAffected, result.Error
}
