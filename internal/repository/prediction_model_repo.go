package repository

import (
	"context"
	"errors"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
)

// PredictionModelRepository tracks busyness model artifacts.
type PredictionModelRepository struct {
	db *gorm.DB
}

// NewPredictionModelRepository creates a new PredictionModelRepository.
func NewPredictionModelRepository(db *gorm.DB) *PredictionModelRepository {
	return &PredictionModelRepository{db: db}
}

// Create inserts a model record.
func (r *PredictionModelRepository) Create(ctx context.Context, model *domain.PredictionModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}

// GetActive returns the most recently updated active model.
// Returns domain.ErrNotFound when no model is active.
func (r *PredictionModelRepository) GetActive(ctx context.Context) (*domain.PredictionModel, error) {
	var model domain.PredictionModel
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}
