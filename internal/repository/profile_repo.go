package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProfileRepository handles user profiles.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves a user's profile.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: profile owner.
// Returns:
//   - *domain.Profile: profile if found.
//   - error: domain.ErrNotFound if the user has no profile.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint) (*domain.Profile, error) {
	var profile domain.Profile
	if err := r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Upsert creates the profile or updates the existing one for the same user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *domain.Profile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "surname", "avatar_key", "slug", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// DeleteByUserID removes a user's profile. Returns domain.ErrNotFound if none existed.
func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Profile{})
	if result.Error != nil {
		return fmt.Errorf("delete profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
