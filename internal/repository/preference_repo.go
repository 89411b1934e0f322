package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository handles the preference catalogue and users' selections.
type PreferenceRepository struct {
	db *gorm.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *PreferenceRepository: repository instance bound to db.
func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Create inserts a catalogue preference.
func (r *PreferenceRepository) Create(ctx context.Context, pref *domain.Preference) error {
	return r.db.WithContext(ctx).Create(pref).Error
}

// EnsureCatalogue inserts preferences whose description is not yet known
// and returns how many were added. Existing rows are left untouched.
func (r *PreferenceRepository) EnsureCatalogue(ctx context.Context, prefs []domain.Preference) (int64, error) {
	if len(prefs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "description"}}, DoNothing: true}).
		Create(&prefs)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ListAll returns the whole catalogue ordered by ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
// Returns:
//   - []domain.Preference: every preference, selectable or not.
//   - error: non-nil if the query fails.
func (r *PreferenceRepository) ListAll(ctx context.Context) ([]domain.Preference, error) {
	var prefs []domain.Preference
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&prefs).Error; err != nil {
		return nil, err
	}
	return prefs, nil
}

// GetByID retrieves a catalogue preference.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: preference ID.
// Returns:
//   - *domain.Preference: preference if found.
//   - error: domain.ErrNotFound if absent, other errors on query failure.
func (r *PreferenceRepository) GetByID(ctx context.Context, id uint) (*domain.Preference, error) {
	var pref domain.Preference
	if err := r.db.WithContext(ctx).First(&pref, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &pref, nil
}

// ListSelectableIDs returns the IDs of selectable preferences in ascending order.
// This ordering defines the positions of every preference vector built from it.
func (r *PreferenceRepository) ListSelectableIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.Preference{}).
		Where("is_selectable = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListUserPreferenceIDs returns the preference IDs a user holds, ascending.
func (r *PreferenceRepository) ListUserPreferenceIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.UserPreference{}).
		Where("user_id = ?", userID).
		Order("preference_id ASC").
		Pluck("preference_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListUserPreferences returns a user's selections with their catalogue rows loaded.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: owner of the selections.
// Returns:
//   - []domain.UserPreference: selections ordered by preference ID.
//   - error: non-nil if the query fails.
func (r *PreferenceRepository) ListUserPreferences(ctx context.Context, userID uint) ([]domain.UserPreference, error) {
	var links []domain.UserPreference
	err := r.db.WithContext(ctx).
		Preload("Preference").
		Where("user_id = ?", userID).
		Order("preference_id ASC").
		Find(&links).Error
	if err != nil {
		return nil, err
	}
	return links, nil
}

// AddUserPreference records that a user holds a preference.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - link: selection to insert; ID and timestamps are filled on success.
// Returns:
//   - error: domain.ErrAlreadyExists if the pair is already present.
func (r *PreferenceRepository) AddUserPreference(ctx context.Context, link *domain.UserPreference) error {
	now := time.Now()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.LastAccessed.IsZero() {
		link.LastAccessed = now
	}

	result := r.db.WithContext(ctx).
		Omit("Preference").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(link)
	if result.Error != nil {
		return fmt.Errorf("insert user preference: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// RemoveUserPreference deletes a user's selection.
// Returns domain.ErrNotFound if the user did not hold the preference.
func (r *PreferenceRepository) RemoveUserPreference(ctx context.Context, userID, preferenceID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND preference_id = ?", userID, preferenceID).
		Delete(&domain.UserPreference{})
	if result.Error != nil {
		return fmt.Errorf("delete user preference: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// TouchUserPreferences sets LastAccessed on all of a user's selections.
func (r *PreferenceRepository) TouchUserPreferences(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.UserPreference{}).
		Where("user_id = ?", userID).
		Update("last_accessed", at).Error
}

// DeleteUserPreferencesBefore removes selections not accessed since cutoff.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - cutoff: selections with LastAccessed strictly before this are removed.
// Returns:
//   - []uint: distinct IDs of users who lost at least one selection, ascending.
//   - int64: number of rows removed.
//   - error: non-nil if the transaction fails.
func (r *PreferenceRepository) DeleteUserPreferencesBefore(ctx context.Context, cutoff time.Time) ([]uint, int64, error) {
	var users []uint
	var removed int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.UserPreference{}).
			Where("last_accessed < ?", cutoff).
			Distinct().
			Order("user_id ASC").
			Pluck("user_id", &users).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		result := tx.Where("last_accessed < ?", cutoff).Delete(&domain.UserPreference{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("cleanup user preferences: %w", err)
	}
	return users, removed, nil
}
