package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikedRestaurantRepository handles users' liked restaurants.
type LikedRestaurantRepository struct {
	db *gorm.DB
}

// NewLikedRestaurantRepository creates a new LikedRestaurantRepository.
func NewLikedRestaurantRepository(db *gorm.DB) *LikedRestaurantRepository {
	return &LikedRestaurantRepository{db: db}
}

// ListLikedRestaurantIDs returns the restaurant IDs a user liked, ascending.
func (r *LikedRestaurantRepository) ListLikedRestaurantIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&domain.UserLikedRestaurant{}).
		Where("user_id = ?", userID).
		Order("restaurant_id ASC").
		Pluck("restaurant_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// ListLikedIDsByUsers returns liked restaurant IDs for each of the given users
// in one query. Users without likes are absent from the result.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userIDs: users to load.
// Returns:
//   - map[uint][]uint: user ID to liked restaurant IDs.
//   - error: non-nil if the query fails.
func (r *LikedRestaurantRepository) ListLikedIDsByUsers(ctx context.Context, userIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint)
	if len(userIDs) == 0 {
		return result, nil
	}

	var rows []domain.UserLikedRestaurant
	err := r.db.WithContext(ctx).
		Select("user_id", "restaurant_id").
		Where("user_id IN ?", userIDs).
		Order("user_id ASC, restaurant_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.UserID] = append(result[row.UserID], row.RestaurantID)
	}
	return result, nil
}

// ListLiked returns a user's likes with restaurant details, most recent first.
func (r *LikedRestaurantRepository) ListLiked(ctx context.Context, userID uint) ([]domain.UserLikedRestaurant, error) {
	var likes []domain.UserLikedRestaurant
	err := r.db.WithContext(ctx).
		Preload("Restaurant").
		Where("user_id = ?", userID).
		Order("liked_date DESC, restaurant_id ASC").
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// Add records a like.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - like: like to insert; LikedDate defaults to now.
// Returns:
//   - error: domain.ErrAlreadyExists if the user already liked the restaurant.
func (r *LikedRestaurantRepository) Add(ctx context.Context, like *domain.UserLikedRestaurant) error {
	if like.LikedDate.IsZero() {
		like.LikedDate = time.Now()
	}

	result := r.db.WithContext(ctx).
		Omit("Restaurant").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(like)
	if result.Error != nil {
		return fmt.Errorf("insert liked restaurant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Remove deletes a like. Returns domain.ErrNotFound if it did not exist.
func (r *LikedRestaurantRepository) Remove(ctx context.Context, userID, restaurantID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		Delete(&domain.UserLikedRestaurant{})
	if result.Error != nil {
		return fmt.Errorf("delete liked restaurant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteBefore removes likes older than cutoff and reports the affected users.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - cutoff: likes with LikedDate strictly before this are removed.
// Returns:
//   - []uint: distinct IDs of affected users, ascending.
//   - int64: number of rows removed.
//   - error: non-nil if the transaction fails.
func (r *LikedRestaurantRepository) DeleteBefore(ctx context.Context, cutoff time.Time) ([]uint, int64, error) {
	var users []uint
	var removed int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.UserLikedRestaurant{}).
			Where("liked_date < ?", cutoff).
			Distinct().
			Order("user_id ASC").
			Pluck("user_id", &users).Error; err != nil {
			return err
		}
		if len(users) == 0 {
			return nil
		}
		result := tx.Where("liked_date < ?", cutoff).Delete(&domain.UserLikedRestaurant{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("cleanup liked restaurants: %w", err)
	}
	return users, removed, nil
}
