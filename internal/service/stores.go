package service

import (
	"context"

	"github.com/savorly/recommender/internal/domain"
)

// PreferenceStore reads the preference catalogue and users' selections.
type PreferenceStore interface {
	// ListSelectableIDs returns selectable preference IDs in ascending order.
	ListSelectableIDs(ctx context.Context) ([]uint, error)
	ListUserPreferenceIDs(ctx context.Context, userID uint) ([]uint, error)
}

// LikedRestaurantStore reads liked restaurants.
type LikedRestaurantStore interface {
	ListLikedRestaurantIDs(ctx context.Context, userID uint) ([]uint, error)
	// ListLikedIDsByUsers loads likes for many users at once.
	ListLikedIDsByUsers(ctx context.Context, userIDs []uint) (map[uint][]uint, error)
}

// UserStore reads user accounts.
type UserStore interface {
	// ListOtherUsers returns every user but excludeID, ascending by ID.
	ListOtherUsers(ctx context.Context, excludeID uint) ([]domain.User, error)
}

// RestaurantStore reads restaurants.
type RestaurantStore interface {
	// ListIDs returns every restaurant ID in ascending order.
	ListIDs(ctx context.Context) ([]uint, error)
	GetByIDs(ctx context.Context, ids []uint) ([]domain.Restaurant, error)
}
