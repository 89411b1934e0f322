package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/savorly/recommender/internal/domain"
	"gorm.io/gorm"
)

// RestaurantRepository handles read access to restaurants.
type RestaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new RestaurantRepository.
func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

// Create inserts a restaurant.
func (r *RestaurantRepository) Create(ctx context.Context, restaurant *domain.Restaurant) error {
	return r.db.WithContext(ctx).Create(restaurant).Error
}

// CreateBatch inserts restaurants in chunks of 100.
func (r *RestaurantRepository) CreateBatch(ctx context.Context, restaurants []domain.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(restaurants, 100).Error
}

// ListIDs returns every restaurant ID in ascending order.
func (r *RestaurantRepository) ListIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&domain.Restaurant{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Search returns restaurants whose name contains name, ignoring case,
// ordered by ID. An empty name returns every restaurant.
func (r *RestaurantRepository) Search(ctx context.Context, name string) ([]domain.Restaurant, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if name = strings.TrimSpace(name); name != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(name)) + "%"
		q = q.Where(`LOWER(restaurant_name) LIKE ? ESCAPE '\'`, pattern)
	}
	restaurants := []domain.Restaurant{}
	if err := q.Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// GetByIDs loads restaurants by ID. Order is unspecified; unknown IDs are skipped.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - ids: restaurant IDs to load.
// Returns:
//   - []domain.Restaurant: restaurants found.
//   - error: non-nil if the query fails.
func (r *RestaurantRepository) GetByIDs(ctx context.Context, ids []uint) ([]domain.Restaurant, error) {
	if len(ids) == 0 {
		return []domain.Restaurant{}, nil
	}
	var restaurants []domain.Restaurant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetByID retrieves a restaurant. Returns domain.ErrNotFound if absent.
func (r *RestaurantRepository) GetByID(ctx context.Context, id uint) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &restaurant, nil
}

// DistinctZoneLocations returns each (zone, location ID) pair present among
// restaurants, ordered by location ID then zone.
func (r *RestaurantRepository) DistinctZoneLocations(ctx context.Context) ([]domain.ZoneLocation, error) {
	var pairs []domain.ZoneLocation
	err := r.db.WithContext(ctx).
		Model(&domain.Restaurant{}).
		Distinct("zone", "location_id").
		Where("zone <> ''").
		Order("location_id ASC, zone ASC").
		Scan(&pairs).Error
	if err != nil {
		return nil, err
	}
	return pairs, nil
}
