package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/repository"
)

// RestaurantService lists and searches the restaurant catalogue.
type RestaurantService struct {
	restaurants *repository.RestaurantRepository
	cache       cache.Cache
	ttl         time.Duration
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(restaurants *repository.RestaurantRepository, c cache.Cache, ttl time.Duration) *RestaurantService {
	return &RestaurantService{restaurants: restaurants, cache: c, ttl: ttl}
}

// List returns restaurants whose name contains name, ignoring case, or all
// of them when name is empty. Results are cached under restaurants_all or
// restaurants_search_{name}.
func (s *RestaurantService) List(ctx context.Context, name string) ([]domain.Restaurant, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.RestaurantListKey(name), s.ttl,
		func(ctx context.Context) ([]domain.Restaurant, error) {
			restaurants, err := s.restaurants.Search(ctx, name)
			if err != nil {
				return nil, fmt.Errorf("search restaurants %q: %w", name, err)
			}
			return restaurants, nil
		})
}

// Search is the free-text lookup. An empty query matches nothing, and
// results are read straight from storage.
func (s *RestaurantService) Search(ctx context.Context, query string) ([]domain.Restaurant, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Restaurant{}, nil
	}
	restaurants, err := s.restaurants.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search restaurants %q: %w", query, err)
	}
	return restaurants, nil
}
