package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/repository"
)

// LikedRestaurantService manages the restaurants a user liked.
type LikedRestaurantService struct {
	likes       *repository.LikedRestaurantRepository
	restaurants *repository.RestaurantRepository
	cache       cache.Cache
	ttl         time.Duration
}

// NewLikedRestaurantService creates a new liked restaurant service.
func NewLikedRestaurantService(
	likes *repository.LikedRestaurantRepository,
	restaurants *repository.RestaurantRepository,
	c cache.Cache,
	ttl time.Duration,
) *LikedRestaurantService {
	return &LikedRestaurantService{likes: likes, restaurants: restaurants, cache: c, ttl: ttl}
}

// List returns a user's likes through user_liked_restaurants_{user}.
func (s *LikedRestaurantService) List(ctx context.Context, userID uint) ([]domain.UserLikedRestaurant, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.LikedRestaurantsKey(userID), s.ttl,
		func(ctx context.Context) ([]domain.UserLikedRestaurant, error) {
			likes, err := s.likes.ListLiked(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("list likes of user %d: %w", userID, err)
			}
			if likes == nil {
				likes = []domain.UserLikedRestaurant{}
			}
			return likes, nil
		})
}

// Add records a like and drops the user's like list and recommendations.
// Returns domain.ErrInvalidInput for an unknown restaurant and
// domain.ErrAlreadyExists for a repeated like.
func (s *LikedRestaurantService) Add(ctx context.Context, userID, restaurantID uint) (*domain.UserLikedRestaurant, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("restaurant %d does not exist: %w", restaurantID, domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("load restaurant: %w", err)
	}

	like := &domain.UserLikedRestaurant{UserID: userID, RestaurantID: restaurantID}
	if err := s.likes.Add(ctx, like); err != nil {
		return nil, err
	}
	like.Restaurant = *restaurant

	cache.Invalidate(ctx, s.cache, cache.LikeDerivedKeys(userID)...)
	return like, nil
}

// Remove deletes a like and drops the user's like list and recommendations.
func (s *LikedRestaurantService) Remove(ctx context.Context, userID, restaurantID uint) error {
	if err := s.likes.Remove(ctx, userID, restaurantID); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, cache.LikeDerivedKeys(userID)...)
	return nil
}
