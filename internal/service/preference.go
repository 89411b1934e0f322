package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
)

// PreferenceService manages the preference catalogue and users' selections.
type PreferenceService struct {
	repo  *repository.PreferenceRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewPreferenceService creates a new preference service.
func NewPreferenceService(repo *repository.PreferenceRepository, c cache.Cache, ttl time.Duration) *PreferenceService {
	return &PreferenceService{repo: repo, cache: c, ttl: ttl}
}

// ListCatalogue returns every preference.
func (s *PreferenceService) ListCatalogue(ctx context.Context) ([]domain.Preference, error) {
	prefs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// ListUserPreferences returns a user's selections through user_preferences_{user}.
// A cache miss also refreshes LastAccessed, which drives retention cleanup.
func (s *PreferenceService) ListUserPreferences(ctx context.Context, userID uint) ([]domain.UserPreference, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.UserPreferencesKey(userID), s.ttl,
		func(ctx context.Context) ([]domain.UserPreference, error) {
			if err := s.repo.TouchUserPreferences(ctx, userID, time.Now()); err != nil {
				logger.FromContext(ctx).WithError(err).Warn("Failed to refresh preference access time")
			}
			links, err := s.repo.ListUserPreferences(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("list preferences of user %d: %w", userID, err)
			}
			if links == nil {
				links = []domain.UserPreference{}
			}
			return links, nil
		})
}

// AddUserPreference records a selection and drops the user's derived cache entries.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: acting user.
//   - preferenceID: catalogue preference to select.
//
// Returns:
//   - *domain.UserPreference: the stored selection.
//   - error: domain.ErrInvalidInput for an unknown or non-selectable preference,
//     domain.ErrAlreadyExists if already selected.
func (s *PreferenceService) AddUserPreference(ctx context.Context, userID, preferenceID uint) (*domain.UserPreference, error) {
	pref, err := s.repo.GetByID(ctx, preferenceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("preference %d does not exist: %w", preferenceID, domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("load preference: %w", err)
	}
	if !pref.IsSelectable {
		return nil, fmt.Errorf("preference %d is not selectable: %w", preferenceID, domain.ErrInvalidInput)
	}

	link := &domain.UserPreference{UserID: userID, PreferenceID: preferenceID}
	if err := s.repo.AddUserPreference(ctx, link); err != nil {
		return nil, err
	}
	link.Preference = *pref

	cache.Invalidate(ctx, s.cache, cache.PreferenceDerivedKeys(userID)...)
	return link, nil
}

// RemoveUserPreference deletes a selection and drops the user's derived cache entries.
// Returns domain.ErrNotFound if the user did not hold the preference.
func (s *PreferenceService) RemoveUserPreference(ctx context.Context, userID, preferenceID uint) error {
	if err := s.repo.RemoveUserPreference(ctx, userID, preferenceID); err != nil {
		return err
	}
	cache.Invalidate(ctx, s.cache, cache.PreferenceDerivedKeys(userID)...)
	return nil
}
