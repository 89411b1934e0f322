package service

import (
	"context"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
)

// MaintenanceConfig holds retention windows for scheduled cleanup.
type MaintenanceConfig struct {
	PreferenceRetention time.Duration
	LikeRetention       time.Duration
}

// CleanupResult reports one cleanup run.
type CleanupResult struct {
	Removed       int64  `json:"removed"`
	AffectedUsers []uint `json:"affected_users"`
}

// MaintenanceService runs retention cleanup and cache administration.
type MaintenanceService struct {
	prefs *repository.PreferenceRepository
	likes *repository.LikedRestaurantRepository
	cache cache.Cache
	cfg   MaintenanceConfig
	now   func() time.Time
}

// NewMaintenanceService creates a new maintenance service.
func NewMaintenanceService(
	prefs *repository.PreferenceRepository,
	likes *repository.LikedRestaurantRepository,
	c cache.Cache,
	cfg MaintenanceConfig,
) *MaintenanceService {
	return &MaintenanceService{prefs: prefs, likes: likes, cache: c, cfg: cfg, now: time.Now}
}

// CleanupPreferences removes selections not accessed within the retention
// window and drops every affected user's derived cache entries.
func (s *MaintenanceService) CleanupPreferences(ctx context.Context) (*CleanupResult, error) {
	ctx = logger.SetJob(ctx, "cleanup-preferences")
	cutoff := s.now().Add(-s.cfg.PreferenceRetention)

	users, removed, err := s.prefs.DeleteUserPreferencesBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(users)*3)
	for _, u := range users {
		keys = append(keys, cache.PreferenceDerivedKeys(u)...)
	}
	cache.Invalidate(ctx, s.cache, keys...)

	logger.With(logger.Fields{"affected_users": len(users)}).
		WithCount(int(removed)).
		Info(ctx, "Deleted old preferences before %s", cutoff.Format(time.RFC3339))
	return &CleanupResult{Removed: removed, AffectedUsers: users}, nil
}

// CleanupLikes removes likes older than the retention window and drops
// every affected user's like list and recommendations.
func (s *MaintenanceService) CleanupLikes(ctx context.Context) (*CleanupResult, error) {
	ctx = logger.SetJob(ctx, "cleanup-likes")
	cutoff := s.now().Add(-s.cfg.LikeRetention)

	users, removed, err := s.likes.DeleteBefore(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(users)*2)
	for _, u := range users {
		keys = append(keys, cache.LikeDerivedKeys(u)...)
	}
	cache.Invalidate(ctx, s.cache, keys...)

	logger.With(logger.Fields{"affected_users": len(users)}).
		WithCount(int(removed)).
		Info(ctx, "Deleted old liked restaurants before %s", cutoff.Format(time.RFC3339))
	return &CleanupResult{Removed: removed, AffectedUsers: users}, nil
}

// ClearCache drops every cached entry. Run it after the selectable
// preference set changes, since cached similarity results depend on it.
func (s *MaintenanceService) ClearCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Flush(ctx); err != nil {
		return fmt.Errorf("flush cache: %w", err)
	}
	logger.CtxInfo(logger.SetJob(ctx, "clear-cache"), "Cache flushed")
	return nil
}
