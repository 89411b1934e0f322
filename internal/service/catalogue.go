package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/repository"
	"github.com/savorly/recommender/internal/source"
)

const defaultImportBatch = 100

// ImportStats reports one catalogue import.
type ImportStats struct {
	Restaurants int   `json:"restaurants"`
	Preferences int64 `json:"preferences"`
}

// CatalogueService loads restaurants and derives the preference catalogue
// from their cuisines and price bands.
type CatalogueService struct {
	prefs       *repository.PreferenceRepository
	restaurants *repository.RestaurantRepository
	cache       cache.Cache
}

// NewCatalogueService creates a new catalogue service.
func NewCatalogueService(prefs *repository.PreferenceRepository, restaurants *repository.RestaurantRepository, c cache.Cache) *CatalogueService {
	return &CatalogueService{prefs: prefs, restaurants: restaurants, cache: c}
}

// Import copies every restaurant from src and adds any new cuisine or price
// preference. New preferences change the vector space, so the whole cache
// is flushed; otherwise only the restaurant listings are dropped.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - src: catalogue source.
//   - batchSize: restaurants per fetch and insert; <= 0 uses 100.
//
// Returns:
//   - *ImportStats: counts of inserted rows.
//   - error: non-nil if reading or storing fails. Batches already stored stay.
func (s *CatalogueService) Import(ctx context.Context, src source.Source, batchSize int) (*ImportStats, error) {
	if batchSize <= 0 {
		batchSize = defaultImportBatch
	}
	ctx = logger.SetComponent(ctx, "catalogue")
	log := logger.FromContext(ctx).WithField("source", src.GetSourceID())

	stats := &ImportStats{}
	cuisines := make(map[string]struct{})
	prices := make(map[string]struct{})

	cursor := ""
	for {
		batch, next, err := src.FetchBatch(ctx, cursor, batchSize)
		if err != nil {
			return stats, fmt.Errorf("failed to fetch batch at %q: %w", cursor, err)
		}
		if err := s.restaurants.CreateBatch(ctx, batch); err != nil {
			return stats, fmt.Errorf("failed to store restaurants: %w", err)
		}
		stats.Restaurants += len(batch)
		for _, r := range batch {
			if r.PrimaryCuisine != "" {
				cuisines[r.PrimaryCuisine] = struct{}{}
			}
			if r.Price != "" {
				prices[r.Price] = struct{}{}
			}
		}
		log.WithField(logger.FieldCount, len(batch)).Debug("Stored restaurant batch")
		if next == "" {
			break
		}
		cursor = next
	}

	prefs := append(
		catalogueEntries(cuisines, domain.PreferenceTypeCuisine),
		catalogueEntries(prices, domain.PreferenceTypePrice)...,
	)
	added, err := s.prefs.EnsureCatalogue(ctx, prefs)
	if err != nil {
		return stats, fmt.Errorf("failed to store preferences: %w", err)
	}
	stats.Preferences = added

	switch {
	case added > 0 && s.cache != nil:
		if err := s.cache.Flush(ctx); err != nil {
			log.WithError(err).Warn("Failed to flush cache after catalogue change")
		}
	case stats.Restaurants > 0:
		cache.InvalidatePrefix(ctx, s.cache, cache.RestaurantsPrefix)
	}

	log.WithFields(logger.Fields{
		"restaurants": stats.Restaurants,
		"preferences": stats.Preferences,
	}).Info("Catalogue import completed")
	return stats, nil
}

func catalogueEntries(set map[string]struct{}, kind domain.PreferenceType) []domain.Preference {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	prefs := make([]domain.Preference, 0, len(names))
	for _, name := range names {
		prefs = append(prefs, domain.Preference{Description: name, Type: kind, IsSelectable: true})
	}
	return prefs
}
