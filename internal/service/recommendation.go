package service

import (
	"context"
	"fmt"
	"time"

	"github.com/savorly/recommender/internal/cache"
	"github.com/savorly/recommender/internal/domain"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/recommend"
)

// RecommendationService finds similar users and ranks restaurants from their likes.
// Results are cached per user and recomputed on a miss.
type RecommendationService struct {
	prefs       PreferenceStore
	likes       LikedRestaurantStore
	users       UserStore
	restaurants RestaurantStore
	cache       cache.Cache
	ttls        cache.TTLs
}

// NewRecommendationService creates a new recommendation service.
// Parameters:
//   - prefs: preference catalogue and selections.
//   - likes: liked restaurants.
//   - users: user accounts.
//   - restaurants: restaurant catalogue.
//   - c: computation cache; nil disables caching.
//   - ttls: lifetimes of cached results.
//
// Returns:
//   - *RecommendationService: initialized service.
func NewRecommendationService(
	prefs PreferenceStore,
	likes LikedRestaurantStore,
	users UserStore,
	restaurants RestaurantStore,
	c cache.Cache,
	ttls cache.TTLs,
) *RecommendationService {
	return &RecommendationService{
		prefs:       prefs,
		likes:       likes,
		users:       users,
		restaurants: restaurants,
		cache:       c,
		ttls:        ttls,
	}
}

// FindSimilarUsers returns users with positive cosine similarity to userID,
// most similar first, ties broken by ascending user ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: requesting user.
//
// Returns:
//   - []domain.SimilarUser: possibly empty, never nil.
//   - error: non-nil if storage fails.
func (s *RecommendationService) FindSimilarUsers(ctx context.Context, userID uint) ([]domain.SimilarUser, error) {
	ctx = logger.SetComponent(logger.SetUserID(ctx, userID), "recommend")

	var allPreferences []uint
	return s.similarUsers(ctx, userID, &allPreferences)
}

// RecommendRestaurants returns restaurants liked by similar users, ranked by
// the sum of those users' similarity scores.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - userID: requesting user.
//
// Returns:
//   - []domain.Recommendation: ranked list, possibly empty, never nil.
//   - error: non-nil if storage fails.
func (s *RecommendationService) RecommendRestaurants(ctx context.Context, userID uint) ([]domain.Recommendation, error) {
	ctx = logger.SetComponent(logger.SetUserID(ctx, userID), "recommend")

	return cache.GetOrCompute(ctx, s.cache, cache.RecommendationsKey(userID), s.ttls.Recommendations,
		func(ctx context.Context) ([]domain.Recommendation, error) {
			return s.computeRecommendations(ctx, userID)
		})
}

// similarUsers serves similar_users_{user} through the cache. allPreferences
// is loaded at most once and shared with the caller.
func (s *RecommendationService) similarUsers(ctx context.Context, userID uint, allPreferences *[]uint) ([]domain.SimilarUser, error) {
	return cache.GetOrCompute(ctx, s.cache, cache.SimilarUsersKey(userID), s.ttls.SimilarUsers,
		func(ctx context.Context) ([]domain.SimilarUser, error) {
			if *allPreferences == nil {
				ids, err := s.prefs.ListSelectableIDs(ctx)
				if err != nil {
					return nil, fmt.Errorf("list selectable preferences: %w", err)
				}
				*allPreferences = ids
			}
			return s.computeSimilarUsers(ctx, userID, *allPreferences)
		})
}

func (s *RecommendationService) computeSimilarUsers(ctx context.Context, userID uint, allPreferences []uint) ([]domain.SimilarUser, error) {
	start := time.Now()

	held, err := s.prefs.ListUserPreferenceIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences of user %d: %w", userID, err)
	}
	target := recommend.Vectorize(recommend.NewIDSet(held), allPreferences)

	others, err := s.users.ListOtherUsers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	candidates := make([]recommend.Candidate, 0, len(others))
	for _, u := range others {
		ids, err := s.prefs.ListUserPreferenceIDs(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list preferences of user %d: %w", u.ID, err)
		}
		candidates = append(candidates, recommend.Candidate{
			UserID: u.ID,
			Email:  u.Email,
			Vector: recommend.Vectorize(recommend.NewIDSet(ids), allPreferences),
		})
	}

	scored := recommend.RankSimilar(userID, target, candidates)
	similar := make([]domain.SimilarUser, len(scored))
	for i, sc := range scored {
		similar[i] = domain.SimilarUser{UserID: sc.UserID, Email: sc.Email, Similarity: sc.Similarity}
	}

	logger.With(logger.Fields{"population": len(others)}).
		WithDuration(time.Since(start).Milliseconds()).
		WithCount(len(similar)).
		Info(ctx, "Similar users computed")
	return similar, nil
}

func (s *RecommendationService) computeRecommendations(ctx context.Context, userID uint) ([]domain.Recommendation, error) {
	start := time.Now()

	var allPreferences []uint
	similar, err := s.similarUsers(ctx, userID, &allPreferences)
	if err != nil {
		return nil, err
	}
	if len(similar) == 0 {
		return []domain.Recommendation{}, nil
	}

	restaurantIDs, err := s.restaurants.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	scored := make([]recommend.Scored, len(similar))
	userIDs := make([]uint, len(similar))
	for i, su := range similar {
		scored[i] = recommend.Scored{UserID: su.UserID, Email: su.Email, Similarity: su.Similarity}
		userIDs[i] = su.UserID
	}

	likedByUser, err := s.likes.ListLikedIDsByUsers(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("list liked restaurants: %w", err)
	}
	liked := make(map[uint]recommend.IDSet, len(likedByUser))
	for uid, ids := range likedByUser {
		liked[uid] = recommend.NewIDSet(ids)
	}

	scores := recommend.AggregateScores(scored, liked, restaurantIDs)
	ranked := recommend.Rank(restaurantIDs, scores)
	if len(ranked) == 0 {
		return []domain.Recommendation{}, nil
	}

	ids := make([]uint, len(ranked))
	for i, r := range ranked {
		ids[i] = r.RestaurantID
	}
	details, err := s.restaurants.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load restaurants: %w", err)
	}
	byID := make(map[uint]domain.Restaurant, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	recs := make([]domain.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		restaurant, ok := byID[r.RestaurantID]
		if !ok {
			continue
		}
		recs = append(recs, domain.Recommendation{
			Restaurant: restaurant,
			Score:      r.Score,
			Rank:       r.Rank,
		})
	}

	logger.With(logger.Fields{"similar_users": len(similar)}).
		WithDuration(time.Since(start).Milliseconds()).
		WithCount(len(recs)).
		Info(ctx, "Recommendations computed")
	return recs, nil
}
