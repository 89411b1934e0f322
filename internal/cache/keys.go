package cache

import (
	"fmt"
	"strings"
	"time"
)

// Fixed keys.
const (
	KeyPredictionModel = "prediction_model"
	KeyTemperature     = "temperature"
	KeyDewpoint        = "dewpoint"
	KeyPrecipitation   = "precipitation"
)

// RecommendationsKey caches a user's ranked restaurant list.
func RecommendationsKey(userID uint) string {
	return fmt.Sprintf("recommend_restaurants_%d", userID)
}

// SimilarUsersKey caches a user's similar-user list.
func SimilarUsersKey(userID uint) string {
	return fmt.Sprintf("similar_users_%d", userID)
}

// UserPreferencesKey caches a user's selected preferences.
func UserPreferencesKey(userID uint) string {
	return fmt.Sprintf("user_preferences_%d", userID)
}

// LikedRestaurantsKey caches a user's liked restaurants.
func LikedRestaurantsKey(userID uint) string {
	return fmt.Sprintf("user_liked_restaurants_%d", userID)
}

// ProfileKey caches a user's profile.
func ProfileKey(userID uint) string {
	return fmt.Sprintf("profile_%d", userID)
}

// BusynessPredictionKey caches predictions for one timestamp in the
// 2006-01-02T15:04:05 layout.
func BusynessPredictionKey(at string) string {
	return busynessPrefix + at
}

const busynessPrefix = "busyness_prediction_"

// Restaurant listing keys. RestaurantsPrefix covers both.
const (
	RestaurantsPrefix       = "restaurants_"
	KeyRestaurantsAll       = RestaurantsPrefix + "all"
	restaurantsSearchPrefix = RestaurantsPrefix + "search_"
)

// RestaurantListKey caches a restaurant listing filtered by name. Matching
// ignores case, so the key uses the trimmed lower-case name; an empty name
// is the full listing.
func RestaurantListKey(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return KeyRestaurantsAll
	}
	return restaurantsSearchPrefix + name
}

// Family returns the key without its user or time suffix, for metric labels.
func Family(key string) string {
	for _, prefix := range []string{busynessPrefix, restaurantsSearchPrefix} {
		if strings.HasPrefix(key, prefix) {
			return strings.TrimSuffix(prefix, "_")
		}
	}
	i := strings.LastIndexByte(key, '_')
	if i <= 0 || i == len(key)-1 {
		return key
	}
	for _, r := range key[i+1:] {
		if r < '0' || r > '9' {
			return key
		}
	}
	return key[:i]
}

// PreferenceDerivedKeys lists every key derived from a user's preference set.
func PreferenceDerivedKeys(userID uint) []string {
	return []string{
		UserPreferencesKey(userID),
		SimilarUsersKey(userID),
		RecommendationsKey(userID),
	}
}

// LikeDerivedKeys lists every key derived from a user's liked restaurants.
func LikeDerivedKeys(userID uint) []string {
	return []string{
		LikedRestaurantsKey(userID),
		RecommendationsKey(userID),
	}
}

// TTLs holds the lifetime of each cached artifact.
type TTLs struct {
	Recommendations  time.Duration
	SimilarUsers     time.Duration
	UserPreferences  time.Duration
	LikedRestaurants time.Duration
	Profile          time.Duration
	Restaurants      time.Duration
	PredictionModel  time.Duration
	Busyness         time.Duration
	Weather          time.Duration
}

// DefaultTTLs returns one hour for user-derived data and the model, two
// hours for restaurant listings, ten minutes for busyness predictions and
// six hours for weather observations.
func DefaultTTLs() TTLs {
	return TTLs{
		Recommendations:  time.Hour,
		SimilarUsers:     time.Hour,
		UserPreferences:  time.Hour,
		LikedRestaurants: time.Hour,
		Profile:          time.Hour,
		Restaurants:      2 * time.Hour,
		PredictionModel:  time.Hour,
		Busyness:         10 * time.Minute,
		Weather:          6 * time.Hour,
	}
}
