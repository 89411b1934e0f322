package recommend

import "sort"

// RankedRestaurant is a restaurant id with its aggregate score and 1-based rank.
type RankedRestaurant struct {
	RestaurantID uint
	Score        float64
	Rank         int
}

// Rank keeps restaurants with a positive score, orders them by descending
// score then ascending id, and numbers them from 1. scores[i] belongs to
// restaurants[i].
func Rank(restaurants []uint, scores []float64) []RankedRestaurant {
	out := make([]RankedRestaurant, 0)
	for i, id := range restaurants {
		if i >= len(scores) {
			break
		}
		if scores[i] > 0 {
			out = append(out, RankedRestaurant{RestaurantID: id, Score: scores[i]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].RestaurantID < out[j].RestaurantID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
