package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	restaurants := []uint{10, 20, 30, 40}
	scores := []float64{0.4, 0, 1.3, 0.4}

	ranked := Rank(restaurants, scores)
	require.Len(t, ranked, 3)

	assert.Equal(t, RankedRestaurant{RestaurantID: 30, Score: 1.3, Rank: 1}, ranked[0])
	// tie on 0.4: lower id first
	assert.Equal(t, RankedRestaurant{RestaurantID: 10, Score: 0.4, Rank: 2}, ranked[1])
	assert.Equal(t, RankedRestaurant{RestaurantID: 40, Score: 0.4, Rank: 3}, ranked[2])
}

func TestRankIsReproducible(t *testing.T) {
	restaurants := []uint{5, 3, 9, 1}
	scores := []float64{0.5, 0.5, 0.5, 0.5}

	first := Rank(restaurants, scores)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Rank(restaurants, scores))
	}
	assert.Equal(t, uint(1), first[0].RestaurantID)
	assert.Equal(t, uint(9), first[3].RestaurantID)
}

func TestRecommendationScenario(t *testing.T) {
	// Y (0.9) likes R1; Z (0.4) likes R1 and R2.
	restaurants := []uint{1, 2}
	similar := []Scored{{UserID: 2, Similarity: 0.9}, {UserID: 3, Similarity: 0.4}}
	liked := map[uint]IDSet{
		2: NewIDSet([]uint{1}),
		3: NewIDSet([]uint{1, 2}),
	}

	ranked := Rank(restaurants, AggregateScores(similar, liked, restaurants))
	require.Len(t, ranked, 2)

	assert.Equal(t, uint(1), ranked[0].RestaurantID)
	assert.InDelta(t, 1.3, ranked[0].Score, 1e-9)
	assert.Equal(t, 1, ranked[0].Rank)

	assert.Equal(t, uint(2), ranked[1].RestaurantID)
	assert.InDelta(t, 0.4, ranked[1].Score, 1e-9)
	assert.Equal(t, 2, ranked[1].Rank)
}
