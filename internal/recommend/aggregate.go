package recommend

// BuildLikedMatrix returns a len(similar) x len(restaurants) matrix where
// cell (i, j) holds similar[i]'s similarity when that user liked
// restaurants[j], else 0. liked maps user id to the set of liked restaurant
// ids; likes of restaurants missing from the list are dropped.
func BuildLikedMatrix(similar []Scored, liked map[uint]IDSet, restaurants []uint) [][]float64 {
	index := make(map[uint]int, len(restaurants))
	for j, id := range restaurants {
		index[id] = j
	}

	matrix := make([][]float64, len(similar))
	for i, u := range similar {
		row := make([]float64, len(restaurants))
		for restaurantID := range liked[u.UserID] {
			if j, ok := index[restaurantID]; ok {
				row[j] = u.Similarity
			}
		}
		matrix[i] = row
	}
	return matrix
}

// ColumnSums reduces the matrix to one total per column. width is the column
// count, which keeps the result well-defined for an empty matrix.
func ColumnSums(matrix [][]float64, width int) []float64 {
	sums := make([]float64, width)
	for _, row := range matrix {
		for j := 0; j < width && j < len(row); j++ {
			sums[j] += row[j]
		}
	}
	return sums
}

// AggregateScores is BuildLikedMatrix followed by ColumnSums.
func AggregateScores(similar []Scored, liked map[uint]IDSet, restaurants []uint) []float64 {
	return ColumnSums(BuildLikedMatrix(similar, liked, restaurants), len(restaurants))
}
