package domain

// SimilarUser is another user whose preference vector overlaps the requester's.
type SimilarUser struct {
	UserID     uint    `json:"user_id"`
	Email      string  `json:"email"`
	Similarity float64 `json:"similarity"`
}

// Recommendation is a restaurant ranked for a user by aggregate similarity score.
type Recommendation struct {
	Restaurant
	Score float64 `json:"score"`
	Rank  int     `json:"sort"`
}
