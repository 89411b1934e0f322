package recommend

import (
	"math"
	"sort"
)

// CosineSimilarity returns dot(a,b)/(|a|*|b|) for two binary vectors.
// It is 0 when either vector is all-zero. Vectors of different length are
// compared over their common prefix.
func CosineSimilarity(a, b PreferenceVector) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, na, nb int
	for i := 0; i < n; i++ {
		if a[i] != 0 {
			na++
		}
		if b[i] != 0 {
			nb++
		}
		if a[i] != 0 && b[i] != 0 {
			dot++
		}
	}
	for i := n; i < len(a); i++ {
		if a[i] != 0 {
			na++
		}
	}
	for i := n; i < len(b); i++ {
		if b[i] != 0 {
			nb++
		}
	}

	if na == 0 || nb == 0 {
		return 0
	}
	return float64(dot) / (math.Sqrt(float64(na)) * math.Sqrt(float64(nb)))
}

// Candidate is another user's vector awaiting scoring.
type Candidate struct {
	UserID uint
	Email  string
	Vector PreferenceVector
}

// Scored is a candidate with its similarity to the requester.
type Scored struct {
	UserID     uint
	Email      string
	Similarity float64
}

// RankSimilar scores every candidate against target, keeps scores > 0 and
// sorts them by descending similarity, then ascending user id.
// Candidates sharing target's user id are skipped.
func RankSimilar(targetID uint, target PreferenceVector, candidates []Candidate) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		if c.UserID == targetID {
			continue
		}
		score := CosineSimilarity(target, c.Vector)
		if score > 0 {
			out = append(out, Scored{UserID: c.UserID, Email: c.Email, Similarity: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
