package recommend

// PreferenceVector is a position-stable binary encoding of a preference set.
// Two vectors are only comparable when built against the same ordered id list.
type PreferenceVector []uint8

// IDSet is a set of storage ids.
type IDSet map[uint]struct{}

// NewIDSet builds a set from ids. Duplicates collapse.
func NewIDSet(ids []uint) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set.
func (s IDSet) Has(id uint) bool {
	_, ok := s[id]
	return ok
}

// Vectorize returns a vector with position i set to 1 iff held contains
// allPreferences[i]. Ids held but absent from allPreferences are ignored.
func Vectorize(held IDSet, allPreferences []uint) PreferenceVector {
	vec := make(PreferenceVector, len(allPreferences))
	for i, id := range allPreferences {
		if held.Has(id) {
			vec[i] = 1
		}
	}
	return vec
}

// IsZero reports whether no position is set.
func (v PreferenceVector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
