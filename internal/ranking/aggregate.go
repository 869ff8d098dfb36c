package ranking

// Aggregate is the rollup of all current ratings for one album.
type Aggregate struct {
	TotalScore      float64
	NumberOfRatings int
	AverageScore    float64
}

// ApplyRatingChange computes the next aggregate after one user's rating changes.
// oldRating is the user's previously stored rating (nil if none), newRating is
// the rating to apply now (nil to remove). The same function covers first
// rating, change, removal, and the no-op change, so callers never branch:
//
//	first rating:  oldRating == nil, newRating != nil  -> count+1
//	change:        both non-nil                        -> count unchanged
//	removal:       newRating == nil                    -> count-1 (floored at 0)
//
// TotalScore and NumberOfRatings are clamped at zero; a well-formed sequence
// never drives them negative, but a corrupt stored aggregate must not propagate.
// AverageScore is always recomputed here, never carried over.
func ApplyRatingChange(agg Aggregate, oldRating, newRating *float64) Aggregate {
	next := agg

	if oldRating != nil {
		next.TotalScore -= *oldRating
	}

	if newRating != nil {
		next.TotalScore += *newRating
		if oldRating == nil {
			next.NumberOfRatings++
		}
	} else if oldRating != nil {
		next.NumberOfRatings--
	}

	if next.TotalScore < 0 {
		next.TotalScore = 0
	}
	if next.NumberOfRatings < 0 {
		next.NumberOfRatings = 0
	}

	if next.NumberOfRatings > 0 {
		next.AverageScore = next.TotalScore / float64(next.NumberOfRatings)
	} else {
		next.AverageScore = 0
	}

	return next
}
