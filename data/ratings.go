package data

import (
	"fmt"
	"math"
	"strconv"
)

// Rating holds the derived aggregate pair cached on a book.
type Rating struct {
	Average float64 `json:"average"`
	Total   int64   `json:"total"`
}

// ComputeRating derives a book's aggregate rating from its full live review
// set. The average is the arithmetic mean rounded to one decimal place, or 0
// when there are no reviews. The computation is pure and idempotent: callers
// re-run it on every review insert, update and delete rather than patching
// counters incrementally, so the cached aggregate can never drift from the
// review set it was derived from.
func ComputeRating(reviews []*Review) Rating {
	rating := Rating{Total: int64(len(reviews))}
	if rating.Total == 0 {
		return rating
	}
	sum := int64(0)
	for _, review := range reviews {
		sum += int64(review.Rating)
	}
	avgRatingString := fmt.Sprintf("%.1f", float64(sum)/float64(rating.Total))
	avgRating, err := strconv.ParseFloat(avgRatingString, 64)
	if err != nil {
		return rating
	}
	// Guard against NaN so that JSON encoding of the book record never fails.
	if !math.IsNaN(avgRating) {
		rating.Average = avgRating
	}
	return rating
}
