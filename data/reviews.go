package data

import (
	"time"

	"github.com/nnamdio/bookverse/internal/validator"
)

// Review defines a single reviewer's rating of a book. A reviewer holds at
// most one live review per book: resubmitting overwrites the existing record
// in place and forces IsEdited to true. CreatedAt is immutable and provides
// the default newest-first ordering.
type Review struct {
	ID         int64     `json:"id"`
	BookID     int64     `json:"book_id"`
	ReviewerID int64     `json:"reviewer_id"`
	CreatedAt  time.Time `json:"created_at"`
	Rating     int8      `json:"rating"`
	Body       string    `json:"body,omitempty"`
	IsEdited   bool      `json:"is_edited"`
	Version    int32     `json:"-"`
}

func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating >= 1, "rating", "must be at least one")
	v.Check(review.Rating <= 5, "rating", "must not be greater than five")
	v.Check(len(review.Body) <= 2000, "body", "must not be more than 2000 bytes long")
}
