package data

import (
	"time"

	"github.com/nnamdio/bookverse/internal/validator"
)

// Book defines a catalog entry. AverageRating and TotalReviews are derived
// fields: they are only ever written by the rating recomputation and always
// reflect the full live review set for the book.
type Book struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	Genre         string    `json:"genre"`
	Description   string    `json:"description"`
	CoverURL      string    `json:"cover_url,omitempty"`
	Isbn          string    `json:"isbn,omitempty"`
	PublishedYear int32     `json:"published_year,omitempty"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int64     `json:"total_reviews"`
	Version       int32     `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(book.Genre != "", "genre", "must be provided")
	v.Check(len(book.Genre) <= 100, "genre", "must not be more than 100 bytes long")
	v.Check(book.Description != "", "description", "must be provided")
	v.Check(len(book.Description) <= 2000, "description", "must not be more than 2000 bytes long")
	v.Check(len(book.Isbn) <= 17, "isbn", "must not be more than 17 characters")
	if book.PublishedYear != 0 {
		v.Check(book.PublishedYear >= 1000, "published_year", "must be a four digit year")
		v.Check(book.PublishedYear <= int32(time.Now().Year()), "published_year", "must not be in the future")
	}
}
