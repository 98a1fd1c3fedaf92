package dto

import "github.com/nnamdio/bookverse/data"

// CreateBookRequestBody defines the request body for CreateBook service.
type CreateBookRequestBody struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	Description   string `json:"description"`
	CoverURL      string `json:"cover_url"`
	Isbn          string `json:"isbn"`
	PublishedYear int32  `json:"published_year"`
}

// QsSearchBooks defines the query strings used for searching the catalog.
type QsSearchBooks struct {
	Search  string
	Genre   string
	Filters data.Filters
}

// QsListGenreBooks defines the query strings used for listing the books of a
// single genre.
type QsListGenreBooks struct {
	Filters data.Filters
}
