package service

import (
	"testing"

	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/data/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFilters() data.Filters {
	return data.Filters{
		Page:         1,
		PageSize:     10,
		Sort:         "id",
		SortSafelist: []string{"id", "-created_at"},
	}
}

func TestCreateBook_StartsWithZeroAggregate(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	assert.NotZero(t, book.ID)
	assert.Equal(t, 0.0, book.AverageRating)
	assert.EqualValues(t, 0, book.TotalReviews)
}

func TestCreateBook_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		body dto.CreateBookRequestBody
	}{
		{"missing title", dto.CreateBookRequestBody{Author: "a", Genre: "g", Description: "d"}},
		{"missing author", dto.CreateBookRequestBody{Title: "t", Genre: "g", Description: "d"}},
		{"missing genre", dto.CreateBookRequestBody{Title: "t", Author: "a", Description: "d"}},
		{"missing description", dto.CreateBookRequestBody{Title: "t", Author: "a", Genre: "g"}},
		{"future year", dto.CreateBookRequestBody{Title: "t", Author: "a", Genre: "g", Description: "d", PublishedYear: 3000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBook(tt.body)
			assert.ErrorIs(t, err, ErrFailedValidation)
		})
	}
}

func TestSearchBooks_TitleSubstringCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(t)
	createTestBook(t, svc) // "Dune"
	_, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Dune Messiah",
		Author:      "Frank Herbert",
		Genre:       "science-fiction",
		Description: "The sequel.",
	})
	require.NoError(t, err)
	_, err = svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Emma",
		Author:      "Jane Austen",
		Genre:       "romance",
		Description: "Matchmaking in Highbury.",
	})
	require.NoError(t, err)

	books, metadata, err := svc.SearchBooks("dune", "", testFilters())
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 2, metadata.TotalRecords)
}

func TestSearchBooks_GenreFilterMustAlsoMatch(t *testing.T) {
	svc, _ := newTestService(t)
	createTestBook(t, svc) // "Dune", science-fiction

	books, _, err := svc.SearchBooks("dune", "romance", testFilters())
	require.NoError(t, err)
	assert.Empty(t, books)

	books, _, err = svc.SearchBooks("dune", "science-fiction", testFilters())
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestSearchBooks_InvalidFilters(t *testing.T) {
	svc, _ := newTestService(t)
	filters := testFilters()
	filters.PageSize = 500
	_, _, err := svc.SearchBooks("", "", filters)
	assert.ErrorIs(t, err, ErrFailedValidation)

	filters = testFilters()
	filters.Sort = "price"
	_, _, err = svc.SearchBooks("", "", filters)
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestListBooksByGenre(t *testing.T) {
	svc, _ := newTestService(t)
	createTestBook(t, svc)
	_, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Emma",
		Author:      "Jane Austen",
		Genre:       "romance",
		Description: "Matchmaking in Highbury.",
	})
	require.NoError(t, err)

	books, metadata, err := svc.ListBooksByGenre("romance", testFilters())
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
	assert.Equal(t, 1, metadata.TotalRecords)

	books, _, err = svc.ListBooksByGenre("unknown", testFilters())
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestListGenres(t *testing.T) {
	svc, _ := newTestService(t)
	createTestBook(t, svc)
	_, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Emma",
		Author:      "Jane Austen",
		Genre:       "romance",
		Description: "Matchmaking in Highbury.",
	})
	require.NoError(t, err)

	genres, err := svc.ListGenres()
	require.NoError(t, err)
	assert.Equal(t, []string{"romance", "science-fiction"}, genres)
}

func TestGetBook_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GetBook(99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
