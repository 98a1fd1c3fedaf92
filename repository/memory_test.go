package repository

import (
	"sync"
	"testing"

	"github.com/nnamdio/bookverse/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBook(t *testing.T, repo *MemoryRepository) *data.Book {
	t.Helper()
	book := &data.Book{
		Title:       "The Left Hand of Darkness",
		Author:      "Ursula K. Le Guin",
		Genre:       "science-fiction",
		Description: "An envoy on a planet of ambisexual humans.",
	}
	require.NoError(t, repo.CreateBook(book))
	return book
}

func TestMemoryRepository_SubmitReviewInsertsAndAggregates(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	review := &data.Review{BookID: book.ID, ReviewerID: 7, Rating: 5, Body: "superb"}
	require.NoError(t, repo.SubmitReview(review))
	assert.NotZero(t, review.ID)
	assert.False(t, review.IsEdited)
	assert.EqualValues(t, 1, review.Version)

	got, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)
}

func TestMemoryRepository_SubmitReviewUnknownBook(t *testing.T) {
	repo := NewMemory()
	review := &data.Review{BookID: 99, ReviewerID: 7, Rating: 5}
	assert.ErrorIs(t, repo.SubmitReview(review), ErrRecordNotFound)
}

func TestMemoryRepository_ResubmitOverwritesInPlace(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	first := &data.Review{BookID: book.ID, ReviewerID: 7, Rating: 5, Body: "superb"}
	require.NoError(t, repo.SubmitReview(first))
	second := &data.Review{BookID: book.ID, ReviewerID: 7, Rating: 1, Body: "changed my mind"}
	require.NoError(t, repo.SubmitReview(second))

	// Same identity, updated content.
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsEdited)
	assert.EqualValues(t, 2, second.Version)

	reviews, err := repo.GetAllReviewsForBook(book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.EqualValues(t, 1, reviews[0].Rating)
	assert.Equal(t, "changed my mind", reviews[0].Body)

	got, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)
}

func TestMemoryRepository_ConcurrentSubmitsSameReviewerLeaveOneReview(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(rating int8) {
			defer wg.Done()
			review := &data.Review{BookID: book.ID, ReviewerID: 7, Rating: rating}
			_ = repo.SubmitReview(review)
		}(int8(i%5 + 1))
	}
	wg.Wait()

	reviews, err := repo.GetAllReviewsForBook(book.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 1)

	got, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalReviews)
	assert.Equal(t, float64(reviews[0].Rating), got.AverageRating)
}

func TestMemoryRepository_AggregateTracksReviewSet(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	r1 := &data.Review{BookID: book.ID, ReviewerID: 1, Rating: 5}
	require.NoError(t, repo.SubmitReview(r1))
	r2 := &data.Review{BookID: book.ID, ReviewerID: 2, Rating: 3}
	require.NoError(t, repo.SubmitReview(r2))

	got, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.EqualValues(t, 2, got.TotalReviews)

	require.NoError(t, repo.DeleteReview(r1.ID, book.ID))
	got, err = repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)

	require.NoError(t, repo.DeleteReview(r2.ID, book.ID))
	got, err = repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.AverageRating)
	assert.EqualValues(t, 0, got.TotalReviews)
}

func TestMemoryRepository_DeleteReviewNotFound(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)
	assert.ErrorIs(t, repo.DeleteReview(42, book.ID), ErrRecordNotFound)
	assert.ErrorIs(t, repo.DeleteReview(42, 99), ErrRecordNotFound)
}

func TestMemoryRepository_ReviewsOrderedNewestFirst(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	for i := int64(1); i <= 3; i++ {
		review := &data.Review{BookID: book.ID, ReviewerID: i, Rating: 4}
		require.NoError(t, repo.SubmitReview(review))
	}

	reviews, err := repo.GetAllReviewsForBook(book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	// CreatedAt timestamps may coincide, in which case the higher ID wins.
	for i := 0; i < len(reviews)-1; i++ {
		a, b := reviews[i], reviews[i+1]
		if a.CreatedAt.Equal(b.CreatedAt) {
			assert.Greater(t, a.ID, b.ID)
		} else {
			assert.True(t, a.CreatedAt.After(b.CreatedAt))
		}
	}
}

func TestMemoryRepository_RefreshBookRatingIdempotent(t *testing.T) {
	repo := NewMemory()
	book := seedBook(t, repo)

	review := &data.Review{BookID: book.ID, ReviewerID: 1, Rating: 4}
	require.NoError(t, repo.SubmitReview(review))

	require.NoError(t, repo.RefreshBookRating(book.ID))
	require.NoError(t, repo.RefreshBookRating(book.ID))

	got, err := repo.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)
}

func TestMemoryRepository_GetAllBooksSearchAndGenre(t *testing.T) {
	repo := NewMemory()
	dune := &data.Book{Title: "Dune", Author: "Frank Herbert", Genre: "science-fiction", Description: "Spice."}
	require.NoError(t, repo.CreateBook(dune))
	sequel := &data.Book{Title: "Dune Messiah", Author: "Frank Herbert", Genre: "science-fiction", Description: "More spice."}
	require.NoError(t, repo.CreateBook(sequel))
	other := &data.Book{Title: "Emma", Author: "Jane Austen", Genre: "romance", Description: "Matchmaking."}
	require.NoError(t, repo.CreateBook(other))

	filters := data.Filters{Page: 1, PageSize: 10, Sort: "id", SortSafelist: []string{"id"}}

	books, metadata, err := repo.GetAllBooks("dune", "", filters)
	require.NoError(t, err)
	assert.Len(t, books, 2)
	assert.Equal(t, 2, metadata.TotalRecords)

	// Both conditions must hold when both are supplied.
	books, _, err = repo.GetAllBooks("dune", "romance", filters)
	require.NoError(t, err)
	assert.Empty(t, books)

	books, _, err = repo.GetAllBooks("", "romance", filters)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Emma", books[0].Title)
}

func TestMemoryRepository_GetGenresSortedDistinct(t *testing.T) {
	repo := NewMemory()
	for _, genre := range []string{"romance", "science-fiction", "romance", "horror"} {
		book := &data.Book{Title: "t", Author: "a", Genre: genre, Description: "d"}
		require.NoError(t, repo.CreateBook(book))
	}
	genres, err := repo.GetGenres()
	require.NoError(t, err)
	assert.Equal(t, []string{"horror", "romance", "science-fiction"}, genres)
}

func TestMemoryRepository_CountReviewsForReviewer(t *testing.T) {
	repo := NewMemory()
	b1 := seedBook(t, repo)
	b2 := &data.Book{Title: "Dune", Author: "Frank Herbert", Genre: "science-fiction", Description: "Spice."}
	require.NoError(t, repo.CreateBook(b2))

	require.NoError(t, repo.SubmitReview(&data.Review{BookID: b1.ID, ReviewerID: 7, Rating: 5}))
	require.NoError(t, repo.SubmitReview(&data.Review{BookID: b2.ID, ReviewerID: 7, Rating: 3}))
	// Overwrite must not bump the count.
	require.NoError(t, repo.SubmitReview(&data.Review{BookID: b2.ID, ReviewerID: 7, Rating: 4}))

	count, err := repo.CountReviewsForReviewer(7)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = repo.CountReviewsForReviewer(8)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestMemoryRepository_ProfileUpsert(t *testing.T) {
	repo := NewMemory()

	_, err := repo.GetProfile(7)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	profile := &data.Profile{ReviewerID: 7, DisplayName: "Ada", FavoriteGenres: []string{"science-fiction"}}
	require.NoError(t, repo.UpsertProfile(profile))
	assert.Equal(t, data.ProfileFull, profile.Kind)
	assert.EqualValues(t, 1, profile.Version)

	profile.Bio = "Reads everything."
	require.NoError(t, repo.UpsertProfile(profile))
	assert.EqualValues(t, 2, profile.Version)

	stored, err := repo.GetProfile(7)
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored.DisplayName)
	assert.Equal(t, "Reads everything.", stored.Bio)
	assert.Equal(t, []string{"science-fiction"}, stored.FavoriteGenres)
}
