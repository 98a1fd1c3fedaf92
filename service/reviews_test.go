package service

import (
	"io"
	"sync"
	"testing"

	"github.com/nnamdio/bookverse/config"
	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/data/dto"
	"github.com/nnamdio/bookverse/internal/jsonlog"
	"github.com/nnamdio/bookverse/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (Service, *repository.MemoryRepository) {
	t.Helper()
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelError)
	repo := repository.NewMemory()
	return New(config.Config{}, &wg, logger, repo), repo
}

func createTestBook(t *testing.T, svc Service) *data.Book {
	t.Helper()
	book, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Dune",
		Author:      "Frank Herbert",
		Genre:       "science-fiction",
		Description: "A desert planet and its spice.",
	})
	require.NoError(t, err)
	return book
}

func TestSubmitReview_FirstReviewSetsAggregate(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	review, err := svc.SubmitReview(1, book.ID, 5, "a masterpiece")
	require.NoError(t, err)
	assert.False(t, review.IsEdited)

	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)
}

func TestSubmitReview_SecondReviewerAveragesIn(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	_, err := svc.SubmitReview(1, book.ID, 5, "")
	require.NoError(t, err)
	_, err = svc.SubmitReview(2, book.ID, 3, "")
	require.NoError(t, err)

	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.EqualValues(t, 2, got.TotalReviews)
}

func TestSubmitReview_ResubmitOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	_, err := svc.SubmitReview(1, book.ID, 5, "loved it")
	require.NoError(t, err)
	_, err = svc.SubmitReview(2, book.ID, 3, "")
	require.NoError(t, err)

	review, err := svc.SubmitReview(1, book.ID, 1, "on reflection, no")
	require.NoError(t, err)
	assert.True(t, review.IsEdited)

	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.TotalReviews)
	assert.Equal(t, 2.0, got.AverageRating)

	own, err := svc.GetOwnReview(1, book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, own.Rating)
	assert.Equal(t, "on reflection, no", own.Body)
}

func TestSubmitReview_InvalidRatingLeavesAggregateUntouched(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	_, err := svc.SubmitReview(1, book.ID, 4, "")
	require.NoError(t, err)

	for _, rating := range []int8{0, 6, -1} {
		_, err = svc.SubmitReview(2, book.ID, rating, "")
		assert.ErrorIs(t, err, ErrFailedValidation)
	}

	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.AverageRating)
	assert.EqualValues(t, 1, got.TotalReviews)
}

func TestSubmitReview_UnknownBook(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.SubmitReview(1, 99, 5, "")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteReview_OwnerDeletesAndAggregateShrinks(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	_, err := svc.SubmitReview(1, book.ID, 3, "")
	require.NoError(t, err)
	target, err := svc.SubmitReview(2, book.ID, 5, "")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(target.ID, book.ID, 2))

	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalReviews)
	assert.Equal(t, 3.0, got.AverageRating)

	_, err = svc.GetReview(target.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestDeleteReview_NonOwnerForbidden(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	review, err := svc.SubmitReview(1, book.ID, 5, "")
	require.NoError(t, err)

	err = svc.DeleteReview(review.ID, book.ID, 2)
	assert.ErrorIs(t, err, ErrNotPermitted)

	// Nothing changed.
	got, err := svc.GetBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.TotalReviews)
	assert.Equal(t, 5.0, got.AverageRating)
}

func TestDeleteReview_BookMismatchIsNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)
	other, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Dune Messiah",
		Author:      "Frank Herbert",
		Genre:       "science-fiction",
		Description: "The sequel.",
	})
	require.NoError(t, err)

	review, err := svc.SubmitReview(1, book.ID, 5, "")
	require.NoError(t, err)

	err = svc.DeleteReview(review.ID, other.ID, 1)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBookReviews_UnknownBook(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ListBookReviews(99)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestListBookReviews_NewestFirst(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	for reviewer := int64(1); reviewer <= 3; reviewer++ {
		_, err := svc.SubmitReview(reviewer, book.ID, 4, "")
		require.NoError(t, err)
	}

	reviews, err := svc.ListBookReviews(book.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	for i := 0; i < len(reviews)-1; i++ {
		assert.False(t, reviews[i].CreatedAt.Before(reviews[i+1].CreatedAt))
	}
}

func TestListReviewerReviews(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)
	other, err := svc.CreateBook(dto.CreateBookRequestBody{
		Title:       "Children of Dune",
		Author:      "Frank Herbert",
		Genre:       "science-fiction",
		Description: "The third book.",
	})
	require.NoError(t, err)

	_, err = svc.SubmitReview(1, book.ID, 5, "")
	require.NoError(t, err)
	_, err = svc.SubmitReview(1, other.ID, 3, "")
	require.NoError(t, err)
	_, err = svc.SubmitReview(2, book.ID, 2, "")
	require.NoError(t, err)

	reviews, err := svc.ListReviewerReviews(1)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
	for _, review := range reviews {
		assert.EqualValues(t, 1, review.ReviewerID)
	}
}

func TestGetOwnReview_NoneRecorded(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)
	_, err := svc.GetOwnReview(1, book.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
