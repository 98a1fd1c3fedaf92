package service

import (
	"errors"

	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/internal/validator"
	"github.com/nnamdio/bookverse/repository"
)

type reviews interface {
	SubmitReview(reviewerID int64, bookID int64, rating int8, body string) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	GetOwnReview(reviewerID int64, bookID int64) (*data.Review, error)
	DeleteReview(reviewID int64, bookID int64, requesterID int64) error
	ListBookReviews(bookID int64) ([]*data.Review, error)
	ListReviewerReviews(reviewerID int64) ([]*data.Review, error)
}

// SubmitReview records a reviewer's rating of a book. If the reviewer already
// has a live review for the book it is overwritten in place and marked as
// edited; otherwise a new review is created. Either way the book's cached
// aggregate is recomputed and persisted before this returns, so the caller
// always observes up-to-date aggregates.
func (s *service) SubmitReview(reviewerID int64, bookID int64, rating int8, body string) (*data.Review, error) {
	review := &data.Review{
		BookID:     bookID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Body:       body,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.SubmitReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		case errors.Is(err, repository.ErrDuplicateRecord):
			// A concurrent first submission won the race on the uniqueness
			// constraint. The caller should retry, which will take the
			// overwrite path.
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	return review, nil
}

// GetReview retrieves the details of a single review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// GetOwnReview retrieves the acting reviewer's review for a book, so a client
// can pre-fill an edit form.
func (s *service) GetOwnReview(reviewerID int64, bookID int64) (*data.Review, error) {
	review, err := s.repo.GetReviewByBookAndReviewer(bookID, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// DeleteReview removes a review. Only the review's owner may delete it; a
// failed ownership check leaves the review and the book's aggregate
// untouched. On success the aggregate is recomputed atomically with the
// delete.
func (s *service) DeleteReview(reviewID int64, bookID int64, requesterID int64) error {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if review.BookID != bookID {
		return ErrRecordNotFound
	}
	if review.ReviewerID != requesterID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteReview(reviewID, review.BookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListBookReviews retrieves all reviews for a book, newest first.
func (s *service) ListBookReviews(bookID int64) ([]*data.Review, error) {
	_, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return s.repo.GetAllReviewsForBook(bookID)
}

// ListReviewerReviews retrieves all reviews by a reviewer, newest first.
// Reviews are publicly readable, so no ownership check applies.
func (s *service) ListReviewerReviews(reviewerID int64) ([]*data.Review, error) {
	return s.repo.GetAllReviewsForReviewer(reviewerID)
}
