package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/nnamdio/bookverse/data"
)

type reviews interface {
	SubmitReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	GetReviewByBookAndReviewer(bookID int64, reviewerID int64) (*data.Review, error)
	DeleteReview(reviewID int64, bookID int64) error
	GetAllReviewsForBook(bookID int64) ([]*data.Review, error)
	GetAllReviewsForReviewer(reviewerID int64) ([]*data.Review, error)
	CountReviewsForReviewer(reviewerID int64) (int64, error)
	RefreshBookRating(bookID int64) error
}

// uniqueViolation reports whether err is a Postgres unique constraint
// violation.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// SubmitReview inserts a reviewer's review for a book, or overwrites the
// reviewer's existing review for that book in place. The book's cached
// aggregate is recomputed from the full review set and persisted inside the
// same transaction, so no reader can observe the review mutation without the
// matching aggregate. The book row is locked first, which both confirms the
// book exists and serializes the mutate-then-recompute sequence per book.
func (r *repository) SubmitReview(review *data.Review) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, review.BookID).Scan(&bookID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	query := `
		INSERT INTO reviews (book_id, reviewer_id, rating, body)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (book_id, reviewer_id)
		DO UPDATE SET rating = EXCLUDED.rating, body = EXCLUDED.body, is_edited = true, version = reviews.version + 1
		RETURNING id, created_at, is_edited, version`
	args := []interface{}{review.BookID, review.ReviewerID, review.Rating, review.Body}
	err = tx.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.CreatedAt,
		&review.IsEdited,
		&review.Version,
	)
	if err != nil {
		switch {
		case uniqueViolation(err):
			return ErrDuplicateRecord
		default:
			return err
		}
	}

	err = refreshBookRating(ctx, tx, review.BookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetReview retrieves a review record.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, book_id, reviewer_id, created_at, rating, body, is_edited, version
		FROM reviews
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.queryReview(ctx, query, reviewID)
}

// GetReviewByBookAndReviewer retrieves a reviewer's own review for a book, if
// one exists.
func (r *repository) GetReviewByBookAndReviewer(bookID int64, reviewerID int64) (*data.Review, error) {
	query := `
		SELECT id, book_id, reviewer_id, created_at, rating, body, is_edited, version
		FROM reviews
		WHERE book_id = $1 AND reviewer_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.queryReview(ctx, query, bookID, reviewerID)
}

func (r *repository) queryReview(ctx context.Context, query string, args ...interface{}) (*data.Review, error) {
	var review data.Review
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&review.ID,
		&review.BookID,
		&review.ReviewerID,
		&review.CreatedAt,
		&review.Rating,
		&review.Body,
		&review.IsEdited,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// DeleteReview deletes a review record and recomputes the owning book's
// cached aggregate inside the same transaction. Ownership is checked by the
// service layer before this is called.
func (r *repository) DeleteReview(reviewID int64, bookID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, reviewID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	err = refreshBookRating(ctx, tx, bookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetAllReviewsForBook retrieves all review records for a book, newest first.
func (r *repository) GetAllReviewsForBook(bookID int64) ([]*data.Review, error) {
	query := `
		SELECT id, book_id, reviewer_id, created_at, rating, body, is_edited, version
		FROM reviews
		WHERE book_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.queryReviews(query, bookID)
}

// GetAllReviewsForReviewer retrieves all review records by a reviewer, newest
// first.
func (r *repository) GetAllReviewsForReviewer(reviewerID int64) ([]*data.Review, error) {
	query := `
		SELECT id, book_id, reviewer_id, created_at, rating, body, is_edited, version
		FROM reviews
		WHERE reviewer_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.queryReviews(query, reviewerID)
}

func (r *repository) queryReviews(query string, args ...interface{}) ([]*data.Review, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&review.ID,
			&review.BookID,
			&review.ReviewerID,
			&review.CreatedAt,
			&review.Rating,
			&review.Body,
			&review.IsEdited,
			&review.Version,
		)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CountReviewsForReviewer counts a reviewer's live reviews. Used to derive
// the profile review count on demand instead of maintaining a counter.
func (r *repository) CountReviewsForReviewer(reviewerID int64) (int64, error) {
	query := `
		SELECT count(*)
		FROM reviews
		WHERE reviewer_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var count int64
	err := r.db.QueryRowContext(ctx, query, reviewerID).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RefreshBookRating recomputes and persists a book's cached aggregate from
// its full live review set. The review write paths already do this in their
// own transactions; this standalone variant exists because the recomputation
// is idempotent and safe to re-run at any time.
func (r *repository) RefreshBookRating(bookID int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	var id int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err = refreshBookRating(ctx, tx, bookID)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// refreshBookRating performs the aggregate write-back within a transaction.
// It always re-reads the review set fresh, so a recomputation that commits
// after a later mutation still writes the current truth.
func refreshBookRating(ctx context.Context, tx *sql.Tx, bookID int64) error {
	query := `
		UPDATE books
		SET average_rating = (SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0) FROM reviews WHERE book_id = $1),
		    total_reviews = (SELECT count(*) FROM reviews WHERE book_id = $1),
		    version = version + 1
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, bookID)
	return err
}
