package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nnamdio/bookverse/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	GetAllBooksForGenre(genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	GetGenres() ([]string, error)
	UpdateBook(book *data.Book) error
}

// CreateBook creates a new book record. The derived rating fields start at
// zero and are only ever touched by the review write paths afterwards.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, author, genre, description, cover_url, isbn, published_year)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, average_rating, total_reviews, version`
	args := []interface{}{book.Title, book.Author, book.Genre, book.Description, book.CoverURL, book.Isbn, book.PublishedYear}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.AverageRating,
		&book.TotalReviews,
		&book.Version,
	)
}

// GetBook retrieves a book record by its ID.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, title, author, genre, description, cover_url, isbn, published_year, average_rating, total_reviews, version
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
		&book.ID,
		&book.CreatedAt,
		&book.Title,
		&book.Author,
		&book.Genre,
		&book.Description,
		&book.CoverURL,
		&book.Isbn,
		&book.PublishedYear,
		&book.AverageRating,
		&book.TotalReviews,
		&book.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// GetAllBooks retrieves a paginated list of book records matching a title
// substring search and an optional genre filter. An empty search string
// matches every title; an empty genre matches every genre. When both are
// supplied a record must satisfy both.
func (r *repository) GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, created_at, title, author, genre, description, cover_url, isbn, published_year, average_rating, total_reviews, version
		FROM books
		WHERE (title ILIKE '%%' || $1 || '%%' OR $1 = '')
		AND (genre = $2 OR $2 = '')
		ORDER BY %s %s, id ASC
		LIMIT $3 OFFSET $4`,
		filters.SortColumn(), filters.SortDirection(),
	)
	args := []interface{}{search, genre, filters.Limit(), filters.Offset()}
	books, totalRecords, err := r.queryBooks(query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// GetAllBooksForGenre retrieves a paginated list of book records for a single
// genre, newest first.
func (r *repository) GetAllBooksForGenre(genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := `
		SELECT count(*) OVER(), id, created_at, title, author, genre, description, cover_url, isbn, published_year, average_rating, total_reviews, version
		FROM books
		WHERE genre = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	args := []interface{}{genre, filters.Limit(), filters.Offset()}
	books, totalRecords, err := r.queryBooks(query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

func (r *repository) queryBooks(query string, args ...interface{}) ([]*data.Book, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.Title,
			&book.Author,
			&book.Genre,
			&book.Description,
			&book.CoverURL,
			&book.Isbn,
			&book.PublishedYear,
			&book.AverageRating,
			&book.TotalReviews,
			&book.Version,
		)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}
	return books, totalRecords, nil
}

// GetGenres retrieves the sorted set of distinct genre strings present in the
// catalog.
func (r *repository) GetGenres() ([]string, error) {
	query := `
		SELECT DISTINCT genre
		FROM books
		ORDER BY genre ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	genres := []string{}
	for rows.Next() {
		var genre string
		if err := rows.Scan(&genre); err != nil {
			return nil, err
		}
		genres = append(genres, genre)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return genres, nil
}

// UpdateBook updates a book's descriptive fields. The derived rating fields
// are deliberately excluded: they belong to the review write paths.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, genre = $3, description = $4, cover_url = $5, isbn = $6, published_year = $7, version = version + 1
		WHERE id = $8 AND version = $9
		RETURNING version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.Genre,
		book.Description,
		book.CoverURL,
		book.Isbn,
		book.PublishedYear,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}
