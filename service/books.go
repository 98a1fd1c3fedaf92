package service

import (
	"errors"
	"net/http"

	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/data/dto"
	"github.com/nnamdio/bookverse/internal/mailer"
	"github.com/nnamdio/bookverse/internal/validator"
	"github.com/nnamdio/bookverse/repository"
)

type books interface {
	CreateBook(requestBody dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	SearchBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	ListBooksByGenre(genre string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	ListGenres() ([]string, error)
	UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error)
}

// CreateBook service creates a new catalog entry. The derived rating fields
// start at zero. When SMTP is configured, catalog maintainers are notified of
// the new entry in a background goroutine.
func (s *service) CreateBook(requestBody dto.CreateBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Title:         requestBody.Title,
		Author:        requestBody.Author,
		Genre:         requestBody.Genre,
		Description:   requestBody.Description,
		CoverURL:      requestBody.CoverURL,
		Isbn:          requestBody.Isbn,
		PublishedYear: requestBody.PublishedYear,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	if s.config.Smtp.Host != "" && s.config.Smtp.Recipient != "" {
		// Send the notification in a background goroutine to speed up
		// response time.
		book := *book
		s.background(func() {
			m := mailer.New(s.config.Smtp.Host, s.config.Smtp.Port, s.config.Smtp.Username, s.config.Smtp.Password, s.config.Smtp.Sender)
			err := m.Send(s.config.Smtp.Recipient, "book_added.tmpl", book)
			if err != nil {
				s.logger.PrintError(err, nil)
			}
		})
	}
	return book, nil
}

// GetBook service retrieves the details of a book, including its cached
// aggregate rating.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// SearchBooks service retrieves catalog entries whose title contains the
// search string, optionally restricted to a single genre. Both conditions
// must hold when both are supplied.
func (s *service) SearchBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllBooks(search, genre, filters)
}

// ListBooksByGenre service retrieves a genre's catalog entries, newest first,
// capped at the validated page size.
func (s *service) ListBooksByGenre(genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	return s.repo.GetAllBooksForGenre(genre, filters)
}

// ListGenres service retrieves the sorted set of distinct genres in the
// catalog.
func (s *service) ListGenres() ([]string, error) {
	return s.repo.GetGenres()
}

// UpdateBookCover service uploads a cover image for a book to S3 object
// storage and persists the resulting public URL. The book's derived rating
// fields are untouched.
func (s *service) UpdateBookCover(bookID int64, r *http.Request) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	err = r.ParseMultipartForm(5000)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			return nil, ErrContentTooLarge
		default:
			return nil, ErrBadRequest
		}
	}
	file, fileHeader, err := r.FormFile("cover")
	if err != nil {
		return nil, ErrBadRequest
	}
	defer file.Close()
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	supportedMediaType := []string{
		"image/jpeg",
		"image/png",
		"image/webp",
	}
	if validMime := validator.Mime(mtype, supportedMediaType...); !validMime {
		return nil, ErrUnsupportedMediaType
	}
	coverURL, err := s.uploadCoverToS3(buffer, mtype, fileHeader)
	if err != nil {
		return nil, err
	}
	book.CoverURL = coverURL
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}
