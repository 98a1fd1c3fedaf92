package repository

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nnamdio/bookverse/data"
)

// MemoryRepository is an in-memory implementation of Repository backed by
// maps and a single RWMutex. The review write paths hold the write lock
// across both the review mutation and the aggregate recomputation, giving the
// same atomicity guarantee the Postgres implementation gets from a
// transaction. It backs the service when no database DSN is configured and is
// the storage used by the test suites.
type MemoryRepository struct {
	mu           sync.RWMutex
	books        map[int64]*data.Book
	reviews      map[int64]*data.Review
	profiles     map[int64]*data.Profile
	nextBookID   int64
	nextReviewID int64
}

// NewMemory creates a new in-memory instance of Repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		books:    make(map[int64]*data.Book),
		reviews:  make(map[int64]*data.Review),
		profiles: make(map[int64]*data.Profile),
	}
}

// CreateBook creates a new book record.
func (m *MemoryRepository) CreateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextBookID++
	book.ID = m.nextBookID
	book.CreatedAt = time.Now().UTC()
	book.AverageRating = 0
	book.TotalReviews = 0
	book.Version = 1
	stored := *book
	m.books[book.ID] = &stored
	return nil
}

// GetBook retrieves a book record by its ID.
func (m *MemoryRepository) GetBook(bookID int64) (*data.Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.books[bookID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	book := *stored
	return &book, nil
}

// GetAllBooks retrieves books matching a case-insensitive title substring
// search and an optional exact genre filter.
func (m *MemoryRepository) GetAllBooks(search string, genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []*data.Book{}
	for _, stored := range m.books {
		if search != "" && !strings.Contains(strings.ToLower(stored.Title), strings.ToLower(search)) {
			continue
		}
		if genre != "" && stored.Genre != genre {
			continue
		}
		book := *stored
		matched = append(matched, &book)
	}
	sortBooks(matched, filters)
	totalRecords := len(matched)
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return paginateBooks(matched, filters), metadata, nil
}

// GetAllBooksForGenre retrieves the books of a single genre, newest first.
func (m *MemoryRepository) GetAllBooksForGenre(genre string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	matched := []*data.Book{}
	for _, stored := range m.books {
		if stored.Genre != genre {
			continue
		}
		book := *stored
		matched = append(matched, &book)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	totalRecords := len(matched)
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return paginateBooks(matched, filters), metadata, nil
}

// GetGenres retrieves the sorted set of distinct genre strings.
func (m *MemoryRepository) GetGenres() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	genres := []string{}
	for _, book := range m.books {
		if !seen[book.Genre] {
			seen[book.Genre] = true
			genres = append(genres, book.Genre)
		}
	}
	sort.Strings(genres)
	return genres, nil
}

// UpdateBook updates a book's descriptive fields with an optimistic version
// check.
func (m *MemoryRepository) UpdateBook(book *data.Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.books[book.ID]
	if !ok {
		return ErrRecordNotFound
	}
	if stored.Version != book.Version {
		return ErrEditConflict
	}
	stored.Title = book.Title
	stored.Author = book.Author
	stored.Genre = book.Genre
	stored.Description = book.Description
	stored.CoverURL = book.CoverURL
	stored.Isbn = book.Isbn
	stored.PublishedYear = book.PublishedYear
	stored.Version++
	book.Version = stored.Version
	return nil
}

// SubmitReview inserts or overwrites a reviewer's review for a book and
// recomputes the book's aggregate before releasing the write lock.
func (m *MemoryRepository) SubmitReview(review *data.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[review.BookID]; !ok {
		return ErrRecordNotFound
	}
	for _, stored := range m.reviews {
		if stored.BookID == review.BookID && stored.ReviewerID == review.ReviewerID {
			stored.Rating = review.Rating
			stored.Body = review.Body
			stored.IsEdited = true
			stored.Version++
			*review = *stored
			m.refreshBookRatingLocked(review.BookID)
			return nil
		}
	}
	m.nextReviewID++
	review.ID = m.nextReviewID
	review.CreatedAt = time.Now().UTC()
	review.IsEdited = false
	review.Version = 1
	stored := *review
	m.reviews[review.ID] = &stored
	m.refreshBookRatingLocked(review.BookID)
	return nil
}

// GetReview retrieves a review record.
func (m *MemoryRepository) GetReview(reviewID int64) (*data.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.reviews[reviewID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	review := *stored
	return &review, nil
}

// GetReviewByBookAndReviewer retrieves a reviewer's own review for a book.
func (m *MemoryRepository) GetReviewByBookAndReviewer(bookID int64, reviewerID int64) (*data.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, stored := range m.reviews {
		if stored.BookID == bookID && stored.ReviewerID == reviewerID {
			review := *stored
			return &review, nil
		}
	}
	return nil, ErrRecordNotFound
}

// DeleteReview deletes a review record and recomputes the owning book's
// aggregate before releasing the write lock.
func (m *MemoryRepository) DeleteReview(reviewID int64, bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return ErrRecordNotFound
	}
	if _, ok := m.reviews[reviewID]; !ok {
		return ErrRecordNotFound
	}
	delete(m.reviews, reviewID)
	m.refreshBookRatingLocked(bookID)
	return nil
}

// GetAllReviewsForBook retrieves all reviews for a book, newest first.
func (m *MemoryRepository) GetAllReviewsForBook(bookID int64) ([]*data.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectReviews(func(r *data.Review) bool { return r.BookID == bookID }), nil
}

// GetAllReviewsForReviewer retrieves all reviews by a reviewer, newest first.
func (m *MemoryRepository) GetAllReviewsForReviewer(reviewerID int64) ([]*data.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.collectReviews(func(r *data.Review) bool { return r.ReviewerID == reviewerID }), nil
}

// CountReviewsForReviewer counts a reviewer's live reviews.
func (m *MemoryRepository) CountReviewsForReviewer(reviewerID int64) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, review := range m.reviews {
		if review.ReviewerID == reviewerID {
			count++
		}
	}
	return count, nil
}

// RefreshBookRating recomputes and persists a book's cached aggregate.
func (m *MemoryRepository) RefreshBookRating(bookID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.books[bookID]; !ok {
		return ErrRecordNotFound
	}
	m.refreshBookRatingLocked(bookID)
	return nil
}

// refreshBookRatingLocked derives the aggregate from the full live review set
// and writes it onto the book record. Callers must hold the write lock.
func (m *MemoryRepository) refreshBookRatingLocked(bookID int64) {
	book, ok := m.books[bookID]
	if !ok {
		return
	}
	bookReviews := []*data.Review{}
	for _, review := range m.reviews {
		if review.BookID == bookID {
			bookReviews = append(bookReviews, review)
		}
	}
	rating := data.ComputeRating(bookReviews)
	book.AverageRating = rating.Average
	book.TotalReviews = rating.Total
	book.Version++
}

// GetProfile retrieves a stored reviewer profile record.
func (m *MemoryRepository) GetProfile(reviewerID int64) (*data.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.profiles[reviewerID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	profile := *stored
	profile.FavoriteGenres = append([]string(nil), stored.FavoriteGenres...)
	return &profile, nil
}

// UpsertProfile creates or overwrites a reviewer profile record.
func (m *MemoryRepository) UpsertProfile(profile *data.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.profiles[profile.ReviewerID]
	if !ok {
		profile.CreatedAt = time.Now().UTC()
		profile.Version = 1
		profile.Kind = data.ProfileFull
		clone := *profile
		clone.FavoriteGenres = append([]string(nil), profile.FavoriteGenres...)
		m.profiles[profile.ReviewerID] = &clone
		return nil
	}
	stored.DisplayName = profile.DisplayName
	stored.Bio = profile.Bio
	stored.FavoriteGenres = append([]string(nil), profile.FavoriteGenres...)
	stored.Version++
	profile.CreatedAt = stored.CreatedAt
	profile.Version = stored.Version
	profile.Kind = data.ProfileFull
	return nil
}

func (m *MemoryRepository) collectReviews(match func(*data.Review) bool) []*data.Review {
	reviews := []*data.Review{}
	for _, stored := range m.reviews {
		if match(stored) {
			review := *stored
			reviews = append(reviews, &review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		if !reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
		}
		return reviews[i].ID > reviews[j].ID
	})
	return reviews
}

func sortBooks(books []*data.Book, filters data.Filters) {
	column := filters.SortColumn()
	desc := filters.SortDirection() == "DESC"
	sort.Slice(books, func(i, j int) bool {
		a, b := books[i], books[j]
		var less bool
		switch column {
		case "title":
			less = a.Title < b.Title
		case "author":
			less = a.Author < b.Author
		case "published_year":
			less = a.PublishedYear < b.PublishedYear
		case "created_at":
			less = a.CreatedAt.Before(b.CreatedAt)
		case "average_rating":
			less = a.AverageRating < b.AverageRating
		default:
			less = a.ID < b.ID
		}
		if desc {
			return !less && !booksEqual(a, b, column)
		}
		return less
	})
}

func booksEqual(a, b *data.Book, column string) bool {
	switch column {
	case "title":
		return a.Title == b.Title
	case "author":
		return a.Author == b.Author
	case "published_year":
		return a.PublishedYear == b.PublishedYear
	case "created_at":
		return a.CreatedAt.Equal(b.CreatedAt)
	case "average_rating":
		return a.AverageRating == b.AverageRating
	default:
		return a.ID == b.ID
	}
}

func paginateBooks(books []*data.Book, filters data.Filters) []*data.Book {
	offset := filters.Offset()
	if offset >= len(books) {
		return []*data.Book{}
	}
	end := offset + filters.Limit()
	if end > len(books) {
		end = len(books)
	}
	return books[offset:end]
}
