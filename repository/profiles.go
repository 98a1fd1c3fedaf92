package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/nnamdio/bookverse/data"
)

type profiles interface {
	GetProfile(reviewerID int64) (*data.Profile, error)
	UpsertProfile(profile *data.Profile) error
}

// GetProfile retrieves a stored reviewer profile record. Callers fall back to
// a minimal profile when no record exists.
func (r *repository) GetProfile(reviewerID int64) (*data.Profile, error) {
	if reviewerID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviewer_id, created_at, display_name, bio, favorite_genres, version
		FROM reviewer_profiles
		WHERE reviewer_id = $1`
	var profile data.Profile
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewerID).Scan(
		&profile.ReviewerID,
		&profile.CreatedAt,
		&profile.DisplayName,
		&profile.Bio,
		pq.Array(&profile.FavoriteGenres),
		&profile.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	profile.Kind = data.ProfileFull
	return &profile, nil
}

// UpsertProfile creates a reviewer profile record or overwrites the existing
// one.
func (r *repository) UpsertProfile(profile *data.Profile) error {
	query := `
		INSERT INTO reviewer_profiles (reviewer_id, display_name, bio, favorite_genres)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (reviewer_id)
		DO UPDATE SET display_name = EXCLUDED.display_name, bio = EXCLUDED.bio, favorite_genres = EXCLUDED.favorite_genres, version = reviewer_profiles.version + 1
		RETURNING created_at, version`
	args := []interface{}{profile.ReviewerID, profile.DisplayName, profile.Bio, pq.Array(profile.FavoriteGenres)}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&profile.CreatedAt, &profile.Version)
	if err != nil {
		return err
	}
	profile.Kind = data.ProfileFull
	return nil
}
