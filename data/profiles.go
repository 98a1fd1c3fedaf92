package data

import (
	"time"

	"github.com/nnamdio/bookverse/internal/validator"
)

// ProfileKind tags the two shapes a reviewer profile can take.
type ProfileKind string

const (
	// ProfileFull is a stored profile record with display name, bio and
	// favourite genres.
	ProfileFull ProfileKind = "full"
	// ProfileMinimal is synthesized for reviewers who have never saved a
	// profile. Only the reviewer identity and the derived review count are
	// meaningful.
	ProfileMinimal ProfileKind = "minimal"
)

// Profile defines a reviewer profile. ReviewCount is always derived on demand
// by counting the reviewer's live reviews; it is never stored or incremented.
type Profile struct {
	Kind           ProfileKind `json:"kind"`
	ReviewerID     int64       `json:"reviewer_id"`
	CreatedAt      time.Time   `json:"created_at,omitempty"`
	DisplayName    string      `json:"display_name,omitempty"`
	Bio            string      `json:"bio,omitempty"`
	FavoriteGenres []string    `json:"favorite_genres,omitempty"`
	ReviewCount    int64       `json:"review_count"`
	Version        int32       `json:"-"`
}

func ValidateProfile(v *validator.Validator, profile *Profile) {
	v.Check(len(profile.DisplayName) <= 100, "display_name", "must not be more than 100 bytes long")
	v.Check(len(profile.Bio) <= 1000, "bio", "must not be more than 1000 bytes long")
	v.Check(len(profile.FavoriteGenres) <= 10, "favorite_genres", "must not contain more than 10 genres")
	v.Check(validator.Unique(profile.FavoriteGenres), "favorite_genres", "must not contain duplicate values")
}
