package service

import (
	"errors"

	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/data/dto"
	"github.com/nnamdio/bookverse/internal/validator"
	"github.com/nnamdio/bookverse/repository"
)

type profiles interface {
	GetProfile(reviewerID int64) (*data.Profile, error)
	UpdateProfile(reviewerID int64, requestBody dto.UpdateProfileRequestBody) (*data.Profile, error)
}

// GetProfile retrieves a reviewer's profile. Reviewers who have never saved a
// profile get the minimal variant rather than an error, so every known
// reviewer identity resolves to something displayable. The review count is
// derived from the live review set on every call.
func (s *service) GetProfile(reviewerID int64) (*data.Profile, error) {
	profile, err := s.repo.GetProfile(reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			profile = &data.Profile{
				Kind:       data.ProfileMinimal,
				ReviewerID: reviewerID,
			}
		default:
			return nil, err
		}
	}
	count, err := s.repo.CountReviewsForReviewer(reviewerID)
	if err != nil {
		return nil, err
	}
	profile.ReviewCount = count
	return profile, nil
}

// UpdateProfile creates or partially updates the acting reviewer's profile.
// Absent fields keep their stored values.
func (s *service) UpdateProfile(reviewerID int64, requestBody dto.UpdateProfileRequestBody) (*data.Profile, error) {
	profile, err := s.repo.GetProfile(reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			profile = &data.Profile{
				Kind:       data.ProfileFull,
				ReviewerID: reviewerID,
			}
		default:
			return nil, err
		}
	}
	if requestBody.DisplayName != nil {
		profile.DisplayName = *requestBody.DisplayName
	}
	if requestBody.Bio != nil {
		profile.Bio = *requestBody.Bio
	}
	if requestBody.FavoriteGenres != nil {
		profile.FavoriteGenres = requestBody.FavoriteGenres
	}
	v := validator.New()
	if data.ValidateProfile(v, profile); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpsertProfile(profile)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountReviewsForReviewer(reviewerID)
	if err != nil {
		return nil, err
	}
	profile.ReviewCount = count
	return profile, nil
}
