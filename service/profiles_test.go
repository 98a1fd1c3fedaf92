package service

import (
	"strings"
	"testing"

	"github.com/nnamdio/bookverse/data"
	"github.com/nnamdio/bookverse/data/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetProfile_MinimalForUnknownReviewer(t *testing.T) {
	svc, _ := newTestService(t)

	profile, err := svc.GetProfile(7)
	require.NoError(t, err)
	assert.Equal(t, data.ProfileMinimal, profile.Kind)
	assert.EqualValues(t, 7, profile.ReviewerID)
	assert.EqualValues(t, 0, profile.ReviewCount)
	assert.Empty(t, profile.DisplayName)
}

func TestGetProfile_ReviewCountDerivedFromLiveReviews(t *testing.T) {
	svc, _ := newTestService(t)
	book := createTestBook(t, svc)

	review, err := svc.SubmitReview(7, book.ID, 4, "")
	require.NoError(t, err)

	profile, err := svc.GetProfile(7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.ReviewCount)

	// Overwriting must not inflate the count.
	_, err = svc.SubmitReview(7, book.ID, 2, "")
	require.NoError(t, err)
	profile, err = svc.GetProfile(7)
	require.NoError(t, err)
	assert.EqualValues(t, 1, profile.ReviewCount)

	// Deleting must shrink it.
	require.NoError(t, svc.DeleteReview(review.ID, book.ID, 7))
	profile, err = svc.GetProfile(7)
	require.NoError(t, err)
	assert.EqualValues(t, 0, profile.ReviewCount)
}

func TestUpdateProfile_CreatesFullProfile(t *testing.T) {
	svc, _ := newTestService(t)

	profile, err := svc.UpdateProfile(7, dto.UpdateProfileRequestBody{
		DisplayName:    strPtr("Ada"),
		Bio:            strPtr("Reads everything."),
		FavoriteGenres: []string{"science-fiction", "horror"},
	})
	require.NoError(t, err)
	assert.Equal(t, data.ProfileFull, profile.Kind)
	assert.Equal(t, "Ada", profile.DisplayName)

	got, err := svc.GetProfile(7)
	require.NoError(t, err)
	assert.Equal(t, data.ProfileFull, got.Kind)
	assert.Equal(t, []string{"science-fiction", "horror"}, got.FavoriteGenres)
}

func TestUpdateProfile_PartialUpdateKeepsOtherFields(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateProfile(7, dto.UpdateProfileRequestBody{
		DisplayName: strPtr("Ada"),
		Bio:         strPtr("Reads everything."),
	})
	require.NoError(t, err)

	profile, err := svc.UpdateProfile(7, dto.UpdateProfileRequestBody{
		Bio: strPtr("On a horror kick lately."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.Equal(t, "On a horror kick lately.", profile.Bio)
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateProfile(7, dto.UpdateProfileRequestBody{
		DisplayName: strPtr(strings.Repeat("x", 101)),
	})
	assert.ErrorIs(t, err, ErrFailedValidation)

	_, err = svc.UpdateProfile(7, dto.UpdateProfileRequestBody{
		FavoriteGenres: []string{"horror", "horror"},
	})
	assert.ErrorIs(t, err, ErrFailedValidation)
}
