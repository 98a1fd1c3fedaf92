package handler

import (
	"errors"
	"net/http"

	"github.com/nnamdio/bookverse/data/dto"
	"github.com/nnamdio/bookverse/service"
)

// ShowProfile godoc
// @Summary Show a reviewer's profile
// @Description This endpoint shows the public profile of a reviewer. Reviewers who have never saved a profile get a minimal variant.
// @Tags profiles
// @Produce json
// @Param reviewerId path int true "Opaque reviewer identity"
// @Success 200 {object} data.Profile
// @Failure 404
// @Failure 500
// @Router /v1/profiles/{reviewerId} [get]
func (h *Handler) showProfileHandler(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := h.readIDParam(r, "reviewerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	profile, err := h.service.GetProfile(reviewerID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	reviewerID := h.contextGetReviewer(r)
	profile, err := h.service.GetProfile(reviewerID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// UpdateProfile godoc
// @Summary Update the acting reviewer's profile
// @Description This endpoint creates or updates the acting reviewer's profile. Omitted fields keep their current value.
// @Tags profiles
// @Accept  json
// @Produce json
// @Param X-Reviewer-ID header int true "Opaque reviewer identity"
// @Param body body dto.UpdateProfileRequestBody true "JSON payload required to update a profile"
// @Success 200 {object} data.Profile
// @Failure 400
// @Failure 401
// @Failure 409
// @Failure 422
// @Failure 500
// @Router /v1/me/profile [patch]
func (h *Handler) updateOwnProfileHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.UpdateProfileRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	reviewerID := h.contextGetReviewer(r)
	profile, err := h.service.UpdateProfile(reviewerID, requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"profile": profile}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
