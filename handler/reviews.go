package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nnamdio/bookverse/data/dto"
	"github.com/nnamdio/bookverse/service"
)

// SubmitReview godoc
// @Summary Submit a review for a book
// @Description This endpoint records the acting reviewer's review of a book. A repeat submission overwrites the reviewer's existing review and marks it as edited.
// @Tags reviews
// @Accept  json
// @Produce json
// @Param X-Reviewer-ID header int true "Opaque reviewer identity"
// @Param bookId path int true "ID of book under review"
// @Param body body dto.SubmitReviewRequestBody true "JSON payload required to submit a review"
// @Success 201 {object} data.Review
// @Failure 400
// @Failure 401
// @Failure 404
// @Failure 422
// @Failure 500
// @Router /v1/books/{bookId}/reviews [post]
func (h *Handler) submitReviewHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.SubmitReviewRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviewerID := h.contextGetReviewer(r)
	review, err := h.service.SubmitReview(reviewerID, bookID, requestBody.Rating, requestBody.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.duplicateSubmissionResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/books/%d/reviews/%d", bookID, review.ID))
	status := http.StatusCreated
	if review.IsEdited {
		status = http.StatusOK
	}
	err = h.encodeJSON(w, status, envelope{"review": review}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowReview godoc
// @Summary Show details of a book review
// @Description This endpoint shows the details of a specific book review
// @Tags reviews
// @Produce json
// @Param bookId path int true "ID of book under review"
// @Param reviewId path int true "ID of review to show"
// @Success 200 {object} data.Review
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId}/reviews/{reviewId} [get]
func (h *Handler) showReviewHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	review, err := h.service.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	// The review must belong to the book named in the path.
	if review.BookID != bookID {
		h.notFoundResponse(w, r)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listBookReviewsHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviews, err := h.service.ListBookReviews(bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// DeleteReview godoc
// @Summary Delete a book review
// @Description This endpoint deletes a review. Only the reviewer who wrote the review may delete it.
// @Tags reviews
// @Produce json
// @Param X-Reviewer-ID header int true "Opaque reviewer identity"
// @Param bookId path int true "ID of book under review"
// @Param reviewId path int true "ID of review to delete"
// @Success 200
// @Failure 401
// @Failure 403
// @Failure 404
// @Failure 500
// @Router /v1/books/{bookId}/reviews/{reviewId} [delete]
func (h *Handler) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviewID, err := h.readIDParam(r, "reviewId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviewerID := h.contextGetReviewer(r)
	err = h.service.DeleteReview(reviewID, bookID, reviewerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNotPermitted):
			h.notPermittedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "review successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showOwnReviewHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviewerID := h.contextGetReviewer(r)
	review, err := h.service.GetOwnReview(reviewerID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listOwnReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviewerID := h.contextGetReviewer(r)
	reviews, err := h.service.ListReviewerReviews(reviewerID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listReviewerReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviewerID, err := h.readIDParam(r, "reviewerId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	reviews, err := h.service.ListReviewerReviews(reviewerID)
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
