package handler

import (
	"context"
	"net/http"
)

// Type contextKey is a custom contextKey type, with the underlying type
// string. This is necessary to prevent name collisions with external
// packages.
type contextKey string

// reviewerContextKey is used for getting and setting the acting reviewer's
// identity in the request context.
const reviewerContextKey = contextKey("reviewer")

// AnonymousReviewer is the identity attached to requests that carry no
// reviewer header.
const AnonymousReviewer int64 = 0

// contextSetReviewer returns a new copy of the request with the opaque
// reviewer identity added to the context. The identity is supplied by the
// hosting environment's authentication layer; it is trusted, never verified
// here.
func (h *Handler) contextSetReviewer(r *http.Request, reviewerID int64) *http.Request {
	ctx := context.WithValue(r.Context(), reviewerContextKey, reviewerID)
	return r.WithContext(ctx)
}

// contextGetReviewer retrieves the reviewer identity from the request
// context. We only call this when the identify middleware has run, so a
// missing value is firmly an 'unexpected' error.
func (h *Handler) contextGetReviewer(r *http.Request) int64 {
	reviewerID, ok := r.Context().Value(reviewerContextKey).(int64)
	if !ok {
		panic("missing reviewer value in request context")
	}
	return reviewerID
}
