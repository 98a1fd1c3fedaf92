package dto

// SubmitReviewRequestBody defines the request body for SubmitReview service.
// Submitting a second time for the same book overwrites the reviewer's
// existing review, so there is no separate update body.
type SubmitReviewRequestBody struct {
	Rating int8   `json:"rating"`
	Body   string `json:"body"`
}
