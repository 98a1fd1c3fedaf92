package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.searchBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireReviewer(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.showBookHandler)
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/cover", h.requireReviewer(h.updateBookCoverHandler))

	router.HandlerFunc(http.MethodGet, "/v1/genres", h.listGenresHandler)
	router.HandlerFunc(http.MethodGet, "/v1/genres/:genre/books", h.listGenreBooksHandler)

	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews", h.listBookReviewsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/reviews", h.requireReviewer(h.submitReviewHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/reviews/:reviewId", h.showReviewHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId/reviews/:reviewId", h.requireReviewer(h.deleteReviewHandler))

	// The acting reviewer's own resources live under /v1/me to keep them off
	// the parameterised segments above.
	router.HandlerFunc(http.MethodGet, "/v1/me/reviews", h.requireReviewer(h.listOwnReviewsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/me/reviews/:bookId", h.requireReviewer(h.showOwnReviewHandler))
	router.HandlerFunc(http.MethodGet, "/v1/me/profile", h.requireReviewer(h.showOwnProfileHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/me/profile", h.requireReviewer(h.updateOwnProfileHandler))

	router.HandlerFunc(http.MethodGet, "/v1/profiles/:reviewerId", h.showProfileHandler)
	router.HandlerFunc(http.MethodGet, "/v1/profiles/:reviewerId/reviews", h.listReviewerReviewsHandler)

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.metrics(h.recoverPanic(h.enableCORS(h.rateLimit(h.identifyReviewer(router)))))
}
