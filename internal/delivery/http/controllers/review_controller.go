package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// ReviewRequest is the request body for POST /events/{eventID}/reviews/.
type ReviewRequest struct {
	Rating  int    `json:"rating" minimum:"1" maximum:"5"`
	Comment string `json:"comment"`
}

// ReviewSuccessResponse is the success envelope for POST /events/{eventID}/reviews/.
type ReviewSuccessResponse struct {
	Data  *domain.Review    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ReviewListSuccessResponse is the success envelope for GET /events/{eventID}/reviews/.
type ReviewListSuccessResponse struct {
	Data  []*domain.Review  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ReviewController struct {
	Logger  *slog.Logger
	Service domain.ReviewService
}

func NewReviewController(logger *slog.Logger, svc domain.ReviewService) *ReviewController {
	return &ReviewController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateReview godoc
// @Summary Review an event
// @Description The review is attributed to the caller. A user may review the same event more than once.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param review body ReviewRequest true "Rating (1-5) and comment"
// @Success 201 {object} controllers.ReviewSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reviews/ [post]
func (c *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	review, err := c.Service.Create(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"),
		domain.ReviewInput{Rating: req.Rating, Comment: req.Comment})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, review)
}

// ListReviews godoc
// @Summary List reviews of an event
// @Description Newest first.
// @Tags reviews
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ReviewListSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/reviews/ [get]
func (c *ReviewController) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.Service.List(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reviews)
}
