package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// RSVPRequest is the request body for the RSVP endpoints. On POST an omitted
// status records "Maybe"; on PUT and PATCH it is required.
type RSVPRequest struct {
	Status domain.RSVPStatus `json:"status" enums:"Going,Maybe,Not Going"`
	// Accepted for round-trips, never applied.
	User    string `json:"user,omitempty" swaggerignore:"true"`
	UserID  string `json:"user_id,omitempty" swaggerignore:"true"`
	EventID string `json:"event_id,omitempty" swaggerignore:"true"`
}

// RSVPSuccessResponse is the success envelope for endpoints returning one RSVP.
type RSVPSuccessResponse struct {
	Data  *domain.RSVP      `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// RSVPListSuccessResponse is the success envelope for GET /events/{eventID}/rsvp/.
type RSVPListSuccessResponse struct {
	Data  []*domain.RSVP    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// UpsertRSVP godoc
// @Summary RSVP to an event
// @Description Creates the caller's RSVP or overwrites the existing one. There is never more than one RSVP per user and event.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param rsvp body RSVPRequest true "Attendance status"
// @Success 201 {object} controllers.RSVPSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp/ [post]
func (c *RSVPController) UpsertRSVP(w http.ResponseWriter, r *http.Request) {
	var req RSVPRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	rsvp, err := c.Service.Upsert(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"), req.Status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// ListRSVPs godoc
// @Summary List RSVPs of an event
// @Tags rsvp
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.RSVPListSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp/ [get]
func (c *RSVPController) ListRSVPs(w http.ResponseWriter, r *http.Request) {
	list, err := c.Service.List(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if list == nil {
		list = []*domain.RSVP{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, list)
}

// UpdateRSVP godoc
// @Summary Change an existing RSVP
// @Description Updates the RSVP of the given user. Never creates one. Callers may only change their own RSVP.
// @Tags rsvp
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param userID path string true "User ID"
// @Param rsvp body RSVPRequest true "Attendance status"
// @Success 200 {object} controllers.RSVPSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvp/{userID}/ [put]
// @Router /events/{eventID}/rsvp/{userID}/ [patch]
func (c *RSVPController) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	var req RSVPRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	rsvp, err := c.Service.Update(r.Context(), middleware.ViewerFromContext(r.Context()),
		r.PathValue("eventID"), r.PathValue("userID"), req.Status)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}
