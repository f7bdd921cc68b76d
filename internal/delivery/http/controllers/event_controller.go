package controllers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// readOnlyEventFields are accepted in request bodies so a client can send back
// an event it fetched, but they are never applied.
type readOnlyEventFields struct {
	ID          json.RawMessage `json:"id,omitempty" swaggerignore:"true"`
	Organizer   json.RawMessage `json:"organizer,omitempty" swaggerignore:"true"`
	OrganizerID json.RawMessage `json:"organizer_id,omitempty" swaggerignore:"true"`
	CreatedAt   json.RawMessage `json:"created_at,omitempty" swaggerignore:"true"`
	UpdatedAt   json.RawMessage `json:"updated_at,omitempty" swaggerignore:"true"`
}

// EventRequest is the request body for POST /events/ and PUT /events/{eventID}/.
// When is_public or invited_users is omitted, create uses true and no invitees;
// PUT keeps the stored values.
type EventRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Location       string    `json:"location"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	IsPublic       *bool     `json:"is_public"`
	InvitedUserIDs []string  `json:"invited_users"`
	readOnlyEventFields
}

func (req EventRequest) input() domain.EventInput {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}
	return domain.EventInput{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsPublic:       isPublic,
		InvitedUserIDs: req.InvitedUserIDs,
	}
}

func (req EventRequest) replacement() domain.EventPatch {
	patch := domain.EventPatch{
		Title:       &req.Title,
		Description: &req.Description,
		Location:    &req.Location,
		StartTime:   &req.StartTime,
		EndTime:     &req.EndTime,
		IsPublic:    req.IsPublic,
	}
	if req.InvitedUserIDs != nil {
		patch.InvitedUserIDs = &req.InvitedUserIDs
	}
	return patch
}

// PatchEventRequest is the request body for PATCH /events/{eventID}/. Omitted fields are unchanged.
type PatchEventRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	Location       *string    `json:"location"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	IsPublic       *bool      `json:"is_public"`
	InvitedUserIDs *[]string  `json:"invited_users"`
	readOnlyEventFields
}

func (req PatchEventRequest) patch() domain.EventPatch {
	return domain.EventPatch{
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsPublic:       req.IsPublic,
		InvitedUserIDs: req.InvitedUserIDs,
	}
}

// EventListResponse is the data of GET /events/.
type EventListResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// EventSuccessResponse is the success envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventListSuccessResponse is the success envelope for GET /events/.
type EventListSuccessResponse struct {
	Data  EventListResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Lists public events, plus the private events the caller organizes or is invited to. Newest first.
// @Tags events
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 5, max 50)"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), middleware.ViewerFromContext(r.Context()), params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Items:      events,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description The caller becomes the organizer; any organizer sent in the body is ignored.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), middleware.ViewerFromContext(r.Context()), req.input())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event
// @Description Private events are visible to their organizer and invitees only.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/ [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Service.GetEvent(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ReplaceEvent godoc
// @Summary Replace an event
// @Description Full update; title, description, location and times are required. Omitted is_public and invited_users keep their stored values. Organizer only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/ [put]
func (c *EventController) ReplaceEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	event, err := c.Service.ReplaceEvent(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"), req.replacement())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// PatchEvent godoc
// @Summary Partially update an event
// @Description Only the fields present in the body change. Organizer only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param event body PatchEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/ [patch]
func (c *EventController) PatchEvent(w http.ResponseWriter, r *http.Request) {
	var req PatchEventRequest
	if !helpers.Decode(w, r, &req) {
		return
	}
	event, err := c.Service.PatchEvent(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID"), req.patch())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Removes the event with its invitations, RSVPs and reviews. Organizer only.
// @Tags events
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/ [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteEvent(r.Context(), middleware.ViewerFromContext(r.Context()), r.PathValue("eventID")); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
