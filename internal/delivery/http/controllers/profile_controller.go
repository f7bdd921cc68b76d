package controllers

import (
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// UpdateProfileRequest is the request body for PATCH /profiles/me/. An empty image_url clears the image.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=2000"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	ImageURL *string `json:"image_url" validate:"omitnil,url_or_empty"`
}

// Validate implements Validator.
func (u UpdateProfileRequest) Validate() []string {
	if u.FullName == nil && u.Bio == nil && u.Location == nil && u.ImageURL == nil {
		return []string{"at least one field is required"}
	}
	return nil
}

// ProfileSuccessResponse is the success envelope for the profile endpoints.
type ProfileSuccessResponse struct {
	Data  *domain.Profile   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewProfileController(logger *slog.Logger, svc domain.UserService) *ProfileController {
	return &ProfileController{
		Logger:  logger,
		Service: svc,
	}
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me/ [get]
func (c *ProfileController) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := c.Service.GetProfile(r.Context(), middleware.ViewerFromContext(r.Context()))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Update the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profiles/me/ [patch]
func (c *ProfileController) UpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	profile, err := c.Service.UpdateProfile(r.Context(), middleware.ViewerFromContext(r.Context()), domain.ProfilePatch{
		FullName: req.FullName,
		Bio:      req.Bio,
		Location: req.Location,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, profile)
}
