package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/app/services"
	"github.com/skosana/student-portal/internal/middleware"
)

// ProfileController handles the session-gated profile page.
type ProfileController struct {
	profileService *services.ProfileService
	logger         zerolog.Logger
}

// NewProfileController creates a new ProfileController
func NewProfileController(profileService *services.ProfileService, logger zerolog.Logger) *ProfileController {
	return &ProfileController{
		profileService: profileService,
		logger:         logger,
	}
}

// Show serves the profile page data, re-fetched from the store.
func (c *ProfileController) Show(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ProfilePage{Profile: profile})
}

// Submit dispatches the two profile sub-actions, keyed by which submit
// control was posted: field update or picture upload. The response always
// carries the re-fetched user data alongside the action outcome.
func (c *ProfileController) Submit(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		ctx.Redirect(http.StatusSeeOther, "/login")
		return
	}

	var result dto.FormResult
	var err error

	switch {
	case ctx.PostForm("update_profile") != "":
		var req dto.UpdateProfileRequest
		if bindErr := ctx.ShouldBind(&req); bindErr != nil {
			c.logger.Warn().Err(bindErr).Msg("Invalid profile update payload")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid form submission")))
			return
		}
		result, err = c.profileService.UpdateProfile(ctx.Request.Context(), userID, &req)

	case ctx.PostForm("upload_picture") != "":
		fileHeader, formErr := ctx.FormFile("profile_pic")
		if formErr != nil {
			result = dto.Rerender([]string{"Sorry, there was an error uploading your file."}, nil)
		} else {
			result, err = c.profileService.UpdatePicture(ctx.Request.Context(), userID, fileHeader)
		}

	default:
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Unknown profile action")))
		return
	}

	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	profile, err := c.profileService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ProfilePage{
		Profile: profile,
		Errors:  result.Errors,
		Message: result.Message,
		Fields:  result.Fields,
	})
}
