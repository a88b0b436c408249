package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/pkg/apperrors"
)

// HandleAPIError maps service errors to HTTP responses. Store failures are
// reduced to a generic message; internals never reach the client.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		// An authenticated session pointing at a missing row means the
		// session is stale. Send the client back through login.
		c.Redirect(http.StatusSeeOther, "/login")
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusOK, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid email or password.")))
	default:
		var custom *apperrors.CustomError
		message := "Oops! Something went wrong. Please try again later."
		if errors.As(err, &custom) && custom.Message != "" {
			message = custom.Message
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, message)))
	}
}
