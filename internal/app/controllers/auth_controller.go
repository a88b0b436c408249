// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/skosana/student-portal/internal/app/models/dto"
	"github.com/skosana/student-portal/internal/app/services"
	"github.com/skosana/student-portal/internal/middleware"
	"github.com/skosana/student-portal/internal/pkg/session"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	authService *services.AuthService
	sessions    session.Store
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, sessions session.Store, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		logger:      logger,
	}
}

// isAuthenticated resolves the request's session cookie without aborting.
func (c *AuthController) isAuthenticated(ctx *gin.Context) bool {
	token := session.TokenFromRequest(ctx)
	if token == "" {
		return false
	}
	_, ok := c.sessions.Get(token)
	return ok
}

// ShowRegister serves the empty registration form payload.
func (c *AuthController) ShowRegister(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.Rerender(nil, map[string]string{}))
}

// Register handles a registration submission. On success the client is
// redirected to the login page; any failure re-renders the form with all
// collected errors and the previously entered non-secret values.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid registration request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid form submission")))
		return
	}

	result, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if result.IsRedirect() {
		ctx.Redirect(http.StatusSeeOther, result.RedirectTo)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// ShowLogin serves the login form payload; an already authenticated client
// is sent straight to the profile page.
func (c *AuthController) ShowLogin(ctx *gin.Context) {
	if c.isAuthenticated(ctx) {
		ctx.Redirect(http.StatusSeeOther, "/profile")
		return
	}
	ctx.JSON(http.StatusOK, dto.Rerender(nil, map[string]string{}))
}

// Login handles a login submission. Unknown email and wrong password are
// indistinguishable in the response.
func (c *AuthController) Login(ctx *gin.Context) {
	if c.isAuthenticated(ctx) {
		ctx.Redirect(http.StatusSeeOther, "/profile")
		return
	}

	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid login request payload")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid form submission")))
		return
	}

	user, result, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if !result.IsRedirect() {
		ctx.JSON(http.StatusOK, result)
		return
	}

	sess, err := c.sessions.Start(user.ID, user.Email)
	if err != nil {
		c.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to start session")
		middleware.HandleAPIError(ctx, err)
		return
	}
	session.SetCookie(ctx, sess)

	ctx.Redirect(http.StatusSeeOther, result.RedirectTo)
}

// Logout ends the session, expires the cookie and redirects to login.
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := session.TokenFromRequest(ctx); token != "" {
		c.sessions.End(token)
	}
	session.ClearCookie(ctx)
	ctx.Redirect(http.StatusSeeOther, "/login")
}
