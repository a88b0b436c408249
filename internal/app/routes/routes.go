package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/skosana/student-portal/internal/app/controllers"
	"github.com/skosana/student-portal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	profileController *controllers.ProfileController,
	sessionMiddleware *middleware.SessionMiddleware,
) {
	// --- Public routes ---
	router.GET("/register", authController.ShowRegister)
	router.POST("/register", authController.Register)
	router.GET("/login", authController.ShowLogin)
	router.POST("/login", authController.Login)
	router.GET("/logout", authController.Logout)

	// --- Session-gated routes ---
	authenticated := router.Group("")
	authenticated.Use(sessionMiddleware.RequireAuth())
	{
		authenticated.GET("/profile", profileController.Show)
		authenticated.POST("/profile", profileController.Submit)
	}
}
