package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/commerce-api/auth"
	"github.com/junaidrashid-git/commerce-api/middleware"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(api *gin.RouterGroup, d Deps) {
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", auth.LoginHandler(d.Auth))
		authGroup.POST("/register", auth.RegisterHandler(d.Auth))
		authGroup.POST("/guest", auth.GuestHandler(d.Auth))
		authGroup.POST("/forgot-password", auth.ForgotPasswordHandler(d.Auth))

		session := authGroup.Group("", middleware.ValidateToken(d.Auth))
		session.POST("/logout", auth.LogoutHandler(d.Auth))
		session.GET("/me", auth.MeHandler(d.Auth))
	}
}
