package auth

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authMW gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.2, 5), handler.Login)
		auth.POST("/logout", authMW, handler.Logout)
		auth.GET("/me", authMW, middleware.RateLimitByUser(5, 10), handler.Me)
	}
}
