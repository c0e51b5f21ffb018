package audit

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, authMW gin.HandlerFunc, rbacService middleware.RBACService) {
	logs := r.Group("/audit-logs")
	logs.Use(authMW)
	{
		logs.GET("", middleware.RBACAuthorize(rbacService, "audit", "read"), h.List)
	}
}
