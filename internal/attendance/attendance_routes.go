package attendance

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	h *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	idempotency gin.HandlerFunc,
) {
	self := r.Group("/attendance")
	self.Use(authMW)
	{
		self.POST("",
			middleware.RateLimitByUser(0.5, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, "create"),
			idempotency,
			h.Mark,
		)
		self.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, "read"),
			h.Range,
		)
		self.GET("/calendar",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, "read"),
			h.Calendar,
		)
	}

	hr := r.Group("/hr/attendance")
	hr.Use(authMW)
	{
		hr.POST("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "create"),
			idempotency,
			h.MarkFor,
		)
		hr.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "read"),
			h.List,
		)
		hr.GET("/export",
			middleware.RateLimitByUser(0.2, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "export"),
			h.Export,
		)
		hr.GET("/calendar/:userID",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "read"),
			h.Calendar,
		)
		hr.PUT("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "update"),
			h.Update,
		)
		hr.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceAttendanceAdmin, "delete"),
			h.Delete,
		)
	}
}
