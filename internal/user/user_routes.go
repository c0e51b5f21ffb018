package user

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
	users := r.Group("/users")
	users.Use(authMW)
	{
		users.POST("/me/password",
			middleware.RateLimitByUser(0.2, 3),
			h.ChangePassword,
		)

		users.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "create"),
			idempotency,
			h.CreateEmployee,
		)
		users.GET("",
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "read"),
			h.List,
		)
		users.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "read"),
			h.GetByID,
		)
		users.PUT("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "update"),
			h.Update,
		)
		users.POST("/:id/reset-password",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "update"),
			h.ResetPassword,
		)
		users.DELETE("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceUsers, "delete"),
			h.Delete,
		)
	}
}
