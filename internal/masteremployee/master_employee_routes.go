package masteremployee

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authMW gin.HandlerFunc,
	rbacService middleware.RBACService,
	idempotency gin.HandlerFunc,
) {
	roster := r.Group("/master-employees")
	roster.Use(authMW)
	{
		roster.POST("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "create"),
			idempotency,
			handler.AddToMaster,
		)
		roster.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "read"),
			handler.List,
		)
		roster.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "read"),
			handler.ManagerOptions,
		)
		roster.GET("/next-id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "create"),
			handler.NextEmployeeID,
		)
		roster.GET("/search",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "read"),
			handler.Search,
		)
		roster.GET("/:id",
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "read"),
			handler.GetByID,
		)
		roster.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "update"),
			handler.Update,
		)
		roster.PUT("/:id/manager",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "update"),
			handler.AssignManager,
		)
		roster.DELETE("/:id",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, rbac.ResourceRoster, "delete"),
			handler.Delete,
		)
	}
}
