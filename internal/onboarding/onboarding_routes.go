package onboarding

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
	ob := r.Group("/onboarding")
	ob.Use(authMW)
	{
		ob.POST("/form",
			middleware.RateLimitByUser(0.2, 3),
			middleware.RBACAuthorize(rbacService, rbac.ResourceOnboarding, "submit"),
			idempotency,
			h.Submit,
		)
		ob.GET("/form",
			middleware.RBACAuthorize(rbacService, rbac.ResourceOnboarding, "read"),
			h.GetMine,
		)
		ob.GET("/documents",
			middleware.RBACAuthorize(rbacService, rbac.ResourceOnboarding, "read"),
			h.ListDocuments,
		)
		ob.GET("/documents/:docID",
			middleware.RateLimitByUser(2, 10),
			middleware.RBACAuthorize(rbacService, rbac.ResourceOnboarding, "read"),
			h.OpenDocument,
		)

		forms := ob.Group("/forms")
		{
			forms.GET("",
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "read"),
				h.List,
			)
			forms.GET("/:userID",
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "read"),
				h.Get,
			)
			forms.GET("/:userID/documents",
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "read"),
				h.ListDocuments,
			)
			forms.PUT("/:userID",
				middleware.RateLimitByUser(0.5, 2),
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "update"),
				h.UpdateForm,
			)
			forms.DELETE("/:userID",
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "delete"),
				h.DeleteForm,
			)
			forms.POST("/:userID/approve",
				middleware.RateLimitByUser(1, 5),
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "approve"),
				idempotency,
				h.Approve,
			)
			forms.POST("/:userID/reject",
				middleware.RateLimitByUser(1, 5),
				middleware.RBACAuthorize(rbacService, rbac.ResourceOnboardingReview, "reject"),
				idempotency,
				h.Reject,
			)
		}
	}
}
