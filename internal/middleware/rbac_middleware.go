package middleware

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/domain"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService is satisfied by anything that can enforce a role policy.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if role == "" {
			abortWithError(c, apperror.ErrUnauthorized)
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			zap.L().Error("rbac enforce error", zap.String("role", role), zap.Error(err))
			abortWithError(c, apperror.ErrInternal)
			return
		}

		if !allowed {
			abortWithError(c, apperror.ErrForbidden.WithReason(resource+":"+action))
			return
		}
		c.Next()
	}
}
