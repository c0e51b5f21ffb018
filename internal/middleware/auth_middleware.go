package middleware

import (
	"context"
	"strings"

	"github.com/Jstali/employee-onboarding-sub000/internal/session"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	ContextToken  = "access_token"

	AccessTokenCookie = "access_token"
)

// SessionValidator resolves an opaque bearer token.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (session.Principal, error)
}

// TokenFromRequest reads the bearer token from the Authorization header,
// falling back to the access_token cookie.
func TokenFromRequest(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found {
		if token = strings.TrimSpace(token); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware(sessions SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			abortWithError(c, session.ErrMissingToken)
			return
		}

		p, err := sessions.Validate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserID, p.UserID)
		c.Set(ContextRole, p.Role)
		c.Set(ContextToken, token)

		ctx := c.Request.Context()
		ctx = contextutil.WithUserID(ctx, p.UserID)
		ctx = contextutil.WithRole(ctx, p.Role)
		reqLogger := contextutil.GetLogger(ctx, zap.L()).With(zap.String("user_id", p.UserID))
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
