package middleware

import (
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// ContextLogger assigns a request id and propagates it, the client address
// and a request-scoped logger into the standard context so services and
// repositories can use them without knowing about gin.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.New().String()
		}
		c.Header(HeaderRequestID, rid)
		c.Set("request_id", rid)

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithClient(ctx, c.ClientIP(), c.Request.UserAgent())
		ctx = contextutil.WithLogger(ctx, reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if len(c.Errors) > 0 {
			reqLogger.Warn("request finished with errors",
				zap.Int("status", c.Writer.Status()),
				zap.String("errors", c.Errors.String()),
			)
		}
	}
}
