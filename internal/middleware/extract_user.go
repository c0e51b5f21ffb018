package middleware

import "github.com/gin-gonic/gin"

// CurrentUserID returns the authenticated user id set by AuthMiddleware.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}
