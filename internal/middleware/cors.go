package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func CORS(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key", HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
