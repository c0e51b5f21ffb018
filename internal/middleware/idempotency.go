package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	idempotencyTTL     = 24 * time.Hour
	idempotencyLockTTL = 30 * time.Second
)

var errRequestInProgress = apperror.New(
	apperror.CodeConflict,
	"A request with this idempotency key is still being processed",
	http.StatusConflict,
).WithReason("PROCESSING")

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type recordingWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func IdempotencyKey(path, userID, key string) string {
	return fmt.Sprintf("idemp:%s:%s:%s", path, userID, key)
}

// Idempotency replays the stored response for a repeated POST carrying the
// same Idempotency-Key. Only 2xx responses are stored, so a failed attempt
// can be retried with the same key.
func Idempotency(rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		log := contextutil.GetLogger(ctx, zap.L())
		cacheKey := IdempotencyKey(c.FullPath(), CurrentUserID(c), idempKey)
		lockKey := cacheKey + ":lock"

		if raw, err := rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				c.Header("Idempotent-Replayed", "true")
				c.Data(cached.Status, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
			log.Warn("discarding malformed idempotency entry", zap.String("key", cacheKey))
		} else if err != redis.Nil {
			log.Warn("idempotency lookup failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			log.Warn("idempotency lock failed, continuing without it", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			abortWithError(c, errRequestInProgress)
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = rec

		c.Next()

		// the request context may already be past its deadline here
		bg := context.WithoutCancel(ctx)
		status := rec.Status()
		if status >= 200 && status < 300 {
			payload, _ := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			})
			if err := rdb.Set(bg, cacheKey, payload, idempotencyTTL).Err(); err != nil {
				log.Warn("failed to store idempotent response", zap.Error(err))
			}
		}
		if err := rdb.Del(bg, lockKey).Err(); err != nil {
			log.Warn("failed to release idempotency lock", zap.Error(err))
		}
	}
}
