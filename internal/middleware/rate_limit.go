package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type KeyedRateLimiter struct {
	entries map[string]*limiterEntry
	mu      sync.Mutex
	r       rate.Limit // requests per second
	b       int        // burst
	idle    time.Duration
	now     func() time.Time
}

func NewKeyedRateLimiter(r rate.Limit, b int) *KeyedRateLimiter {
	return &KeyedRateLimiter{
		entries: make(map[string]*limiterEntry),
		r:       r,
		b:       b,
		idle:    10 * time.Minute,
		now:     time.Now,
	}
}

// GetLimiter returns the limiter for key and drops limiters that have been
// idle long enough to be full again.
func (l *KeyedRateLimiter) GetLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, e := range l.entries {
		if now.Sub(e.lastSeen) > l.idle {
			delete(l.entries, k)
		}
	}

	e, exists := l.entries[key]
	if !exists {
		e = &limiterEntry{limiter: rate.NewLimiter(l.r, l.b)}
		l.entries[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

var errTooManyRequests = apperror.New(
	apperror.CodeTooManyRequests,
	"Too many requests, please slow down",
	http.StatusTooManyRequests,
)

func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			abortWithError(c, errTooManyRequests)
			return
		}
		c.Next()
	}
}

// RateLimitByUser must run after AuthMiddleware; anonymous requests pass.
func RateLimitByUser(r rate.Limit, b int) gin.HandlerFunc {
	limiter := NewKeyedRateLimiter(r, b)
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			c.Next()
			return
		}
		if !limiter.GetLimiter(userID).Allow() {
			abortWithError(c, errTooManyRequests)
			return
		}
		c.Next()
	}
}
