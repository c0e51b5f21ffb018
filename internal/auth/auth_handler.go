package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const headerClientType = "X-Client-Type"

// CookieOptions controls the access_token cookie set for browser clients.
type CookieOptions struct {
	Secure bool
	TTL    time.Duration
}

type Handler struct {
	service Service
	cookie  CookieOptions
	logger  *zap.Logger
}

func NewHandler(s Service, cookie CookieOptions, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, cookie: cookie, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("auth request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// isWebClient honours an explicit X-Client-Type and otherwise treats
// browser user agents as web.
func isWebClient(c *gin.Context) bool {
	switch strings.ToLower(c.GetHeader(headerClientType)) {
	case "web":
		return true
	case "mobile", "api":
		return false
	}
	return strings.Contains(c.GetHeader("User-Agent"), "Mozilla/")
}

func (h *Handler) setTokenCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if isWebClient(c) {
		h.setTokenCookie(c, res.AccessToken, int(h.cookie.TTL.Seconds()))
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.CurrentToken(c)); err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.setTokenCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"logged_out": true}, nil)
}

func (h *Handler) Me(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, profile, nil)
}
