package user

import (
	"net/http"
	"strconv"

	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	svc    Service
	logger *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("user.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.handler")
	}
	return &Handler{svc: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("user request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.CreateEmployee(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	filter.Page, filter.PageSize = response.ParsePage(c)

	users, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, users, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	userID := middleware.CurrentUserID(c)
	if err := h.svc.ChangePassword(c.Request.Context(), userID, middleware.CurrentToken(c), req); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"changed": true}, nil)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	resp, err := h.svc.ResetPassword(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	hard, _ := strconv.ParseBool(c.DefaultQuery("hard", "false"))
	id := c.Param("id")

	if err := h.svc.Delete(c.Request.Context(), id, hard); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true, "hard": hard}, nil)
}
