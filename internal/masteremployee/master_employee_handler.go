package masteremployee

import (
	"net/http"
	"strconv"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("masteremployee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("masteremployee.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("master employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) AddToMaster(c *gin.Context) {
	var req AddToMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.AddToMaster(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	filter.Page, filter.PageSize = response.ParsePage(c)

	res, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, res, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	res, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateMasterEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) AssignManager(c *gin.Context) {
	var req AssignManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.AssignManager(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	hard, _ := strconv.ParseBool(c.DefaultQuery("hard", "false"))
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), hard); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true, "hard": hard}, nil)
}

func (h *Handler) NextEmployeeID(c *gin.Context) {
	id, err := h.service.NextEmployeeID(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, NextEmployeeIDResponse{EmployeeID: id}, nil)
}

func (h *Handler) ManagerOptions(c *gin.Context) {
	opts, err := h.service.ManagerOptions(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, opts, nil)
}

func (h *Handler) Search(c *gin.Context) {
	res, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
