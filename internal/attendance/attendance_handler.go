package attendance

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
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
	l := zap.L().Named("attendance.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("attendance request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Mark(c *gin.Context) {
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.Mark(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) MarkFor(c *gin.Context) {
	var req MarkForRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.MarkFor(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) Range(c *gin.Context) {
	var q RangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	records := []RecordResponse{}
	for rec, err := range h.service.Range(c.Request.Context(), middleware.CurrentUserID(c), q) {
		if err != nil {
			h.writeServiceError(c, err)
			return
		}
		records = append(records, mapToResponse(rec))
	}
	response.Success(c, http.StatusOK, records, nil)
}

// Calendar serves the caller's own month, or any user's month when the
// route carries :userID.
func (h *Handler) Calendar(c *gin.Context) {
	var q CalendarQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	userID := c.Param("userID")
	if userID == "" {
		userID = middleware.CurrentUserID(c)
	}

	days, err := h.service.Calendar(c.Request.Context(), userID, q.Year, q.Month)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, days, nil)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
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

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) List(c *gin.Context) {
	var filter Filter
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

func (h *Handler) Export(c *gin.Context) {
	var filter Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	format := strings.ToLower(c.DefaultQuery("format", FormatCSV))

	rows, err := h.service.Export(c.Request.Context(), filter, format)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if format == FormatJSON {
		response.Success(c, http.StatusOK, rows, nil)
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		h.writeServiceError(c, err)
		return
	}
	filename := "attendance-" + time.Now().UTC().Format("20060102") + ".csv"
	response.Attachment(c, filename, "text/csv; charset=utf-8", buf.Bytes())
}
