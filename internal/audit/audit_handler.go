package audit

import (
	"net/http"

	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	var filter ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	filter.Page, filter.PageSize = response.ParsePage(c)

	rows, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, rows, &meta)
}
