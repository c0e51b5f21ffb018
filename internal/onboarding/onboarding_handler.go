package onboarding

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Jstali/employee-onboarding-sub000/internal/middleware"
	onboardingerrors "github.com/Jstali/employee-onboarding-sub000/internal/onboarding/errors"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/apperror"
	"github.com/Jstali/employee-onboarding-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// FormField is the multipart field carrying the JSON payload. Files are
// sent under their document type, e.g. "aadhar" or "profile_photo".
const FormField = "form"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("onboarding.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("onboarding.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("onboarding request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	mf, err := c.MultipartForm()
	if err != nil {
		h.writeServiceError(c, onboardingerrors.ErrInvalidFormPayload.WithCause(err))
		return
	}

	var req SubmitRequest
	raw := strings.TrimSpace(c.PostForm(FormField))
	if raw == "" || json.Unmarshal([]byte(raw), &req) != nil {
		h.writeServiceError(c, onboardingerrors.ErrInvalidFormPayload)
		return
	}
	if err := binding.Validator.ValidateStruct(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	files, closeAll, err := collectFiles(mf)
	defer closeAll()
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	res, err := h.service.Submit(c.Request.Context(), middleware.CurrentUserID(c), req, files)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	res, err := h.service.GetMine(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
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

func (h *Handler) UpdateForm(c *gin.Context) {
	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	res, err := h.service.UpdateForm(c.Request.Context(), c.Param("userID"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) DeleteForm(c *gin.Context) {
	if err := h.service.DeleteForm(c.Request.Context(), c.Param("userID")); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	res, err := h.service.Approve(c.Request.Context(), c.Param("userID"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	var req RejectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.writeServiceError(c, apperror.MapValidationError(err))
			return
		}
	}

	res, err := h.service.Reject(c.Request.Context(), c.Param("userID"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) ListDocuments(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		userID = middleware.CurrentUserID(c)
	}
	res, err := h.service.ListDocuments(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) OpenDocument(c *gin.Context) {
	doc, err := h.service.OpenDocument(
		c.Request.Context(),
		middleware.CurrentUserID(c),
		middleware.CurrentRole(c),
		c.Param("docID"),
	)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	defer doc.Body.Close()

	c.DataFromReader(http.StatusOK, doc.Size, doc.MimeType, doc.Body, map[string]string{
		"Content-Disposition":    `inline; filename="` + strings.ReplaceAll(doc.Filename, `"`, "") + `"`,
		"X-Content-Type-Options": "nosniff",
	})
}

// collectFiles opens every uploaded part keyed by document type. The
// returned func closes whatever was opened.
func collectFiles(mf *multipart.Form) ([]FileUpload, func(), error) {
	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	var files []FileUpload
	for field, headers := range mf.File {
		dt := DocumentType(field)
		if !dt.Valid() {
			return nil, closeAll, onboardingerrors.ErrUnknownDocumentType
		}
		if len(headers) > 1 {
			return nil, closeAll, onboardingerrors.ErrDuplicateDocument
		}
		fh := headers[0]
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, onboardingerrors.ErrInvalidFormPayload.WithCause(err)
		}
		opened = append(opened, f)
		files = append(files, FileUpload{
			DocumentType: dt,
			Filename:     fh.Filename,
			Size:         fh.Size,
			ContentType:  fh.Header.Get("Content-Type"),
			Content:      f,
		})
	}
	return files, closeAll, nil
}
