package handler

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

// ExportHandler exposes report export endpoints.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs an export handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

type requestExportRequest struct {
	Type models.ExportType `json:"type" binding:"required"`
}

// Request godoc
// @Summary Queue a report export for a school
// @Tags Exports
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body requestExportRequest true "Export type"
// @Success 202 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/exports [post]
func (h *ExportHandler) Request(c *gin.Context) {
	var req requestExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	job, err := h.service.Request(c.Request.Context(), c.Param("id"), req.Type, currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, nil)
}

// Status godoc
// @Summary Get an export job's status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	job, err := h.service.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// History godoc
// @Summary List recent export jobs for a school
// @Tags Exports
// @Produce json
// @Param id path string true "School ID"
// @Param limit query int false "Max rows" default(20)
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/exports [get]
func (h *ExportHandler) History(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	jobs, err := h.service.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, jobs, nil)
}

// DownloadURL godoc
// @Summary Issue a signed download link for a completed export
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /exports/{id}/download-url [get]
func (h *ExportHandler) DownloadURL(c *gin.Context) {
	url, expiresAt, err := h.service.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"url": url, "expires_at": expiresAt}, nil)
}

// Download godoc
// @Summary Download an export via a signed token
// @Tags Exports
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Validationf("token", "token is required"))
		return
	}
	job, path, err := h.service.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(*job.FilePath))
}
