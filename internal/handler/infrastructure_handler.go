package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/models"
	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

const maxInfraImageBytes = 4 << 20

// InfrastructureHandler exposes per-school inventory endpoints.
type InfrastructureHandler struct {
	service *service.InfrastructureService
}

// NewInfrastructureHandler constructs an infrastructure handler.
func NewInfrastructureHandler(svc *service.InfrastructureService) *InfrastructureHandler {
	return &InfrastructureHandler{service: svc}
}

// List godoc
// @Summary List a school's infrastructure inventory
// @Tags Infrastructure
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/infrastructure [get]
func (h *InfrastructureHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Upsert godoc
// @Summary Create or replace an inventory record by kind
// @Tags Infrastructure
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body service.UpsertInfrastructureRequest true "Inventory"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/infrastructure [put]
func (h *InfrastructureHandler) Upsert(c *gin.Context) {
	var req service.UpsertInfrastructureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Upsert(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Images godoc
// @Summary List inventory images for a kind
// @Tags Infrastructure
// @Produce json
// @Param id path string true "School ID"
// @Param kind path string true "Inventory kind"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/infrastructure/{kind}/images [get]
func (h *InfrastructureHandler) Images(c *gin.Context) {
	kind := models.InfrastructureKind(c.Param("kind"))
	images, err := h.service.Images(c.Request.Context(), c.Param("id"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, images, nil)
}

// AddImage godoc
// @Summary Attach an image to an inventory kind
// @Tags Infrastructure
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "School ID"
// @Param kind path string true "Inventory kind"
// @Param image formData file true "Image"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/infrastructure/{kind}/images [post]
func (h *InfrastructureHandler) AddImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "image file is required"))
		return
	}
	if header.Size > maxInfraImageBytes {
		response.Error(c, appErrors.Validationf("image", "file exceeds %d bytes", maxInfraImageBytes))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable upload"))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to read upload"))
		return
	}

	kind := models.InfrastructureKind(c.Param("kind"))
	image, err := h.service.AddImage(c.Request.Context(), c.Param("id"), kind, header.Filename, data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, image)
}

// RemoveImage godoc
// @Summary Remove an inventory image
// @Tags Infrastructure
// @Param imageId path string true "Image ID"
// @Success 204
// @Security BearerAuth
// @Router /infrastructure/images/{imageId} [delete]
func (h *InfrastructureHandler) RemoveImage(c *gin.Context) {
	if err := h.service.RemoveImage(c.Request.Context(), c.Param("imageId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
