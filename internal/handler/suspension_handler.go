package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

// SuspensionHandler exposes suspension and closure endpoints.
type SuspensionHandler struct {
	service *service.SuspensionService
}

// NewSuspensionHandler constructs a suspension handler.
func NewSuspensionHandler(svc *service.SuspensionService) *SuspensionHandler {
	return &SuspensionHandler{service: svc}
}

// List godoc
// @Summary List suspensions affecting a school
// @Tags Suspensions
// @Produce json
// @Param school_id query string false "Filter by school; omit for statewide records only"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /suspensions [get]
func (h *SuspensionHandler) List(c *gin.Context) {
	records, err := h.service.List(c.Request.Context(), c.Query("school_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// Create godoc
// @Summary Declare a suspension or closure
// @Tags Suspensions
// @Accept json
// @Produce json
// @Param payload body service.CreateSuspensionRequest true "Suspension"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /suspensions [post]
func (h *SuspensionHandler) Create(c *gin.Context) {
	var req service.CreateSuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Update godoc
// @Summary Amend a suspension or closure
// @Tags Suspensions
// @Accept json
// @Produce json
// @Param id path string true "Suspension ID"
// @Param payload body service.CreateSuspensionRequest true "Suspension"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /suspensions/{id} [put]
func (h *SuspensionHandler) Update(c *gin.Context) {
	var req service.CreateSuspensionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// Drop godoc
// @Summary Lift a suspension or closure
// @Tags Suspensions
// @Param id path string true "Suspension ID"
// @Success 204
// @Security BearerAuth
// @Router /suspensions/{id} [delete]
func (h *SuspensionHandler) Drop(c *gin.Context) {
	if err := h.service.Drop(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
