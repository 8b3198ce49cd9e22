package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

// AccreditationHandler exposes accreditation history endpoints.
type AccreditationHandler struct {
	service *service.AccreditationService
}

// NewAccreditationHandler constructs an accreditation handler.
func NewAccreditationHandler(svc *service.AccreditationService) *AccreditationHandler {
	return &AccreditationHandler{service: svc}
}

// History godoc
// @Summary Full accreditation history for a school
// @Tags Accreditation
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/accreditation/history [get]
func (h *AccreditationHandler) History(c *gin.Context) {
	states, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, states, nil)
}

// Current godoc
// @Summary Latest accreditation state for a school
// @Tags Accreditation
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/accreditation [get]
func (h *AccreditationHandler) Current(c *gin.Context) {
	state, err := h.service.Current(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Transition godoc
// @Summary Append a new accreditation state
// @Tags Accreditation
// @Accept json
// @Produce json
// @Param id path string true "School ID"
// @Param payload body service.TransitionAccreditationRequest true "Transition"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /schools/{id}/accreditation [post]
func (h *AccreditationHandler) Transition(c *gin.Context) {
	var req service.TransitionAccreditationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	state, err := h.service.Transition(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, state)
}
