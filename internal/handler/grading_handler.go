package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samses-ng/samses-api/internal/service"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/response"
)

// GradingHandler exposes grading scale and boundary endpoints.
type GradingHandler struct {
	service *service.GradingService
}

// NewGradingHandler constructs a grading handler.
func NewGradingHandler(svc *service.GradingService) *GradingHandler {
	return &GradingHandler{service: svc}
}

// ListScales godoc
// @Summary List grading scales
// @Tags Grading
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grading/scales [get]
func (h *GradingHandler) ListScales(c *gin.Context) {
	scales, err := h.service.ListScales(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scales, nil)
}

// GetScale godoc
// @Summary Get a grading scale with its boundaries
// @Tags Grading
// @Produce json
// @Param id path string true "Scale ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grading/scales/{id} [get]
func (h *GradingHandler) GetScale(c *gin.Context) {
	scale, boundaries, err := h.service.GetScale(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"scale": scale, "boundaries": boundaries}, nil)
}

// CreateScale godoc
// @Summary Create a grading scale
// @Tags Grading
// @Accept json
// @Produce json
// @Param payload body service.CreateScaleRequest true "Scale"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /grading/scales [post]
func (h *GradingHandler) CreateScale(c *gin.Context) {
	var req service.CreateScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	scale, err := h.service.CreateScale(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, scale)
}

// DeleteScale godoc
// @Summary Delete a grading scale
// @Tags Grading
// @Param id path string true "Scale ID"
// @Success 204
// @Security BearerAuth
// @Router /grading/scales/{id} [delete]
func (h *GradingHandler) DeleteScale(c *gin.Context) {
	if err := h.service.DeleteScale(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddBoundary godoc
// @Summary Add a grade boundary to a scale
// @Tags Grading
// @Accept json
// @Produce json
// @Param id path string true "Scale ID"
// @Param payload body service.CreateBoundaryRequest true "Boundary"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /grading/scales/{id}/boundaries [post]
func (h *GradingHandler) AddBoundary(c *gin.Context) {
	var req service.CreateBoundaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	boundary, err := h.service.AddBoundary(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, boundary)
}

// RemoveBoundary godoc
// @Summary Remove a grade boundary
// @Tags Grading
// @Param id path string true "Boundary ID"
// @Success 204
// @Security BearerAuth
// @Router /grading/boundaries/{id} [delete]
func (h *GradingHandler) RemoveBoundary(c *gin.Context) {
	if err := h.service.RemoveBoundary(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GradeFor godoc
// @Summary Resolve the grade for a score on a scale
// @Tags Grading
// @Produce json
// @Param id path string true "Scale ID"
// @Param score query int true "Score (0-100)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /grading/scales/{id}/grade [get]
func (h *GradingHandler) GradeFor(c *gin.Context) {
	score, err := strconv.Atoi(c.Query("score"))
	if err != nil {
		response.Error(c, appErrors.Validationf("score", "score must be an integer"))
		return
	}
	grade, err := h.service.GradeFor(c.Request.Context(), c.Param("id"), score)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"score": score, "grade": grade}, nil)
}

// AssignScale godoc
// @Summary Attach a grading scale to a subject
// @Tags Grading
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.AssignScaleRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/grading [post]
func (h *GradingHandler) AssignScale(c *gin.Context) {
	var req service.AssignScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cfg, err := h.service.AssignScale(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cfg)
}

// SubjectConfigs godoc
// @Summary List a subject's grading configurations
// @Tags Grading
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /subjects/{id}/grading [get]
func (h *GradingHandler) SubjectConfigs(c *gin.Context) {
	configs, err := h.service.SubjectConfigs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, configs, nil)
}
