package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type gradingRepository interface {
	ListScales(ctx context.Context) ([]models.GradingScale, error)
	FindScaleByID(ctx context.Context, id string) (*models.GradingScale, error)
	ExistsScaleName(ctx context.Context, name, excludeID string) (bool, error)
	CreateScale(ctx context.Context, scale *models.GradingScale) error
	UpdateScale(ctx context.Context, scale *models.GradingScale) error
	DeleteScale(ctx context.Context, id string) error
	ListBoundaries(ctx context.Context, scaleID string) ([]models.GradeBoundary, error)
	CreateBoundary(ctx context.Context, boundary *models.GradeBoundary) error
	DeleteBoundary(ctx context.Context, id string) error
	ListSubjectConfigs(ctx context.Context, subjectID string) ([]models.SubjectGradingConfig, error)
	ExistsSubjectConfig(ctx context.Context, subjectID, scaleID string) (bool, error)
	CreateSubjectConfig(ctx context.Context, config *models.SubjectGradingConfig) error
	DeleteSubjectConfig(ctx context.Context, id string) error
}

type gradingSubjectLoader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateScaleRequest describes the payload for creating a grading scale.
type CreateScaleRequest struct {
	Name        string  `json:"scale_name" validate:"required"`
	Description *string `json:"description"`
}

// CreateBoundaryRequest adds a grade band to a scale.
type CreateBoundaryRequest struct {
	Grade       string  `json:"grade" validate:"required"`
	LowerBound  int     `json:"lower_bound" validate:"min=0,max=100"`
	UpperBound  int     `json:"upper_bound" validate:"min=0,max=100"`
	Description *string `json:"description"`
}

// AssignScaleRequest attaches a grading scale to a subject.
type AssignScaleRequest struct {
	ScaleID   string  `json:"grading_scale_id" validate:"required"`
	Weightage float64 `json:"weightage" validate:"required,gt=0,lte=100"`
}

// GradingService manages grading scales, their boundaries and the
// subject assignments.
type GradingService struct {
	repo      gradingRepository
	subjects  gradingSubjectLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradingService constructs a GradingService.
func NewGradingService(repo gradingRepository, subjects gradingSubjectLoader, validate *validator.Validate, logger *zap.Logger) *GradingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradingService{repo: repo, subjects: subjects, validator: validate, logger: logger}
}

// ListScales returns every grading scale.
func (s *GradingService) ListScales(ctx context.Context) ([]models.GradingScale, error) {
	scales, err := s.repo.ListScales(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grading scales")
	}
	return scales, nil
}

// GetScale returns a scale with its boundaries.
func (s *GradingService) GetScale(ctx context.Context, id string) (*models.GradingScale, []models.GradeBoundary, error) {
	scale, err := s.repo.FindScaleByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}
	boundaries, err := s.repo.ListBoundaries(ctx, id)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade boundaries")
	}
	return scale, boundaries, nil
}

// CreateScale adds a grading scale with a unique name.
func (s *GradingService) CreateScale(ctx context.Context, req CreateScaleRequest) (*models.GradingScale, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scale payload")
	}

	exists, err := s.repo.ExistsScaleName(ctx, req.Name, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check scale name")
	}
	if exists {
		return nil, appErrors.Conflictf("scale_name", "grading scale %q already exists", req.Name)
	}

	scale := &models.GradingScale{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateScale(ctx, scale); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grading scale")
	}
	return scale, nil
}

// DeleteScale removes a grading scale and its boundaries.
func (s *GradingService) DeleteScale(ctx context.Context, id string) error {
	if _, err := s.repo.FindScaleByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}
	if err := s.repo.DeleteScale(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grading scale")
	}
	return nil
}

// AddBoundary appends a grade band to a scale. The grade label must be
// new and the band must not overlap any existing band.
func (s *GradingService) AddBoundary(ctx context.Context, scaleID string, req CreateBoundaryRequest) (*models.GradeBoundary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid boundary payload")
	}
	if req.LowerBound > req.UpperBound {
		return nil, appErrors.Validationf("lower_bound", "lower_bound must not exceed upper_bound")
	}

	if _, err := s.repo.FindScaleByID(ctx, scaleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}

	boundaries, err := s.repo.ListBoundaries(ctx, scaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade boundaries")
	}
	for _, existing := range boundaries {
		if existing.Grade == req.Grade {
			return nil, appErrors.Conflictf("grade", "grade %q already defined for this scale", req.Grade)
		}
		if req.LowerBound <= existing.UpperBound && existing.LowerBound <= req.UpperBound {
			return nil, appErrors.Validationf("lower_bound", "band %d-%d overlaps grade %q", req.LowerBound, req.UpperBound, existing.Grade)
		}
	}

	boundary := &models.GradeBoundary{
		ScaleID:     scaleID,
		Grade:       req.Grade,
		LowerBound:  req.LowerBound,
		UpperBound:  req.UpperBound,
		Description: req.Description,
	}
	if err := s.repo.CreateBoundary(ctx, boundary); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade boundary")
	}
	return boundary, nil
}

// RemoveBoundary deletes a grade band.
func (s *GradingService) RemoveBoundary(ctx context.Context, id string) error {
	if err := s.repo.DeleteBoundary(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade boundary")
	}
	return nil
}

// GradeFor maps a score to a grade label using the scale's boundaries.
func (s *GradingService) GradeFor(ctx context.Context, scaleID string, score int) (string, error) {
	if score < 0 || score > 100 {
		return "", appErrors.Validationf("score", "score must be between 0 and 100")
	}
	boundaries, err := s.repo.ListBoundaries(ctx, scaleID)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade boundaries")
	}
	for _, boundary := range boundaries {
		if score >= boundary.LowerBound && score <= boundary.UpperBound {
			return boundary.Grade, nil
		}
	}
	return "", appErrors.Validationf("score", "no grade band covers score %d", score)
}

// AssignScale attaches a grading scale to a subject with a weightage.
func (s *GradingService) AssignScale(ctx context.Context, subjectID string, req AssignScaleRequest) (*models.SubjectGradingConfig, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.subjects.FindByID(ctx, subjectID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	if _, err := s.repo.FindScaleByID(ctx, req.ScaleID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grading scale not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grading scale")
	}

	exists, err := s.repo.ExistsSubjectConfig(ctx, subjectID, req.ScaleID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check subject config")
	}
	if exists {
		return nil, appErrors.Conflictf("grading_scale_id", "subject already uses this grading scale")
	}

	config := &models.SubjectGradingConfig{
		SubjectID: subjectID,
		ScaleID:   req.ScaleID,
		Weightage: req.Weightage,
	}
	if err := s.repo.CreateSubjectConfig(ctx, config); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign grading scale")
	}
	return config, nil
}

// SubjectConfigs lists a subject's grading assignments.
func (s *GradingService) SubjectConfigs(ctx context.Context, subjectID string) ([]models.SubjectGradingConfig, error) {
	configs, err := s.repo.ListSubjectConfigs(ctx, subjectID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list subject configs")
	}
	return configs, nil
}
