package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type suspensionRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.SuspensionClosure, error)
	FindByID(ctx context.Context, id string) (*models.SuspensionClosure, error)
	Create(ctx context.Context, record *models.SuspensionClosure) error
	Update(ctx context.Context, record *models.SuspensionClosure) error
	Drop(ctx context.Context, id string) error
}

type suspensionSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// CreateSuspensionRequest opens a suspension or closure window. An
// indefinite record carries no end date; a bounded one must.
type CreateSuspensionRequest struct {
	SchoolID      string                `json:"school_id"`
	IsStatewide   bool                  `json:"is_statewide"`
	Kind          models.SuspensionKind `json:"suspension_type" validate:"required,oneof=Suspension Closure"`
	Reason        string                `json:"reason" validate:"required"`
	SuspendedFrom time.Time             `json:"suspended_from" validate:"required"`
	SuspendedTo   *time.Time            `json:"suspended_to"`
	IsIndefinite  bool                  `json:"is_indefinite"`
}

// SuspensionService manages suspension and closure windows, per school
// or statewide.
type SuspensionService struct {
	repo      suspensionRepository
	schools   suspensionSchoolLoader
	resolver  *SessionResolver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSuspensionService constructs a SuspensionService.
func NewSuspensionService(repo suspensionRepository, schools suspensionSchoolLoader, resolver *SessionResolver, validate *validator.Validate, logger *zap.Logger) *SuspensionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuspensionService{repo: repo, schools: schools, resolver: resolver, validator: validate, logger: logger}
}

// List returns the suspension records affecting a school, statewide
// records included.
func (s *SuspensionService) List(ctx context.Context, schoolID string) ([]models.SuspensionClosure, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	records, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list suspensions")
	}
	return records, nil
}

// Create opens a suspension or closure window.
func (s *SuspensionService) Create(ctx context.Context, req CreateSuspensionRequest) (*models.SuspensionClosure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suspension payload")
	}
	if err := s.validateWindow(&req); err != nil {
		return nil, err
	}
	if !req.IsStatewide {
		if req.SchoolID == "" {
			return nil, appErrors.Validationf("school_id", "school_id is required unless statewide")
		}
		if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
	}

	record := &models.SuspensionClosure{
		SchoolID:      req.SchoolID,
		IsStatewide:   req.IsStatewide,
		Kind:          req.Kind,
		Reason:        req.Reason,
		SuspendedFrom: req.SuspendedFrom,
		SuspendedTo:   req.SuspendedTo,
		IsIndefinite:  req.IsIndefinite,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create suspension")
	}

	s.invalidate(ctx, record)
	s.logger.Info("suspension recorded",
		zap.String("kind", string(req.Kind)),
		zap.Bool("statewide", req.IsStatewide),
		zap.String("school_id", req.SchoolID))
	return record, nil
}

// Update amends a suspension window. Dropped records cannot be amended.
func (s *SuspensionService) Update(ctx context.Context, id string, req CreateSuspensionRequest) (*models.SuspensionClosure, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid suspension payload")
	}
	if err := s.validateWindow(&req); err != nil {
		return nil, err
	}

	record, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.IsDropped {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "suspension has been dropped")
	}

	record.Kind = req.Kind
	record.Reason = req.Reason
	record.SuspendedFrom = req.SuspendedFrom
	record.SuspendedTo = req.SuspendedTo
	record.IsIndefinite = req.IsIndefinite
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update suspension")
	}

	s.invalidate(ctx, record)
	return record, nil
}

// Drop lifts a suspension without erasing its history.
func (s *SuspensionService) Drop(ctx context.Context, id string) error {
	record, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if record.IsDropped {
		return nil
	}
	if err := s.repo.Drop(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to drop suspension")
	}

	s.invalidate(ctx, record)
	s.logger.Info("suspension dropped", zap.String("id", id))
	return nil
}

func (s *SuspensionService) find(ctx context.Context, id string) (*models.SuspensionClosure, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "suspension not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suspension")
	}
	return record, nil
}

func (s *SuspensionService) validateWindow(req *CreateSuspensionRequest) error {
	if req.IsIndefinite {
		req.SuspendedTo = nil
		return nil
	}
	if req.SuspendedTo == nil {
		return appErrors.Validationf("suspended_to", "suspended_to is required unless indefinite")
	}
	if req.SuspendedTo.Before(req.SuspendedFrom) {
		return appErrors.Validationf("suspended_to", "suspended_to must not precede suspended_from")
	}
	return nil
}

// invalidate flushes cached session resolutions: a suspended school's
// detail status is derived at read time, and statewide records touch
// every school.
func (s *SuspensionService) invalidate(ctx context.Context, record *models.SuspensionClosure) {
	if s.resolver == nil {
		return
	}
	if record.IsStatewide {
		s.resolver.InvalidateAll(ctx)
		return
	}
	s.resolver.InvalidateSchool(ctx, record.SchoolID)
}
