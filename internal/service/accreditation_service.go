package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type accreditationRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.AccreditationState, error)
	LatestBySchool(ctx context.Context, schoolID string) (*models.AccreditationState, error)
	Create(ctx context.Context, state *models.AccreditationState) error
}

type accreditationSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// TransitionAccreditationRequest records an accreditation decision.
type TransitionAccreditationRequest struct {
	Status    models.AccreditationStatus `json:"status" validate:"required,oneof='awaiting accreditation' accreditated not-accreditated cancelled"`
	ValidFrom *time.Time                 `json:"valid_from"`
	ValidTo   *time.Time                 `json:"valid_to"`
}

// AccreditationService records accreditation decisions for schools.
// States are append-only: the latest entry is the school's current
// standing and the full list is its history.
type AccreditationService struct {
	repo        accreditationRepository
	schools     accreditationSchoolLoader
	identifiers *IdentifierService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAccreditationService constructs an AccreditationService.
func NewAccreditationService(repo accreditationRepository, schools accreditationSchoolLoader, identifiers *IdentifierService, validate *validator.Validate, logger *zap.Logger) *AccreditationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccreditationService{repo: repo, schools: schools, identifiers: identifiers, validator: validate, logger: logger}
}

// History lists a school's accreditation events, newest first.
func (s *AccreditationService) History(ctx context.Context, schoolID string) ([]models.AccreditationState, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	states, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list accreditation history")
	}
	return states, nil
}

// Current returns a school's latest accreditation state, or nil when no
// decision has been recorded yet.
func (s *AccreditationService) Current(ctx context.Context, schoolID string) (*models.AccreditationState, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	state, err := s.repo.LatestBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accreditation state")
	}
	return state, nil
}

// Transition appends a new accreditation state. Every transition to
// accreditated issues a fresh accreditation number and requires a
// validity window; the other statuses carry neither.
func (s *AccreditationService) Transition(ctx context.Context, schoolID string, req TransitionAccreditationRequest) (*models.AccreditationState, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid accreditation payload")
	}

	school, err := s.schools.FindByID(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}

	latest, err := s.repo.LatestBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accreditation state")
	}
	if latest != nil && latest.Status == req.Status {
		return nil, appErrors.Conflictf("status", "school is already %s", req.Status)
	}

	state := &models.AccreditationState{
		SchoolID: schoolID,
		Status:   req.Status,
	}

	if req.Status == models.AccreditationAccreditated {
		if req.ValidFrom == nil || req.ValidTo == nil {
			return nil, appErrors.Validationf("valid_from", "accreditation requires a validity window")
		}
		if !req.ValidFrom.Before(*req.ValidTo) {
			return nil, appErrors.Validationf("valid_to", "valid_to must be after valid_from")
		}
		number, err := s.identifiers.AccreditationNumber(ctx, school.Type, *req.ValidFrom)
		if err != nil {
			return nil, err
		}
		state.AccreditationNumber = &number
		state.ValidFrom = req.ValidFrom
		state.ValidTo = req.ValidTo
	}

	if err := s.repo.Create(ctx, state); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record accreditation state")
	}

	s.logger.Info("accreditation recorded",
		zap.String("school_id", schoolID),
		zap.String("status", string(req.Status)))
	return state, nil
}
