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

type termRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Term, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) error
	Update(ctx context.Context, term *models.Term) error
	Delete(ctx context.Context, id string) error
}

type termSessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.AcademicSession, error)
}

// CreateTermRequest describes the payload for creating a term.
type CreateTermRequest struct {
	SessionID string    `json:"academic_session_id" validate:"required"`
	Number    int       `json:"term_number" validate:"required,min=1,max=3"`
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// UpdateTermRequest updates a term's dates.
type UpdateTermRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

// TermService orchestrates term workflows. Terms are numbered 1 to 3,
// must sit inside their session's range, and must not overlap: a term's
// dates must fall entirely after every lower-numbered sibling and before
// every higher-numbered one.
type TermService struct {
	repo      termRepository
	sessions  termSessionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService constructs a TermService.
func NewTermService(repo termRepository, sessions termSessionRepository, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, sessions: sessions, validator: validate, logger: logger}
}

// Get returns a term by ID.
func (s *TermService) Get(ctx context.Context, id string) (*models.Term, error) {
	term, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load term")
	}
	return term, nil
}

// Create adds a term to a session after validating its placement.
func (s *TermService) Create(ctx context.Context, req CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}

	session, err := s.sessions.FindByID(ctx, req.SessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	term := &models.Term{
		SessionID: req.SessionID,
		Number:    req.Number,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	siblings, err := s.repo.ListBySession(ctx, req.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	if err := validateTermPlacement(term, session, siblings); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, term); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create term")
	}
	return term, nil
}

// Update changes a term's dates, re-validating its placement against the
// session and remaining siblings.
func (s *TermService) Update(ctx context.Context, id string, req UpdateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid term payload")
	}

	term, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.FindByID(ctx, term.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}

	updated := *term
	updated.StartDate = req.StartDate
	updated.EndDate = req.EndDate

	siblings, err := s.repo.ListBySession(ctx, term.SessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	others := siblings[:0:0]
	for _, sibling := range siblings {
		if sibling.ID != id {
			others = append(others, sibling)
		}
	}
	if err := validateTermPlacement(&updated, session, others); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update term")
	}
	return &updated, nil
}

// Delete removes a term.
func (s *TermService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete term")
	}
	return nil
}

// validateTermPlacement enforces every date rule for a term: start before
// end, containment in the session range, a unique number among siblings,
// and chronological ordering without overlap relative to each sibling's
// number.
func validateTermPlacement(term *models.Term, session *models.AcademicSession, siblings []models.Term) error {
	if !term.StartDate.Before(term.EndDate) {
		return appErrors.Validationf("start_date", "start_date must be before end_date")
	}
	if term.StartDate.Before(session.StartDate) || term.EndDate.After(session.EndDate) {
		return appErrors.Validationf("start_date", "term must fall within the session range")
	}
	for _, sibling := range siblings {
		if sibling.Number == term.Number {
			return appErrors.Conflictf("term_number", "term %d already exists for this session", term.Number)
		}
		if sibling.Number < term.Number && !sibling.EndDate.Before(term.StartDate) {
			return appErrors.Validationf("start_date", "term %d must start after term %d ends", term.Number, sibling.Number)
		}
		if sibling.Number > term.Number && !term.EndDate.Before(sibling.StartDate) {
			return appErrors.Validationf("end_date", "term %d must end before term %d starts", term.Number, sibling.Number)
		}
	}
	return nil
}
