package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type sessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.AcademicSession, int, error)
	FindByID(ctx context.Context, id string) (*models.AcademicSession, error)
	ExistsByName(ctx context.Context, session *models.AcademicSession, excludeID string) (bool, error)
	Create(ctx context.Context, session *models.AcademicSession) error
	Update(ctx context.Context, session *models.AcademicSession) error
	UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error
	CompleteAllOngoing(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

type sessionTermRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Term, error)
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CreateSessionRequest describes the payload for creating a session.
type CreateSessionRequest struct {
	Scope     models.SessionScope `json:"school_type" validate:"required,oneof=all public private community individual"`
	Program   models.Program      `json:"program" validate:"required,oneof=primary jss sss primary+jss jss+sss all"`
	SchoolID  *string             `json:"school_id"`
	Name      string              `json:"session_name" validate:"required"`
	StartDate time.Time           `json:"start_date" validate:"required"`
	EndDate   time.Time           `json:"end_date" validate:"required"`
}

// UpdateSessionRequest updates mutable fields on a session.
type UpdateSessionRequest struct {
	Name      string               `json:"session_name" validate:"required"`
	StartDate time.Time            `json:"start_date" validate:"required"`
	EndDate   time.Time            `json:"end_date" validate:"required"`
	Status    models.SessionStatus `json:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
}

// SessionService orchestrates academic session workflows.
type SessionService struct {
	repo      sessionRepository
	terms     sessionTermRepository
	resolver  *SessionResolver
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(repo sessionRepository, terms sessionTermRepository, resolver *SessionResolver, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{repo: repo, terms: terms, resolver: resolver, audit: audit, validator: validate, logger: logger}
}

// List returns paginated sessions.
func (s *SessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.AcademicSession, *models.Pagination, error) {
	sessions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (*models.AcademicSession, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// Terms returns the session's terms ordered by number.
func (s *SessionService) Terms(ctx context.Context, id string) ([]models.Term, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	terms, err := s.terms.ListBySession(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	return terms, nil
}

// Create adds a new session. Individually scoped sessions must name a
// school; broader scopes must not.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.AcademicSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, appErrors.Validationf("start_date", "start_date must be before end_date")
	}
	if req.Scope == models.ScopeIndividual && (req.SchoolID == nil || *req.SchoolID == "") {
		return nil, appErrors.Validationf("school_id", "individually scoped sessions must reference a school")
	}
	if req.Scope != models.ScopeIndividual && req.SchoolID != nil {
		return nil, appErrors.Validationf("school_id", "only individually scoped sessions may reference a school")
	}

	session := &models.AcademicSession{
		Scope:     req.Scope,
		Program:   req.Program,
		SchoolID:  req.SchoolID,
		Name:      req.Name,
		Status:    models.SessionUpcoming,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	exists, err := s.repo.ExistsByName(ctx, session, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session uniqueness")
	}
	if exists {
		return nil, appErrors.Conflictf("session_name", "session %q already exists for this scope and program", req.Name)
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, appErrors.Internal(err, "failed to create session")
	}
	s.resolver.InvalidateAll(ctx)
	return session, nil
}

// Update modifies a session's name, dates or status. Scope, program and
// school binding are fixed at creation. Status may only move forward:
// upcoming to ongoing, ongoing to completed.
func (s *SessionService) Update(ctx context.Context, id string, req UpdateSessionRequest) (*models.AcademicSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, appErrors.Validationf("start_date", "start_date must be before end_date")
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != "" && req.Status != session.Status {
		if !validSessionTransition(session.Status, req.Status) {
			return nil, appErrors.Validationf("status", "cannot move session from %s to %s", session.Status, req.Status)
		}
		session.Status = req.Status
	}

	// Shrinking the range must not orphan existing terms.
	terms, err := s.terms.ListBySession(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	for _, term := range terms {
		if term.StartDate.Before(req.StartDate) || term.EndDate.After(req.EndDate) {
			return nil, appErrors.Validationf("start_date", "term %d would fall outside the new session range", term.Number)
		}
	}

	session.Name = req.Name
	session.StartDate = req.StartDate
	session.EndDate = req.EndDate

	exists, err := s.repo.ExistsByName(ctx, session, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check session uniqueness")
	}
	if exists {
		return nil, appErrors.Conflictf("session_name", "session %q already exists for this scope and program", req.Name)
	}

	if err := s.repo.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	s.resolver.InvalidateAll(ctx)
	return session, nil
}

// Delete removes a session that has not started governing schools.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if session.Status == models.SessionOngoing {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "cannot delete an ongoing session")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	s.resolver.InvalidateAll(ctx)
	return nil
}

// CompleteAllOngoing transitions every ongoing session to completed in a
// single statement and reports the count. Safe to call repeatedly: a
// second run finds nothing to change.
func (s *SessionService) CompleteAllOngoing(ctx context.Context, actorID string) (int64, error) {
	affected, err := s.repo.CompleteAllOngoing(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete ongoing sessions")
	}
	s.resolver.InvalidateAll(ctx)

	if s.audit != nil {
		payload, _ := json.Marshal(map[string]int64{"sessions_completed": affected})
		entry := &models.AuditLog{
			Action:    models.AuditActionSessionBatch,
			Resource:  "academic_sessions",
			NewValues: payload,
		}
		if actorID != "" {
			entry.UserID = &actorID
		}
		if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
			s.logger.Warn("failed to record batch completion audit entry", zap.Error(err))
		}
	}

	s.logger.Info("completed ongoing sessions", zap.Int64("count", affected))
	return affected, nil
}

func validSessionTransition(from, to models.SessionStatus) bool {
	switch from {
	case models.SessionUpcoming:
		return to == models.SessionOngoing
	case models.SessionOngoing:
		return to == models.SessionCompleted
	default:
		return false
	}
}

func paginationFor(page, size, total int) *models.Pagination {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
