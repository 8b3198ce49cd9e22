package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, int, error)
	FindByID(ctx context.Context, id string) (*models.EnrollmentRecord, error)
	ExistsForSession(ctx context.Context, studentID, sessionID string) (bool, error)
	Create(ctx context.Context, record *models.EnrollmentRecord) error
	Deactivate(ctx context.Context, id string) error
}

type enrollmentSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

type enrollmentStudentLoader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
}

// EnrollStudentRequest describes the payload for enrolling a student into
// a school for the current session.
type EnrollStudentRequest struct {
	StudentID    string                `json:"student_id" validate:"required"`
	SchoolID     string                `json:"school_id" validate:"required"`
	ProgramLevel *string               `json:"program_level"`
	Stream       *string               `json:"stream"`
	Mode         models.EnrollmentMode `json:"enrollment_mode" validate:"required,oneof=fresh transfer"`
}

// EnrollmentService captures enrollments. The governing session is
// resolved at enrollment time and frozen into the record; a school with
// no governing session cannot enroll anyone.
type EnrollmentService struct {
	repo        enrollmentRepository
	schools     enrollmentSchoolLoader
	students    enrollmentStudentLoader
	resolver    *SessionResolver
	identifiers *IdentifierService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, schools enrollmentSchoolLoader, students enrollmentStudentLoader, resolver *SessionResolver, identifiers *IdentifierService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:        repo,
		schools:     schools,
		students:    students,
		resolver:    resolver,
		identifiers: identifiers,
		validator:   validate,
		logger:      logger,
	}
}

// List returns paginated enrollment records.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, *models.Pagination, error) {
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return records, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Enroll records a student's enrollment for the session currently
// governing the school. An admission number scoped to the school is
// issued as part of the record.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollStudentRequest) (*models.EnrollmentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	school, err := s.schools.FindByID(ctx, req.SchoolID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if !student.Active {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "cannot enroll an inactive student")
	}

	session, err := s.resolver.Resolve(ctx, school)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, appErrors.Clone(appErrors.ErrNoActiveSession, "")
	}

	enrolled, err := s.repo.ExistsForSession(ctx, req.StudentID, session.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if enrolled {
		return nil, appErrors.Conflictf("student_id", "student is already enrolled for session %s", session.Name)
	}

	admission, err := s.identifiers.AdmissionNumber(ctx, req.SchoolID)
	if err != nil {
		return nil, err
	}

	record := &models.EnrollmentRecord{
		StudentID:       req.StudentID,
		SchoolID:        req.SchoolID,
		SessionID:       session.ID,
		Program:         school.Program,
		ProgramLevel:    req.ProgramLevel,
		Stream:          req.Stream,
		Mode:            req.Mode,
		AdmissionNumber: &admission,
		Active:          true,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Internal(err, "failed to create enrollment")
	}

	// The student's current school follows the latest enrollment.
	if student.SchoolID == nil || *student.SchoolID != req.SchoolID {
		student.SchoolID = &req.SchoolID
		if err := s.students.Update(ctx, student); err != nil {
			s.logger.Warn("failed to update student school binding", zap.String("student_id", student.ID), zap.Error(err))
		}
	}

	s.logger.Info("student enrolled",
		zap.String("student_id", req.StudentID),
		zap.String("school_id", req.SchoolID),
		zap.String("session_id", session.ID),
		zap.String("admission_number", admission))
	return record, nil
}

// Withdraw deactivates an enrollment record.
func (s *EnrollmentService) Withdraw(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to withdraw enrollment")
	}
	return nil
}
