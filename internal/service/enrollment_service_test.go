package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrolled bool
	created  *models.EnrollmentRecord
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, int, error) {
	return nil, 0, nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.EnrollmentRecord, error) {
	if m.created != nil && m.created.ID == id {
		return m.created, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) ExistsForSession(ctx context.Context, studentID, sessionID string) (bool, error) {
	return m.enrolled, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, record *models.EnrollmentRecord) error {
	m.created = record
	return nil
}

func (m *mockEnrollmentRepo) Deactivate(ctx context.Context, id string) error {
	return nil
}

type mockEnrollmentSchools struct {
	school *models.School
}

func (m *mockEnrollmentSchools) FindByID(ctx context.Context, id string) (*models.School, error) {
	if m.school == nil || m.school.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.school, nil
}

type mockEnrollmentStudents struct {
	student *models.Student
	updated *models.Student
}

func (m *mockEnrollmentStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil || m.student.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.student, nil
}

func (m *mockEnrollmentStudents) Update(ctx context.Context, student *models.Student) error {
	m.updated = student
	return nil
}

func newTestEnrollmentService(repo *mockEnrollmentRepo, schools *mockEnrollmentSchools, students *mockEnrollmentStudents, sessions *mockResolverSessions) *EnrollmentService {
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)
	identifiers := newTestIdentifierService(&mockNumberCheckers{})
	return NewEnrollmentService(repo, schools, students, resolver, identifiers, validator.New(), zap.NewNop())
}

func enrollmentFixtures() (*mockEnrollmentSchools, *mockEnrollmentStudents) {
	schools := &mockEnrollmentSchools{school: &models.School{
		ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS,
	}}
	students := &mockEnrollmentStudents{student: &models.Student{ID: "stu-1", Active: true}}
	return schools, students
}

func TestEnrollFreezesResolvedSession(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	schools, students := enrollmentFixtures()
	sessions := &mockResolverSessions{
		individual: &models.AcademicSession{ID: "ses-1", Name: "2025/2026"},
	}
	svc := newTestEnrollmentService(repo, schools, students, sessions)

	record, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "stu-1",
		SchoolID:  "sch-1",
		Mode:      models.EnrollmentFresh,
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-1", record.SessionID)
	assert.Equal(t, models.ProgramJSS, record.Program)
	require.NotNil(t, record.AdmissionNumber)
	assert.Len(t, *record.AdmissionNumber, 11)
	require.NotNil(t, students.updated)
	require.NotNil(t, students.updated.SchoolID)
	assert.Equal(t, "sch-1", *students.updated.SchoolID)
}

func TestEnrollRefusedWithoutGoverningSession(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	schools, students := enrollmentFixtures()
	svc := newTestEnrollmentService(repo, schools, students, &mockResolverSessions{})

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "stu-1",
		SchoolID:  "sch-1",
		Mode:      models.EnrollmentFresh,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveSession.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.created)
}

func TestEnrollRefusedForInactiveStudent(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	schools, students := enrollmentFixtures()
	students.student.Active = false
	sessions := &mockResolverSessions{individual: &models.AcademicSession{ID: "ses-1"}}
	svc := newTestEnrollmentService(repo, schools, students, sessions)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "stu-1",
		SchoolID:  "sch-1",
		Mode:      models.EnrollmentFresh,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestEnrollRefusedWhenAlreadyEnrolled(t *testing.T) {
	repo := &mockEnrollmentRepo{enrolled: true}
	schools, students := enrollmentFixtures()
	sessions := &mockResolverSessions{individual: &models.AcademicSession{ID: "ses-1", Name: "2025/2026"}}
	svc := newTestEnrollmentService(repo, schools, students, sessions)

	_, err := svc.Enroll(context.Background(), EnrollStudentRequest{
		StudentID: "stu-1",
		SchoolID:  "sch-1",
		Mode:      models.EnrollmentFresh,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestWithdrawUnknownEnrollment(t *testing.T) {
	schools, students := enrollmentFixtures()
	svc := newTestEnrollmentService(&mockEnrollmentRepo{}, schools, students, &mockResolverSessions{})

	err := svc.Withdraw(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
