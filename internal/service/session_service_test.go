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

type mockSessionRepo struct {
	sessions      map[string]*models.AcademicSession
	nameTaken     bool
	created       *models.AcademicSession
	updated       *models.AcademicSession
	deleted       string
	completed     int64
	completeCalls int
}

func newMockSessionRepo(sessions ...*models.AcademicSession) *mockSessionRepo {
	m := &mockSessionRepo{sessions: make(map[string]*models.AcademicSession)}
	for _, ses := range sessions {
		m.sessions[ses.ID] = ses
	}
	return m
}

func (m *mockSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.AcademicSession, int, error) {
	var out []models.AcademicSession
	for _, ses := range m.sessions {
		out = append(out, *ses)
	}
	return out, len(out), nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	ses, ok := m.sessions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return ses, nil
}

func (m *mockSessionRepo) ExistsByName(ctx context.Context, session *models.AcademicSession, excludeID string) (bool, error) {
	return m.nameTaken, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.AcademicSession) error {
	m.created = session
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.AcademicSession) error {
	m.updated = session
	return nil
}

func (m *mockSessionRepo) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	return nil
}

func (m *mockSessionRepo) CompleteAllOngoing(ctx context.Context) (int64, error) {
	m.completeCalls++
	n := m.completed
	m.completed = 0
	return n, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

type mockAuditRecorder struct {
	entries []*models.AuditLog
}

func (m *mockAuditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.entries = append(m.entries, log)
	return nil
}

func newTestSessionService(repo *mockSessionRepo, terms *mockResolverTerms, audit *mockAuditRecorder) *SessionService {
	resolver := newTestResolver(&mockResolverSessions{}, terms, nil)
	var recorder auditRecorder
	if audit != nil {
		recorder = audit
	}
	return NewSessionService(repo, terms, resolver, recorder, validator.New(), zap.NewNop())
}

func TestSessionCreateScoped(t *testing.T) {
	repo := newMockSessionRepo()
	svc := newTestSessionService(repo, &mockResolverTerms{}, nil)

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		Scope:     models.ScopePublic,
		Program:   models.ProgramJSS,
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionUpcoming, session.Status)
	assert.NotNil(t, repo.created)
}

func TestSessionCreateIndividualRequiresSchool(t *testing.T) {
	svc := newTestSessionService(newMockSessionRepo(), &mockResolverTerms{}, nil)

	_, err := svc.Create(context.Background(), CreateSessionRequest{
		Scope:     models.ScopeIndividual,
		Program:   models.ProgramJSS,
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSessionCreateScopedRejectsSchoolBinding(t *testing.T) {
	svc := newTestSessionService(newMockSessionRepo(), &mockResolverTerms{}, nil)

	schoolID := "sch-1"
	_, err := svc.Create(context.Background(), CreateSessionRequest{
		Scope:     models.ScopeAll,
		Program:   models.ProgramJSS,
		SchoolID:  &schoolID,
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSessionCreateDuplicateName(t *testing.T) {
	repo := newMockSessionRepo()
	repo.nameTaken = true
	svc := newTestSessionService(repo, &mockResolverTerms{}, nil)

	_, err := svc.Create(context.Background(), CreateSessionRequest{
		Scope:     models.ScopePublic,
		Program:   models.ProgramJSS,
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSessionStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.SessionStatus
		to      models.SessionStatus
		allowed bool
	}{
		{models.SessionUpcoming, models.SessionOngoing, true},
		{models.SessionOngoing, models.SessionCompleted, true},
		{models.SessionUpcoming, models.SessionCompleted, false},
		{models.SessionOngoing, models.SessionUpcoming, false},
		{models.SessionCompleted, models.SessionOngoing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, validSessionTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestSessionUpdateRejectsBackwardTransition(t *testing.T) {
	repo := newMockSessionRepo(&models.AcademicSession{
		ID: "ses-1", Status: models.SessionOngoing, Name: "2025/2026",
		StartDate: date(2025, 9, 1), EndDate: date(2026, 7, 31),
	})
	svc := newTestSessionService(repo, &mockResolverTerms{}, nil)

	_, err := svc.Update(context.Background(), "ses-1", UpdateSessionRequest{
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
		Status:    models.SessionUpcoming,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSessionUpdateRefusesOrphaningTerms(t *testing.T) {
	repo := newMockSessionRepo(&models.AcademicSession{
		ID: "ses-1", Status: models.SessionUpcoming, Name: "2025/2026",
		StartDate: date(2025, 9, 1), EndDate: date(2026, 7, 31),
	})
	terms := &mockResolverTerms{terms: []models.Term{
		{ID: "t3", SessionID: "ses-1", Number: 3, StartDate: date(2026, 4, 20), EndDate: date(2026, 7, 20)},
	}}
	svc := newTestSessionService(repo, terms, nil)

	_, err := svc.Update(context.Background(), "ses-1", UpdateSessionRequest{
		Name:      "2025/2026",
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 6, 30),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSessionDeleteRefusesOngoing(t *testing.T) {
	repo := newMockSessionRepo(&models.AcademicSession{ID: "ses-1", Status: models.SessionOngoing})
	svc := newTestSessionService(repo, &mockResolverTerms{}, nil)

	err := svc.Delete(context.Background(), "ses-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestCompleteAllOngoingRecordsAudit(t *testing.T) {
	repo := newMockSessionRepo()
	repo.completed = 3
	audit := &mockAuditRecorder{}
	svc := newTestSessionService(repo, &mockResolverTerms{}, audit)

	affected, err := svc.CompleteAllOngoing(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionSessionBatch, audit.entries[0].Action)
	assert.JSONEq(t, `{"sessions_completed":3}`, string(audit.entries[0].NewValues))
}

func TestCompleteAllOngoingIdempotent(t *testing.T) {
	repo := newMockSessionRepo()
	repo.completed = 2
	svc := newTestSessionService(repo, &mockResolverTerms{}, &mockAuditRecorder{})

	first, err := svc.CompleteAllOngoing(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), first)

	second, err := svc.CompleteAllOngoing(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, second)
	assert.Equal(t, 2, repo.completeCalls)
}
