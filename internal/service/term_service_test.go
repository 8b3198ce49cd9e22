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

type mockTermRepo struct {
	terms   map[string]*models.Term
	created *models.Term
	updated *models.Term
	deleted string
}

func newMockTermRepo(terms ...*models.Term) *mockTermRepo {
	m := &mockTermRepo{terms: make(map[string]*models.Term)}
	for _, t := range terms {
		m.terms[t.ID] = t
	}
	return m
}

func (m *mockTermRepo) ListBySession(ctx context.Context, sessionID string) ([]models.Term, error) {
	var out []models.Term
	for _, t := range m.terms {
		if t.SessionID == sessionID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *mockTermRepo) FindByID(ctx context.Context, id string) (*models.Term, error) {
	t, ok := m.terms[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return t, nil
}

func (m *mockTermRepo) Create(ctx context.Context, term *models.Term) error {
	m.created = term
	return nil
}

func (m *mockTermRepo) Update(ctx context.Context, term *models.Term) error {
	m.updated = term
	return nil
}

func (m *mockTermRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

type mockTermSessions struct {
	session *models.AcademicSession
}

func (m *mockTermSessions) FindByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	if m.session == nil || m.session.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.session, nil
}

func termTestSession() *models.AcademicSession {
	return &models.AcademicSession{
		ID:        "ses-1",
		Name:      "2025/2026",
		Status:    models.SessionOngoing,
		StartDate: date(2025, 9, 1),
		EndDate:   date(2026, 7, 31),
	}
}

func newTestTermService(repo *mockTermRepo, sessions *mockTermSessions) *TermService {
	return NewTermService(repo, sessions, validator.New(), zap.NewNop())
}

func TestTermCreate(t *testing.T) {
	repo := newMockTermRepo()
	svc := newTestTermService(repo, &mockTermSessions{session: termTestSession()})

	term, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    1,
		StartDate: date(2025, 9, 8),
		EndDate:   date(2025, 12, 12),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, term.Number)
	assert.NotNil(t, repo.created)
}

func TestTermCreateOutsideSessionRange(t *testing.T) {
	svc := newTestTermService(newMockTermRepo(), &mockTermSessions{session: termTestSession()})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    1,
		StartDate: date(2025, 8, 1),
		EndDate:   date(2025, 12, 12),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTermCreateDuplicateNumber(t *testing.T) {
	repo := newMockTermRepo(&models.Term{
		ID: "t1", SessionID: "ses-1", Number: 1,
		StartDate: date(2025, 9, 8), EndDate: date(2025, 12, 12),
	})
	svc := newTestTermService(repo, &mockTermSessions{session: termTestSession()})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    1,
		StartDate: date(2026, 1, 5),
		EndDate:   date(2026, 4, 2),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTermCreateOverlapsLowerNumber(t *testing.T) {
	repo := newMockTermRepo(&models.Term{
		ID: "t1", SessionID: "ses-1", Number: 1,
		StartDate: date(2025, 9, 8), EndDate: date(2025, 12, 12),
	})
	svc := newTestTermService(repo, &mockTermSessions{session: termTestSession()})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    2,
		StartDate: date(2025, 12, 1),
		EndDate:   date(2026, 4, 2),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTermCreateMustEndBeforeHigherNumber(t *testing.T) {
	repo := newMockTermRepo(&models.Term{
		ID: "t3", SessionID: "ses-1", Number: 3,
		StartDate: date(2026, 4, 20), EndDate: date(2026, 7, 20),
	})
	svc := newTestTermService(repo, &mockTermSessions{session: termTestSession()})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    2,
		StartDate: date(2026, 1, 5),
		EndDate:   date(2026, 5, 1),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTermCreateNumberOutOfRange(t *testing.T) {
	svc := newTestTermService(newMockTermRepo(), &mockTermSessions{session: termTestSession()})

	_, err := svc.Create(context.Background(), CreateTermRequest{
		SessionID: "ses-1",
		Number:    4,
		StartDate: date(2025, 9, 8),
		EndDate:   date(2025, 12, 12),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTermUpdateIgnoresSelfWhenCheckingSiblings(t *testing.T) {
	repo := newMockTermRepo(
		&models.Term{ID: "t1", SessionID: "ses-1", Number: 1, StartDate: date(2025, 9, 8), EndDate: date(2025, 12, 12)},
		&models.Term{ID: "t2", SessionID: "ses-1", Number: 2, StartDate: date(2026, 1, 5), EndDate: date(2026, 4, 2)},
	)
	svc := newTestTermService(repo, &mockTermSessions{session: termTestSession()})

	updated, err := svc.Update(context.Background(), "t2", UpdateTermRequest{
		StartDate: date(2026, 1, 12),
		EndDate:   date(2026, 4, 10),
	})
	require.NoError(t, err)
	assert.Equal(t, date(2026, 1, 12), updated.StartDate)
	assert.NotNil(t, repo.updated)
}

func TestTermDeleteNotFound(t *testing.T) {
	svc := newTestTermService(newMockTermRepo(), &mockTermSessions{session: termTestSession()})

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
