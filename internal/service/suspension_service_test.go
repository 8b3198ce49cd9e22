package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockSuspensionRepo struct {
	records map[string]*models.SuspensionClosure
	created *models.SuspensionClosure
	dropped string
}

func newMockSuspensionRepo(records ...*models.SuspensionClosure) *mockSuspensionRepo {
	m := &mockSuspensionRepo{records: make(map[string]*models.SuspensionClosure)}
	for _, r := range records {
		m.records[r.ID] = r
	}
	return m
}

func (m *mockSuspensionRepo) ListBySchool(ctx context.Context, schoolID string) ([]models.SuspensionClosure, error) {
	var out []models.SuspensionClosure
	for _, r := range m.records {
		if r.IsStatewide || r.SchoolID == schoolID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockSuspensionRepo) FindByID(ctx context.Context, id string) (*models.SuspensionClosure, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func (m *mockSuspensionRepo) Create(ctx context.Context, record *models.SuspensionClosure) error {
	m.created = record
	return nil
}

func (m *mockSuspensionRepo) Update(ctx context.Context, record *models.SuspensionClosure) error {
	m.records[record.ID] = record
	return nil
}

func (m *mockSuspensionRepo) Drop(ctx context.Context, id string) error {
	m.dropped = id
	return nil
}

type mockSuspensionSchools struct{}

func (mockSuspensionSchools) FindByID(ctx context.Context, id string) (*models.School, error) {
	if id != "sch-1" {
		return nil, sql.ErrNoRows
	}
	return &models.School{ID: id}, nil
}

func newTestSuspensionService(repo *mockSuspensionRepo) *SuspensionService {
	return NewSuspensionService(repo, mockSuspensionSchools{}, nil, nil, nil)
}

func validSuspensionRequest() CreateSuspensionRequest {
	to := date(2025, time.April, 30)
	return CreateSuspensionRequest{
		SchoolID:      "sch-1",
		Kind:          models.KindSuspension,
		Reason:        "flooding",
		SuspendedFrom: date(2025, time.March, 1),
		SuspendedTo:   &to,
	}
}

func TestSuspensionCreateIndefiniteClearsEndDate(t *testing.T) {
	repo := newMockSuspensionRepo()
	svc := newTestSuspensionService(repo)

	// An indefinite window wins over any end date the caller supplied.
	req := validSuspensionRequest()
	req.IsIndefinite = true

	record, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, record.IsIndefinite)
	assert.Nil(t, record.SuspendedTo)
	require.NotNil(t, repo.created)
	assert.Nil(t, repo.created.SuspendedTo)

	// Indefinite records cover every day from the start date onward and
	// nothing before it.
	assert.True(t, record.AffectsDate(date(2025, time.March, 1)))
	assert.True(t, record.AffectsDate(date(2030, time.January, 1)))
	assert.False(t, record.AffectsDate(date(2025, time.February, 28)))
}

func TestSuspensionCreateBoundedRequiresEndDate(t *testing.T) {
	svc := newTestSuspensionService(newMockSuspensionRepo())

	req := validSuspensionRequest()
	req.SuspendedTo = nil

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "suspended_to", appErr.Field)
}

func TestSuspensionCreateRejectsInvertedWindow(t *testing.T) {
	svc := newTestSuspensionService(newMockSuspensionRepo())

	req := validSuspensionRequest()
	to := date(2025, time.February, 1)
	req.SuspendedTo = &to

	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSuspensionCreateStatewideNeedsNoSchool(t *testing.T) {
	repo := newMockSuspensionRepo()
	svc := newTestSuspensionService(repo)

	req := validSuspensionRequest()
	req.SchoolID = ""
	req.IsStatewide = true

	record, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, record.IsStatewide)
}

func TestSuspensionBoundedWindowCoversEndDateInclusive(t *testing.T) {
	to := date(2025, time.April, 30)
	record := &models.SuspensionClosure{
		SuspendedFrom: date(2025, time.March, 1),
		SuspendedTo:   &to,
	}

	assert.True(t, record.AffectsDate(date(2025, time.April, 30)))
	assert.False(t, record.AffectsDate(date(2025, time.May, 1)))

	record.IsDropped = true
	assert.False(t, record.AffectsDate(date(2025, time.April, 1)))
}

func TestSuspensionUpdateDroppedRejected(t *testing.T) {
	repo := newMockSuspensionRepo(&models.SuspensionClosure{ID: "sus-1", SchoolID: "sch-1", IsDropped: true})
	svc := newTestSuspensionService(repo)

	_, err := svc.Update(context.Background(), "sus-1", validSuspensionRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}
