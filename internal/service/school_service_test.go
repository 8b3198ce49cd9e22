package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockSchoolRepo struct {
	schools        map[string]*models.School
	nameTaken      bool
	lastIssued     string
	created        *models.School
	deleted        string
	logoPath       *string
}

func newMockSchoolRepo(schools ...*models.School) *mockSchoolRepo {
	m := &mockSchoolRepo{schools: make(map[string]*models.School)}
	for _, sch := range schools {
		m.schools[sch.ID] = sch
	}
	return m
}

func (m *mockSchoolRepo) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	var out []models.School
	for _, sch := range m.schools {
		out = append(out, *sch)
	}
	return out, len(out), nil
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id string) (*models.School, error) {
	sch, ok := m.schools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return sch, nil
}

func (m *mockSchoolRepo) FindByRegistrationNumber(ctx context.Context, number string) (*models.School, error) {
	for _, sch := range m.schools {
		if sch.RegistrationNumber == number {
			return sch, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSchoolRepo) ExistsByName(ctx context.Context, name, ward, excludeID string) (bool, error) {
	return m.nameTaken, nil
}

func (m *mockSchoolRepo) CreateWithRegistrationNumber(ctx context.Context, school *models.School, next func(last string) (string, error)) error {
	number, err := next(m.lastIssued)
	if err != nil {
		return err
	}
	school.RegistrationNumber = number
	m.created = school
	return nil
}

func (m *mockSchoolRepo) Update(ctx context.Context, school *models.School) error {
	return nil
}

func (m *mockSchoolRepo) UpdateLogoPath(ctx context.Context, id string, path *string) error {
	m.logoPath = path
	return nil
}

func (m *mockSchoolRepo) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

type mockSchoolAccreditations struct {
	latest *models.AccreditationState
}

func (m *mockSchoolAccreditations) LatestBySchool(ctx context.Context, schoolID string) (*models.AccreditationState, error) {
	return m.latest, nil
}

type mockSchoolSuspensions struct {
	active []models.SuspensionClosure
}

func (m *mockSchoolSuspensions) ActiveForSchool(ctx context.Context, schoolID string, day time.Time) ([]models.SuspensionClosure, error) {
	return m.active, nil
}

func newTestSchoolService(repo *mockSchoolRepo, suspensions *mockSchoolSuspensions, sessions *mockResolverSessions) *SchoolService {
	if suspensions == nil {
		suspensions = &mockSchoolSuspensions{}
	}
	if sessions == nil {
		sessions = &mockResolverSessions{}
	}
	identifiers := newTestIdentifierService(&mockNumberCheckers{})
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)
	return NewSchoolService(repo, identifiers, resolver, &mockSchoolAccreditations{}, suspensions, &mockFileStorage{}, validator.New(), zap.NewNop())
}

func validSchoolRequest() CreateSchoolRequest {
	return CreateSchoolRequest{
		Name:          "Government Junior Secondary School Dala",
		Type:          models.SchoolTypePublic,
		Program:       models.ProgramJSS,
		LGA:           "Dala",
		Ward:          "Kofar Mazugal",
		StreetAddress: "12 Airport Road",
		Phone:         "+2348030000000",
	}
}

func TestSchoolCreateAllocatesSequentialNumber(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.lastIssued = "1007"
	svc := newTestSchoolService(repo, nil, nil)

	school, err := svc.Create(context.Background(), validSchoolRequest())
	require.NoError(t, err)
	assert.Equal(t, "1008", school.RegistrationNumber)
}

func TestSchoolCreateFirstOfType(t *testing.T) {
	repo := newMockSchoolRepo()
	svc := newTestSchoolService(repo, nil, nil)

	school, err := svc.Create(context.Background(), validSchoolRequest())
	require.NoError(t, err)
	assert.Equal(t, "1001", school.RegistrationNumber)
}

func TestSchoolCreateDuplicateNameInWard(t *testing.T) {
	repo := newMockSchoolRepo()
	repo.nameTaken = true
	svc := newTestSchoolService(repo, nil, nil)

	_, err := svc.Create(context.Background(), validSchoolRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSchoolDetailDefaultsToOpen(t *testing.T) {
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS})
	svc := newTestSchoolService(repo, nil, nil)

	detail, err := svc.Detail(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, "open", detail.Status)
	assert.Nil(t, detail.CurrentSession)
}

func TestSchoolDetailSuspendedToday(t *testing.T) {
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS})
	suspensions := &mockSchoolSuspensions{active: []models.SuspensionClosure{{
		ID:            "sus-1",
		SchoolID:      "sch-1",
		Kind:          models.KindSuspension,
		SuspendedFrom: time.Now().UTC().AddDate(0, 0, -1),
		IsIndefinite:  true,
	}}}
	svc := newTestSchoolService(repo, suspensions, nil)

	detail, err := svc.Detail(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, "suspended", detail.Status)
	require.NotNil(t, detail.Suspension)
	assert.Equal(t, "sus-1", detail.Suspension.ID)
}

func TestSchoolDetailClosureWins(t *testing.T) {
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS})
	suspensions := &mockSchoolSuspensions{active: []models.SuspensionClosure{{
		ID:            "cls-1",
		SchoolID:      "sch-1",
		Kind:          models.KindClosure,
		SuspendedFrom: time.Now().UTC().AddDate(0, 0, -2),
		IsIndefinite:  true,
	}}}
	svc := newTestSchoolService(repo, suspensions, nil)

	detail, err := svc.Detail(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, "closed", detail.Status)
}

func TestSchoolDetailIgnoresFutureSuspension(t *testing.T) {
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS})
	suspensions := &mockSchoolSuspensions{active: []models.SuspensionClosure{{
		ID:            "sus-1",
		SchoolID:      "sch-1",
		Kind:          models.KindSuspension,
		SuspendedFrom: time.Now().UTC().AddDate(0, 0, 7),
		IsIndefinite:  true,
	}}}
	svc := newTestSchoolService(repo, suspensions, nil)

	detail, err := svc.Detail(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.Equal(t, "open", detail.Status)
	assert.Nil(t, detail.Suspension)
}

func TestSchoolDetailIncludesGoverningSession(t *testing.T) {
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: models.ProgramJSS})
	sessions := &mockResolverSessions{scoped: &models.AcademicSession{ID: "ses-1", Name: "2025/2026"}}
	svc := newTestSchoolService(repo, nil, sessions)

	detail, err := svc.Detail(context.Background(), "sch-1")
	require.NoError(t, err)
	require.NotNil(t, detail.CurrentSession)
	assert.Equal(t, "ses-1", detail.CurrentSession.ID)
}

func TestSchoolSetLogoReplacesPrevious(t *testing.T) {
	previous := "schools/sch-1/logo/old.png"
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", LogoPath: &previous})
	svc := newTestSchoolService(repo, nil, nil)
	storage := svc.storage.(*mockFileStorage)

	school, err := svc.SetLogo(context.Background(), "sch-1", "logo.png", []byte("img"))
	require.NoError(t, err)
	require.NotNil(t, school.LogoPath)
	assert.NotEqual(t, previous, *school.LogoPath)
	assert.Equal(t, []string{previous}, storage.removed)
}

func TestSchoolDeleteRemovesLogo(t *testing.T) {
	logo := "schools/sch-1/logo/logo.png"
	repo := newMockSchoolRepo(&models.School{ID: "sch-1", LogoPath: &logo})
	svc := newTestSchoolService(repo, nil, nil)
	storage := svc.storage.(*mockFileStorage)

	require.NoError(t, svc.Delete(context.Background(), "sch-1"))
	assert.Equal(t, "sch-1", repo.deleted)
	assert.Equal(t, []string{logo}, storage.removed)
}
