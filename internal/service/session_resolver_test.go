package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type mockResolverSessions struct {
	individual *models.AcademicSession
	scoped     *models.AcademicSession
	component  *models.AcademicSession

	individualCalls int
	scopedCalls     int
	componentCalls  int

	lastPrograms []models.Program
}

func (m *mockResolverSessions) FindOngoingForSchool(ctx context.Context, schoolID string, program models.Program) (*models.AcademicSession, error) {
	m.individualCalls++
	return m.individual, nil
}

func (m *mockResolverSessions) FindOngoingScoped(ctx context.Context, schoolType models.SchoolType, program models.Program) (*models.AcademicSession, error) {
	m.scopedCalls++
	return m.scoped, nil
}

func (m *mockResolverSessions) FindOngoingByPrograms(ctx context.Context, schoolType models.SchoolType, programs []models.Program) (*models.AcademicSession, error) {
	m.componentCalls++
	m.lastPrograms = programs
	return m.component, nil
}

type mockResolverTerms struct {
	terms []models.Term
}

func (m *mockResolverTerms) ListBySession(ctx context.Context, sessionID string) ([]models.Term, error) {
	return m.terms, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: make(map[string][]byte)}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.Clone(appErrors.ErrCacheMiss, "miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	if pattern == "session:resolved:*" {
		m.entries = make(map[string][]byte)
		return nil
	}
	delete(m.entries, pattern)
	return nil
}

func newTestResolver(sessions *mockResolverSessions, terms *mockResolverTerms, cacheRepo CacheRepository) *SessionResolver {
	var cache *CacheService
	if cacheRepo != nil {
		cache = NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	}
	return NewSessionResolver(sessions, terms, cache, nil, zap.NewNop())
}

func publicSchool(program models.Program) *models.School {
	return &models.School{ID: "sch-1", Type: models.SchoolTypePublic, Program: program}
}

func TestResolvePrefersIndividualSession(t *testing.T) {
	sessions := &mockResolverSessions{
		individual: &models.AcademicSession{ID: "ind", Scope: models.ScopeIndividual},
		scoped:     &models.AcademicSession{ID: "scoped", Scope: models.ScopePublic},
	}
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)

	got, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ind", got.ID)
	assert.Zero(t, sessions.scopedCalls)
}

func TestResolveFallsBackToScoped(t *testing.T) {
	sessions := &mockResolverSessions{
		scoped: &models.AcademicSession{ID: "scoped", Scope: models.ScopePublic},
	}
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)

	got, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "scoped", got.ID)
	assert.Equal(t, 1, sessions.individualCalls)
	assert.Zero(t, sessions.componentCalls)
}

func TestResolveCompoundProgramFallsBackToComponents(t *testing.T) {
	sessions := &mockResolverSessions{
		component: &models.AcademicSession{ID: "comp", Program: models.ProgramJSS},
	}
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)

	got, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSSSSS))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "comp", got.ID)
	assert.Equal(t, []models.Program{models.ProgramJSS, models.ProgramSSS}, sessions.lastPrograms)
}

func TestResolveSimpleProgramSkipsComponentLookup(t *testing.T) {
	sessions := &mockResolverSessions{}
	resolver := newTestResolver(sessions, &mockResolverTerms{}, nil)

	got, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramPrimary))
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, sessions.componentCalls)
}

func TestResolveCachesResolution(t *testing.T) {
	sessions := &mockResolverSessions{
		individual: &models.AcademicSession{ID: "ind", Name: "2025/2026"},
	}
	cacheRepo := newMemoryCacheRepo()
	resolver := newTestResolver(sessions, &mockResolverTerms{}, cacheRepo)

	first, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, sessions.individualCalls)
	assert.Equal(t, 1, cacheRepo.sets)
}

func TestInvalidateSchoolDropsCachedResolution(t *testing.T) {
	sessions := &mockResolverSessions{
		individual: &models.AcademicSession{ID: "ind"},
	}
	cacheRepo := newMemoryCacheRepo()
	resolver := newTestResolver(sessions, &mockResolverTerms{}, cacheRepo)

	_, err := resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)

	resolver.InvalidateSchool(context.Background(), "sch-1")

	_, err = resolver.Resolve(context.Background(), publicSchool(models.ProgramJSS))
	require.NoError(t, err)
	assert.Equal(t, 2, sessions.individualCalls)
}

func TestCurrentTermPicksCoveringTerm(t *testing.T) {
	terms := &mockResolverTerms{terms: []models.Term{
		{ID: "t1", Number: 1, StartDate: date(2025, 9, 1), EndDate: date(2025, 12, 12)},
		{ID: "t2", Number: 2, StartDate: date(2026, 1, 5), EndDate: date(2026, 4, 2)},
	}}
	resolver := newTestResolver(&mockResolverSessions{}, terms, nil)

	got, err := resolver.CurrentTerm(context.Background(), "ses-1", date(2026, 2, 10))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t2", got.ID)
}

func TestCurrentTermGapBetweenTerms(t *testing.T) {
	terms := &mockResolverTerms{terms: []models.Term{
		{ID: "t1", Number: 1, StartDate: date(2025, 9, 1), EndDate: date(2025, 12, 12)},
		{ID: "t2", Number: 2, StartDate: date(2026, 1, 5), EndDate: date(2026, 4, 2)},
	}}
	resolver := newTestResolver(&mockResolverSessions{}, terms, nil)

	got, err := resolver.CurrentTerm(context.Background(), "ses-1", date(2025, 12, 20))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
