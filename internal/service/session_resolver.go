package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type resolverSessionRepository interface {
	FindOngoingForSchool(ctx context.Context, schoolID string, program models.Program) (*models.AcademicSession, error)
	FindOngoingScoped(ctx context.Context, schoolType models.SchoolType, program models.Program) (*models.AcademicSession, error)
	FindOngoingByPrograms(ctx context.Context, schoolType models.SchoolType, programs []models.Program) (*models.AcademicSession, error)
}

type resolverTermRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]models.Term, error)
}

// SessionResolver finds the academic session governing a school. Lookups
// walk a fixed priority order and stop at the first hit:
//
//  1. an ongoing session created for this school specifically, matching
//     the school's exact program;
//  2. an ongoing session scoped to the school's type or to all schools,
//     matching the exact program;
//  3. for compound programs only, the same scoped lookup against the
//     program's single-level components;
//  4. nothing: the school is not governed by any session right now.
//
// Only ongoing sessions participate. Resolved sessions are cached per
// school and the cache is invalidated whenever sessions change.
type SessionResolver struct {
	sessions resolverSessionRepository
	terms    resolverTermRepository
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSessionResolver constructs a SessionResolver.
func NewSessionResolver(sessions resolverSessionRepository, terms resolverTermRepository, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionResolver{sessions: sessions, terms: terms, cache: cache, metrics: metrics, logger: logger}
}

func resolveCacheKey(schoolID string) string {
	return fmt.Sprintf("session:resolved:%s", schoolID)
}

// Resolve returns the session governing the school, or nil when none does.
func (s *SessionResolver) Resolve(ctx context.Context, school *models.School) (*models.AcademicSession, error) {
	start := time.Now()

	var cached models.AcademicSession
	if s.cache.Get(ctx, resolveCacheKey(school.ID), &cached) {
		s.metrics.ObserveSessionResolve("cached", time.Since(start))
		return &cached, nil
	}

	session, err := s.sessions.FindOngoingForSchool(ctx, school.ID, school.Program)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session")
	}
	outcome := "individual"

	if session == nil {
		session, err = s.sessions.FindOngoingScoped(ctx, school.Type, school.Program)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session")
		}
		outcome = "scoped"
	}

	if session == nil && school.Program.IsCompound() {
		session, err = s.sessions.FindOngoingByPrograms(ctx, school.Type, school.Program.Components())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve session")
		}
		outcome = "component"
	}

	if session == nil {
		s.metrics.ObserveSessionResolve("none", time.Since(start))
		return nil, nil
	}

	s.metrics.ObserveSessionResolve(outcome, time.Since(start))
	s.cache.Set(ctx, resolveCacheKey(school.ID), session)
	return session, nil
}

// CurrentTerm returns the session's term covering today, or nil when the
// date falls in a gap between terms.
func (s *SessionResolver) CurrentTerm(ctx context.Context, sessionID string, today time.Time) (*models.Term, error) {
	terms, err := s.terms.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load terms")
	}
	for i := range terms {
		if terms[i].Covers(today) {
			return &terms[i], nil
		}
	}
	return nil, nil
}

// InvalidateSchool drops the cached resolution for one school.
func (s *SessionResolver) InvalidateSchool(ctx context.Context, schoolID string) {
	s.cache.Invalidate(ctx, resolveCacheKey(schoolID))
}

// InvalidateAll drops every cached resolution. Called when sessions are
// created, updated or batch completed, since a scoped session can govern
// any number of schools.
func (s *SessionResolver) InvalidateAll(ctx context.Context) {
	s.cache.Invalidate(ctx, "session:resolved:*")
}
