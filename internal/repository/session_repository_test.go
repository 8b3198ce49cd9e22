package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samses-ng/samses-api/internal/models"
)

func newSessionMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func sessionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "school_type", "program", "school_id", "session_name", "status", "start_date", "end_date", "created_at", "updated_at"})
}

func TestSessionRepositoryFindOngoingForSchool(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	schoolID := "school-1"
	rows := sessionRows().
		AddRow("sess-1", models.ScopeIndividual, models.ProgramJSS, &schoolID, "2025/2026", models.SessionOngoing, time.Now(), time.Now(), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_sessions")).
		WithArgs(models.ScopeIndividual, schoolID, models.ProgramJSS, models.SessionOngoing).
		WillReturnRows(rows)

	session, err := repo.FindOngoingForSchool(context.Background(), schoolID, models.ProgramJSS)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "sess-1", session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindOngoingScopedNone(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM academic_sessions")).
		WithArgs(models.ScopePublic, models.ScopeAll, models.ProgramSSS, models.SessionOngoing).
		WillReturnRows(sessionRows())

	session, err := repo.FindOngoingScoped(context.Background(), models.SchoolTypePublic, models.ProgramSSS)
	require.NoError(t, err)
	assert.Nil(t, session)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindOngoingByPrograms(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	rows := sessionRows().
		AddRow("sess-2", models.ScopeAll, models.ProgramJSS, nil, "2025/2026", models.SessionOngoing, time.Now(), time.Now(), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("program IN (")).
		WithArgs(models.ScopeCommunity, models.ScopeAll, models.ProgramJSS, models.ProgramSSS, models.SessionOngoing).
		WillReturnRows(rows)

	session, err := repo.FindOngoingByPrograms(context.Background(), models.SchoolTypeCommunity, []models.Program{models.ProgramJSS, models.ProgramSSS})
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "sess-2", session.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryFindOngoingByProgramsEmpty(t *testing.T) {
	db, _, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	session, err := repo.FindOngoingByPrograms(context.Background(), models.SchoolTypePublic, nil)
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestSessionRepositoryCompleteAllOngoing(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_sessions SET status = $1")).
		WithArgs(models.SessionCompleted, sqlmock.AnyArg(), models.SessionOngoing).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := repo.CompleteAllOngoing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryCompleteAllOngoingRepeat(t *testing.T) {
	db, mock, cleanup := newSessionMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE academic_sessions SET status = $1")).
		WithArgs(models.SessionCompleted, sqlmock.AnyArg(), models.SessionOngoing).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.CompleteAllOngoing(context.Background())
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
