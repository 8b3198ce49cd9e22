package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

const sessionColumns = `id, school_type, program, school_id, session_name, status, start_date, end_date, created_at, updated_at`

// SessionRepository handles persistence for academic sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// List returns sessions matching the provided filters.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.AcademicSession, int, error) {
	base := "FROM academic_sessions WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Scope != "" {
		conditions = append(conditions, fmt.Sprintf("school_type = $%d", len(args)+1))
		args = append(args, filter.Scope)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"session_name": true,
		"start_date":   true,
		"end_date":     true,
		"created_at":   true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "start_date"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", sessionColumns, base, sortBy, order, size, offset)

	var sessions []models.AcademicSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}
	return sessions, total, nil
}

// FindByID loads a session by identifier.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.AcademicSession, error) {
	query := fmt.Sprintf("SELECT %s FROM academic_sessions WHERE id = $1", sessionColumns)
	var session models.AcademicSession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ExistsByName checks whether a session with the same name already exists
// for the same scope, program and school, optionally excluding an ID.
func (r *SessionRepository) ExistsByName(ctx context.Context, session *models.AcademicSession, excludeID string) (bool, error) {
	query := "SELECT 1 FROM academic_sessions WHERE session_name = $1 AND school_type = $2 AND program = $3"
	args := []interface{}{session.Name, session.Scope, session.Program}
	if session.SchoolID != nil {
		query += fmt.Sprintf(" AND school_id = $%d", len(args)+1)
		args = append(args, *session.SchoolID)
	} else {
		query += " AND school_id IS NULL"
	}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check session uniqueness: %w", err)
	}
	return true, nil
}

// FindOngoingForSchool returns the ongoing session created specifically
// for the given school and program, if any. Ties break on the earliest
// start date, then creation time, then ID, so repeated lookups always pick
// the same row.
func (r *SessionRepository) FindOngoingForSchool(ctx context.Context, schoolID string, program models.Program) (*models.AcademicSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_sessions
        WHERE school_type = $1 AND school_id = $2 AND program = $3 AND status = $4
        ORDER BY start_date ASC, created_at ASC, id ASC LIMIT 1`, sessionColumns)
	var session models.AcademicSession
	err := r.db.GetContext(ctx, &session, query, models.ScopeIndividual, schoolID, program, models.SessionOngoing)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find school session: %w", err)
	}
	return &session, nil
}

// FindOngoingScoped returns the ongoing session whose scope is either the
// given school type or "all" and whose program exactly matches. Same
// deterministic ordering as FindOngoingForSchool.
func (r *SessionRepository) FindOngoingScoped(ctx context.Context, schoolType models.SchoolType, program models.Program) (*models.AcademicSession, error) {
	query := fmt.Sprintf(`SELECT %s FROM academic_sessions
        WHERE school_type IN ($1, $2) AND program = $3 AND status = $4 AND school_id IS NULL
        ORDER BY start_date ASC, created_at ASC, id ASC LIMIT 1`, sessionColumns)
	var session models.AcademicSession
	err := r.db.GetContext(ctx, &session, query, models.SessionScope(schoolType), models.ScopeAll, program, models.SessionOngoing)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find scoped session: %w", err)
	}
	return &session, nil
}

// FindOngoingByPrograms returns the ongoing session whose scope is either
// the given school type or "all" and whose program is one of the supplied
// components. Used when a compound school program is decomposed into its
// single-level parts.
func (r *SessionRepository) FindOngoingByPrograms(ctx context.Context, schoolType models.SchoolType, programs []models.Program) (*models.AcademicSession, error) {
	if len(programs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(programs))
	args := []interface{}{models.SessionScope(schoolType), models.ScopeAll}
	for i, p := range programs {
		placeholders[i] = fmt.Sprintf("$%d", len(args)+1)
		args = append(args, p)
	}
	args = append(args, models.SessionOngoing)
	query := fmt.Sprintf(`SELECT %s FROM academic_sessions
        WHERE school_type IN ($1, $2) AND program IN (%s) AND status = $%d AND school_id IS NULL
        ORDER BY start_date ASC, created_at ASC, id ASC LIMIT 1`, sessionColumns, strings.Join(placeholders, ", "), len(args))
	var session models.AcademicSession
	err := r.db.GetContext(ctx, &session, query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find session by programs: %w", err)
	}
	return &session, nil
}

// Create inserts a new academic session.
func (r *SessionRepository) Create(ctx context.Context, session *models.AcademicSession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now
	const query = `INSERT INTO academic_sessions (id, school_type, program, school_id, session_name, status, start_date, end_date, created_at, updated_at)
        VALUES (:id, :school_type, :program, :school_id, :session_name, :status, :start_date, :end_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return conflictOn(err, "session_name", "a session with this name already exists for this scope", "create session")
	}
	return nil
}

// Update modifies an existing session.
func (r *SessionRepository) Update(ctx context.Context, session *models.AcademicSession) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE academic_sessions SET school_type = :school_type, program = :program, school_id = :school_id,
        session_name = :session_name, status = :status, start_date = :start_date, end_date = :end_date, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// UpdateStatus transitions a session to the given status.
func (r *SessionRepository) UpdateStatus(ctx context.Context, id string, status models.SessionStatus) error {
	const query = `UPDATE academic_sessions SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	return nil
}

// CompleteAllOngoing marks every ongoing session completed in one
// statement and reports how many rows changed. Running it twice in a row
// is harmless: the second call matches nothing.
func (r *SessionRepository) CompleteAllOngoing(ctx context.Context) (int64, error) {
	const query = `UPDATE academic_sessions SET status = $1, updated_at = $2 WHERE status = $3`
	result, err := r.db.ExecContext(ctx, query, models.SessionCompleted, time.Now().UTC(), models.SessionOngoing)
	if err != nil {
		return 0, fmt.Errorf("complete ongoing sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count completed sessions: %w", err)
	}
	return affected, nil
}

// Delete removes a session permanently. Terms cascade at the schema level.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM academic_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
