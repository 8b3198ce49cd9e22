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

const enrollmentColumns = `id, student_id, school_id, academic_session_id, program, program_level, stream,
        enrollment_mode, admission_number, enrolled_at, active`

// EnrollmentRepository manages persistence for enrollment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollment records matching the provided filters.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentRecord, int, error) {
	base := "FROM enrollments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.SessionID != "" {
		conditions = append(conditions, fmt.Sprintf("academic_session_id = $%d", len(args)+1))
		args = append(args, filter.SessionID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Mode != "" {
		conditions = append(conditions, fmt.Sprintf("enrollment_mode = $%d", len(args)+1))
		args = append(args, filter.Mode)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY enrolled_at DESC LIMIT %d OFFSET %d", enrollmentColumns, base, size, offset)

	var records []models.EnrollmentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return records, total, nil
}

// FindByID fetches an enrollment record by ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments WHERE id = $1", enrollmentColumns)
	var record models.EnrollmentRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsForSession reports whether the student is already enrolled for the
// given session.
func (r *EnrollmentRepository) ExistsForSession(ctx context.Context, studentID, sessionID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM enrollments WHERE student_id = $1 AND academic_session_id = $2 LIMIT 1", studentID, sessionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// ExistsAdmissionNumber reports whether an admission number is taken
// within a school.
func (r *EnrollmentRepository) ExistsAdmissionNumber(ctx context.Context, schoolID, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM enrollments WHERE school_id = $1 AND admission_number = $2 LIMIT 1", schoolID, number)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check admission number: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, record *models.EnrollmentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.EnrolledAt.IsZero() {
		record.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, student_id, school_id, academic_session_id, program, program_level, stream,
        enrollment_mode, admission_number, enrolled_at, active)
        VALUES (:id, :student_id, :school_id, :academic_session_id, :program, :program_level, :stream,
        :enrollment_mode, :admission_number, :enrolled_at, :active)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return conflictOn(err, "admission_number", "an enrollment with this admission number already exists", "create enrollment")
	}
	return nil
}

// Deactivate marks an enrollment record inactive.
func (r *EnrollmentRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE enrollments SET active = false WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate enrollment: %w", err)
	}
	return nil
}

// CountBySchoolAndSession returns the number of active enrollments for a
// school in a session.
func (r *EnrollmentRepository) CountBySchoolAndSession(ctx context.Context, schoolID, sessionID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM enrollments WHERE school_id = $1 AND academic_session_id = $2 AND active = true", schoolID, sessionID)
	if err != nil {
		return 0, fmt.Errorf("count school enrollments: %w", err)
	}
	return count, nil
}
