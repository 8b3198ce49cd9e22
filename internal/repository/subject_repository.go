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

const subjectColumns = `id, subject_name, program, is_general, is_optional, school_id, created_at, updated_at`

// SubjectRepository manages persistence for the subject repository.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// List returns subjects matching the provided filters. When SchoolID is
// set, ministry-wide rows (NULL school) are included alongside the
// school's own additions.
func (r *SubjectRepository) List(ctx context.Context, filter models.SubjectFilter) ([]models.Subject, int, error) {
	base := "FROM subjects WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("(school_id IS NULL OR school_id = $%d)", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.IsGeneral != nil {
		conditions = append(conditions, fmt.Sprintf("is_general = $%d", len(args)+1))
		args = append(args, *filter.IsGeneral)
	}
	if filter.IsOptional != nil {
		conditions = append(conditions, fmt.Sprintf("is_optional = $%d", len(args)+1))
		args = append(args, *filter.IsOptional)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(subject_name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY subject_name ASC LIMIT %d OFFSET %d", subjectColumns, base, size, offset)

	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list subjects: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count subjects: %w", err)
	}
	return subjects, total, nil
}

// FindByID fetches a subject by ID.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ExistsByName checks whether a subject with the same name exists for the
// same program and school scope, optionally excluding an ID.
func (r *SubjectRepository) ExistsByName(ctx context.Context, subject *models.Subject, excludeID string) (bool, error) {
	query := "SELECT 1 FROM subjects WHERE LOWER(subject_name) = LOWER($1) AND program = $2"
	args := []interface{}{subject.Name, subject.Program}
	if subject.SchoolID != nil {
		query += fmt.Sprintf(" AND school_id = $%d", len(args)+1)
		args = append(args, *subject.SchoolID)
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
		return false, fmt.Errorf("check subject name: %w", err)
	}
	return true, nil
}

// Create inserts a new subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	if subject.ID == "" {
		subject.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if subject.CreatedAt.IsZero() {
		subject.CreatedAt = now
	}
	subject.UpdatedAt = now
	const query = `INSERT INTO subjects (id, subject_name, program, is_general, is_optional, school_id, created_at, updated_at)
        VALUES (:id, :subject_name, :program, :is_general, :is_optional, :school_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("create subject: %w", err)
	}
	return nil
}

// Update modifies an existing subject.
func (r *SubjectRepository) Update(ctx context.Context, subject *models.Subject) error {
	subject.UpdatedAt = time.Now().UTC()
	const query = `UPDATE subjects SET subject_name = :subject_name, program = :program, is_general = :is_general,
        is_optional = :is_optional, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, subject); err != nil {
		return fmt.Errorf("update subject: %w", err)
	}
	return nil
}

// Delete removes a subject permanently.
func (r *SubjectRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	return nil
}
