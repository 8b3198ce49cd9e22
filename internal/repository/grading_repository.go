package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

// GradingRepository manages grading scales, boundaries and subject configs.
type GradingRepository struct {
	db *sqlx.DB
}

// NewGradingRepository constructs a GradingRepository.
func NewGradingRepository(db *sqlx.DB) *GradingRepository {
	return &GradingRepository{db: db}
}

// ListScales returns every grading scale.
func (r *GradingRepository) ListScales(ctx context.Context) ([]models.GradingScale, error) {
	var scales []models.GradingScale
	const query = `SELECT id, scale_name, description, created_at, updated_at FROM grading_scales ORDER BY scale_name ASC`
	if err := r.db.SelectContext(ctx, &scales, query); err != nil {
		return nil, fmt.Errorf("list grading scales: %w", err)
	}
	return scales, nil
}

// FindScaleByID loads a grading scale by identifier.
func (r *GradingRepository) FindScaleByID(ctx context.Context, id string) (*models.GradingScale, error) {
	const query = `SELECT id, scale_name, description, created_at, updated_at FROM grading_scales WHERE id = $1`
	var scale models.GradingScale
	if err := r.db.GetContext(ctx, &scale, query, id); err != nil {
		return nil, err
	}
	return &scale, nil
}

// ExistsScaleName checks whether a scale name is taken, optionally
// excluding an ID.
func (r *GradingRepository) ExistsScaleName(ctx context.Context, name, excludeID string) (bool, error) {
	query := "SELECT 1 FROM grading_scales WHERE LOWER(scale_name) = LOWER($1)"
	args := []interface{}{name}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check scale name: %w", err)
	}
	return true, nil
}

// CreateScale inserts a new grading scale.
func (r *GradingRepository) CreateScale(ctx context.Context, scale *models.GradingScale) error {
	if scale.ID == "" {
		scale.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if scale.CreatedAt.IsZero() {
		scale.CreatedAt = now
	}
	scale.UpdatedAt = now
	const query = `INSERT INTO grading_scales (id, scale_name, description, created_at, updated_at)
        VALUES (:id, :scale_name, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scale); err != nil {
		return fmt.Errorf("create grading scale: %w", err)
	}
	return nil
}

// UpdateScale modifies an existing grading scale.
func (r *GradingRepository) UpdateScale(ctx context.Context, scale *models.GradingScale) error {
	scale.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grading_scales SET scale_name = :scale_name, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, scale); err != nil {
		return fmt.Errorf("update grading scale: %w", err)
	}
	return nil
}

// DeleteScale removes a grading scale and its boundaries.
func (r *GradingRepository) DeleteScale(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grading_scales WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grading scale: %w", err)
	}
	return nil
}

// ListBoundaries returns the boundaries of a scale ordered by lower bound.
func (r *GradingRepository) ListBoundaries(ctx context.Context, scaleID string) ([]models.GradeBoundary, error) {
	var boundaries []models.GradeBoundary
	const query = `SELECT id, grading_scale_id, grade, lower_bound, upper_bound, description
        FROM grade_boundaries WHERE grading_scale_id = $1 ORDER BY lower_bound ASC`
	if err := r.db.SelectContext(ctx, &boundaries, query, scaleID); err != nil {
		return nil, fmt.Errorf("list grade boundaries: %w", err)
	}
	return boundaries, nil
}

// CreateBoundary inserts a grade boundary.
func (r *GradingRepository) CreateBoundary(ctx context.Context, boundary *models.GradeBoundary) error {
	if boundary.ID == "" {
		boundary.ID = uuid.NewString()
	}
	const query = `INSERT INTO grade_boundaries (id, grading_scale_id, grade, lower_bound, upper_bound, description)
        VALUES (:id, :grading_scale_id, :grade, :lower_bound, :upper_bound, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, boundary); err != nil {
		return fmt.Errorf("create grade boundary: %w", err)
	}
	return nil
}

// DeleteBoundary removes a grade boundary.
func (r *GradingRepository) DeleteBoundary(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM grade_boundaries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete grade boundary: %w", err)
	}
	return nil
}

// ListSubjectConfigs returns grading configs for a subject.
func (r *GradingRepository) ListSubjectConfigs(ctx context.Context, subjectID string) ([]models.SubjectGradingConfig, error) {
	var configs []models.SubjectGradingConfig
	const query = `SELECT id, subject_id, grading_scale_id, weightage, created_at
        FROM subject_grading_configs WHERE subject_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &configs, query, subjectID); err != nil {
		return nil, fmt.Errorf("list subject grading configs: %w", err)
	}
	return configs, nil
}

// ExistsSubjectConfig reports whether a subject already uses a scale.
func (r *GradingRepository) ExistsSubjectConfig(ctx context.Context, subjectID, scaleID string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists,
		"SELECT 1 FROM subject_grading_configs WHERE subject_id = $1 AND grading_scale_id = $2 LIMIT 1", subjectID, scaleID)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check subject grading config: %w", err)
	}
	return true, nil
}

// CreateSubjectConfig assigns a grading scale to a subject.
func (r *GradingRepository) CreateSubjectConfig(ctx context.Context, config *models.SubjectGradingConfig) error {
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if config.CreatedAt.IsZero() {
		config.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO subject_grading_configs (id, subject_id, grading_scale_id, weightage, created_at)
        VALUES (:id, :subject_id, :grading_scale_id, :weightage, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, config); err != nil {
		return fmt.Errorf("create subject grading config: %w", err)
	}
	return nil
}

// DeleteSubjectConfig removes a subject grading config.
func (r *GradingRepository) DeleteSubjectConfig(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM subject_grading_configs WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete subject grading config: %w", err)
	}
	return nil
}
