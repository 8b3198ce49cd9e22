package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

const suspensionColumns = `id, school_id, is_statewide, suspension_type, reason, suspended_from, suspended_to,
        is_indefinite, is_dropped, created_at, updated_at`

// SuspensionRepository manages suspension and closure records.
type SuspensionRepository struct {
	db *sqlx.DB
}

// NewSuspensionRepository constructs a SuspensionRepository.
func NewSuspensionRepository(db *sqlx.DB) *SuspensionRepository {
	return &SuspensionRepository{db: db}
}

// ListBySchool returns a school's suspension records plus any statewide
// records, most recent first.
func (r *SuspensionRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.SuspensionClosure, error) {
	query := fmt.Sprintf(`SELECT %s FROM suspension_closures
        WHERE school_id = $1 OR is_statewide = true ORDER BY suspended_from DESC`, suspensionColumns)
	var records []models.SuspensionClosure
	if err := r.db.SelectContext(ctx, &records, query, schoolID); err != nil {
		return nil, fmt.Errorf("list suspensions: %w", err)
	}
	return records, nil
}

// ActiveForSchool returns the records that could affect the given school
// on the given day: not dropped, already started, and either still open
// ended or ending on or after the day. AffectsDate makes the final call.
func (r *SuspensionRepository) ActiveForSchool(ctx context.Context, schoolID string, day time.Time) ([]models.SuspensionClosure, error) {
	query := fmt.Sprintf(`SELECT %s FROM suspension_closures
        WHERE (school_id = $1 OR is_statewide = true) AND is_dropped = false AND suspended_from <= $2
        AND (is_indefinite = true OR suspended_to >= $2)
        ORDER BY suspended_from DESC`, suspensionColumns)
	var records []models.SuspensionClosure
	if err := r.db.SelectContext(ctx, &records, query, schoolID, day); err != nil {
		return nil, fmt.Errorf("active suspensions: %w", err)
	}
	return records, nil
}

// FindByID loads a suspension record by identifier.
func (r *SuspensionRepository) FindByID(ctx context.Context, id string) (*models.SuspensionClosure, error) {
	query := fmt.Sprintf("SELECT %s FROM suspension_closures WHERE id = $1", suspensionColumns)
	var record models.SuspensionClosure
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a suspension or closure record.
func (r *SuspensionRepository) Create(ctx context.Context, record *models.SuspensionClosure) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO suspension_closures (id, school_id, is_statewide, suspension_type, reason, suspended_from,
        suspended_to, is_indefinite, is_dropped, created_at, updated_at)
        VALUES (:id, :school_id, :is_statewide, :suspension_type, :reason, :suspended_from,
        :suspended_to, :is_indefinite, :is_dropped, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create suspension: %w", err)
	}
	return nil
}

// Update modifies an existing suspension record.
func (r *SuspensionRepository) Update(ctx context.Context, record *models.SuspensionClosure) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE suspension_closures SET suspension_type = :suspension_type, reason = :reason,
        suspended_from = :suspended_from, suspended_to = :suspended_to, is_indefinite = :is_indefinite,
        is_dropped = :is_dropped, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("update suspension: %w", err)
	}
	return nil
}

// Drop marks a suspension record dropped so it no longer affects any date.
func (r *SuspensionRepository) Drop(ctx context.Context, id string) error {
	const query = `UPDATE suspension_closures SET is_dropped = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("drop suspension: %w", err)
	}
	return nil
}
