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

const accreditationColumns = `id, school_id, accreditation_number, status, valid_from, valid_to, created_at`

// AccreditationRepository manages the accreditation history of schools.
type AccreditationRepository struct {
	db *sqlx.DB
}

// NewAccreditationRepository constructs an AccreditationRepository.
func NewAccreditationRepository(db *sqlx.DB) *AccreditationRepository {
	return &AccreditationRepository{db: db}
}

// ListBySchool returns a school's accreditation events, most recent first.
func (r *AccreditationRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.AccreditationState, error) {
	query := fmt.Sprintf("SELECT %s FROM accreditations WHERE school_id = $1 ORDER BY created_at DESC", accreditationColumns)
	var states []models.AccreditationState
	if err := r.db.SelectContext(ctx, &states, query, schoolID); err != nil {
		return nil, fmt.Errorf("list accreditations: %w", err)
	}
	return states, nil
}

// LatestBySchool returns a school's most recent accreditation event, or
// nil when the school has none.
func (r *AccreditationRepository) LatestBySchool(ctx context.Context, schoolID string) (*models.AccreditationState, error) {
	query := fmt.Sprintf("SELECT %s FROM accreditations WHERE school_id = $1 ORDER BY created_at DESC, id DESC LIMIT 1", accreditationColumns)
	var state models.AccreditationState
	if err := r.db.GetContext(ctx, &state, query, schoolID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest accreditation: %w", err)
	}
	return &state, nil
}

// ExistsNumber reports whether an accreditation number is taken.
func (r *AccreditationRepository) ExistsNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM accreditations WHERE accreditation_number = $1 LIMIT 1", number)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check accreditation number: %w", err)
	}
	return true, nil
}

// Create inserts a new accreditation event.
func (r *AccreditationRepository) Create(ctx context.Context, state *models.AccreditationState) error {
	if state.ID == "" {
		state.ID = uuid.NewString()
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO accreditations (id, school_id, accreditation_number, status, valid_from, valid_to, created_at)
        VALUES (:id, :school_id, :accreditation_number, :status, :valid_from, :valid_to, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, state); err != nil {
		return fmt.Errorf("create accreditation: %w", err)
	}
	return nil
}
