package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

const infraColumns = `id, school_id, kind, quantity, capacity, detail, description, created_at, updated_at`

// InfrastructureRepository manages per-school infrastructure inventory and
// the images attached to it.
type InfrastructureRepository struct {
	db *sqlx.DB
}

// NewInfrastructureRepository constructs an InfrastructureRepository.
func NewInfrastructureRepository(db *sqlx.DB) *InfrastructureRepository {
	return &InfrastructureRepository{db: db}
}

// ListBySchool returns every inventory row of a school.
func (r *InfrastructureRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.InfrastructureRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM infrastructure_records WHERE school_id = $1 ORDER BY kind ASC", infraColumns)
	var records []models.InfrastructureRecord
	if err := r.db.SelectContext(ctx, &records, query, schoolID); err != nil {
		return nil, fmt.Errorf("list infrastructure: %w", err)
	}
	return records, nil
}

// FindByKind loads a school's inventory row for one kind.
func (r *InfrastructureRepository) FindByKind(ctx context.Context, schoolID string, kind models.InfrastructureKind) (*models.InfrastructureRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM infrastructure_records WHERE school_id = $1 AND kind = $2", infraColumns)
	var record models.InfrastructureRecord
	if err := r.db.GetContext(ctx, &record, query, schoolID, kind); err != nil {
		return nil, err
	}
	return &record, nil
}

// Upsert inserts or replaces the inventory row for (school, kind).
func (r *InfrastructureRepository) Upsert(ctx context.Context, record *models.InfrastructureRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	const query = `INSERT INTO infrastructure_records (id, school_id, kind, quantity, capacity, detail, description, created_at, updated_at)
        VALUES (:id, :school_id, :kind, :quantity, :capacity, :detail, :description, :created_at, :updated_at)
        ON CONFLICT (school_id, kind) DO UPDATE SET quantity = EXCLUDED.quantity, capacity = EXCLUDED.capacity,
        detail = EXCLUDED.detail, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("upsert infrastructure: %w", err)
	}
	return nil
}

// Delete removes a school's inventory row for one kind.
func (r *InfrastructureRepository) Delete(ctx context.Context, schoolID string, kind models.InfrastructureKind) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM infrastructure_records WHERE school_id = $1 AND kind = $2`, schoolID, kind); err != nil {
		return fmt.Errorf("delete infrastructure: %w", err)
	}
	return nil
}

// CountImages returns how many images a school has for one kind.
func (r *InfrastructureRepository) CountImages(ctx context.Context, schoolID string, kind models.InfrastructureKind) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM school_images WHERE school_id = $1 AND kind = $2", schoolID, kind)
	if err != nil {
		return 0, fmt.Errorf("count school images: %w", err)
	}
	return count, nil
}

// ListImages returns a school's images for one kind.
func (r *InfrastructureRepository) ListImages(ctx context.Context, schoolID string, kind models.InfrastructureKind) ([]models.SchoolImage, error) {
	var images []models.SchoolImage
	const query = `SELECT id, school_id, kind, path, created_at FROM school_images WHERE school_id = $1 AND kind = $2 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &images, query, schoolID, kind); err != nil {
		return nil, fmt.Errorf("list school images: %w", err)
	}
	return images, nil
}

// AddImage records an uploaded image.
func (r *InfrastructureRepository) AddImage(ctx context.Context, image *models.SchoolImage) error {
	if image.ID == "" {
		image.ID = uuid.NewString()
	}
	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO school_images (id, school_id, kind, path, created_at)
        VALUES (:id, :school_id, :kind, :path, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, image); err != nil {
		return fmt.Errorf("add school image: %w", err)
	}
	return nil
}

// FindImage loads one image row.
func (r *InfrastructureRepository) FindImage(ctx context.Context, id string) (*models.SchoolImage, error) {
	const query = `SELECT id, school_id, kind, path, created_at FROM school_images WHERE id = $1`
	var image models.SchoolImage
	if err := r.db.GetContext(ctx, &image, query, id); err != nil {
		return nil, err
	}
	return &image, nil
}

// DeleteImage removes one image row.
func (r *InfrastructureRepository) DeleteImage(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM school_images WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete school image: %w", err)
	}
	return nil
}
