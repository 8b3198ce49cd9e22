package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/samses-ng/samses-api/internal/models"
)

const staffColumns = `id, school_id, first_name, last_name, role, phone, email, hired_at, active, created_at, updated_at`

// StaffRepository manages persistence for school staff and their salaries.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ListBySchool returns the staff of a school, optionally filtered by role.
func (r *StaffRepository) ListBySchool(ctx context.Context, schoolID string, role models.StaffRole) ([]models.Staff, error) {
	base := "FROM staff WHERE school_id = $1"
	args := []interface{}{schoolID}
	if role != "" {
		base += fmt.Sprintf(" AND role = $%d", len(args)+1)
		args = append(args, role)
	}
	query := fmt.Sprintf("SELECT %s %s ORDER BY last_name ASC, first_name ASC", staffColumns, base)
	var members []models.Staff
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return members, nil
}

// FindByID fetches a staff member by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.Staff, error) {
	query := fmt.Sprintf("SELECT %s FROM staff WHERE id = $1", staffColumns)
	var member models.Staff
	if err := r.db.GetContext(ctx, &member, query, id); err != nil {
		return nil, err
	}
	return &member, nil
}

// Create inserts a new staff member.
func (r *StaffRepository) Create(ctx context.Context, member *models.Staff) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	const query = `INSERT INTO staff (id, school_id, first_name, last_name, role, phone, email, hired_at, active, created_at, updated_at)
        VALUES (:id, :school_id, :first_name, :last_name, :role, :phone, :email, :hired_at, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update modifies an existing staff member.
func (r *StaffRepository) Update(ctx context.Context, member *models.Staff) error {
	member.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET first_name = :first_name, last_name = :last_name, role = :role, phone = :phone,
        email = :email, hired_at = :hired_at, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, member); err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return nil
}

// Deactivate marks a staff member inactive.
func (r *StaffRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE staff SET active = false, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate staff: %w", err)
	}
	return nil
}

// ListSalaries returns the pay history of a staff member, most recent first.
func (r *StaffRepository) ListSalaries(ctx context.Context, staffID string) ([]models.Salary, error) {
	var salaries []models.Salary
	const query = `SELECT id, staff_id, amount, pay_date FROM salaries WHERE staff_id = $1 ORDER BY pay_date DESC NULLS LAST`
	if err := r.db.SelectContext(ctx, &salaries, query, staffID); err != nil {
		return nil, fmt.Errorf("list salaries: %w", err)
	}
	return salaries, nil
}

// CreateSalary records one pay event.
func (r *StaffRepository) CreateSalary(ctx context.Context, salary *models.Salary) error {
	if salary.ID == "" {
		salary.ID = uuid.NewString()
	}
	const query = `INSERT INTO salaries (id, staff_id, amount, pay_date) VALUES (:id, :staff_id, :amount, :pay_date)`
	if _, err := r.db.NamedExecContext(ctx, query, salary); err != nil {
		return fmt.Errorf("create salary: %w", err)
	}
	return nil
}

// CountByRole returns active staff counts per role for a school.
func (r *StaffRepository) CountByRole(ctx context.Context, schoolID string) (map[models.StaffRole]int, error) {
	rows, err := r.db.QueryxContext(ctx,
		`SELECT role, COUNT(*) FROM staff WHERE school_id = $1 AND active = true GROUP BY role`, schoolID)
	if err != nil {
		return nil, fmt.Errorf("count staff by role: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.StaffRole]int)
	for rows.Next() {
		var role models.StaffRole
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return nil, fmt.Errorf("scan staff role count: %w", err)
		}
		counts[role] = n
	}
	return counts, rows.Err()
}
