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

const schoolColumns = `id, name, abbreviation, motto, established_date, school_type, program, is_vocational,
        registration_number, logo_path, lga, city, ward, street_address, phone, email, website,
        latitude, longitude, created_at, updated_at`

// SchoolRepository manages persistence for school records.
type SchoolRepository struct {
	db *sqlx.DB
}

// NewSchoolRepository constructs a SchoolRepository.
func NewSchoolRepository(db *sqlx.DB) *SchoolRepository {
	return &SchoolRepository{db: db}
}

// List returns schools matching the provided filters.
func (r *SchoolRepository) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error) {
	base := "FROM schools WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("school_type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.LGA != "" {
		conditions = append(conditions, fmt.Sprintf("lga = $%d", len(args)+1))
		args = append(args, filter.LGA)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(name) LIKE $%d OR registration_number LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":                true,
		"registration_number": true,
		"lga":                 true,
		"created_at":          true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", schoolColumns, base, sortBy, order, size, offset)

	var schools []models.School
	if err := r.db.SelectContext(ctx, &schools, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schools: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schools: %w", err)
	}
	return schools, total, nil
}

// FindByID fetches a school by ID.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM schools WHERE id = $1", schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// FindByRegistrationNumber fetches a school by its registration number.
func (r *SchoolRepository) FindByRegistrationNumber(ctx context.Context, number string) (*models.School, error) {
	query := fmt.Sprintf("SELECT %s FROM schools WHERE registration_number = $1", schoolColumns)
	var school models.School
	if err := r.db.GetContext(ctx, &school, query, number); err != nil {
		return nil, err
	}
	return &school, nil
}

// ExistsByName checks if a school with the given name exists in the same
// ward, optionally excluding an ID.
func (r *SchoolRepository) ExistsByName(ctx context.Context, name, ward, excludeID string) (bool, error) {
	query := "SELECT 1 FROM schools WHERE LOWER(name) = LOWER($1) AND ward = $2"
	args := []interface{}{name, ward}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check school name: %w", err)
	}
	return true, nil
}

// CreateWithRegistrationNumber inserts a school, allocating its sequential
// registration number inside the same transaction. The last issued number
// for the school's type is read under FOR UPDATE so concurrent creates of
// the same type serialize, and next turns that number (empty when the type
// has no schools yet) into the one to assign.
func (r *SchoolRepository) CreateWithRegistrationNumber(ctx context.Context, school *models.School, next func(last string) (string, error)) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create school tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Longest number first so "11000" sorts above "1999" once a type's
	// sequence grows past three digits.
	var last string
	err = tx.GetContext(ctx, &last,
		`SELECT registration_number FROM schools WHERE school_type = $1 ORDER BY length(registration_number) DESC, registration_number DESC LIMIT 1 FOR UPDATE`,
		school.Type)
	if err != nil {
		if err != sql.ErrNoRows {
			return fmt.Errorf("read last registration number: %w", err)
		}
		last = ""
		err = nil
	}

	number, err := next(last)
	if err != nil {
		return fmt.Errorf("allocate registration number: %w", err)
	}
	school.RegistrationNumber = number

	if school.ID == "" {
		school.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if school.CreatedAt.IsZero() {
		school.CreatedAt = now
	}
	school.UpdatedAt = now

	const query = `INSERT INTO schools (id, name, abbreviation, motto, established_date, school_type, program, is_vocational,
        registration_number, logo_path, lga, city, ward, street_address, phone, email, website,
        latitude, longitude, created_at, updated_at)
        VALUES (:id, :name, :abbreviation, :motto, :established_date, :school_type, :program, :is_vocational,
        :registration_number, :logo_path, :lga, :city, :ward, :street_address, :phone, :email, :website,
        :latitude, :longitude, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, school); err != nil {
		err = conflictOn(err, "registration_number", "a school with this registration number already exists", "create school")
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create school tx: %w", err)
	}
	return nil
}

// Update modifies an existing school. Type, program and registration number
// are immutable after creation and are not touched here.
func (r *SchoolRepository) Update(ctx context.Context, school *models.School) error {
	school.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schools SET name = :name, abbreviation = :abbreviation, motto = :motto,
        established_date = :established_date, is_vocational = :is_vocational, logo_path = :logo_path,
        lga = :lga, city = :city, ward = :ward, street_address = :street_address,
        phone = :phone, email = :email, website = :website,
        latitude = :latitude, longitude = :longitude, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return nil
}

// UpdateLogoPath stores the path of the school's uploaded logo.
func (r *SchoolRepository) UpdateLogoPath(ctx context.Context, id string, path *string) error {
	const query = `UPDATE schools SET logo_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("update school logo: %w", err)
	}
	return nil
}

// Delete removes a school permanently.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schools WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return nil
}

// CountByType returns the number of schools per school type.
func (r *SchoolRepository) CountByType(ctx context.Context) (map[models.SchoolType]int, error) {
	rows, err := r.db.QueryxContext(ctx, `SELECT school_type, COUNT(*) FROM schools GROUP BY school_type`)
	if err != nil {
		return nil, fmt.Errorf("count schools by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SchoolType]int)
	for rows.Next() {
		var t models.SchoolType
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan school type count: %w", err)
		}
		counts[t] = n
	}
	return counts, rows.Err()
}
