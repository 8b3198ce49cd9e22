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

const studentColumns = `id, first_name, last_name, middle_name, nin_number, date_of_birth, gender, blood_group, genotype,
        disability_status, country_of_birth, state_of_origin, place_of_birth, address, passport_path,
        school_id, registration_number, active, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	base := "FROM students WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.SchoolID != "" {
		conditions = append(conditions, fmt.Sprintf("school_id = $%d", len(args)+1))
		args = append(args, filter.SchoolID)
	}
	if filter.Gender != "" {
		conditions = append(conditions, fmt.Sprintf("gender = $%d", len(args)+1))
		args = append(args, filter.Gender)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d OR registration_number LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"last_name":           true,
		"first_name":          true,
		"date_of_birth":       true,
		"registration_number": true,
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, sortBy, order, size, offset)

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByRegistrationNumber fetches a student by registration number.
func (r *StudentRepository) FindByRegistrationNumber(ctx context.Context, number string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE registration_number = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, number); err != nil {
		return nil, err
	}
	return &student, nil
}

// ExistsRegistrationNumber reports whether a registration number is taken.
func (r *StudentRepository) ExistsRegistrationNumber(ctx context.Context, number string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM students WHERE registration_number = $1 LIMIT 1", number)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check registration number: %w", err)
	}
	return true, nil
}

// ExistsIdentity checks whether a student with the same name, date of
// birth and origin already exists, optionally excluding an ID.
func (r *StudentRepository) ExistsIdentity(ctx context.Context, student *models.Student, excludeID string) (bool, error) {
	query := `SELECT 1 FROM students WHERE LOWER(first_name) = LOWER($1) AND LOWER(last_name) = LOWER($2)
        AND date_of_birth = $3 AND state_of_origin = $4 AND place_of_birth = $5`
	args := []interface{}{student.FirstName, student.LastName, student.DateOfBirth, student.StateOfOrigin, student.PlaceOfBirth}
	if excludeID != "" {
		query += fmt.Sprintf(" AND id <> $%d", len(args)+1)
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student identity: %w", err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, middle_name, nin_number, date_of_birth, gender, blood_group, genotype,
        disability_status, country_of_birth, state_of_origin, place_of_birth, address, passport_path,
        school_id, registration_number, active, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :middle_name, :nin_number, :date_of_birth, :gender, :blood_group, :genotype,
        :disability_status, :country_of_birth, :state_of_origin, :place_of_birth, :address, :passport_path,
        :school_id, :registration_number, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return conflictOn(err, "registration_number", "a student with this registration number already exists", "create student")
	}
	return nil
}

// Update modifies an existing student. The registration number is immutable.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, middle_name = :middle_name,
        nin_number = :nin_number, date_of_birth = :date_of_birth, gender = :gender, blood_group = :blood_group,
        genotype = :genotype, disability_status = :disability_status, country_of_birth = :country_of_birth,
        state_of_origin = :state_of_origin, place_of_birth = :place_of_birth, address = :address,
        passport_path = :passport_path, school_id = :school_id, active = :active, updated_at = :updated_at
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// UpdatePassportPath stores the path of the student's uploaded passport photo.
func (r *StudentRepository) UpdatePassportPath(ctx context.Context, id string, path *string) error {
	const query = `UPDATE students SET passport_path = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, path, time.Now().UTC()); err != nil {
		return fmt.Errorf("update student passport: %w", err)
	}
	return nil
}

// Deactivate marks a student as inactive.
func (r *StudentRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE students SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate student: %w", err)
	}
	return nil
}
