package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type staffRepository interface {
	ListBySchool(ctx context.Context, schoolID string, role models.StaffRole) ([]models.Staff, error)
	FindByID(ctx context.Context, id string) (*models.Staff, error)
	Create(ctx context.Context, member *models.Staff) error
	Update(ctx context.Context, member *models.Staff) error
	Deactivate(ctx context.Context, id string) error
	ListSalaries(ctx context.Context, staffID string) ([]models.Salary, error)
	CreateSalary(ctx context.Context, salary *models.Salary) error
	CountByRole(ctx context.Context, schoolID string) (map[models.StaffRole]int, error)
}

type staffSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// CreateStaffRequest describes the payload for adding a staff member.
type CreateStaffRequest struct {
	FirstName string           `json:"first_name" validate:"required"`
	LastName  string           `json:"last_name" validate:"required"`
	Role      models.StaffRole `json:"role" validate:"required,oneof=head_teacher teacher bursar clerk other"`
	Phone     *string          `json:"phone"`
	Email     *string          `json:"email" validate:"omitempty,email"`
	HiredAt   *time.Time       `json:"hired_at"`
}

// RecordSalaryRequest records one pay event for a staff member.
type RecordSalaryRequest struct {
	Amount  float64    `json:"amount" validate:"required,gt=0"`
	PayDate *time.Time `json:"pay_date"`
}

// StaffService manages a school's workforce records.
type StaffService struct {
	repo      staffRepository
	schools   staffSchoolLoader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffRepository, schools staffSchoolLoader, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// List returns a school's staff, optionally filtered by role.
func (s *StaffService) List(ctx context.Context, schoolID string, role models.StaffRole) ([]models.Staff, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	members, err := s.repo.ListBySchool(ctx, schoolID, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return members, nil
}

// Get returns a staff member by ID.
func (s *StaffService) Get(ctx context.Context, id string) (*models.Staff, error) {
	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return member, nil
}

// Create adds a staff member to a school.
func (s *StaffService) Create(ctx context.Context, schoolID string, req CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}

	member := &models.Staff{
		SchoolID:  schoolID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Phone:     req.Phone,
		Email:     req.Email,
		HiredAt:   req.HiredAt,
		Active:    true,
	}
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	return member, nil
}

// Update modifies a staff member.
func (s *StaffService) Update(ctx context.Context, id string, req CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid staff payload")
	}

	member, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	member.FirstName = req.FirstName
	member.LastName = req.LastName
	member.Role = req.Role
	member.Phone = req.Phone
	member.Email = req.Email
	member.HiredAt = req.HiredAt

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	return member, nil
}

// Deactivate marks a staff member inactive.
func (s *StaffService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate staff member")
	}
	return nil
}

// RecordSalary stores one pay event.
func (s *StaffService) RecordSalary(ctx context.Context, staffID string, req RecordSalaryRequest) (*models.Salary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid salary payload")
	}
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}

	salary := &models.Salary{StaffID: staffID, Amount: req.Amount, PayDate: req.PayDate}
	if err := s.repo.CreateSalary(ctx, salary); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record salary")
	}
	return salary, nil
}

// Salaries returns a staff member's pay history.
func (s *StaffService) Salaries(ctx context.Context, staffID string) ([]models.Salary, error) {
	if _, err := s.Get(ctx, staffID); err != nil {
		return nil, err
	}
	salaries, err := s.repo.ListSalaries(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list salaries")
	}
	return salaries, nil
}
