package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

// minEnrollmentAge is the youngest a student may be at registration.
const minEnrollmentAge = 4

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsIdentity(ctx context.Context, student *models.Student, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	UpdatePassportPath(ctx context.Context, id string, path *string) error
	Deactivate(ctx context.Context, id string) error
}

type passportStorage interface {
	Save(filename string, data []byte) (string, error)
	RemoveWithPrune(filename string) error
}

// CreateStudentRequest describes the payload for registering a student.
type CreateStudentRequest struct {
	FirstName        string        `json:"first_name" validate:"required"`
	LastName         string        `json:"last_name" validate:"required"`
	MiddleName       *string       `json:"middle_name"`
	NINNumber        *string       `json:"nin_number"`
	DateOfBirth      time.Time     `json:"date_of_birth" validate:"required"`
	Gender           models.Gender `json:"gender" validate:"required,oneof=M F"`
	BloodGroup       *string       `json:"blood_group"`
	Genotype         *string       `json:"genotype"`
	DisabilityStatus *string       `json:"disability_status"`
	CountryOfBirth   string        `json:"country_of_birth" validate:"required"`
	StateOfOrigin    string        `json:"state_of_origin" validate:"required"`
	PlaceOfBirth     string        `json:"place_of_birth" validate:"required"`
	Address          *string       `json:"address"`
}

// UpdateStudentRequest updates mutable student fields.
type UpdateStudentRequest struct {
	FirstName        string        `json:"first_name" validate:"required"`
	LastName         string        `json:"last_name" validate:"required"`
	MiddleName       *string       `json:"middle_name"`
	NINNumber        *string       `json:"nin_number"`
	DateOfBirth      time.Time     `json:"date_of_birth" validate:"required"`
	Gender           models.Gender `json:"gender" validate:"required,oneof=M F"`
	BloodGroup       *string       `json:"blood_group"`
	Genotype         *string       `json:"genotype"`
	DisabilityStatus *string       `json:"disability_status"`
	CountryOfBirth   string        `json:"country_of_birth" validate:"required"`
	StateOfOrigin    string        `json:"state_of_origin" validate:"required"`
	PlaceOfBirth     string        `json:"place_of_birth" validate:"required"`
	Address          *string       `json:"address"`
}

// StudentService orchestrates student registration workflows.
type StudentService struct {
	repo        studentRepository
	identifiers *IdentifierService
	storage     passportStorage
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, identifiers *IdentifierService, storage passportStorage, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, identifiers: identifiers, storage: storage, validator: validate, logger: logger}
}

// List returns paginated students.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a student. The identity tuple of names, date of
// birth, state of origin and place of birth must be unique, and the
// student must be at least four years old. A system-wide registration
// number is issued on the spot.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		MiddleName:       req.MiddleName,
		NINNumber:        req.NINNumber,
		DateOfBirth:      req.DateOfBirth,
		Gender:           req.Gender,
		BloodGroup:       req.BloodGroup,
		Genotype:         req.Genotype,
		DisabilityStatus: req.DisabilityStatus,
		CountryOfBirth:   req.CountryOfBirth,
		StateOfOrigin:    req.StateOfOrigin,
		PlaceOfBirth:     req.PlaceOfBirth,
		Address:          req.Address,
		Active:           true,
	}

	if age := student.AgeAt(time.Now().UTC()); age < minEnrollmentAge {
		return nil, appErrors.Validationf("date_of_birth", "student must be at least %d years old, is %d", minEnrollmentAge, age)
	}

	exists, err := s.repo.ExistsIdentity(ctx, student, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student identity")
	}
	if exists {
		return nil, appErrors.Conflictf("first_name", "a student with this name, birth date and origin is already registered")
	}

	number, err := s.identifiers.StudentRegistrationNumber(ctx)
	if err != nil {
		return nil, err
	}
	student.RegistrationNumber = number

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Internal(err, "failed to create student")
	}

	s.logger.Info("student registered",
		zap.String("student_id", student.ID),
		zap.String("registration_number", student.RegistrationNumber))
	return student, nil
}

// Update modifies a student's record. The registration number never
// changes, and the identity tuple must stay unique.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.MiddleName = req.MiddleName
	student.NINNumber = req.NINNumber
	student.DateOfBirth = req.DateOfBirth
	student.Gender = req.Gender
	student.BloodGroup = req.BloodGroup
	student.Genotype = req.Genotype
	student.DisabilityStatus = req.DisabilityStatus
	student.CountryOfBirth = req.CountryOfBirth
	student.StateOfOrigin = req.StateOfOrigin
	student.PlaceOfBirth = req.PlaceOfBirth
	student.Address = req.Address

	if age := student.AgeAt(time.Now().UTC()); age < minEnrollmentAge {
		return nil, appErrors.Validationf("date_of_birth", "student must be at least %d years old, is %d", minEnrollmentAge, age)
	}

	exists, err := s.repo.ExistsIdentity(ctx, student, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student identity")
	}
	if exists {
		return nil, appErrors.Conflictf("first_name", "a student with this name, birth date and origin is already registered")
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// SetPassport stores an uploaded passport photo and removes the previous
// one, pruning any directories it leaves empty.
func (s *StudentService) SetPassport(ctx context.Context, id, originalName string, data []byte) (*models.Student, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	filename := filepath.Join("students", id, "passport", fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(originalName)))
	if _, err := s.storage.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store passport")
	}

	previous := student.PassportPath
	student.PassportPath = &filename
	if err := s.repo.UpdatePassportPath(ctx, id, student.PassportPath); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update passport")
	}

	if previous != nil && *previous != "" {
		if err := s.storage.RemoveWithPrune(*previous); err != nil {
			s.logger.Warn("failed to remove previous passport", zap.String("path", *previous), zap.Error(err))
		}
	}
	return student, nil
}

// Deactivate marks a student inactive without destroying the record.
func (s *StudentService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate student")
	}
	return nil
}
