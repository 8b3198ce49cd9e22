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

type schoolRepository interface {
	List(ctx context.Context, filter models.SchoolFilter) ([]models.School, int, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	FindByRegistrationNumber(ctx context.Context, number string) (*models.School, error)
	ExistsByName(ctx context.Context, name, ward, excludeID string) (bool, error)
	CreateWithRegistrationNumber(ctx context.Context, school *models.School, next func(last string) (string, error)) error
	Update(ctx context.Context, school *models.School) error
	UpdateLogoPath(ctx context.Context, id string, path *string) error
	Delete(ctx context.Context, id string) error
}

type schoolAccreditationRepository interface {
	LatestBySchool(ctx context.Context, schoolID string) (*models.AccreditationState, error)
}

type schoolSuspensionRepository interface {
	ActiveForSchool(ctx context.Context, schoolID string, day time.Time) ([]models.SuspensionClosure, error)
}

type logoStorage interface {
	Save(filename string, data []byte) (string, error)
	RemoveWithPrune(filename string) error
}

// CreateSchoolRequest describes the payload for registering a school.
type CreateSchoolRequest struct {
	Name            string            `json:"name" validate:"required"`
	Abbreviation    *string           `json:"abbreviation"`
	Motto           *string           `json:"motto"`
	EstablishedDate *time.Time        `json:"established_date"`
	Type            models.SchoolType `json:"school_type" validate:"required,oneof=public private community"`
	Program         models.Program    `json:"program" validate:"required,oneof=primary jss sss primary+jss jss+sss all"`
	IsVocational    bool              `json:"is_vocational"`
	LGA             string            `json:"lga" validate:"required"`
	City            *string           `json:"city"`
	Ward            string            `json:"ward" validate:"required"`
	StreetAddress   string            `json:"street_address" validate:"required"`
	Phone           string            `json:"phone" validate:"required"`
	Email           *string           `json:"email" validate:"omitempty,email"`
	Website         *string           `json:"website" validate:"omitempty,url"`
	Latitude        *float64          `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64          `json:"longitude" validate:"omitempty,longitude"`
}

// UpdateSchoolRequest updates mutable school fields. Type, program and
// registration number are fixed at creation.
type UpdateSchoolRequest struct {
	Name            string     `json:"name" validate:"required"`
	Abbreviation    *string    `json:"abbreviation"`
	Motto           *string    `json:"motto"`
	EstablishedDate *time.Time `json:"established_date"`
	IsVocational    bool       `json:"is_vocational"`
	LGA             string     `json:"lga" validate:"required"`
	City            *string    `json:"city"`
	Ward            string     `json:"ward" validate:"required"`
	StreetAddress   string     `json:"street_address" validate:"required"`
	Phone           string     `json:"phone" validate:"required"`
	Email           *string    `json:"email" validate:"omitempty,email"`
	Website         *string    `json:"website" validate:"omitempty,url"`
	Latitude        *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude       *float64   `json:"longitude" validate:"omitempty,longitude"`
}

// SchoolService orchestrates school registration and profile workflows.
type SchoolService struct {
	repo           schoolRepository
	identifiers    *IdentifierService
	resolver       *SessionResolver
	accreditations schoolAccreditationRepository
	suspensions    schoolSuspensionRepository
	storage        logoStorage
	validator      *validator.Validate
	logger         *zap.Logger
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(repo schoolRepository, identifiers *IdentifierService, resolver *SessionResolver, accreditations schoolAccreditationRepository, suspensions schoolSuspensionRepository, storage logoStorage, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{
		repo:           repo,
		identifiers:    identifiers,
		resolver:       resolver,
		accreditations: accreditations,
		suspensions:    suspensions,
		storage:        storage,
		validator:      validate,
		logger:         logger,
	}
}

// List returns paginated schools.
func (s *SchoolService) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error) {
	schools, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schools")
	}
	return schools, paginationFor(filter.Page, filter.PageSize, total), nil
}

// Get returns a school by ID.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load school")
	}
	return school, nil
}

// Detail assembles a school's profile: the session and term currently
// governing it, its latest accreditation event, any suspension affecting
// today, and the derived operational status.
func (s *SchoolService) Detail(ctx context.Context, id string) (*models.SchoolDetail, error) {
	school, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.SchoolDetail{School: *school, Status: "open"}
	today := time.Now().UTC()

	session, err := s.resolver.Resolve(ctx, school)
	if err != nil {
		return nil, err
	}
	if session != nil {
		detail.CurrentSession = session
		term, err := s.resolver.CurrentTerm(ctx, session.ID, today)
		if err != nil {
			return nil, err
		}
		detail.CurrentTerm = term
	}

	accreditation, err := s.accreditations.LatestBySchool(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accreditation")
	}
	detail.Accreditation = accreditation

	suspensions, err := s.suspensions.ActiveForSchool(ctx, id, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load suspensions")
	}
	for i := range suspensions {
		if !suspensions[i].AffectsDate(today) {
			continue
		}
		detail.Suspension = &suspensions[i]
		if suspensions[i].Kind == models.KindClosure {
			detail.Status = "closed"
		} else {
			detail.Status = "suspended"
		}
		break
	}

	return detail, nil
}

// Create registers a school, allocating its sequential registration
// number inside the insert transaction.
func (s *SchoolService) Create(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name, req.Ward, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check school name")
	}
	if exists {
		return nil, appErrors.Conflictf("name", "a school named %q is already registered in this ward", req.Name)
	}

	next, err := s.identifiers.NextSchoolRegistrationNumber(req.Type)
	if err != nil {
		return nil, err
	}

	school := &models.School{
		Name:            req.Name,
		Abbreviation:    req.Abbreviation,
		Motto:           req.Motto,
		EstablishedDate: req.EstablishedDate,
		Type:            req.Type,
		Program:         req.Program,
		IsVocational:    req.IsVocational,
		LGA:             req.LGA,
		City:            req.City,
		Ward:            req.Ward,
		StreetAddress:   req.StreetAddress,
		Phone:           req.Phone,
		Email:           req.Email,
		Website:         req.Website,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
	}

	if err := s.repo.CreateWithRegistrationNumber(ctx, school, next); err != nil {
		return nil, appErrors.Internal(err, "failed to register school")
	}

	s.logger.Info("school registered",
		zap.String("school_id", school.ID),
		zap.String("registration_number", school.RegistrationNumber))
	return school, nil
}

// Update modifies a school's mutable profile fields.
func (s *SchoolService) Update(ctx context.Context, id string, req UpdateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	school, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name, req.Ward, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check school name")
	}
	if exists {
		return nil, appErrors.Conflictf("name", "a school named %q is already registered in this ward", req.Name)
	}

	school.Name = req.Name
	school.Abbreviation = req.Abbreviation
	school.Motto = req.Motto
	school.EstablishedDate = req.EstablishedDate
	school.IsVocational = req.IsVocational
	school.LGA = req.LGA
	school.City = req.City
	school.Ward = req.Ward
	school.StreetAddress = req.StreetAddress
	school.Phone = req.Phone
	school.Email = req.Email
	school.Website = req.Website
	school.Latitude = req.Latitude
	school.Longitude = req.Longitude

	if err := s.repo.Update(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update school")
	}
	return school, nil
}

// SetLogo stores an uploaded logo and removes the previous file,
// pruning any directories it leaves empty.
func (s *SchoolService) SetLogo(ctx context.Context, id, originalName string, data []byte) (*models.School, error) {
	school, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	filename := filepath.Join("schools", id, "logo", fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(originalName)))
	if _, err := s.storage.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store logo")
	}

	previous := school.LogoPath
	school.LogoPath = &filename
	if err := s.repo.UpdateLogoPath(ctx, id, school.LogoPath); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update logo")
	}

	if previous != nil && *previous != "" {
		if err := s.storage.RemoveWithPrune(*previous); err != nil {
			s.logger.Warn("failed to remove previous logo", zap.String("path", *previous), zap.Error(err))
		}
	}
	return school, nil
}

// Delete removes a school and its logo file.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	school, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete school")
	}
	s.resolver.InvalidateSchool(ctx, id)
	if school.LogoPath != nil && *school.LogoPath != "" {
		if err := s.storage.RemoveWithPrune(*school.LogoPath); err != nil {
			s.logger.Warn("failed to remove logo", zap.String("path", *school.LogoPath), zap.Error(err))
		}
	}
	return nil
}
