package service

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
)

type infrastructureRepository interface {
	ListBySchool(ctx context.Context, schoolID string) ([]models.InfrastructureRecord, error)
	FindByKind(ctx context.Context, schoolID string, kind models.InfrastructureKind) (*models.InfrastructureRecord, error)
	Upsert(ctx context.Context, record *models.InfrastructureRecord) error
	Delete(ctx context.Context, schoolID string, kind models.InfrastructureKind) error
	CountImages(ctx context.Context, schoolID string, kind models.InfrastructureKind) (int, error)
	ListImages(ctx context.Context, schoolID string, kind models.InfrastructureKind) ([]models.SchoolImage, error)
	AddImage(ctx context.Context, image *models.SchoolImage) error
	FindImage(ctx context.Context, id string) (*models.SchoolImage, error)
	DeleteImage(ctx context.Context, id string) error
}

type infraSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

type imageStorage interface {
	Save(filename string, data []byte) (string, error)
	RemoveWithPrune(filename string) error
}

// UpsertInfrastructureRequest reports a school's inventory for one kind.
type UpsertInfrastructureRequest struct {
	Kind        models.InfrastructureKind `json:"kind" validate:"required,oneof=classrooms library laboratory computer_lab sports_facility"`
	Quantity    int                       `json:"quantity" validate:"min=0"`
	Capacity    *int                      `json:"capacity" validate:"omitempty,min=0"`
	Detail      *string                   `json:"detail"`
	Description *string                   `json:"description"`
}

// InfrastructureService manages per-school inventory reporting and the
// photographs attached to each inventory kind.
type InfrastructureService struct {
	repo      infrastructureRepository
	schools   infraSchoolLoader
	storage   imageStorage
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInfrastructureService constructs an InfrastructureService.
func NewInfrastructureService(repo infrastructureRepository, schools infraSchoolLoader, storage imageStorage, validate *validator.Validate, logger *zap.Logger) *InfrastructureService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InfrastructureService{repo: repo, schools: schools, storage: storage, validator: validate, logger: logger}
}

// List returns a school's inventory rows.
func (s *InfrastructureService) List(ctx context.Context, schoolID string) ([]models.InfrastructureRecord, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}
	records, err := s.repo.ListBySchool(ctx, schoolID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list infrastructure")
	}
	return records, nil
}

// Upsert creates or replaces a school's inventory row for one kind.
func (s *InfrastructureService) Upsert(ctx context.Context, schoolID string, req UpsertInfrastructureRequest) (*models.InfrastructureRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid infrastructure payload")
	}
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}

	record := &models.InfrastructureRecord{
		SchoolID:    schoolID,
		Kind:        req.Kind,
		Quantity:    req.Quantity,
		Capacity:    req.Capacity,
		Detail:      req.Detail,
		Description: req.Description,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save infrastructure")
	}
	return record, nil
}

// AddImage stores an uploaded photograph for an inventory kind, capped at
// three images per kind per school.
func (s *InfrastructureService) AddImage(ctx context.Context, schoolID string, kind models.InfrastructureKind, originalName string, data []byte) (*models.SchoolImage, error) {
	if _, err := s.repo.FindByKind(ctx, schoolID, kind); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no inventory reported for this kind")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load infrastructure")
	}

	count, err := s.repo.CountImages(ctx, schoolID, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count images")
	}
	if count >= models.MaxImagesPerKind {
		return nil, appErrors.Validationf("image", "at most %d images per inventory kind", models.MaxImagesPerKind)
	}

	filename := filepath.Join("schools", schoolID, "infrastructure", string(kind), fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(originalName)))
	if _, err := s.storage.Save(filename, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
	}

	image := &models.SchoolImage{SchoolID: schoolID, Kind: kind, Path: filename}
	if err := s.repo.AddImage(ctx, image); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record image")
	}
	return image, nil
}

// Images returns the photographs for an inventory kind.
func (s *InfrastructureService) Images(ctx context.Context, schoolID string, kind models.InfrastructureKind) ([]models.SchoolImage, error) {
	images, err := s.repo.ListImages(ctx, schoolID, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list images")
	}
	return images, nil
}

// RemoveImage deletes one photograph, removing its file and pruning any
// directories the removal leaves empty.
func (s *InfrastructureService) RemoveImage(ctx context.Context, id string) error {
	image, err := s.repo.FindImage(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "image not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load image")
	}
	if err := s.repo.DeleteImage(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete image")
	}
	if err := s.storage.RemoveWithPrune(image.Path); err != nil {
		s.logger.Warn("failed to remove image file", zap.String("path", image.Path), zap.Error(err))
	}
	return nil
}
