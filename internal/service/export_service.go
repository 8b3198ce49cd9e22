package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/samses-ng/samses-api/internal/models"
	appErrors "github.com/samses-ng/samses-api/pkg/errors"
	"github.com/samses-ng/samses-api/pkg/export"
	"github.com/samses-ng/samses-api/pkg/jobs"
	"github.com/samses-ng/samses-api/pkg/storage"
)

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	MarkRunning(ctx context.Context, id string) error
	MarkCompleted(ctx context.Context, id, filePath string) error
	MarkFailed(ctx context.Context, id, message string) error
	ListBySchool(ctx context.Context, schoolID string, limit int) ([]models.ExportJob, error)
}

type exportSchoolLoader interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

type exportStudentSource interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
}

// ExportService produces school summary PDFs and student list CSVs as
// background jobs. Files land in local storage and are served through
// short-lived signed URLs.
type ExportService struct {
	repo     exportJobStore
	schools  exportSchoolLoader
	students exportStudentSource
	resolver *SessionResolver
	storage  *storage.LocalStorage
	signer   *storage.SignedURLSigner
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	logger   *zap.Logger

	fileTTL time.Duration
}

// ExportConfig tunes the export worker pool and file retention.
type ExportConfig struct {
	Workers    int
	BufferSize int
	FileTTL    time.Duration
}

// NewExportService constructs an ExportService and its job queue. Call
// Start before enqueueing work.
func NewExportService(repo exportJobStore, schools exportSchoolLoader, students exportStudentSource, resolver *SessionResolver, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}
	s := &ExportService{
		repo:     repo,
		schools:  schools,
		students: students,
		resolver: resolver,
		storage:  store,
		signer:   signer,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		fileTTL:  cfg.FileTTL,
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Request queues an export job for a school and returns it immediately
// in the queued state.
func (s *ExportService) Request(ctx context.Context, schoolID string, exportType models.ExportType, requestedBy string) (*models.ExportJob, error) {
	switch exportType {
	case models.ExportSchoolSummaryPDF, models.ExportStudentListCSV:
	default:
		return nil, appErrors.Validationf("type", "unsupported export type %s", exportType)
	}
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
	}

	job := &models.ExportJob{
		ID:       uuid.NewString(),
		Type:     exportType,
		SchoolID: schoolID,
		Status:   models.ExportQueued,
	}
	if requestedBy != "" {
		job.RequestedBy = &requestedBy
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(exportType), Payload: job.ID}); err != nil {
		msg := "export queue is full"
		_ = s.repo.MarkFailed(ctx, job.ID, msg)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
	}
	return job, nil
}

// Status returns an export job.
func (s *ExportService) Status(ctx context.Context, id string) (*models.ExportJob, error) {
	job, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	return job, nil
}

// History lists a school's recent export jobs.
func (s *ExportService) History(ctx context.Context, schoolID string, limit int) ([]models.ExportJob, error) {
	jobsList, err := s.repo.ListBySchool(ctx, schoolID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	return jobsList, nil
}

// DownloadURL returns a signed URL for a completed export's file.
func (s *ExportService) DownloadURL(ctx context.Context, id string) (string, time.Time, error) {
	job, err := s.Status(ctx, id)
	if err != nil {
		return "", time.Time{}, err
	}
	if job.Status != models.ExportCompleted || job.FilePath == nil {
		return "", time.Time{}, appErrors.Clone(appErrors.ErrPreconditionFailed, "export is not ready for download")
	}
	url, expires, err := s.signer.Generate(job.ID, *job.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return url, expires, nil
}

// ResolveDownload validates a signed token and returns the job plus the
// on-disk path of its file.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*models.ExportJob, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	job, err := s.Status(ctx, jobID)
	if err != nil {
		return nil, "", err
	}
	if job.FilePath == nil || *job.FilePath != relPath {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return job, s.storage.Path(relPath), nil
}

// CleanupLoop periodically removes export files past their retention
// window. It blocks until the context is cancelled.
func (s *ExportService) CleanupLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.storage.CleanupOlderThan(s.fileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired export files removed", zap.Int("count", len(removed)))
			}
		}
	}
}

func (s *ExportService) process(ctx context.Context, job jobs.Job) error {
	jobID, _ := job.Payload.(string)
	if jobID == "" {
		jobID = job.ID
	}

	record, err := s.repo.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job: %w", err)
	}
	if err := s.repo.MarkRunning(ctx, jobID); err != nil {
		return fmt.Errorf("mark export running: %w", err)
	}

	filePath, err := s.render(ctx, record)
	if err != nil {
		if markErr := s.repo.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			s.logger.Error("failed to mark export failed", zap.Error(markErr))
		}
		return err
	}

	if err := s.repo.MarkCompleted(ctx, jobID, filePath); err != nil {
		return fmt.Errorf("mark export completed: %w", err)
	}
	s.logger.Info("export completed",
		zap.String("job_id", jobID),
		zap.String("type", string(record.Type)),
		zap.String("file", filePath))
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) (string, error) {
	school, err := s.schools.FindByID(ctx, job.SchoolID)
	if err != nil {
		return "", fmt.Errorf("load school: %w", err)
	}

	switch job.Type {
	case models.ExportStudentListCSV:
		return s.renderStudentList(ctx, job, school)
	case models.ExportSchoolSummaryPDF:
		return s.renderSchoolSummary(ctx, job, school)
	default:
		return "", fmt.Errorf("unsupported export type %s", job.Type)
	}
}

func (s *ExportService) renderStudentList(ctx context.Context, job *models.ExportJob, school *models.School) (string, error) {
	data := export.NewDataset("registration_number", "first_name", "last_name", "gender", "date_of_birth", "state_of_origin", "active")
	filter := models.StudentFilter{SchoolID: school.ID, Page: 1, PageSize: 100}
	for {
		students, total, err := s.students.List(ctx, filter)
		if err != nil {
			return "", fmt.Errorf("list students: %w", err)
		}
		for _, st := range students {
			data.Append(
				st.RegistrationNumber,
				st.FirstName,
				st.LastName,
				string(st.Gender),
				st.DateOfBirth.Format("2006-01-02"),
				st.StateOfOrigin,
				fmt.Sprintf("%t", st.Active),
			)
		}
		if data.Len() >= total || len(students) == 0 {
			break
		}
		filter.Page++
	}

	content, err := s.csv.Render(data)
	if err != nil {
		return "", fmt.Errorf("render csv: %w", err)
	}
	name := fmt.Sprintf("exports/%s/%s.csv", school.ID, job.ID)
	return s.storage.Save(name, content)
}

func (s *ExportService) renderSchoolSummary(ctx context.Context, job *models.ExportJob, school *models.School) (string, error) {
	fields := [][2]string{
		{"Registration Number", school.RegistrationNumber},
		{"Name", school.Name},
		{"Type", string(school.Type)},
		{"Program", string(school.Program)},
		{"LGA", school.LGA},
		{"Ward", school.Ward},
	}

	if s.resolver != nil {
		session, err := s.resolver.Resolve(ctx, school)
		if err == nil && session != nil {
			fields = append(fields, [2]string{"Current Session", session.Name})
			if term, termErr := s.resolver.CurrentTerm(ctx, session.ID, time.Now().UTC()); termErr == nil && term != nil {
				fields = append(fields, [2]string{"Current Term", fmt.Sprintf("Term %d", term.Number)})
			}
		}
	}

	if _, total, err := s.students.List(ctx, models.StudentFilter{SchoolID: school.ID, Page: 1, PageSize: 1}); err == nil {
		fields = append(fields, [2]string{"Enrolled Students", fmt.Sprintf("%d", total)})
	}

	content, err := s.pdf.RenderProfile(fmt.Sprintf("School Summary: %s", school.Name), fields, nil)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}
	name := fmt.Sprintf("exports/%s/%s.pdf", school.ID, job.ID)
	return s.storage.Save(name, content)
}
