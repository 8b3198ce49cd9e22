package models

import "time"

// ExportType identifies what an export job produces.
type ExportType string

const (
	ExportSchoolSummaryPDF ExportType = "school_summary_pdf"
	ExportStudentListCSV   ExportType = "student_list_csv"
)

// ExportStatus tracks an export job's lifecycle.
type ExportStatus string

const (
	ExportQueued    ExportStatus = "queued"
	ExportRunning   ExportStatus = "running"
	ExportCompleted ExportStatus = "completed"
	ExportFailed    ExportStatus = "failed"
)

// ExportJob records one requested export and its produced file.
type ExportJob struct {
	ID          string       `db:"id" json:"id"`
	Type        ExportType   `db:"type" json:"type"`
	SchoolID    string       `db:"school_id" json:"school_id"`
	Status      ExportStatus `db:"status" json:"status"`
	FilePath    *string      `db:"file_path" json:"file_path,omitempty"`
	Error       *string      `db:"error" json:"error,omitempty"`
	RequestedBy *string      `db:"requested_by" json:"requested_by,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
}
