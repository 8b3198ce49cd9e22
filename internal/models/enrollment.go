package models

import "time"

// EnrollmentMode distinguishes fresh enrollments from transfers.
type EnrollmentMode string

const (
	EnrollmentFresh    EnrollmentMode = "fresh"
	EnrollmentTransfer EnrollmentMode = "transfer"
)

// EnrollmentRecord captures a student's enrollment for one academic
// session: one record per (student, session).
type EnrollmentRecord struct {
	ID              string         `db:"id" json:"id"`
	StudentID       string         `db:"student_id" json:"student_id"`
	SchoolID        string         `db:"school_id" json:"school_id"`
	SessionID       string         `db:"academic_session_id" json:"academic_session_id"`
	Program         Program        `db:"program" json:"program"`
	ProgramLevel    *string        `db:"program_level" json:"program_level,omitempty"`
	Stream          *string        `db:"stream" json:"stream,omitempty"`
	Mode            EnrollmentMode `db:"enrollment_mode" json:"enrollment_mode"`
	AdmissionNumber *string        `db:"admission_number" json:"admission_number,omitempty"`
	EnrolledAt      time.Time      `db:"enrolled_at" json:"enrolled_at"`
	Active          bool           `db:"active" json:"active"`
}

// EnrollmentFilter defines filters supported by the enrollment list endpoint.
type EnrollmentFilter struct {
	SchoolID  string
	SessionID string
	StudentID string
	Mode      EnrollmentMode
	Page      int
	PageSize  int
}
