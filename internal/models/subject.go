package models

import "time"

// Subject is a ministry-wide subject repository row. School-less rows are
// shared by every school running the subject's program; a school reference
// marks a school-specific addition.
type Subject struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"subject_name" json:"subject_name"`
	Program    Program   `db:"program" json:"program"`
	IsGeneral  bool      `db:"is_general" json:"is_general"`
	IsOptional bool      `db:"is_optional" json:"is_optional"`
	SchoolID   *string   `db:"school_id" json:"school_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter defines filters supported by the subject list endpoint.
type SubjectFilter struct {
	Program    Program
	SchoolID   string
	IsGeneral  *bool
	IsOptional *bool
	Search     string
	Page       int
	PageSize   int
}
