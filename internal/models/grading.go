package models

import "time"

// GradingScale names a set of grade boundaries.
type GradingScale struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"scale_name" json:"scale_name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GradeBoundary maps a score band to a grade label within a scale. Grade
// labels are unique per scale, and bands must not overlap.
type GradeBoundary struct {
	ID          string  `db:"id" json:"id"`
	ScaleID     string  `db:"grading_scale_id" json:"grading_scale_id"`
	Grade       string  `db:"grade" json:"grade"`
	LowerBound  int     `db:"lower_bound" json:"lower_bound"`
	UpperBound  int     `db:"upper_bound" json:"upper_bound"`
	Description *string `db:"description" json:"description,omitempty"`
}

// SubjectGradingConfig assigns a grading scale and weightage to a subject.
// Weightage is the subject's relative share of the total grade.
type SubjectGradingConfig struct {
	ID        string    `db:"id" json:"id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	ScaleID   string    `db:"grading_scale_id" json:"grading_scale_id"`
	Weightage float64   `db:"weightage" json:"weightage"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
