package models

import "time"

// InfrastructureKind identifies the inventory types a school reports.
type InfrastructureKind string

const (
	InfraClassrooms     InfrastructureKind = "classrooms"
	InfraLibrary        InfrastructureKind = "library"
	InfraLaboratory     InfrastructureKind = "laboratory"
	InfraComputerLab    InfrastructureKind = "computer_lab"
	InfraSportsFacility InfrastructureKind = "sports_facility"
)

// MaxImagesPerKind caps uploaded images per inventory kind per school.
const MaxImagesPerKind = 3

// InfrastructureRecord is a per-school inventory row: one row per school
// per kind. Kind-specific quantities live in the capacity/detail fields.
type InfrastructureRecord struct {
	ID          string             `db:"id" json:"id"`
	SchoolID    string             `db:"school_id" json:"school_id"`
	Kind        InfrastructureKind `db:"kind" json:"kind"`
	Quantity    int                `db:"quantity" json:"quantity"`
	Capacity    *int               `db:"capacity" json:"capacity,omitempty"`
	Detail      *string            `db:"detail" json:"detail,omitempty"`
	Description *string            `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at" json:"updated_at"`
}

// SchoolImage is an uploaded photograph attached to an inventory kind.
type SchoolImage struct {
	ID        string             `db:"id" json:"id"`
	SchoolID  string             `db:"school_id" json:"school_id"`
	Kind      InfrastructureKind `db:"kind" json:"kind"`
	Path      string             `db:"path" json:"path"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}
