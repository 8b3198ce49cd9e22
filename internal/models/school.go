package models

import (
	"strings"
	"time"
)

// SchoolType classifies the ownership of a school.
type SchoolType string

const (
	SchoolTypePublic    SchoolType = "public"
	SchoolTypePrivate   SchoolType = "private"
	SchoolTypeCommunity SchoolType = "community"
)

// Program identifies which academic levels a school runs. Compound values
// combine two levels and are decomposed when matched against single-level
// session scopes.
type Program string

const (
	ProgramPrimary    Program = "primary"
	ProgramJSS        Program = "jss"
	ProgramSSS        Program = "sss"
	ProgramPrimaryJSS Program = "primary+jss"
	ProgramJSSSSS     Program = "jss+sss"
	ProgramAll        Program = "all"
)

// Components splits a compound program into its single-level parts. A
// simple program returns itself as the only component.
func (p Program) Components() []Program {
	if !strings.Contains(string(p), "+") {
		return []Program{p}
	}
	parts := strings.Split(string(p), "+")
	components := make([]Program, 0, len(parts))
	for _, part := range parts {
		components = append(components, Program(part))
	}
	return components
}

// IsCompound reports whether the program combines two levels.
func (p Program) IsCompound() bool {
	return strings.Contains(string(p), "+")
}

// School represents a registered school.
type School struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	Abbreviation       *string    `db:"abbreviation" json:"abbreviation,omitempty"`
	Motto              *string    `db:"motto" json:"motto,omitempty"`
	EstablishedDate    *time.Time `db:"established_date" json:"established_date,omitempty"`
	Type               SchoolType `db:"school_type" json:"school_type"`
	Program            Program    `db:"program" json:"program"`
	IsVocational       bool       `db:"is_vocational" json:"is_vocational"`
	RegistrationNumber string     `db:"registration_number" json:"registration_number"`
	LogoPath           *string    `db:"logo_path" json:"logo_path,omitempty"`

	LGA           string  `db:"lga" json:"lga"`
	City          *string `db:"city" json:"city,omitempty"`
	Ward          string  `db:"ward" json:"ward"`
	StreetAddress string  `db:"street_address" json:"street_address"`

	Phone   string  `db:"phone" json:"phone"`
	Email   *string `db:"email" json:"email,omitempty"`
	Website *string `db:"website" json:"website,omitempty"`

	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolFilter defines filters supported by the school list endpoint.
type SchoolFilter struct {
	Type      SchoolType
	Program   Program
	LGA       string
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// SchoolDetail embeds the resolved policy context shown on a school's
// detail view: governing session and term, latest accreditation, and any
// active suspension.
type SchoolDetail struct {
	School
	CurrentSession *AcademicSession    `json:"current_session,omitempty"`
	CurrentTerm    *Term               `json:"current_term,omitempty"`
	Accreditation  *AccreditationState `json:"accreditation,omitempty"`
	Suspension     *SuspensionClosure  `json:"suspension,omitempty"`
	Status         string              `json:"status"`
}
