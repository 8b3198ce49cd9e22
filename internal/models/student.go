package models

import "time"

// Gender choices for students.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Student represents a registered student. The
// (first name, last name, date of birth, state of origin, place of birth)
// tuple is unique across the system.
type Student struct {
	ID                 string     `db:"id" json:"id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	MiddleName         *string    `db:"middle_name" json:"middle_name,omitempty"`
	NINNumber          *string    `db:"nin_number" json:"nin_number,omitempty"`
	DateOfBirth        time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender             Gender     `db:"gender" json:"gender"`
	BloodGroup         *string    `db:"blood_group" json:"blood_group,omitempty"`
	Genotype           *string    `db:"genotype" json:"genotype,omitempty"`
	DisabilityStatus   *string    `db:"disability_status" json:"disability_status,omitempty"`
	CountryOfBirth     string     `db:"country_of_birth" json:"country_of_birth"`
	StateOfOrigin      string     `db:"state_of_origin" json:"state_of_origin"`
	PlaceOfBirth       string     `db:"place_of_birth" json:"place_of_birth"`
	Address            *string    `db:"address" json:"address,omitempty"`
	PassportPath       *string    `db:"passport_path" json:"passport_path,omitempty"`
	SchoolID           *string    `db:"school_id" json:"school_id,omitempty"`
	RegistrationNumber string     `db:"registration_number" json:"registration_number"`
	Active             bool       `db:"active" json:"active"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins the student's names, surname first.
func (s *Student) FullName() string {
	name := s.LastName + " " + s.FirstName
	if s.MiddleName != nil && *s.MiddleName != "" {
		name += " " + *s.MiddleName
	}
	return name
}

// AgeAt returns the student's age in whole years on the given day.
func (s *Student) AgeAt(today time.Time) int {
	age := today.Year() - s.DateOfBirth.Year()
	if today.Month() < s.DateOfBirth.Month() ||
		(today.Month() == s.DateOfBirth.Month() && today.Day() < s.DateOfBirth.Day()) {
		age--
	}
	return age
}

// StudentFilter defines filters supported by the student list endpoint.
type StudentFilter struct {
	SchoolID  string
	Gender    Gender
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
