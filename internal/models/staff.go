package models

import "time"

// StaffRole identifies a staff member's position.
type StaffRole string

const (
	StaffHeadTeacher StaffRole = "head_teacher"
	StaffTeacher     StaffRole = "teacher"
	StaffBursar      StaffRole = "bursar"
	StaffClerk       StaffRole = "clerk"
	StaffOther       StaffRole = "other"
)

// Staff is a member of a school's workforce.
type Staff struct {
	ID        string     `db:"id" json:"id"`
	SchoolID  string     `db:"school_id" json:"school_id"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Role      StaffRole  `db:"role" json:"role"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	HiredAt   *time.Time `db:"hired_at" json:"hired_at,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Salary records one pay event for a staff member.
type Salary struct {
	ID      string     `db:"id" json:"id"`
	StaffID string     `db:"staff_id" json:"staff_id"`
	Amount  float64    `db:"amount" json:"amount"`
	PayDate *time.Time `db:"pay_date" json:"pay_date,omitempty"`
}
