package models

import "time"

// SessionScope controls which schools an academic session governs.
type SessionScope string

const (
	ScopeAll        SessionScope = "all"
	ScopePublic     SessionScope = "public"
	ScopePrivate    SessionScope = "private"
	ScopeCommunity  SessionScope = "community"
	ScopeIndividual SessionScope = "individual"
)

// SessionStatus tracks the lifecycle of a session.
type SessionStatus string

const (
	SessionUpcoming  SessionStatus = "upcoming"
	SessionOngoing   SessionStatus = "ongoing"
	SessionCompleted SessionStatus = "completed"
)

// AcademicSession is a named academic period scoped to one school
// (individual) or to a class of schools.
type AcademicSession struct {
	ID        string        `db:"id" json:"id"`
	Scope     SessionScope  `db:"school_type" json:"school_type"`
	Program   Program       `db:"program" json:"program"`
	SchoolID  *string       `db:"school_id" json:"school_id,omitempty"`
	Name      string        `db:"session_name" json:"session_name"`
	Status    SessionStatus `db:"status" json:"status"`
	StartDate time.Time     `db:"start_date" json:"start_date"`
	EndDate   time.Time     `db:"end_date" json:"end_date"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// IsActive reports whether today falls within the session's date range.
func (s *AcademicSession) IsActive(today time.Time) bool {
	day := dateOnly(today)
	return !day.Before(dateOnly(s.StartDate)) && !day.After(dateOnly(s.EndDate))
}

// OnComing reports whether the session has not yet started.
func (s *AcademicSession) OnComing(today time.Time) bool {
	return dateOnly(today).Before(dateOnly(s.StartDate))
}

// DurationDays returns the session length in days.
func (s *AcademicSession) DurationDays() int {
	return int(dateOnly(s.EndDate).Sub(dateOnly(s.StartDate)).Hours() / 24)
}

// SessionFilter defines filters supported by the session list endpoint.
type SessionFilter struct {
	Scope     SessionScope
	Program   Program
	Status    SessionStatus
	SchoolID  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
