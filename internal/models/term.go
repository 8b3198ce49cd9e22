package models

import "time"

// Term numbers within a session.
const (
	FirstTerm  = 1
	SecondTerm = 2
	ThirdTerm  = 3
)

// Term is a subdivision of an academic session with its own date range.
// Terms are numbered 1..3, unique per session, ordered and non-overlapping,
// and contained within the session's range.
type Term struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"academic_session_id" json:"academic_session_id"`
	Number    int       `db:"term_number" json:"term_number"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Status reports the term's standing relative to today.
func (t *Term) Status(today time.Time) string {
	day := dateOnly(today)
	switch {
	case dateOnly(t.StartDate).After(day):
		return "Not Started"
	case dateOnly(t.EndDate).Before(day):
		return "Done"
	default:
		return "Active"
	}
}

// Covers reports whether the given day falls inside the term's range.
func (t *Term) Covers(day time.Time) bool {
	d := dateOnly(day)
	return !d.Before(dateOnly(t.StartDate)) && !d.After(dateOnly(t.EndDate))
}
