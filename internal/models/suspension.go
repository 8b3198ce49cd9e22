package models

import "time"

// SuspensionKind distinguishes temporary suspensions from closures.
type SuspensionKind string

const (
	KindSuspension SuspensionKind = "Suspension"
	KindClosure    SuspensionKind = "Closure"
)

// SuspensionClosure records a suspension or closure window for a school,
// or statewide. An indefinite record has no end date.
type SuspensionClosure struct {
	ID            string         `db:"id" json:"id"`
	SchoolID      string         `db:"school_id" json:"school_id"`
	IsStatewide   bool           `db:"is_statewide" json:"is_statewide"`
	Kind          SuspensionKind `db:"suspension_type" json:"suspension_type"`
	Reason        string         `db:"reason" json:"reason"`
	SuspendedFrom time.Time      `db:"suspended_from" json:"suspended_from"`
	SuspendedTo   *time.Time     `db:"suspended_to" json:"suspended_to,omitempty"`
	IsIndefinite  bool           `db:"is_indefinite" json:"is_indefinite"`
	IsDropped     bool           `db:"is_dropped" json:"is_dropped"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// AffectsDate reports whether the suspension covers the given day: dropped
// records affect nothing, indefinite records cover every day from the start
// date onward.
func (s *SuspensionClosure) AffectsDate(day time.Time) bool {
	if s.IsDropped {
		return false
	}
	d := dateOnly(day)
	if d.Before(dateOnly(s.SuspendedFrom)) {
		return false
	}
	if s.IsIndefinite {
		return true
	}
	if s.SuspendedTo == nil {
		return false
	}
	return !d.After(dateOnly(*s.SuspendedTo))
}
