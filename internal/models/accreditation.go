package models

import "time"

// AccreditationStatus values recorded for a school.
type AccreditationStatus string

const (
	AccreditationAwaiting     AccreditationStatus = "awaiting accreditation"
	AccreditationAccreditated AccreditationStatus = "accreditated"
	AccreditationDenied       AccreditationStatus = "not-accreditated"
	AccreditationCancelled    AccreditationStatus = "cancelled"
)

// AccreditationState is one accreditation event for a school. A fresh
// accreditation number is issued on every transition to accreditated.
type AccreditationState struct {
	ID                  string              `db:"id" json:"id"`
	SchoolID            string              `db:"school_id" json:"school_id"`
	AccreditationNumber *string             `db:"accreditation_number" json:"accreditation_number,omitempty"`
	Status              AccreditationStatus `db:"status" json:"status"`
	ValidFrom           *time.Time          `db:"valid_from" json:"valid_from,omitempty"`
	ValidTo             *time.Time          `db:"valid_to" json:"valid_to,omitempty"`
	CreatedAt           time.Time           `db:"created_at" json:"created_at"`
}

// Expired reports whether the accreditation's validity window has lapsed.
func (a *AccreditationState) Expired(today time.Time) bool {
	return a.ValidTo != nil && a.ValidTo.Before(today)
}
