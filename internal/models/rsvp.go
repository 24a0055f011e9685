package models

import (
	"strings"
	"time"
)

// RSVPStatus is the tri-state response lifecycle of an invitation unit.
type RSVPStatus string

const (
	StatusPending   RSVPStatus = "pending"
	StatusAttending RSVPStatus = "attending"
	StatusDeclined  RSVPStatus = "declined"
)

// ParseSubmittedStatus validates a status supplied by a guest. Only attending
// and declined are accepted; pending is an initial state, never a submission.
func ParseSubmittedStatus(raw string) (RSVPStatus, error) {
	switch RSVPStatus(raw) {
	case StatusAttending, StatusDeclined:
		return RSVPStatus(raw), nil
	case "":
		return "", NewValidationError("rsvp_status", "RSVP status is required")
	default:
		return "", NewValidationError("rsvp_status", "valid RSVP status is required (attending or declined)")
	}
}

// OrPending maps an unset status to pending.
func (s RSVPStatus) OrPending() RSVPStatus {
	if s == "" {
		return StatusPending
	}
	return s
}

// Label returns the capitalized form used in exports ("Attending").
func (s RSVPStatus) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// HasSubmitted reports whether a response has been recorded.
func HasSubmitted(s RSVPStatus) bool {
	return s == StatusAttending || s == StatusDeclined
}

// RSVP holds the response fields of an invitation unit: a Party in v2, a
// LegacyGuest in v1.
type RSVP struct {
	Status RSVPStatus

	// PartySizeAttending is nil until an attending submission sets it.
	// When set it lies within [0, invited size].
	PartySizeAttending *int

	// DietaryRequirements is meaningful only while attending.
	DietaryRequirements string

	AdditionalNotes string

	// SubmittedAt is nil iff Status is pending.
	SubmittedAt *time.Time
}

// Submission is one RSVP submission. Nil pointers mean "not supplied" and
// leave the stored value untouched.
type Submission struct {
	Status              RSVPStatus
	PartySizeAttending  *int
	DietaryRequirements *string
	AdditionalNotes     *string
}
