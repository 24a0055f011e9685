package models

import "strings"

// Party represents a household or invitation unit with one shared RSVP.
type Party struct {
	// ID is the unique identifier for the party (UUID format).
	ID string

	// DisplayName is the stored title, typically "GuestA & GuestB".
	DisplayName string

	// PartySizeTotal is the number of invited individuals (>= 1).
	// It is fixed at creation and never changed by an RSVP submission.
	PartySizeTotal int

	RSVP

	// Version is incremented on every RSVP update and used for
	// compare-and-swap writes.
	Version int64

	// CreatedAt is the Unix timestamp when the party was created.
	CreatedAt int64
}

// HasSubmitted reports whether the party has responded.
func (p *Party) HasSubmitted() bool {
	return HasSubmitted(p.Status)
}

// DisplayName joins a primary name and an optional companion name with " & ".
func DisplayName(primary, companion string) string {
	name := strings.TrimSpace(primary)
	if c := strings.TrimSpace(companion); c != "" {
		name += " & " + c
	}
	return name
}

// PartyRequest describes a party to create together with its guests.
type PartyRequest struct {
	Name          string
	Email         string
	CompanionName string
}

// PartySize returns 2 when a companion is named, 1 otherwise.
func (r PartyRequest) PartySize() int {
	if strings.TrimSpace(r.CompanionName) != "" {
		return 2
	}
	return 1
}
