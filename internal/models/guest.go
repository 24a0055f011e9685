package models

import (
	"net/mail"
	"strings"
	"time"
)

// Guest is an individual person belonging to exactly one Party.
// A Guest carries no RSVP state of its own.
type Guest struct {
	// ID is the unique identifier for the guest (UUID format).
	ID string

	Name string

	// Email is optional; when present it is a valid address.
	Email string

	// PartyID references the owning Party.
	PartyID string

	IsPrimaryContact bool

	// CreatedAt is the Unix timestamp when the guest was created.
	CreatedAt int64
}

// LegacyGuest is the v1 guest-centric record: self-contained, no Party, with
// its own RSVP fields and an optional plus one.
type LegacyGuest struct {
	ID string

	// Name is set on records written by newer clients; older records only
	// carry FirstName and LastName.
	Name        string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string

	HasPlusOne  bool
	PlusOneName string

	RSVP

	Version   int64
	CreatedAt int64
}

// LegacyMaxAttending bounds PartySizeAttending for a legacy unit: the guest
// plus at most one companion.
const LegacyMaxAttending = 2

// FullName returns Name, falling back to "FirstName LastName".
func (g *LegacyGuest) FullName() string {
	if n := strings.TrimSpace(g.Name); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(g.FirstName) + " " + strings.TrimSpace(g.LastName))
}

// InvitedSize is 2 with a plus one, 1 otherwise.
func (g *LegacyGuest) InvitedSize() int {
	if g.HasPlusOne {
		return 2
	}
	return 1
}

// CompanionName returns the plus-one name only when the guest has a plus one.
func (g *LegacyGuest) CompanionName() string {
	if !g.HasPlusOne {
		return ""
	}
	return strings.TrimSpace(g.PlusOneName)
}

// LegacyGuestRequest describes a v1 guest to create.
type LegacyGuestRequest struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	PlusOneName string
}

// ValidateEmail accepts an empty address or a single syntactically valid one.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("email", "invalid email address: "+email)
	}
	return nil
}

// SanitizePhone keeps digits, spaces and the characters + - ( ).
func SanitizePhone(phone string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return r
		case r == '+', r == '-', r == ' ', r == '(', r == ')':
			return r
		default:
			return -1
		}
	}, phone))
}

// GuestSummary is a search hit: the guest plus the names of everyone in its
// party.
type GuestSummary struct {
	Guest
	PartyNames string
}

// GuestDetails is the flattened view of a guest joined with its RSVP fields.
// For v2 guests the RSVP fields come from the owning Party; for legacy guests
// they come from the guest itself.
type GuestDetails struct {
	ID               string
	Name             string
	FullName         string
	Email            string
	IsPrimaryContact bool
	PartyID          string

	// Legacy-only fields.
	FirstName   string
	LastName    string
	PhoneNumber string
	HasPlusOne  bool
	PlusOneName string

	PartySizeTotal      int
	RSVPStatus          RSVPStatus
	PartySizeAttending  *int
	DietaryRequirements string
	AdditionalNotes     string
	SubmittedAt         *time.Time
	HasSubmittedRSVP    bool
}
