// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/rsvp/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist, or exists with
	// the wrong shape (a legacy guest looked up as v2, or vice versa).
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a versioned update loses a race.
	ErrConflict = errors.New("version conflict")
)

// Store defines the Record Store operations for parties and guests.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
//
// A guest is legacy (unmigrated) iff its party reference is absent. Backends
// must keep "absent" distinct from "present but empty".
type Store interface {
	// InTx runs fn inside a transaction. Store calls made with the context
	// passed to fn join the transaction. Nested calls reuse the outer one.
	InTx(ctx context.Context, fn func(ctx context.Context) error) error

	// CreateParty persists a new party. ID, CreatedAt and Version are
	// populated by the store when unset.
	CreateParty(ctx context.Context, party *models.Party) error

	// GetParty returns ErrNotFound if the party does not exist.
	GetParty(ctx context.Context, id string) (*models.Party, error)

	ListParties(ctx context.Context) ([]*models.Party, error)

	// UpdatePartyRSVP writes the RSVP fields of party if its Version still
	// matches the stored one, then increments party.Version.
	// Returns ErrConflict on a version mismatch.
	UpdatePartyRSVP(ctx context.Context, party *models.Party) error

	// CreateGuest persists a v2 guest. PartyID must reference a party.
	CreateGuest(ctx context.Context, guest *models.Guest) error

	// GetGuest returns ErrNotFound for missing and legacy guests.
	GetGuest(ctx context.Context, id string) (*models.Guest, error)

	// ListGuests returns every v2 guest ordered by name.
	ListGuests(ctx context.Context) ([]*models.Guest, error)

	ListGuestsByParty(ctx context.Context, partyID string) ([]*models.Guest, error)

	// SearchGuests matches v2 guests whose name contains term
	// (case-insensitive). An empty term matches nothing.
	SearchGuests(ctx context.Context, term string, limit int) ([]*models.Guest, error)

	CountGuests(ctx context.Context) (int, error)

	CreateLegacyGuest(ctx context.Context, guest *models.LegacyGuest) error

	// GetLegacyGuest returns ErrNotFound for missing and migrated guests.
	GetLegacyGuest(ctx context.Context, id string) (*models.LegacyGuest, error)

	// ListLegacyGuests returns every guest with no party reference.
	ListLegacyGuests(ctx context.Context) ([]*models.LegacyGuest, error)

	// SearchLegacyGuests matches name, first name, last name or plus-one name.
	SearchLegacyGuests(ctx context.Context, term string, limit int) ([]*models.LegacyGuest, error)

	// UpdateLegacyRSVP is the v1 counterpart of UpdatePartyRSVP.
	UpdateLegacyRSVP(ctx context.Context, guest *models.LegacyGuest) error

	// HasLegacyGuests reports whether any guest lacks a party reference.
	HasLegacyGuests(ctx context.Context) (bool, error)

	// LinkGuestToParty sets the party reference, name and primary flag of an
	// existing guest, turning a legacy guest into a v2 guest.
	LinkGuestToParty(ctx context.Context, guest *models.Guest) error

	// DeleteLegacyFields removes the plus-one and RSVP fields of a guest.
	DeleteLegacyFields(ctx context.Context, guestID string) error

	// Close releases any resources held by the store.
	Close() error
}
