// Package migration moves legacy guest-centric records onto the
// party-centric layout.
//
// Every legacy guest becomes a Party carrying its RSVP fields, the guest is
// relinked as the party's primary contact, and a named plus one becomes a
// second Guest. Each guest is migrated in its own transaction, so a run that
// stops halfway leaves every guest either fully migrated or untouched, and
// the next run picks up the rest.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/rsvp/internal/calculator"
	"github.com/mmynk/rsvp/internal/metrics"
	"github.com/mmynk/rsvp/internal/models"
)

// Store is the part of the record store the migration touches.
type Store interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	HasLegacyGuests(ctx context.Context) (bool, error)
	ListLegacyGuests(ctx context.Context) ([]*models.LegacyGuest, error)
	CreateParty(ctx context.Context, party *models.Party) error
	LinkGuestToParty(ctx context.Context, guest *models.Guest) error
	DeleteLegacyFields(ctx context.Context, guestID string) error
	CreateGuest(ctx context.Context, guest *models.Guest) error
}

// Report summarizes one migration run.
type Report struct {
	// Migrated counts guests moved onto a new party.
	Migrated int

	// TotalProcessed counts legacy guests found at the start of the run.
	TotalProcessed int

	Errors []models.UnitFailure
}

// Err returns a *models.BatchError when any guest failed, nil otherwise.
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return &models.BatchError{Op: "migration", Total: r.TotalProcessed, Failures: r.Errors}
}

// Migrator runs the legacy-to-party migration.
type Migrator struct {
	store   Store
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithMetrics records run outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(mg *Migrator) { mg.metrics = m }
}

// WithClock overrides the time source used to stamp answered RSVPs that
// carry no submission date.
func WithClock(now func() time.Time) Option {
	return func(mg *Migrator) { mg.now = now }
}

// New creates a Migrator over store.
func New(store Store, opts ...Option) *Migrator {
	m := &Migrator{store: store, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Needed reports whether any guest still lacks a party.
func (m *Migrator) Needed(ctx context.Context) (bool, error) {
	return m.store.HasLegacyGuests(ctx)
}

// Run migrates every legacy guest. A guest that fails is recorded in the
// report and left for the next run; the others are still migrated. The
// returned error is non-nil only if the legacy guests cannot be listed or
// ctx is cancelled.
func (m *Migrator) Run(ctx context.Context) (*Report, error) {
	guests, err := m.store.ListLegacyGuests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy guests: %w", err)
	}

	report := &Report{TotalProcessed: len(guests)}
	slog.Info("Migration started", "legacy_guests", len(guests))

	for i, g := range guests {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		party, err := m.migrateGuest(ctx, g)
		if err != nil {
			slog.Warn("Guest migration failed", "guest_id", g.ID, "name", g.FullName(), "error", err)
			report.Errors = append(report.Errors, models.UnitFailure{
				Index: i,
				Unit:  unitName(g),
				Err:   err,
			})
			continue
		}

		report.Migrated++
		slog.Debug("Guest migrated", "guest_id", g.ID, "party_id", party.ID)
	}

	m.metrics.ObserveMigration(report.Migrated, len(report.Errors))
	slog.Info("Migration finished",
		"migrated", report.Migrated,
		"failed", len(report.Errors),
		"total", report.TotalProcessed,
	)
	return report, nil
}

func (m *Migrator) migrateGuest(ctx context.Context, g *models.LegacyGuest) (*models.Party, error) {
	name := g.FullName()
	if name == "" {
		return nil, models.NewValidationError("name", "legacy guest has no name")
	}
	companion := g.CompanionName()

	party := &models.Party{
		DisplayName:    models.DisplayName(name, companion),
		PartySizeTotal: g.InvitedSize(),
		RSVP:           carryRSVP(g.RSVP, g.InvitedSize(), m.fallbackSubmittedAt(g)),
	}

	err := m.store.InTx(ctx, func(ctx context.Context) error {
		if err := m.store.CreateParty(ctx, party); err != nil {
			return err
		}

		primary := &models.Guest{
			ID:               g.ID,
			Name:             name,
			Email:            g.Email,
			PartyID:          party.ID,
			IsPrimaryContact: true,
		}
		if err := m.store.LinkGuestToParty(ctx, primary); err != nil {
			return err
		}
		if err := m.store.DeleteLegacyFields(ctx, g.ID); err != nil {
			return err
		}

		if companion == "" {
			return nil
		}
		return m.store.CreateGuest(ctx, &models.Guest{Name: companion, PartyID: party.ID})
	})
	if err != nil {
		return nil, err
	}
	return party, nil
}

// carryRSVP copies the non-empty legacy RSVP fields. An unset status becomes
// pending and a headcount is kept within the new party's size. A pending
// result never carries a submission date; an answered one without a date
// gets fallback.
func carryRSVP(src models.RSVP, invited int, fallback time.Time) models.RSVP {
	dst := models.RSVP{Status: src.Status.OrPending()}
	if src.PartySizeAttending != nil {
		n := calculator.ClampHeadcount(*src.PartySizeAttending, invited)
		dst.PartySizeAttending = &n
	}
	if s := strings.TrimSpace(src.DietaryRequirements); s != "" {
		dst.DietaryRequirements = s
	}
	if s := strings.TrimSpace(src.AdditionalNotes); s != "" {
		dst.AdditionalNotes = s
	}
	switch {
	case dst.Status == models.StatusPending:
	case src.SubmittedAt != nil:
		t := *src.SubmittedAt
		dst.SubmittedAt = &t
	default:
		t := fallback.UTC()
		dst.SubmittedAt = &t
	}
	return dst
}

// fallbackSubmittedAt is the guest's creation time, or now when unknown.
func (m *Migrator) fallbackSubmittedAt(g *models.LegacyGuest) time.Time {
	if g.CreatedAt > 0 {
		return time.Unix(g.CreatedAt, 0)
	}
	return m.now()
}

func unitName(g *models.LegacyGuest) string {
	if n := g.FullName(); n != "" {
		return n
	}
	return "guest " + g.ID
}
