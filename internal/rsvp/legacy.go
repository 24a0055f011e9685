package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mmynk/rsvp/internal/calculator"
	"github.com/mmynk/rsvp/internal/csvio"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

// Legacy is the guest-centric RSVP engine. Each legacy guest is its own
// invitation unit of at most two seats.
type Legacy struct {
	store storage.Store
	opts  options
}

// NewLegacy creates a Legacy engine backed by store.
func NewLegacy(store storage.Store, opts ...Option) *Legacy {
	return &Legacy{store: store, opts: buildOptions(opts)}
}

// SubmitRSVP records a response on a legacy guest. The headcount is clamped
// to [0, 2].
func (l *Legacy) SubmitRSVP(ctx context.Context, guestID string, sub models.Submission) (*models.LegacyGuest, error) {
	if _, err := models.ParseSubmittedStatus(string(sub.Status)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(guestID) == "" {
		return nil, models.NewValidationError("guest_id", "guest ID is required")
	}

	var guest *models.LegacyGuest
	err := retryOnConflict(ctx, l.opts.metrics, func() error {
		g, err := l.store.GetLegacyGuest(ctx, guestID)
		if err != nil {
			return err
		}
		if err := applySubmission(&g.RSVP, sub, models.LegacyMaxAttending, l.opts.now()); err != nil {
			return err
		}
		if err := l.store.UpdateLegacyRSVP(ctx, g); err != nil {
			return err
		}
		guest = g
		return nil
	})
	if err != nil {
		return nil, notFound(err, "guest", guestID)
	}

	l.opts.metrics.ObserveSubmission("v1", string(guest.Status))
	slog.Info("Legacy RSVP submitted",
		"guest_id", guest.ID,
		"status", guest.Status,
		"version", guest.Version,
	)
	return guest, nil
}

// Statistics tallies every legacy guest as one unit of one or two seats.
func (l *Legacy) Statistics(ctx context.Context) (models.Stats, error) {
	guests, err := l.store.ListLegacyGuests(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	units := make([]calculator.Unit, len(guests))
	for i, g := range guests {
		units[i] = calculator.Unit{
			Invited:             g.InvitedSize(),
			Status:              g.Status,
			PartySizeAttending:  g.PartySizeAttending,
			DietaryRequirements: g.DietaryRequirements,
		}
	}
	return calculator.Tally(units, len(guests)), nil
}

// SearchGuests matches the name, first name, last name or plus-one name of
// legacy guests. A blank term matches nothing.
func (l *Legacy) SearchGuests(ctx context.Context, term string) ([]*models.LegacyGuest, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []*models.LegacyGuest{}, nil
	}
	guests, err := l.store.SearchLegacyGuests(ctx, term, l.opts.searchLimit)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []*models.LegacyGuest{}
	}
	return guests, nil
}

// GuestDetails returns the flattened view of a legacy guest, or nil if no
// such guest exists.
func (l *Legacy) GuestDetails(ctx context.Context, guestID string) (*models.GuestDetails, error) {
	g, err := l.store.GetLegacyGuest(ctx, guestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	details := &models.GuestDetails{
		ID:               g.ID,
		Name:             g.Name,
		FullName:         g.FullName(),
		Email:            g.Email,
		IsPrimaryContact: true,
		FirstName:        g.FirstName,
		LastName:         g.LastName,
		PhoneNumber:      g.PhoneNumber,
		HasPlusOne:       g.HasPlusOne,
		PlusOneName:      g.PlusOneName,
	}
	fillRSVP(details, g.RSVP, g.InvitedSize())
	return details, nil
}

// CreateGuest creates a pending legacy guest. A plus one is recorded iff a
// plus-one name is given.
func (l *Legacy) CreateGuest(ctx context.Context, req models.LegacyGuestRequest) (*models.LegacyGuest, error) {
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		return nil, models.NewValidationError("name", "first and last name are required")
	}
	email := strings.TrimSpace(req.Email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	plusOne := strings.TrimSpace(req.PlusOneName)

	guest := &models.LegacyGuest{
		Name:        first + " " + last,
		FirstName:   first,
		LastName:    last,
		Email:       email,
		PhoneNumber: models.SanitizePhone(req.PhoneNumber),
		HasPlusOne:  plusOne != "",
		PlusOneName: plusOne,
		RSVP:        models.RSVP{Status: models.StatusPending},
	}
	if err := l.store.CreateLegacyGuest(ctx, guest); err != nil {
		return nil, err
	}

	slog.Info("Legacy guest created", "guest_id", guest.ID, "has_plus_one", guest.HasPlusOne)
	return guest, nil
}

// BulkImport creates one legacy guest per request, recording failures
// without stopping the batch.
func (l *Legacy) BulkImport(ctx context.Context, reqs []models.LegacyGuestRequest) (*ImportResult, error) {
	result := &ImportResult{Total: len(reqs), CreatedIDs: []string{}}

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		guest, err := l.CreateGuest(ctx, req)
		if err != nil {
			unit := strings.TrimSpace(req.FirstName + " " + req.LastName)
			if unit == "" {
				unit = fmt.Sprintf("row %d", i+1)
			}
			slog.Warn("Import row failed", "index", i, "name", unit, "error", err)
			result.Failures = append(result.Failures, models.UnitFailure{Index: i, Unit: unit, Err: err})
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, guest.ID)
	}

	l.opts.metrics.ObserveImport(result.SuccessCount, len(result.Failures))
	slog.Info("Legacy import finished",
		"total", result.Total,
		"created", result.SuccessCount,
		"failed", len(result.Failures),
	)
	return result, nil
}

// ExportRows renders every legacy guest as a CSV row ordered by name. Each
// legacy guest is the primary contact of its own unit.
func (l *Legacy) ExportRows(ctx context.Context) ([][]string, error) {
	guests, err := l.store.ListLegacyGuests(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(guests, func(i, j int) bool {
		return guests[i].FullName() < guests[j].FullName()
	})

	records := make([]csvio.ExportRecord, 0, len(guests))
	for _, g := range guests {
		records = append(records, csvio.ExportRecord{
			ID:                  g.ID,
			Name:                g.FullName(),
			Email:               g.Email,
			HasPlusOne:          g.HasPlusOne,
			PlusOneName:         g.CompanionName(),
			PartySizeTotal:      g.InvitedSize(),
			Status:              g.Status,
			PartySizeAttending:  g.PartySizeAttending,
			DietaryRequirements: g.DietaryRequirements,
			AdditionalNotes:     g.AdditionalNotes,
			SubmittedAt:         g.SubmittedAt,
			PrimaryContact:      true,
		})
	}
	return csvio.ExportRows(records), nil
}
