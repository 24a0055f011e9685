package rsvp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/rsvp/internal/models"
)

// CreatePartyWithGuests creates a pending party with its primary guest and,
// when a companion is named, a second guest. What happens when the companion
// cannot be created depends on the configured CompanionPolicy.
func (s *Service) CreatePartyWithGuests(ctx context.Context, req models.PartyRequest) (*models.Party, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "Guest name is required")
	}
	email := strings.TrimSpace(req.Email)
	if err := models.ValidateEmail(email); err != nil {
		return nil, err
	}
	companion := strings.TrimSpace(req.CompanionName)

	party := &models.Party{
		DisplayName:    models.DisplayName(name, companion),
		PartySizeTotal: req.PartySize(),
		RSVP:           models.RSVP{Status: models.StatusPending},
	}

	createPrimary := func(ctx context.Context) error {
		if err := s.store.CreateParty(ctx, party); err != nil {
			return fmt.Errorf("failed to create party: %w", err)
		}
		primary := &models.Guest{
			Name:             name,
			Email:            email,
			PartyID:          party.ID,
			IsPrimaryContact: true,
		}
		if err := s.store.CreateGuest(ctx, primary); err != nil {
			return fmt.Errorf("failed to create primary guest: %w", err)
		}
		return nil
	}
	createCompanion := func(ctx context.Context) error {
		if companion == "" {
			return nil
		}
		guest := &models.Guest{Name: companion, PartyID: party.ID}
		if err := s.store.CreateGuest(ctx, guest); err != nil {
			return fmt.Errorf("failed to create companion guest: %w", err)
		}
		return nil
	}

	switch s.opts.policy {
	case CompanionRollback:
		err := s.store.InTx(ctx, func(ctx context.Context) error {
			if err := createPrimary(ctx); err != nil {
				return err
			}
			return createCompanion(ctx)
		})
		if err != nil {
			return nil, err
		}
	default:
		if err := s.store.InTx(ctx, createPrimary); err != nil {
			return nil, err
		}
		if err := createCompanion(ctx); err != nil {
			slog.Warn("Companion guest not created",
				"party_id", party.ID,
				"companion", companion,
				"error", err,
			)
		}
	}

	slog.Info("Party created",
		"party_id", party.ID,
		"display_name", party.DisplayName,
		"party_size_total", party.PartySizeTotal,
	)
	return party, nil
}

// ImportResult reports the outcome of a bulk import.
type ImportResult struct {
	Total        int
	SuccessCount int
	CreatedIDs   []string
	Failures     []models.UnitFailure
}

// Err returns a *models.BatchError when any row failed, nil otherwise.
func (r *ImportResult) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &models.BatchError{Op: "import", Total: r.Total, Failures: r.Failures}
}

// BulkImport creates one party per request. A failing request is recorded
// and never stops the rest of the batch. The returned error is non-nil only
// when ctx is cancelled; the result then covers the rows processed so far.
func (s *Service) BulkImport(ctx context.Context, reqs []models.PartyRequest) (*ImportResult, error) {
	result := &ImportResult{Total: len(reqs), CreatedIDs: []string{}}

	for i, req := range reqs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		party, err := s.CreatePartyWithGuests(ctx, req)
		if err != nil {
			unit := strings.TrimSpace(req.Name)
			if unit == "" {
				unit = fmt.Sprintf("row %d", i+1)
			}
			slog.Warn("Import row failed", "index", i, "name", unit, "error", err)
			result.Failures = append(result.Failures, models.UnitFailure{Index: i, Unit: unit, Err: err})
			continue
		}
		result.SuccessCount++
		result.CreatedIDs = append(result.CreatedIDs, party.ID)
	}

	s.opts.metrics.ObserveImport(result.SuccessCount, len(result.Failures))
	slog.Info("Import finished",
		"total", result.Total,
		"created", result.SuccessCount,
		"failed", len(result.Failures),
	)
	return result, nil
}
