package rsvp

import (
	"context"
	"strings"

	"github.com/mmynk/rsvp/internal/csvio"
	"github.com/mmynk/rsvp/internal/models"
)

// ExportRows renders every guest as a CSV row, ordered by name, with the
// RSVP fields read through from the guest's party. A primary contact's row
// names the rest of the party as its plus one.
func (s *Service) ExportRows(ctx context.Context) ([][]string, error) {
	records, err := s.exportRecords(ctx)
	if err != nil {
		return nil, err
	}
	return csvio.ExportRows(records), nil
}

func (s *Service) exportRecords(ctx context.Context) ([]csvio.ExportRecord, error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return nil, err
	}
	guests, err := s.store.ListGuests(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*models.Party, len(parties))
	for _, p := range parties {
		byID[p.ID] = p
	}
	companions := make(map[string][]string)
	for _, g := range guests {
		if !g.IsPrimaryContact {
			companions[g.PartyID] = append(companions[g.PartyID], g.Name)
		}
	}

	records := make([]csvio.ExportRecord, 0, len(guests))
	for _, g := range guests {
		rec := csvio.ExportRecord{
			ID:             g.ID,
			Name:           g.Name,
			Email:          g.Email,
			PartyID:        g.PartyID,
			PrimaryContact: g.IsPrimaryContact,
		}
		if g.IsPrimaryContact {
			rec.PlusOneName = strings.Join(companions[g.PartyID], " & ")
			rec.HasPlusOne = rec.PlusOneName != ""
		}
		if p, ok := byID[g.PartyID]; ok {
			rec.PartySizeTotal = p.PartySizeTotal
			rec.Status = p.Status
			rec.PartySizeAttending = p.PartySizeAttending
			rec.DietaryRequirements = p.DietaryRequirements
			rec.AdditionalNotes = p.AdditionalNotes
			rec.SubmittedAt = p.SubmittedAt
		}
		records = append(records, rec)
	}
	return records, nil
}
