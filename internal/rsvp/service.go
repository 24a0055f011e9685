package rsvp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/rsvp/internal/calculator"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

// Service is the party-centric RSVP engine.
type Service struct {
	store storage.Store
	opts  options
}

// New creates a Service backed by store.
func New(store storage.Store, opts ...Option) *Service {
	return &Service{store: store, opts: buildOptions(opts)}
}

// SubmitRSVP records a response for a party and returns the updated party.
func (s *Service) SubmitRSVP(ctx context.Context, partyID string, sub models.Submission) (*models.Party, error) {
	if _, err := models.ParseSubmittedStatus(string(sub.Status)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(partyID) == "" {
		return nil, models.NewValidationError("party_id", "party ID is required")
	}

	var party *models.Party
	err := retryOnConflict(ctx, s.opts.metrics, func() error {
		p, err := s.store.GetParty(ctx, partyID)
		if err != nil {
			return err
		}
		if err := applySubmission(&p.RSVP, sub, p.PartySizeTotal, s.opts.now()); err != nil {
			return err
		}
		if err := s.store.UpdatePartyRSVP(ctx, p); err != nil {
			return err
		}
		party = p
		return nil
	})
	if err != nil {
		return nil, notFound(err, "party", partyID)
	}

	s.opts.metrics.ObserveSubmission("v2", string(party.Status))
	slog.Info("RSVP submitted",
		"party_id", party.ID,
		"status", party.Status,
		"version", party.Version,
	)
	return party, nil
}

// SubmitGuestRSVP records a response on behalf of a guest by updating the
// guest's party.
func (s *Service) SubmitGuestRSVP(ctx context.Context, guestID string, sub models.Submission) (*models.Party, error) {
	if _, err := models.ParseSubmittedStatus(string(sub.Status)); err != nil {
		return nil, err
	}

	guest, err := s.store.GetGuest(ctx, guestID)
	if err != nil {
		return nil, notFound(err, "guest", guestID)
	}
	if guest.PartyID == "" {
		return nil, &models.NotFoundError{Kind: "party for guest", ID: guestID}
	}
	return s.SubmitRSVP(ctx, guest.PartyID, sub)
}

// Statistics tallies every party. TotalGuestRecords counts individual guests.
func (s *Service) Statistics(ctx context.Context) (models.Stats, error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	guests, err := s.store.CountGuests(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	units := make([]calculator.Unit, len(parties))
	for i, p := range parties {
		units[i] = calculator.Unit{
			Invited:             p.PartySizeTotal,
			Status:              p.Status,
			PartySizeAttending:  p.PartySizeAttending,
			DietaryRequirements: p.DietaryRequirements,
		}
	}
	return calculator.Tally(units, guests), nil
}

// SearchGuests finds guests by name substring. Each hit carries the names of
// everyone in its party. A blank term matches nothing.
func (s *Service) SearchGuests(ctx context.Context, term string) ([]models.GuestSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.GuestSummary{}, nil
	}

	guests, err := s.store.SearchGuests(ctx, term, s.opts.searchLimit)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string)
	results := make([]models.GuestSummary, 0, len(guests))
	for _, g := range guests {
		partyNames, ok := names[g.PartyID]
		if !ok {
			members, err := s.store.ListGuestsByParty(ctx, g.PartyID)
			if err != nil {
				return nil, err
			}
			partyNames = joinNames(members)
			names[g.PartyID] = partyNames
		}
		results = append(results, models.GuestSummary{Guest: *g, PartyNames: partyNames})
	}
	return results, nil
}

// GuestDetails returns the guest joined with its party's RSVP fields, or nil
// if no such guest exists.
func (s *Service) GuestDetails(ctx context.Context, guestID string) (*models.GuestDetails, error) {
	guest, err := s.store.GetGuest(ctx, guestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	details := &models.GuestDetails{
		ID:               guest.ID,
		Name:             guest.Name,
		FullName:         guest.Name,
		Email:            guest.Email,
		IsPrimaryContact: guest.IsPrimaryContact,
		PartyID:          guest.PartyID,
		RSVPStatus:       models.StatusPending,
	}

	party, err := s.store.GetParty(ctx, guest.PartyID)
	if errors.Is(err, storage.ErrNotFound) {
		return details, nil
	}
	if err != nil {
		return nil, err
	}
	fillRSVP(details, party.RSVP, party.PartySizeTotal)
	return details, nil
}

// PartyGuests lists the guests of a party, primary contact first.
func (s *Service) PartyGuests(ctx context.Context, partyID string) ([]*models.Guest, error) {
	guests, err := s.store.ListGuestsByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if guests == nil {
		guests = []*models.Guest{}
	}
	return guests, nil
}

// PartyDetails returns the party a guest belongs to, or nil if the guest or
// its party does not exist.
func (s *Service) PartyDetails(ctx context.Context, guestID string) (*models.Party, error) {
	guest, err := s.store.GetGuest(ctx, guestID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	party, err := s.store.GetParty(ctx, guest.PartyID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load party for guest %s: %w", guestID, err)
	}
	return party, nil
}

func fillRSVP(d *models.GuestDetails, r models.RSVP, invited int) {
	d.PartySizeTotal = invited
	d.RSVPStatus = r.Status.OrPending()
	d.PartySizeAttending = r.PartySizeAttending
	d.DietaryRequirements = r.DietaryRequirements
	d.AdditionalNotes = r.AdditionalNotes
	d.SubmittedAt = r.SubmittedAt
	d.HasSubmittedRSVP = models.HasSubmitted(r.Status)
}

func joinNames(guests []*models.Guest) string {
	names := make([]string, 0, len(guests))
	for _, g := range guests {
		names = append(names, g.Name)
	}
	return strings.Join(names, " & ")
}
