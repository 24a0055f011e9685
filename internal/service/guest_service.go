package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/rsvp"
	"github.com/mmynk/rsvp/pkg/rsvpapi"
	"github.com/mmynk/rsvp/pkg/rsvpapi/rsvpapiconnect"
)

// guestBackend is the schema-specific half of the public service.
type guestBackend interface {
	submit(ctx context.Context, req *rsvpapi.SubmitRSVPRequest) (*rsvpapi.SubmitRSVPResponse, error)
	search(ctx context.Context, term string) ([]rsvpapi.Guest, error)
	details(ctx context.Context, guestID string) (*rsvpapi.GuestDetails, error)
	partyGuests(ctx context.Context, partyID string) ([]rsvpapi.Guest, error)
	partyDetails(ctx context.Context, guestID string) (*rsvpapi.Party, error)
}

// GuestService implements the public Connect GuestService.
type GuestService struct {
	backend guestBackend
}

var _ rsvpapiconnect.GuestServiceHandler = (*GuestService)(nil)

// NewGuestService serves parties and their guests.
func NewGuestService(engine *rsvp.Service) *GuestService {
	return &GuestService{backend: partyBackend{engine}}
}

// NewLegacyGuestService serves unmigrated legacy guests.
func NewLegacyGuestService(engine *rsvp.Legacy) *GuestService {
	return &GuestService{backend: legacyBackend{engine}}
}

// SubmitRSVP records a guest's response.
func (s *GuestService) SubmitRSVP(ctx context.Context, req *connect.Request[rsvpapi.SubmitRSVPRequest]) (*connect.Response[rsvpapi.SubmitRSVPResponse], error) {
	slog.Info("SubmitRSVP request received",
		"party_id", req.Msg.PartyID,
		"guest_id", req.Msg.GuestID,
		"status", req.Msg.RSVPStatus,
	)

	resp, err := s.backend.submit(ctx, req.Msg)
	if err != nil {
		slog.Error("SubmitRSVP failed", "party_id", req.Msg.PartyID, "guest_id", req.Msg.GuestID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// SearchGuests finds guests by name. An empty term returns no guests.
func (s *GuestService) SearchGuests(ctx context.Context, req *connect.Request[rsvpapi.SearchGuestsRequest]) (*connect.Response[rsvpapi.SearchGuestsResponse], error) {
	slog.Info("SearchGuests request received", "term", req.Msg.SearchTerm)

	guests, err := s.backend.search(ctx, req.Msg.SearchTerm)
	if err != nil {
		slog.Error("SearchGuests failed", "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("SearchGuests successful", "count", len(guests))
	return connect.NewResponse(&rsvpapi.SearchGuestsResponse{Guests: guests}), nil
}

// GetGuestDetails returns the flattened guest view, or a nil guest.
func (s *GuestService) GetGuestDetails(ctx context.Context, req *connect.Request[rsvpapi.GetGuestDetailsRequest]) (*connect.Response[rsvpapi.GetGuestDetailsResponse], error) {
	slog.Info("GetGuestDetails request received", "guest_id", req.Msg.GuestID)

	details, err := s.backend.details(ctx, req.Msg.GuestID)
	if err != nil {
		slog.Error("GetGuestDetails failed", "guest_id", req.Msg.GuestID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.GetGuestDetailsResponse{Guest: details}), nil
}

// GetPartyGuests lists the guests of a party.
func (s *GuestService) GetPartyGuests(ctx context.Context, req *connect.Request[rsvpapi.GetPartyGuestsRequest]) (*connect.Response[rsvpapi.GetPartyGuestsResponse], error) {
	slog.Info("GetPartyGuests request received", "party_id", req.Msg.PartyID)

	guests, err := s.backend.partyGuests(ctx, req.Msg.PartyID)
	if err != nil {
		slog.Error("GetPartyGuests failed", "party_id", req.Msg.PartyID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.GetPartyGuestsResponse{Guests: guests}), nil
}

// GetPartyDetails returns the party of a guest, or a nil party.
func (s *GuestService) GetPartyDetails(ctx context.Context, req *connect.Request[rsvpapi.GetPartyDetailsRequest]) (*connect.Response[rsvpapi.GetPartyDetailsResponse], error) {
	slog.Info("GetPartyDetails request received", "guest_id", req.Msg.GuestID)

	party, err := s.backend.partyDetails(ctx, req.Msg.GuestID)
	if err != nil {
		slog.Error("GetPartyDetails failed", "guest_id", req.Msg.GuestID, "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.GetPartyDetailsResponse{Party: party}), nil
}

type partyBackend struct {
	engine *rsvp.Service
}

func (b partyBackend) submit(ctx context.Context, req *rsvpapi.SubmitRSVPRequest) (*rsvpapi.SubmitRSVPResponse, error) {
	sub := toSubmission(req)

	var (
		party *models.Party
		err   error
	)
	if req.PartyID == "" && req.GuestID != "" {
		party, err = b.engine.SubmitGuestRSVP(ctx, req.GuestID, sub)
	} else {
		party, err = b.engine.SubmitRSVP(ctx, req.PartyID, sub)
	}
	if err != nil {
		return nil, err
	}
	return &rsvpapi.SubmitRSVPResponse{
		Success: true,
		Message: rsvp.SuccessMessage,
		Party:   toAPIParty(party),
	}, nil
}

func (b partyBackend) search(ctx context.Context, term string) ([]rsvpapi.Guest, error) {
	hits, err := b.engine.SearchGuests(ctx, term)
	if err != nil {
		return nil, err
	}
	guests := make([]rsvpapi.Guest, len(hits))
	for i := range hits {
		guests[i] = toAPIGuest(&hits[i].Guest, hits[i].PartyNames)
	}
	return guests, nil
}

func (b partyBackend) details(ctx context.Context, guestID string) (*rsvpapi.GuestDetails, error) {
	d, err := b.engine.GuestDetails(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return toAPIDetails(d), nil
}

func (b partyBackend) partyGuests(ctx context.Context, partyID string) ([]rsvpapi.Guest, error) {
	members, err := b.engine.PartyGuests(ctx, partyID)
	if err != nil {
		return nil, err
	}
	guests := make([]rsvpapi.Guest, len(members))
	for i, g := range members {
		guests[i] = toAPIGuest(g, "")
	}
	return guests, nil
}

func (b partyBackend) partyDetails(ctx context.Context, guestID string) (*rsvpapi.Party, error) {
	party, err := b.engine.PartyDetails(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return toAPIParty(party), nil
}

// legacyBackend serves legacy guests, which have no parties.
type legacyBackend struct {
	engine *rsvp.Legacy
}

func (b legacyBackend) submit(ctx context.Context, req *rsvpapi.SubmitRSVPRequest) (*rsvpapi.SubmitRSVPResponse, error) {
	guest, err := b.engine.SubmitRSVP(ctx, req.GuestID, toSubmission(req))
	if err != nil {
		return nil, err
	}
	details, err := b.engine.GuestDetails(ctx, guest.ID)
	if err != nil {
		return nil, err
	}
	return &rsvpapi.SubmitRSVPResponse{
		Success: true,
		Message: rsvp.SuccessMessage,
		Guest:   toAPIDetails(details),
	}, nil
}

func (b legacyBackend) search(ctx context.Context, term string) ([]rsvpapi.Guest, error) {
	hits, err := b.engine.SearchGuests(ctx, term)
	if err != nil {
		return nil, err
	}
	guests := make([]rsvpapi.Guest, len(hits))
	for i, g := range hits {
		guests[i] = toAPILegacyGuest(g)
	}
	return guests, nil
}

func (b legacyBackend) details(ctx context.Context, guestID string) (*rsvpapi.GuestDetails, error) {
	d, err := b.engine.GuestDetails(ctx, guestID)
	if err != nil {
		return nil, err
	}
	return toAPIDetails(d), nil
}

func (legacyBackend) partyGuests(context.Context, string) ([]rsvpapi.Guest, error) {
	return []rsvpapi.Guest{}, nil
}

func (legacyBackend) partyDetails(context.Context, string) (*rsvpapi.Party, error) {
	return nil, nil
}
