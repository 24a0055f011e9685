package service

import (
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/pkg/rsvpapi"
)

func toAPIParty(p *models.Party) *rsvpapi.Party {
	if p == nil {
		return nil
	}
	return &rsvpapi.Party{
		ID:                  p.ID,
		DisplayName:         p.DisplayName,
		PartySizeTotal:      p.PartySizeTotal,
		RSVPStatus:          string(p.Status.OrPending()),
		PartySizeAttending:  p.PartySizeAttending,
		DietaryRequirements: p.DietaryRequirements,
		AdditionalNotes:     p.AdditionalNotes,
		RSVPSubmittedDate:   p.SubmittedAt,
		HasSubmittedRSVP:    p.HasSubmitted(),
	}
}

func toAPIGuest(g *models.Guest, partyNames string) rsvpapi.Guest {
	return rsvpapi.Guest{
		ID:               g.ID,
		Name:             g.Name,
		Email:            g.Email,
		PartyID:          g.PartyID,
		PartyNames:       partyNames,
		IsPrimaryContact: g.IsPrimaryContact,
	}
}

func toAPILegacyGuest(g *models.LegacyGuest) rsvpapi.Guest {
	return rsvpapi.Guest{
		ID:               g.ID,
		Name:             g.FullName(),
		FirstName:        g.FirstName,
		LastName:         g.LastName,
		Email:            g.Email,
		IsPrimaryContact: true,
		HasPlusOne:       g.HasPlusOne,
		PlusOneName:      g.CompanionName(),
	}
}

func toAPIDetails(d *models.GuestDetails) *rsvpapi.GuestDetails {
	if d == nil {
		return nil
	}
	return &rsvpapi.GuestDetails{
		ID:                  d.ID,
		Name:                d.Name,
		FullName:            d.FullName,
		FirstName:           d.FirstName,
		LastName:            d.LastName,
		Email:               d.Email,
		PhoneNumber:         d.PhoneNumber,
		PartyID:             d.PartyID,
		IsPrimaryContact:    d.IsPrimaryContact,
		HasPlusOne:          d.HasPlusOne,
		PlusOneName:         d.PlusOneName,
		PartySizeTotal:      d.PartySizeTotal,
		RSVPStatus:          string(d.RSVPStatus),
		PartySizeAttending:  d.PartySizeAttending,
		DietaryRequirements: d.DietaryRequirements,
		AdditionalNotes:     d.AdditionalNotes,
		RSVPSubmittedDate:   d.SubmittedAt,
		HasSubmittedRSVP:    d.HasSubmittedRSVP,
	}
}

func toAPIStats(s models.Stats) rsvpapi.Stats {
	return rsvpapi.Stats{
		TotalInvited:             s.TotalInvited,
		TotalGuestRecords:        s.TotalGuestRecords,
		PendingCount:             s.PendingCount,
		AttendingCount:           s.AttendingCount,
		DeclinedCount:            s.DeclinedCount,
		AttendingSeats:           s.AttendingSeats,
		DietaryRequirementsCount: s.DietaryRequirementsCount,
	}
}

func toSubmission(req *rsvpapi.SubmitRSVPRequest) models.Submission {
	return models.Submission{
		Status:              models.RSVPStatus(req.RSVPStatus),
		PartySizeAttending:  req.PartySizeAttending,
		DietaryRequirements: req.DietaryRequirements,
		AdditionalNotes:     req.AdditionalNotes,
	}
}

// summarize renders batch failures the way the admin surface reports them.
func summarize(failures []models.UnitFailure, total int, op string) []string {
	if len(failures) == 0 {
		return nil
	}
	batch := &models.BatchError{Op: op, Total: total, Failures: failures}
	return batch.Summary(models.DefaultSummaryLimit)
}
