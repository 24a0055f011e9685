package calculator

import (
	"strings"

	"github.com/mmynk/rsvp/internal/models"
)

// Unit is one invitation unit as seen by the statistics pass: a Party in v2,
// a legacy guest in v1.
type Unit struct {
	Invited             int
	Status              models.RSVPStatus
	PartySizeAttending  *int
	DietaryRequirements string
}

// Tally computes statistics over every unit in a single pass.
// guestRecords is reported as-is in TotalGuestRecords.
//
// Counting rules:
//   - an unset status counts as pending
//   - an attending unit with no headcount contributes its full invited size
//   - an explicit headcount of 0 contributes zero seats, not the invited size
func Tally(units []Unit, guestRecords int) models.Stats {
	stats := models.Stats{TotalGuestRecords: guestRecords}

	for _, u := range units {
		invited := u.Invited
		if invited < 1 {
			invited = 1
		}
		stats.TotalInvited += invited

		switch u.Status.OrPending() {
		case models.StatusPending:
			stats.PendingCount++
		case models.StatusAttending:
			stats.AttendingCount++
			if u.PartySizeAttending != nil {
				stats.AttendingSeats += *u.PartySizeAttending
			} else {
				stats.AttendingSeats += invited
			}
		case models.StatusDeclined:
			stats.DeclinedCount++
		}

		if strings.TrimSpace(u.DietaryRequirements) != "" {
			stats.DietaryRequirementsCount++
		}
	}

	return stats
}
