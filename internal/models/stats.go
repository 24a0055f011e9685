package models

// Stats summarizes every invitation unit.
type Stats struct {
	// TotalInvited counts invited seats, including unconfirmed plus ones.
	TotalInvited int

	// TotalGuestRecords counts individual guest records (v2) or legacy units (v1).
	TotalGuestRecords int

	PendingCount   int
	AttendingCount int
	DeclinedCount  int

	// AttendingSeats sums the confirmed headcount of attending units. A unit
	// that never gave a headcount counts with its full invited size.
	AttendingSeats int

	DietaryRequirementsCount int
}
