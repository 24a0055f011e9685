// Package rsvpapi defines the wire messages of the RSVP Connect services.
// Messages are plain structs carried as JSON by Codec.
package rsvpapi

import "time"

// Party is an invitation unit and its shared RSVP.
type Party struct {
	ID                  string     `json:"id"`
	DisplayName         string     `json:"displayName"`
	PartySizeTotal      int        `json:"partySizeTotal"`
	RSVPStatus          string     `json:"rsvpStatus"`
	PartySizeAttending  *int       `json:"partySizeAttending,omitempty"`
	DietaryRequirements string     `json:"dietaryRequirements,omitempty"`
	AdditionalNotes     string     `json:"additionalNotes,omitempty"`
	RSVPSubmittedDate   *time.Time `json:"rsvpSubmittedDate,omitempty"`
	HasSubmittedRSVP    bool       `json:"hasSubmittedRsvp"`
}

// Guest is a search or roster entry. Legacy guests fill the name parts and
// plus-one fields; party guests fill PartyID and PartyNames.
type Guest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Email            string `json:"email,omitempty"`
	PartyID          string `json:"partyId,omitempty"`
	PartyNames       string `json:"partyNames,omitempty"`
	IsPrimaryContact bool   `json:"isPrimaryContact"`
	HasPlusOne       bool   `json:"hasPlusOne,omitempty"`
	PlusOneName      string `json:"plusOneName,omitempty"`
}

// GuestDetails is a guest joined with the RSVP fields that apply to it.
type GuestDetails struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	FullName            string     `json:"fullName"`
	FirstName           string     `json:"firstName,omitempty"`
	LastName            string     `json:"lastName,omitempty"`
	Email               string     `json:"email,omitempty"`
	PhoneNumber         string     `json:"phoneNumber,omitempty"`
	PartyID             string     `json:"partyId,omitempty"`
	IsPrimaryContact    bool       `json:"isPrimaryContact"`
	HasPlusOne          bool       `json:"hasPlusOne"`
	PlusOneName         string     `json:"plusOneName,omitempty"`
	PartySizeTotal      int        `json:"partySizeTotal"`
	RSVPStatus          string     `json:"rsvpStatus"`
	PartySizeAttending  *int       `json:"partySizeAttending,omitempty"`
	DietaryRequirements string     `json:"dietaryRequirements,omitempty"`
	AdditionalNotes     string     `json:"additionalNotes,omitempty"`
	RSVPSubmittedDate   *time.Time `json:"rsvpSubmittedDate,omitempty"`
	HasSubmittedRSVP    bool       `json:"hasSubmittedRsvp"`
}

// Stats mirrors the statistics dashboard.
type Stats struct {
	TotalInvited             int `json:"totalInvited"`
	TotalGuestRecords        int `json:"totalGuestRecords"`
	PendingCount             int `json:"pendingCount"`
	AttendingCount           int `json:"attendingCount"`
	DeclinedCount            int `json:"declinedCount"`
	AttendingSeats           int `json:"attendingSeats"`
	DietaryRequirementsCount int `json:"dietaryRequirementsCount"`
}

// SubmitRSVPRequest targets a party by PartyID or, failing that, by the
// GuestID of any of its guests. Under the legacy schema only GuestID is
// used. Nil optional fields leave stored values untouched.
type SubmitRSVPRequest struct {
	PartyID             string  `json:"partyId,omitempty"`
	GuestID             string  `json:"guestId,omitempty"`
	RSVPStatus          string  `json:"rsvpStatus"`
	PartySizeAttending  *int    `json:"partySizeAttending,omitempty"`
	DietaryRequirements *string `json:"dietaryRequirements,omitempty"`
	AdditionalNotes     *string `json:"additionalNotes,omitempty"`
}

type SubmitRSVPResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Party   *Party        `json:"party,omitempty"`
	Guest   *GuestDetails `json:"guest,omitempty"`
}

type SearchGuestsRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type SearchGuestsResponse struct {
	Guests []Guest `json:"guests"`
}

type GetGuestDetailsRequest struct {
	GuestID string `json:"guestId"`
}

// GetGuestDetailsResponse carries a nil Guest when the guest does not exist.
type GetGuestDetailsResponse struct {
	Guest *GuestDetails `json:"guest"`
}

type GetPartyGuestsRequest struct {
	PartyID string `json:"partyId"`
}

type GetPartyGuestsResponse struct {
	Guests []Guest `json:"guests"`
}

type GetPartyDetailsRequest struct {
	GuestID string `json:"guestId"`
}

// GetPartyDetailsResponse carries a nil Party when the guest or its party
// does not exist.
type GetPartyDetailsResponse struct {
	Party *Party `json:"party"`
}

type GetStatisticsRequest struct{}

type GetStatisticsResponse struct {
	Stats Stats `json:"stats"`
}

type CreatePartyRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	CompanionName string `json:"companionName,omitempty"`
}

type CreatePartyResponse struct {
	Party  *Party  `json:"party"`
	Guests []Guest `json:"guests"`
}

type CreateLegacyGuestRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	PlusOneName string `json:"plusOneName,omitempty"`
}

type CreateLegacyGuestResponse struct {
	Guest *GuestDetails `json:"guest"`
}

// ImportGuestsRequest carries a whole CSV file.
type ImportGuestsRequest struct {
	CSV string `json:"csv"`
}

// ImportGuestsResponse reports an import. Errors holds a truncated summary;
// ErrorCount is the full count.
type ImportGuestsResponse struct {
	RowsProcessed int      `json:"rowsProcessed"`
	SuccessCount  int      `json:"successCount"`
	SkippedRows   []int    `json:"skippedRows,omitempty"`
	ErrorCount    int      `json:"errorCount"`
	Errors        []string `json:"errors,omitempty"`
	CreatedIDs    []string `json:"createdIds"`
}

type ExportGuestsRequest struct{}

type ExportGuestsResponse struct {
	CSV string `json:"csv"`
}

type RunMigrationRequest struct{}

type RunMigrationResponse struct {
	Migrated       int      `json:"migrated"`
	TotalProcessed int      `json:"totalProcessed"`
	ErrorCount     int      `json:"errorCount"`
	Errors         []string `json:"errors,omitempty"`
}

type MigrationStatusRequest struct{}

type MigrationStatusResponse struct {
	MigrationNeeded bool `json:"migrationNeeded"`
}
