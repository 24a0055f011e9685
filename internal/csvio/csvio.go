// Package csvio converts between guest-list CSV files and domain records.
//
// Import files carry one party per row: name, email, an unused column, and
// an optional companion name. The first row is a header and is discarded
// without inspection.
//
// Legacy import files carry one guest per row: first name, last name,
// email, phone number and an optional plus-one name.
//
// Export files carry one row per guest. The first eleven columns are fixed;
// the trailing Party ID and Primary Contact columns let an export be fed
// back through ToImportRows.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/rsvp/internal/models"
)

// Import column positions.
const (
	colName      = 0
	colEmail     = 1
	colCompanion = 3
)

// Legacy import column positions.
const (
	colFirstName   = 0
	colLastName    = 1
	colLegacyEmail = 2
	colPhone       = 3
	colPlusOne     = 4
)

// Export column positions read back by ToImportRows.
const (
	exportName      = 1
	exportEmail     = 2
	exportPlusOne   = 4
	exportIsPrimary = 12
)

// DateLayout formats RSVP submission timestamps in exports.
const DateLayout = "2006-01-02 15:04:05"

// ExportHeader is the header row of an export.
var ExportHeader = []string{
	"ID",
	"Name",
	"Email",
	"Has Plus One",
	"Plus One Name",
	"Party Size Total",
	"RSVP Status",
	"Party Size Attending",
	"Dietary Requirements",
	"Additional Notes",
	"RSVP Submitted Date",
	"Party ID",
	"Primary Contact",
}

// ImportBatch is the result of parsing an import file.
type ImportBatch struct {
	Requests []models.PartyRequest

	// Skipped holds the 1-based line numbers of rows with no name.
	Skipped []int
}

// ParseImportRows turns raw rows into party creation requests. Row 0 is the
// header. Rows whose name is blank are skipped, not rejected.
func ParseImportRows(rows [][]string) ImportBatch {
	var batch ImportBatch
	for i, row := range rows {
		if i == 0 {
			continue
		}
		name := field(row, colName)
		if name == "" {
			batch.Skipped = append(batch.Skipped, i+1)
			continue
		}
		batch.Requests = append(batch.Requests, models.PartyRequest{
			Name:          name,
			Email:         field(row, colEmail),
			CompanionName: field(row, colCompanion),
		})
	}
	return batch
}

// ReadImport reads a CSV import file. Rows may have any number of columns;
// missing columns read as empty.
func ReadImport(r io.Reader) (ImportBatch, error) {
	rows, err := readAll(r)
	if err != nil {
		return ImportBatch{}, err
	}
	return ParseImportRows(rows), nil
}

// LegacyImportBatch is the result of parsing a legacy import file.
type LegacyImportBatch struct {
	Requests []models.LegacyGuestRequest

	// Skipped holds the 1-based line numbers of rows with neither a first
	// nor a last name.
	Skipped []int
}

// ParseLegacyImportRows turns raw rows laid out as first name, last name,
// email, phone number and plus-one name into legacy guest requests. Row 0 is
// the header.
func ParseLegacyImportRows(rows [][]string) LegacyImportBatch {
	var batch LegacyImportBatch
	for i, row := range rows {
		if i == 0 {
			continue
		}
		req := models.LegacyGuestRequest{
			FirstName:   field(row, colFirstName),
			LastName:    field(row, colLastName),
			Email:       field(row, colLegacyEmail),
			PhoneNumber: field(row, colPhone),
			PlusOneName: field(row, colPlusOne),
		}
		if req.FirstName == "" && req.LastName == "" {
			batch.Skipped = append(batch.Skipped, i+1)
			continue
		}
		batch.Requests = append(batch.Requests, req)
	}
	return batch
}

// ReadLegacyImport reads a legacy CSV import file.
func ReadLegacyImport(r io.Reader) (LegacyImportBatch, error) {
	rows, err := readAll(r)
	if err != nil {
		return LegacyImportBatch{}, err
	}
	return ParseLegacyImportRows(rows), nil
}

func readAll(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	return rows, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// ExportRecord is one guest row of an export, with RSVP fields read through
// from the owning party (v2) or the guest itself (v1).
type ExportRecord struct {
	ID                  string
	Name                string
	Email               string
	HasPlusOne          bool
	PlusOneName         string
	PartySizeTotal      int
	Status              models.RSVPStatus
	PartySizeAttending  *int
	DietaryRequirements string
	AdditionalNotes     string
	SubmittedAt         *time.Time
	PartyID             string
	PrimaryContact      bool
}

// Row renders the record in ExportHeader column order.
func (r ExportRecord) Row() []string {
	attending := ""
	if r.PartySizeAttending != nil {
		attending = strconv.Itoa(*r.PartySizeAttending)
	}
	submitted := ""
	if r.SubmittedAt != nil {
		submitted = r.SubmittedAt.UTC().Format(DateLayout)
	}
	return []string{
		r.ID,
		r.Name,
		r.Email,
		yesNo(r.HasPlusOne),
		r.PlusOneName,
		strconv.Itoa(r.PartySizeTotal),
		r.Status.OrPending().Label(),
		attending,
		r.DietaryRequirements,
		r.AdditionalNotes,
		submitted,
		r.PartyID,
		yesNo(r.PrimaryContact),
	}
}

// ExportRows renders a header row followed by one row per record.
func ExportRows(records []ExportRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), ExportHeader...))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return rows
}

// WriteCSV writes rows as CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ToImportRows converts export rows (header included) into import rows.
// Only primary-contact rows become parties; companion rows are folded into
// their primary row's Plus One Name column.
func ToImportRows(exported [][]string) [][]string {
	rows := [][]string{{"Name", "Email", "Phone", "Plus One Name"}}
	for i, row := range exported {
		if i == 0 {
			continue
		}
		if len(row) > exportIsPrimary && row[exportIsPrimary] != "Yes" {
			continue
		}
		rows = append(rows, []string{field(row, exportName), field(row, exportEmail), "", field(row, exportPlusOne)})
	}
	return rows
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
