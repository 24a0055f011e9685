package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/internal/auth"
	"github.com/mmynk/rsvp/internal/middleware"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/pkg/rsvpapi"
)

const importCSV = `Name,Email,Unused,Plus One
Alice Smith,alice@example.com,,Bob Jones
,,,
Carol White,not-an-email,,
Dave Brown,,,
`

func TestImportGuests(t *testing.T) {
	c, cleanup := setupTestServer(t, false)
	defer cleanup()

	resp, err := c.admin.ImportGuests(context.Background(), connect.NewRequest(&rsvpapi.ImportGuestsRequest{CSV: importCSV}))
	if err != nil {
		t.Fatalf("ImportGuests failed: %v", err)
	}

	msg := resp.Msg
	if msg.RowsProcessed != 4 {
		t.Errorf("expected 4 rows processed, got %d", msg.RowsProcessed)
	}
	if msg.SuccessCount != 2 {
		t.Errorf("expected 2 successes, got %d", msg.SuccessCount)
	}
	if len(msg.SkippedRows) != 1 || msg.SkippedRows[0] != 3 {
		t.Errorf("expected line 3 skipped, got %v", msg.SkippedRows)
	}
	if msg.ErrorCount != 1 || len(msg.Errors) != 1 {
		t.Fatalf("expected one error, got %d %v", msg.ErrorCount, msg.Errors)
	}
	if !strings.HasPrefix(msg.Errors[0], "Carol White") {
		t.Errorf("expected error to name Carol White, got %q", msg.Errors[0])
	}
	if len(msg.CreatedIDs) != 2 {
		t.Errorf("expected 2 created IDs, got %v", msg.CreatedIDs)
	}

	stats, err := c.admin.GetStatistics(context.Background(), connect.NewRequest(&rsvpapi.GetStatisticsRequest{}))
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	want := rsvpapi.Stats{TotalInvited: 3, TotalGuestRecords: 3, PendingCount: 2}
	if stats.Msg.Stats != want {
		t.Errorf("expected %+v, got %+v", want, stats.Msg.Stats)
	}
}

func TestImportGuests_MalformedCSV(t *testing.T) {
	c, cleanup := setupTestServer(t, false)
	defer cleanup()

	_, err := c.admin.ImportGuests(context.Background(), connect.NewRequest(&rsvpapi.ImportGuestsRequest{
		CSV: "Name\n\"unterminated\n",
	}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestExportGuests(t *testing.T) {
	c, cleanup := setupTestServer(t, false)
	defer cleanup()
	ctx := context.Background()

	created := createParty(t, c, "Alice Smith", "Bob Jones")
	if _, err := c.guests.SubmitRSVP(ctx, connect.NewRequest(&rsvpapi.SubmitRSVPRequest{
		PartyID:    created.Party.ID,
		RSVPStatus: "declined",
	})); err != nil {
		t.Fatalf("SubmitRSVP failed: %v", err)
	}

	resp, err := c.admin.ExportGuests(ctx, connect.NewRequest(&rsvpapi.ExportGuestsRequest{}))
	if err != nil {
		t.Fatalf("ExportGuests failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(resp.Msg.CSV), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines:\n%s", len(lines), resp.Msg.CSV)
	}
	if !strings.HasPrefix(lines[0], "ID,Name,Email,Has Plus One") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(resp.Msg.CSV, "Alice Smith") || !strings.Contains(resp.Msg.CSV, "Declined") {
		t.Errorf("export missing primary row:\n%s", resp.Msg.CSV)
	}
}

func TestMigrationEndpoints(t *testing.T) {
	c, cleanup := setupTestServer(t, false)
	defer cleanup()
	ctx := context.Background()

	attending := 2
	legacy := &models.LegacyGuest{
		FirstName:   "Alice",
		LastName:    "Smith",
		HasPlusOne:  true,
		PlusOneName: "Bob",
		RSVP:        models.RSVP{Status: models.StatusAttending, PartySizeAttending: &attending},
	}
	if err := c.store.CreateLegacyGuest(ctx, legacy); err != nil {
		t.Fatalf("CreateLegacyGuest failed: %v", err)
	}

	status, err := c.admin.MigrationStatus(ctx, connect.NewRequest(&rsvpapi.MigrationStatusRequest{}))
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if !status.Msg.MigrationNeeded {
		t.Error("expected migration needed")
	}

	run, err := c.admin.RunMigration(ctx, connect.NewRequest(&rsvpapi.RunMigrationRequest{}))
	if err != nil {
		t.Fatalf("RunMigration failed: %v", err)
	}
	if run.Msg.Migrated != 1 || run.Msg.TotalProcessed != 1 || run.Msg.ErrorCount != 0 {
		t.Errorf("unexpected report %+v", run.Msg)
	}

	status, err = c.admin.MigrationStatus(ctx, connect.NewRequest(&rsvpapi.MigrationStatusRequest{}))
	if err != nil {
		t.Fatalf("MigrationStatus failed: %v", err)
	}
	if status.Msg.MigrationNeeded {
		t.Error("expected no migration needed after run")
	}

	again, err := c.admin.RunMigration(ctx, connect.NewRequest(&rsvpapi.RunMigrationRequest{}))
	if err != nil {
		t.Fatalf("second RunMigration failed: %v", err)
	}
	if again.Msg.Migrated != 0 || again.Msg.TotalProcessed != 0 {
		t.Errorf("expected second run to be a no-op, got %+v", again.Msg)
	}

	stats, err := c.admin.GetStatistics(ctx, connect.NewRequest(&rsvpapi.GetStatisticsRequest{}))
	if err != nil {
		t.Fatalf("GetStatistics failed: %v", err)
	}
	if stats.Msg.Stats.AttendingCount != 1 || stats.Msg.Stats.AttendingSeats != 2 {
		t.Errorf("unexpected stats after migration %+v", stats.Msg.Stats)
	}
}

func TestLegacyImportAndExport(t *testing.T) {
	c, cleanup := setupTestServer(t, true)
	defer cleanup()
	ctx := context.Background()

	csv := "First,Last,Email,Phone,Plus One\nAlice,Smith,alice@example.com,555-0100,Bob\nCarol,,,,\n"
	resp, err := c.admin.ImportGuests(ctx, connect.NewRequest(&rsvpapi.ImportGuestsRequest{CSV: csv}))
	if err != nil {
		t.Fatalf("ImportGuests failed: %v", err)
	}
	if resp.Msg.SuccessCount != 1 || resp.Msg.ErrorCount != 1 {
		t.Errorf("expected 1 success and 1 error, got %+v", resp.Msg)
	}

	export, err := c.admin.ExportGuests(ctx, connect.NewRequest(&rsvpapi.ExportGuestsRequest{}))
	if err != nil {
		t.Fatalf("ExportGuests failed: %v", err)
	}
	if !strings.Contains(export.Msg.CSV, "Alice Smith") {
		t.Errorf("legacy export missing guest:\n%s", export.Msg.CSV)
	}
}

func TestAdminRequiresToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	c, cleanup := setupTestServer(t, false, connect.WithInterceptors(middleware.RequireAdmin(tokens)))
	defer cleanup()
	ctx := context.Background()

	_, err := c.admin.CreateParty(ctx, connect.NewRequest(&rsvpapi.CreatePartyRequest{Name: "Alice"}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated without token, got %v", err)
	}

	req := connect.NewRequest(&rsvpapi.CreatePartyRequest{Name: "Alice"})
	req.Header().Set("Authorization", "Bearer not-a-token")
	_, err = c.admin.CreateParty(ctx, req)
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Fatalf("expected unauthenticated with bad token, got %v", err)
	}

	token, err := tokens.Generate("planner")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	req = connect.NewRequest(&rsvpapi.CreatePartyRequest{Name: "Alice"})
	req.Header().Set("Authorization", "Bearer "+token)
	resp, err := c.admin.CreateParty(ctx, req)
	if err != nil {
		t.Fatalf("CreateParty with token failed: %v", err)
	}
	if resp.Msg.Party.DisplayName != "Alice" {
		t.Errorf("unexpected party %+v", resp.Msg.Party)
	}

	// Guest endpoints stay open.
	if _, err := c.guests.SearchGuests(ctx, connect.NewRequest(&rsvpapi.SearchGuestsRequest{SearchTerm: "alice"})); err != nil {
		t.Errorf("SearchGuests should not require a token: %v", err)
	}
}
