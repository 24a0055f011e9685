package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/internal/csvio"
	"github.com/mmynk/rsvp/internal/migration"
	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/rsvp"
	"github.com/mmynk/rsvp/pkg/rsvpapi"
	"github.com/mmynk/rsvp/pkg/rsvpapi/rsvpapiconnect"
)

// AdminService implements the Connect AdminService: statistics, roster
// creation, CSV import/export and migration.
type AdminService struct {
	parties  *rsvp.Service
	legacy   *rsvp.Legacy
	migrator *migration.Migrator

	// useLegacy selects the legacy engine for statistics, import and export.
	useLegacy bool
}

var _ rsvpapiconnect.AdminServiceHandler = (*AdminService)(nil)

// NewAdminService creates an AdminService. With useLegacy set, statistics,
// import and export operate on legacy guests instead of parties.
func NewAdminService(parties *rsvp.Service, legacy *rsvp.Legacy, migrator *migration.Migrator, useLegacy bool) *AdminService {
	return &AdminService{
		parties:   parties,
		legacy:    legacy,
		migrator:  migrator,
		useLegacy: useLegacy,
	}
}

// GetStatistics computes the dashboard figures.
func (s *AdminService) GetStatistics(ctx context.Context, req *connect.Request[rsvpapi.GetStatisticsRequest]) (*connect.Response[rsvpapi.GetStatisticsResponse], error) {
	slog.Info("GetStatistics request received", "legacy", s.useLegacy)

	var (
		stats models.Stats
		err   error
	)
	if s.useLegacy {
		stats, err = s.legacy.Statistics(ctx)
	} else {
		stats, err = s.parties.Statistics(ctx)
	}
	if err != nil {
		slog.Error("GetStatistics failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.GetStatisticsResponse{Stats: toAPIStats(stats)}), nil
}

// CreateParty creates one party with its guests.
func (s *AdminService) CreateParty(ctx context.Context, req *connect.Request[rsvpapi.CreatePartyRequest]) (*connect.Response[rsvpapi.CreatePartyResponse], error) {
	slog.Info("CreateParty request received", "name", req.Msg.Name)

	party, err := s.parties.CreatePartyWithGuests(ctx, models.PartyRequest{
		Name:          req.Msg.Name,
		Email:         req.Msg.Email,
		CompanionName: req.Msg.CompanionName,
	})
	if err != nil {
		slog.Error("CreateParty failed", "error", err)
		return nil, toConnectError(err)
	}

	members, err := s.parties.PartyGuests(ctx, party.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	guests := make([]rsvpapi.Guest, len(members))
	for i, g := range members {
		guests[i] = toAPIGuest(g, "")
	}

	return connect.NewResponse(&rsvpapi.CreatePartyResponse{
		Party:  toAPIParty(party),
		Guests: guests,
	}), nil
}

// CreateLegacyGuest creates one legacy guest.
func (s *AdminService) CreateLegacyGuest(ctx context.Context, req *connect.Request[rsvpapi.CreateLegacyGuestRequest]) (*connect.Response[rsvpapi.CreateLegacyGuestResponse], error) {
	slog.Info("CreateLegacyGuest request received",
		"first_name", req.Msg.FirstName,
		"last_name", req.Msg.LastName,
	)

	guest, err := s.legacy.CreateGuest(ctx, models.LegacyGuestRequest{
		FirstName:   req.Msg.FirstName,
		LastName:    req.Msg.LastName,
		Email:       req.Msg.Email,
		PhoneNumber: req.Msg.PhoneNumber,
		PlusOneName: req.Msg.PlusOneName,
	})
	if err != nil {
		slog.Error("CreateLegacyGuest failed", "error", err)
		return nil, toConnectError(err)
	}

	details, err := s.legacy.GuestDetails(ctx, guest.ID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.CreateLegacyGuestResponse{Guest: toAPIDetails(details)}), nil
}

// ImportGuests parses a CSV file and creates a party (or a legacy guest)
// per row. Rows that fail are reported without failing the call.
func (s *AdminService) ImportGuests(ctx context.Context, req *connect.Request[rsvpapi.ImportGuestsRequest]) (*connect.Response[rsvpapi.ImportGuestsResponse], error) {
	slog.Info("ImportGuests request received", "bytes", len(req.Msg.CSV), "legacy", s.useLegacy)

	resp, err := s.importCSV(ctx, req.Msg.CSV)
	if err != nil {
		slog.Error("ImportGuests failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(resp), nil
}

// ImportCSV runs an import outside of Connect, for the HTTP upload endpoint.
func (s *AdminService) ImportCSV(ctx context.Context, csv string) (*rsvpapi.ImportGuestsResponse, error) {
	return s.importCSV(ctx, csv)
}

func (s *AdminService) importCSV(ctx context.Context, csv string) (*rsvpapi.ImportGuestsResponse, error) {
	var (
		result  *rsvp.ImportResult
		skipped []int
	)
	if s.useLegacy {
		batch, err := csvio.ReadLegacyImport(strings.NewReader(csv))
		if err != nil {
			return nil, models.NewValidationError("csv", err.Error())
		}
		skipped = batch.Skipped
		if result, err = s.legacy.BulkImport(ctx, batch.Requests); err != nil {
			return nil, err
		}
	} else {
		batch, err := csvio.ReadImport(strings.NewReader(csv))
		if err != nil {
			return nil, models.NewValidationError("csv", err.Error())
		}
		skipped = batch.Skipped
		if result, err = s.parties.BulkImport(ctx, batch.Requests); err != nil {
			return nil, err
		}
	}

	return &rsvpapi.ImportGuestsResponse{
		RowsProcessed: result.Total + len(skipped),
		SuccessCount:  result.SuccessCount,
		SkippedRows:   skipped,
		ErrorCount:    len(result.Failures),
		Errors:        summarize(result.Failures, result.Total, "import"),
		CreatedIDs:    result.CreatedIDs,
	}, nil
}

// ExportGuests renders the guest list as CSV.
func (s *AdminService) ExportGuests(ctx context.Context, req *connect.Request[rsvpapi.ExportGuestsRequest]) (*connect.Response[rsvpapi.ExportGuestsResponse], error) {
	slog.Info("ExportGuests request received", "legacy", s.useLegacy)

	var buf bytes.Buffer
	if err := s.WriteExport(ctx, &buf); err != nil {
		slog.Error("ExportGuests failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.ExportGuestsResponse{CSV: buf.String()}), nil
}

// WriteExport writes the guest list as CSV to w.
func (s *AdminService) WriteExport(ctx context.Context, w io.Writer) error {
	var (
		rows [][]string
		err  error
	)
	if s.useLegacy {
		rows, err = s.legacy.ExportRows(ctx)
	} else {
		rows, err = s.parties.ExportRows(ctx)
	}
	if err != nil {
		return err
	}
	return csvio.WriteCSV(w, rows)
}

// RunMigration migrates every legacy guest onto a party.
func (s *AdminService) RunMigration(ctx context.Context, req *connect.Request[rsvpapi.RunMigrationRequest]) (*connect.Response[rsvpapi.RunMigrationResponse], error) {
	slog.Info("RunMigration request received")

	report, err := s.migrator.Run(ctx)
	if err != nil {
		slog.Error("RunMigration failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rsvpapi.RunMigrationResponse{
		Migrated:       report.Migrated,
		TotalProcessed: report.TotalProcessed,
		ErrorCount:     len(report.Errors),
		Errors:         summarize(report.Errors, report.TotalProcessed, "migration"),
	}), nil
}

// MigrationStatus reports whether any legacy guests remain.
func (s *AdminService) MigrationStatus(ctx context.Context, req *connect.Request[rsvpapi.MigrationStatusRequest]) (*connect.Response[rsvpapi.MigrationStatusResponse], error) {
	needed, err := s.migrator.Needed(ctx)
	if err != nil {
		slog.Error("MigrationStatus failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&rsvpapi.MigrationStatusResponse{MigrationNeeded: needed}), nil
}
