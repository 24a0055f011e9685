package rsvpapiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/pkg/rsvpapi"
)

// AdminServiceName is the fully-qualified name of the admin service.
const AdminServiceName = "rsvp.v1.AdminService"

const (
	AdminServiceGetStatisticsProcedure     = "/rsvp.v1.AdminService/GetStatistics"
	AdminServiceCreatePartyProcedure       = "/rsvp.v1.AdminService/CreateParty"
	AdminServiceCreateLegacyGuestProcedure = "/rsvp.v1.AdminService/CreateLegacyGuest"
	AdminServiceImportGuestsProcedure      = "/rsvp.v1.AdminService/ImportGuests"
	AdminServiceExportGuestsProcedure      = "/rsvp.v1.AdminService/ExportGuests"
	AdminServiceRunMigrationProcedure      = "/rsvp.v1.AdminService/RunMigration"
	AdminServiceMigrationStatusProcedure   = "/rsvp.v1.AdminService/MigrationStatus"
)

// AdminServiceHandler is implemented by the admin service.
type AdminServiceHandler interface {
	GetStatistics(context.Context, *connect.Request[rsvpapi.GetStatisticsRequest]) (*connect.Response[rsvpapi.GetStatisticsResponse], error)
	CreateParty(context.Context, *connect.Request[rsvpapi.CreatePartyRequest]) (*connect.Response[rsvpapi.CreatePartyResponse], error)
	CreateLegacyGuest(context.Context, *connect.Request[rsvpapi.CreateLegacyGuestRequest]) (*connect.Response[rsvpapi.CreateLegacyGuestResponse], error)
	ImportGuests(context.Context, *connect.Request[rsvpapi.ImportGuestsRequest]) (*connect.Response[rsvpapi.ImportGuestsResponse], error)
	ExportGuests(context.Context, *connect.Request[rsvpapi.ExportGuestsRequest]) (*connect.Response[rsvpapi.ExportGuestsResponse], error)
	RunMigration(context.Context, *connect.Request[rsvpapi.RunMigrationRequest]) (*connect.Response[rsvpapi.RunMigrationResponse], error)
	MigrationStatus(context.Context, *connect.Request[rsvpapi.MigrationStatusRequest]) (*connect.Response[rsvpapi.MigrationStatusResponse], error)
}

// NewAdminServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewAdminServiceHandler(svc AdminServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(AdminServiceGetStatisticsProcedure, connect.NewUnaryHandler(AdminServiceGetStatisticsProcedure, svc.GetStatistics, opts...))
	mux.Handle(AdminServiceCreatePartyProcedure, connect.NewUnaryHandler(AdminServiceCreatePartyProcedure, svc.CreateParty, opts...))
	mux.Handle(AdminServiceCreateLegacyGuestProcedure, connect.NewUnaryHandler(AdminServiceCreateLegacyGuestProcedure, svc.CreateLegacyGuest, opts...))
	mux.Handle(AdminServiceImportGuestsProcedure, connect.NewUnaryHandler(AdminServiceImportGuestsProcedure, svc.ImportGuests, opts...))
	mux.Handle(AdminServiceExportGuestsProcedure, connect.NewUnaryHandler(AdminServiceExportGuestsProcedure, svc.ExportGuests, opts...))
	mux.Handle(AdminServiceRunMigrationProcedure, connect.NewUnaryHandler(AdminServiceRunMigrationProcedure, svc.RunMigration, opts...))
	mux.Handle(AdminServiceMigrationStatusProcedure, connect.NewUnaryHandler(AdminServiceMigrationStatusProcedure, svc.MigrationStatus, opts...))
	return "/" + AdminServiceName + "/", mux
}

// AdminServiceClient is a client for the admin service.
type AdminServiceClient struct {
	getStatistics     *connect.Client[rsvpapi.GetStatisticsRequest, rsvpapi.GetStatisticsResponse]
	createParty       *connect.Client[rsvpapi.CreatePartyRequest, rsvpapi.CreatePartyResponse]
	createLegacyGuest *connect.Client[rsvpapi.CreateLegacyGuestRequest, rsvpapi.CreateLegacyGuestResponse]
	importGuests      *connect.Client[rsvpapi.ImportGuestsRequest, rsvpapi.ImportGuestsResponse]
	exportGuests      *connect.Client[rsvpapi.ExportGuestsRequest, rsvpapi.ExportGuestsResponse]
	runMigration      *connect.Client[rsvpapi.RunMigrationRequest, rsvpapi.RunMigrationResponse]
	migrationStatus   *connect.Client[rsvpapi.MigrationStatusRequest, rsvpapi.MigrationStatusResponse]
}

// NewAdminServiceClient constructs a client for the admin service at baseURL.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &AdminServiceClient{
		getStatistics:     connect.NewClient[rsvpapi.GetStatisticsRequest, rsvpapi.GetStatisticsResponse](httpClient, baseURL+AdminServiceGetStatisticsProcedure, opts...),
		createParty:       connect.NewClient[rsvpapi.CreatePartyRequest, rsvpapi.CreatePartyResponse](httpClient, baseURL+AdminServiceCreatePartyProcedure, opts...),
		createLegacyGuest: connect.NewClient[rsvpapi.CreateLegacyGuestRequest, rsvpapi.CreateLegacyGuestResponse](httpClient, baseURL+AdminServiceCreateLegacyGuestProcedure, opts...),
		importGuests:      connect.NewClient[rsvpapi.ImportGuestsRequest, rsvpapi.ImportGuestsResponse](httpClient, baseURL+AdminServiceImportGuestsProcedure, opts...),
		exportGuests:      connect.NewClient[rsvpapi.ExportGuestsRequest, rsvpapi.ExportGuestsResponse](httpClient, baseURL+AdminServiceExportGuestsProcedure, opts...),
		runMigration:      connect.NewClient[rsvpapi.RunMigrationRequest, rsvpapi.RunMigrationResponse](httpClient, baseURL+AdminServiceRunMigrationProcedure, opts...),
		migrationStatus:   connect.NewClient[rsvpapi.MigrationStatusRequest, rsvpapi.MigrationStatusResponse](httpClient, baseURL+AdminServiceMigrationStatusProcedure, opts...),
	}
}

func (c *AdminServiceClient) GetStatistics(ctx context.Context, req *connect.Request[rsvpapi.GetStatisticsRequest]) (*connect.Response[rsvpapi.GetStatisticsResponse], error) {
	return c.getStatistics.CallUnary(ctx, req)
}

func (c *AdminServiceClient) CreateParty(ctx context.Context, req *connect.Request[rsvpapi.CreatePartyRequest]) (*connect.Response[rsvpapi.CreatePartyResponse], error) {
	return c.createParty.CallUnary(ctx, req)
}

func (c *AdminServiceClient) CreateLegacyGuest(ctx context.Context, req *connect.Request[rsvpapi.CreateLegacyGuestRequest]) (*connect.Response[rsvpapi.CreateLegacyGuestResponse], error) {
	return c.createLegacyGuest.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ImportGuests(ctx context.Context, req *connect.Request[rsvpapi.ImportGuestsRequest]) (*connect.Response[rsvpapi.ImportGuestsResponse], error) {
	return c.importGuests.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ExportGuests(ctx context.Context, req *connect.Request[rsvpapi.ExportGuestsRequest]) (*connect.Response[rsvpapi.ExportGuestsResponse], error) {
	return c.exportGuests.CallUnary(ctx, req)
}

func (c *AdminServiceClient) RunMigration(ctx context.Context, req *connect.Request[rsvpapi.RunMigrationRequest]) (*connect.Response[rsvpapi.RunMigrationResponse], error) {
	return c.runMigration.CallUnary(ctx, req)
}

func (c *AdminServiceClient) MigrationStatus(ctx context.Context, req *connect.Request[rsvpapi.MigrationStatusRequest]) (*connect.Response[rsvpapi.MigrationStatusResponse], error) {
	return c.migrationStatus.CallUnary(ctx, req)
}
