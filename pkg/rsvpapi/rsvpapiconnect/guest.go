// Package rsvpapiconnect wires the rsvpapi messages to Connect handlers and
// clients, in the shape of generated connect-go code.
package rsvpapiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/rsvp/pkg/rsvpapi"
)

// GuestServiceName is the fully-qualified name of the public guest service.
const GuestServiceName = "rsvp.v1.GuestService"

const (
	GuestServiceSubmitRSVPProcedure      = "/rsvp.v1.GuestService/SubmitRSVP"
	GuestServiceSearchGuestsProcedure    = "/rsvp.v1.GuestService/SearchGuests"
	GuestServiceGetGuestDetailsProcedure = "/rsvp.v1.GuestService/GetGuestDetails"
	GuestServiceGetPartyGuestsProcedure  = "/rsvp.v1.GuestService/GetPartyGuests"
	GuestServiceGetPartyDetailsProcedure = "/rsvp.v1.GuestService/GetPartyDetails"
)

// GuestServiceHandler is implemented by the public guest service.
type GuestServiceHandler interface {
	SubmitRSVP(context.Context, *connect.Request[rsvpapi.SubmitRSVPRequest]) (*connect.Response[rsvpapi.SubmitRSVPResponse], error)
	SearchGuests(context.Context, *connect.Request[rsvpapi.SearchGuestsRequest]) (*connect.Response[rsvpapi.SearchGuestsResponse], error)
	GetGuestDetails(context.Context, *connect.Request[rsvpapi.GetGuestDetailsRequest]) (*connect.Response[rsvpapi.GetGuestDetailsResponse], error)
	GetPartyGuests(context.Context, *connect.Request[rsvpapi.GetPartyGuestsRequest]) (*connect.Response[rsvpapi.GetPartyGuestsResponse], error)
	GetPartyDetails(context.Context, *connect.Request[rsvpapi.GetPartyDetailsRequest]) (*connect.Response[rsvpapi.GetPartyDetailsResponse], error)
}

// NewGuestServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewGuestServiceHandler(svc GuestServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(GuestServiceSubmitRSVPProcedure, connect.NewUnaryHandler(GuestServiceSubmitRSVPProcedure, svc.SubmitRSVP, opts...))
	mux.Handle(GuestServiceSearchGuestsProcedure, connect.NewUnaryHandler(GuestServiceSearchGuestsProcedure, svc.SearchGuests, opts...))
	mux.Handle(GuestServiceGetGuestDetailsProcedure, connect.NewUnaryHandler(GuestServiceGetGuestDetailsProcedure, svc.GetGuestDetails, opts...))
	mux.Handle(GuestServiceGetPartyGuestsProcedure, connect.NewUnaryHandler(GuestServiceGetPartyGuestsProcedure, svc.GetPartyGuests, opts...))
	mux.Handle(GuestServiceGetPartyDetailsProcedure, connect.NewUnaryHandler(GuestServiceGetPartyDetailsProcedure, svc.GetPartyDetails, opts...))
	return "/" + GuestServiceName + "/", mux
}

// GuestServiceClient is a client for the public guest service.
type GuestServiceClient struct {
	submitRSVP      *connect.Client[rsvpapi.SubmitRSVPRequest, rsvpapi.SubmitRSVPResponse]
	searchGuests    *connect.Client[rsvpapi.SearchGuestsRequest, rsvpapi.SearchGuestsResponse]
	getGuestDetails *connect.Client[rsvpapi.GetGuestDetailsRequest, rsvpapi.GetGuestDetailsResponse]
	getPartyGuests  *connect.Client[rsvpapi.GetPartyGuestsRequest, rsvpapi.GetPartyGuestsResponse]
	getPartyDetails *connect.Client[rsvpapi.GetPartyDetailsRequest, rsvpapi.GetPartyDetailsResponse]
}

// NewGuestServiceClient constructs a client for the guest service at baseURL
// (e.g. http://localhost:8080).
func NewGuestServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *GuestServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = withClientCodec(opts)
	return &GuestServiceClient{
		submitRSVP:      connect.NewClient[rsvpapi.SubmitRSVPRequest, rsvpapi.SubmitRSVPResponse](httpClient, baseURL+GuestServiceSubmitRSVPProcedure, opts...),
		searchGuests:    connect.NewClient[rsvpapi.SearchGuestsRequest, rsvpapi.SearchGuestsResponse](httpClient, baseURL+GuestServiceSearchGuestsProcedure, opts...),
		getGuestDetails: connect.NewClient[rsvpapi.GetGuestDetailsRequest, rsvpapi.GetGuestDetailsResponse](httpClient, baseURL+GuestServiceGetGuestDetailsProcedure, opts...),
		getPartyGuests:  connect.NewClient[rsvpapi.GetPartyGuestsRequest, rsvpapi.GetPartyGuestsResponse](httpClient, baseURL+GuestServiceGetPartyGuestsProcedure, opts...),
		getPartyDetails: connect.NewClient[rsvpapi.GetPartyDetailsRequest, rsvpapi.GetPartyDetailsResponse](httpClient, baseURL+GuestServiceGetPartyDetailsProcedure, opts...),
	}
}

func (c *GuestServiceClient) SubmitRSVP(ctx context.Context, req *connect.Request[rsvpapi.SubmitRSVPRequest]) (*connect.Response[rsvpapi.SubmitRSVPResponse], error) {
	return c.submitRSVP.CallUnary(ctx, req)
}

func (c *GuestServiceClient) SearchGuests(ctx context.Context, req *connect.Request[rsvpapi.SearchGuestsRequest]) (*connect.Response[rsvpapi.SearchGuestsResponse], error) {
	return c.searchGuests.CallUnary(ctx, req)
}

func (c *GuestServiceClient) GetGuestDetails(ctx context.Context, req *connect.Request[rsvpapi.GetGuestDetailsRequest]) (*connect.Response[rsvpapi.GetGuestDetailsResponse], error) {
	return c.getGuestDetails.CallUnary(ctx, req)
}

func (c *GuestServiceClient) GetPartyGuests(ctx context.Context, req *connect.Request[rsvpapi.GetPartyGuestsRequest]) (*connect.Response[rsvpapi.GetPartyGuestsResponse], error) {
	return c.getPartyGuests.CallUnary(ctx, req)
}

func (c *GuestServiceClient) GetPartyDetails(ctx context.Context, req *connect.Request[rsvpapi.GetPartyDetailsRequest]) (*connect.Response[rsvpapi.GetPartyDetailsResponse], error) {
	return c.getPartyDetails.CallUnary(ctx, req)
}

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(rsvpapi.Codec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(rsvpapi.Codec{})}, opts...)
}
