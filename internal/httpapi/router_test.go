package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/rsvp/internal/auth"
	"github.com/mmynk/rsvp/internal/metrics"
	"github.com/mmynk/rsvp/internal/migration"
	"github.com/mmynk/rsvp/internal/rsvp"
	"github.com/mmynk/rsvp/internal/service"
	"github.com/mmynk/rsvp/internal/storage/sqlite"
	"github.com/mmynk/rsvp/pkg/rsvpapi"
	"github.com/mmynk/rsvp/pkg/rsvpapi/rsvpapiconnect"
)

const guestCSV = "Name,Email,Unused,Plus One\nAlice Smith,alice@example.com,,Bob Jones\nCarol White,,,\n"

func newTestServer(t *testing.T, tokens *auth.TokenManager) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	parties := rsvp.New(store, rsvp.WithMetrics(m))
	legacy := rsvp.NewLegacy(store, rsvp.WithMetrics(m))

	server := httptest.NewServer(NewRouter(Deps{
		Guests:   service.NewGuestService(parties),
		Admin:    service.NewAdminService(parties, legacy, migration.New(store, migration.WithMetrics(m)), false),
		Tokens:   tokens,
		Gatherer: reg,
	}))
	t.Cleanup(server.Close)
	return server
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestImportExportRoundTrip(t *testing.T) {
	server := newTestServer(t, nil)

	resp, err := http.Post(server.URL+"/admin/import", "text/csv", strings.NewReader(guestCSV))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report rsvpapi.ImportGuestsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 2, report.SuccessCount)
	assert.Len(t, report.CreatedIDs, 2)

	export, err := http.Get(server.URL + "/admin/export.csv")
	require.NoError(t, err)
	defer export.Body.Close()
	require.Equal(t, http.StatusOK, export.StatusCode)
	assert.Contains(t, export.Header.Get("Content-Disposition"), "attachment")

	body, err := io.ReadAll(export.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Alice Smith")
	assert.Contains(t, string(body), "Bob Jones")

	metricsResp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	scraped, err := io.ReadAll(metricsResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(scraped), "rsvp_parties_imported_total 2")
}

func TestImportMultipart(t *testing.T) {
	server := newTestServer(t, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "guests.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(guestCSV))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	resp, err := http.Post(server.URL+"/admin/import", form.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestImportRejectsEmptyAndMalformed(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "bad quoting", body: "Name\n\"unterminated\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/admin/import", "text/csv", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	tokens := auth.NewTokenManager("router-secret", time.Hour)
	server := newTestServer(t, tokens)

	resp, err := http.Get(server.URL + "/admin/export.csv")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := tokens.Generate("planner")
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/admin/export.csv", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	admin := rsvpapiconnect.NewAdminServiceClient(http.DefaultClient, server.URL)
	_, err = admin.GetStatistics(context.Background(), connect.NewRequest(&rsvpapi.GetStatisticsRequest{}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	guests := rsvpapiconnect.NewGuestServiceClient(http.DefaultClient, server.URL)
	_, err = guests.SearchGuests(context.Background(), connect.NewRequest(&rsvpapi.SearchGuestsRequest{SearchTerm: "x"}))
	assert.NoError(t, err)
}
