// Package httpapi assembles the HTTP surface: the Connect services, CSV
// upload and download for planners, health and metrics.
package httpapi

import (
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/rsvp/internal/auth"
	"github.com/mmynk/rsvp/internal/middleware"
	"github.com/mmynk/rsvp/internal/service"
	"github.com/mmynk/rsvp/pkg/rsvpapi/rsvpapiconnect"
)

// Deps are the collaborators the router serves.
type Deps struct {
	Guests *service.GuestService
	Admin  *service.AdminService

	// Tokens guards admin routes. Nil leaves them open.
	Tokens *auth.TokenManager

	// Gatherer backs /metrics. Nil omits the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter wires every route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger)
	r.Use(corsMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	guestPath, guestHandler := rsvpapiconnect.NewGuestServiceHandler(d.Guests,
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	r.Handle(guestPath+"*", guestHandler)

	// RequireAdmin runs first so the logging interceptor sees the subject.
	adminPath, adminHandler := rsvpapiconnect.NewAdminServiceHandler(d.Admin,
		connect.WithInterceptors(middleware.RequireAdmin(d.Tokens), middleware.LoggingInterceptor()),
	)
	r.Handle(adminPath+"*", adminHandler)

	csv := &csvHandler{admin: d.Admin}
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdminHTTP(d.Tokens))
		r.Post("/admin/import", csv.importGuests)
		r.Get("/admin/export.csv", csv.exportGuests)
	})

	return r
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", strings.Join([]string{
			"Authorization",
			"Content-Type",
			"Connect-Protocol-Version",
			"Connect-Timeout-Ms",
		}, ", "))
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
