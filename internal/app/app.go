// Package app opens storage and builds the RSVP engines from a Config.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/rsvp/internal/auth"
	"github.com/mmynk/rsvp/internal/config"
	"github.com/mmynk/rsvp/internal/metrics"
	"github.com/mmynk/rsvp/internal/migration"
	"github.com/mmynk/rsvp/internal/rsvp"
	"github.com/mmynk/rsvp/internal/service"
	"github.com/mmynk/rsvp/internal/storage/postgres"
	"github.com/mmynk/rsvp/internal/storage/sqlite"
	"github.com/mmynk/rsvp/internal/storage/sqlstore"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config   *config.Config
	Store    *sqlstore.Store
	Metrics  *metrics.Metrics
	Parties  *rsvp.Service
	Legacy   *rsvp.Legacy
	Migrator *migration.Migrator

	// Tokens is nil when no admin secret is configured.
	Tokens *auth.TokenManager
}

// Open connects to the configured store and builds the engines. Metrics are
// registered with reg; a nil reg disables them.
func Open(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	opts := []rsvp.Option{
		rsvp.WithMetrics(m),
		rsvp.WithCompanionPolicy(cfg.CompanionPolicy()),
		rsvp.WithSearchLimit(cfg.RSVP.SearchLimit),
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Metrics:  m,
		Parties:  rsvp.New(store, opts...),
		Legacy:   rsvp.NewLegacy(store, opts...),
		Migrator: migration.New(store, migration.WithMetrics(m)),
	}
	if cfg.Admin.TokenSecret != "" {
		a.Tokens = auth.NewTokenManager(cfg.Admin.TokenSecret, cfg.Admin.TokenTTL)
	}
	return a, nil
}

// OpenStore opens the store named by cfg.Storage.
func OpenStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.Storage.Driver, "database", cfg.Storage.Path)
		return store, nil
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		slog.Info("Storage initialized", "driver", cfg.Storage.Driver)
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// UseLegacy reports whether the guest-facing surface serves the legacy schema.
func (a *App) UseLegacy() bool {
	return a.Config.RSVP.Schema == config.SchemaV1
}

// GuestService builds the guest-facing Connect service for the configured
// schema.
func (a *App) GuestService() *service.GuestService {
	if a.UseLegacy() {
		return service.NewLegacyGuestService(a.Legacy)
	}
	return service.NewGuestService(a.Parties)
}

// AdminService builds the admin Connect service.
func (a *App) AdminService() *service.AdminService {
	return service.NewAdminService(a.Parties, a.Legacy, a.Migrator, a.UseLegacy())
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
