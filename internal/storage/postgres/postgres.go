// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Store interface.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/mmynk/rsvp/internal/storage/sqlstore"
)

// New connects to PostgreSQL using dsn and ensures the schema exists.
func New(ctx context.Context, dsn string) (*sqlstore.Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store := sqlstore.New(db, sqlstore.Postgres)
	if err := store.BackfillSearchNames(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// schema mirrors the SQLite schema with native BOOLEAN and BIGINT columns.
// guests.party_id is NULL for legacy guests. guests.search_name holds the
// lowercased name fields matched by search.
const schema = `
CREATE TABLE IF NOT EXISTS parties (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    party_size_total INTEGER NOT NULL CHECK (party_size_total >= 1),
    rsvp_status TEXT NOT NULL DEFAULT 'pending',
    party_size_attending INTEGER,
    dietary_requirements TEXT NOT NULL DEFAULT '',
    additional_notes TEXT NOT NULL DEFAULT '',
    rsvp_submitted_at BIGINT,
    version BIGINT NOT NULL DEFAULT 1,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS guests (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    search_name TEXT NOT NULL DEFAULT '',
    party_id TEXT REFERENCES parties(id) ON DELETE CASCADE,
    is_primary_contact BOOLEAN NOT NULL DEFAULT FALSE,
    created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS legacy_rsvp (
    guest_id TEXT PRIMARY KEY REFERENCES guests(id) ON DELETE CASCADE,
    has_plus_one BOOLEAN NOT NULL DEFAULT FALSE,
    plus_one_name TEXT NOT NULL DEFAULT '',
    rsvp_status TEXT NOT NULL DEFAULT '',
    party_size_attending INTEGER,
    dietary_requirements TEXT NOT NULL DEFAULT '',
    additional_notes TEXT NOT NULL DEFAULT '',
    rsvp_submitted_at BIGINT,
    version BIGINT NOT NULL DEFAULT 1
);

ALTER TABLE guests ADD COLUMN IF NOT EXISTS search_name TEXT NOT NULL DEFAULT '';

CREATE INDEX IF NOT EXISTS idx_guests_party_id ON guests(party_id);
CREATE INDEX IF NOT EXISTS idx_guests_name ON guests(name);
`
