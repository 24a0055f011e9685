package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: parties must be created BEFORE guests due to the foreign key.
//
// guests.party_id is NULL for legacy (v1) guests. NULL means "absent" and is
// the migration signal; it is never confused with an empty string.
//
// guests.search_name holds the name fields lowercased in Go. SQLite's LOWER
// only folds ASCII, so search never lowercases in SQL.
const schema = `
CREATE TABLE IF NOT EXISTS parties (
    id TEXT PRIMARY KEY,
    display_name TEXT NOT NULL,
    party_size_total INTEGER NOT NULL CHECK (party_size_total >= 1),
    rsvp_status TEXT NOT NULL DEFAULT 'pending',
    party_size_attending INTEGER,
    dietary_requirements TEXT NOT NULL DEFAULT '',
    additional_notes TEXT NOT NULL DEFAULT '',
    rsvp_submitted_at INTEGER,
    version INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS guests (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    phone_number TEXT NOT NULL DEFAULT '',
    search_name TEXT NOT NULL DEFAULT '',
    party_id TEXT,
    is_primary_contact INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (party_id) REFERENCES parties(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS legacy_rsvp (
    guest_id TEXT PRIMARY KEY,
    has_plus_one INTEGER NOT NULL DEFAULT 0,
    plus_one_name TEXT NOT NULL DEFAULT '',
    rsvp_status TEXT NOT NULL DEFAULT '',
    party_size_attending INTEGER,
    dietary_requirements TEXT NOT NULL DEFAULT '',
    additional_notes TEXT NOT NULL DEFAULT '',
    rsvp_submitted_at INTEGER,
    version INTEGER NOT NULL DEFAULT 1,
    FOREIGN KEY (guest_id) REFERENCES guests(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_guests_party_id ON guests(party_id);
CREATE INDEX IF NOT EXISTS idx_guests_name ON guests(name);
`

// runMigrations executes the schema setup and adds columns that databases
// created by earlier versions lack.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}

	var n int
	if err := db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('guests') WHERE name = 'search_name'`,
	).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		if _, err := db.Exec(`ALTER TABLE guests ADD COLUMN search_name TEXT NOT NULL DEFAULT ''`); err != nil {
			return err
		}
	}
	return nil
}
