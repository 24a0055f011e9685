package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

const guestColumns = `id, name, email, party_id, is_primary_contact, created_at`

// CreateGuest inserts a v2 guest linked to an existing party.
func (s *Store) CreateGuest(ctx context.Context, guest *models.Guest) error {
	if guest.PartyID == "" {
		return fmt.Errorf("failed to insert guest: party id is required")
	}
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	if guest.CreatedAt == 0 {
		guest.CreatedAt = time.Now().Unix()
	}

	_, err := s.exec(ctx, `
		INSERT INTO guests (`+guestColumns+`, search_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		guest.ID,
		guest.Name,
		guest.Email,
		guest.PartyID,
		guest.IsPrimaryContact,
		guest.CreatedAt,
		searchName(guest.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to insert guest: %w", err)
	}
	return nil
}

// GetGuest retrieves a v2 guest by ID.
func (s *Store) GetGuest(ctx context.Context, id string) (*models.Guest, error) {
	guest, err := scanGuest(s.queryRow(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE id = ? AND party_id IS NOT NULL`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guest %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guest: %w", err)
	}
	return guest, nil
}

// ListGuests returns every v2 guest ordered by name.
func (s *Store) ListGuests(ctx context.Context) ([]*models.Guest, error) {
	return s.listGuests(ctx,
		`SELECT `+guestColumns+` FROM guests WHERE party_id IS NOT NULL ORDER BY name, id`)
}

// ListGuestsByParty returns the guests of a party, primary contact first.
func (s *Store) ListGuestsByParty(ctx context.Context, partyID string) ([]*models.Guest, error) {
	return s.listGuests(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE party_id = ?
		ORDER BY is_primary_contact DESC, created_at, id`, partyID)
}

// SearchGuests matches v2 guests by case-insensitive name substring.
// Matching runs against search_name, folded in Go, because SQLite's LOWER
// only folds ASCII.
func (s *Store) SearchGuests(ctx context.Context, term string, limit int) ([]*models.Guest, error) {
	if term == "" {
		return nil, nil
	}
	return s.listGuests(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE party_id IS NOT NULL AND search_name LIKE ? ESCAPE '\'
		ORDER BY name, id
		LIMIT ?`, likePattern(term), limit)
}

// CountGuests counts v2 guests.
func (s *Store) CountGuests(ctx context.Context) (int, error) {
	var n int
	if err := s.queryRow(ctx, `SELECT COUNT(*) FROM guests WHERE party_id IS NOT NULL`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count guests: %w", err)
	}
	return n, nil
}

// LinkGuestToParty attaches an existing guest to a party.
func (s *Store) LinkGuestToParty(ctx context.Context, guest *models.Guest) error {
	if guest.PartyID == "" {
		return fmt.Errorf("failed to link guest: party id is required")
	}
	res, err := s.exec(ctx, `
		UPDATE guests SET party_id = ?, name = ?, is_primary_contact = ?, search_name = ?
		WHERE id = ?`,
		guest.PartyID,
		guest.Name,
		guest.IsPrimaryContact,
		searchName(guest.Name),
		guest.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to link guest: %w", err)
	}
	return requireAffected(res, fmt.Errorf("guest %s: %w", guest.ID, storage.ErrNotFound))
}

func (s *Store) listGuests(ctx context.Context, query string, args ...any) ([]*models.Guest, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	defer rows.Close()

	var guests []*models.Guest
	for rows.Next() {
		guest, err := scanGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest: %w", err)
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate guests: %w", err)
	}
	return guests, nil
}

func scanGuest(row rowScanner) (*models.Guest, error) {
	var (
		guest   models.Guest
		partyID sql.NullString
	)
	if err := row.Scan(
		&guest.ID,
		&guest.Name,
		&guest.Email,
		&partyID,
		&guest.IsPrimaryContact,
		&guest.CreatedAt,
	); err != nil {
		return nil, err
	}
	guest.PartyID = partyID.String
	return &guest, nil
}
