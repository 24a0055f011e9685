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

// Legacy guests are rows in guests with a NULL party_id. Their plus-one and
// RSVP fields live in legacy_rsvp so that migration can drop them with a
// single delete. A missing legacy_rsvp row reads as absent fields.
const legacySelect = `
	SELECT g.id, g.name, g.first_name, g.last_name, g.email, g.phone_number,
		COALESCE(l.has_plus_one, FALSE), COALESCE(l.plus_one_name, ''),
		COALESCE(l.rsvp_status, ''), l.party_size_attending,
		COALESCE(l.dietary_requirements, ''), COALESCE(l.additional_notes, ''),
		l.rsvp_submitted_at, COALESCE(l.version, 0), g.created_at
	FROM guests g
	LEFT JOIN legacy_rsvp l ON l.guest_id = g.id
	WHERE g.party_id IS NULL`

// CreateLegacyGuest inserts a v1 guest together with its RSVP fields.
func (s *Store) CreateLegacyGuest(ctx context.Context, guest *models.LegacyGuest) error {
	if guest.ID == "" {
		guest.ID = uuid.New().String()
	}
	if guest.CreatedAt == 0 {
		guest.CreatedAt = time.Now().Unix()
	}
	if guest.Version == 0 {
		guest.Version = 1
	}

	return s.InTx(ctx, func(ctx context.Context) error {
		_, err := s.exec(ctx, `
			INSERT INTO guests (id, name, first_name, last_name, email, phone_number, party_id, is_primary_contact, created_at, search_name)
			VALUES (?, ?, ?, ?, ?, ?, NULL, FALSE, ?, ?)`,
			guest.ID,
			guest.Name,
			guest.FirstName,
			guest.LastName,
			guest.Email,
			guest.PhoneNumber,
			guest.CreatedAt,
			searchName(guest.Name, guest.FirstName, guest.LastName, guest.PlusOneName),
		)
		if err != nil {
			return fmt.Errorf("failed to insert legacy guest: %w", err)
		}

		_, err = s.exec(ctx, `
			INSERT INTO legacy_rsvp (guest_id, has_plus_one, plus_one_name, rsvp_status, party_size_attending,
				dietary_requirements, additional_notes, rsvp_submitted_at, version)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			guest.ID,
			guest.HasPlusOne,
			guest.PlusOneName,
			string(guest.Status),
			nullableInt(guest.PartySizeAttending),
			guest.DietaryRequirements,
			guest.AdditionalNotes,
			nullableTime(guest.SubmittedAt),
			guest.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to insert legacy fields: %w", err)
		}
		return nil
	})
}

// GetLegacyGuest retrieves an unmigrated guest by ID.
func (s *Store) GetLegacyGuest(ctx context.Context, id string) (*models.LegacyGuest, error) {
	guest, err := scanLegacyGuest(s.queryRow(ctx, legacySelect+` AND g.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("legacy guest %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get legacy guest: %w", err)
	}
	return guest, nil
}

// ListLegacyGuests returns every guest without a party reference.
func (s *Store) ListLegacyGuests(ctx context.Context) ([]*models.LegacyGuest, error) {
	return s.listLegacyGuests(ctx, legacySelect+` ORDER BY g.created_at, g.id`)
}

// SearchLegacyGuests matches any of the v1 name fields, which CreateLegacyGuest
// folds together into search_name.
func (s *Store) SearchLegacyGuests(ctx context.Context, term string, limit int) ([]*models.LegacyGuest, error) {
	if term == "" {
		return nil, nil
	}
	return s.listLegacyGuests(ctx, legacySelect+`
		AND g.search_name LIKE ? ESCAPE '\'
		ORDER BY g.last_name, g.first_name, g.id
		LIMIT ?`, likePattern(term), limit)
}

// UpdateLegacyRSVP writes a legacy guest's RSVP fields with a version check.
// A guest whose fields were never stored (Version 0) gets a fresh row, unless
// it was migrated in the meantime.
func (s *Store) UpdateLegacyRSVP(ctx context.Context, guest *models.LegacyGuest) error {
	var (
		res sql.Result
		err error
	)
	if guest.Version == 0 {
		res, err = s.exec(ctx, `
			INSERT INTO legacy_rsvp (guest_id, has_plus_one, plus_one_name, rsvp_status, party_size_attending,
				dietary_requirements, additional_notes, rsvp_submitted_at, version)
			SELECT CAST(? AS TEXT), CAST(? AS BOOLEAN), CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS INTEGER),
				CAST(? AS TEXT), CAST(? AS TEXT), CAST(? AS BIGINT), 1
			WHERE EXISTS (SELECT 1 FROM guests WHERE id = ? AND party_id IS NULL)
			ON CONFLICT (guest_id) DO NOTHING`,
			guest.ID,
			guest.HasPlusOne,
			guest.PlusOneName,
			string(guest.Status),
			nullableInt(guest.PartySizeAttending),
			guest.DietaryRequirements,
			guest.AdditionalNotes,
			nullableTime(guest.SubmittedAt),
			guest.ID,
		)
	} else {
		res, err = s.exec(ctx, `
			UPDATE legacy_rsvp
			SET rsvp_status = ?, party_size_attending = ?, dietary_requirements = ?,
				additional_notes = ?, rsvp_submitted_at = ?, version = version + 1
			WHERE guest_id = ? AND version = ?
				AND guest_id IN (SELECT id FROM guests WHERE party_id IS NULL)`,
			string(guest.Status),
			nullableInt(guest.PartySizeAttending),
			guest.DietaryRequirements,
			guest.AdditionalNotes,
			nullableTime(guest.SubmittedAt),
			guest.ID,
			guest.Version,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update legacy guest: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetLegacyGuest(ctx, guest.ID); err != nil {
			return err
		}
		return fmt.Errorf("legacy guest %s: %w", guest.ID, storage.ErrConflict)
	}

	guest.Version++
	return nil
}

// HasLegacyGuests reports whether any guest still lacks a party reference.
func (s *Store) HasLegacyGuests(ctx context.Context) (bool, error) {
	var id string
	err := s.queryRow(ctx, `SELECT id FROM guests WHERE party_id IS NULL LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check legacy guests: %w", err)
	}
	return true, nil
}

// DeleteLegacyFields drops the plus-one and RSVP fields of a guest.
func (s *Store) DeleteLegacyFields(ctx context.Context, guestID string) error {
	if _, err := s.exec(ctx, `DELETE FROM legacy_rsvp WHERE guest_id = ?`, guestID); err != nil {
		return fmt.Errorf("failed to delete legacy fields: %w", err)
	}
	return nil
}

func (s *Store) listLegacyGuests(ctx context.Context, query string, args ...any) ([]*models.LegacyGuest, error) {
	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list legacy guests: %w", err)
	}
	defer rows.Close()

	var guests []*models.LegacyGuest
	for rows.Next() {
		guest, err := scanLegacyGuest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legacy guest: %w", err)
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate legacy guests: %w", err)
	}
	return guests, nil
}

func scanLegacyGuest(row rowScanner) (*models.LegacyGuest, error) {
	var (
		guest     models.LegacyGuest
		status    string
		attending sql.NullInt64
		submitted sql.NullInt64
	)
	if err := row.Scan(
		&guest.ID,
		&guest.Name,
		&guest.FirstName,
		&guest.LastName,
		&guest.Email,
		&guest.PhoneNumber,
		&guest.HasPlusOne,
		&guest.PlusOneName,
		&status,
		&attending,
		&guest.DietaryRequirements,
		&guest.AdditionalNotes,
		&submitted,
		&guest.Version,
		&guest.CreatedAt,
	); err != nil {
		return nil, err
	}
	guest.Status = models.RSVPStatus(status)
	guest.PartySizeAttending = intPtr(attending)
	guest.SubmittedAt = timePtr(submitted)
	return &guest, nil
}
