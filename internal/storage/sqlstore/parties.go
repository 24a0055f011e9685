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

const partyColumns = `id, display_name, party_size_total, rsvp_status, party_size_attending,
	dietary_requirements, additional_notes, rsvp_submitted_at, version, created_at`

// CreateParty persists a new party to the database.
func (s *Store) CreateParty(ctx context.Context, party *models.Party) error {
	if party.ID == "" {
		party.ID = uuid.New().String()
	}
	if party.CreatedAt == 0 {
		party.CreatedAt = time.Now().Unix()
	}
	if party.Status == "" {
		party.Status = models.StatusPending
	}
	if party.Version == 0 {
		party.Version = 1
	}

	_, err := s.exec(ctx, `
		INSERT INTO parties (`+partyColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		party.ID,
		party.DisplayName,
		party.PartySizeTotal,
		string(party.Status),
		nullableInt(party.PartySizeAttending),
		party.DietaryRequirements,
		party.AdditionalNotes,
		nullableTime(party.SubmittedAt),
		party.Version,
		party.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert party: %w", err)
	}
	return nil
}

// GetParty retrieves a party by ID.
func (s *Store) GetParty(ctx context.Context, id string) (*models.Party, error) {
	party, err := scanParty(s.queryRow(ctx, `SELECT `+partyColumns+` FROM parties WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("party %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get party: %w", err)
	}
	return party, nil
}

// ListParties returns every party ordered by display name.
func (s *Store) ListParties(ctx context.Context) ([]*models.Party, error) {
	rows, err := s.query(ctx, `SELECT `+partyColumns+` FROM parties ORDER BY display_name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parties: %w", err)
	}
	defer rows.Close()

	var parties []*models.Party
	for rows.Next() {
		party, err := scanParty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan party: %w", err)
		}
		parties = append(parties, party)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate parties: %w", err)
	}
	return parties, nil
}

// UpdatePartyRSVP performs a compare-and-swap on the party's version.
func (s *Store) UpdatePartyRSVP(ctx context.Context, party *models.Party) error {
	res, err := s.exec(ctx, `
		UPDATE parties
		SET rsvp_status = ?, party_size_attending = ?, dietary_requirements = ?,
			additional_notes = ?, rsvp_submitted_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		string(party.Status),
		nullableInt(party.PartySizeAttending),
		party.DietaryRequirements,
		party.AdditionalNotes,
		nullableTime(party.SubmittedAt),
		party.ID,
		party.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update party: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetParty(ctx, party.ID); err != nil {
			return err
		}
		return fmt.Errorf("party %s: %w", party.ID, storage.ErrConflict)
	}

	party.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanParty(row rowScanner) (*models.Party, error) {
	var (
		party     models.Party
		status    string
		attending sql.NullInt64
		submitted sql.NullInt64
	)
	if err := row.Scan(
		&party.ID,
		&party.DisplayName,
		&party.PartySizeTotal,
		&status,
		&attending,
		&party.DietaryRequirements,
		&party.AdditionalNotes,
		&submitted,
		&party.Version,
		&party.CreatedAt,
	); err != nil {
		return nil, err
	}
	party.Status = models.RSVPStatus(status)
	party.PartySizeAttending = intPtr(attending)
	party.SubmittedAt = timePtr(submitted)
	return &party, nil
}
