package sqlstore

import (
	"context"
	"fmt"
)

// BackfillSearchNames fills guests.search_name on rows written before the
// column existed. Rows whose names are all empty are revisited on every call
// and stay empty.
func (s *Store) BackfillSearchNames(ctx context.Context) error {
	rows, err := s.query(ctx, `
		SELECT g.id, g.name, g.first_name, g.last_name, g.party_id IS NULL,
			COALESCE(l.plus_one_name, '')
		FROM guests g
		LEFT JOIN legacy_rsvp l ON l.guest_id = g.id
		WHERE g.search_name = ''`)
	if err != nil {
		return fmt.Errorf("failed to list guests for backfill: %w", err)
	}

	folded := make(map[string]string)
	for rows.Next() {
		var (
			id, name, first, last, plusOne string
			legacy                         bool
		)
		if err := rows.Scan(&id, &name, &first, &last, &legacy, &plusOne); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan guest for backfill: %w", err)
		}
		if legacy {
			folded[id] = searchName(name, first, last, plusOne)
		} else {
			folded[id] = searchName(name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("failed to iterate guests for backfill: %w", err)
	}
	// SQLite runs on a single connection; the cursor must be released
	// before the updates below.
	rows.Close()

	return s.InTx(ctx, func(ctx context.Context) error {
		for id, name := range folded {
			if name == "" {
				continue
			}
			if _, err := s.exec(ctx, `UPDATE guests SET search_name = ? WHERE id = ?`, name, id); err != nil {
				return fmt.Errorf("failed to backfill guest %s: %w", id, err)
			}
		}
		return nil
	})
}
