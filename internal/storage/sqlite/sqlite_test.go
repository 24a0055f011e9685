package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "rsvp-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateParty generates ID and defaults", func(t *testing.T) {
		party := &models.Party{DisplayName: "Alice & Bob", PartySizeTotal: 2}

		if err := store.CreateParty(ctx, party); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}

		if party.ID == "" {
			t.Error("Expected party ID to be generated")
		}
		if party.Status != models.StatusPending {
			t.Errorf("Status = %q, want pending", party.Status)
		}
		if party.Version != 1 {
			t.Errorf("Version = %d, want 1", party.Version)
		}
		if party.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetParty round trips RSVP fields", func(t *testing.T) {
		submitted := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
		attending := 3
		original := &models.Party{
			DisplayName:    "The Smiths",
			PartySizeTotal: 4,
			RSVP: models.RSVP{
				Status:              models.StatusAttending,
				PartySizeAttending:  &attending,
				DietaryRequirements: "vegetarian",
				AdditionalNotes:     "arriving late",
				SubmittedAt:         &submitted,
			},
		}
		if err := store.CreateParty(ctx, original); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}

		got, err := store.GetParty(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetParty failed: %v", err)
		}
		if got.DisplayName != "The Smiths" || got.PartySizeTotal != 4 {
			t.Errorf("got %q size %d", got.DisplayName, got.PartySizeTotal)
		}
		if got.PartySizeAttending == nil || *got.PartySizeAttending != 3 {
			t.Errorf("PartySizeAttending = %v, want 3", got.PartySizeAttending)
		}
		if got.SubmittedAt == nil || !got.SubmittedAt.Equal(submitted) {
			t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, submitted)
		}
		if got.DietaryRequirements != "vegetarian" || got.AdditionalNotes != "arriving late" {
			t.Errorf("text fields mismatch: %+v", got.RSVP)
		}
	})

	t.Run("GetParty returns ErrNotFound for nonexistent party", func(t *testing.T) {
		_, err := store.GetParty(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("UpdatePartyRSVP detects stale versions", func(t *testing.T) {
		party := &models.Party{DisplayName: "Versioned", PartySizeTotal: 1}
		if err := store.CreateParty(ctx, party); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}

		stale := *party
		party.Status = models.StatusDeclined
		if err := store.UpdatePartyRSVP(ctx, party); err != nil {
			t.Fatalf("UpdatePartyRSVP failed: %v", err)
		}
		if party.Version != 2 {
			t.Errorf("Version = %d, want 2", party.Version)
		}

		stale.Status = models.StatusAttending
		if err := store.UpdatePartyRSVP(ctx, &stale); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}

		missing := &models.Party{ID: "missing", Version: 1}
		if err := store.UpdatePartyRSVP(ctx, missing); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Guests link to parties", func(t *testing.T) {
		party := &models.Party{DisplayName: "Carol & Dave", PartySizeTotal: 2}
		if err := store.CreateParty(ctx, party); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}
		for _, g := range []*models.Guest{
			{Name: "Dave", PartyID: party.ID},
			{Name: "Carol", Email: "carol@example.com", PartyID: party.ID, IsPrimaryContact: true},
		} {
			if err := store.CreateGuest(ctx, g); err != nil {
				t.Fatalf("CreateGuest failed: %v", err)
			}
		}

		guests, err := store.ListGuestsByParty(ctx, party.ID)
		if err != nil {
			t.Fatalf("ListGuestsByParty failed: %v", err)
		}
		if len(guests) != 2 {
			t.Fatalf("Expected 2 guests, got %d", len(guests))
		}
		if !guests[0].IsPrimaryContact || guests[0].Name != "Carol" {
			t.Errorf("Expected primary contact first, got %+v", guests[0])
		}
	})

	t.Run("CreateGuest requires a party", func(t *testing.T) {
		if err := store.CreateGuest(ctx, &models.Guest{Name: "Orphan"}); err == nil {
			t.Error("Expected error for guest without party")
		}
	})

	t.Run("SearchGuests is case-insensitive and ignores empty terms", func(t *testing.T) {
		hits, err := store.SearchGuests(ctx, "CAR", 20)
		if err != nil {
			t.Fatalf("SearchGuests failed: %v", err)
		}
		if len(hits) != 1 || hits[0].Name != "Carol" {
			t.Errorf("Expected Carol, got %+v", hits)
		}

		hits, err = store.SearchGuests(ctx, "", 20)
		if err != nil {
			t.Fatalf("SearchGuests failed: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Expected no hits for empty term, got %d", len(hits))
		}

		hits, err = store.SearchGuests(ctx, "%", 20)
		if err != nil {
			t.Fatalf("SearchGuests failed: %v", err)
		}
		if len(hits) != 0 {
			t.Errorf("Expected LIKE wildcard to be escaped, got %d hits", len(hits))
		}
	})

	t.Run("Legacy guests are detected by missing party", func(t *testing.T) {
		legacy := &models.LegacyGuest{
			FirstName:   "Erin",
			LastName:    "Vance",
			HasPlusOne:  true,
			PlusOneName: "Frank",
			RSVP:        models.RSVP{Status: models.StatusPending},
		}
		if err := store.CreateLegacyGuest(ctx, legacy); err != nil {
			t.Fatalf("CreateLegacyGuest failed: %v", err)
		}

		has, err := store.HasLegacyGuests(ctx)
		if err != nil {
			t.Fatalf("HasLegacyGuests failed: %v", err)
		}
		if !has {
			t.Error("Expected a legacy guest to be detected")
		}

		if _, err := store.GetGuest(ctx, legacy.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Legacy guest must not read as v2, got %v", err)
		}

		got, err := store.GetLegacyGuest(ctx, legacy.ID)
		if err != nil {
			t.Fatalf("GetLegacyGuest failed: %v", err)
		}
		if !got.HasPlusOne || got.PlusOneName != "Frank" || got.FullName() != "Erin Vance" {
			t.Errorf("legacy fields mismatch: %+v", got)
		}

		hits, err := store.SearchLegacyGuests(ctx, "fran", 20)
		if err != nil {
			t.Fatalf("SearchLegacyGuests failed: %v", err)
		}
		if len(hits) != 1 {
			t.Errorf("Expected plus-one name match, got %d", len(hits))
		}

		party := &models.Party{DisplayName: "Erin Vance & Frank", PartySizeTotal: 2}
		err = store.InTx(ctx, func(ctx context.Context) error {
			if err := store.CreateParty(ctx, party); err != nil {
				return err
			}
			if err := store.LinkGuestToParty(ctx, &models.Guest{
				ID: legacy.ID, Name: "Erin Vance", PartyID: party.ID, IsPrimaryContact: true,
			}); err != nil {
				return err
			}
			return store.DeleteLegacyFields(ctx, legacy.ID)
		})
		if err != nil {
			t.Fatalf("linking failed: %v", err)
		}

		has, err = store.HasLegacyGuests(ctx)
		if err != nil {
			t.Fatalf("HasLegacyGuests failed: %v", err)
		}
		if has {
			t.Error("Expected no legacy guests after linking")
		}
		if _, err := store.GetLegacyGuest(ctx, legacy.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Migrated guest must not read as legacy, got %v", err)
		}
	})

	t.Run("InTx rolls back on error", func(t *testing.T) {
		before, err := store.ListParties(ctx)
		if err != nil {
			t.Fatalf("ListParties failed: %v", err)
		}

		boom := errors.New("boom")
		err = store.InTx(ctx, func(ctx context.Context) error {
			if err := store.CreateParty(ctx, &models.Party{DisplayName: "Ghost", PartySizeTotal: 1}); err != nil {
				return err
			}
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("Expected boom, got %v", err)
		}

		after, err := store.ListParties(ctx)
		if err != nil {
			t.Fatalf("ListParties failed: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("Expected rollback, parties went from %d to %d", len(before), len(after))
		}
	})

	t.Run("UpdateLegacyRSVP writes fields of a guest with none stored", func(t *testing.T) {
		legacy := &models.LegacyGuest{FirstName: "Gail", LastName: "Hart"}
		if err := store.CreateLegacyGuest(ctx, legacy); err != nil {
			t.Fatalf("CreateLegacyGuest failed: %v", err)
		}
		if err := store.DeleteLegacyFields(ctx, legacy.ID); err != nil {
			t.Fatalf("DeleteLegacyFields failed: %v", err)
		}

		bare, err := store.GetLegacyGuest(ctx, legacy.ID)
		if err != nil {
			t.Fatalf("GetLegacyGuest failed: %v", err)
		}
		if bare.Version != 0 || bare.Status != "" {
			t.Fatalf("Expected absent fields, got version %d status %q", bare.Version, bare.Status)
		}

		bare.Status = models.StatusDeclined
		if err := store.UpdateLegacyRSVP(ctx, bare); err != nil {
			t.Fatalf("UpdateLegacyRSVP failed: %v", err)
		}
		got, err := store.GetLegacyGuest(ctx, legacy.ID)
		if err != nil {
			t.Fatalf("GetLegacyGuest failed: %v", err)
		}
		if got.Status != models.StatusDeclined || got.Version != 1 {
			t.Errorf("got status %q version %d", got.Status, got.Version)
		}
	})
	t.Run("UpdateLegacyRSVP leaves a migrated guest alone", func(t *testing.T) {
		legacy := &models.LegacyGuest{FirstName: "Ivan", LastName: "Judd"}
		if err := store.CreateLegacyGuest(ctx, legacy); err != nil {
			t.Fatalf("CreateLegacyGuest failed: %v", err)
		}
		if err := store.DeleteLegacyFields(ctx, legacy.ID); err != nil {
			t.Fatalf("DeleteLegacyFields failed: %v", err)
		}
		bare, err := store.GetLegacyGuest(ctx, legacy.ID)
		if err != nil {
			t.Fatalf("GetLegacyGuest failed: %v", err)
		}

		// Migration commits between the read and the write.
		party := &models.Party{DisplayName: "Ivan Judd", PartySizeTotal: 1}
		if err := store.CreateParty(ctx, party); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}
		if err := store.LinkGuestToParty(ctx, &models.Guest{
			ID: legacy.ID, Name: "Ivan Judd", PartyID: party.ID, IsPrimaryContact: true,
		}); err != nil {
			t.Fatalf("LinkGuestToParty failed: %v", err)
		}

		bare.Status = models.StatusAttending
		if err := store.UpdateLegacyRSVP(ctx, bare); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound for a migrated guest, got %v", err)
		}

		var n int
		if err := store.DB().QueryRow(`SELECT COUNT(*) FROM legacy_rsvp WHERE guest_id = ?`, legacy.ID).Scan(&n); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no legacy fields on a migrated guest, got %d rows", n)
		}
	})
}

func TestSearchFoldsNonASCIINames(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	for _, name := range []string{"Émile Zola", "Ångström Lee", "Bob Émery"} {
		party := &models.Party{DisplayName: name, PartySizeTotal: 1}
		if err := store.CreateParty(ctx, party); err != nil {
			t.Fatalf("CreateParty failed: %v", err)
		}
		if err := store.CreateGuest(ctx, &models.Guest{Name: name, PartyID: party.ID, IsPrimaryContact: true}); err != nil {
			t.Fatalf("CreateGuest failed: %v", err)
		}
	}
	legacy := &models.LegacyGuest{FirstName: "Élodie", LastName: "Ørsted", HasPlusOne: true, PlusOneName: "Åsa"}
	if err := store.CreateLegacyGuest(ctx, legacy); err != nil {
		t.Fatalf("CreateLegacyGuest failed: %v", err)
	}

	tests := []struct {
		term string
		want string
	}{
		{"Émile", "Émile Zola"},
		{"Émile Zola", "Émile Zola"},
		{"émile", "Émile Zola"},
		{"ÅNGSTRÖM", "Ångström Lee"},
		{"Émery", "Bob Émery"},
	}
	for _, tt := range tests {
		hits, err := store.SearchGuests(ctx, tt.term, 20)
		if err != nil {
			t.Fatalf("SearchGuests(%q) failed: %v", tt.term, err)
		}
		if len(hits) != 1 || hits[0].Name != tt.want {
			t.Errorf("SearchGuests(%q) = %+v, want %s", tt.term, hits, tt.want)
		}
	}

	for _, term := range []string{"Élodie", "ørsted", "åsa"} {
		hits, err := store.SearchLegacyGuests(ctx, term, 20)
		if err != nil {
			t.Fatalf("SearchLegacyGuests(%q) failed: %v", term, err)
		}
		if len(hits) != 1 || hits[0].ID != legacy.ID {
			t.Errorf("SearchLegacyGuests(%q) = %d hits, want Élodie", term, len(hits))
		}
	}

	// Once migrated, only the guest's own name is searchable.
	party := &models.Party{DisplayName: "Élodie Ørsted & Åsa", PartySizeTotal: 2}
	if err := store.CreateParty(ctx, party); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}
	if err := store.LinkGuestToParty(ctx, &models.Guest{
		ID: legacy.ID, Name: "Élodie Ørsted", PartyID: party.ID, IsPrimaryContact: true,
	}); err != nil {
		t.Fatalf("LinkGuestToParty failed: %v", err)
	}
	if hits, _ := store.SearchGuests(ctx, "ØRSTED", 20); len(hits) != 1 {
		t.Errorf("Expected migrated guest to be found, got %d hits", len(hits))
	}
	if hits, _ := store.SearchGuests(ctx, "åsa", 20); len(hits) != 0 {
		t.Errorf("Plus-one name must not match the migrated primary, got %d hits", len(hits))
	}
}

func TestSearchNamesBackfilledOnOpen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "backfill.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	ctx := context.Background()

	party := &models.Party{DisplayName: "Zoë", PartySizeTotal: 1}
	if err := store.CreateParty(ctx, party); err != nil {
		t.Fatalf("CreateParty failed: %v", err)
	}
	if err := store.CreateGuest(ctx, &models.Guest{Name: "Zoë Quinn", PartyID: party.ID, IsPrimaryContact: true}); err != nil {
		t.Fatalf("CreateGuest failed: %v", err)
	}
	// Simulate a row written before search_name existed.
	if _, err := store.DB().Exec(`UPDATE guests SET search_name = ''`); err != nil {
		t.Fatalf("clearing search_name failed: %v", err)
	}
	store.Close()

	store, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer store.Close()

	hits, err := store.SearchGuests(ctx, "ZOË", 20)
	if err != nil {
		t.Fatalf("SearchGuests failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("Expected backfilled guest to be found, got %d hits", len(hits))
	}
}
