//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mmynk/rsvp/internal/models"
	"github.com/mmynk/rsvp/internal/storage"
	"github.com/mmynk/rsvp/internal/storage/postgres"
	"github.com/mmynk/rsvp/internal/storage/sqlstore"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	store     *sqlstore.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("rsvp"),
		tcpostgres.WithUsername("rsvp"),
		tcpostgres.WithPassword("rsvp"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.store, err = postgres.New(ctx, dsn)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.store.DB().Exec(`TRUNCATE legacy_rsvp, guests, parties CASCADE`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestPartyVersioning() {
	ctx := context.Background()
	party := &models.Party{DisplayName: "Alice & Bob", PartySizeTotal: 2}
	s.Require().NoError(s.store.CreateParty(ctx, party))

	stale := *party
	party.Status = models.StatusAttending
	s.Require().NoError(s.store.UpdatePartyRSVP(ctx, party))
	s.Equal(int64(2), party.Version)

	err := s.store.UpdatePartyRSVP(ctx, &stale)
	s.True(errors.Is(err, storage.ErrConflict))

	got, err := s.store.GetParty(ctx, party.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAttending, got.Status)
}

func (s *PostgresStoreSuite) TestSearchUsesNumberedPlaceholders() {
	ctx := context.Background()
	party := &models.Party{DisplayName: "Carol", PartySizeTotal: 1}
	s.Require().NoError(s.store.CreateParty(ctx, party))
	s.Require().NoError(s.store.CreateGuest(ctx, &models.Guest{Name: "Carol", PartyID: party.ID, IsPrimaryContact: true}))

	hits, err := s.store.SearchGuests(ctx, "car", 10)
	s.Require().NoError(err)
	s.Len(hits, 1)
	s.True(hits[0].IsPrimaryContact)
}

func (s *PostgresStoreSuite) TestLegacyLifecycle() {
	ctx := context.Background()
	legacy := &models.LegacyGuest{FirstName: "Erin", LastName: "Vance", HasPlusOne: true, PlusOneName: "Frank"}
	s.Require().NoError(s.store.CreateLegacyGuest(ctx, legacy))

	has, err := s.store.HasLegacyGuests(ctx)
	s.Require().NoError(err)
	s.True(has)

	party := &models.Party{DisplayName: "Erin Vance & Frank", PartySizeTotal: 2}
	err = s.store.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateParty(ctx, party); err != nil {
			return err
		}
		if err := s.store.LinkGuestToParty(ctx, &models.Guest{ID: legacy.ID, Name: "Erin Vance", PartyID: party.ID, IsPrimaryContact: true}); err != nil {
			return err
		}
		return s.store.DeleteLegacyFields(ctx, legacy.ID)
	})
	s.Require().NoError(err)

	has, err = s.store.HasLegacyGuests(ctx)
	s.Require().NoError(err)
	s.False(has)
}
