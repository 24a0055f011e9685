package migration

//go:generate mockgen -source=migration.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mmynk/rsvp/internal/migration/mocks"
	"github.com/mmynk/rsvp/internal/models"
)

type MigratorSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	store    *mocks.MockStore
	migrator *Migrator
	ctx      context.Context
}

func TestMigratorSuite(t *testing.T) {
	suite.Run(t, new(MigratorSuite))
}

func (s *MigratorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.migrator = New(s.store)
	s.ctx = context.Background()
}

func (s *MigratorSuite) TearDownTest() {
	s.ctrl.Finish()
}

// expectTx runs transaction bodies inline.
func (s *MigratorSuite) expectTx(times int) {
	s.store.EXPECT().InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		}).Times(times)
}

func (s *MigratorSuite) TestNeeded() {
	s.store.EXPECT().HasLegacyGuests(gomock.Any()).Return(true, nil)

	needed, err := s.migrator.Needed(s.ctx)
	s.Require().NoError(err)
	s.True(needed)
}

func (s *MigratorSuite) TestListFailureAbortsRun() {
	s.store.EXPECT().ListLegacyGuests(gomock.Any()).Return(nil, errors.New("connection reset"))

	report, err := s.migrator.Run(s.ctx)
	s.Error(err)
	s.Nil(report)
}

func (s *MigratorSuite) TestFailedGuestDoesNotStopOthers() {
	guests := []*models.LegacyGuest{
		{ID: "g1", FirstName: "Alice", LastName: "Smith", HasPlusOne: true, PlusOneName: "Bob"},
		{ID: "g2", FirstName: "Carol", LastName: "White"},
		{ID: "g3", FirstName: "Dave", LastName: "Brown"},
	}
	s.store.EXPECT().ListLegacyGuests(gomock.Any()).Return(guests, nil)
	s.expectTx(3)

	s.store.EXPECT().CreateParty(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p *models.Party) error {
			if p.DisplayName == "Carol White" {
				return errors.New("disk full")
			}
			p.ID = "party-" + p.DisplayName
			return nil
		}).Times(3)
	s.store.EXPECT().LinkGuestToParty(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Guest) error {
			s.True(g.IsPrimaryContact)
			s.NotEmpty(g.PartyID)
			return nil
		}).Times(2)
	s.store.EXPECT().DeleteLegacyFields(gomock.Any(), "g1").Return(nil)
	s.store.EXPECT().DeleteLegacyFields(gomock.Any(), "g3").Return(nil)
	s.store.EXPECT().CreateGuest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.Guest) error {
			s.Equal("Bob", g.Name)
			s.Equal("party-Alice Smith & Bob", g.PartyID)
			s.False(g.IsPrimaryContact)
			return nil
		})

	report, err := s.migrator.Run(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, report.Migrated)
	s.Equal(3, report.TotalProcessed)
	s.Require().Len(report.Errors, 1)
	s.Equal(1, report.Errors[0].Index)
	s.Equal("Carol White", report.Errors[0].Unit)

	var batchErr *models.BatchError
	s.Require().ErrorAs(report.Err(), &batchErr)
	s.Equal([]string{"Carol White: disk full"}, batchErr.Summary(0))
}

func (s *MigratorSuite) TestCompanionFailureFailsUnit() {
	guests := []*models.LegacyGuest{
		{ID: "g1", FirstName: "Alice", LastName: "Smith", HasPlusOne: true, PlusOneName: "Bob"},
	}
	s.store.EXPECT().ListLegacyGuests(gomock.Any()).Return(guests, nil)
	s.expectTx(1)
	s.store.EXPECT().CreateParty(gomock.Any(), gomock.Any()).Return(nil)
	s.store.EXPECT().LinkGuestToParty(gomock.Any(), gomock.Any()).Return(nil)
	s.store.EXPECT().DeleteLegacyFields(gomock.Any(), "g1").Return(nil)
	s.store.EXPECT().CreateGuest(gomock.Any(), gomock.Any()).Return(errors.New("constraint failed"))

	report, err := s.migrator.Run(s.ctx)
	s.Require().NoError(err)
	s.Zero(report.Migrated)
	s.Len(report.Errors, 1)
}

func (s *MigratorSuite) TestUnnamedGuestIsNotWritten() {
	guests := []*models.LegacyGuest{{ID: "g1"}}
	s.store.EXPECT().ListLegacyGuests(gomock.Any()).Return(guests, nil)

	report, err := s.migrator.Run(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(report.Errors, 1)
	s.Equal("guest g1", report.Errors[0].Unit)
	s.True(models.IsValidation(report.Errors[0].Err))
}

func (s *MigratorSuite) TestCancelledContextStopsRun() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.store.EXPECT().ListLegacyGuests(gomock.Any()).
		Return([]*models.LegacyGuest{{ID: "g1", FirstName: "Alice", LastName: "Smith"}}, nil)

	report, err := s.migrator.Run(ctx)
	s.ErrorIs(err, context.Canceled)
	s.Zero(report.Migrated)
}
