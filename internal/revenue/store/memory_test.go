package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite

	ctx   context.Context
	store *InMemory
	now   time.Time

	orgID   domain.OrganizationID
	wellID  domain.WellID
	partner domain.PartnerID
	orderID domain.DivisionOrderID
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
	s.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s.orgID, _ = domain.ParseOrganizationID("0cb8e087-7b36-4938-9a8e-4254ab940b36")
	s.wellID, _ = domain.ParseWellID("6f6fba56-6a2b-467e-b3b1-0bbc1c488a3a")
	s.partner, _ = domain.ParsePartnerID("a7e4f1de-4f92-4e2c-a2bb-05a5c0273db0")
	s.orderID = domain.NewDivisionOrderID()
}

func (s *InMemorySuite) newDistribution(month string) *models.RevenueDistribution {
	dist, err := models.NewRevenueDistribution(
		domain.NewDistributionID(), s.orgID, s.wellID, s.partner, s.orderID,
		domain.MustProductionMonth(month),
		models.ProductionVolumes{},
		models.RevenueBreakdown{
			TotalRevenue: domain.MustMoney("1000.00", "USD"),
			NetRevenue:   domain.MustMoney("925.00", "USD"),
		},
		s.now,
	)
	s.Require().NoError(err)
	return dist
}

func (s *InMemorySuite) TestCreateAndFind() {
	dist := s.newDistribution("2024-05")
	s.Require().NoError(s.store.Create(s.ctx, dist))

	found, err := s.store.FindByID(s.ctx, dist.ID())
	s.Require().NoError(err)
	s.Equal(dist.ID(), found.ID())
	s.Equal("2024-05", found.ProductionMonth().String())
	s.Equal("925.00", found.Breakdown().NetRevenue.StringFixed())
	s.Equal(1, found.LoadedVersion())
}

func (s *InMemorySuite) TestCreateDuplicateConflicts() {
	dist := s.newDistribution("2024-05")
	s.Require().NoError(s.store.Create(s.ctx, dist))
	s.ErrorIs(s.store.Create(s.ctx, dist), sentinel.ErrConflict)
}

func (s *InMemorySuite) TestFindUnknownNotFound() {
	_, err := s.store.FindByID(s.ctx, domain.NewDistributionID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySuite) TestOptimisticSave() {
	dist := s.newDistribution("2024-05")
	s.Require().NoError(s.store.Create(s.ctx, dist))

	s.Run("fresh load saves cleanly", func() {
		loaded, err := s.store.FindByID(s.ctx, dist.ID())
		s.Require().NoError(err)
		s.Require().NoError(loaded.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now))
		s.NoError(s.store.Save(s.ctx, loaded))
	})

	s.Run("stale writer conflicts", func() {
		stale := models.RestoreRevenueDistribution(
			dist.ID(), s.orgID, s.wellID, s.partner, s.orderID,
			dist.ProductionMonth(), dist.Volumes(), dist.Breakdown(),
			models.PaymentInfo{}, s.now, s.now, 1,
		)
		s.Require().NoError(stale.ProcessPayment("CHK-2002", s.now, "clerk-2", s.now))
		s.ErrorIs(s.store.Save(s.ctx, stale), sentinel.ErrConflict)
	})

	s.Run("unknown id not found", func() {
		unknown := s.newDistribution("2024-04")
		s.ErrorIs(s.store.Save(s.ctx, unknown), sentinel.ErrNotFound)
	})
}

func (s *InMemorySuite) TestListByOrganization() {
	may := s.newDistribution("2024-05")
	april := s.newDistribution("2024-04")
	s.Require().NoError(s.store.Create(s.ctx, may))
	s.Require().NoError(s.store.Create(s.ctx, april))

	paid, err := s.store.FindByID(s.ctx, april.ID())
	s.Require().NoError(err)
	s.Require().NoError(paid.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now))
	s.Require().NoError(s.store.Save(s.ctx, paid))

	s.Run("orders by month", func() {
		got, err := s.store.ListByOrganization(s.ctx, s.orgID, ListFilter{})
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal("2024-04", got[0].ProductionMonth().String())
		s.Equal("2024-05", got[1].ProductionMonth().String())
	})

	s.Run("month filter", func() {
		month := domain.MustProductionMonth("2024-05")
		got, err := s.store.ListByOrganization(s.ctx, s.orgID, ListFilter{Month: &month})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(may.ID(), got[0].ID())
	})

	s.Run("unpaid only", func() {
		got, err := s.store.ListByOrganization(s.ctx, s.orgID, ListFilter{UnpaidOnly: true})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal(may.ID(), got[0].ID())
	})

	s.Run("pagination", func() {
		got, err := s.store.ListByOrganization(s.ctx, s.orgID, ListFilter{Limit: 1, Offset: 1})
		s.Require().NoError(err)
		s.Require().Len(got, 1)
		s.Equal("2024-05", got[0].ProductionMonth().String())
	})
}

func (s *InMemorySuite) TestListByOrderAndMonth() {
	dist := s.newDistribution("2024-05")
	s.Require().NoError(s.store.Create(s.ctx, dist))

	got, err := s.store.ListByOrderAndMonth(s.ctx, s.orderID, domain.MustProductionMonth("2024-05"))
	s.Require().NoError(err)
	s.Len(got, 1)

	got, err = s.store.ListByOrderAndMonth(s.ctx, s.orderID, domain.MustProductionMonth("2024-04"))
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *InMemorySuite) TestSnapshotIsolation() {
	dist := s.newDistribution("2024-05")
	s.Require().NoError(s.store.Create(s.ctx, dist))

	loaded, err := s.store.FindByID(s.ctx, dist.ID())
	s.Require().NoError(err)
	s.Require().NoError(loaded.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now))

	// The mutation must not leak into the store before Save.
	reloaded, err := s.store.FindByID(s.ctx, dist.ID())
	s.Require().NoError(err)
	s.False(reloaded.IsPaid())
}
