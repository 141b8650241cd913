package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"wellflow/internal/ownership/models"
	"wellflow/internal/ownership/store"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
)

type OwnershipStoreSuite struct {
	suite.Suite
	store *store.InMemory
	ctx   context.Context
	now   time.Time
	org   domain.OrganizationID
}

func TestOwnershipStoreSuite(t *testing.T) {
	suite.Run(t, new(OwnershipStoreSuite))
}

func (s *OwnershipStoreSuite) SetupTest() {
	s.store = store.NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	s.org = domain.OrganizationID(uuid.New())
}

func (s *OwnershipStoreSuite) newOrder(well domain.WellID, partner domain.PartnerID, interest string, effective time.Time, end *time.Time) *models.DivisionOrder {
	order, err := models.NewDivisionOrder(
		domain.NewDivisionOrderID(), s.org, well, partner,
		domain.MustDecimalInterest(interest), effective, end, s.now,
	)
	s.Require().NoError(err)
	return order
}

func (s *OwnershipStoreSuite) TestCreateAndFind() {
	s.Run("creates and finds by id", func() {
		order := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.125", s.now.AddDate(0, -1, 0), nil)
		s.Require().NoError(s.store.Create(s.ctx, order))

		found, err := s.store.FindByID(s.ctx, order.ID())
		s.Require().NoError(err)
		s.True(found.DecimalInterest().Equals(order.DecimalInterest()))
		s.Equal(1, found.Version())
	})

	s.Run("duplicate id conflicts", func() {
		order := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.125", s.now.AddDate(0, -1, 0), nil)
		s.Require().NoError(s.store.Create(s.ctx, order))
		s.Require().ErrorIs(s.store.Create(s.ctx, order), sentinel.ErrConflict)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindByID(s.ctx, domain.NewDivisionOrderID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *OwnershipStoreSuite) TestOptimisticSave() {
	order := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.125", s.now.AddDate(0, -1, 0), nil)
	s.Require().NoError(s.store.Create(s.ctx, order))

	s.Run("saves a freshly loaded aggregate", func() {
		loaded, err := s.store.FindByID(s.ctx, order.ID())
		s.Require().NoError(err)
		loaded.UpdateDecimalInterest(domain.MustDecimalInterest("0.25"), "clerk-1", s.now)
		s.Require().NoError(s.store.Save(s.ctx, loaded))

		found, err := s.store.FindByID(s.ctx, order.ID())
		s.Require().NoError(err)
		s.Equal(2, found.Version())
	})

	s.Run("rejects a stale writer", func() {
		first, err := s.store.FindByID(s.ctx, order.ID())
		s.Require().NoError(err)
		second, err := s.store.FindByID(s.ctx, order.ID())
		s.Require().NoError(err)

		first.UpdateDecimalInterest(domain.MustDecimalInterest("0.375"), "clerk-1", s.now)
		s.Require().NoError(s.store.Save(s.ctx, first))

		second.UpdateDecimalInterest(domain.MustDecimalInterest("0.5"), "clerk-2", s.now)
		s.Require().ErrorIs(s.store.Save(s.ctx, second), sentinel.ErrConflict)
	})

	s.Run("saving an unknown aggregate is not found", func() {
		ghost := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.1", s.now.AddDate(0, -1, 0), nil)
		s.Require().ErrorIs(s.store.Save(s.ctx, ghost), sentinel.ErrNotFound)
	})
}

func (s *OwnershipStoreSuite) TestListEffectiveOn() {
	well := domain.WellID(uuid.New())
	effective := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, interest := range []string{"0.5", "0.3"} {
		order := s.newOrder(well, domain.PartnerID(uuid.New()), interest, effective, nil)
		s.Require().NoError(s.store.Create(s.ctx, order))
	}

	ended := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	closed := s.newOrder(well, domain.PartnerID(uuid.New()), "0.2", effective, &ended)
	s.Require().NoError(s.store.Create(s.ctx, closed))

	otherWell := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "1", effective, nil)
	s.Require().NoError(s.store.Create(s.ctx, otherWell))

	s.Run("includes only windows containing the date", func() {
		orders, err := s.store.ListEffectiveOn(s.ctx, well, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Len(orders, 2)
	})

	s.Run("end date is inclusive", func() {
		orders, err := s.store.ListEffectiveOn(s.ctx, well, ended)
		s.Require().NoError(err)
		s.Len(orders, 3)
	})

	s.Run("excludes inactive orders", func() {
		loaded, err := s.store.FindByID(s.ctx, closed.ID())
		s.Require().NoError(err)
		s.Require().NoError(loaded.Deactivate(ended, "clerk-1", s.now))
		s.Require().NoError(s.store.Save(s.ctx, loaded))

		orders, err := s.store.ListEffectiveOn(s.ctx, well, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Len(orders, 2)
	})
}

func (s *OwnershipStoreSuite) TestListByOrganization() {
	well := domain.WellID(uuid.New())
	partner := domain.PartnerID(uuid.New())

	for i := 0; i < 3; i++ {
		order := s.newOrder(well, partner, "0.1", s.now.AddDate(0, -6+i, 0), nil)
		s.Require().NoError(s.store.Create(s.ctx, order))
	}
	other := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.9", s.now.AddDate(0, -1, 0), nil)
	s.Require().NoError(s.store.Create(s.ctx, other))

	s.Run("filters by well", func() {
		orders, err := s.store.ListByOrganization(s.ctx, s.org, store.ListFilter{WellID: &well})
		s.Require().NoError(err)
		s.Len(orders, 3)
	})

	s.Run("paginates in effective-date order", func() {
		page, err := s.store.ListByOrganization(s.ctx, s.org, store.ListFilter{WellID: &well, Limit: 2})
		s.Require().NoError(err)
		s.Require().Len(page, 2)
		s.True(page[0].EffectiveDate().Before(page[1].EffectiveDate()))

		rest, err := s.store.ListByOrganization(s.ctx, s.org, store.ListFilter{WellID: &well, Limit: 2, Offset: 2})
		s.Require().NoError(err)
		s.Len(rest, 1)
	})

	s.Run("foreign organization sees nothing", func() {
		orders, err := s.store.ListByOrganization(s.ctx, domain.OrganizationID(uuid.New()), store.ListFilter{})
		s.Require().NoError(err)
		s.Empty(orders)
	})
}

func (s *OwnershipStoreSuite) TestSnapshotIsolation() {
	order := s.newOrder(domain.WellID(uuid.New()), domain.PartnerID(uuid.New()), "0.125", s.now.AddDate(0, -1, 0), nil)
	s.Require().NoError(s.store.Create(s.ctx, order))

	loaded, err := s.store.FindByID(s.ctx, order.ID())
	s.Require().NoError(err)
	loaded.UpdateDecimalInterest(domain.MustDecimalInterest("0.99"), "clerk-1", s.now)

	// Unsaved mutation must not leak into the store.
	found, err := s.store.FindByID(s.ctx, order.ID())
	s.Require().NoError(err)
	s.Equal("0.12500000", found.DecimalInterest().String())
}
