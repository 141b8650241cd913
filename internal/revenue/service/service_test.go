package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wellflow/internal/outbox"
	ownershipModels "wellflow/internal/ownership/models"
	ownershipStore "wellflow/internal/ownership/store"
	"wellflow/internal/revenue/models"
	"wellflow/internal/revenue/store"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
	"wellflow/pkg/platform/tx"
)

type ServiceSuite struct {
	suite.Suite

	ctx    context.Context
	svc    *Service
	orders *ownershipStore.InMemory
	outbox *outbox.InMemoryStore
	now    time.Time

	orgID   domain.OrganizationID
	wellID  domain.WellID
	partner domain.PartnerID
	orderID domain.DivisionOrderID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.orders = ownershipStore.NewInMemory()
	s.outbox = outbox.NewInMemoryStore()
	s.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s.svc = New(
		store.NewInMemory(),
		s.orders,
		s.outbox,
		tx.InlineRunner{},
		WithClock(func() time.Time { return s.now }),
	)
	s.orgID, _ = domain.ParseOrganizationID("0cb8e087-7b36-4938-9a8e-4254ab940b36")
	s.wellID, _ = domain.ParseWellID("6f6fba56-6a2b-467e-b3b1-0bbc1c488a3a")
	s.partner, _ = domain.ParsePartnerID("a7e4f1de-4f92-4e2c-a2bb-05a5c0273db0")
	s.orderID = domain.NewDivisionOrderID()

	order, err := ownershipModels.NewDivisionOrder(
		s.orderID, s.orgID, s.wellID, s.partner,
		domain.MustDecimalInterest("0.25"),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, s.now,
	)
	s.Require().NoError(err)
	s.Require().NoError(s.orders.Create(s.ctx, order))
}

func (s *ServiceSuite) breakdown() models.RevenueBreakdown {
	severance := domain.MustMoney("75.00", "USD")
	return models.RevenueBreakdown{
		TotalRevenue: domain.MustMoney("1000.00", "USD"),
		SeveranceTax: &severance,
		NetRevenue:   domain.MustMoney("925.00", "USD"),
	}
}

func (s *ServiceSuite) createInput() CreateDistributionInput {
	return CreateDistributionInput{
		OrganizationID:  s.orgID,
		WellID:          s.wellID,
		PartnerID:       s.partner,
		DivisionOrderID: s.orderID,
		ProductionMonth: domain.MustProductionMonth("2024-05"),
		Breakdown:       s.breakdown(),
		Actor:           "accounting",
	}
}

func (s *ServiceSuite) TestCreate() {
	dist, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)
	s.Equal(1, dist.Version())
	s.False(dist.IsPaid())

	entries := s.outbox.All()
	s.Require().Len(entries, 1)
	s.Equal("revenue_distribution.created", entries[0].EventName)
}

func (s *ServiceSuite) TestCreateRejectsUnknownOrder() {
	input := s.createInput()
	input.DivisionOrderID = domain.NewDivisionOrderID()

	_, err := s.svc.Create(s.ctx, input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestCreateRejectsMismatchedPartner() {
	other, _ := domain.ParsePartnerID("b3fd3abe-12fc-4a9a-9c54-53ec41052ac7")
	input := s.createInput()
	input.PartnerID = other

	_, err := s.svc.Create(s.ctx, input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateRejectsMonthBeforeOrderWindow() {
	input := s.createInput()
	input.ProductionMonth = domain.MustProductionMonth("2023-11")

	_, err := s.svc.Create(s.ctx, input)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreateRejectsDuplicateMonth() {
	_, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, s.createInput())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestRecalculate() {
	dist, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)

	newBreakdown := models.RevenueBreakdown{
		TotalRevenue: domain.MustMoney("1200.00", "USD"),
		NetRevenue:   domain.MustMoney("1100.00", "USD"),
	}
	updated, err := s.svc.Recalculate(s.ctx, dist.ID(), models.ProductionVolumes{}, newBreakdown, "analyst")
	s.Require().NoError(err)
	s.Equal(2, updated.Version())
	s.Equal("1100.00", updated.Breakdown().NetRevenue.StringFixed())

	entries := s.outbox.All()
	s.Require().Len(entries, 2)
	s.Equal("revenue_distribution.calculated", entries[1].EventName)
}

func (s *ServiceSuite) TestProcessPayment() {
	dist, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)

	paid, err := s.svc.ProcessPayment(s.ctx, dist.ID(), "CHK-1001", s.now, "clerk-1")
	s.Require().NoError(err)
	s.True(paid.IsPaid())
	s.Equal(2, paid.Version())

	entries := s.outbox.All()
	s.Require().Len(entries, 2)
	s.Equal("revenue_distribution.paid", entries[1].EventName)
}

func (s *ServiceSuite) TestPaymentIsFinal() {
	dist, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)

	_, err = s.svc.ProcessPayment(s.ctx, dist.ID(), "CHK-1001", s.now, "clerk-1")
	s.Require().NoError(err)

	s.Run("second payment fails", func() {
		_, err := s.svc.ProcessPayment(s.ctx, dist.ID(), "CHK-1002", s.now, "clerk-1")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("recalculation fails", func() {
		_, err := s.svc.Recalculate(s.ctx, dist.ID(), models.ProductionVolumes{}, s.breakdown(), "analyst")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *ServiceSuite) TestList() {
	_, err := s.svc.Create(s.ctx, s.createInput())
	s.Require().NoError(err)

	month := domain.MustProductionMonth("2024-05")
	got, err := s.svc.List(s.ctx, s.orgID, store.ListFilter{Month: &month})
	s.Require().NoError(err)
	s.Len(got, 1)

	other := domain.MustProductionMonth("2024-04")
	got, err = s.svc.List(s.ctx, s.orgID, store.ListFilter{Month: &other})
	s.Require().NoError(err)
	s.Empty(got)
}
