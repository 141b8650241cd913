package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

type DistributionSuite struct {
	suite.Suite

	now   time.Time
	month domain.ProductionMonth

	orgID   domain.OrganizationID
	wellID  domain.WellID
	partner domain.PartnerID
	orderID domain.DivisionOrderID
}

func TestDistributionSuite(t *testing.T) {
	suite.Run(t, new(DistributionSuite))
}

func (s *DistributionSuite) SetupTest() {
	s.now = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	s.month = domain.MustProductionMonth("2024-05")
	s.orgID, _ = domain.ParseOrganizationID("0cb8e087-7b36-4938-9a8e-4254ab940b36")
	s.wellID, _ = domain.ParseWellID("6f6fba56-6a2b-467e-b3b1-0bbc1c488a3a")
	s.partner, _ = domain.ParsePartnerID("a7e4f1de-4f92-4e2c-a2bb-05a5c0273db0")
	s.orderID = domain.NewDivisionOrderID()
}

func usd(amount string) domain.Money {
	return domain.MustMoney(amount, "USD")
}

func usdPtr(amount string) *domain.Money {
	m := usd(amount)
	return &m
}

func (s *DistributionSuite) breakdown() RevenueBreakdown {
	return RevenueBreakdown{
		TotalRevenue: usd("1000.00"),
		SeveranceTax: usdPtr("75.00"),
		NetRevenue:   usd("925.00"),
	}
}

func (s *DistributionSuite) newDistribution() *RevenueDistribution {
	oil := decimal.RequireFromString("120.5")
	dist, err := NewRevenueDistribution(
		domain.NewDistributionID(),
		s.orgID,
		s.wellID,
		s.partner,
		s.orderID,
		s.month,
		ProductionVolumes{OilVolume: &oil},
		s.breakdown(),
		s.now,
	)
	s.Require().NoError(err)
	return dist
}

func (s *DistributionSuite) TestNewRevenueDistribution() {
	dist := s.newDistribution()

	s.Equal(1, dist.Version())
	s.False(dist.IsPaid())
	s.Equal("925.00", dist.Breakdown().NetRevenue.StringFixed())

	events := dist.Events()
	s.Require().Len(events, 1)
	created, ok := events[0].(RevenueDistributionCreated)
	s.Require().True(ok)
	s.Equal("revenue_distribution.created", created.EventName())
	s.Equal("925.00", created.NetRevenue)
	s.Equal("2024-05", created.ProductionMonth)
}

func (s *DistributionSuite) TestConstructionValidation() {
	s.Run("future production month", func() {
		_, err := NewRevenueDistribution(
			domain.NewDistributionID(), s.orgID, s.wellID, s.partner, s.orderID,
			domain.MustProductionMonth("2024-07"),
			ProductionVolumes{}, s.breakdown(), s.now,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("current month is allowed", func() {
		_, err := NewRevenueDistribution(
			domain.NewDistributionID(), s.orgID, s.wellID, s.partner, s.orderID,
			domain.MustProductionMonth("2024-06"),
			ProductionVolumes{}, s.breakdown(), s.now,
		)
		s.NoError(err)
	})

	s.Run("missing division order id", func() {
		_, err := NewRevenueDistribution(
			domain.NewDistributionID(), s.orgID, s.wellID, s.partner, domain.DivisionOrderID{},
			s.month, ProductionVolumes{}, s.breakdown(), s.now,
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *DistributionSuite) TestBreakdownValidation() {
	s.Run("missing total revenue", func() {
		b := RevenueBreakdown{NetRevenue: usd("925.00")}
		s.Error(b.Validate())
	})

	s.Run("missing net revenue", func() {
		b := RevenueBreakdown{TotalRevenue: usd("1000.00")}
		s.Error(b.Validate())
	})

	s.Run("negative total revenue", func() {
		b := RevenueBreakdown{TotalRevenue: usd("-1.00"), NetRevenue: usd("-1.00")}
		s.Error(b.Validate())
	})

	s.Run("net exceeding total", func() {
		b := RevenueBreakdown{TotalRevenue: usd("1000.00"), NetRevenue: usd("1000.01")}
		s.Error(b.Validate())
	})

	s.Run("net equal to total", func() {
		b := RevenueBreakdown{TotalRevenue: usd("1000.00"), NetRevenue: usd("1000.00")}
		s.NoError(b.Validate())
	})

	s.Run("currency mismatch", func() {
		eur := domain.MustMoney("75.00", "EUR")
		b := RevenueBreakdown{
			TotalRevenue: usd("1000.00"),
			SeveranceTax: &eur,
			NetRevenue:   usd("925.00"),
		}
		err := b.Validate()
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *DistributionSuite) TestTotalDeductions() {
	s.Run("sums present deductions", func() {
		b := RevenueBreakdown{
			TotalRevenue:        usd("1000.00"),
			SeveranceTax:        usdPtr("75.00"),
			TransportationCosts: usdPtr("20.00"),
			NetRevenue:          usd("905.00"),
		}
		s.Equal("95.00", b.TotalDeductions().StringFixed())
	})

	s.Run("defaults to zero", func() {
		b := RevenueBreakdown{TotalRevenue: usd("1000.00"), NetRevenue: usd("1000.00")}
		s.True(b.TotalDeductions().Amount().IsZero())
		s.Equal("USD", b.TotalDeductions().Currency())
	})
}

func (s *DistributionSuite) TestProcessPayment() {
	dist := s.newDistribution()

	err := dist.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now)
	s.Require().NoError(err)

	s.True(dist.IsPaid())
	s.Equal(2, dist.Version())
	s.Equal("check", dist.Payment().PaymentMethod)
	s.Equal("CHK-1001", dist.Payment().CheckNumber)

	events := dist.Events()
	s.Require().Len(events, 2)
	paid, ok := events[1].(RevenueDistributionPaid)
	s.Require().True(ok)
	s.Equal("revenue_distribution.paid", paid.EventName())
	s.Equal("clerk-1", paid.Actor)
}

func (s *DistributionSuite) TestProcessPaymentValidation() {
	s.Run("blank check number", func() {
		dist := s.newDistribution()
		err := dist.ProcessPayment("   ", s.now, "clerk-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.False(dist.IsPaid())
	})

	s.Run("future payment date", func() {
		dist := s.newDistribution()
		err := dist.ProcessPayment("CHK-1001", s.now.AddDate(0, 0, 1), "clerk-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("second payment fails", func() {
		dist := s.newDistribution()
		s.Require().NoError(dist.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now))

		err := dist.ProcessPayment("CHK-1002", s.now, "clerk-1", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Equal(2, dist.Version())
		s.Equal("CHK-1001", dist.Payment().CheckNumber)
	})
}

func (s *DistributionSuite) TestRecalculateRevenue() {
	dist := s.newDistribution()

	gas := decimal.RequireFromString("3400")
	newBreakdown := RevenueBreakdown{
		TotalRevenue: usd("1200.00"),
		SeveranceTax: usdPtr("90.00"),
		NetRevenue:   usd("1110.00"),
	}
	err := dist.RecalculateRevenue(ProductionVolumes{GasVolume: &gas}, newBreakdown, "analyst", s.now)
	s.Require().NoError(err)

	s.Equal(2, dist.Version())
	s.Equal("1110.00", dist.Breakdown().NetRevenue.StringFixed())
	s.Nil(dist.Volumes().OilVolume)
	s.Require().NotNil(dist.Volumes().GasVolume)

	events := dist.Events()
	s.Require().Len(events, 2)
	calculated, ok := events[1].(RevenueDistributionCalculated)
	s.Require().True(ok)
	s.Equal("1110.00", calculated.NetRevenue)
}

func (s *DistributionSuite) TestRecalculateRevenueRejected() {
	s.Run("after payment", func() {
		dist := s.newDistribution()
		s.Require().NoError(dist.ProcessPayment("CHK-1001", s.now, "clerk-1", s.now))

		err := dist.RecalculateRevenue(ProductionVolumes{}, s.breakdown(), "analyst", s.now)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("invalid breakdown leaves state untouched", func() {
		dist := s.newDistribution()
		bad := RevenueBreakdown{TotalRevenue: usd("100.00"), NetRevenue: usd("200.00")}

		err := dist.RecalculateRevenue(ProductionVolumes{}, bad, "analyst", s.now)
		s.Require().Error(err)
		s.Equal(1, dist.Version())
		s.Equal("925.00", dist.Breakdown().NetRevenue.StringFixed())
	})
}

func (s *DistributionSuite) TestDrainEvents() {
	dist := s.newDistribution()

	drained := dist.DrainEvents()
	s.Len(drained, 1)
	s.Empty(dist.Events())
}

func (s *DistributionSuite) TestRestoreRaisesNoEvents() {
	paidOn := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	dist := RestoreRevenueDistribution(
		domain.NewDistributionID(), s.orgID, s.wellID, s.partner, s.orderID,
		s.month, ProductionVolumes{}, s.breakdown(),
		PaymentInfo{CheckNumber: "CHK-9", PaymentDate: &paidOn, PaymentMethod: "check"},
		s.now, s.now, 3,
	)

	s.Empty(dist.Events())
	s.True(dist.IsPaid())
	s.Equal(3, dist.Version())
	s.Equal(3, dist.LoadedVersion())
}
