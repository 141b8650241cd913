package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

type ProductionMonthSuite struct {
	suite.Suite
}

func TestProductionMonthSuite(t *testing.T) {
	suite.Run(t, new(ProductionMonthSuite))
}

func (s *ProductionMonthSuite) TestConstruction() {
	s.Run("accepts valid year and month", func() {
		month, err := domain.NewProductionMonth(2024, 6)
		s.Require().NoError(err)
		s.Equal("2024-06", month.String())
	})

	s.Run("rejects month outside 1..12", func() {
		for _, bad := range []int{0, 13, -1} {
			_, err := domain.NewProductionMonth(2024, bad)
			s.Require().Error(err)
			s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		}
	})

	s.Run("rejects year outside bounds", func() {
		_, err := domain.NewProductionMonth(1899, 1)
		s.Require().Error(err)
		_, err = domain.NewProductionMonth(2101, 1)
		s.Require().Error(err)
	})
}

func (s *ProductionMonthSuite) TestParsing() {
	s.Run("parses canonical form", func() {
		month, err := domain.ParseProductionMonth("2024-01")
		s.Require().NoError(err)
		s.Equal(2024, month.Year())
		s.Equal(1, month.Month())
	})

	s.Run("rejects malformed strings", func() {
		for _, bad := range []string{"2024/01", "2024-1", "January 2024", ""} {
			_, err := domain.ParseProductionMonth(bad)
			s.Require().Error(err, bad)
		}
	})

	s.Run("round-trips through String", func() {
		month := domain.MustProductionMonth("1999-12")
		parsed, err := domain.ParseProductionMonth(month.String())
		s.Require().NoError(err)
		s.True(parsed.Equals(month))
	})
}

func (s *ProductionMonthSuite) TestOrdering() {
	jan := domain.MustProductionMonth("2024-01")
	jun := domain.MustProductionMonth("2024-06")

	s.True(jan.Before(jun))
	s.True(jun.After(jan))
	s.False(jan.After(jan))
	s.True(jan.Equals(domain.MustProductionMonth("2024-01")))
}

func (s *ProductionMonthSuite) TestFutureSemantics() {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

	s.Run("current month is not future", func() {
		s.False(domain.MustProductionMonth("2024-06").IsFuture(now))
	})

	s.Run("first of current month is not future", func() {
		firstOfMonth := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		s.False(domain.MustProductionMonth("2024-06").IsFuture(firstOfMonth))
	})

	s.Run("next month is future", func() {
		s.True(domain.MustProductionMonth("2024-07").IsFuture(now))
	})

	s.Run("past month is not future", func() {
		s.False(domain.MustProductionMonth("2024-05").IsFuture(now))
	})
}

func (s *ProductionMonthSuite) TestSuccessorAndDistance() {
	s.Run("next crosses year boundary", func() {
		s.Equal("2025-01", domain.MustProductionMonth("2024-12").Next().String())
	})

	s.Run("prev crosses year boundary", func() {
		s.Equal("2023-12", domain.MustProductionMonth("2024-01").Prev().String())
	})

	s.Run("months between is signed", func() {
		jan := domain.MustProductionMonth("2024-01")
		jun := domain.MustProductionMonth("2024-06")
		s.Equal(5, jan.MonthsBetween(jun))
		s.Equal(-5, jun.MonthsBetween(jan))
		s.Equal(0, jan.MonthsBetween(jan))
	})

	s.Run("first day is midnight UTC", func() {
		s.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), domain.MustProductionMonth("2024-06").FirstDay())
	})
}

func (s *ProductionMonthSuite) TestRange() {
	s.Run("inclusive ordered range", func() {
		months, err := domain.ProductionMonthRange(
			domain.MustProductionMonth("2023-11"),
			domain.MustProductionMonth("2024-02"),
		)
		s.Require().NoError(err)
		s.Len(months, 4)
		s.Equal("2023-11", months[0].String())
		s.Equal("2024-02", months[3].String())
	})

	s.Run("single month range", func() {
		months, err := domain.ProductionMonthRange(
			domain.MustProductionMonth("2024-06"),
			domain.MustProductionMonth("2024-06"),
		)
		s.Require().NoError(err)
		s.Len(months, 1)
	})

	s.Run("start after end fails", func() {
		_, err := domain.ProductionMonthRange(
			domain.MustProductionMonth("2024-06"),
			domain.MustProductionMonth("2024-01"),
		)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
