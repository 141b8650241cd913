package domain_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

type MoneySuite struct {
	suite.Suite
}

func TestMoneySuite(t *testing.T) {
	suite.Run(t, new(MoneySuite))
}

func (s *MoneySuite) TestConstruction() {
	s.Run("parses exact decimal strings", func() {
		money, err := domain.ParseMoney("1000.00", "USD")
		s.Require().NoError(err)
		s.Equal("1000.00 USD", money.String())
	})

	s.Run("normalizes currency case", func() {
		money, err := domain.ParseMoney("5.00", "usd")
		s.Require().NoError(err)
		s.Equal("USD", money.Currency())
	})

	s.Run("rejects empty currency", func() {
		_, err := domain.ParseMoney("5.00", "")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects malformed amount", func() {
		_, err := domain.ParseMoney("ten dollars", "USD")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("allows negative amounts", func() {
		money, err := domain.ParseMoney("-75.00", "USD")
		s.Require().NoError(err)
		s.True(money.IsNegative())
	})
}

func (s *MoneySuite) TestArithmetic() {
	s.Run("adds matching currencies", func() {
		sum, err := domain.MustMoney("925.00", "USD").Add(domain.MustMoney("75.00", "USD"))
		s.Require().NoError(err)
		s.True(sum.Equals(domain.MustMoney("1000.00", "USD")))
	})

	s.Run("subtracts matching currencies", func() {
		net, err := domain.MustMoney("1000.00", "USD").Subtract(domain.MustMoney("75.00", "USD"))
		s.Require().NoError(err)
		s.Equal("925.00", net.StringFixed())
	})

	s.Run("rejects mixed currencies", func() {
		_, err := domain.MustMoney("10.00", "USD").Add(domain.MustMoney("10.00", "CAD"))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("multiplies by interest exactly", func() {
		share := domain.MustMoney("1000.00", "USD").MultiplyByInterest(domain.MustDecimalInterest("0.125"))
		s.Equal("125.00", share.StringFixed())
	})

	s.Run("rounds interest shares to cents", func() {
		share := domain.MustMoney("100.00", "USD").MultiplyByInterest(domain.MustDecimalInterest("0.33333333"))
		s.Equal("33.33", share.StringFixed())
	})
}

func (s *MoneySuite) TestComparison() {
	s.Run("greater than", func() {
		greater, err := domain.MustMoney("1000.00", "USD").GreaterThan(domain.MustMoney("925.00", "USD"))
		s.Require().NoError(err)
		s.True(greater)
	})

	s.Run("greater than across currencies fails", func() {
		_, err := domain.MustMoney("1000.00", "USD").GreaterThan(domain.MustMoney("925.00", "EUR"))
		s.Require().Error(err)
	})

	s.Run("equality is exact", func() {
		s.True(domain.MustMoney("10.00", "USD").Equals(domain.MustMoney("10.000", "USD")))
		s.False(domain.MustMoney("10.00", "USD").Equals(domain.MustMoney("10.00", "CAD")))
	})

	s.Run("zero money", func() {
		s.True(domain.ZeroMoney("USD").IsZero())
		s.False(domain.MustMoney("0.01", "USD").IsZero())
	})
}
