package handler

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// Amounts arrive as decimal strings so clients never send binary floats.

type createDistributionRequest struct {
	WellID          string           `json:"wellId"`
	PartnerID       string           `json:"partnerId"`
	DivisionOrderID string           `json:"divisionOrderId"`
	ProductionMonth string           `json:"productionMonth"`
	Volumes         volumesRequest   `json:"productionVolumes"`
	Breakdown       breakdownRequest `json:"revenueBreakdown"`
}

type recalculateRequest struct {
	Volumes   volumesRequest   `json:"productionVolumes"`
	Breakdown breakdownRequest `json:"revenueBreakdown"`
}

type paymentRequest struct {
	CheckNumber string `json:"checkNumber"`
	PaymentDate string `json:"paymentDate"`
}

type volumesRequest struct {
	OilVolume *string `json:"oilVolume,omitempty"`
	GasVolume *string `json:"gasVolume,omitempty"`
}

func (v volumesRequest) toModel() (models.ProductionVolumes, error) {
	var volumes models.ProductionVolumes
	var err error
	if volumes.OilVolume, err = parseVolume(v.OilVolume, "oilVolume"); err != nil {
		return volumes, err
	}
	if volumes.GasVolume, err = parseVolume(v.GasVolume, "gasVolume"); err != nil {
		return volumes, err
	}
	return volumes, nil
}

type breakdownRequest struct {
	Currency            string  `json:"currency"`
	OilRevenue          *string `json:"oilRevenue,omitempty"`
	GasRevenue          *string `json:"gasRevenue,omitempty"`
	TotalRevenue        string  `json:"totalRevenue"`
	SeveranceTax        *string `json:"severanceTax,omitempty"`
	AdValorem           *string `json:"adValorem,omitempty"`
	TransportationCosts *string `json:"transportationCosts,omitempty"`
	ProcessingCosts     *string `json:"processingCosts,omitempty"`
	OtherDeductions     *string `json:"otherDeductions,omitempty"`
	NetRevenue          string  `json:"netRevenue"`
}

func (b breakdownRequest) toModel() (models.RevenueBreakdown, error) {
	currency := b.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}

	var breakdown models.RevenueBreakdown
	var err error
	if breakdown.TotalRevenue, err = parseAmount(b.TotalRevenue, currency, "totalRevenue"); err != nil {
		return breakdown, err
	}
	if breakdown.NetRevenue, err = parseAmount(b.NetRevenue, currency, "netRevenue"); err != nil {
		return breakdown, err
	}
	optional := []struct {
		name string
		src  *string
		dst  **domain.Money
	}{
		{"oilRevenue", b.OilRevenue, &breakdown.OilRevenue},
		{"gasRevenue", b.GasRevenue, &breakdown.GasRevenue},
		{"severanceTax", b.SeveranceTax, &breakdown.SeveranceTax},
		{"adValorem", b.AdValorem, &breakdown.AdValorem},
		{"transportationCosts", b.TransportationCosts, &breakdown.TransportationCosts},
		{"processingCosts", b.ProcessingCosts, &breakdown.ProcessingCosts},
		{"otherDeductions", b.OtherDeductions, &breakdown.OtherDeductions},
	}
	for _, field := range optional {
		if field.src == nil {
			continue
		}
		m, err := parseAmount(*field.src, currency, field.name)
		if err != nil {
			return breakdown, err
		}
		*field.dst = &m
	}
	return breakdown, nil
}

func parseAmount(raw, currency, field string) (domain.Money, error) {
	if raw == "" {
		return domain.Money{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", field)
	}
	m, err := domain.ParseMoney(raw, currency)
	if err != nil {
		return domain.Money{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a decimal amount", field)
	}
	return m, nil
}

func parseVolume(raw *string, field string) (*decimal.Decimal, error) {
	if raw == nil {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a decimal volume", field)
	}
	if d.IsNegative() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be negative", field)
	}
	return &d, nil
}

func parseDate(raw, field string) (time.Time, error) {
	date, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a YYYY-MM-DD date", field)
	}
	return date, nil
}

func parseIntParam(raw, field string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be a non-negative integer", field)
	}
	return value, nil
}
