package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
)

type distributionResponse struct {
	ID              string            `json:"id"`
	OrganizationID  string            `json:"organizationId"`
	WellID          string            `json:"wellId"`
	PartnerID       string            `json:"partnerId"`
	DivisionOrderID string            `json:"divisionOrderId"`
	ProductionMonth string            `json:"productionMonth"`
	Volumes         volumesResponse   `json:"productionVolumes"`
	Breakdown       breakdownResponse `json:"revenueBreakdown"`
	TotalDeductions string            `json:"totalDeductions"`
	IsPaid          bool              `json:"isPaid"`
	Payment         *paymentResponse  `json:"paymentInfo,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	Version         int               `json:"version"`
}

type listDistributionsResponse struct {
	Distributions []distributionResponse `json:"revenueDistributions"`
}

type volumesResponse struct {
	OilVolume *string `json:"oilVolume,omitempty"`
	GasVolume *string `json:"gasVolume,omitempty"`
}

type breakdownResponse struct {
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

type paymentResponse struct {
	CheckNumber   string `json:"checkNumber"`
	PaymentDate   string `json:"paymentDate"`
	PaymentMethod string `json:"paymentMethod"`
}

func distributionResponseFrom(dist *models.RevenueDistribution) distributionResponse {
	b := dist.Breakdown()
	resp := distributionResponse{
		ID:              dist.ID().String(),
		OrganizationID:  dist.OrganizationID().String(),
		WellID:          dist.WellID().String(),
		PartnerID:       dist.PartnerID().String(),
		DivisionOrderID: dist.DivisionOrderID().String(),
		ProductionMonth: dist.ProductionMonth().String(),
		Volumes: volumesResponse{
			OilVolume: decimalString(dist.Volumes().OilVolume),
			GasVolume: decimalString(dist.Volumes().GasVolume),
		},
		Breakdown: breakdownResponse{
			Currency:            b.TotalRevenue.Currency(),
			OilRevenue:          moneyString(b.OilRevenue),
			GasRevenue:          moneyString(b.GasRevenue),
			TotalRevenue:        b.TotalRevenue.StringFixed(),
			SeveranceTax:        moneyString(b.SeveranceTax),
			AdValorem:           moneyString(b.AdValorem),
			TransportationCosts: moneyString(b.TransportationCosts),
			ProcessingCosts:     moneyString(b.ProcessingCosts),
			OtherDeductions:     moneyString(b.OtherDeductions),
			NetRevenue:          b.NetRevenue.StringFixed(),
		},
		TotalDeductions: dist.TotalDeductions().StringFixed(),
		IsPaid:          dist.IsPaid(),
		CreatedAt:       dist.CreatedAt(),
		UpdatedAt:       dist.UpdatedAt(),
		Version:         dist.Version(),
	}
	if dist.IsPaid() {
		payment := dist.Payment()
		resp.Payment = &paymentResponse{
			CheckNumber:   payment.CheckNumber,
			PaymentDate:   payment.PaymentDate.Format(dateLayout),
			PaymentMethod: payment.PaymentMethod,
		}
	}
	return resp
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func moneyString(m *domain.Money) *string {
	if m == nil {
		return nil
	}
	s := m.StringFixed()
	return &s
}
