package handler

import (
	"strconv"
	"time"

	"wellflow/internal/ownership/models"
	dErrors "wellflow/pkg/domain-errors"
)

// orderResponse is the wire shape of a division order. Dates render as
// YYYY-MM-DD, the interest as its canonical fixed-8 string.
type orderResponse struct {
	ID              string    `json:"id"`
	OrganizationID  string    `json:"organizationId"`
	WellID          string    `json:"wellId"`
	PartnerID       string    `json:"partnerId"`
	DecimalInterest string    `json:"decimalInterest"`
	Percentage      string    `json:"percentage"`
	EffectiveDate   string    `json:"effectiveDate"`
	EndDate         *string   `json:"endDate,omitempty"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	Version         int       `json:"version"`
}

type listOrdersResponse struct {
	DivisionOrders []orderResponse `json:"divisionOrders"`
}

func orderResponseFrom(order *models.DivisionOrder) orderResponse {
	resp := orderResponse{
		ID:              order.ID().String(),
		OrganizationID:  order.OrganizationID().String(),
		WellID:          order.WellID().String(),
		PartnerID:       order.PartnerID().String(),
		DecimalInterest: order.DecimalInterest().String(),
		Percentage:      order.DecimalInterest().FormatPercentage(),
		EffectiveDate:   order.EffectiveDate().Format(dateLayout),
		IsActive:        order.IsActive(),
		CreatedAt:       order.CreatedAt(),
		UpdatedAt:       order.UpdatedAt(),
		Version:         order.Version(),
	}
	if end := order.EndDate(); end != nil {
		formatted := end.Format(dateLayout)
		resp.EndDate = &formatted
	}
	return resp
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
