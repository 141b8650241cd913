package models

import (
	"time"

	"wellflow/pkg/domain"
)

// Domain events raised by the RevenueDistribution aggregate. Monetary values
// travel as fixed-point strings so consumers never see binary floats.

type RevenueDistributionCreated struct {
	DistributionID  domain.DistributionID `json:"distribution_id"`
	WellID          domain.WellID         `json:"well_id"`
	PartnerID       domain.PartnerID      `json:"partner_id"`
	ProductionMonth string                `json:"production_month"`
	NetRevenue      string                `json:"net_revenue"`
	Currency        string                `json:"currency"`
	At              time.Time             `json:"at"`
}

func (e RevenueDistributionCreated) EventName() string     { return "revenue_distribution.created" }
func (e RevenueDistributionCreated) AggregateID() string   { return e.DistributionID.String() }
func (e RevenueDistributionCreated) OccurredAt() time.Time { return e.At }

type RevenueDistributionCalculated struct {
	DistributionID domain.DistributionID `json:"distribution_id"`
	NetRevenue     string                `json:"net_revenue"`
	Currency       string                `json:"currency"`
	Actor          string                `json:"actor"`
	At             time.Time             `json:"at"`
}

func (e RevenueDistributionCalculated) EventName() string {
	return "revenue_distribution.calculated"
}
func (e RevenueDistributionCalculated) AggregateID() string   { return e.DistributionID.String() }
func (e RevenueDistributionCalculated) OccurredAt() time.Time { return e.At }

type RevenueDistributionPaid struct {
	DistributionID domain.DistributionID `json:"distribution_id"`
	CheckNumber    string                `json:"check_number"`
	PaymentDate    time.Time             `json:"payment_date"`
	NetRevenue     string                `json:"net_revenue"`
	Currency       string                `json:"currency"`
	Actor          string                `json:"actor"`
	At             time.Time             `json:"at"`
}

func (e RevenueDistributionPaid) EventName() string     { return "revenue_distribution.paid" }
func (e RevenueDistributionPaid) AggregateID() string   { return e.DistributionID.String() }
func (e RevenueDistributionPaid) OccurredAt() time.Time { return e.At }
