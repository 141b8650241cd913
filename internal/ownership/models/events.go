package models

import (
	"time"

	"wellflow/pkg/domain"
)

// Domain events raised by the DivisionOrder aggregate. Plain records: ids,
// old/new values, actor, timestamp. Behavior stays on the aggregate.

type DivisionOrderCreated struct {
	OrderID       domain.DivisionOrderID `json:"order_id"`
	WellID        domain.WellID          `json:"well_id"`
	PartnerID     domain.PartnerID       `json:"partner_id"`
	Interest      string                 `json:"decimal_interest"`
	EffectiveDate time.Time              `json:"effective_date"`
	At            time.Time              `json:"at"`
}

func (e DivisionOrderCreated) EventName() string     { return "division_order.created" }
func (e DivisionOrderCreated) AggregateID() string   { return e.OrderID.String() }
func (e DivisionOrderCreated) OccurredAt() time.Time { return e.At }

type DivisionOrderInterestUpdated struct {
	OrderID     domain.DivisionOrderID `json:"order_id"`
	OldInterest string                 `json:"old_interest"`
	NewInterest string                 `json:"new_interest"`
	UpdatedBy   string                 `json:"updated_by"`
	At          time.Time              `json:"at"`
}

func (e DivisionOrderInterestUpdated) EventName() string     { return "division_order.interest_updated" }
func (e DivisionOrderInterestUpdated) AggregateID() string   { return e.OrderID.String() }
func (e DivisionOrderInterestUpdated) OccurredAt() time.Time { return e.At }

type DivisionOrderActivated struct {
	OrderID     domain.DivisionOrderID `json:"order_id"`
	ActivatedBy string                 `json:"activated_by"`
	At          time.Time              `json:"at"`
}

func (e DivisionOrderActivated) EventName() string     { return "division_order.activated" }
func (e DivisionOrderActivated) AggregateID() string   { return e.OrderID.String() }
func (e DivisionOrderActivated) OccurredAt() time.Time { return e.At }

type DivisionOrderDeactivated struct {
	OrderID       domain.DivisionOrderID `json:"order_id"`
	EndDate       time.Time              `json:"end_date"`
	DeactivatedBy string                 `json:"deactivated_by"`
	At            time.Time              `json:"at"`
}

func (e DivisionOrderDeactivated) EventName() string     { return "division_order.deactivated" }
func (e DivisionOrderDeactivated) AggregateID() string   { return e.OrderID.String() }
func (e DivisionOrderDeactivated) OccurredAt() time.Time { return e.At }
