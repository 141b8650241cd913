package models

import (
	"time"

	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

// DivisionOrder is the aggregate root recording one partner's fractional
// interest in one well's revenue over a date window.
//
// Invariants:
//   - OrganizationID, WellID and PartnerID are non-nil
//   - EffectiveDate is not in the future at construction time
//   - EndDate, when present, is strictly after EffectiveDate
//   - Version starts at 1 and increments on every state-changing operation;
//     no-op calls (same interest, already active/inactive) change nothing
//
// At most one order should be active and effective for a partner+well on any
// given date. The aggregate cannot see its siblings, so that invariant is
// enforced by the service layer against the store (see ownership/service).
//
// Dates are held at day granularity, normalized to midnight UTC. Domain
// events accumulate on the aggregate until DrainEvents hands them to the
// outbox after a successful save.
type DivisionOrder struct {
	id              domain.DivisionOrderID
	organizationID  domain.OrganizationID
	wellID          domain.WellID
	partnerID       domain.PartnerID
	decimalInterest domain.DecimalInterest
	effectiveDate   time.Time
	endDate         *time.Time
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
	version         int

	// loadedVersion is the version this instance was read at; the store's
	// compare-and-swap checks it. Zero for a freshly constructed aggregate.
	loadedVersion int

	events []domain.Event
}

// NewDivisionOrder constructs a division order, validating in order: blank
// identifiers, future effective date, end-date ordering. The order starts
// active at version 1 and raises a created event.
func NewDivisionOrder(
	id domain.DivisionOrderID,
	organizationID domain.OrganizationID,
	wellID domain.WellID,
	partnerID domain.PartnerID,
	interest domain.DecimalInterest,
	effectiveDate time.Time,
	endDate *time.Time,
	now time.Time,
) (*DivisionOrder, error) {
	if id.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "division order id is required")
	}
	if organizationID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "organization id is required")
	}
	if wellID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "well id is required")
	}
	if partnerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "partner id is required")
	}
	effective := DateOnly(effectiveDate)
	if effective.After(DateOnly(now)) {
		return nil, dErrors.New(dErrors.CodeValidation, "effective date must not be in the future")
	}
	var end *time.Time
	if endDate != nil {
		e := DateOnly(*endDate)
		if !e.After(effective) {
			return nil, dErrors.New(dErrors.CodeValidation, "end date must be after effective date")
		}
		end = &e
	}

	order := &DivisionOrder{
		id:              id,
		organizationID:  organizationID,
		wellID:          wellID,
		partnerID:       partnerID,
		decimalInterest: interest,
		effectiveDate:   effective,
		endDate:         end,
		isActive:        true,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
	}
	order.record(DivisionOrderCreated{
		OrderID:       id,
		WellID:        wellID,
		PartnerID:     partnerID,
		Interest:      interest.String(),
		EffectiveDate: effective,
		At:            now,
	})
	return order, nil
}

// RestoreDivisionOrder rebuilds an aggregate from persisted state. No events
// are raised and no construction-time checks rerun; the store is trusted to
// hand back what was saved.
func RestoreDivisionOrder(
	id domain.DivisionOrderID,
	organizationID domain.OrganizationID,
	wellID domain.WellID,
	partnerID domain.PartnerID,
	interest domain.DecimalInterest,
	effectiveDate time.Time,
	endDate *time.Time,
	isActive bool,
	createdAt, updatedAt time.Time,
	version int,
) *DivisionOrder {
	var end *time.Time
	if endDate != nil {
		e := DateOnly(*endDate)
		end = &e
	}
	return &DivisionOrder{
		id:              id,
		organizationID:  organizationID,
		wellID:          wellID,
		partnerID:       partnerID,
		decimalInterest: interest,
		effectiveDate:   DateOnly(effectiveDate),
		endDate:         end,
		isActive:        isActive,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         version,
		loadedVersion:   version,
	}
}

func (o *DivisionOrder) ID() domain.DivisionOrderID            { return o.id }
func (o *DivisionOrder) OrganizationID() domain.OrganizationID { return o.organizationID }
func (o *DivisionOrder) WellID() domain.WellID                 { return o.wellID }
func (o *DivisionOrder) PartnerID() domain.PartnerID           { return o.partnerID }
func (o *DivisionOrder) DecimalInterest() domain.DecimalInterest {
	return o.decimalInterest
}
func (o *DivisionOrder) EffectiveDate() time.Time { return o.effectiveDate }
func (o *DivisionOrder) IsActive() bool           { return o.isActive }
func (o *DivisionOrder) CreatedAt() time.Time     { return o.createdAt }
func (o *DivisionOrder) UpdatedAt() time.Time     { return o.updatedAt }
func (o *DivisionOrder) Version() int             { return o.version }

// LoadedVersion is the persisted version this instance was restored from,
// zero for new aggregates. Stores use it for the optimistic write guard.
func (o *DivisionOrder) LoadedVersion() int { return o.loadedVersion }

// EndDate returns a copy of the end date, or nil when the order is
// open-ended.
func (o *DivisionOrder) EndDate() *time.Time {
	if o.endDate == nil {
		return nil
	}
	end := *o.endDate
	return &end
}

// UpdateDecimalInterest replaces the recorded interest. A numerically equal
// value (within the interest equality tolerance) is a no-op: no version bump,
// no event.
func (o *DivisionOrder) UpdateDecimalInterest(newInterest domain.DecimalInterest, actor string, now time.Time) {
	if o.decimalInterest.Equals(newInterest) {
		return
	}
	old := o.decimalInterest
	o.decimalInterest = newInterest
	o.touch(now)
	o.record(DivisionOrderInterestUpdated{
		OrderID:     o.id,
		OldInterest: old.String(),
		NewInterest: newInterest.String(),
		UpdatedBy:   actor,
		At:          now,
	})
}

// Activate reopens the order, clearing any scheduled end date. A no-op when
// already active.
func (o *DivisionOrder) Activate(actor string, now time.Time) {
	if o.isActive {
		return
	}
	o.isActive = true
	o.endDate = nil
	o.touch(now)
	o.record(DivisionOrderActivated{
		OrderID:     o.id,
		ActivatedBy: actor,
		At:          now,
	})
}

// Deactivate closes the order as of endDate. Fails when endDate is not
// strictly after the effective date; a no-op when already inactive.
func (o *DivisionOrder) Deactivate(endDate time.Time, actor string, now time.Time) error {
	if !o.isActive {
		return nil
	}
	end := DateOnly(endDate)
	if !end.After(o.effectiveDate) {
		return dErrors.New(dErrors.CodeValidation, "end date must be after effective date")
	}
	o.isActive = false
	o.endDate = &end
	o.touch(now)
	o.record(DivisionOrderDeactivated{
		OrderID:       o.id,
		EndDate:       end,
		DeactivatedBy: actor,
		At:            now,
	})
	return nil
}

// IsEffectiveOn reports whether the order governs revenue for the given
// date. Both window boundaries are inclusive; an inactive order is never
// effective.
func (o *DivisionOrder) IsEffectiveOn(date time.Time) bool {
	if !o.isActive {
		return false
	}
	d := DateOnly(date)
	if d.Before(o.effectiveDate) {
		return false
	}
	if o.endDate != nil && d.After(*o.endDate) {
		return false
	}
	return true
}

// OverlapsWith reports whether two orders for the same well and partner have
// intersecting date windows, boundaries inclusive. An open end date counts as
// extending indefinitely. Orders for a different well or partner never
// overlap.
func (o *DivisionOrder) OverlapsWith(other *DivisionOrder) bool {
	if o.wellID != other.wellID || o.partnerID != other.partnerID {
		return false
	}
	if other.endDate != nil && o.effectiveDate.After(*other.endDate) {
		return false
	}
	if o.endDate != nil && other.effectiveDate.After(*o.endDate) {
		return false
	}
	return true
}

// Events returns a copy of the pending event buffer without clearing it.
func (o *DivisionOrder) Events() []domain.Event {
	out := make([]domain.Event, len(o.events))
	copy(out, o.events)
	return out
}

// DrainEvents empties the event buffer and transfers ownership of the events
// to the caller. Called after a successful save.
func (o *DivisionOrder) DrainEvents() []domain.Event {
	events := o.events
	o.events = nil
	return events
}

func (o *DivisionOrder) record(event domain.Event) {
	o.events = append(o.events, event)
}

func (o *DivisionOrder) touch(now time.Time) {
	o.updatedAt = now
	o.version++
}

// DateOnly truncates a timestamp to its calendar day in UTC. Ownership
// windows are day-granular facts; keeping them normalized makes boundary
// comparisons exact.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
