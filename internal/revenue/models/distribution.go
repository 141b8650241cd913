package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

// ProductionVolumes holds the month's measured output. Either volume may be
// absent for a well that produces only one product.
type ProductionVolumes struct {
	OilVolume *decimal.Decimal
	GasVolume *decimal.Decimal
}

// RevenueBreakdown is the month's revenue and deduction detail for one
// distribution. TotalRevenue and NetRevenue are required; every other field
// is optional but must share TotalRevenue's currency when present.
type RevenueBreakdown struct {
	OilRevenue          *domain.Money
	GasRevenue          *domain.Money
	TotalRevenue        domain.Money
	SeveranceTax        *domain.Money
	AdValorem           *domain.Money
	TransportationCosts *domain.Money
	ProcessingCosts     *domain.Money
	OtherDeductions     *domain.Money
	NetRevenue          domain.Money
}

// Validate checks the breakdown invariants: both required amounts present,
// a non-negative total, net not exceeding total, and one currency across
// every present field.
func (b RevenueBreakdown) Validate() error {
	if b.TotalRevenue.Currency() == "" {
		return dErrors.New(dErrors.CodeValidation, "total revenue is required")
	}
	if b.NetRevenue.Currency() == "" {
		return dErrors.New(dErrors.CodeValidation, "net revenue is required")
	}
	if b.TotalRevenue.IsNegative() {
		return dErrors.New(dErrors.CodeValidation, "total revenue must not be negative")
	}
	currency := b.TotalRevenue.Currency()
	for name, m := range b.presentFields() {
		if m.Currency() != currency {
			return dErrors.Newf(dErrors.CodeValidation,
				"currency mismatch: %s is %s, total revenue is %s", name, m.Currency(), currency)
		}
	}
	exceeds, err := b.NetRevenue.GreaterThan(b.TotalRevenue)
	if err != nil {
		return err
	}
	if exceeds {
		return dErrors.New(dErrors.CodeValidation, "net revenue must not exceed total revenue")
	}
	return nil
}

// TotalDeductions sums the deduction fields that are present, in the
// breakdown's currency. No deductions yields zero money.
func (b RevenueBreakdown) TotalDeductions() domain.Money {
	total := domain.ZeroMoney(b.TotalRevenue.Currency())
	for _, m := range []*domain.Money{b.SeveranceTax, b.AdValorem, b.TransportationCosts, b.ProcessingCosts, b.OtherDeductions} {
		if m == nil {
			continue
		}
		// Currency agreement was checked by Validate.
		total, _ = total.Add(*m)
	}
	return total
}

func (b RevenueBreakdown) presentFields() map[string]domain.Money {
	fields := make(map[string]domain.Money)
	add := func(name string, m *domain.Money) {
		if m != nil {
			fields[name] = *m
		}
	}
	add("oil revenue", b.OilRevenue)
	add("gas revenue", b.GasRevenue)
	add("severance tax", b.SeveranceTax)
	add("ad valorem", b.AdValorem)
	add("transportation costs", b.TransportationCosts)
	add("processing costs", b.ProcessingCosts)
	add("other deductions", b.OtherDeductions)
	fields["net revenue"] = b.NetRevenue
	return fields
}

// PaymentInfo records how a distribution was settled. A distribution is paid
// iff both CheckNumber and PaymentDate are set.
type PaymentInfo struct {
	CheckNumber   string
	PaymentDate   *time.Time
	PaymentMethod string
}

// RevenueDistribution is the aggregate root for one partner's computed
// revenue share for one well and production month.
//
// Invariants:
//   - all five identifying references are non-nil
//   - ProductionMonth is not in the future at construction time
//   - the breakdown invariants hold (see RevenueBreakdown.Validate)
//   - once paid, neither recalculation nor a second payment is allowed
//
// Version starts at 1 and increments on recalculation and payment.
type RevenueDistribution struct {
	id              domain.DistributionID
	organizationID  domain.OrganizationID
	wellID          domain.WellID
	partnerID       domain.PartnerID
	divisionOrderID domain.DivisionOrderID
	productionMonth domain.ProductionMonth
	volumes         ProductionVolumes
	breakdown       RevenueBreakdown
	payment         PaymentInfo
	createdAt       time.Time
	updatedAt       time.Time
	version         int

	// loadedVersion is the version this instance was read at; the store's
	// compare-and-swap checks it. Zero for a freshly constructed aggregate.
	loadedVersion int

	events []domain.Event
}

// NewRevenueDistribution constructs a distribution for a closed production
// month, validating identifiers, month, and breakdown. It starts unpaid at
// version 1 and raises a created event carrying the net revenue snapshot.
func NewRevenueDistribution(
	id domain.DistributionID,
	organizationID domain.OrganizationID,
	wellID domain.WellID,
	partnerID domain.PartnerID,
	divisionOrderID domain.DivisionOrderID,
	productionMonth domain.ProductionMonth,
	volumes ProductionVolumes,
	breakdown RevenueBreakdown,
	now time.Time,
) (*RevenueDistribution, error) {
	if id.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "distribution id is required")
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
	if divisionOrderID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "division order id is required")
	}
	if productionMonth.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "production month is required")
	}
	if productionMonth.IsFuture(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "production month must not be in the future")
	}
	if err := breakdown.Validate(); err != nil {
		return nil, err
	}

	dist := &RevenueDistribution{
		id:              id,
		organizationID:  organizationID,
		wellID:          wellID,
		partnerID:       partnerID,
		divisionOrderID: divisionOrderID,
		productionMonth: productionMonth,
		volumes:         volumes,
		breakdown:       breakdown,
		createdAt:       now,
		updatedAt:       now,
		version:         1,
	}
	dist.record(RevenueDistributionCreated{
		DistributionID:  id,
		WellID:          wellID,
		PartnerID:       partnerID,
		ProductionMonth: productionMonth.String(),
		NetRevenue:      breakdown.NetRevenue.StringFixed(),
		Currency:        breakdown.NetRevenue.Currency(),
		At:              now,
	})
	return dist, nil
}

// RestoreRevenueDistribution rebuilds an aggregate from persisted state. No
// events are raised and no construction-time checks rerun.
func RestoreRevenueDistribution(
	id domain.DistributionID,
	organizationID domain.OrganizationID,
	wellID domain.WellID,
	partnerID domain.PartnerID,
	divisionOrderID domain.DivisionOrderID,
	productionMonth domain.ProductionMonth,
	volumes ProductionVolumes,
	breakdown RevenueBreakdown,
	payment PaymentInfo,
	createdAt, updatedAt time.Time,
	version int,
) *RevenueDistribution {
	return &RevenueDistribution{
		id:              id,
		organizationID:  organizationID,
		wellID:          wellID,
		partnerID:       partnerID,
		divisionOrderID: divisionOrderID,
		productionMonth: productionMonth,
		volumes:         volumes,
		breakdown:       breakdown,
		payment:         payment,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
		version:         version,
		loadedVersion:   version,
	}
}

func (d *RevenueDistribution) ID() domain.DistributionID             { return d.id }
func (d *RevenueDistribution) OrganizationID() domain.OrganizationID { return d.organizationID }
func (d *RevenueDistribution) WellID() domain.WellID                 { return d.wellID }
func (d *RevenueDistribution) PartnerID() domain.PartnerID           { return d.partnerID }
func (d *RevenueDistribution) DivisionOrderID() domain.DivisionOrderID {
	return d.divisionOrderID
}
func (d *RevenueDistribution) ProductionMonth() domain.ProductionMonth { return d.productionMonth }
func (d *RevenueDistribution) Volumes() ProductionVolumes              { return d.volumes }
func (d *RevenueDistribution) Breakdown() RevenueBreakdown             { return d.breakdown }
func (d *RevenueDistribution) Payment() PaymentInfo                    { return d.payment }
func (d *RevenueDistribution) CreatedAt() time.Time                    { return d.createdAt }
func (d *RevenueDistribution) UpdatedAt() time.Time                    { return d.updatedAt }
func (d *RevenueDistribution) Version() int                            { return d.version }

// LoadedVersion is the version the store read this instance at.
func (d *RevenueDistribution) LoadedVersion() int { return d.loadedVersion }

// IsPaid reports whether payment has been recorded: both a check number and
// a payment date are present.
func (d *RevenueDistribution) IsPaid() bool {
	return d.payment.CheckNumber != "" && d.payment.PaymentDate != nil
}

// TotalDeductions sums the present deduction fields of the breakdown.
func (d *RevenueDistribution) TotalDeductions() domain.Money {
	return d.breakdown.TotalDeductions()
}

// RecalculateRevenue replaces the volumes and breakdown. A paid distribution
// is final and cannot be recalculated.
func (d *RevenueDistribution) RecalculateRevenue(volumes ProductionVolumes, breakdown RevenueBreakdown, actor string, now time.Time) error {
	if d.IsPaid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "distribution is already paid")
	}
	if err := breakdown.Validate(); err != nil {
		return err
	}

	d.volumes = volumes
	d.breakdown = breakdown
	d.touch(now)
	d.record(RevenueDistributionCalculated{
		DistributionID: d.id,
		NetRevenue:     breakdown.NetRevenue.StringFixed(),
		Currency:       breakdown.NetRevenue.Currency(),
		Actor:          actor,
		At:             now,
	})
	return nil
}

// ProcessPayment records settlement by check. Payment happens at most once;
// the check number must be non-blank and the payment date not in the future.
func (d *RevenueDistribution) ProcessPayment(checkNumber string, paymentDate time.Time, actor string, now time.Time) error {
	if d.IsPaid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "distribution is already paid")
	}
	if strings.TrimSpace(checkNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "check number is required")
	}
	paid := dateOnly(paymentDate)
	if paid.After(dateOnly(now)) {
		return dErrors.New(dErrors.CodeValidation, "payment date must not be in the future")
	}

	d.payment = PaymentInfo{
		CheckNumber:   checkNumber,
		PaymentDate:   &paid,
		PaymentMethod: "check",
	}
	d.touch(now)
	d.record(RevenueDistributionPaid{
		DistributionID: d.id,
		CheckNumber:    checkNumber,
		PaymentDate:    paid,
		NetRevenue:     d.breakdown.NetRevenue.StringFixed(),
		Currency:       d.breakdown.NetRevenue.Currency(),
		Actor:          actor,
		At:             now,
	})
	return nil
}

// Events returns a copy of the raised, not-yet-drained events.
func (d *RevenueDistribution) Events() []domain.Event {
	out := make([]domain.Event, len(d.events))
	copy(out, d.events)
	return out
}

// DrainEvents returns the raised events and clears the buffer. The caller
// owns them afterwards.
func (d *RevenueDistribution) DrainEvents() []domain.Event {
	out := d.events
	d.events = nil
	return out
}

func (d *RevenueDistribution) record(event domain.Event) {
	d.events = append(d.events, event)
}

func (d *RevenueDistribution) touch(now time.Time) {
	d.updatedAt = now
	d.version++
}

func dateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
