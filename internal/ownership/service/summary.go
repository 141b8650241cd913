package service

import (
	"context"
	"time"

	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
)

// PartnerInterest is one partner's share of a well in an interest summary.
type PartnerInterest struct {
	DivisionOrderID domain.DivisionOrderID `json:"divisionOrderId"`
	PartnerID       domain.PartnerID       `json:"partnerId"`
	Interest        string                 `json:"interest"`
	Percentage      string                 `json:"percentage"`
}

// InterestSummary reports how a well's ownership is allocated on a given
// date. IsValid means the active interests sum to exactly 100%.
type InterestSummary struct {
	WellID        domain.WellID     `json:"wellId"`
	EffectiveDate time.Time         `json:"effectiveDate"`
	TotalInterest string            `json:"totalInterest"`
	Percentage    string            `json:"percentage"`
	IsValid       bool              `json:"isValid"`
	OrderCount    int               `json:"orderCount"`
	Partners      []PartnerInterest `json:"partners"`
}

// SummaryCache stores computed summaries keyed by well and date. A Get miss
// is (nil, false); implementations absorb their own transport failures.
type SummaryCache interface {
	Get(ctx context.Context, wellID domain.WellID, date time.Time) (*InterestSummary, bool)
	Set(ctx context.Context, summary InterestSummary)
	Invalidate(ctx context.Context, wellID domain.WellID)
}

// InterestSummaryOn totals the interests of all orders effective on the given
// date. A zero date means today. A well allocated past 100% is a validation
// error; under-allocation is reported via IsValid instead.
func (s *Service) InterestSummaryOn(ctx context.Context, wellID domain.WellID, date time.Time) (*InterestSummary, error) {
	if date.IsZero() {
		date = s.clock()
	}
	date = models.DateOnly(date)

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, wellID, date); ok {
			return cached, nil
		}
	}

	orders, err := s.store.ListEffectiveOn(ctx, wellID, date)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load effective division orders")
	}

	interests := make([]domain.DecimalInterest, 0, len(orders))
	partners := make([]PartnerInterest, 0, len(orders))
	for _, order := range orders {
		interests = append(interests, order.DecimalInterest())
		partners = append(partners, PartnerInterest{
			DivisionOrderID: order.ID(),
			PartnerID:       order.PartnerID(),
			Interest:        order.DecimalInterest().String(),
			Percentage:      order.DecimalInterest().FormatPercentage(),
		})
	}

	total, err := domain.SumInterests(interests)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSummaryCheck(false)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "well is allocated past 100%")
	}

	summary := InterestSummary{
		WellID:        wellID,
		EffectiveDate: date,
		TotalInterest: total.String(),
		Percentage:    total.FormatPercentage(),
		IsValid:       total.Equals(domain.FullInterest()),
		OrderCount:    len(orders),
		Partners:      partners,
	}
	if s.metrics != nil {
		s.metrics.RecordSummaryCheck(summary.IsValid)
	}
	if s.cache != nil {
		s.cache.Set(ctx, summary)
	}
	return &summary, nil
}
