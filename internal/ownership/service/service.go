// Package service implements the division order commands and the
// decimal-interest summary query. Commands load an aggregate, apply one
// mutation, then save and stage the drained events in a single unit of work;
// no-ops return without touching the store.
package service

import (
	"context"
	"errors"
	"time"

	"wellflow/internal/outbox"
	"wellflow/internal/ownership/models"
	"wellflow/internal/ownership/store"
	"wellflow/internal/platform/metrics"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
	"wellflow/pkg/platform/sentinel"
	"wellflow/pkg/platform/tx"
)

type Service struct {
	store   store.Store
	outbox  outbox.Store
	runner  tx.Runner
	cache   SummaryCache
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSummaryCache caches interest summaries between ownership changes.
func WithSummaryCache(cache SummaryCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics records command and summary counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(orderStore store.Store, outboxStore outbox.Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:  orderStore,
		outbox: outboxStore,
		runner: runner,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDivisionOrderInput carries a validated create command. The handler
// parses raw request fields into these types before the service runs.
type CreateDivisionOrderInput struct {
	OrganizationID domain.OrganizationID
	WellID         domain.WellID
	PartnerID      domain.PartnerID
	Interest       domain.DecimalInterest
	EffectiveDate  time.Time
	EndDate        *time.Time
	Actor          string
}

// Create constructs and persists a new division order. The service rejects a
// window that overlaps an existing active order for the same well and
// partner; the aggregate cannot see its siblings, so that check lives here.
func (s *Service) Create(ctx context.Context, input CreateDivisionOrderInput) (*models.DivisionOrder, error) {
	order, err := models.NewDivisionOrder(
		domain.NewDivisionOrderID(),
		input.OrganizationID,
		input.WellID,
		input.PartnerID,
		input.Interest,
		input.EffectiveDate,
		input.EndDate,
		s.clock(),
	)
	if err != nil {
		return nil, err
	}

	if err := s.guardOverlap(ctx, order); err != nil {
		return nil, err
	}

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, order); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "division order already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create division order")
		}
		return s.stageEvents(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DivisionOrdersCreated.Inc()
	}
	s.invalidateSummary(ctx, order.WellID())
	return order, nil
}

// UpdateInterest replaces the recorded decimal interest. An unchanged value
// is a no-op and returns the aggregate as loaded.
func (s *Service) UpdateInterest(ctx context.Context, id domain.DivisionOrderID, newInterest domain.DecimalInterest, actor string) (*models.DivisionOrder, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	order.UpdateDecimalInterest(newInterest, actor, s.clock())
	if len(order.Events()) == 0 {
		return order, nil
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.InterestUpdates.Inc()
	}
	s.invalidateSummary(ctx, order.WellID())
	return order, nil
}

// Activate reopens an order. Reactivation makes the window open-ended again,
// so the sibling overlap guard reruns before the save.
func (s *Service) Activate(ctx context.Context, id domain.DivisionOrderID, actor string) (*models.DivisionOrder, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	order.Activate(actor, s.clock())
	if len(order.Events()) == 0 {
		return order, nil
	}

	if err := s.guardOverlap(ctx, order); err != nil {
		return nil, err
	}
	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, order.WellID())
	return order, nil
}

// Deactivate closes an order as of endDate.
func (s *Service) Deactivate(ctx context.Context, id domain.DivisionOrderID, endDate time.Time, actor string) (*models.DivisionOrder, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := order.Deactivate(endDate, actor, s.clock()); err != nil {
		return nil, err
	}
	if len(order.Events()) == 0 {
		return order, nil
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}
	s.invalidateSummary(ctx, order.WellID())
	return order, nil
}

// Get returns one division order by id.
func (s *Service) Get(ctx context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error) {
	return s.load(ctx, id)
}

// List returns an organization's division orders, filtered and paginated.
func (s *Service) List(ctx context.Context, organizationID domain.OrganizationID, filter store.ListFilter) ([]*models.DivisionOrder, error) {
	orders, err := s.store.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list division orders")
	}
	return orders, nil
}

func (s *Service) load(ctx context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error) {
	order, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "division order not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load division order")
	}
	return order, nil
}

func (s *Service) save(ctx context.Context, order *models.DivisionOrder) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, order); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "division order was modified concurrently")
			}
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "division order not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save division order")
		}
		return s.stageEvents(ctx, order)
	})
}

func (s *Service) stageEvents(ctx context.Context, order *models.DivisionOrder) error {
	if err := s.outbox.Append(ctx, order.DrainEvents()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to stage domain events")
	}
	return nil
}

// guardOverlap rejects a window that intersects any other active order for
// the same well and partner.
func (s *Service) guardOverlap(ctx context.Context, candidate *models.DivisionOrder) error {
	siblings, err := s.store.ListByWellAndPartner(ctx, candidate.WellID(), candidate.PartnerID())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check sibling division orders")
	}
	for _, sibling := range siblings {
		if sibling.ID() == candidate.ID() || !sibling.IsActive() {
			continue
		}
		if candidate.OverlapsWith(sibling) {
			return dErrors.Newf(dErrors.CodeConflict,
				"date window overlaps active division order %s", sibling.ID())
		}
	}
	return nil
}

func (s *Service) invalidateSummary(ctx context.Context, wellID domain.WellID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, wellID)
	}
}
