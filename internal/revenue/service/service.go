// Package service implements the revenue distribution commands. A
// distribution is only created against a division order that exists, matches
// the requested organization, well and partner, and was effective during the
// production month; the aggregate itself cannot see the order, so those
// checks live here.
package service

import (
	"context"
	"errors"
	"time"

	"wellflow/internal/outbox"
	ownershipModels "wellflow/internal/ownership/models"
	"wellflow/internal/platform/metrics"
	"wellflow/internal/revenue/models"
	"wellflow/internal/revenue/store"
	"wellflow/pkg/domain"
	dErrors "wellflow/pkg/domain-errors"
	"wellflow/pkg/platform/sentinel"
	"wellflow/pkg/platform/tx"
)

// DivisionOrderReader is the slice of the ownership store this service needs.
type DivisionOrderReader interface {
	FindByID(ctx context.Context, id domain.DivisionOrderID) (*ownershipModels.DivisionOrder, error)
}

type Service struct {
	store   store.Store
	orders  DivisionOrderReader
	outbox  outbox.Store
	runner  tx.Runner
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

// WithMetrics records command counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(distStore store.Store, orders DivisionOrderReader, outboxStore outbox.Store, runner tx.Runner, opts ...Option) *Service {
	s := &Service{
		store:  distStore,
		orders: orders,
		outbox: outboxStore,
		runner: runner,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateDistributionInput carries a validated create command.
type CreateDistributionInput struct {
	OrganizationID  domain.OrganizationID
	WellID          domain.WellID
	PartnerID       domain.PartnerID
	DivisionOrderID domain.DivisionOrderID
	ProductionMonth domain.ProductionMonth
	Volumes         models.ProductionVolumes
	Breakdown       models.RevenueBreakdown
	Actor           string
}

// Create computes and persists a distribution for one order and month. The
// referenced division order must match the identifying fields and have been
// effective during the month; one distribution per order and month.
func (s *Service) Create(ctx context.Context, input CreateDistributionInput) (*models.RevenueDistribution, error) {
	order, err := s.orders.FindByID(ctx, input.DivisionOrderID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "division order not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load division order")
	}
	if order.OrganizationID() != input.OrganizationID ||
		order.WellID() != input.WellID ||
		order.PartnerID() != input.PartnerID {
		return nil, dErrors.New(dErrors.CodeValidation,
			"division order does not match the requested organization, well and partner")
	}
	if !order.IsEffectiveOn(input.ProductionMonth.FirstDay()) {
		return nil, dErrors.New(dErrors.CodeValidation,
			"division order was not effective for the production month")
	}

	existing, err := s.store.ListByOrderAndMonth(ctx, input.DivisionOrderID, input.ProductionMonth)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing distributions")
	}
	if len(existing) > 0 {
		return nil, dErrors.Newf(dErrors.CodeConflict,
			"distribution for month %s already exists", input.ProductionMonth)
	}

	dist, err := models.NewRevenueDistribution(
		domain.NewDistributionID(),
		input.OrganizationID,
		input.WellID,
		input.PartnerID,
		input.DivisionOrderID,
		input.ProductionMonth,
		input.Volumes,
		input.Breakdown,
		s.clock(),
	)
	if err != nil {
		return nil, err
	}

	err = s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Create(ctx, dist); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "revenue distribution already exists")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create revenue distribution")
		}
		return s.stageEvents(ctx, dist)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.DistributionsCreated.Inc()
	}
	return dist, nil
}

// Recalculate replaces an unpaid distribution's volumes and breakdown.
func (s *Service) Recalculate(ctx context.Context, id domain.DistributionID, volumes models.ProductionVolumes, breakdown models.RevenueBreakdown, actor string) (*models.RevenueDistribution, error) {
	dist, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := dist.RecalculateRevenue(volumes, breakdown, actor, s.clock()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, dist); err != nil {
		return nil, err
	}
	return dist, nil
}

// ProcessPayment records the check settling a distribution.
func (s *Service) ProcessPayment(ctx context.Context, id domain.DistributionID, checkNumber string, paymentDate time.Time, actor string) (*models.RevenueDistribution, error) {
	dist, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := dist.ProcessPayment(checkNumber, paymentDate, actor, s.clock()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, dist); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PaymentsProcessed.Inc()
	}
	return dist, nil
}

// Get returns one distribution by id.
func (s *Service) Get(ctx context.Context, id domain.DistributionID) (*models.RevenueDistribution, error) {
	return s.load(ctx, id)
}

// List returns an organization's distributions, filtered and paginated.
func (s *Service) List(ctx context.Context, organizationID domain.OrganizationID, filter store.ListFilter) ([]*models.RevenueDistribution, error) {
	distributions, err := s.store.ListByOrganization(ctx, organizationID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list revenue distributions")
	}
	return distributions, nil
}

func (s *Service) load(ctx context.Context, id domain.DistributionID) (*models.RevenueDistribution, error) {
	dist, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "revenue distribution not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load revenue distribution")
	}
	return dist, nil
}

func (s *Service) save(ctx context.Context, dist *models.RevenueDistribution) error {
	return s.runner.InTx(ctx, func(ctx context.Context) error {
		if err := s.store.Save(ctx, dist); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "revenue distribution was modified concurrently")
			}
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "revenue distribution not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save revenue distribution")
		}
		return s.stageEvents(ctx, dist)
	})
}

func (s *Service) stageEvents(ctx context.Context, dist *models.RevenueDistribution) error {
	if err := s.outbox.Append(ctx, dist.DrainEvents()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to stage domain events")
	}
	return nil
}
