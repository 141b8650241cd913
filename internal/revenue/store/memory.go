package store

import (
	"context"
	"sort"
	"sync"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
)

// InMemory keeps distributions in a map with the same conflict semantics as
// the postgres store so services and tests can swap it in.
type InMemory struct {
	mu            sync.RWMutex
	distributions map[domain.DistributionID]*models.RevenueDistribution
}

func NewInMemory() *InMemory {
	return &InMemory{distributions: make(map[domain.DistributionID]*models.RevenueDistribution)}
}

func (s *InMemory) Create(_ context.Context, dist *models.RevenueDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.distributions[dist.ID()]; exists {
		return sentinel.ErrConflict
	}
	s.distributions[dist.ID()] = snapshot(dist)
	return nil
}

func (s *InMemory) Save(_ context.Context, dist *models.RevenueDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.distributions[dist.ID()]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version() != dist.LoadedVersion() {
		return sentinel.ErrConflict
	}
	s.distributions[dist.ID()] = snapshot(dist)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.DistributionID) (*models.RevenueDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dist, exists := s.distributions[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return snapshot(dist), nil
}

func (s *InMemory) ListByOrganization(_ context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.RevenueDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.RevenueDistribution, 0)
	for _, dist := range s.distributions {
		if dist.OrganizationID() != organizationID {
			continue
		}
		if filter.WellID != nil && dist.WellID() != *filter.WellID {
			continue
		}
		if filter.PartnerID != nil && dist.PartnerID() != *filter.PartnerID {
			continue
		}
		if filter.Month != nil && !dist.ProductionMonth().Equals(*filter.Month) {
			continue
		}
		if filter.UnpaidOnly && dist.IsPaid() {
			continue
		}
		matched = append(matched, snapshot(dist))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].ProductionMonth().Equals(matched[j].ProductionMonth()) {
			return matched[i].ProductionMonth().Before(matched[j].ProductionMonth())
		}
		return matched[i].ID().String() < matched[j].ID().String()
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := filter.Offset
	if offset >= len(matched) {
		return []*models.RevenueDistribution{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *InMemory) ListByOrderAndMonth(_ context.Context, divisionOrderID domain.DivisionOrderID, month domain.ProductionMonth) ([]*models.RevenueDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.RevenueDistribution, 0)
	for _, dist := range s.distributions {
		if dist.DivisionOrderID() == divisionOrderID && dist.ProductionMonth().Equals(month) {
			matched = append(matched, snapshot(dist))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID().String() < matched[j].ID().String()
	})
	return matched, nil
}

// snapshot restores a detached copy so callers cannot mutate stored state
// through the returned aggregate.
func snapshot(dist *models.RevenueDistribution) *models.RevenueDistribution {
	return models.RestoreRevenueDistribution(
		dist.ID(),
		dist.OrganizationID(),
		dist.WellID(),
		dist.PartnerID(),
		dist.DivisionOrderID(),
		dist.ProductionMonth(),
		dist.Volumes(),
		dist.Breakdown(),
		dist.Payment(),
		dist.CreatedAt(),
		dist.UpdatedAt(),
		dist.Version(),
	)
}
