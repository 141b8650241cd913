package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
)

// InMemory keeps division orders in a map. It honors the same conflict
// semantics as the postgres store so services and tests can swap it in.
type InMemory struct {
	mu     sync.RWMutex
	orders map[domain.DivisionOrderID]*models.DivisionOrder
}

func NewInMemory() *InMemory {
	return &InMemory{orders: make(map[domain.DivisionOrderID]*models.DivisionOrder)}
}

func (s *InMemory) Create(_ context.Context, order *models.DivisionOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID()]; exists {
		return sentinel.ErrConflict
	}
	s.orders[order.ID()] = snapshot(order)
	return nil
}

func (s *InMemory) Save(_ context.Context, order *models.DivisionOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, exists := s.orders[order.ID()]
	if !exists {
		return sentinel.ErrNotFound
	}
	if stored.Version() != order.LoadedVersion() {
		return sentinel.ErrConflict
	}
	s.orders[order.ID()] = snapshot(order)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, exists := s.orders[id]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return snapshot(order), nil
}

func (s *InMemory) ListByOrganization(_ context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.DivisionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.DivisionOrder, 0)
	for _, order := range s.orders {
		if order.OrganizationID() != organizationID {
			continue
		}
		if filter.WellID != nil && order.WellID() != *filter.WellID {
			continue
		}
		if filter.PartnerID != nil && order.PartnerID() != *filter.PartnerID {
			continue
		}
		if filter.ActiveOnly && !order.IsActive() {
			continue
		}
		matched = append(matched, snapshot(order))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].EffectiveDate().Equal(matched[j].EffectiveDate()) {
			return matched[i].EffectiveDate().Before(matched[j].EffectiveDate())
		}
		return matched[i].ID().String() < matched[j].ID().String()
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	offset := filter.Offset
	if offset >= len(matched) {
		return []*models.DivisionOrder{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *InMemory) ListEffectiveOn(_ context.Context, wellID domain.WellID, date time.Time) ([]*models.DivisionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.DivisionOrder, 0)
	for _, order := range s.orders {
		if order.WellID() == wellID && order.IsEffectiveOn(date) {
			matched = append(matched, snapshot(order))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].PartnerID().String() < matched[j].PartnerID().String()
	})
	return matched, nil
}

func (s *InMemory) ListByWellAndPartner(_ context.Context, wellID domain.WellID, partnerID domain.PartnerID) ([]*models.DivisionOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]*models.DivisionOrder, 0)
	for _, order := range s.orders {
		if order.WellID() == wellID && order.PartnerID() == partnerID {
			matched = append(matched, snapshot(order))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].EffectiveDate().Before(matched[j].EffectiveDate())
	})
	return matched, nil
}

// snapshot restores a detached copy so callers cannot mutate stored state
// through the returned aggregate.
func snapshot(order *models.DivisionOrder) *models.DivisionOrder {
	return models.RestoreDivisionOrder(
		order.ID(),
		order.OrganizationID(),
		order.WellID(),
		order.PartnerID(),
		order.DecimalInterest(),
		order.EffectiveDate(),
		order.EndDate(),
		order.IsActive(),
		order.CreatedAt(),
		order.UpdatedAt(),
		order.Version(),
	)
}
