// Package store persists RevenueDistribution aggregates. It follows the same
// contract as the ownership store: Create fails with sentinel.ErrConflict on
// a duplicate id, Save is a compare-and-swap on the loaded version, lookups
// return sentinel.ErrNotFound for unknown ids.
package store

import (
	"context"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
)

// ListFilter narrows ListByOrganization results. Zero values mean "no
// filter"; Limit of zero applies the default page size.
type ListFilter struct {
	WellID     *domain.WellID
	PartnerID  *domain.PartnerID
	Month      *domain.ProductionMonth
	UnpaidOnly bool
	Limit      int
	Offset     int
}

// DefaultPageSize bounds unfiltered organization listings.
const DefaultPageSize = 100

// Store is the persistence boundary for revenue distributions.
type Store interface {
	Create(ctx context.Context, dist *models.RevenueDistribution) error
	Save(ctx context.Context, dist *models.RevenueDistribution) error
	FindByID(ctx context.Context, id domain.DistributionID) (*models.RevenueDistribution, error)
	ListByOrganization(ctx context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.RevenueDistribution, error)
	// ListByOrderAndMonth returns the distributions already computed for a
	// division order in a month. The service uses it to reject duplicates.
	ListByOrderAndMonth(ctx context.Context, divisionOrderID domain.DivisionOrderID, month domain.ProductionMonth) ([]*models.RevenueDistribution, error)
}
