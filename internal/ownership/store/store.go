// Package store persists DivisionOrder aggregates. Implementations share one
// contract: Create fails with sentinel.ErrConflict on a duplicate id, Save is
// a compare-and-swap on the version the aggregate was loaded at and fails
// with sentinel.ErrConflict when a concurrent writer got there first, and
// lookups return sentinel.ErrNotFound for unknown ids.
package store

import (
	"context"
	"time"

	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
)

// ListFilter narrows ListByOrganization results. Zero values mean "no
// filter"; Limit of zero applies the default page size.
type ListFilter struct {
	WellID     *domain.WellID
	PartnerID  *domain.PartnerID
	ActiveOnly bool
	Limit      int
	Offset     int
}

// DefaultPageSize bounds unfiltered organization listings.
const DefaultPageSize = 100

// Store is the persistence boundary for division orders.
type Store interface {
	Create(ctx context.Context, order *models.DivisionOrder) error
	Save(ctx context.Context, order *models.DivisionOrder) error
	FindByID(ctx context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error)
	ListByOrganization(ctx context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.DivisionOrder, error)
	// ListEffectiveOn returns the active orders whose window contains date
	// for the given well, the input to the interest summary.
	ListEffectiveOn(ctx context.Context, wellID domain.WellID, date time.Time) ([]*models.DivisionOrder, error)
	// ListByWellAndPartner returns every order, active or not, for one
	// partner's stake in one well. The service overlap guard reads these.
	ListByWellAndPartner(ctx context.Context, wellID domain.WellID, partnerID domain.PartnerID) ([]*models.DivisionOrder, error)
}
