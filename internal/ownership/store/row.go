package store

import (
	"database/sql"
	"time"

	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
)

// orderRow is the storage shape: string ids, the fixed-8 interest string,
// nullable end date. All "is this field present" handling lives here so the
// aggregate keeps its strict value objects.
type orderRow struct {
	id              string
	organizationID  string
	wellID          string
	partnerID       string
	decimalInterest string
	effectiveDate   time.Time
	endDate         sql.NullTime
	isActive        bool
	createdAt       time.Time
	updatedAt       time.Time
	version         int
}

func toRow(order *models.DivisionOrder) orderRow {
	row := orderRow{
		id:              order.ID().String(),
		organizationID:  order.OrganizationID().String(),
		wellID:          order.WellID().String(),
		partnerID:       order.PartnerID().String(),
		decimalInterest: order.DecimalInterest().String(),
		effectiveDate:   order.EffectiveDate(),
		isActive:        order.IsActive(),
		createdAt:       order.CreatedAt(),
		updatedAt:       order.UpdatedAt(),
		version:         order.Version(),
	}
	if end := order.EndDate(); end != nil {
		row.endDate = sql.NullTime{Time: *end, Valid: true}
	}
	return row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(sc scanner) (*models.DivisionOrder, error) {
	var row orderRow
	if err := sc.Scan(
		&row.id, &row.organizationID, &row.wellID, &row.partnerID, &row.decimalInterest,
		&row.effectiveDate, &row.endDate, &row.isActive, &row.createdAt, &row.updatedAt, &row.version,
	); err != nil {
		return nil, err
	}
	return fromRow(row)
}

func fromRow(row orderRow) (*models.DivisionOrder, error) {
	id, err := domain.ParseDivisionOrderID(row.id)
	if err != nil {
		return nil, err
	}
	organizationID, err := domain.ParseOrganizationID(row.organizationID)
	if err != nil {
		return nil, err
	}
	wellID, err := domain.ParseWellID(row.wellID)
	if err != nil {
		return nil, err
	}
	partnerID, err := domain.ParsePartnerID(row.partnerID)
	if err != nil {
		return nil, err
	}
	interest, err := domain.ParseDecimalInterest(row.decimalInterest)
	if err != nil {
		return nil, err
	}
	var endDate *time.Time
	if row.endDate.Valid {
		end := row.endDate.Time
		endDate = &end
	}
	return models.RestoreDivisionOrder(
		id, organizationID, wellID, partnerID, interest,
		row.effectiveDate, endDate, row.isActive,
		row.createdAt, row.updatedAt, row.version,
	), nil
}
