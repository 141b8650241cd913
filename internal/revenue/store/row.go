package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
)

// distributionRow is the storage shape: string ids, the production month as a
// first-of-month date, money amounts as exact decimal strings sharing one
// currency column, nullable optional fields. Presence handling lives here so
// the aggregate keeps its strict value objects.
type distributionRow struct {
	id              string
	organizationID  string
	wellID          string
	partnerID       string
	divisionOrderID string
	productionMonth time.Time
	oilVolume       sql.NullString
	gasVolume       sql.NullString
	oilRevenue      sql.NullString
	gasRevenue      sql.NullString
	totalRevenue    string
	severanceTax    sql.NullString
	adValorem       sql.NullString
	transportation  sql.NullString
	processing      sql.NullString
	otherDeductions sql.NullString
	netRevenue      string
	currency        string
	checkNumber     sql.NullString
	paymentDate     sql.NullTime
	createdAt       time.Time
	updatedAt       time.Time
	version         int
}

func toRow(dist *models.RevenueDistribution) distributionRow {
	b := dist.Breakdown()
	row := distributionRow{
		id:              dist.ID().String(),
		organizationID:  dist.OrganizationID().String(),
		wellID:          dist.WellID().String(),
		partnerID:       dist.PartnerID().String(),
		divisionOrderID: dist.DivisionOrderID().String(),
		productionMonth: dist.ProductionMonth().FirstDay(),
		oilVolume:       nullDecimal(dist.Volumes().OilVolume),
		gasVolume:       nullDecimal(dist.Volumes().GasVolume),
		oilRevenue:      nullMoney(b.OilRevenue),
		gasRevenue:      nullMoney(b.GasRevenue),
		totalRevenue:    b.TotalRevenue.Amount().String(),
		severanceTax:    nullMoney(b.SeveranceTax),
		adValorem:       nullMoney(b.AdValorem),
		transportation:  nullMoney(b.TransportationCosts),
		processing:      nullMoney(b.ProcessingCosts),
		otherDeductions: nullMoney(b.OtherDeductions),
		netRevenue:      b.NetRevenue.Amount().String(),
		currency:        b.TotalRevenue.Currency(),
		createdAt:       dist.CreatedAt(),
		updatedAt:       dist.UpdatedAt(),
		version:         dist.Version(),
	}
	payment := dist.Payment()
	if payment.CheckNumber != "" {
		row.checkNumber = sql.NullString{String: payment.CheckNumber, Valid: true}
	}
	if payment.PaymentDate != nil {
		row.paymentDate = sql.NullTime{Time: *payment.PaymentDate, Valid: true}
	}
	return row
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDistribution(sc scanner) (*models.RevenueDistribution, error) {
	var row distributionRow
	if err := sc.Scan(
		&row.id, &row.organizationID, &row.wellID, &row.partnerID, &row.divisionOrderID,
		&row.productionMonth, &row.oilVolume, &row.gasVolume,
		&row.oilRevenue, &row.gasRevenue, &row.totalRevenue,
		&row.severanceTax, &row.adValorem, &row.transportation, &row.processing, &row.otherDeductions,
		&row.netRevenue, &row.currency, &row.checkNumber, &row.paymentDate,
		&row.createdAt, &row.updatedAt, &row.version,
	); err != nil {
		return nil, err
	}
	return fromRow(row)
}

func fromRow(row distributionRow) (*models.RevenueDistribution, error) {
	id, err := domain.ParseDistributionID(row.id)
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
	divisionOrderID, err := domain.ParseDivisionOrderID(row.divisionOrderID)
	if err != nil {
		return nil, err
	}
	month := domain.ProductionMonthOf(row.productionMonth)

	volumes := models.ProductionVolumes{}
	if volumes.OilVolume, err = parseNullDecimal(row.oilVolume); err != nil {
		return nil, fmt.Errorf("oil volume: %w", err)
	}
	if volumes.GasVolume, err = parseNullDecimal(row.gasVolume); err != nil {
		return nil, fmt.Errorf("gas volume: %w", err)
	}

	breakdown := models.RevenueBreakdown{}
	if breakdown.TotalRevenue, err = domain.ParseMoney(row.totalRevenue, row.currency); err != nil {
		return nil, fmt.Errorf("total revenue: %w", err)
	}
	if breakdown.NetRevenue, err = domain.ParseMoney(row.netRevenue, row.currency); err != nil {
		return nil, fmt.Errorf("net revenue: %w", err)
	}
	optional := []struct {
		name string
		src  sql.NullString
		dst  **domain.Money
	}{
		{"oil revenue", row.oilRevenue, &breakdown.OilRevenue},
		{"gas revenue", row.gasRevenue, &breakdown.GasRevenue},
		{"severance tax", row.severanceTax, &breakdown.SeveranceTax},
		{"ad valorem", row.adValorem, &breakdown.AdValorem},
		{"transportation costs", row.transportation, &breakdown.TransportationCosts},
		{"processing costs", row.processing, &breakdown.ProcessingCosts},
		{"other deductions", row.otherDeductions, &breakdown.OtherDeductions},
	}
	for _, field := range optional {
		if !field.src.Valid {
			continue
		}
		m, err := domain.ParseMoney(field.src.String, row.currency)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field.name, err)
		}
		*field.dst = &m
	}

	payment := models.PaymentInfo{}
	if row.checkNumber.Valid {
		payment.CheckNumber = row.checkNumber.String
	}
	if row.paymentDate.Valid {
		date := row.paymentDate.Time
		payment.PaymentDate = &date
	}
	if payment.CheckNumber != "" && payment.PaymentDate != nil {
		payment.PaymentMethod = "check"
	}

	return models.RestoreRevenueDistribution(
		id, organizationID, wellID, partnerID, divisionOrderID,
		month, volumes, breakdown, payment,
		row.createdAt, row.updatedAt, row.version,
	), nil
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDecimal(s sql.NullString) (*decimal.Decimal, error) {
	if !s.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func nullMoney(m *domain.Money) sql.NullString {
	if m == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: m.Amount().String(), Valid: true}
}
