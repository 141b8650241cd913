package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"wellflow/internal/revenue/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
	"wellflow/pkg/platform/tx"
)

// PostgresStore persists revenue distributions in PostgreSQL. Monetary
// amounts are NUMERIC columns written from exact decimal strings; the
// production month is a first-of-month DATE. Writes honor a transaction
// carried in context so the outbox append can share it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, dist *models.RevenueDistribution) error {
	query := `
		INSERT INTO revenue_distributions (
			id, organization_id, well_id, partner_id, division_order_id,
			production_month, oil_volume, gas_volume,
			oil_revenue, gas_revenue, total_revenue,
			severance_tax, ad_valorem, transportation_costs, processing_costs, other_deductions,
			net_revenue, currency, check_number, payment_date,
			created_at, updated_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23
		)
	`
	row := toRow(dist)
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		row.id, row.organizationID, row.wellID, row.partnerID, row.divisionOrderID,
		row.productionMonth, row.oilVolume, row.gasVolume,
		row.oilRevenue, row.gasRevenue, row.totalRevenue,
		row.severanceTax, row.adValorem, row.transportation, row.processing, row.otherDeductions,
		row.netRevenue, row.currency, row.checkNumber, row.paymentDate,
		row.createdAt, row.updatedAt, row.version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create revenue distribution: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, dist *models.RevenueDistribution) error {
	query := `
		UPDATE revenue_distributions SET
			oil_volume = $1,
			gas_volume = $2,
			oil_revenue = $3,
			gas_revenue = $4,
			total_revenue = $5,
			severance_tax = $6,
			ad_valorem = $7,
			transportation_costs = $8,
			processing_costs = $9,
			other_deductions = $10,
			net_revenue = $11,
			currency = $12,
			check_number = $13,
			payment_date = $14,
			updated_at = $15,
			version = $16
		WHERE id = $17 AND version = $18
	`
	row := toRow(dist)
	result, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		row.oilVolume, row.gasVolume, row.oilRevenue, row.gasRevenue, row.totalRevenue,
		row.severanceTax, row.adValorem, row.transportation, row.processing, row.otherDeductions,
		row.netRevenue, row.currency, row.checkNumber, row.paymentDate,
		row.updatedAt, row.version, row.id, dist.LoadedVersion(),
	)
	if err != nil {
		return fmt.Errorf("save revenue distribution: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save revenue distribution: rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or another writer advanced the version.
		var exists bool
		checkErr := tx.Executor(ctx, s.db).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM revenue_distributions WHERE id = $1)`, row.id,
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("save revenue distribution: existence check: %w", checkErr)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	return nil
}

const selectColumns = `
	id, organization_id, well_id, partner_id, division_order_id,
	production_month, oil_volume, gas_volume,
	oil_revenue, gas_revenue, total_revenue,
	severance_tax, ad_valorem, transportation_costs, processing_costs, other_deductions,
	net_revenue, currency, check_number, payment_date,
	created_at, updated_at, version
`

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DistributionID) (*models.RevenueDistribution, error) {
	query := `SELECT ` + selectColumns + ` FROM revenue_distributions WHERE id = $1`
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, id.String())
	dist, err := scanDistribution(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find revenue distribution by id: %w", err)
	}
	return dist, nil
}

func (s *PostgresStore) ListByOrganization(ctx context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.RevenueDistribution, error) {
	query := `SELECT ` + selectColumns + ` FROM revenue_distributions WHERE organization_id = $1`
	args := []any{organizationID.String()}

	if filter.WellID != nil {
		args = append(args, filter.WellID.String())
		query += fmt.Sprintf(" AND well_id = $%d", len(args))
	}
	if filter.PartnerID != nil {
		args = append(args, filter.PartnerID.String())
		query += fmt.Sprintf(" AND partner_id = $%d", len(args))
	}
	if filter.Month != nil {
		args = append(args, filter.Month.FirstDay())
		query += fmt.Sprintf(" AND production_month = $%d", len(args))
	}
	if filter.UnpaidOnly {
		query += " AND (check_number IS NULL OR payment_date IS NULL)"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY production_month, id LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return s.queryDistributions(ctx, query, args...)
}

func (s *PostgresStore) ListByOrderAndMonth(ctx context.Context, divisionOrderID domain.DivisionOrderID, month domain.ProductionMonth) ([]*models.RevenueDistribution, error) {
	query := `SELECT ` + selectColumns + `
		FROM revenue_distributions
		WHERE division_order_id = $1 AND production_month = $2
		ORDER BY id
	`
	return s.queryDistributions(ctx, query, divisionOrderID.String(), month.FirstDay())
}

func (s *PostgresStore) queryDistributions(ctx context.Context, query string, args ...any) ([]*models.RevenueDistribution, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list revenue distributions: %w", err)
	}
	defer rows.Close()

	distributions := make([]*models.RevenueDistribution, 0)
	for rows.Next() {
		dist, err := scanDistribution(rows)
		if err != nil {
			return nil, fmt.Errorf("scan revenue distribution: %w", err)
		}
		distributions = append(distributions, dist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list revenue distributions: %w", err)
	}
	return distributions, nil
}
