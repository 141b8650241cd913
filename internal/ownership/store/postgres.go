package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"wellflow/internal/ownership/models"
	"wellflow/pkg/domain"
	"wellflow/pkg/platform/sentinel"
	"wellflow/pkg/platform/tx"
)

// PostgresStore persists division orders in PostgreSQL. decimal_interest is
// stored as its canonical fixed-8 string so values round-trip exactly; dates
// are DATE columns. Writes honor a transaction carried in context so the
// outbox append can share it.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const uniqueViolation = "23505"

func (s *PostgresStore) Create(ctx context.Context, order *models.DivisionOrder) error {
	query := `
		INSERT INTO division_orders (
			id, organization_id, well_id, partner_id, decimal_interest,
			effective_date, end_date, is_active, created_at, updated_at, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	row := toRow(order)
	_, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		row.id, row.organizationID, row.wellID, row.partnerID, row.decimalInterest,
		row.effectiveDate, row.endDate, row.isActive, row.createdAt, row.updatedAt, row.version,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create division order: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, order *models.DivisionOrder) error {
	query := `
		UPDATE division_orders SET
			decimal_interest = $1,
			effective_date = $2,
			end_date = $3,
			is_active = $4,
			updated_at = $5,
			version = $6
		WHERE id = $7 AND version = $8
	`
	row := toRow(order)
	result, err := tx.Executor(ctx, s.db).ExecContext(ctx, query,
		row.decimalInterest, row.effectiveDate, row.endDate, row.isActive,
		row.updatedAt, row.version, row.id, order.LoadedVersion(),
	)
	if err != nil {
		return fmt.Errorf("save division order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save division order: rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or another writer advanced the version.
		var exists bool
		checkErr := tx.Executor(ctx, s.db).QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM division_orders WHERE id = $1)`, row.id,
		).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("save division order: existence check: %w", checkErr)
		}
		if !exists {
			return sentinel.ErrNotFound
		}
		return sentinel.ErrConflict
	}
	return nil
}

const selectColumns = `
	id, organization_id, well_id, partner_id, decimal_interest,
	effective_date, end_date, is_active, created_at, updated_at, version
`

func (s *PostgresStore) FindByID(ctx context.Context, id domain.DivisionOrderID) (*models.DivisionOrder, error) {
	query := `SELECT ` + selectColumns + ` FROM division_orders WHERE id = $1`
	row := tx.Executor(ctx, s.db).QueryRowContext(ctx, query, id.String())
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find division order by id: %w", err)
	}
	return order, nil
}

func (s *PostgresStore) ListByOrganization(ctx context.Context, organizationID domain.OrganizationID, filter ListFilter) ([]*models.DivisionOrder, error) {
	query := `SELECT ` + selectColumns + ` FROM division_orders WHERE organization_id = $1`
	args := []any{organizationID.String()}

	if filter.WellID != nil {
		args = append(args, filter.WellID.String())
		query += fmt.Sprintf(" AND well_id = $%d", len(args))
	}
	if filter.PartnerID != nil {
		args = append(args, filter.PartnerID.String())
		query += fmt.Sprintf(" AND partner_id = $%d", len(args))
	}
	if filter.ActiveOnly {
		query += " AND is_active"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY effective_date, id LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return s.queryOrders(ctx, query, args...)
}

func (s *PostgresStore) ListEffectiveOn(ctx context.Context, wellID domain.WellID, date time.Time) ([]*models.DivisionOrder, error) {
	query := `SELECT ` + selectColumns + `
		FROM division_orders
		WHERE well_id = $1
		  AND is_active
		  AND effective_date <= $2
		  AND (end_date IS NULL OR end_date >= $2)
		ORDER BY partner_id
	`
	return s.queryOrders(ctx, query, wellID.String(), models.DateOnly(date))
}

func (s *PostgresStore) ListByWellAndPartner(ctx context.Context, wellID domain.WellID, partnerID domain.PartnerID) ([]*models.DivisionOrder, error) {
	query := `SELECT ` + selectColumns + `
		FROM division_orders
		WHERE well_id = $1 AND partner_id = $2
		ORDER BY effective_date
	`
	return s.queryOrders(ctx, query, wellID.String(), partnerID.String())
}

func (s *PostgresStore) queryOrders(ctx context.Context, query string, args ...any) ([]*models.DivisionOrder, error) {
	rows, err := tx.Executor(ctx, s.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list division orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*models.DivisionOrder, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan division order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list division orders: %w", err)
	}
	return orders, nil
}
