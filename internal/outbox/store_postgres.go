package outbox

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"wellflow/pkg/domain"
	"wellflow/pkg/platform/tx"
)

// PostgresStore stages events in the outbox_events table. Append reads a
// transaction from context so staging commits atomically with the aggregate
// write that raised the events.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, events []domain.Event) error {
	if len(events) == 0 {
		return nil
	}
	query := `
		INSERT INTO outbox_events (id, event_name, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	execer := tx.Executor(ctx, s.db)
	for _, event := range events {
		entry, err := toEntry(event)
		if err != nil {
			return err
		}
		if _, err := execer.ExecContext(ctx, query,
			entry.ID, entry.EventName, entry.AggregateID, entry.Payload, entry.OccurredAt,
		); err != nil {
			return fmt.Errorf("append outbox event %s: %w", entry.EventName, err)
		}
	}
	return nil
}

func (s *PostgresStore) ListUnpublished(ctx context.Context, limit int) ([]Entry, error) {
	query := `
		SELECT id, event_name, aggregate_id, payload, occurred_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY occurred_at, id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list unpublished outbox events: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.EventName, &entry.AggregateID, &entry.Payload, &entry.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list unpublished outbox events: %w", err)
	}
	return entries, nil
}

func (s *PostgresStore) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, id := range ids {
		raw[i] = id.String()
	}
	query := `UPDATE outbox_events SET published_at = now() WHERE id = ANY($1::uuid[])`
	if _, err := s.db.ExecContext(ctx, query, pq.Array(raw)); err != nil {
		return fmt.Errorf("mark outbox events published: %w", err)
	}
	return nil
}
