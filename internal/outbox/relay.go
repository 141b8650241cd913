package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"wellflow/internal/platform/metrics"
)

const defaultBatchSize = 100

// Relay drains the outbox on an interval and hands entries to the publisher.
// A publish failure stops the batch; unmarked entries are retried on the
// next tick, so downstream consumers must tolerate duplicates.
type Relay struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

func NewRelay(store Store, publisher Publisher, logger *slog.Logger, m *metrics.Metrics, interval time.Duration) *Relay {
	return &Relay{
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		interval:  interval,
		batchSize: defaultBatchSize,
	}
}

// Run polls until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := r.Drain(ctx); err != nil {
				r.logger.ErrorContext(ctx, "outbox drain failed", "error", err)
			}
		}
	}
}

// Drain publishes one batch of unpublished entries. Exported so tests and
// shutdown paths can flush without waiting for a tick.
func (r *Relay) Drain(ctx context.Context) error {
	entries, err := r.store.ListUnpublished(ctx, r.batchSize)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	published := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if err := r.publisher.Publish(ctx, entry); err != nil {
			if r.metrics != nil {
				r.metrics.OutboxFailures.Inc()
			}
			r.logger.WarnContext(ctx, "outbox publish failed",
				"event", entry.EventName,
				"aggregate_id", entry.AggregateID,
				"error", err,
			)
			break // keep order: do not publish past a failure
		}
		published = append(published, entry.ID)
	}
	if len(published) == 0 {
		return nil
	}
	if err := r.store.MarkPublished(ctx, published); err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.OutboxPublished.Add(float64(len(published)))
	}
	return nil
}
