// Package outbox stages drained domain events for delivery. Events are
// appended in the same transaction as the aggregate write, then a relay
// worker publishes them to Kafka and marks them published. Delivery is
// at-least-once; consumers deduplicate on event id.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"wellflow/pkg/domain"
)

// Entry is one staged domain event.
type Entry struct {
	ID          uuid.UUID
	EventName   string
	AggregateID string
	Payload     []byte
	OccurredAt  time.Time
	PublishedAt *time.Time
}

// Store persists staged events.
type Store interface {
	// Append stages events; it participates in a transaction carried in ctx.
	Append(ctx context.Context, events []domain.Event) error
	// ListUnpublished returns up to limit staged events in append order.
	ListUnpublished(ctx context.Context, limit int) ([]Entry, error)
	// MarkPublished stamps the given entries as delivered.
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// envelope is the wire form: stable name and identity around the event's own
// fields.
type envelope struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	AggregateID string          `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Data        json.RawMessage `json:"data"`
}

func toEntry(event domain.Event) (Entry, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal event %s: %w", event.EventName(), err)
	}
	return Entry{
		ID:          uuid.New(),
		EventName:   event.EventName(),
		AggregateID: event.AggregateID(),
		Payload:     data,
		OccurredAt:  event.OccurredAt(),
	}, nil
}

// WireFormat renders the entry's published form.
func (e Entry) WireFormat() ([]byte, error) {
	return json.Marshal(envelope{
		ID:          e.ID,
		Name:        e.EventName,
		AggregateID: e.AggregateID,
		OccurredAt:  e.OccurredAt,
		Data:        e.Payload,
	})
}
