package domain

import "time"

// Event is a domain event raised by an aggregate. Events are plain records;
// the aggregate buffers them until the caller drains the buffer after a
// successful save and hands them to the outbox.
type Event interface {
	// EventName is the stable wire name, e.g. "division_order.created".
	EventName() string
	// AggregateID identifies the aggregate that raised the event.
	AggregateID() string
	// OccurredAt is when the state change happened.
	OccurredAt() time.Time
}
