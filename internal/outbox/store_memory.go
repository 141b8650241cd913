package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"wellflow/pkg/domain"
)

// InMemoryStore stages events in a slice. Used by tests and memory-backed
// deployments.
type InMemoryStore struct {
	mu      sync.Mutex
	entries []Entry
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, events []domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, event := range events {
		entry, err := toEntry(event)
		if err != nil {
			return err
		}
		s.entries = append(s.entries, entry)
	}
	return nil
}

func (s *InMemoryStore) ListUnpublished(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, 0, limit)
	for _, entry := range s.entries {
		if entry.PublishedAt != nil {
			continue
		}
		out = append(out, entry)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPublished(_ context.Context, ids []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	marked := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	for i := range s.entries {
		if marked[s.entries[i].ID] {
			at := now
			s.entries[i].PublishedAt = &at
		}
	}
	return nil
}

// All returns a copy of every staged entry, published or not. Test helper.
func (s *InMemoryStore) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
