package memory

import (
	"context"
	"sync"

	"github.com/campusmeet/campusmeet-api/internal/domain/repository"
)

// EventStore is an in-memory event-ownership lookup for tests and demo
// mode. Unknown events resolve to the empty owner.
type EventStore struct {
	mu     sync.RWMutex
	owners map[string]string
}

func NewEventStore() *EventStore {
	return &EventStore{owners: make(map[string]string)}
}

func (s *EventStore) SetOwner(eventID, ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[eventID] = ownerID
}

func (s *EventStore) GetEventOwner(ctx context.Context, eventID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.owners[eventID], nil
}

var _ repository.EventStore = (*EventStore)(nil)
