package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events in memory, keyed by recipient.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.Recipient] = append(s.events[event.Recipient], event)
	return nil
}

func (s *InMemoryStore) ListByRecipient(_ context.Context, recipient string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[recipient]...), nil
}
