package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"noteboard/internal/notes/models"
)

// InMemory keeps notes in memory. It favors clarity over performance and
// backs unit tests and zero-dependency development runs.
type InMemory struct {
	mu    sync.RWMutex
	notes map[uuid.UUID]*models.Note
	order []uuid.UUID // insertion order for stable listings
}

func NewInMemory() *InMemory {
	return &InMemory{notes: make(map[uuid.UUID]*models.Note)}
}

func (s *InMemory) Create(_ context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *note
	s.notes[note.ID] = &copied
	s.order = append(s.order, note.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *note
	return &copied, nil
}

// ListByRecipient returns the recipient's notes matching the approval flag in
// insertion order.
func (s *InMemory) ListByRecipient(_ context.Context, recipientHandle string, approved bool) ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*models.Note, 0)
	for _, id := range s.order {
		note, ok := s.notes[id]
		if !ok {
			continue // deleted
		}
		if note.RecipientHandle == recipientHandle && note.Approved == approved {
			copied := *note
			result = append(result, &copied)
		}
	}
	return result, nil
}

// SetApproved flips the approval flag and returns the updated note. Approving
// an already approved note succeeds unchanged.
func (s *InMemory) SetApproved(_ context.Context, id uuid.UUID) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	note.ApplyApproval()
	copied := *note
	return &copied, nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}
