package event

import (
	"context"
	"sort"
	"sync"
	"time"

	dErrors "gatepass/pkg/domainerrors"
)

// Store persists events.
type Store interface {
	Create(ctx context.Context, input CreateInput) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	GetByID(ctx context.Context, id int64) (*Event, error)
	UpdateStatus(ctx context.Context, id int64, isActive bool) (*Event, error)
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	events map[int64]*Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, events: make(map[int64]*Event)}
}

func (s *MemoryStore) Create(_ context.Context, input CreateInput) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := &Event{
		ID:          s.nextID,
		Name:        input.Name,
		Place:       input.Place,
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    input.IsActive,
		CreatedAt:   time.Now().UTC(),
	}
	s.nextID++
	s.events[e.ID] = e
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "Event not found")
	}
	cp := *e
	return &cp, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, id int64, isActive bool) (*Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.events[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "Event not found")
	}
	e.IsActive = isActive
	cp := *e
	return &cp, nil
}
