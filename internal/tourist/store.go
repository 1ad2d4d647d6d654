package tourist

import (
	"context"
	"sort"
	"strings"
	"sync"

	dErrors "gatepass/pkg/domainerrors"
)

// Store persists tourists.
type Store interface {
	Create(ctx context.Context, t *Tourist) error
	GetByID(ctx context.Context, id string) (*Tourist, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Tourist, error)
	ExistsByEmail(ctx context.Context, eventID int64, email string) (bool, error)
	SetCardPath(ctx context.Context, id, cardPath string) error
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	tourists map[string]*Tourist
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tourists: make(map[string]*Tourist)}
}

func (s *MemoryStore) Create(_ context.Context, t *Tourist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tourists[t.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*Tourist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tourists[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "Tourist not found")
	}
	cp := *t
	return &cp, nil
}

func (s *MemoryStore) ListByEvent(_ context.Context, eventID int64) ([]Tourist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Tourist
	for _, t := range s.tourists {
		if t.EventID == eventID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ExistsByEmail(_ context.Context, eventID int64, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, t := range s.tourists {
		if t.EventID == eventID && strings.ToLower(t.Email) == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SetCardPath(_ context.Context, id, cardPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tourists[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "Tourist not found")
	}
	t.CardPath = cardPath
	return nil
}
