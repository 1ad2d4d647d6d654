package staff

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "gatepass/pkg/domainerrors"
)

// Store persists staff accounts.
type Store interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id string) (*Staff, error)
	GetByEmail(ctx context.Context, email string) (*Staff, error)
	List(ctx context.Context) ([]Staff, error)
	UpdateAllowedEvents(ctx context.Context, id string, events []int64) (*Staff, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Staff
	byEmail map[string]*Staff
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Staff),
		byEmail: make(map[string]*Staff),
	}
}

func (s *MemoryStore) Create(_ context.Context, st *Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(st.Email)
	if _, exists := s.byEmail[email]; exists {
		return dErrors.New(dErrors.CodeConflict, "Email already in use")
	}
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	cp := *st
	s.byID[st.ID] = &cp
	s.byEmail[email] = &cp
	return nil
}

func (s *MemoryStore) GetByID(_ context.Context, id string) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byID[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (*Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Staff, 0, len(s.byID))
	for _, st := range s.byID {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateAllowedEvents(_ context.Context, id string, events []int64) (*Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.byID[id]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	st.AllowedEvents = append([]int64(nil), events...)
	cp := *st
	return &cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.byID[id]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	delete(s.byID, id)
	delete(s.byEmail, strings.ToLower(st.Email))
	return nil
}
