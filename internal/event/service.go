package event

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	dErrors "gatepass/pkg/domainerrors"
)

// Service implements event management and the public gate check.
type Service struct {
	store  Store
	cache  GateCache
	logger *slog.Logger
}

func NewService(store Store, cache GateCache, logger *slog.Logger) *Service {
	if cache == nil {
		cache = NoopGateCache{}
	}
	return &Service{store: store, cache: cache, logger: logger}
}

// Create adds a new event. Admin only; the handler enforces the role.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Event, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Place) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Missing required fields")
	}
	if !input.EndDate.IsZero() && input.EndDate.Before(input.StartDate) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "end_date must not be before start_date")
	}
	return s.store.Create(ctx, input)
}

// List returns every event, for admins.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	return s.store.List(ctx)
}

// ListForGuard returns only the events a security staffer may work.
// An empty allowlist means no events.
func (s *Service) ListForGuard(ctx context.Context, allowedEvents []int64) ([]Event, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(allowedEvents))
	for _, e := range all {
		if slices.Contains(allowedEvents, e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}

// GetByID fetches a single event.
func (s *Service) GetByID(ctx context.Context, id int64) (*Event, error) {
	return s.store.GetByID(ctx, id)
}

// SetActive toggles registration for an event and drops the stale gate entry.
func (s *Service) SetActive(ctx context.Context, id int64, isActive bool) (*Event, error) {
	e, err := s.store.UpdateStatus(ctx, id, isActive)
	if err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, id)
	return e, nil
}

// Check is the public gate lookup backing the registration page. Results are
// cached briefly; a toggled event shows up after Invalidate or TTL expiry.
func (s *Service) Check(ctx context.Context, id int64) (*Event, error) {
	if e, ok := s.cache.Get(ctx, id); ok {
		return e, nil
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, e)
	return e, nil
}

// IsActive reports whether the event exists and currently accepts
// registrations.
func (s *Service) IsActive(ctx context.Context, id int64) bool {
	e, err := s.Check(ctx, id)
	if err != nil {
		return false
	}
	return e.IsActive
}
