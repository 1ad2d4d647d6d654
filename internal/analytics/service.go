package analytics

import (
	"context"
	"time"

	"gatepass/internal/event"
)

// EventChecker confirms the event exists before aggregating.
type EventChecker interface {
	GetByID(ctx context.Context, id int64) (*event.Event, error)
}

// Service exposes gate activity aggregates.
type Service struct {
	store  Store
	events EventChecker
	now    func() time.Time
}

func NewService(store Store, events EventChecker) *Service {
	return &Service{
		store:  store,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Today returns the daily rollup for an event.
func (s *Service) Today(ctx context.Context, eventID int64) (*Summary, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.TodaySummary(ctx, eventID, s.now().Format("2006-01-02"))
}

// LastHour returns entry counts by type for the trailing hour.
func (s *Service) LastHour(ctx context.Context, eventID int64) (map[string]int, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.store.EntriesSince(ctx, eventID, s.now().Add(-time.Hour))
}
