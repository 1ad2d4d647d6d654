package entry

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"gatepass/internal/audit"
	"gatepass/internal/platform/metrics"
	dErrors "gatepass/pkg/domainerrors"
)

// TouristResolver confirms a scanned tourist exists and names the event they
// registered for.
type TouristResolver interface {
	EventOf(ctx context.Context, touristID string) (int64, error)
}

// Service implements gate arrival and departure tracking.
type Service struct {
	store    Store
	tourists TouristResolver
	audit    *audit.Publisher
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(store Store, tourists TouristResolver, auditPub *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:    store,
		tourists: tourists,
		audit:    auditPub,
		metrics:  m,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Arrival records a gate entry for the tourist. A tourist already inside
// cannot enter again until they depart.
func (s *Service) Arrival(ctx context.Context, touristID string, eventID int64, entryType, actor string) (*Record, error) {
	if entryType != TypeQR && entryType != TypeManual {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid entry type")
	}
	registeredEvent, err := s.tourists.EventOf(ctx, touristID)
	if err != nil {
		return nil, err
	}
	if registeredEvent != eventID {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Tourist is not registered for this event")
	}

	now := s.now()
	date := DateOf(now)

	if _, err := s.store.OpenItem(ctx, touristID, eventID, date); err == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Tourist is already inside")
	}

	record, err := s.store.GetOrCreateRecord(ctx, touristID, eventID, date)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "internal server error", err)
	}
	item := &Item{
		RecordID:  record.ID,
		EntryType: entryType,
		ArrivalAt: now,
	}
	if err := s.store.AddItem(ctx, item); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "internal server error", err)
	}

	s.metrics.RecordEntry(entryType)
	s.emit(audit.Event{
		Action:    audit.ActionEntryRecorded,
		Actor:     actor,
		SubjectID: touristID,
		EventID:   strconv.FormatInt(eventID, 10),
	})

	return s.store.RecordWithItems(ctx, touristID, eventID, date)
}

// Departure closes the tourist's open entry and computes the visit duration.
func (s *Service) Departure(ctx context.Context, touristID string, eventID int64, actor string) (*Record, error) {
	now := s.now()
	date := DateOf(now)

	item, err := s.store.OpenItem(ctx, touristID, eventID, date)
	if err != nil {
		return nil, err
	}

	minutes := int(now.Sub(item.ArrivalAt).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	if err := s.store.CloseItem(ctx, item.ID, now, minutes); err != nil {
		return nil, err
	}

	s.metrics.RecordDeparture()
	s.emit(audit.Event{
		Action:    audit.ActionDeparture,
		Actor:     actor,
		SubjectID: touristID,
		EventID:   strconv.FormatInt(eventID, 10),
	})

	return s.store.RecordWithItems(ctx, touristID, eventID, date)
}

// Today returns the tourist's record for the current day.
func (s *Service) Today(ctx context.Context, touristID string, eventID int64) (*Record, error) {
	return s.store.RecordWithItems(ctx, touristID, eventID, DateOf(s.now()))
}

// History returns all of a tourist's entry records.
func (s *Service) History(ctx context.Context, touristID string) ([]Record, error) {
	return s.store.History(ctx, touristID)
}

// IsInside reports whether the tourist has an open entry today.
func (s *Service) IsInside(ctx context.Context, touristID string, eventID int64) (bool, error) {
	_, err := s.store.OpenItem(ctx, touristID, eventID, DateOf(s.now()))
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) emit(e audit.Event) {
	if s.audit == nil {
		return
	}
	if !s.audit.Emit(e) {
		s.logger.Warn("audit queue full, event dropped", "action", e.Action)
	}
}
