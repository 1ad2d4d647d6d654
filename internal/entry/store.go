package entry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	dErrors "gatepass/pkg/domainerrors"
)

// Store persists entry records and their items.
type Store interface {
	GetOrCreateRecord(ctx context.Context, touristID string, eventID int64, date string) (*Record, error)
	AddItem(ctx context.Context, item *Item) error
	OpenItem(ctx context.Context, touristID string, eventID int64, date string) (*Item, error)
	CloseItem(ctx context.Context, itemID string, departedAt time.Time, minutes int) error
	RecordWithItems(ctx context.Context, touristID string, eventID int64, date string) (*Record, error)
	History(ctx context.Context, touristID string) ([]Record, error)
}

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
	items   map[string]*Item
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
		items:   make(map[string]*Item),
	}
}

func (s *MemoryStore) findRecord(touristID string, eventID int64, date string) *Record {
	for _, r := range s.records {
		if r.TouristID == touristID && r.EventID == eventID && r.Date == date {
			return r
		}
	}
	return nil
}

func (s *MemoryStore) GetOrCreateRecord(_ context.Context, touristID string, eventID int64, date string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.findRecord(touristID, eventID, date); r != nil {
		cp := *r
		return &cp, nil
	}
	r := &Record{
		ID:        uuid.NewString(),
		TouristID: touristID,
		EventID:   eventID,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	s.records[r.ID] = r
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) AddItem(_ context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[item.RecordID]; !ok {
		return dErrors.New(dErrors.CodeNotFound, "Entry record not found")
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	cp := *item
	s.items[item.ID] = &cp
	return nil
}

func (s *MemoryStore) OpenItem(_ context.Context, touristID string, eventID int64, date string) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findRecord(touristID, eventID, date)
	if r == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "No open entry found")
	}
	var latest *Item
	for _, it := range s.items {
		if it.RecordID != r.ID || !it.Open() {
			continue
		}
		if latest == nil || it.ArrivalAt.After(latest.ArrivalAt) {
			latest = it
		}
	}
	if latest == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "No open entry found")
	}
	cp := *latest
	return &cp, nil
}

func (s *MemoryStore) CloseItem(_ context.Context, itemID string, departedAt time.Time, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[itemID]
	if !ok {
		return dErrors.New(dErrors.CodeNotFound, "No open entry found")
	}
	it.DepartureAt = &departedAt
	it.DurationMinutes = &minutes
	return nil
}

func (s *MemoryStore) RecordWithItems(_ context.Context, touristID string, eventID int64, date string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := s.findRecord(touristID, eventID, date)
	if r == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "Entry record not found")
	}
	cp := *r
	cp.Items = s.itemsFor(r.ID)
	return &cp, nil
}

func (s *MemoryStore) History(_ context.Context, touristID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Record
	for _, r := range s.records {
		if r.TouristID != touristID {
			continue
		}
		cp := *r
		cp.Items = s.itemsFor(r.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// Snapshot returns every record with its items. The in-memory analytics
// backend aggregates over it.
func (s *MemoryStore) Snapshot() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		cp.Items = s.itemsFor(r.ID)
		out = append(out, cp)
	}
	return out
}

func (s *MemoryStore) itemsFor(recordID string) []Item {
	var items []Item
	for _, it := range s.items {
		if it.RecordID == recordID {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ArrivalAt.Before(items[j].ArrivalAt) })
	return items
}
