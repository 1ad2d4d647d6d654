package analytics

import (
	"context"
	"time"

	"gatepass/internal/entry"
)

// Store computes gate activity aggregates.
type Store interface {
	TodaySummary(ctx context.Context, eventID int64, date string) (*Summary, error)
	EntriesSince(ctx context.Context, eventID int64, since time.Time) (map[string]int, error)
}

// MemoryStore aggregates over the in-memory entry store.
type MemoryStore struct {
	entries *entry.MemoryStore
}

func NewMemoryStore(entries *entry.MemoryStore) *MemoryStore {
	return &MemoryStore{entries: entries}
}

func (s *MemoryStore) TodaySummary(_ context.Context, eventID int64, date string) (*Summary, error) {
	summary := &Summary{
		EventID:       eventID,
		Date:          date,
		EntriesByType: make(map[string]int),
	}
	var totalMinutes, closed int
	for _, r := range s.entries.Snapshot() {
		if r.EventID != eventID || r.Date != date {
			continue
		}
		summary.UniqueVisitors++
		inside := false
		for _, it := range r.Items {
			summary.TotalEntries++
			summary.EntriesByType[it.EntryType]++
			if it.Open() {
				inside = true
				continue
			}
			summary.TotalDepartures++
			if it.DurationMinutes != nil {
				totalMinutes += *it.DurationMinutes
				closed++
			}
		}
		if inside {
			summary.CurrentlyInside++
		}
	}
	if closed > 0 {
		summary.AvgDurationMinutes = float64(totalMinutes) / float64(closed)
	}
	return summary, nil
}

func (s *MemoryStore) EntriesSince(_ context.Context, eventID int64, since time.Time) (map[string]int, error) {
	out := make(map[string]int)
	for _, r := range s.entries.Snapshot() {
		if r.EventID != eventID {
			continue
		}
		for _, it := range r.Items {
			if !it.ArrivalAt.Before(since) {
				out[it.EntryType]++
			}
		}
	}
	return out, nil
}
