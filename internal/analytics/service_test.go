package analytics

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/internal/entry"
	"gatepass/internal/event"
	dErrors "gatepass/pkg/domainerrors"
)

type stubTourists struct{}

func (stubTourists) EventOf(context.Context, string) (int64, error) { return 1, nil }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedEvents(t *testing.T) *event.Service {
	t.Helper()
	events := event.NewService(event.NewMemoryStore(), nil, testLogger())
	_, err := events.Create(context.Background(), event.CreateInput{
		Name:      "Festival",
		Place:     "City Hall",
		StartDate: time.Now(),
		EndDate:   time.Now().Add(48 * time.Hour),
		IsActive:  true,
	})
	require.NoError(t, err)
	return events
}

func TestTodaySummary(t *testing.T) {
	entryStore := entry.NewMemoryStore()
	entries := entry.NewService(entryStore, stubTourists{}, nil, nil, testLogger())
	svc := NewService(NewMemoryStore(entryStore), seedEvents(t))

	ctx := context.Background()
	_, err := entries.Arrival(ctx, "t1", 1, entry.TypeQR, "guard-1")
	require.NoError(t, err)
	_, err = entries.Arrival(ctx, "t2", 1, entry.TypeManual, "guard-1")
	require.NoError(t, err)
	_, err = entries.Departure(ctx, "t2", 1, "guard-1")
	require.NoError(t, err)

	summary, err := svc.Today(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalEntries)
	assert.Equal(t, 1, summary.TotalDepartures)
	assert.Equal(t, 2, summary.UniqueVisitors)
	assert.Equal(t, 1, summary.CurrentlyInside)
	assert.Equal(t, 1, summary.EntriesByType[entry.TypeQR])
	assert.Equal(t, 1, summary.EntriesByType[entry.TypeManual])
}

func TestTodayUnknownEvent(t *testing.T) {
	entryStore := entry.NewMemoryStore()
	svc := NewService(NewMemoryStore(entryStore), seedEvents(t))

	_, err := svc.Today(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestLastHour(t *testing.T) {
	entryStore := entry.NewMemoryStore()
	entries := entry.NewService(entryStore, stubTourists{}, nil, nil, testLogger())
	svc := NewService(NewMemoryStore(entryStore), seedEvents(t))

	ctx := context.Background()
	_, err := entries.Arrival(ctx, "t1", 1, entry.TypeQR, "guard-1")
	require.NoError(t, err)

	counts, err := svc.LastHour(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[entry.TypeQR])

	// nothing older than an hour counts
	svc.now = func() time.Time { return time.Now().UTC().Add(3 * time.Hour) }
	counts, err = svc.LastHour(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestAvgDuration(t *testing.T) {
	entryStore := entry.NewMemoryStore()
	entries := entry.NewService(entryStore, stubTourists{}, nil, nil, testLogger())
	svc := NewService(NewMemoryStore(entryStore), seedEvents(t))

	ctx := context.Background()
	_, err := entries.Arrival(ctx, "t1", 1, entry.TypeQR, "guard-1")
	require.NoError(t, err)
	_, err = entries.Departure(ctx, "t1", 1, "guard-1")
	require.NoError(t, err)

	summary, err := svc.Today(ctx, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, summary.AvgDurationMinutes, 0.0)
	assert.Equal(t, 0, summary.CurrentlyInside)
}
