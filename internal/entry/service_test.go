package entry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "gatepass/pkg/domainerrors"
)

type stubTourists struct {
	events map[string]int64
}

func (s *stubTourists) EventOf(_ context.Context, touristID string) (int64, error) {
	eventID, ok := s.events[touristID]
	if !ok {
		return 0, dErrors.New(dErrors.CodeNotFound, "Tourist not found")
	}
	return eventID, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(events map[string]int64) *Service {
	return NewService(NewMemoryStore(), &stubTourists{events: events}, nil, nil, testLogger())
}

func TestParseQR(t *testing.T) {
	id, err := ParseQR("TOURIST-abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)

	_, err = ParseQR("VISITOR-abc")
	require.Error(t, err)
	assert.Equal(t, "Invalid QR code", dErrors.DetailOf(err))

	_, err = ParseQR("TOURIST-")
	assert.Error(t, err)
}

func TestArrivalAndDeparture(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	record, err := svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)
	require.Len(t, record.Items, 1)
	assert.True(t, record.Items[0].Open())

	inside, err := svc.IsInside(context.Background(), "t1", 1)
	require.NoError(t, err)
	assert.True(t, inside)

	record, err = svc.Departure(context.Background(), "t1", 1, "guard-1")
	require.NoError(t, err)
	require.Len(t, record.Items, 1)
	assert.False(t, record.Items[0].Open())
	require.NotNil(t, record.Items[0].DurationMinutes)

	inside, err = svc.IsInside(context.Background(), "t1", 1)
	require.NoError(t, err)
	assert.False(t, inside)
}

func TestArrivalRejectsDoubleEntry(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	_, err := svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)

	_, err = svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.Error(t, err)
	assert.Equal(t, "Tourist is already inside", dErrors.DetailOf(err))
}

func TestArrivalWrongEvent(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	_, err := svc.Arrival(context.Background(), "t1", 2, TypeQR, "guard-1")
	require.Error(t, err)
	assert.Equal(t, "Tourist is not registered for this event", dErrors.DetailOf(err))
}

func TestArrivalUnknownTourist(t *testing.T) {
	svc := newTestService(map[string]int64{})

	_, err := svc.Arrival(context.Background(), "ghost", 1, TypeQR, "guard-1")
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeNotFound))
}

func TestArrivalInvalidEntryType(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	_, err := svc.Arrival(context.Background(), "t1", 1, "teleport", "guard-1")
	require.Error(t, err)
	assert.Equal(t, "Invalid entry type", dErrors.DetailOf(err))
}

func TestDepartureWithoutArrival(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	_, err := svc.Departure(context.Background(), "t1", 1, "guard-1")
	require.Error(t, err)
	assert.Equal(t, "No open entry found", dErrors.DetailOf(err))
}

func TestReentrySameDayReusesRecord(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	first, err := svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)
	_, err = svc.Departure(context.Background(), "t1", 1, "guard-1")
	require.NoError(t, err)

	second, err := svc.Arrival(context.Background(), "t1", 1, TypeManual, "guard-1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 2)
}

func TestDepartureDuration(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	_, err := svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return base.Add(95 * time.Minute) }
	record, err := svc.Departure(context.Background(), "t1", 1, "guard-1")
	require.NoError(t, err)

	require.NotNil(t, record.Items[0].DurationMinutes)
	assert.Equal(t, 95, *record.Items[0].DurationMinutes)
}

func TestHistoryAcrossDays(t *testing.T) {
	svc := newTestService(map[string]int64{"t1": 1})

	day1 := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return day1 }
	_, err := svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)
	_, err = svc.Departure(context.Background(), "t1", 1, "guard-1")
	require.NoError(t, err)

	svc.now = func() time.Time { return day1.Add(24 * time.Hour) }
	_, err = svc.Arrival(context.Background(), "t1", 1, TypeQR, "guard-1")
	require.NoError(t, err)

	history, err := svc.History(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "2026-08-28", history[0].Date)
	assert.Equal(t, "2026-08-29", history[1].Date)
}
