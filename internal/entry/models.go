// Package entry tracks gate arrivals and departures. A tourist gets one
// record per event per day; each record holds the individual in/out items.
package entry

import (
	"strings"
	"time"

	dErrors "gatepass/pkg/domainerrors"
)

const (
	TypeQR     = "qr"
	TypeManual = "manual"
)

// Record groups a tourist's gate activity for one event on one day.
type Record struct {
	ID        string    `json:"id"`
	TouristID string    `json:"tourist_id"`
	EventID   int64     `json:"event_id"`
	Date      string    `json:"date"`
	Items     []Item    `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a single arrival, optionally closed by a departure.
type Item struct {
	ID              string     `json:"id"`
	RecordID        string     `json:"record_id"`
	EntryType       string     `json:"entry_type"`
	ArrivalAt       time.Time  `json:"arrival_at"`
	DepartureAt     *time.Time `json:"departure_at"`
	DurationMinutes *int       `json:"duration_minutes"`
}

// Open reports whether the item has no departure yet.
func (i Item) Open() bool { return i.DepartureAt == nil }

const qrPrefix = "TOURIST-"

// ParseQR extracts the tourist ID from a scanned QR payload.
func ParseQR(payload string) (string, error) {
	id, ok := strings.CutPrefix(strings.TrimSpace(payload), qrPrefix)
	if !ok || id == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "Invalid QR code")
	}
	return id, nil
}

// DateOf formats t as the record date key.
func DateOf(t time.Time) string {
	return t.Format("2006-01-02")
}
