// Package analytics aggregates gate activity for the staff dashboard.
package analytics

// Summary is the per-event daily rollup.
type Summary struct {
	EventID            int64          `json:"event_id"`
	Date               string         `json:"date"`
	TotalEntries       int            `json:"total_entries"`
	TotalDepartures    int            `json:"total_departures"`
	UniqueVisitors     int            `json:"unique_visitors"`
	CurrentlyInside    int            `json:"currently_inside"`
	AvgDurationMinutes float64        `json:"avg_duration_minutes"`
	EntriesByType      map[string]int `json:"entries_by_type"`
}
