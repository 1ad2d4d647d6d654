package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore computes aggregates directly in SQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) TodaySummary(ctx context.Context, eventID int64, date string) (*Summary, error) {
	summary := &Summary{
		EventID:       eventID,
		Date:          date,
		EntriesByType: make(map[string]int),
	}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(i.id),
			COUNT(i.departure_at),
			COUNT(DISTINCT r.tourist_id),
			COUNT(*) FILTER (WHERE i.id IS NOT NULL AND i.departure_at IS NULL),
			COALESCE(AVG(i.duration_minutes), 0)
		FROM entry_records r
		LEFT JOIN entry_items i ON i.record_id = r.id
		WHERE r.event_id = $1 AND r.date = $2`,
		eventID, date).Scan(
		&summary.TotalEntries,
		&summary.TotalDepartures,
		&summary.UniqueVisitors,
		&summary.CurrentlyInside,
		&summary.AvgDurationMinutes,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate entries: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT i.entry_type, COUNT(*)
		FROM entry_records r
		JOIN entry_items i ON i.record_id = r.id
		WHERE r.event_id = $1 AND r.date = $2
		GROUP BY i.entry_type`,
		eventID, date)
	if err != nil {
		return nil, fmt.Errorf("aggregate entry types: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entryType string
		var count int
		if err := rows.Scan(&entryType, &count); err != nil {
			return nil, fmt.Errorf("scan entry type count: %w", err)
		}
		summary.EntriesByType[entryType] = count
	}
	return summary, rows.Err()
}

func (s *PostgresStore) EntriesSince(ctx context.Context, eventID int64, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.entry_type, COUNT(*)
		FROM entry_records r
		JOIN entry_items i ON i.record_id = r.id
		WHERE r.event_id = $1 AND i.arrival_at >= $2
		GROUP BY i.entry_type`,
		eventID, since)
	if err != nil {
		return nil, fmt.Errorf("count recent entries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var entryType string
		var count int
		if err := rows.Scan(&entryType, &count); err != nil {
			return nil, fmt.Errorf("scan recent entry count: %w", err)
		}
		out[entryType] = count
	}
	return out, rows.Err()
}
