package entry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	dErrors "gatepass/pkg/domainerrors"
)

// PostgresStore persists entry records in the entry_records and entry_items
// tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetOrCreateRecord(ctx context.Context, touristID string, eventID int64, date string) (*Record, error) {
	r := &Record{TouristID: touristID, EventID: eventID, Date: date}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM entry_records
		WHERE tourist_id = $1 AND event_id = $2 AND date = $3`,
		touristID, eventID, date).Scan(&r.ID, &r.CreatedAt)
	if err == nil {
		return r, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entry record: %w", err)
	}

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO entry_records (id, tourist_id, event_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tourist_id, event_id, date) DO NOTHING`,
		r.ID, touristID, eventID, date, r.CreatedAt); err != nil {
		return nil, fmt.Errorf("create entry record: %w", err)
	}
	// re-read in case a concurrent insert won
	if err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM entry_records
		WHERE tourist_id = $1 AND event_id = $2 AND date = $3`,
		touristID, eventID, date).Scan(&r.ID, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("reload entry record: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) AddItem(ctx context.Context, item *Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entry_items (id, record_id, entry_type, arrival_at)
		VALUES ($1, $2, $3, $4)`,
		item.ID, item.RecordID, item.EntryType, item.ArrivalAt)
	if err != nil {
		return fmt.Errorf("insert entry item: %w", err)
	}
	return nil
}

func (s *PostgresStore) OpenItem(ctx context.Context, touristID string, eventID int64, date string) (*Item, error) {
	var it Item
	err := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.record_id, i.entry_type, i.arrival_at
		FROM entry_items i
		JOIN entry_records r ON r.id = i.record_id
		WHERE r.tourist_id = $1 AND r.event_id = $2 AND r.date = $3 AND i.departure_at IS NULL
		ORDER BY i.arrival_at DESC
		LIMIT 1`,
		touristID, eventID, date).Scan(&it.ID, &it.RecordID, &it.EntryType, &it.ArrivalAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "No open entry found")
	}
	if err != nil {
		return nil, fmt.Errorf("find open entry item: %w", err)
	}
	return &it, nil
}

func (s *PostgresStore) CloseItem(ctx context.Context, itemID string, departedAt time.Time, minutes int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE entry_items SET departure_at = $2, duration_minutes = $3
		WHERE id = $1 AND departure_at IS NULL`,
		itemID, departedAt, minutes)
	if err != nil {
		return fmt.Errorf("close entry item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "No open entry found")
	}
	return nil
}

func (s *PostgresStore) RecordWithItems(ctx context.Context, touristID string, eventID int64, date string) (*Record, error) {
	r := &Record{TouristID: touristID, EventID: eventID, Date: date}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, created_at FROM entry_records
		WHERE tourist_id = $1 AND event_id = $2 AND date = $3`,
		touristID, eventID, date).Scan(&r.ID, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Entry record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get entry record: %w", err)
	}
	items, err := s.itemsFor(ctx, r.ID)
	if err != nil {
		return nil, err
	}
	r.Items = items
	return r, nil
}

func (s *PostgresStore) History(ctx context.Context, touristID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tourist_id, event_id, date::text, created_at
		FROM entry_records
		WHERE tourist_id = $1
		ORDER BY date`, touristID)
	if err != nil {
		return nil, fmt.Errorf("list entry records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.TouristID, &r.EventID, &r.Date, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan entry record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		items, err := s.itemsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (s *PostgresStore) itemsFor(ctx context.Context, recordID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, record_id, entry_type, arrival_at, departure_at, duration_minutes
		FROM entry_items
		WHERE record_id = $1
		ORDER BY arrival_at`, recordID)
	if err != nil {
		return nil, fmt.Errorf("list entry items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var departure sql.NullTime
		var minutes sql.NullInt64
		if err := rows.Scan(&it.ID, &it.RecordID, &it.EntryType, &it.ArrivalAt, &departure, &minutes); err != nil {
			return nil, fmt.Errorf("scan entry item: %w", err)
		}
		if departure.Valid {
			t := departure.Time
			it.DepartureAt = &t
		}
		if minutes.Valid {
			m := int(minutes.Int64)
			it.DurationMinutes = &m
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
