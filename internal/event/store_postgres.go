package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dErrors "gatepass/pkg/domainerrors"
)

// PostgresStore persists events in the events table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const eventColumns = `id, name, place, COALESCE(description, ''), start_date, end_date, is_active, created_at`

func (s *PostgresStore) Create(ctx context.Context, input CreateInput) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO events (name, place, description, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+eventColumns,
		input.Name, input.Place, input.Description, input.StartDate, input.EndDate, input.IsActive,
	)
	return scanEvent(row)
}

func (s *PostgresStore) List(ctx context.Context) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Place, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetByID(ctx context.Context, id int64) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id int64, isActive bool) (*Event, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE events SET is_active = $2 WHERE id = $1
		RETURNING `+eventColumns, id, isActive)
	return scanEvent(row)
}

func scanEvent(row *sql.Row) (*Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Name, &e.Place, &e.Description, &e.StartDate, &e.EndDate, &e.IsActive, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Event not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}
