package tourist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	dErrors "gatepass/pkg/domainerrors"
)

// PostgresStore persists tourists in the tourists table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const touristColumns = `id, event_id, name, email, unique_id_type, unique_id, is_group, group_count,
	COALESCE(photo_path, ''), COALESCE(card_path, ''), created_at`

func (s *PostgresStore) Create(ctx context.Context, t *Tourist) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tourists (id, event_id, name, email, unique_id_type, unique_id, is_group, group_count, photo_path, card_path, created_at)
		VALUES ($1, $2, $3, LOWER($4), $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.EventID, t.Name, t.Email, t.IDType, t.IDNumber, t.IsGroup, t.GroupCount,
		t.PhotoPath, t.CardPath, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert tourist: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Tourist, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+touristColumns+` FROM tourists WHERE id = $1`, id)
	var t Tourist
	err := row.Scan(&t.ID, &t.EventID, &t.Name, &t.Email, &t.IDType, &t.IDNumber,
		&t.IsGroup, &t.GroupCount, &t.PhotoPath, &t.CardPath, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "Tourist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan tourist: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) ListByEvent(ctx context.Context, eventID int64) ([]Tourist, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+touristColumns+` FROM tourists WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list tourists: %w", err)
	}
	defer rows.Close()

	var out []Tourist
	for rows.Next() {
		var t Tourist
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Email, &t.IDType, &t.IDNumber,
			&t.IsGroup, &t.GroupCount, &t.PhotoPath, &t.CardPath, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tourist: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ExistsByEmail(ctx context.Context, eventID int64, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM tourists WHERE event_id = $1 AND email = LOWER($2))`,
		eventID, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check tourist email: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) SetCardPath(ctx context.Context, id, cardPath string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tourists SET card_path = $2 WHERE id = $1`, id, cardPath)
	if err != nil {
		return fmt.Errorf("update tourist card path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "Tourist not found")
	}
	return nil
}
