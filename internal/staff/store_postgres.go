package staff

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	dErrors "gatepass/pkg/domainerrors"
)

// PostgresStore persists staff accounts in the staff table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const staffColumns = `id, name, email, role, allowed_events, password_hash, created_at`

func (s *PostgresStore) Create(ctx context.Context, st *Staff) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO staff (id, name, email, role, allowed_events, password_hash, created_at)
		VALUES ($1, $2, LOWER($3), $4, $5, $6, $7)`,
		st.ID, st.Name, st.Email, st.Role, pq.Array(st.AllowedEvents), st.PasswordHash, st.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return dErrors.New(dErrors.CodeConflict, "Email already in use")
		}
		return fmt.Errorf("insert staff: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (*Staff, error) {
	return scanStaff(s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*Staff, error) {
	return scanStaff(s.db.QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE email = LOWER($1)`, email))
}

func (s *PostgresStore) List(ctx context.Context) ([]Staff, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []Staff
	for rows.Next() {
		var st Staff
		var allowed pq.Int64Array
		if err := rows.Scan(&st.ID, &st.Name, &st.Email, &st.Role, &allowed, &st.PasswordHash, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		st.AllowedEvents = allowed
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) UpdateAllowedEvents(ctx context.Context, id string, events []int64) (*Staff, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE staff SET allowed_events = $2 WHERE id = $1`, id, pq.Array(events))
	if err != nil {
		return nil, fmt.Errorf("update staff allowed events: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	return s.GetByID(ctx, id)
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	return nil
}

func scanStaff(row *sql.Row) (*Staff, error) {
	var st Staff
	var allowed pq.Int64Array
	err := row.Scan(&st.ID, &st.Name, &st.Email, &st.Role, &allowed, &st.PasswordHash, &st.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dErrors.New(dErrors.CodeNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("scan staff: %w", err)
	}
	st.AllowedEvents = allowed
	return &st, nil
}
