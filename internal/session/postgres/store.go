package sessionpostgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/session"
)

type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Load(ctx context.Context, id string) ([]byte, error) {
	const q = `
SELECT data
FROM sessions
WHERE id = $1 AND expires_at > now()
`
	var data []byte
	if err := s.db.QueryRow(ctx, q, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, id string, data []byte, expiresAt time.Time) error {
	const q = `
INSERT INTO sessions (id, data, expires_at, updated_at)
VALUES ($1, CAST($2 AS jsonb), $3, now())
ON CONFLICT (id) DO UPDATE SET
  data = EXCLUDED.data,
  expires_at = EXCLUDED.expires_at,
  updated_at = now()
`
	_, err := s.db.Exec(ctx, q, id, string(data), expiresAt)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM sessions WHERE id = $1`
	_, err := s.db.Exec(ctx, q, id)
	return err
}

// DeleteExpired removes sessions past their expiry and reports how many went.
func (s *Store) DeleteExpired(ctx context.Context) (int64, error) {
	const q = `DELETE FROM sessions WHERE expires_at <= now()`
	tag, err := s.db.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
