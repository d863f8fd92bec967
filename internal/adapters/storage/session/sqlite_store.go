package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fitflow/internal/adapters/storage"
	domain "fitflow/internal/domain/session"
)

// timeLayout has fixed width so stored timestamps compare lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     storage.SQLDB
	sealer *Sealer
}

// NewSQLiteStore creates a session store that seals tokens with sealer.
func NewSQLiteStore(db storage.SQLDB, sealer *Sealer) *SQLiteStore {
	return &SQLiteStore{db: db, sealer: sealer}
}

// Save persists a session.
// PRE: value.ID and value.Token are non-empty
// POST: the row exists with the token sealed
func (s *SQLiteStore) Save(ctx context.Context, value domain.Session) error {
	if value.ID == "" || value.Token == "" {
		return errors.New("session id and token are required")
	}
	sealed, err := s.sealer.Seal(value.Token)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO session (id, sealed_token, name, email, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET sealed_token=excluded.sealed_token, name=excluded.name,
		 email=excluded.email, expires_at=excluded.expires_at`,
		value.ID,
		sealed,
		value.Name,
		value.Email,
		value.CreatedAt.UTC().Format(timeLayout),
		value.ExpiresAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get returns a live session.
// PRE: id is non-empty
// POST: returns domain.ErrNotFound when missing, expired or sealed under another key
func (s *SQLiteStore) Get(ctx context.Context, id string, now time.Time) (domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, sealed_token, name, email, created_at, expires_at FROM session WHERE id = ?", id)

	var (
		value              domain.Session
		sealed             []byte
		createdAt, expires string
	)
	if err := row.Scan(&value.ID, &sealed, &value.Name, &value.Email, &createdAt, &expires); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, domain.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	value.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	var err error
	if value.ExpiresAt, err = time.Parse(timeLayout, expires); err != nil {
		return domain.Session{}, domain.ErrNotFound
	}
	if value.Expired(now) {
		return domain.Session{}, domain.ErrNotFound
	}
	if value.Token, err = s.sealer.Open(sealed); err != nil {
		return domain.Session{}, domain.ErrNotFound
	}
	return value, nil
}

// Touch records activity on a session.
func (s *SQLiteStore) Touch(ctx context.Context, id string, now time.Time) error {
	_, err := s.db.ExecContext(ctx, "UPDATE session SET last_seen_at = ? WHERE id = ?", now.UTC().Format(timeLayout), id)
	return err
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE id = ?", id)
	return err
}

// DeleteExpired purges sessions whose expiry is at or before now.
// POST: returns the number of rows removed
func (s *SQLiteStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM session WHERE expires_at <= ?", now.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
