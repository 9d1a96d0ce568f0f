package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ziadkadry99/stock-console/internal/db"
)

// SQLite persists client storage in the console database so a credential
// survives reconnects of the same browser.
type SQLite struct {
	db       *db.DB
	clientID string
}

// NewSQLite returns a store for one client id.
func NewSQLite(database *db.DB, clientID string) *SQLite {
	return &SQLite{db: database, clientID: clientID}
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE client_id = ? AND key = ?`,
		s.clientID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (client_id, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(client_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.clientID, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Remove(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		if _, err := s.db.ExecContext(ctx,
			`DELETE FROM client_storage WHERE client_id = ? AND key = ?`, s.clientID, k,
		); err != nil {
			return fmt.Errorf("removing %s: %w", k, err)
		}
	}
	return nil
}
