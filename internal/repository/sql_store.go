package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Dialect selects the SQL flavour of the blob table.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
)

// SQLBlobStore keeps blobs in the checklist_data table: one row per key with
// a JSON (MySQL) or JSONB (Postgres) payload.
type SQLBlobStore struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQLBlobStore constructs a store for the given driver name.
func NewSQLBlobStore(db *sql.DB, driver string) (*SQLBlobStore, error) {
	switch Dialect(driver) {
	case MySQL, Postgres:
		return &SQLBlobStore{db: db, dialect: Dialect(driver)}, nil
	}
	return nil, fmt.Errorf("sql blob store: unsupported dialect %q", driver)
}

// EnsureSchema creates the blob table when it does not exist.
func (s *SQLBlobStore) EnsureSchema(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS checklist_data (
		event_id VARCHAR(191) NOT NULL PRIMARY KEY,
		data JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
	if s.dialect == Postgres {
		q = `CREATE TABLE IF NOT EXISTS checklist_data (
		event_id TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`
	}
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("create checklist_data: %w", err)
	}
	return nil
}

// Get returns the blob for key or ErrNotFound.
func (s *SQLBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	q := "SELECT data FROM checklist_data WHERE event_id = ?"
	if s.dialect == Postgres {
		q = "SELECT data FROM checklist_data WHERE event_id = $1"
	}
	var data []byte
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put inserts or replaces the blob for key.
func (s *SQLBlobStore) Put(ctx context.Context, key string, data []byte) error {
	q := `INSERT INTO checklist_data (event_id, data, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
	if s.dialect == Postgres {
		q = `INSERT INTO checklist_data (event_id, data, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (event_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	}
	// string, not []byte: lib/pq would send []byte as bytea.
	_, err := s.db.ExecContext(ctx, q, key, string(data), time.Now().UTC())
	return err
}
