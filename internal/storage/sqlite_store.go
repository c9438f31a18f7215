package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists keys in a SQLite file shared by every process that
// opens it. Each handle has its own origin so writes can be attributed.
type SQLiteStore struct {
	db     *sql.DB
	origin string
	quota  int64
}

type SQLiteOption func(*SQLiteStore)

// WithQuota caps the total bytes of live keys and values. Zero or negative
// disables the cap.
func WithQuota(bytes int64) SQLiteOption {
	return func(s *SQLiteStore) { s.quota = bytes }
}

func WithOrigin(origin string) SQLiteOption {
	return func(s *SQLiteStore) { s.origin = origin }
}

func NewSQLiteStore(db *sql.DB, opts ...SQLiteOption) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	s := &SQLiteStore{db: db, origin: uuid.NewString(), quota: DefaultQuotaBytes}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// OpenSQLite opens (or creates) the database at path and applies migrations.
func OpenSQLite(path string, opts ...SQLiteOption) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	store, err := NewSQLiteStore(db, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Origin() string {
	return s.origin
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if s.quota > 0 {
			var used int64
			err := tx.QueryRowContext(ctx, `
				SELECT COALESCE(SUM(LENGTH(CAST(key AS BLOB)) + LENGTH(CAST(value AS BLOB))), 0)
				FROM kv_entries WHERE value IS NOT NULL AND key != ?`, key).Scan(&used)
			if err != nil {
				return fmt.Errorf("measure usage: %w", err)
			}
			if used+entrySize(key, value) > s.quota {
				return fmt.Errorf("set %s: %w", key, ErrQuotaExceeded)
			}
		}
		rev, err := nextRevision(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO kv_entries (key, value, origin, revision) VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, origin = excluded.origin, revision = excluded.revision`,
			key, value, s.origin, rev,
		)
		if err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
		return nil
	})
}

// Remove leaves a tombstone so other handles can observe the removal.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var live int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM kv_entries WHERE key = ? AND value IS NOT NULL`, key).Scan(&live)
		if err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		if live == 0 {
			return nil
		}
		rev, err := nextRevision(ctx, tx)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE kv_entries SET value = NULL, origin = ?, revision = ? WHERE key = ?`, s.origin, rev, key)
		if err != nil {
			return fmt.Errorf("remove %s: %w", key, err)
		}
		return nil
	})
}

func (s *SQLiteStore) Revision(ctx context.Context) (int64, error) {
	var rev int64
	if err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_meta WHERE name = 'revision'`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}

func (s *SQLiteStore) ChangesSince(ctx context.Context, after int64) ([]Change, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value, origin, revision FROM kv_entries
		WHERE revision > ? ORDER BY revision ASC`, after)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	out := make([]Change, 0)
	for rows.Next() {
		var ch Change
		var value sql.NullString
		if err := rows.Scan(&ch.Key, &value, &ch.Origin, &ch.Revision); err != nil {
			return nil, err
		}
		ch.Value = value.String
		ch.Removed = !value.Valid
		out = append(out, ch)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nextRevision(ctx context.Context, tx *sql.Tx) (int64, error) {
	if _, err := tx.ExecContext(ctx, `UPDATE kv_meta SET value = value + 1 WHERE name = 'revision'`); err != nil {
		return 0, fmt.Errorf("bump revision: %w", err)
	}
	var rev int64
	if err := tx.QueryRowContext(ctx, `SELECT value FROM kv_meta WHERE name = 'revision'`).Scan(&rev); err != nil {
		return 0, fmt.Errorf("read revision: %w", err)
	}
	return rev, nil
}
