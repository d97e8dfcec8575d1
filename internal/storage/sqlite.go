package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS session_values (
	sid        TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP),
	PRIMARY KEY (sid, key)
);`

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens path, creating its directory first. Memory databases and
// file: URIs are passed to the driver as they are.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	// journal_mode is not supported for in-memory databases; ignore its error.
	_, _ = db.ExecContext(ctx, `PRAGMA journal_mode=WAL`)
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout=5000`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session_values: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, sid, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_values WHERE sid = ? AND key = ?`, sid, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session value: %w", err)
	}
	return value, nil
}

func (s *SQLite) Set(ctx context.Context, sid, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (sid, key, value) VALUES (?, ?, ?)
		ON CONFLICT (sid, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sid, key, value)
	if err != nil {
		return fmt.Errorf("set session value: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(ctx context.Context, sid, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE sid = ? AND key = ?`, sid, key); err != nil {
		return fmt.Errorf("delete session value: %w", err)
	}
	return nil
}

func (s *SQLite) Clear(ctx context.Context, sid string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE sid = ?`, sid); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
