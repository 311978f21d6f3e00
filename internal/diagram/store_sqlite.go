package diagram

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore is a Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the diagram store at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating diagram store dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening diagram store: %w", err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS diagrams (
			key        TEXT PRIMARY KEY,
			markup     TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing diagram store schema: %w", err)
	}
	return nil
}

// Get returns the markup stored for key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var markup string
	err := s.db.QueryRowContext(ctx, `SELECT markup FROM diagrams WHERE key = ?`, key).Scan(&markup)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading diagram %s: %w", key, err)
	}
	return markup, true, nil
}

// Put stores markup for key, replacing any previous entry.
func (s *SQLiteStore) Put(ctx context.Context, key, markup string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO diagrams (key, markup, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET markup = excluded.markup
	`, key, markup, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing diagram %s: %w", key, err)
	}
	return nil
}

// Count returns the number of stored diagrams.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM diagrams`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting diagrams: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
