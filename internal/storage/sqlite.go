package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite persists the blob in a key/value table inside a SQLite database.
//
// The schema is managed by the embedded migrations (see [RunMigrations]).
// One row per storage key; the playlist collection lives under a single key.
type SQLite struct {
	db  *sql.DB
	key string
}

// NewDatabase opens a connection to a SQLite database at the specified path.
// The path can be ":memory:" for an in-memory database.
func NewDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// ConfigureDatabase sets connection pool settings for the database.
func ConfigureDatabase(db *sql.DB, maxOpenConns, maxIdleConns int) {
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
}

// NewSQLite creates a SQLite backend over an open database, storing the blob
// under the given key. The caller is responsible for having run migrations.
func NewSQLite(db *sql.DB, key string) *SQLite {
	return &SQLite{db: db, key: key}
}

// Load reads the blob for this backend's key; a missing row is empty.
func (s *SQLite) Load() (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM collections WHERE key = ?", s.key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load collection: %w", err)
	}
	return value, nil
}

// Save upserts the blob for this backend's key.
func (s *SQLite) Save(value string) error {
	query := `
		INSERT INTO collections (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`
	if _, err := s.db.Exec(query, s.key, value); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}
