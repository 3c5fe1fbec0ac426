package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// DB wraps the SQLite handle and associated metadata.
type DB struct {
	sql  *sql.DB
	path string
}

// Open initialises a SQLite database at the given path, applies pending
// migrations and returns a DB wrapper.
func Open(ctx context.Context, path string) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn, err := dataSourceName(path)
	if err != nil {
		return nil, err
	}
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer; the vault is used by one process at a time.
	handle.SetMaxOpenConns(1)

	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := EnsurePerm0600(path); err != nil {
		handle.Close()
		return nil, err
	}

	if err := RunMigrations(handle); err != nil {
		handle.Close()
		return nil, err
	}

	return &DB{sql: handle, path: path}, nil
}

// dataSourceName builds the sqlite URI for path. The path is made absolute
// and percent-encoded so characters such as '?' and '#' stay part of the
// file name.
func dataSourceName(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve database path: %w", err)
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{
		Scheme:   "file",
		Path:     slashed,
		RawQuery: "_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)",
	}
	return u.String(), nil
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// Close releases the database resources.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// EnsurePerm0600 attempts to set the database file permissions to 0600 on Unix systems (the owner permission).
// Only the current owner of the sqlite db is allowed to read and write (ensured if Unix system)
func EnsurePerm0600(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, 0o600); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("chmod database: %w", err)
	}
	return nil
}
