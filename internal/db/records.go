package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Hussein-Mazeh/givme/internal/vault"
)

// Compile-time interface satisfaction check.
var _ vault.Storage = (*RecordStore)(nil)

// RecordStore persists vault records in the cred table. Keys and values are
// the already encrypted, base64 encoded strings handed over by the vault.
type RecordStore struct {
	db *DB
}

// NewRecordStore returns a RecordStore backed by d.
func NewRecordStore(d *DB) *RecordStore {
	return &RecordStore{db: d}
}

func (s *RecordStore) handle() (*sql.DB, error) {
	if s.db == nil || s.db.sql == nil {
		return nil, fmt.Errorf("database handle is nil")
	}
	return s.db.sql, nil
}

// QueryByKey returns every record stored under key.
func (s *RecordStore) QueryByKey(ctx context.Context, key string) ([]vault.Record, error) {
	h, err := s.handle()
	if err != nil {
		return nil, err
	}

	rows, err := h.QueryContext(ctx, `SELECT key, value, info FROM cred WHERE key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []vault.Record
	for rows.Next() {
		var (
			rec  vault.Record
			info sql.NullString
		)
		if err := rows.Scan(&rec.Key, &rec.Value, &info); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Info = info.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Insert stores rec. A duplicate key is reported as vault.ErrAlreadyExists.
func (s *RecordStore) Insert(ctx context.Context, rec vault.Record) error {
	h, err := s.handle()
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		`INSERT INTO cred (key, value, info) VALUES (?, ?, ?)`,
		rec.Key, rec.Value, nullable(rec.Info),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return vault.ErrAlreadyExists
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// UpdateByKey replaces value and info of the record stored under key.
func (s *RecordStore) UpdateByKey(ctx context.Context, key string, rec vault.Record) error {
	h, err := s.handle()
	if err != nil {
		return err
	}

	_, err = h.ExecContext(ctx,
		`UPDATE cred SET value = ?, info = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`,
		rec.Value, nullable(rec.Info), key,
	)
	if err != nil {
		return fmt.Errorf("update record: %w", err)
	}
	return nil
}

// DeleteByKey removes the record stored under key, if any.
func (s *RecordStore) DeleteByKey(ctx context.Context, key string) error {
	h, err := s.handle()
	if err != nil {
		return err
	}

	if _, err := h.ExecContext(ctx, `DELETE FROM cred WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// ExistsByKey reports whether a record is stored under key.
func (s *RecordStore) ExistsByKey(ctx context.Context, key string) (bool, error) {
	h, err := s.handle()
	if err != nil {
		return false, err
	}

	var exists bool
	err = h.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM cred WHERE key = ?)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check record: %w", err)
	}
	return exists, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
