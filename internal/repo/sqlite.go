package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/tags-widget/internal/domain"
)

// OpenSQLite opens the SQLite database at path with the pragmas needed for
// several processes (the API server and the CLI) sharing one file.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("repo.OpenSQLite: %w", err)
	}
	// WAL allows one writer alongside many readers; busy_timeout waits out
	// short lock contention instead of failing with "database is locked".
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repo.OpenSQLite: %s: %w", strings.TrimSuffix(p, ";"), err)
		}
	}
	return db, nil
}

// sqliteKVRepo is the SQLite implementation of KVRepo.
type sqliteKVRepo struct {
	db *sql.DB
}

// NewSQLiteKV constructs a KVRepo backed by a migrated SQLite database.
func NewSQLiteKV(db *sql.DB) KVRepo {
	return &sqliteKVRepo{db: db}
}

func (r *sqliteKVRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT storage_value FROM widget_storage WHERE storage_key = ?`

	var value string
	err := r.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.KVRepo.Get: %w", err)
	}
	return value, nil
}

func (r *sqliteKVRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO widget_storage (storage_key, storage_value)
		VALUES (?, ?)
		ON CONFLICT (storage_key) DO UPDATE
		SET storage_value = excluded.storage_value,
		    updated_at    = CURRENT_TIMESTAMP`

	if _, err := r.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("repo.KVRepo.Set: %w", err)
	}
	return nil
}

func (r *sqliteKVRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM widget_storage WHERE storage_key = ?`

	if _, err := r.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("repo.KVRepo.Delete: %w", err)
	}
	return nil
}

// Keys lists keys by prefix. SQLite's LIKE is case-insensitive for ASCII,
// so the prefix is compared with substr instead.
func (r *sqliteKVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	const q = `
		SELECT storage_key
		FROM widget_storage
		WHERE substr(storage_key, 1, length(?1)) = ?1
		ORDER BY storage_key`

	rows, err := r.db.QueryContext(ctx, q, prefix)
	if err != nil {
		return nil, fmt.Errorf("repo.KVRepo.Keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("repo.KVRepo.Keys: scan: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.KVRepo.Keys: rows: %w", err)
	}
	return keys, nil
}
