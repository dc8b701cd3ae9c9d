// Package repo contains all storage access logic for the tags widget.
// The widget persists through a flat string key-value store; this package
// provides that store on Postgres, SQLite, and in memory.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/tags-widget/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// KVRepo defines the persistence operations of the widget key-value store.
// The service layer depends on this interface, not on a concrete backend,
// which allows it to be unit-tested against the in-memory store.
type KVRepo interface {
	// Get returns the value stored under key.
	// Returns domain.ErrNotFound if the key has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, in ascending order.
	// If prefix is empty, all keys are returned.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// pgKVRepo is the Postgres implementation of KVRepo.
type pgKVRepo struct {
	db db
}

// NewPostgresKV constructs a KVRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresKV(db db) KVRepo {
	return &pgKVRepo{db: db}
}

// Get retrieves a value by key.
func (r *pgKVRepo) Get(ctx context.Context, key string) (string, error) {
	const q = `
		SELECT storage_value
		FROM widget_storage
		WHERE storage_key = @key`

	var value string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key}).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("repo.KVRepo.Get: %w", domain.ErrNotFound)
		}
		return "", fmt.Errorf("repo.KVRepo.Get: %w", err)
	}
	return value, nil
}

// Set upserts a value. updated_at is refreshed on every write.
func (r *pgKVRepo) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO widget_storage (storage_key, storage_value)
		VALUES (@key, @value)
		ON CONFLICT (storage_key) DO UPDATE
		SET storage_value = EXCLUDED.storage_value,
		    updated_at    = now()`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key, "value": value})
	if err != nil {
		return fmt.Errorf("repo.KVRepo.Set: %w", err)
	}
	return nil
}

// Delete removes a key.
func (r *pgKVRepo) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM widget_storage WHERE storage_key = @key`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"key": key}); err != nil {
		return fmt.Errorf("repo.KVRepo.Delete: %w", err)
	}
	return nil
}

// Keys lists keys by prefix. The prefix is matched literally: LIKE
// wildcards in it are escaped.
func (r *pgKVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	const q = `
		SELECT storage_key
		FROM widget_storage
		WHERE storage_key LIKE @pattern ESCAPE '\'
		ORDER BY storage_key`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pattern": likePrefix(prefix)})
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

// likePrefix turns prefix into a LIKE pattern matching it literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
