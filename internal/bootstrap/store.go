// Package bootstrap opens the configured widget store. Both the API server
// and the CLI go through OpenStore so they always agree on where state lives.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tags-widget/internal/config"
	"github.com/pkordes/tags-widget/internal/repo"
)

// OpenStore connects to the store selected by cfg.StoreDriver, applies any
// pending migrations, and returns the KVRepo with a function releasing it.
func OpenStore(ctx context.Context, cfg config.Config, log *slog.Logger) (repo.KVRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; widget state is lost on exit")
		return repo.NewMemoryKV(), func() {}, nil

	case config.DriverSQLite:
		db, err := repo.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap.OpenStore: %w", err)
		}
		if err := repo.Migrate(ctx, goose.DialectSQLite3, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("bootstrap.OpenStore: %w", err)
		}
		log.Info("sqlite store ready", "path", cfg.SQLitePath)
		return repo.NewSQLiteKV(db), func() { db.Close() }, nil

	case config.DriverPostgres:
		// pgxpool.New does not open connections immediately; Ping verifies
		// the DB is reachable before accepting traffic.
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("bootstrap.OpenStore: create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap.OpenStore: ping: %w", err)
		}
		// goose drives database/sql, so migrations run over a *sql.DB view
		// of the same pool.
		db := stdlib.OpenDBFromPool(pool)
		if err := repo.Migrate(ctx, goose.DialectPostgres, db); err != nil {
			db.Close()
			pool.Close()
			return nil, nil, fmt.Errorf("bootstrap.OpenStore: %w", err)
		}
		log.Info("database connection established")
		return repo.NewPostgresKV(pool), func() {
			db.Close()
			pool.Close()
		}, nil
	}
	return nil, nil, fmt.Errorf("bootstrap.OpenStore: unknown store driver %q", cfg.StoreDriver)
}
