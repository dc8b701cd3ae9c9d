package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tags-widget/internal/bootstrap"
	"github.com/pkordes/tags-widget/internal/config"
)

var discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenStore_Memory(t *testing.T) {
	kv, closeFn, err := bootstrap.OpenStore(context.Background(), config.Config{StoreDriver: config.DriverMemory}, discardLog)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, kv.Set(context.Background(), "w1-is-read-only", "true"))
	v, err := kv.Get(context.Background(), "w1-is-read-only")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

// TestOpenStore_SQLitePersistsAcrossOpens verifies that the sqlite store
// migrates a fresh file and that a second open sees the first one's writes.
func TestOpenStore_SQLitePersistsAcrossOpens(t *testing.T) {
	ctx := context.Background()
	cfg := config.Config{StoreDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "w.sqlite")}

	kv, closeFn, err := bootstrap.OpenStore(ctx, cfg, discardLog)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "w1-tags-collection", `[{"id":123456,"value":"go"}]`))
	closeFn()

	kv, closeFn, err = bootstrap.OpenStore(ctx, cfg, discardLog)
	require.NoError(t, err)
	defer closeFn()

	v, err := kv.Get(ctx, "w1-tags-collection")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":123456,"value":"go"}]`, v)
}

func TestOpenStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	ctx := context.Background()

	kv, closeFn, err := bootstrap.OpenStore(ctx, config.Config{StoreDriver: config.DriverPostgres, DatabaseURL: dsn}, discardLog)
	require.NoError(t, err)
	defer closeFn()

	require.NoError(t, kv.Set(ctx, "bootstrap-test-is-read-only", "false"))
	require.NoError(t, kv.Delete(ctx, "bootstrap-test-is-read-only"))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := bootstrap.OpenStore(context.Background(), config.Config{StoreDriver: "redis"}, discardLog)
	require.ErrorContains(t, err, "redis")
}
