// Command tagsctl inspects and edits widgets in the store the server uses.
// It reads the same environment variables as the server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/pkordes/tags-widget/internal/bootstrap"
	"github.com/pkordes/tags-widget/internal/cli"
	"github.com/pkordes/tags-widget/internal/config"
	"github.com/pkordes/tags-widget/internal/service"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		return 1
	}

	// stdout carries command output, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx := context.Background()
	kv, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		return 1
	}
	defer closeStore()

	if err := cli.NewRootCmd(service.NewWidgetService(kv, logger)).ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}
