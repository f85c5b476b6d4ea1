// Command go-jf-snapshot serves a small HTTP API that matches active Jellyfin
// playback sessions against user-supplied filters and records the matches to
// a flat JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opd-ai/go-jf-snapshot/internal/jellyfin"
	"github.com/opd-ai/go-jf-snapshot/internal/server"
	"github.com/opd-ai/go-jf-snapshot/internal/snapshot"
	"github.com/opd-ai/go-jf-snapshot/internal/storage"
	"github.com/opd-ai/go-jf-snapshot/pkg/config"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(&cfg.Logging)
	slog.SetDefault(logger)

	client := jellyfin.New(&cfg.Jellyfin, logger)
	store := storage.New(cfg.Store.Path, logger)
	service := snapshot.NewService(client, store, logger)
	srv := server.New(&cfg.Server, service, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connectivity probe only; a down media server should not keep the API
	// from starting.
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := client.TestConnection(probeCtx); err != nil {
		logger.Warn("Jellyfin server unreachable at startup", "error", err)
	}
	cancel()

	return srv.Start(ctx)
}

// newLogger builds the process-wide structured logger from the logging config.
func newLogger(cfg *config.LoggingConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.GetLogLevel()}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
