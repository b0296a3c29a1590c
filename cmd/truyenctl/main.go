// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command truyenctl inspects and maintains TruyenNet reader data from a shell.
//
// It reads the same environment as the API server (STORAGE_BACKEND,
// DATA_DIR, REDIS_URL, ...), so it operates on the server's data directly.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taibuivan/truyennet/internal/cli"
	"github.com/taibuivan/truyennet/internal/platform/config"
	"github.com/taibuivan/truyennet/internal/platform/constants"
	"github.com/taibuivan/truyennet/internal/platform/kv"
	"github.com/taibuivan/truyennet/internal/platform/storage"
)

func main() {
	// Logs go to stderr so command output stays pipeable.
	level := slog.LevelWarn
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName+"ctl"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Deps{
		Config: cfg,
		Logger: log,
		Out:    os.Stdout,
		OpenStore: func(ctx context.Context) (kv.Backend, error) {
			return storage.Open(ctx, cfg, log)
		},
	})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
