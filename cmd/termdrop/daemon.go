package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/termdrop/internal/config"
	"github.com/1broseidon/termdrop/internal/dropdown"
	"github.com/1broseidon/termdrop/internal/ipc"
	"github.com/1broseidon/termdrop/internal/platform"
	"github.com/1broseidon/termdrop/internal/runtimepath"
)

// runDaemon connects to the compositor and serves events until it shuts
// down or ctx is cancelled.
func runDaemon(ctx context.Context, res *config.LoadResult, clientArgs []string) error {
	logger := newLogger(os.Stderr, res.Config.Debug)

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return err
	}
	conn, err := ipc.Dial(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", socketPath, err)
	}
	defer conn.Close()

	version, err := conn.GetVersion()
	if err != nil {
		logger.Warn("failed to query compositor version", "error", err)
	}
	family := platform.Detect(socketPath, version)

	opts, err := config.Resolve(res.Config, family, clientArgs)
	if err != nil {
		return err
	}

	backend := dropdown.NewBackend(family)
	machine := dropdown.New(conn, backend, opts, logger)
	machine.Attach(conn)

	logger.Info("termdrop started",
		"socket", socketPath,
		"family", string(family),
		"name", opts.Name,
		"criterion", string(opts.Client.Criterion),
		"position", opts.Position.String(),
		"config", res.File)

	if err := conn.Main(ctx); err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	logger.Info("termdrop stopped")
	return nil
}

// newLogger writes human-readable lines to a terminal and JSON otherwise,
// e.g. when started from the compositor with output redirected to a file.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
