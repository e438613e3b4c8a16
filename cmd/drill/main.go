package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/portdrill/internal/config"
	"github.com/JonMunkholm/portdrill/internal/console"
	"github.com/JonMunkholm/portdrill/internal/drill"
	"github.com/JonMunkholm/portdrill/internal/logging"
	"github.com/JonMunkholm/portdrill/internal/normalize"
	"github.com/JonMunkholm/portdrill/internal/session"
	"github.com/JonMunkholm/portdrill/internal/table"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if it exists; real environment variables win.
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	closeLogs := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.SeqURL)
	defer closeLogs()

	if envErr != nil {
		slog.Debug("no .env file found, using environment variables")
	}
	slog.Info("configuration loaded", "config", cfg.String())

	mode, err := normalize.ParseMode(cfg.Drill.Normalizer)
	if err != nil {
		slog.Error("invalid normalizer", "error", err)
		return 1
	}

	name := filepath.Base(cfg.Drill.DataFile)
	path := table.Locate(cfg.Drill.DataFile)
	slog.Info("data file resolved", "path", path)

	tbl, err := table.Load(path)
	if err != nil {
		slog.Error("failed to load data file", "error", err)
		fmt.Println(table.FormatUserError(err, name))
		return 1
	}
	if tbl.Empty() {
		// Observed behavior: the message is shown and the process exits normally.
		fmt.Println(table.MapError(table.ErrNoData, name).Text())
		return 0
	}
	slog.Info("table loaded", "records", tbl.Len(), "columns", tbl.Columns())

	markers := drill.GlyphMarkers
	if cfg.Drill.ASCIIMarkers {
		markers = drill.ASCIIMarkers
	}

	logger := slog.Default()
	controller := session.NewController(session.Config{
		Table:    tbl,
		Terminal: console.New(os.Stdin, os.Stdout),
		Engine: drill.NewEngine(drill.Config{
			Normalizer: normalize.New(mode),
			Markers:    markers,
			Rand:       drill.NewRand(cfg.Drill.Seed),
			Logger:     logger,
		}),
		Logger:    logger,
		ShowIntro: cfg.Drill.ShowIntro,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reads block, so an interrupt cannot wait for the loop to notice it.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		slog.Info("interrupted", "signal", sig.String())
		cancel()
		closeLogs()
		fmt.Println()
		os.Exit(130)
	}()

	if err := controller.Run(ctx); err != nil {
		if !errors.Is(err, session.ErrTooFewColumns) {
			slog.Error("session failed", "error", err)
		}
		return 1
	}
	return 0
}
