package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/game"
	"github.com/pthm-cable/planisuss/tui"
	"github.com/pthm-cable/planisuss/viewer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	mode := flag.String("mode", "gui", "Front end: headless, gui or tui")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = use config, or time-based if config seed is 0)")
	days := flag.Int("days", 0, "Stop after N days (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in days (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	historyPath := flag.String("history", "", "SQLite file recording every day of the run")
	logFile := flag.String("log-file", "", "Log destination in tui mode (empty = discard)")

	flag.Parse()

	logger, closeLog, err := newLogger(*mode, *logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath, *seed)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := game.NewGameWithOptions(ctx, cfg, game.Options{
		Days:        *days,
		LogStats:    *logStats,
		StatsWindow: *statsWindow,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		HistoryPath: *historyPath,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, *mode, g, logger); err != nil {
		logger.Error("simulation stopped", "error", err)
		g.Close()
		os.Exit(1)
	}
	if err := g.Close(); err != nil {
		logger.Error("closing outputs", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, mode string, g *game.Game, logger *slog.Logger) error {
	switch mode {
	case "headless":
		logger.Info("starting headless simulation", "seed", g.Config().Seed)
		start := time.Now()
		for !g.Finished(g.Day()) {
			if ctx.Err() != nil {
				logger.Info("interrupted", "day", g.Day())
				return nil
			}
			if err := g.UpdateHeadless(ctx); err != nil {
				return err
			}
		}
		logger.Info("day limit reached", "day", g.Day(), "elapsed", time.Since(start).Round(time.Millisecond))
		return nil
	case "gui":
		return viewer.Run(ctx, g)
	case "tui":
		return tui.Run(ctx, g)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// loadConfig layers defaults, the config file, the environment and the
// seed flag, then validates the result.
func loadConfig(path string, seed uint64) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger logs JSON to stdout, except in tui mode where the terminal
// belongs to the grid and records go to a text file instead.
func newLogger(mode, path string) (*slog.Logger, func(), error) {
	if mode != "tui" {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil)), func() {}, nil
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, nil)), func() { f.Close() }, nil
}
