// Package game hosts a World for the entry point and the viewers. It
// advances the world, feeds every finished day to telemetry and the
// history store, and hands snapshots to whoever draws them.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/history"
	"github.com/pthm-cable/planisuss/telemetry"
	"github.com/pthm-cable/planisuss/world"
)

// Options configures a Game.
type Options struct {
	Days        int // stop after this many days (0 = unlimited)
	LogStats    bool
	StatsWindow int // days per stats window (0 = use config)
	SnapshotDir string
	OutputDir   string
	HistoryPath string
	Logger      *slog.Logger
}

// Game holds a world and its telemetry pipeline.
type Game struct {
	cfg    *config.Config
	world  *world.World
	runner *world.Runner
	logger *slog.Logger

	stopRunner context.CancelFunc
	runnerDone chan struct{} // closed when the runner goroutine returns

	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	history          *history.Store
	runID            int64

	days        int
	logStats    bool
	snapshotDir string
}

// NewGameWithOptions builds the world from cfg and opens the configured
// outputs. cfg must already be validated; world.New rejects it otherwise.
func NewGameWithOptions(ctx context.Context, cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	window := cfg.Telemetry.StatsWindow
	if opts.StatsWindow > 0 {
		window = opts.StatsWindow
	}

	g := &Game{
		cfg:              cfg,
		logger:           logger,
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:        telemetry.NewCollector(window),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistorySize, cfg.Bookmarks),
		days:             opts.Days,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
	}

	w, err := world.New(cfg, world.WithLogger(logger), world.WithProfiler(g.perfCollector))
	if err != nil {
		return nil, err
	}
	g.world = w

	g.outputManager, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.outputManager.WriteConfig(cfg); err != nil {
		g.Close()
		return nil, err
	}

	if opts.HistoryPath != "" {
		g.history, err = history.Open(opts.HistoryPath)
		if err != nil {
			g.Close()
			return nil, err
		}
		g.runID, err = g.history.BeginRun(ctx, cfg.Seed, w.Rows(), w.Cols())
		if err != nil {
			g.Close()
			return nil, err
		}
		logger.Info("recording history", "path", opts.HistoryPath, "run", g.runID)
	}

	return g, nil
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Perf returns the phase and frame timing collector.
func (g *Game) Perf() *telemetry.PerfCollector { return g.perfCollector }

// Finished reports whether day reached the configured day limit.
func (g *Game) Finished(day int) bool {
	return g.days > 0 && day >= g.days
}

// UpdateHeadless advances the world by one day on the calling goroutine.
// A failed step leaves the world at the previous day.
func (g *Game) UpdateHeadless(ctx context.Context) error {
	if g.runner != nil {
		return errors.New("game: world is owned by a runner")
	}
	if err := g.world.Step(); err != nil {
		return err
	}
	g.observe(ctx, g.world.Stats(), g.world.Snapshot)
	return nil
}

// Day returns the current day in headless mode.
func (g *Game) Day() int {
	if g.runner != nil {
		return g.runner.Latest().Day
	}
	return g.world.Day()
}

// Start hands the world to a background runner for interactive modes.
// Every day the runner completes is observed on the runner goroutine.
func (g *Game) Start(ctx context.Context) {
	if g.runner != nil {
		return
	}
	g.runner = world.NewRunner(g.world)
	g.runner.OnStep(func(s *world.Snapshot) {
		g.observe(ctx, s.Stats, func() *world.Snapshot { return s })
	})

	// The runner gets its own cancel so Close can stop it; outputs keep
	// ctx so the day in flight is still recorded.
	runCtx, cancel := context.WithCancel(ctx)
	g.stopRunner = cancel
	g.runnerDone = make(chan struct{})
	go func() {
		defer close(g.runnerDone)
		if err := g.runner.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			g.logger.Error("runner stopped", "error", err)
		}
	}()
}

// Latest returns the most recent day-boundary snapshot.
func (g *Game) Latest() *world.Snapshot {
	if g.runner != nil {
		return g.runner.Latest()
	}
	return g.world.Snapshot()
}

// Request asks the runner for days more steps. It is refused while a
// batch is running, before Start, or past the day limit.
func (g *Game) Request(days int) bool {
	if g.runner == nil || g.stopRunner == nil || g.Finished(g.runner.Latest().Day) {
		return false
	}
	return g.runner.Request(days)
}

// Busy reports whether the runner is stepping.
func (g *Game) Busy() bool {
	return g.runner != nil && g.runner.Busy()
}

// Poll returns the result of a finished batch without blocking.
func (g *Game) Poll() (world.Result, bool) {
	if g.runner == nil {
		return world.Result{}, false
	}
	select {
	case res := <-g.runner.Done():
		if res.Err != nil {
			g.logger.Error("step failed", "day", res.Day, "error", res.Err)
		}
		return res, true
	default:
		return world.Result{}, false
	}
}

// ExportSnapshot writes snap as JSON and returns the path.
func (g *Game) ExportSnapshot(snap *world.Snapshot) (string, error) {
	return g.saveSnapshot(snap, nil)
}

// Close stops the runner, waits for the day in flight to be observed,
// then flushes and closes every output.
func (g *Game) Close() error {
	if g.stopRunner != nil {
		g.stopRunner()
		<-g.runnerDone
		g.stopRunner = nil
	}

	var errs []error
	if err := g.outputManager.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing output: %w", err))
	}
	if err := g.history.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing history: %w", err))
	}
	return errors.Join(errs...)
}
