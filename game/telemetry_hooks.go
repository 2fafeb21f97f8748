package game

import (
	"context"

	"github.com/pthm-cable/planisuss/telemetry"
	"github.com/pthm-cable/planisuss/world"
)

// observe feeds one completed day to every output. snap is only taken
// when a window flushes.
func (g *Game) observe(ctx context.Context, st world.Stats, snap func() *world.Snapshot) {
	if err := g.outputManager.WriteDay(telemetry.NewDayStats(st)); err != nil {
		g.logger.Error("failed to write day stats", "error", err)
	}
	if g.history != nil {
		if err := g.history.Record(ctx, g.runID, st); err != nil {
			g.logger.Error("failed to record history", "day", st.Day, "error", err)
		}
	}

	g.collector.Record(st)
	g.flushTelemetry(st.Day, snap)
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry(day int, snap func() *world.Snapshot) {
	if !g.collector.ShouldFlush(day) {
		return
	}

	ws := snap()
	stats := g.collector.Flush(ws)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		g.logger.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndDay); err != nil {
		g.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.logger.Error("failed to write bookmark", "error", err)
		}
		if _, err := g.saveSnapshot(ws, &bm); err != nil {
			g.logger.Error("failed to save snapshot", "error", err)
		}
	}
}

// saveSnapshot writes to the snapshot directory, or under the output
// directory when none is set. With neither configured it does nothing.
func (g *Game) saveSnapshot(ws *world.Snapshot, bookmark *telemetry.Bookmark) (string, error) {
	snapshot := telemetry.NewSnapshot(ws, g.cfg.Seed, bookmark)

	var (
		path string
		err  error
	)
	if g.snapshotDir != "" {
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	} else {
		path, err = g.outputManager.WriteSnapshot(snapshot)
	}
	if err != nil {
		return "", err
	}
	if path != "" {
		g.logger.Info("snapshot saved", "path", path, "day", ws.Day)
	}
	return path, nil
}
