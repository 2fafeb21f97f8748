package telemetry

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/planisuss/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
	BookmarkErbastExtinct    BookmarkType = "erbast_extinct"
	BookmarkCarvizExtinct    BookmarkType = "carviz_extinct"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Day         int          `csv:"day" json:"day"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"day", b.Day,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPredMin      int // minimum Carviz count in recent history
	recentPreyPeak     int // peak Erbast count in recent history
	stableWindowsCount int // consecutive windows with stable populations
	seenErbast         bool
	seenCarviz         bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int, cfg config.BookmarksConfig) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for stable ecosystem detection
	}
	return &BookmarkDetector{
		cfg:         cfg,
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, b...)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Hunt breakthrough: kills per hunt > 2x rolling average
		if b := bd.checkHuntBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPredatorRecovery(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkPreyCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkStableEcosystem(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.CarvizCount < bd.recentPredMin || bd.recentPredMin == 0 {
		bd.recentPredMin = stats.CarvizCount
	}
	if stats.ErbastCount > bd.recentPreyPeak {
		bd.recentPreyPeak = stats.ErbastCount
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	out := make([]WindowStats, 0, bd.historySize)
	out = append(out, bd.history[bd.historyIdx:]...)
	return append(out, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) []Bookmark {
	var out []Bookmark
	if stats.ErbastCount > 0 {
		bd.seenErbast = true
	} else if bd.seenErbast {
		bd.seenErbast = false
		out = append(out, Bookmark{
			Type:        BookmarkErbastExtinct,
			Day:         stats.WindowEndDay,
			Description: "Erbast population reached zero",
		})
	}
	if stats.CarvizCount > 0 {
		bd.seenCarviz = true
	} else if bd.seenCarviz {
		bd.seenCarviz = false
		out = append(out, Bookmark{
			Type:        BookmarkCarvizExtinct,
			Day:         stats.WindowEndDay,
			Description: "Carviz population reached zero",
		})
	}
	return out
}

func (bd *BookmarkDetector) checkHuntBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var totalKills, totalHunts int
	for _, h := range history {
		totalKills += h.Kills
		totalHunts += h.Hunts
	}
	if totalHunts == 0 || stats.Hunts == 0 {
		return nil
	}

	avg := float64(totalKills) / float64(totalHunts)
	if avg == 0 {
		return nil
	}

	current := float64(stats.Kills) / float64(stats.Hunts)
	if current > avg*2.0 && stats.Kills >= 3 {
		return &Bookmark{
			Type:        BookmarkHuntBreakthrough,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Kills per hunt %.2f is %.1fx average (%.2f)", current, current/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats WindowStats) *Bookmark {
	if bd.recentPredMin == 0 || bd.recentPredMin > bd.cfg.PredatorRecoveryLow {
		return nil
	}

	threshold := bd.recentPredMin * bd.cfg.PredatorRecoveryMult
	if stats.CarvizCount >= threshold && stats.CarvizCount >= 2*bd.cfg.PredatorRecoveryLow {
		oldMin := bd.recentPredMin
		bd.recentPredMin = stats.CarvizCount

		return &Bookmark{
			Type:        BookmarkPredatorRecovery,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Carviz population recovered from %d to %d", oldMin, stats.CarvizCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPreyCrash(stats WindowStats) *Bookmark {
	if bd.recentPreyPeak == 0 {
		return nil
	}

	drop := 1.0 - float64(stats.ErbastCount)/float64(bd.recentPreyPeak)
	if drop > bd.cfg.PreyCrashDrop && stats.ErbastCount < bd.recentPreyPeak-bd.cfg.PreyCrashMinLoss {
		oldPeak := bd.recentPreyPeak
		bd.recentPreyPeak = stats.ErbastCount

		return &Bookmark{
			Type:        BookmarkPreyCrash,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Erbast crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.ErbastCount),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkStableEcosystem(stats WindowStats) *Bookmark {
	if stats.ErbastCount < bd.cfg.StableMinPrey || stats.CarvizCount < bd.cfg.StableMinPred {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	prey := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		prey[i] = float64(h.ErbastCount)
		pred[i] = float64(h.CarvizCount)
	}

	limit := bd.cfg.StableCV * bd.cfg.StableCV
	if cv2(prey) < limit && cv2(pred) < limit {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == bd.cfg.StableWindows { // trigger exactly once
		return &Bookmark{
			Type:        BookmarkStableEcosystem,
			Day:         stats.WindowEndDay,
			Description: fmt.Sprintf("Stable ecosystem with %d Erbast, %d Carviz over %d+ windows", stats.ErbastCount, stats.CarvizCount, bd.cfg.StableWindows),
		}
	}
	return nil
}

// cv2 is the squared coefficient of variation (population variance).
func cv2(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values)) / (mean * mean)
}
