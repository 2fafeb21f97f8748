package telemetry

import (
	"testing"

	"github.com/pthm-cable/planisuss/config"
)

func newDetector() *BookmarkDetector {
	cfg := config.Default()
	return NewBookmarkDetector(10, cfg.Bookmarks)
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_HuntBreakthrough(t *testing.T) {
	bd := newDetector()

	// History with one kill every five hunts
	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndDay: i * 10, Hunts: 10, Kills: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndDay: 50, Hunts: 10, Kills: 8})
	if !hasBookmark(bookmarks, BookmarkHuntBreakthrough) {
		t.Error("expected hunt_breakthrough bookmark")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndDay: i * 10, ErbastCount: 100, CarvizCount: 10})
	}

	bookmarks := bd.Check(WindowStats{WindowEndDay: 50, ErbastCount: 50, CarvizCount: 10})
	if !hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("expected prey_crash bookmark")
	}

	// The peak resets, so holding at the new level does not re-trigger.
	bookmarks = bd.Check(WindowStats{WindowEndDay: 60, ErbastCount: 50, CarvizCount: 10})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("prey_crash triggered twice")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndDay: i * 10, ErbastCount: 20, CarvizCount: 5})
	}
	// 40% drop but only 8 lost, below the minimum loss.
	bookmarks := bd.Check(WindowStats{WindowEndDay: 30, ErbastCount: 12, CarvizCount: 5})
	if hasBookmark(bookmarks, BookmarkPreyCrash) {
		t.Error("unexpected prey_crash bookmark")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := newDetector()

	for i := 0; i < 3; i++ {
		bd.Check(WindowStats{WindowEndDay: i * 10, ErbastCount: 100, CarvizCount: 2})
	}

	bookmarks := bd.Check(WindowStats{WindowEndDay: 30, ErbastCount: 100, CarvizCount: 10})
	if !hasBookmark(bookmarks, BookmarkPredatorRecovery) {
		t.Error("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := newDetector()

	triggered := 0
	firstAt := -1
	for i := 0; i < 12; i++ {
		bookmarks := bd.Check(WindowStats{WindowEndDay: i * 10, ErbastCount: 100, CarvizCount: 20})
		if hasBookmark(bookmarks, BookmarkStableEcosystem) {
			triggered++
			if firstAt < 0 {
				firstAt = i
			}
		}
	}
	if triggered != 1 {
		t.Fatalf("stable_ecosystem triggered %d times, want 1", triggered)
	}
	// Four windows of history are needed before counting starts.
	if firstAt != 8 {
		t.Errorf("stable_ecosystem at window %d, want 8", firstAt)
	}
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := newDetector()

	if bm := bd.Check(WindowStats{WindowEndDay: 0}); len(bm) != 0 {
		t.Errorf("empty world from the start produced %v", bm)
	}
	bd.Check(WindowStats{WindowEndDay: 10, ErbastCount: 30, CarvizCount: 4})
	bookmarks := bd.Check(WindowStats{WindowEndDay: 20, ErbastCount: 25})
	if !hasBookmark(bookmarks, BookmarkCarvizExtinct) {
		t.Error("expected carviz_extinct bookmark")
	}
	if hasBookmark(bookmarks, BookmarkErbastExtinct) {
		t.Error("unexpected erbast_extinct bookmark")
	}

	bookmarks = bd.Check(WindowStats{WindowEndDay: 30})
	if !hasBookmark(bookmarks, BookmarkErbastExtinct) {
		t.Error("expected erbast_extinct bookmark")
	}
	if hasBookmark(bookmarks, BookmarkCarvizExtinct) {
		t.Error("carviz_extinct reported twice")
	}
}
