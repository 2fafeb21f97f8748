package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/planisuss/world"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func stats(day, erbast, carviz int) world.Stats {
	var s world.Stats
	s.Day = day
	s.Erbast.Count = erbast
	s.Erbast.Energy = erbast * 50
	s.Carviz.Count = carviz
	s.Events.Kills = day % 3
	s.Vegetob.Total = 1000 + day
	return s
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	const seed = uint64(1) << 63 // does not fit int64
	run, err := s.BeginRun(ctx, seed, 20, 30)
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	for day := 1; day <= 3; day++ {
		if err := s.Record(ctx, run, stats(day, 10*day, day)); err != nil {
			t.Fatalf("Record day %d: %v", day, err)
		}
	}

	runs, err := s.Runs(ctx)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != run || runs[0].Seed != seed || runs[0].Rows != 20 || runs[0].Cols != 30 {
		t.Errorf("runs = %+v", runs)
	}

	days, err := s.Days(ctx, run)
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("got %d days, want 3", len(days))
	}
	for i, d := range days {
		want := stats(i+1, 10*(i+1), i+1)
		if d.Day != want.Day || d.Erbast != want.Erbast.Count || d.ErbastEnergy != want.Erbast.Energy ||
			d.Carviz != want.Carviz.Count || d.Kills != want.Events.Kills || d.VegetobTotal != want.Vegetob.Total {
			t.Errorf("day %d = %+v", i+1, d)
		}
	}
}

func TestRecordDuplicateDay(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	run, err := s.BeginRun(ctx, 1, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, run, stats(1, 5, 1)); err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, run, stats(1, 5, 1)); !errors.Is(err, ErrDuplicateDay) {
		t.Errorf("second Record err = %v, want ErrDuplicateDay", err)
	}

	// The same day in another run is fine.
	other, err := s.BeginRun(ctx, 2, 5, 5)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(ctx, other, stats(1, 5, 1)); err != nil {
		t.Errorf("Record in second run: %v", err)
	}
}

func TestCancelledContext(t *testing.T) {
	s := openStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.BeginRun(ctx, 1, 1, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("BeginRun err = %v, want context.Canceled", err)
	}
	if err := s.Record(ctx, 1, world.Stats{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Record err = %v, want context.Canceled", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Error("Open with blank path succeeded")
	}
	var nilStore *Store
	if err := nilStore.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}
