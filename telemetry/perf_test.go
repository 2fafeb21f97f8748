package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/planisuss/world"
)

var _ world.Profiler = (*PerfCollector)(nil)

// timeStep records one step whose phases sleep for the given durations.
func timeStep(pc *PerfCollector, phases []string, sleeps []time.Duration) {
	pc.StartStep()
	for i, name := range phases {
		pc.StartPhase(name)
		time.Sleep(sleeps[i])
	}
	pc.EndStep()
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		timeStep(pc, []string{world.PhaseMove, world.PhaseGraze},
			[]time.Duration{100 * time.Microsecond, 200 * time.Microsecond})
	}

	stats := pc.Stats()
	if stats.Steps != 5 {
		t.Errorf("Steps = %d, want 5", stats.Steps)
	}
	if stats.MeanStep <= 0 || stats.StepsPerSecond <= 0 {
		t.Errorf("MeanStep = %v, StepsPerSecond = %v, want positive", stats.MeanStep, stats.StepsPerSecond)
	}
	for _, phase := range []string{world.PhaseMove, world.PhaseGraze} {
		if stats.PhaseMean[phase] <= 0 {
			t.Errorf("phase %s not tracked", phase)
		}
	}
	if _, ok := stats.PhaseMean[world.PhaseGrow]; ok {
		t.Error("untimed phase reported")
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	pc := NewPerfCollector(4)
	for i := 0; i < 10; i++ {
		timeStep(pc, []string{world.PhaseMove}, []time.Duration{0})
	}
	if stats := pc.Stats(); stats.Steps != 4 {
		t.Errorf("Steps = %d, want window size 4", stats.Steps)
	}
}

func TestPerfCollectorQuantilesOrdered(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 0; i < 10; i++ {
		timeStep(pc, []string{"work"}, []time.Duration{time.Duration(i*50) * time.Microsecond})
	}
	s := pc.Stats()
	if !(s.P50Step <= s.P95Step && s.P95Step <= s.MaxStep) {
		t.Errorf("quantiles out of order: p50 %v p95 %v max %v", s.P50Step, s.P95Step, s.MaxStep)
	}
}

func TestPerfCollectorShares(t *testing.T) {
	pc := NewPerfCollector(10)
	for i := 0; i < 5; i++ {
		timeStep(pc, []string{"fast", "slow"}, []time.Duration{10 * time.Microsecond, 500 * time.Microsecond})
	}

	stats := pc.Stats()
	if fast, slow := stats.PhaseShare["fast"], stats.PhaseShare["slow"]; slow <= fast {
		t.Errorf("slow share %v%% <= fast share %v%%", slow, fast)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.Steps != 0 || stats.MeanStep != 0 {
		t.Errorf("empty collector reported %d steps, mean %v", stats.Steps, stats.MeanStep)
	}
	if stats.PhaseMean == nil || stats.PhaseShare == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrames(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("FrameDuration = %v, want >= 15ms", stats.FrameDuration)
	}
	if stats.FPS < 20 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want roughly 60", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		MeanStep: 1500 * time.Microsecond,
		P95Step:  2 * time.Millisecond,
		PhaseShare: map[string]float64{
			world.PhaseMove:     40,
			world.PhaseStruggle: 25,
		},
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.MeanStepUS != 1500 || row.P95StepUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.MovePct != 40 || row.StrugglePct != 25 || row.GrowPct != 0 {
		t.Errorf("MovePct = %v, StrugglePct = %v, GrowPct = %v", row.MovePct, row.StrugglePct, row.GrowPct)
	}
}
