package telemetry

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/planisuss/world"
)

// stepTiming is the wall time of one day and of each phase within it.
type stepTiming struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps the timings of the last window steps. It satisfies
// world.Profiler. Steps may be timed on a runner goroutine while frames
// are recorded on the render thread.
type PerfCollector struct {
	mu sync.Mutex

	window []stepTiming // ring, oldest overwritten first
	next   int
	filled bool

	cur        stepTiming
	stepStart  time.Time
	phase      string
	phaseStart time.Time

	lastFrame time.Time
	frame     time.Duration // smoothed frame time
}

// frameSmoothing weights the newest frame in the moving average.
const frameSmoothing = 0.2

// NewPerfCollector keeps the last windowSize steps (60 when not positive).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]stepTiming, windowSize)}
}

func (p *PerfCollector) StartStep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stepStart = time.Now()
	p.cur = stepTiming{phases: make(map[string]time.Duration, len(world.Phases))}
	p.phase = ""
}

func (p *PerfCollector) StartPhase(phase string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.closePhase(now)
	p.phase, p.phaseStart = phase, now
}

func (p *PerfCollector) EndStep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.stepStart)

	p.window[p.next] = p.cur
	p.next++
	if p.next == len(p.window) {
		p.next, p.filled = 0, true
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	p.mu.Lock()
	defer p.mu.Unlock()
	now := time.Now()
	if !p.lastFrame.IsZero() {
		d := now.Sub(p.lastFrame)
		if p.frame == 0 {
			p.frame = d
		} else {
			p.frame += time.Duration(frameSmoothing * float64(d-p.frame))
		}
	}
	p.lastFrame = now
}

// PerfStats summarizes the current window.
type PerfStats struct {
	Steps    int
	MeanStep time.Duration
	P50Step  time.Duration
	P95Step  time.Duration
	MaxStep  time.Duration

	PhaseMean  map[string]time.Duration
	PhaseShare map[string]float64 // percent of the mean step

	StepsPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes the window summary. Frame timing is reported even when
// no step has been timed.
func (p *PerfCollector) Stats() PerfStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := PerfStats{
		PhaseMean:     make(map[string]time.Duration),
		PhaseShare:    make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}

	timings := p.window[:p.next]
	if p.filled {
		timings = p.window
	}
	if len(timings) == 0 {
		return s
	}

	totals := make([]float64, len(timings))
	sums := make(map[string]time.Duration)
	for i, t := range timings {
		totals[i] = float64(t.total)
		for name, d := range t.phases {
			sums[name] += d
		}
	}
	slices.Sort(totals)

	s.Steps = len(timings)
	s.MeanStep = time.Duration(stat.Mean(totals, nil))
	s.P50Step = time.Duration(stat.Quantile(0.5, stat.Empirical, totals, nil))
	s.P95Step = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	s.MaxStep = time.Duration(totals[len(totals)-1])
	if s.MeanStep > 0 {
		s.StepsPerSecond = float64(time.Second) / float64(s.MeanStep)
	}
	for name, sum := range sums {
		mean := sum / time.Duration(len(timings))
		s.PhaseMean[name] = mean
		if s.MeanStep > 0 {
			s.PhaseShare[name] = 100 * float64(mean) / float64(s.MeanStep)
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "window", s)
}

// LogValue implements slog.LogValuer. Phases appear in execution order;
// those under a tenth of a percent are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("steps", s.Steps),
		slog.Int64("mean_step_us", s.MeanStep.Microseconds()),
		slog.Int64("p95_step_us", s.P95Step.Microseconds()),
		slog.Int64("max_step_us", s.MaxStep.Microseconds()),
		slog.Int("steps_per_sec", int(s.StepsPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, phase := range world.Phases {
		if pct := s.PhaseShare[phase]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd      int     `csv:"window_end"`
	MeanStepUS     int64   `csv:"mean_step_us"`
	P50StepUS      int64   `csv:"p50_step_us"`
	P95StepUS      int64   `csv:"p95_step_us"`
	MaxStepUS      int64   `csv:"max_step_us"`
	StepsPerSec    float64 `csv:"steps_per_sec"`
	FPS            float64 `csv:"fps"`
	GrowPct        float64 `csv:"grow_pct"`
	OverwhelmPct   float64 `csv:"overwhelm_pct"`
	MovePct        float64 `csv:"move_pct"`
	GrazePct       float64 `csv:"graze_pct"`
	StrugglePct    float64 `csv:"struggle_pct"`
	SpawnPct       float64 `csv:"spawn_pct"`
	BookkeepingPct float64 `csv:"bookkeeping_pct"`
}

// ToCSV flattens the summary for the window ending on day windowEnd.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		MeanStepUS:     s.MeanStep.Microseconds(),
		P50StepUS:      s.P50Step.Microseconds(),
		P95StepUS:      s.P95Step.Microseconds(),
		MaxStepUS:      s.MaxStep.Microseconds(),
		StepsPerSec:    s.StepsPerSecond,
		FPS:            s.FPS,
		GrowPct:        s.PhaseShare[world.PhaseGrow],
		OverwhelmPct:   s.PhaseShare[world.PhaseOverwhelm],
		MovePct:        s.PhaseShare[world.PhaseMove],
		GrazePct:       s.PhaseShare[world.PhaseGraze],
		StrugglePct:    s.PhaseShare[world.PhaseStruggle],
		SpawnPct:       s.PhaseShare[world.PhaseSpawn],
		BookkeepingPct: s.PhaseShare[world.PhaseBookkeeping],
	}
}
