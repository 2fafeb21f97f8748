// Package world aggregates terrain, vegetation and population into one
// simulated Planisuss and advances it one day at a time.
package world

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/population"
	"github.com/pthm-cable/planisuss/terrain"
	"github.com/pthm-cable/planisuss/vegetob"
)

// Profiler receives phase timings. telemetry.PerfCollector satisfies it.
type Profiler interface {
	StartStep()
	StartPhase(phase string)
	EndStep()
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithProfiler reports phase timings of every step to p.
func WithProfiler(p Profiler) Option {
	return func(w *World) { w.profiler = p }
}

// World owns every cell and, through the population store, every
// individual. It is not safe for concurrent use; see Runner.
type World struct {
	cfg  *config.Config
	grid *terrain.Grid
	veg  *vegetob.Layer
	pop  *population.Store

	pcg *rand.PCG
	rng *rand.Rand

	day     int
	last    tally
	extinct [2]bool

	logger   *slog.Logger
	profiler Profiler

	// afterPhase runs after each phase, before its checks.
	afterPhase func(phase string)
}

// New validates cfg and builds a populated world. A configuration error
// is a *config.ValidationError and nothing is constructed.
func New(cfg *config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	grid, err := terrain.Generate(cfg.World, cfg.Seed)
	if err != nil {
		return nil, &config.ValidationError{Problems: []string{err.Error()}}
	}
	if err := checkPlacements(cfg, grid); err != nil {
		return nil, err
	}

	pcg := rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)
	w := &World{
		cfg:    cfg,
		grid:   grid,
		veg:    vegetob.New(grid, cfg.Vegetob.Growth, cfg.Vegetob.Cap),
		pop:    population.New(cfg.World.Rows, cfg.World.Cols),
		pcg:    pcg,
		rng:    rand.New(pcg),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.veg.Seed(w.rng, cfg.Vegetob.Initial)
	if err := w.seed(); err != nil {
		return nil, err
	}
	if err := w.check(true); err != nil {
		return nil, fmt.Errorf("world: initial state: %w", err)
	}

	w.logger.Info("world created",
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"ground", grid.GroundCount(),
		"erbast", w.pop.Count(components.Erbast),
		"carviz", w.pop.Count(components.Carviz),
		"seed", cfg.Seed,
	)
	return w, nil
}

func checkPlacements(cfg *config.Config, grid *terrain.Grid) error {
	var problems []string
	for i, pl := range cfg.Population.Placements {
		if !grid.IsGround(pl.Row, pl.Col) {
			problems = append(problems, fmt.Sprintf("population.placements[%d]: cell (%d,%d) is water", i, pl.Row, pl.Col))
		}
	}
	if len(problems) > 0 {
		return &config.ValidationError{Problems: problems}
	}
	return nil
}

func (w *World) species(sp components.Species) *config.SpeciesConfig {
	if sp == components.Carviz {
		return &w.cfg.Carviz
	}
	return &w.cfg.Erbast
}

func (w *World) draw(r config.IntRange) int {
	return r.Min + w.rng.IntN(r.Max-r.Min+1)
}

func (w *World) drawFloat(r config.FloatRange) float64 {
	return r.Min + w.rng.Float64()*(r.Max-r.Min)
}

// newborn draws a fresh individual of sp.
func (w *World) newborn(sp components.Species, energy int) components.Animal {
	c := w.species(sp)
	return components.Animal{
		Species:        sp,
		Energy:         energy,
		Lifetime:       w.draw(c.Lifetime),
		SocialAttitude: w.drawFloat(c.SocialAttitude),
	}
}

// seed places the explicit individuals, then random herds and prides.
func (w *World) seed() error {
	for _, pl := range w.cfg.Population.Placements {
		sp, _ := components.ParseSpecies(pl.Species)
		a := components.Animal{
			Species:        sp,
			Energy:         pl.Energy,
			Lifetime:       pl.Lifetime,
			Age:            pl.Age,
			SocialAttitude: pl.SocialAttitude,
		}
		if _, err := w.pop.Add(a, pl.Row, pl.Col, components.Activity{}); err != nil {
			return fmt.Errorf("world: placing individual: %w", err)
		}
	}

	ground := w.grid.GroundCells()
	if len(ground) == 0 {
		return nil
	}
	p := w.cfg.Population
	groups := []struct {
		sp    components.Species
		count config.IntRange
		size  config.IntRange
	}{
		{components.Erbast, p.Herds, p.HerdSize},
		{components.Carviz, p.Prides, p.PrideSize},
	}
	for _, g := range groups {
		c := w.species(g.sp)
		n := w.draw(g.count)
		for i := 0; i < n; i++ {
			rc := ground[w.rng.IntN(len(ground))]
			size := min(w.draw(g.size), c.MaxGroup-w.pop.Size(g.sp, rc[0], rc[1]))
			for j := 0; j < size; j++ {
				a := w.newborn(g.sp, w.draw(c.InitialEnergy))
				if _, err := w.pop.Add(a, rc[0], rc[1], components.Activity{}); err != nil {
					return fmt.Errorf("world: seeding %v: %w", g.sp, err)
				}
			}
		}
	}
	return nil
}

// Day returns the number of completed days.
func (w *World) Day() int { return w.day }

// Rows returns the grid height.
func (w *World) Rows() int { return w.grid.Rows() }

// Cols returns the grid width.
func (w *World) Cols() int { return w.grid.Cols() }

// Terrain returns the static terrain grid.
func (w *World) Terrain() *terrain.Grid { return w.grid }

// Config returns a copy of the configuration the world was built with.
func (w *World) Config() *config.Config { return w.cfg.Clone() }

// Individual is a read-only copy of one animal.
type Individual struct {
	ID             uint64
	Species        components.Species
	Energy         int
	Age            int
	Lifetime       int
	SocialAttitude float64
}

// CellView is a copy of one cell's contents.
type CellView struct {
	Row, Col int
	Terrain  terrain.Kind
	Density  int // zero on water
	Herd     []Individual
	Pride    []Individual
}

// Ground reports whether the cell is Ground.
func (c *CellView) Ground() bool { return c.Terrain == terrain.Ground }

func individuals(group []population.Individual) []Individual {
	if len(group) == 0 {
		return nil
	}
	out := make([]Individual, len(group))
	for k, ind := range group {
		out[k] = Individual{
			ID:             ind.ID,
			Species:        ind.Species,
			Energy:         ind.Energy,
			Age:            ind.Age,
			Lifetime:       ind.Lifetime,
			SocialAttitude: ind.SocialAttitude,
		}
	}
	return out
}

// Cell returns a copy of (row, col): terrain, density and members.
func (w *World) Cell(row, col int) (CellView, error) {
	if !w.grid.In(row, col) {
		return CellView{}, fmt.Errorf("world: (%d,%d): %w", row, col, ErrOutOfBounds)
	}
	v := CellView{Row: row, Col: col, Terrain: w.grid.At(row, col)}
	if d, ok := w.veg.Density(row, col); ok {
		v.Density = d
	}
	v.Herd = individuals(w.pop.Group(components.Erbast, row, col))
	v.Pride = individuals(w.pop.Group(components.Carviz, row, col))
	return v, nil
}

// Snapshot is a deep copy of the world at a day boundary, safe to read
// from other goroutines.
type Snapshot struct {
	Day   int
	Rows  int
	Cols  int
	Cells []CellView // row-major
	Stats Stats
}

// At returns the cell view at (row, col), or nil when out of range.
func (s *Snapshot) At(row, col int) *CellView {
	if row < 0 || row >= s.Rows || col < 0 || col >= s.Cols {
		return nil
	}
	return &s.Cells[row*s.Cols+col]
}

// Snapshot copies every cell.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		Day:   w.day,
		Rows:  w.grid.Rows(),
		Cols:  w.grid.Cols(),
		Cells: make([]CellView, w.grid.Len()),
		Stats: w.Stats(),
	}
	for r := 0; r < s.Rows; r++ {
		for c := 0; c < s.Cols; c++ {
			v := &s.Cells[r*s.Cols+c]
			v.Row, v.Col = r, c
			v.Terrain = w.grid.At(r, c)
			if d, ok := w.veg.Density(r, c); ok {
				v.Density = d
			}
		}
	}
	for _, ind := range w.pop.All() {
		v := &s.Cells[ind.Cell.Row*s.Cols+ind.Cell.Col]
		cp := individuals([]population.Individual{ind})[0]
		if ind.Species == components.Erbast {
			v.Herd = append(v.Herd, cp)
		} else {
			v.Pride = append(v.Pride, cp)
		}
	}
	return s
}
