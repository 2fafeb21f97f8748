package world

import (
	"log/slog"

	"github.com/pthm-cable/planisuss/components"
)

// Events counts what happened during the most recent step.
type Events struct {
	Moves       int
	Grazed      int // vegetob mass eaten, equal to energy gained
	Hungry      int
	Hunts       int
	FailedHunts int
	Kills       int
	Rivalries   int
	Joins       int
	Overwhelmed int
	Overcrowded int
}

// SpeciesStats aggregates one species.
type SpeciesStats struct {
	Count              int
	Energy             int
	MeanEnergy         float64
	MeanAge            float64
	MeanLifetime       float64
	MeanSocialAttitude float64
	Groups             int // occupied cells

	// During the most recent step.
	Births   int
	Deaths   int
	DeathsBy [components.NumCauses]int
}

// VegetobStats aggregates the vegetation layer.
type VegetobStats struct {
	Total       int
	Mean        float64
	GroundCells int
	FullCells   int
}

// Stats is a comparable summary of the whole world.
type Stats struct {
	Day     int
	Erbast  SpeciesStats
	Carviz  SpeciesStats
	Vegetob VegetobStats
	Events  Events
}

// Species returns the stats of sp.
func (s *Stats) Species(sp components.Species) *SpeciesStats {
	if sp == components.Carviz {
		return &s.Carviz
	}
	return &s.Erbast
}

// Population returns the total number of individuals.
func (s Stats) Population() int { return s.Erbast.Count + s.Carviz.Count }

// LogValue implements slog.LogValuer for structured logging.
func (s Stats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("day", s.Day),
		slog.Int("erbast", s.Erbast.Count),
		slog.Int("carviz", s.Carviz.Count),
		slog.Float64("erbast_energy_mean", s.Erbast.MeanEnergy),
		slog.Float64("carviz_energy_mean", s.Carviz.MeanEnergy),
		slog.Int("vegetob_total", s.Vegetob.Total),
		slog.Int("kills", s.Events.Kills),
		slog.Int("grazed", s.Events.Grazed),
	)
}

type tally struct {
	births [2]int
	deaths [2][components.NumCauses]int
	Events
}

func (t *tally) death(sp components.Species, cause components.DeathCause) {
	t.deaths[sp][cause]++
}

// Stats returns aggregate counts and energy per species, vegetob totals
// and the events of the most recent step.
func (w *World) Stats() Stats {
	s := Stats{Day: w.day, Events: w.last.Events}

	var ageSum, lifeSum [2]int
	var attSum [2]float64
	w.pop.Each(func(a *components.Animal, _ components.Cell, _ *components.Activity) {
		sp := s.Species(a.Species)
		sp.Count++
		sp.Energy += a.Energy
		ageSum[a.Species] += a.Age
		lifeSum[a.Species] += a.Lifetime
		attSum[a.Species] += a.SocialAttitude
	})

	for _, kind := range []components.Species{components.Erbast, components.Carviz} {
		sp := s.Species(kind)
		if sp.Count > 0 {
			n := float64(sp.Count)
			sp.MeanEnergy = float64(sp.Energy) / n
			sp.MeanAge = float64(ageSum[kind]) / n
			sp.MeanLifetime = float64(lifeSum[kind]) / n
			sp.MeanSocialAttitude = attSum[kind] / n
		}
		for _, size := range w.pop.Sizes(kind) {
			if size > 0 {
				sp.Groups++
			}
		}
		sp.Births = w.last.births[kind]
		sp.DeathsBy = w.last.deaths[kind]
		for _, d := range sp.DeathsBy {
			sp.Deaths += d
		}
	}

	s.Vegetob.Total = w.veg.Total()
	s.Vegetob.GroundCells = w.grid.GroundCount()
	if s.Vegetob.GroundCells > 0 {
		s.Vegetob.Mean = float64(s.Vegetob.Total) / float64(s.Vegetob.GroundCells)
	}
	for _, rc := range w.grid.GroundCells() {
		if w.veg.Full(rc[0], rc[1]) {
			s.Vegetob.FullCells++
		}
	}
	return s
}
