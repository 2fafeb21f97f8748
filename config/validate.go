package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalid, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalid }

type validator struct {
	problems []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) check(ok bool, format string, args ...any) {
	if !ok {
		v.addf(format, args...)
	}
}

func (v *validator) intRange(name string, r IntRange, lo int) {
	v.check(r.Min <= r.Max, "%s: min %d > max %d", name, r.Min, r.Max)
	v.check(r.Min >= lo, "%s: min %d below %d", name, r.Min, lo)
}

func (v *validator) floatRange(name string, r FloatRange) {
	v.check(r.Min <= r.Max, "%s: min %g > max %g", name, r.Min, r.Max)
}

func (v *validator) unit(name string, f float64) {
	v.check(f >= 0 && f <= 1, "%s: %g outside [0,1]", name, f)
}

// Validate reports every out-of-range value. The returned error, if any, is
// a *ValidationError.
func (c *Config) Validate() error {
	v := &validator{}

	w := c.World
	v.check(w.Rows > 0 && w.Cols > 0, "world: dimensions %dx%d must be positive", w.Rows, w.Cols)
	t := w.Terrain
	switch t.Generator {
	case GeneratorRandom:
		v.unit("world.terrain.water_prob", t.WaterProb)
	case GeneratorSimplex, GeneratorPerlin:
		v.check(t.NoiseScale > 0, "world.terrain.noise_scale: %g must be positive", t.NoiseScale)
	case GeneratorLayout:
		v.check(len(t.Layout) == w.Rows, "world.terrain.layout: %d rows, want %d", len(t.Layout), w.Rows)
		for i, row := range t.Layout {
			if len(row) != w.Cols {
				v.addf("world.terrain.layout[%d]: %d columns, want %d", i, len(row), w.Cols)
				continue
			}
			for j := 0; j < len(row); j++ {
				switch row[j] {
				case '~', '.', '#':
				default:
					v.addf("world.terrain.layout[%d][%d]: unknown cell %q", i, j, row[j])
				}
			}
		}
	default:
		v.addf("world.terrain.generator: unknown generator %q", t.Generator)
	}

	g := c.Vegetob
	v.check(g.Growth >= 0, "vegetob.growth: %d must not be negative", g.Growth)
	v.check(g.Cap >= 0 && g.Cap <= 100, "vegetob.cap: %d outside [0,100]", g.Cap)
	v.intRange("vegetob.initial", g.Initial, 0)
	v.check(g.Initial.Max <= g.Cap, "vegetob.initial: max %d above cap %d", g.Initial.Max, g.Cap)

	c.Erbast.validate(v, "erbast")
	c.Carviz.validate(v, "carviz")
	v.check(c.Erbast.GrazeCap > 0, "erbast.graze_cap: %d must be positive", c.Erbast.GrazeCap)

	s := c.Struggle
	v.check(s.DominanceMargin > 0, "struggle.dominance_margin: %g must be positive", s.DominanceMargin)
	v.check(s.KillStep > 0, "struggle.kill_step: %g must be positive", s.KillStep)
	v.check(s.MaxKills >= 1, "struggle.max_kills: %d must be at least 1", s.MaxKills)
	v.check(s.CountWeight >= 0, "struggle.count_weight: %g must not be negative", s.CountWeight)
	v.unit("struggle.efficiency", s.Efficiency)
	v.check(s.AttemptCost >= 0, "struggle.attempt_cost: %d must not be negative", s.AttemptCost)
	v.check(s.RivalryCost >= 0, "struggle.rivalry_cost: %d must not be negative", s.RivalryCost)
	v.check(s.WinBonus >= 0, "struggle.win_bonus: %g must not be negative", s.WinBonus)
	v.check(s.JoinAttitude >= 0, "struggle.join_attitude: %g must not be negative", s.JoinAttitude)

	p := c.Population
	v.intRange("population.herds", p.Herds, 0)
	v.intRange("population.herd_size", p.HerdSize, 1)
	v.intRange("population.prides", p.Prides, 0)
	v.intRange("population.pride_size", p.PrideSize, 1)
	v.check(p.HerdSize.Max <= c.Erbast.MaxGroup, "population.herd_size: max %d above erbast.max_group %d", p.HerdSize.Max, c.Erbast.MaxGroup)
	v.check(p.PrideSize.Max <= c.Carviz.MaxGroup, "population.pride_size: max %d above carviz.max_group %d", p.PrideSize.Max, c.Carviz.MaxGroup)
	for i, pl := range p.Placements {
		name := fmt.Sprintf("population.placements[%d]", i)
		sp, ok := c.Species(pl.Species)
		if !ok {
			v.addf("%s: unknown species %q", name, pl.Species)
			continue
		}
		v.check(pl.Row >= 0 && pl.Row < w.Rows && pl.Col >= 0 && pl.Col < w.Cols,
			"%s: cell (%d,%d) out of bounds", name, pl.Row, pl.Col)
		v.check(pl.Energy > 0 && pl.Energy <= sp.MaxEnergy, "%s: energy %d outside [1,%d]", name, pl.Energy, sp.MaxEnergy)
		v.check(pl.Lifetime > 0, "%s: lifetime %d must be positive", name, pl.Lifetime)
		v.check(pl.Age >= 0 && pl.Age < pl.Lifetime, "%s: age %d outside [0,%d)", name, pl.Age, pl.Lifetime)
		v.check(sp.SocialAttitude.Contains(pl.SocialAttitude), "%s: social attitude %g outside [%g,%g]",
			name, pl.SocialAttitude, sp.SocialAttitude.Min, sp.SocialAttitude.Max)
	}

	v.check(c.Telemetry.StatsWindow >= 1, "telemetry.stats_window: %d must be at least 1", c.Telemetry.StatsWindow)
	v.check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen: %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	v.check(c.Screen.CellSize > 0, "screen.cell_size: %g must be positive", c.Screen.CellSize)
	v.check(c.Screen.DaysPerSecond > 0, "screen.days_per_second: %g must be positive", c.Screen.DaysPerSecond)

	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

func (s *SpeciesConfig) validate(v *validator, name string) {
	v.check(s.MaxEnergy > 0, "%s.max_energy: %d must be positive", name, s.MaxEnergy)
	v.intRange(name+".initial_energy", s.InitialEnergy, 1)
	v.check(s.InitialEnergy.Max <= s.MaxEnergy, "%s.initial_energy: max %d above max_energy %d", name, s.InitialEnergy.Max, s.MaxEnergy)
	v.intRange(name+".lifetime", s.Lifetime, 1)
	v.floatRange(name+".social_attitude", s.SocialAttitude)
	v.check(s.AgingInterval >= 1, "%s.aging_interval: %d must be at least 1", name, s.AgingInterval)
	v.check(s.AgingCost >= 0, "%s.aging_cost: %d must not be negative", name, s.AgingCost)
	v.check(s.MaxGroup >= 1, "%s.max_group: %d must be at least 1", name, s.MaxGroup)
	v.check(s.GrazeCap >= 0, "%s.graze_cap: %d must not be negative", name, s.GrazeCap)
	v.check(s.Hunger >= 1, "%s.hunger: %g must be at least 1", name, s.Hunger)
	v.check(s.EatBonus >= 0, "%s.eat_bonus: %g must not be negative", name, s.EatBonus)

	m := s.Movement
	v.check(m.Neighborhood >= 0, "%s.movement.neighborhood: %d must not be negative", name, m.Neighborhood)
	v.check(m.Cost >= 0, "%s.movement.cost: %d must not be negative", name, m.Cost)
	v.unit(name+".movement.group_majority", m.GroupMajority)
	v.check(s.SocialAttitude.Contains(m.SoloAttitude), "%s.movement.solo_attitude: %g outside social_attitude [%g,%g]",
		name, m.SoloAttitude, s.SocialAttitude.Min, s.SocialAttitude.Max)

	sp := s.Spawn
	v.check(sp.MinGroup >= 1, "%s.spawn.min_group: %d must be at least 1", name, sp.MinGroup)
	v.check(sp.MinEnergy >= 0, "%s.spawn.min_energy: %d must not be negative", name, sp.MinEnergy)
	v.check(sp.GroupPerOffspring >= 1, "%s.spawn.group_per_offspring: %d must be at least 1", name, sp.GroupPerOffspring)
	v.check(sp.OffspringEnergy >= 1 && sp.OffspringEnergy <= s.MaxEnergy,
		"%s.spawn.offspring_energy: %d outside [1,%d]", name, sp.OffspringEnergy, s.MaxEnergy)
	v.check(sp.MaxOffspring >= 0, "%s.spawn.max_offspring: %d must not be negative", name, sp.MaxOffspring)
}
