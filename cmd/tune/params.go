package main

import (
	"math"

	"github.com/pthm-cable/planisuss/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Integer bool    // rounded before it is applied
}

// ParamVector holds the set of tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard parameter set.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "vegetob_growth", Path: "vegetob.growth", Min: 1, Max: 6, Integer: true},
			{Name: "dominance_margin", Path: "struggle.dominance_margin", Min: 0.1, Max: 2.0},
			{Name: "kill_step", Path: "struggle.kill_step", Min: 0.1, Max: 1.5},
			{Name: "erbast_offspring_energy", Path: "erbast.spawn.offspring_energy", Min: 10, Max: 80, Integer: true},
			{Name: "carviz_offspring_energy", Path: "carviz.spawn.offspring_energy", Min: 10, Max: 80, Integer: true},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

// Normalize converts raw values to the unit range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = (raw[i] - s.Min) / (s.Max - s.Min)
	}
	return out
}

// Denormalize maps unit values back to raw values, clamped to bounds.
func (pv *ParamVector) Denormalize(x []float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		v := s.Min + x[i]*(s.Max-s.Min)
		v = math.Max(s.Min, math.Min(v, s.Max))
		if s.Integer {
			v = math.Round(v)
		}
		out[i] = v
	}
	return out
}

// Extract reads the current parameter values from cfg.
// Order must match Specs order.
func (pv *ParamVector) Extract(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Vegetob.Growth),
		cfg.Struggle.DominanceMargin,
		cfg.Struggle.KillStep,
		float64(cfg.Erbast.Spawn.OffspringEnergy),
		float64(cfg.Carviz.Spawn.OffspringEnergy),
	}
}

// Apply writes raw parameter values into cfg.
func (pv *ParamVector) Apply(cfg *config.Config, raw []float64) {
	cfg.Vegetob.Growth = int(raw[0])
	cfg.Struggle.DominanceMargin = raw[1]
	cfg.Struggle.KillStep = raw[2]
	cfg.Erbast.Spawn.OffspringEnergy = int(raw[3])
	cfg.Carviz.Spawn.OffspringEnergy = int(raw[4])
}
