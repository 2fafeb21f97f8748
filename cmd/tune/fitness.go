package main

import (
	"io"
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/planisuss/config"
	"github.com/pthm-cable/planisuss/world"
)

// targetRatio is the Erbast to Carviz head count the quality term rewards.
const targetRatio = 5.0

// FitnessEvaluator runs worlds to their first extinction and scores them.
type FitnessEvaluator struct {
	params  *ParamVector
	base    *config.Config
	seeds   []uint64
	maxDays int
	logger  *slog.Logger

	mu          sync.Mutex
	lastDays    float64
	lastQuality float64
}

// NewFitnessEvaluator creates an evaluator over the given seeds.
func NewFitnessEvaluator(params *ParamVector, base *config.Config, seeds []uint64, maxDays int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:  params,
		base:    base,
		seeds:   seeds,
		maxDays: maxDays,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Last returns the mean coexistence days and quality of the most recent
// evaluation.
func (fe *FitnessEvaluator) Last() (days, quality float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastDays, fe.lastQuality
}

// runResult holds the outcome of one seed.
type runResult struct {
	days    int     // days both species were alive
	quality float64 // mean ratio score over those days, in [0, 1]
}

// Evaluate scores raw parameter values (lower is better). Configurations
// that fail validation score zero.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	cfg := fe.base.Clone()
	fe.params.Apply(cfg, raw)
	if err := cfg.Validate(); err != nil {
		fe.record(0, 0)
		return 0
	}

	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			results[idx] = fe.run(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var days, quality float64
	for _, r := range results {
		days += float64(r.days)
		quality += r.quality
	}
	n := float64(len(results))
	days, quality = days/n, quality/n
	fe.record(days, quality)
	return fitness(days, quality)
}

func (fe *FitnessEvaluator) record(days, quality float64) {
	fe.mu.Lock()
	fe.lastDays, fe.lastQuality = days, quality
	fe.mu.Unlock()
}

// run steps one world until a species dies out, a step fails or maxDays.
func (fe *FitnessEvaluator) run(base *config.Config, seed uint64) runResult {
	cfg := base.Clone()
	cfg.Seed = seed
	w, err := world.New(cfg, world.WithLogger(fe.logger))
	if err != nil {
		return runResult{}
	}

	var res runResult
	var scoreSum float64
	for w.Day() < fe.maxDays {
		if err := w.Step(); err != nil {
			break
		}
		st := w.Stats()
		if st.Erbast.Count == 0 || st.Carviz.Count == 0 {
			break
		}
		res.days++
		scoreSum += ratioScore(st.Erbast.Count, st.Carviz.Count)
	}
	if res.days > 0 {
		res.quality = scoreSum / float64(res.days)
	}
	return res
}

// fitness is negative survival with up to a 20% quality bonus, so
// survival dominates and quality separates configs that survive alike.
func fitness(days, quality float64) float64 {
	return -(days * (1 + 0.2*quality))
}

// ratioScore peaks at 1 when erbast/carviz equals targetRatio.
func ratioScore(erbast, carviz int) float64 {
	logErr := math.Log(float64(erbast) / float64(carviz) / targetRatio)
	return math.Exp(-logErr * logErr)
}
