package world

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/planisuss/components"
	"github.com/pthm-cable/planisuss/decide"
	"github.com/pthm-cable/planisuss/population"
)

// Phase names, in execution order.
const (
	PhaseGrow        = "grow"
	PhaseOverwhelm   = "overwhelm"
	PhaseMove        = "move"
	PhaseGraze       = "graze"
	PhaseStruggle    = "struggle"
	PhaseSpawn       = "spawn"
	PhaseBookkeeping = "bookkeeping"
)

// Phases lists every phase name in execution order.
var Phases = []string{
	PhaseGrow, PhaseOverwhelm, PhaseMove, PhaseGraze,
	PhaseStruggle, PhaseSpawn, PhaseBookkeeping,
}

type saved struct {
	pop     population.Saved
	density []int
	rng     []byte
	day     int
	last    tally
	extinct [2]bool
}

func (w *World) save() (saved, error) {
	state, err := w.pcg.MarshalBinary()
	if err != nil {
		return saved{}, fmt.Errorf("world: saving random state: %w", err)
	}
	return saved{
		pop:     w.pop.Save(),
		density: w.veg.Values(),
		rng:     state,
		day:     w.day,
		last:    w.last,
		extinct: w.extinct,
	}, nil
}

func (w *World) restore(s saved) error {
	w.veg.Restore(s.density)
	w.day = s.day
	w.last = s.last
	w.extinct = s.extinct
	return errors.Join(w.pop.Restore(s.pop), w.pcg.UnmarshalBinary(s.rng))
}

// Step advances exactly one day: grow, overwhelm, move, graze, struggle,
// spawn, bookkeeping. The world is checked after every phase; on any
// failure, including a panic, it is restored to its state before the step
// and an *InvariantError is returned.
func (w *World) Step() (err error) {
	before, err := w.save()
	if err != nil {
		return err
	}
	if w.profiler != nil {
		w.profiler.StartStep()
		defer w.profiler.EndStep()
	}

	phase := ""
	defer func() {
		if r := recover(); r != nil {
			err = &InvariantError{Day: before.day, Phase: phase, Detail: fmt.Sprint(r)}
		}
		if err == nil {
			return
		}
		if rerr := w.restore(before); rerr != nil {
			err = errors.Join(err, rerr)
		}
		w.logger.Error("step rolled back", "day", before.day, "phase", phase, "err", err)
	}()

	w.last = tally{}
	steps := []func() error{
		w.grow, w.overwhelm, w.move, w.graze,
		w.struggle, w.spawn, w.bookkeeping,
	}
	for i, run := range steps {
		phase = Phases[i]
		if w.profiler != nil {
			w.profiler.StartPhase(phase)
		}
		if err := run(); err != nil {
			return &InvariantError{Day: before.day, Phase: phase, Detail: err.Error()}
		}
		if w.afterPhase != nil {
			w.afterPhase(phase)
		}
		if err := w.check(phase == PhaseBookkeeping); err != nil {
			return &InvariantError{Day: before.day, Phase: phase, Detail: err.Error()}
		}
	}

	w.day++
	w.noteExtinctions()
	w.logger.Debug("day complete",
		"day", w.day,
		"erbast", w.pop.Count(components.Erbast),
		"carviz", w.pop.Count(components.Carviz),
	)
	return nil
}

func (w *World) noteExtinctions() {
	for _, sp := range []components.Species{components.Erbast, components.Carviz} {
		gone := w.pop.Count(sp) == 0
		if gone && !w.extinct[sp] {
			w.logger.Info("species extinct", "species", sp.String(), "day", w.day)
		}
		w.extinct[sp] = gone
	}
}

// check verifies membership, bounds and density. At the end of a day no
// individual may have reached its lifetime or run out of energy.
func (w *World) check(endOfDay bool) error {
	if err := w.pop.Check(); err != nil {
		return err
	}
	if err := w.veg.Check(); err != nil {
		return err
	}
	var err error
	w.pop.Each(func(a *components.Animal, c components.Cell, _ *components.Activity) {
		if err != nil {
			return
		}
		sp := w.species(a.Species)
		switch {
		case !w.grid.IsGround(c.Row, c.Col):
			err = fmt.Errorf("individual %d on water at (%d,%d)", a.ID, c.Row, c.Col)
		case a.Energy < 0 || a.Energy > sp.MaxEnergy:
			err = fmt.Errorf("individual %d energy %d outside [0,%d]", a.ID, a.Energy, sp.MaxEnergy)
		case a.Lifetime < 1 || a.Age < 0 || a.Age > a.Lifetime:
			err = fmt.Errorf("individual %d age %d lifetime %d", a.ID, a.Age, a.Lifetime)
		case !sp.SocialAttitude.Contains(a.SocialAttitude):
			err = fmt.Errorf("individual %d social attitude %g out of range", a.ID, a.SocialAttitude)
		case endOfDay && (a.Age >= a.Lifetime || a.Energy <= 0):
			err = fmt.Errorf("individual %d survived the day with age %d/%d energy %d", a.ID, a.Age, a.Lifetime, a.Energy)
		}
	})
	return err
}

// members returns the decision view of the active individuals of sp at
// cell c: not newborn, not doomed, and accepted by keep if given.
func (w *World) members(sp components.Species, c components.Cell, keep func(population.Individual) bool) []decide.Member {
	group := w.pop.Group(sp, c.Row, c.Col)
	out := make([]decide.Member, 0, len(group))
	for _, ind := range group {
		if ind.Activity.Busy() || (keep != nil && !keep(ind)) {
			continue
		}
		out = append(out, decide.Member{
			ID:             ind.ID,
			Energy:         ind.Energy,
			SocialAttitude: ind.SocialAttitude,
			Origin:         ind.Activity.Origin,
		})
	}
	return out
}

func (w *World) ref(id uint64) (*components.Animal, *components.Activity, error) {
	a, act, ok := w.pop.Ref(id)
	if !ok {
		return nil, nil, fmt.Errorf("individual %d: %w", id, population.ErrUnknown)
	}
	return a, act, nil
}

func (w *World) doom(id uint64, cause components.DeathCause) error {
	_, act, err := w.ref(id)
	if err != nil {
		return err
	}
	act.Doomed = true
	act.Cause = cause
	return nil
}

func (w *World) grow() error {
	w.veg.Grow()
	return nil
}

func (w *World) overwhelm() error {
	if !w.cfg.Vegetob.Overwhelming {
		return nil
	}
	for _, c := range w.pop.Occupied() {
		if !decide.Overwhelmed(w.grid, w.veg.Full, c.Row, c.Col) {
			continue
		}
		for _, sp := range []components.Species{components.Erbast, components.Carviz} {
			for _, m := range w.members(sp, c, nil) {
				if err := w.doom(m.ID, components.CauseOverwhelmed); err != nil {
					return err
				}
				w.last.Overwhelmed++
			}
		}
	}
	return nil
}

func (w *World) move() error {
	w.pop.Each(func(_ *components.Animal, c components.Cell, act *components.Activity) {
		act.Origin = c
	})

	field := &decide.Field{
		Grid:    w.grid,
		Density: w.veg.Values(),
		Herd:    w.pop.Sizes(components.Erbast),
		Pride:   w.pop.Sizes(components.Carviz),
	}

	type plannedMove struct {
		decide.Move
		sp   components.Species
		from components.Cell
	}
	var plan []plannedMove
	for _, c := range w.pop.Occupied() {
		for _, sp := range []components.Species{components.Erbast, components.Carviz} {
			group := w.members(sp, c, nil)
			for _, mv := range decide.PlanGroupMove(field, sp, w.species(sp).Movement, c, group, w.rng) {
				if mv.To != c {
					plan = append(plan, plannedMove{Move: mv, sp: sp, from: c})
				}
			}
		}
	}

	for _, mv := range plan {
		if !w.grid.IsGround(mv.To.Row, mv.To.Col) {
			return fmt.Errorf("individual %d planned onto water at (%d,%d)", mv.ID, mv.To.Row, mv.To.Col)
		}
		if err := w.pop.Move(mv.ID, mv.To.Row, mv.To.Col); err != nil {
			return err
		}
		a, act, err := w.ref(mv.ID)
		if err != nil {
			return err
		}
		a.Energy -= w.species(mv.sp).Movement.Cost
		act.Moved = true
		w.last.Moves++
	}

	for _, c := range w.pop.Occupied() {
		for _, sp := range []components.Species{components.Erbast, components.Carviz} {
			for _, id := range decide.Overcrowded(w.members(sp, c, nil), w.species(sp).MaxGroup) {
				if err := w.doom(id, components.CauseOvercrowded); err != nil {
					return err
				}
				w.last.Overcrowded++
			}
		}
	}
	return nil
}

func (w *World) graze() error {
	cfg := &w.cfg.Erbast
	notMoved := func(ind population.Individual) bool { return !ind.Activity.Moved }

	for _, c := range w.pop.Occupied() {
		eligible := w.members(components.Erbast, c, notMoved)
		if len(eligible) == 0 {
			continue
		}
		density, _ := w.veg.Density(c.Row, c.Col)
		plan := decide.PlanGrazing(density, eligible, cfg.GrazeCap, cfg.MaxEnergy)

		if taken := w.veg.Consume(c.Row, c.Col, plan.Consumed); taken != plan.Consumed {
			return fmt.Errorf("cell (%d,%d) yielded %d of %d planned", c.Row, c.Col, taken, plan.Consumed)
		}
		for _, meal := range plan.Meals {
			a, _, err := w.ref(meal.ID)
			if err != nil {
				return err
			}
			a.Energy += meal.Amount
			a.SocialAttitude = cfg.SocialAttitude.Clamp(a.SocialAttitude + cfg.EatBonus)
		}
		for _, id := range plan.Hungry {
			a, _, err := w.ref(id)
			if err != nil {
				return err
			}
			a.SocialAttitude = cfg.SocialAttitude.Clamp(a.SocialAttitude / cfg.Hunger)
		}
		w.last.Grazed += plan.Consumed
		w.last.Hungry += len(plan.Hungry)
	}
	return nil
}

func (w *World) struggle() error {
	s := w.cfg.Struggle
	carviz := &w.cfg.Carviz
	notFought := func(ind population.Individual) bool { return !ind.Activity.Fought }

	for _, c := range w.pop.Occupied() {
		pride := w.members(components.Carviz, c, notFought)
		if len(pride) == 0 {
			continue
		}
		herd := w.members(components.Erbast, c, notFought)
		if len(herd) == 0 {
			for _, m := range pride {
				a, _, err := w.ref(m.ID)
				if err != nil {
					return err
				}
				a.SocialAttitude = carviz.SocialAttitude.Clamp(a.SocialAttitude / carviz.Hunger)
			}
			continue
		}

		hunters := pride
		if subs := decide.SplitByOrigin(pride); s.Rivalry && len(subs) > 1 {
			r := decide.ResolveRivalry(subs, s, w.rng)
			for _, id := range r.Losers {
				a, act, err := w.ref(id)
				if err != nil {
					return err
				}
				a.Energy = max(0, a.Energy-s.RivalryCost)
				act.Fought = true
			}
			for _, id := range r.Winners {
				a, _, err := w.ref(id)
				if err != nil {
					return err
				}
				a.SocialAttitude = carviz.SocialAttitude.Clamp(a.SocialAttitude + s.WinBonus)
			}
			w.last.Rivalries += r.Fights
			w.last.Joins += r.Joins
			hunters = r.Hunters
		}

		hunt := decide.ResolveHunt(herd, hunters, s, carviz.MaxEnergy)
		w.last.Hunts++
		for _, m := range herd {
			_, act, err := w.ref(m.ID)
			if err != nil {
				return err
			}
			act.Fought = true
		}
		for _, id := range hunt.Victims {
			if err := w.pop.Remove(id); err != nil {
				return err
			}
			w.last.death(components.Erbast, components.CausePredation)
			w.last.Kills++
		}
		if !hunt.Success {
			w.last.FailedHunts++
		}
		for _, g := range hunt.Gains {
			a, _, err := w.ref(g.ID)
			if err != nil {
				return err
			}
			a.Energy += g.Amount
		}
		for _, cost := range hunt.Costs {
			a, _, err := w.ref(cost.ID)
			if err != nil {
				return err
			}
			a.Energy -= cost.Amount
		}
		for _, m := range hunters {
			a, act, err := w.ref(m.ID)
			if err != nil {
				return err
			}
			if hunt.Success {
				a.SocialAttitude = carviz.SocialAttitude.Clamp(a.SocialAttitude + carviz.EatBonus)
			}
			act.Fought = true
		}
	}
	return nil
}

func (w *World) spawn() error {
	for _, c := range w.pop.Occupied() {
		for _, sp := range []components.Species{components.Erbast, components.Carviz} {
			cfg := w.species(sp)
			plan := decide.PlanSpawn(w.members(sp, c, nil), *cfg)
			if plan.Offspring == 0 {
				continue
			}
			for _, cost := range plan.Costs {
				a, _, err := w.ref(cost.ID)
				if err != nil {
					return err
				}
				a.Energy -= cost.Amount
			}
			for k := 0; k < plan.Offspring; k++ {
				child := w.newborn(sp, cfg.Spawn.OffspringEnergy)
				act := components.Activity{Newborn: true, Origin: c}
				if _, err := w.pop.Add(child, c.Row, c.Col, act); err != nil {
					return err
				}
			}
			w.last.births[sp] += plan.Offspring
		}
	}
	return nil
}

func (w *World) bookkeeping() error {
	type removal struct {
		id    uint64
		sp    components.Species
		cause components.DeathCause
	}
	var dead []removal

	w.pop.Each(func(a *components.Animal, _ components.Cell, act *components.Activity) {
		if !act.Newborn {
			a.Age++
			if interval := w.species(a.Species).AgingInterval; a.Age%interval == 0 {
				a.Energy = max(0, a.Energy-w.species(a.Species).AgingCost)
			}
		}
		cause := components.CauseNone
		switch {
		case act.Doomed:
			cause = act.Cause
		case a.Age >= a.Lifetime:
			cause = components.CauseAge
		case a.Energy <= 0:
			cause = components.CauseStarvation
		}
		if cause != components.CauseNone {
			dead = append(dead, removal{id: a.ID, sp: a.Species, cause: cause})
		}
		*act = components.Activity{}
	})

	for _, d := range dead {
		if err := w.pop.Remove(d.id); err != nil {
			return err
		}
		w.last.death(d.sp, d.cause)
	}
	return nil
}
