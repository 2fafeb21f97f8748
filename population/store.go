// Package population stores Erbast and Carviz individuals as ECS entities
// and indexes them by cell and by identity.
package population

import (
	"errors"
	"fmt"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/planisuss/components"
)

// ErrUnknown is returned for identities not present in the store.
var ErrUnknown = errors.New("unknown individual")

// Individual is a copy of one individual's components.
type Individual struct {
	components.Animal
	Cell     components.Cell
	Activity components.Activity
}

// Store owns every individual. Each Ground cell has a herd and a pride
// slice; an entity appears in exactly one of them.
type Store struct {
	rows, cols int

	world   *ecs.World
	mapper  *ecs.Map3[components.Animal, components.Cell, components.Activity]
	filter  *ecs.Filter3[components.Animal, components.Cell, components.Activity]
	animals *ecs.Map1[components.Animal]
	cells   *ecs.Map1[components.Cell]
	acts    *ecs.Map1[components.Activity]

	groups [2][][]ecs.Entity // [species][cell index]
	byID   map[uint64]ecs.Entity
	counts [2]int
	nextID uint64
}

// New creates an empty store for a rows x cols grid.
func New(rows, cols int) *Store {
	s := &Store{rows: rows, cols: cols, nextID: 1}
	s.reset()
	return s
}

func (s *Store) reset() {
	world := ecs.NewWorld()
	s.world = world
	s.mapper = ecs.NewMap3[components.Animal, components.Cell, components.Activity](world)
	s.filter = ecs.NewFilter3[components.Animal, components.Cell, components.Activity](world)
	s.animals = ecs.NewMap1[components.Animal](world)
	s.cells = ecs.NewMap1[components.Cell](world)
	s.acts = ecs.NewMap1[components.Activity](world)
	for sp := range s.groups {
		s.groups[sp] = make([][]ecs.Entity, s.rows*s.cols)
	}
	s.byID = make(map[uint64]ecs.Entity)
	s.counts = [2]int{}
}

func (s *Store) in(row, col int) bool {
	return row >= 0 && row < s.rows && col >= 0 && col < s.cols
}

func (s *Store) index(row, col int) int { return row*s.cols + col }

// Add inserts an individual at (row, col) and returns its identity.
// A zero a.ID is replaced by a fresh identity.
func (s *Store) Add(a components.Animal, row, col int, act components.Activity) (uint64, error) {
	if !s.in(row, col) {
		return 0, fmt.Errorf("population: cell (%d,%d) out of bounds", row, col)
	}
	if a.ID == 0 {
		a.ID = s.nextID
	}
	if _, dup := s.byID[a.ID]; dup {
		return 0, fmt.Errorf("population: duplicate identity %d", a.ID)
	}
	if a.ID >= s.nextID {
		s.nextID = a.ID + 1
	}

	cell := components.Cell{Row: row, Col: col}
	e := s.mapper.NewEntity(&a, &cell, &act)
	i := s.index(row, col)
	s.groups[a.Species][i] = append(s.groups[a.Species][i], e)
	s.byID[a.ID] = e
	s.counts[a.Species]++
	return a.ID, nil
}

// Get returns a copy of the individual with the given identity.
func (s *Store) Get(id uint64) (Individual, bool) {
	e, ok := s.byID[id]
	if !ok {
		return Individual{}, false
	}
	return s.copyOf(e), true
}

func (s *Store) copyOf(e ecs.Entity) Individual {
	a, c, act := s.mapper.Get(e)
	return Individual{Animal: *a, Cell: *c, Activity: *act}
}

// Ref returns live pointers to an individual's mutable state. They stay
// valid until the next Add, Remove or Restore.
func (s *Store) Ref(id uint64) (*components.Animal, *components.Activity, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, nil, false
	}
	return s.animals.Get(e), s.acts.Get(e), true
}

// Move relocates an individual, updating its cell reference and both
// collections together.
func (s *Store) Move(id uint64, row, col int) error {
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("population: move %d: %w", id, ErrUnknown)
	}
	if !s.in(row, col) {
		return fmt.Errorf("population: move %d to (%d,%d): out of bounds", id, row, col)
	}
	a := s.animals.Get(e)
	c := s.cells.Get(e)
	if c.Row == row && c.Col == col {
		return nil
	}
	from := s.index(c.Row, c.Col)
	if !s.detach(a.Species, from, e) {
		return fmt.Errorf("population: move %d: not indexed at (%d,%d)", id, c.Row, c.Col)
	}
	to := s.index(row, col)
	s.groups[a.Species][to] = append(s.groups[a.Species][to], e)
	c.Row, c.Col = row, col
	return nil
}

func (s *Store) detach(sp components.Species, i int, e ecs.Entity) bool {
	group := s.groups[sp][i]
	for k, m := range group {
		if m == e {
			s.groups[sp][i] = append(group[:k], group[k+1:]...)
			return true
		}
	}
	return false
}

// Remove destroys an individual.
func (s *Store) Remove(id uint64) error {
	e, ok := s.byID[id]
	if !ok {
		return fmt.Errorf("population: remove %d: %w", id, ErrUnknown)
	}
	a := s.animals.Get(e)
	c := s.cells.Get(e)
	sp := a.Species
	if !s.detach(sp, s.index(c.Row, c.Col), e) {
		return fmt.Errorf("population: remove %d: not indexed at (%d,%d)", id, c.Row, c.Col)
	}
	delete(s.byID, id)
	s.counts[sp]--
	s.world.RemoveEntity(e)
	return nil
}

// Members returns the identities of one species at (row, col), in
// insertion order.
func (s *Store) Members(sp components.Species, row, col int) []uint64 {
	if !s.in(row, col) {
		return nil
	}
	group := s.groups[sp][s.index(row, col)]
	ids := make([]uint64, len(group))
	for k, e := range group {
		ids[k] = s.animals.Get(e).ID
	}
	return ids
}

// Group returns copies of one species' members at (row, col).
func (s *Store) Group(sp components.Species, row, col int) []Individual {
	if !s.in(row, col) {
		return nil
	}
	group := s.groups[sp][s.index(row, col)]
	out := make([]Individual, len(group))
	for k, e := range group {
		out[k] = s.copyOf(e)
	}
	return out
}

// Size returns the number of individuals of sp at (row, col).
func (s *Store) Size(sp components.Species, row, col int) int {
	if !s.in(row, col) {
		return 0
	}
	return len(s.groups[sp][s.index(row, col)])
}

// Sizes returns per-cell group sizes of sp in row-major order.
func (s *Store) Sizes(sp components.Species) []int {
	out := make([]int, s.rows*s.cols)
	for i, g := range s.groups[sp] {
		out[i] = len(g)
	}
	return out
}

// Count returns the number of living individuals of sp.
func (s *Store) Count(sp components.Species) int { return s.counts[sp] }

// Len returns the total number of individuals.
func (s *Store) Len() int { return s.counts[components.Erbast] + s.counts[components.Carviz] }

// Occupied returns every cell hosting at least one individual, row-major.
func (s *Store) Occupied() []components.Cell {
	var out []components.Cell
	for i := 0; i < s.rows*s.cols; i++ {
		if len(s.groups[components.Erbast][i]) > 0 || len(s.groups[components.Carviz][i]) > 0 {
			out = append(out, components.Cell{Row: i / s.cols, Col: i % s.cols})
		}
	}
	return out
}

// All returns copies of every individual: row-major by cell, herd before
// pride, insertion order within a group.
func (s *Store) All() []Individual {
	out := make([]Individual, 0, s.Len())
	for i := 0; i < s.rows*s.cols; i++ {
		for sp := range s.groups {
			for _, e := range s.groups[sp][i] {
				out = append(out, s.copyOf(e))
			}
		}
	}
	return out
}

// Each calls fn with live pointers to every individual, in All order.
// fn must not add or remove individuals.
func (s *Store) Each(fn func(a *components.Animal, c components.Cell, act *components.Activity)) {
	for i := 0; i < s.rows*s.cols; i++ {
		for sp := range s.groups {
			for _, e := range s.groups[sp][i] {
				a, c, act := s.mapper.Get(e)
				fn(a, *c, act)
			}
		}
	}
}

// Saved is a full copy of the store used for rollback.
type Saved struct {
	individuals []Individual
	nextID      uint64
}

// Save copies the store.
func (s *Store) Save() Saved {
	return Saved{individuals: s.All(), nextID: s.nextID}
}

// Restore replaces the store contents with a copy taken by Save. The
// ordering of every collection is preserved.
func (s *Store) Restore(saved Saved) error {
	s.reset()
	for _, ind := range saved.individuals {
		if _, err := s.Add(ind.Animal, ind.Cell.Row, ind.Cell.Col, ind.Activity); err != nil {
			return fmt.Errorf("population: restore: %w", err)
		}
	}
	s.nextID = saved.nextID
	return nil
}

// Check verifies that every entity is indexed exactly once, in the
// collection matching its species and cell reference.
func (s *Store) Check() error {
	seen := make(map[ecs.Entity]bool, s.Len())
	for sp := range s.groups {
		for i, group := range s.groups[sp] {
			for _, e := range group {
				if seen[e] {
					return fmt.Errorf("entity %v indexed twice", e)
				}
				seen[e] = true
				if !s.world.Alive(e) {
					return fmt.Errorf("dead entity %v indexed at cell %d", e, i)
				}
				a, c, _ := s.mapper.Get(e)
				if int(a.Species) != sp {
					return fmt.Errorf("individual %d (%v) in %v collection", a.ID, a.Species, components.Species(sp))
				}
				if s.index(c.Row, c.Col) != i {
					return fmt.Errorf("individual %d references (%d,%d) but is indexed at cell %d", a.ID, c.Row, c.Col, i)
				}
				if s.byID[a.ID] != e {
					return fmt.Errorf("individual %d missing from identity index", a.ID)
				}
			}
		}
	}

	entities := 0
	query := s.filter.Query()
	for query.Next() {
		entities++
		if !seen[query.Entity()] {
			a, _, _ := query.Get()
			query.Close()
			return fmt.Errorf("individual %d belongs to no collection", a.ID)
		}
	}
	if entities != len(seen) || len(s.byID) != len(seen) {
		return fmt.Errorf("entity count %d, indexed %d, identities %d", entities, len(seen), len(s.byID))
	}
	if s.Len() != len(seen) {
		return fmt.Errorf("species counts %v disagree with %d indexed", s.counts, len(seen))
	}
	return nil
}
