package population

import (
	"errors"
	"testing"

	"github.com/pthm-cable/planisuss/components"
)

func erbast(energy int) components.Animal {
	return components.Animal{Species: components.Erbast, Energy: energy, Lifetime: 50}
}

func carviz(energy int) components.Animal {
	return components.Animal{Species: components.Carviz, Energy: energy, Lifetime: 50}
}

func mustAdd(t *testing.T, s *Store, a components.Animal, row, col int) uint64 {
	t.Helper()
	id, err := s.Add(a, row, col, components.Activity{})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestAddAndGet(t *testing.T) {
	s := New(4, 4)
	a := mustAdd(t, s, erbast(10), 1, 2)
	b := mustAdd(t, s, carviz(20), 1, 2)
	if a == b || a == 0 || b == 0 {
		t.Fatalf("identities not unique: %d %d", a, b)
	}
	got, ok := s.Get(a)
	if !ok {
		t.Fatal("Get failed")
	}
	if got.Energy != 10 || got.Cell != (components.Cell{Row: 1, Col: 2}) {
		t.Errorf("got %+v", got)
	}
	if s.Size(components.Erbast, 1, 2) != 1 || s.Size(components.Carviz, 1, 2) != 1 {
		t.Error("herd and pride sizes wrong")
	}
	if s.Count(components.Erbast) != 1 || s.Len() != 2 {
		t.Errorf("counts = %d/%d", s.Count(components.Erbast), s.Len())
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestAddRejects(t *testing.T) {
	s := New(2, 2)
	if _, err := s.Add(erbast(1), 5, 0, components.Activity{}); err == nil {
		t.Error("expected out of bounds error")
	}
	a := erbast(1)
	a.ID = 7
	mustAdd(t, s, a, 0, 0)
	if _, err := s.Add(a, 0, 1, components.Activity{}); err == nil {
		t.Error("expected duplicate identity error")
	}
	if id := mustAdd(t, s, erbast(1), 0, 0); id != 8 {
		t.Errorf("next identity = %d, want 8", id)
	}
}

func TestMoveKeepsSingleMembership(t *testing.T) {
	s := New(3, 3)
	ids := []uint64{
		mustAdd(t, s, erbast(5), 0, 0),
		mustAdd(t, s, erbast(6), 0, 0),
		mustAdd(t, s, erbast(7), 0, 0),
	}
	if err := s.Move(ids[1], 2, 2); err != nil {
		t.Fatal(err)
	}
	if got := s.Members(components.Erbast, 0, 0); len(got) != 2 || got[0] != ids[0] || got[1] != ids[2] {
		t.Errorf("origin members = %v", got)
	}
	if got := s.Members(components.Erbast, 2, 2); len(got) != 1 || got[0] != ids[1] {
		t.Errorf("target members = %v", got)
	}
	ind, _ := s.Get(ids[1])
	if ind.Cell != (components.Cell{Row: 2, Col: 2}) {
		t.Errorf("cell reference = %+v", ind.Cell)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}

	if err := s.Move(999, 1, 1); !errors.Is(err, ErrUnknown) {
		t.Errorf("move unknown: %v", err)
	}
	if err := s.Move(ids[0], -1, 0); err == nil {
		t.Error("expected out of bounds error")
	}
}

func TestRemove(t *testing.T) {
	s := New(2, 2)
	a := mustAdd(t, s, erbast(5), 0, 1)
	b := mustAdd(t, s, carviz(5), 0, 1)
	if err := s.Remove(a); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Get(a); ok {
		t.Error("removed individual still present")
	}
	if s.Size(components.Erbast, 0, 1) != 0 || s.Count(components.Erbast) != 0 {
		t.Error("herd not emptied")
	}
	if err := s.Remove(a); !errors.Is(err, ErrUnknown) {
		t.Errorf("second remove: %v", err)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
	_ = b
}

func TestRefMutatesLiveState(t *testing.T) {
	s := New(1, 1)
	id := mustAdd(t, s, erbast(5), 0, 0)
	a, act, ok := s.Ref(id)
	if !ok {
		t.Fatal("Ref failed")
	}
	a.Energy = 42
	act.Moved = true
	got, _ := s.Get(id)
	if got.Energy != 42 || !got.Activity.Moved {
		t.Errorf("mutation not visible: %+v", got)
	}
}

func TestAllOrder(t *testing.T) {
	s := New(2, 2)
	c1 := mustAdd(t, s, carviz(1), 0, 0)
	e1 := mustAdd(t, s, erbast(1), 1, 1)
	e2 := mustAdd(t, s, erbast(2), 0, 0)
	all := s.All()
	want := []uint64{e2, c1, e1}
	if len(all) != len(want) {
		t.Fatalf("len = %d", len(all))
	}
	for i, ind := range all {
		if ind.ID != want[i] {
			t.Errorf("All()[%d] = %d, want %d", i, ind.ID, want[i])
		}
	}
	occ := s.Occupied()
	if len(occ) != 2 || occ[0] != (components.Cell{}) || occ[1] != (components.Cell{Row: 1, Col: 1}) {
		t.Errorf("Occupied = %v", occ)
	}
}

func TestSaveRestore(t *testing.T) {
	s := New(3, 3)
	a := mustAdd(t, s, erbast(5), 0, 0)
	b := mustAdd(t, s, erbast(6), 0, 0)
	saved := s.Save()

	if err := s.Move(a, 1, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(b); err != nil {
		t.Fatal(err)
	}
	mustAdd(t, s, carviz(3), 2, 2)

	if err := s.Restore(saved); err != nil {
		t.Fatal(err)
	}
	if got := s.Members(components.Erbast, 0, 0); len(got) != 2 || got[0] != a || got[1] != b {
		t.Errorf("restored members = %v", got)
	}
	if s.Count(components.Carviz) != 0 {
		t.Error("carviz added after save survived restore")
	}
	if id := mustAdd(t, s, erbast(1), 0, 0); id != 3 {
		t.Errorf("identity after restore = %d, want 3", id)
	}
	if err := s.Check(); err != nil {
		t.Error(err)
	}
}

func TestCheckDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *Store, id uint64)
	}{
		{"duplicate membership", func(s *Store, id uint64) {
			e := s.byID[id]
			s.groups[components.Erbast][s.index(1, 1)] = append(s.groups[components.Erbast][s.index(1, 1)], e)
		}},
		{"orphan", func(s *Store, id uint64) {
			s.groups[components.Erbast][s.index(0, 0)] = nil
		}},
		{"stale reference", func(s *Store, id uint64) {
			s.cells.Get(s.byID[id]).Row = 2
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(3, 3)
			id := mustAdd(t, s, erbast(5), 0, 0)
			tt.corrupt(s, id)
			if err := s.Check(); err == nil {
				t.Error("expected Check to fail")
			}
		})
	}
}
