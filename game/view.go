package game

import (
	"fmt"

	"github.com/pthm-cable/planisuss/world"
)

// ViewMode selects what a viewer draws on each cell.
type ViewMode int

const (
	ViewAll ViewMode = iota
	ViewErbast
	ViewCarviz
	ViewVegetob
)

// ViewModes lists every mode in display order.
var ViewModes = []ViewMode{ViewAll, ViewErbast, ViewCarviz, ViewVegetob}

func (v ViewMode) String() string {
	switch v {
	case ViewErbast:
		return "Erbast"
	case ViewCarviz:
		return "Carviz"
	case ViewVegetob:
		return "Vegetob"
	default:
		return "All"
	}
}

// Key returns the keyboard shortcut of the mode.
func (v ViewMode) Key() rune {
	switch v {
	case ViewErbast:
		return 'g'
	case ViewCarviz:
		return 'r'
	case ViewVegetob:
		return 'b'
	default:
		return 'a'
	}
}

// ViewForKey maps a shortcut back to its mode.
func ViewForKey(r rune) (ViewMode, bool) {
	for _, v := range ViewModes {
		if v.Key() == r {
			return v, true
		}
	}
	return ViewAll, false
}

// DescribeCell returns the detail lines shown for a selected cell: a
// header, then one line per member, at most limit members in total.
func DescribeCell(c *world.CellView, limit int) []string {
	if c == nil {
		return nil
	}
	if !c.Ground() {
		return []string{fmt.Sprintf("(%d,%d) water", c.Row, c.Col)}
	}

	lines := []string{
		fmt.Sprintf("(%d,%d) vegetob %d  herd %d  pride %d", c.Row, c.Col, c.Density, len(c.Herd), len(c.Pride)),
	}
	shown := 0
	for _, group := range [][]world.Individual{c.Herd, c.Pride} {
		for _, ind := range group {
			if shown == limit {
				if rest := len(c.Herd) + len(c.Pride) - shown; rest > 0 {
					lines = append(lines, fmt.Sprintf("... %d more", rest))
				}
				return lines
			}
			lines = append(lines, fmt.Sprintf("%s #%d energy %d age %d/%d social %.2f",
				ind.Species, ind.ID, ind.Energy, ind.Age, ind.Lifetime, ind.SocialAttitude))
			shown++
		}
	}
	return lines
}
