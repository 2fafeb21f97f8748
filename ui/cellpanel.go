package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/planisuss/world"
)

// CellPanel shows the contents of the selected cell.
type CellPanel struct {
	renderer  *Renderer
	width     int32
	maxRows   int
	maxEnergy [2]int // Erbast, Carviz
}

// NewCellPanel creates a panel listing at most maxRows members. Energy
// bars are scaled to the species maxima.
func NewCellPanel(width int32, maxRows, erbastMax, carvizMax int) *CellPanel {
	return &CellPanel{
		renderer:  NewRenderer(),
		width:     width,
		maxRows:   maxRows,
		maxEnergy: [2]int{erbastMax, carvizMax},
	}
}

// Draw renders cell at the right edge of the screen.
func (p *CellPanel) Draw(cell *world.CellView, screenW int32) {
	if cell == nil {
		return
	}
	r := p.renderer
	pad := r.Theme.Padding
	line := r.Theme.LineHeight

	members := len(cell.Herd) + len(cell.Pride)
	rows := min(members, p.maxRows)
	height := pad*2 + line*int32(4+rows)
	if members > rows {
		height += line
	}
	x := screenW - p.width - 10
	y := int32(10)
	r.DrawPanel(x, y, p.width, height)

	cx := x + pad
	cy := r.DrawSectionHeader(cx, y+pad, fmt.Sprintf("Cell (%d, %d)", cell.Row, cell.Col))
	if !cell.Ground() {
		r.DrawText(cx, cy, "Water")
		return
	}

	inner := p.width - 2*pad
	cy = r.DrawLevelBar(cx, cy, "Vegetob", cell.Density, 100, inner)
	cy = r.DrawLabelValue(cx, cy, "Members", fmt.Sprintf("%d herd, %d pride", len(cell.Herd), len(cell.Pride)))

	shown := 0
	for _, group := range [][]world.Individual{cell.Herd, cell.Pride} {
		for _, ind := range group {
			if shown == rows {
				break
			}
			label := fmt.Sprintf("%s %d", ind.Species.String()[:1], ind.ID)
			cy = r.DrawLevelBar(cx, cy, label, ind.Energy, p.maxEnergy[ind.Species], inner)
			shown++
		}
	}
	if members > shown {
		r.DrawText(cx, cy, fmt.Sprintf("... %d more", members-shown))
	}
}
