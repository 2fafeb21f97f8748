package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/planisuss/game"
	"github.com/pthm-cable/planisuss/world"
)

const (
	headerLines = 1
	footerLines = 1
	panelWidth  = 44
	helpText    = "space play/pause  u step  a/g/r/b view  arrows/hjkl move  s snapshot  q quit"
)

var (
	styleWater   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	styleVegetob = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleErbast  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleCarviz  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleHeader  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// densityRamp shades vegetob from bare to full.
var densityRamp = []rune(" .:-=+*#%@")

// gridArea returns how many cell rows and columns fit on screen.
func (a *App) gridArea() (rows, cols int) {
	rows = max(a.height-headerLines-footerLines, 0)
	cols = a.width
	if a.width >= 2*panelWidth {
		cols = a.width - panelWidth
	}
	return rows, cols
}

// Draw renders the latest snapshot.
func (a *App) Draw() {
	a.screen.Clear()
	snap := a.game.Latest()

	a.drawHeader(snap)
	a.drawGrid(snap)

	footer, style := helpText, styleDim
	if !a.drawPanel(snap) {
		// No room beside the grid; summarize the cell in the footer.
		if lines := game.DescribeCell(a.Selected(snap), 0); len(lines) > 0 {
			footer = lines[0]
		}
	}
	if a.status != "" {
		footer, style = a.status, styleStatus
	}
	a.drawText(0, a.height-1, footer, style)

	a.screen.Show()
}

func (a *App) drawHeader(snap *world.Snapshot) {
	s := snap.Stats
	state := "running"
	if a.paused {
		state = "PAUSED"
	}
	if a.game.Busy() {
		state += "*"
	}
	line := fmt.Sprintf("Planisuss day %d | Erbast %d/%d | Carviz %d/%d | Vegetob %.1f | %s | view %s",
		s.Day, s.Erbast.Count, s.Erbast.Groups, s.Carviz.Count, s.Carviz.Groups, s.Vegetob.Mean, state, a.view)
	a.drawText(0, 0, line, styleHeader)
}

func (a *App) drawGrid(snap *world.Snapshot) {
	rows, cols := a.gridArea()
	for y := 0; y < rows; y++ {
		r := a.originRow + y
		if r >= snap.Rows {
			break
		}
		for x := 0; x < cols; x++ {
			c := a.originCol + x
			if c >= snap.Cols {
				break
			}
			ch, style := glyph(snap.At(r, c), a.view)
			if r == a.curRow && c == a.curCol {
				style = style.Reverse(true)
			}
			a.screen.SetContent(x, headerLines+y, ch, nil, style)
		}
	}
}

// drawPanel lists the selected cell beside the grid. It returns false
// when the terminal is too narrow.
func (a *App) drawPanel(snap *world.Snapshot) bool {
	_, cols := a.gridArea()
	x := cols + 1
	if x >= a.width {
		return false
	}
	rows := a.height - headerLines - footerLines
	for i, line := range game.DescribeCell(a.Selected(snap), max(rows-2, 0)) {
		a.drawText(x, headerLines+i, line, tcell.StyleDefault)
	}
	return true
}

// glyph picks the rune and style shown for a cell.
func glyph(cell *world.CellView, view game.ViewMode) (rune, tcell.Style) {
	if !cell.Ground() {
		return '~', styleWater
	}
	shade := densityRamp[min(cell.Density*len(densityRamp)/101, len(densityRamp)-1)]

	switch view {
	case game.ViewVegetob:
		return shade, styleVegetob
	case game.ViewErbast:
		return count(len(cell.Herd)), styleErbast
	case game.ViewCarviz:
		return count(len(cell.Pride)), styleCarviz
	}
	switch {
	case len(cell.Pride) > 0:
		return 'C', styleCarviz
	case len(cell.Herd) > 0:
		return 'e', styleErbast
	}
	return shade, styleVegetob
}

// count renders a group size as one rune.
func count(n int) rune {
	switch {
	case n == 0:
		return '.'
	case n < 10:
		return rune('0' + n)
	}
	return '+'
}

func (a *App) drawText(x, y int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= a.width {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
