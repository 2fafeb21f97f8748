// Package tui is the terminal front end: a tcell grid of runner snapshots
// with a cursor that selects the cell to inspect.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/planisuss/game"
	"github.com/pthm-cable/planisuss/world"
)

const frameInterval = 33 * time.Millisecond

// App holds the terminal presentation state.
type App struct {
	screen tcell.Screen
	game   *game.Game

	width, height int

	paused        bool
	view          game.ViewMode
	curRow        int
	curCol        int
	originRow     int
	originCol     int
	daysPerSecond float64
	accum         float64
	status        string
}

// New creates an app drawing to an initialized screen.
func New(g *game.Game, screen tcell.Screen) *App {
	a := &App{
		screen:        screen,
		game:          g,
		paused:        true,
		daysPerSecond: g.Config().Screen.DaysPerSecond,
	}
	a.width, a.height = screen.Size()
	return a
}

// Run opens the terminal and loops until quit or ctx is done.
func Run(ctx context.Context, g *game.Game) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	g.Start(ctx)
	return New(g, screen).Loop(ctx)
}

// Loop processes events and redraws until the user quits.
func (a *App) Loop(ctx context.Context) error {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-quit:
				return
			}
		}
	}()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-eventChan:
			if !a.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			a.Tick(now.Sub(last))
			last = now
			a.Draw()
		}
	}
}

// Tick collects finished steps and schedules new ones while playing.
func (a *App) Tick(elapsed time.Duration) {
	if res, ok := a.game.Poll(); ok && res.Err != nil {
		a.paused = true
		a.status = fmt.Sprintf("day %d rolled back: %v", res.Day+1, res.Err)
	}
	if a.game.Finished(a.game.Latest().Day) {
		a.paused = true
		return
	}
	if a.paused {
		a.accum = 0
		return
	}
	a.accum += elapsed.Seconds() * a.daysPerSecond
	if a.accum >= 1 && a.game.Request(1) {
		a.accum--
	}
	a.accum = min(a.accum, 2)
}

// HandleEvent applies one terminal event. It returns false to quit.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.selectAt(x, y)
		}
	case *tcell.EventResize:
		a.width, a.height = a.screen.Size()
		a.screen.Sync()
	}
	return true
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		a.moveCursor(-1, 0)
	case tcell.KeyDown:
		a.moveCursor(1, 0)
	case tcell.KeyLeft:
		a.moveCursor(0, -1)
	case tcell.KeyRight:
		a.moveCursor(0, 1)
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'q':
			return false
		case ' ':
			a.paused = !a.paused
			a.status = ""
		case 'u':
			if a.paused && a.game.Request(1) {
				a.status = ""
			}
		case 's':
			a.exportSnapshot()
		case 'h':
			a.moveCursor(0, -1)
		case 'j':
			a.moveCursor(1, 0)
		case 'k':
			a.moveCursor(-1, 0)
		case 'l':
			a.moveCursor(0, 1)
		default:
			if v, ok := game.ViewForKey(r); ok {
				a.view = v
			}
		}
	}
	return true
}

func (a *App) exportSnapshot() {
	path, err := a.game.ExportSnapshot(a.game.Latest())
	switch {
	case err != nil:
		a.status = "snapshot failed: " + err.Error()
	case path == "":
		a.status = "no snapshot or output directory configured"
	default:
		a.status = "saved " + path
	}
}

// moveCursor moves the selection, clamped to the grid, and scrolls the
// viewport to keep it visible.
func (a *App) moveCursor(dr, dc int) {
	snap := a.game.Latest()
	a.curRow = clamp(a.curRow+dr, 0, snap.Rows-1)
	a.curCol = clamp(a.curCol+dc, 0, snap.Cols-1)

	rows, cols := a.gridArea()
	if a.curRow < a.originRow {
		a.originRow = a.curRow
	} else if rows > 0 && a.curRow >= a.originRow+rows {
		a.originRow = a.curRow - rows + 1
	}
	if a.curCol < a.originCol {
		a.originCol = a.curCol
	} else if cols > 0 && a.curCol >= a.originCol+cols {
		a.originCol = a.curCol - cols + 1
	}
}

// selectAt moves the cursor to the cell under screen position (x, y).
func (a *App) selectAt(x, y int) {
	rows, cols := a.gridArea()
	if y < headerLines || y >= headerLines+rows || x >= cols {
		return
	}
	a.moveCursor(a.originRow+y-headerLines-a.curRow, a.originCol+x-a.curCol)
}

// Selected returns the cell under the cursor in snap.
func (a *App) Selected(snap *world.Snapshot) *world.CellView {
	return snap.At(a.curRow, a.curCol)
}

func clamp(x, lo, hi int) int {
	return max(lo, min(x, hi))
}
