// Package viewer is the raylib front end: it draws runner snapshots on a
// pannable grid and maps play, pause and step onto Step requests.
package viewer

import (
	"context"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/planisuss/camera"
	"github.com/pthm-cable/planisuss/game"
	"github.com/pthm-cable/planisuss/ui"
	"github.com/pthm-cable/planisuss/world"
)

const controlsWidth = 170

// Viewer holds the presentation state. Pause, view and selection live
// here, never in the world.
type Viewer struct {
	game   *game.Game
	camera *camera.Camera

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	cellPanel *ui.CellPanel
	theme     ui.Theme

	paused        bool
	view          game.ViewMode
	selected      bool
	selRow        int
	selCol        int
	daysPerSecond float64
	accum         float64
	status        string

	screenWidth, screenHeight float32
}

// New creates a viewer. The raylib window must already be open.
func New(g *game.Game) *Viewer {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	return &Viewer{
		game:          g,
		camera:        camera.New(w, h, cfg.World.Rows, cfg.World.Cols, cfg.Screen.CellSize),
		hud:           ui.NewHUD(),
		controls:      ui.NewControlsPanel(10, 140, controlsWidth),
		cellPanel:     ui.NewCellPanel(280, 24, cfg.Erbast.MaxEnergy, cfg.Carviz.MaxEnergy),
		theme:         ui.DefaultTheme(),
		paused:        true,
		daysPerSecond: cfg.Screen.DaysPerSecond,
		screenWidth:   w,
		screenHeight:  h,
	}
}

// Run opens the window and loops until it is closed or ctx is done.
func Run(ctx context.Context, g *game.Game) error {
	cfg := g.Config()
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Planisuss")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g.Start(ctx)
	v := New(g)
	for !rl.WindowShouldClose() {
		if ctx.Err() != nil {
			break
		}
		v.Update()
		v.Draw()
	}
	return nil
}

// Update handles input and schedules steps.
func (v *Viewer) Update() {
	v.handleInput()

	if res, ok := v.game.Poll(); ok && res.Err != nil {
		v.paused = true
		v.status = fmt.Sprintf("day %d rolled back: %v", res.Day+1, res.Err)
	}

	snap := v.game.Latest()
	if v.game.Finished(snap.Day) {
		v.paused = true
		return
	}
	if v.paused {
		v.accum = 0
		return
	}
	v.accum += float64(rl.GetFrameTime()) * v.daysPerSecond
	if v.accum >= 1 && v.game.Request(1) {
		v.accum--
	}
	v.accum = min(v.accum, 2)
}

// togglePause switches between playing and paused.
func (v *Viewer) togglePause() {
	v.paused = !v.paused
	v.status = ""
}

// stepOnce requests one day while paused.
func (v *Viewer) stepOnce() {
	if v.paused && v.game.Request(1) {
		v.status = ""
	}
}

func (v *Viewer) exportSnapshot(snap *world.Snapshot) {
	path, err := v.game.ExportSnapshot(snap)
	switch {
	case err != nil:
		v.status = "snapshot failed: " + err.Error()
	case path == "":
		v.status = "no snapshot or output directory configured"
	default:
		v.status = "saved " + path
	}
}
