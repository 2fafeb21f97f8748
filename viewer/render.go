package viewer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/planisuss/game"
	"github.com/pthm-cable/planisuss/ui"
	"github.com/pthm-cable/planisuss/world"
)

var soil = rl.Color{R: 70, G: 52, B: 34, A: 255}

// Draw renders one frame from the latest snapshot.
func (v *Viewer) Draw() {
	v.game.Perf().RecordFrame()
	snap := v.game.Latest()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	v.drawGrid(snap)
	if v.selected {
		x, y, size := v.camera.CellRect(v.selRow, v.selCol)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x, Y: y, Width: size, Height: size}, 2, rl.White)
	}

	perf := v.game.Perf().Stats()
	v.hud.Draw(ui.HUDData{
		Title:          "Planisuss",
		Stats:          snap.Stats,
		View:           v.view.String(),
		Paused:         v.paused,
		Busy:           v.game.Busy(),
		StepsPerSecond: perf.StepsPerSecond,
		FPS:            rl.GetFPS(),
		Status:         v.status,
	})
	v.hud.DrawLegend(10, int32(v.controls.Bounds().Y+v.controls.Bounds().Height)+10)
	v.hud.DrawControls(int32(v.screenHeight),
		"[Space] play/pause  [U] step  [A/G/R/B] view  [S] snapshot  [Arrows/Wheel] pan/zoom  [Home] reset  [Esc] quit")

	act := v.controls.Draw(v.paused, v.game.Finished(snap.Day), v.view)
	switch {
	case act.TogglePause:
		v.togglePause()
	case act.Step:
		v.stepOnce()
	case act.Snapshot:
		v.exportSnapshot(snap)
	case act.SetView:
		v.view = act.View
	}

	if v.selected {
		v.cellPanel.Draw(snap.At(v.selRow, v.selCol), int32(v.screenWidth))
	}

	rl.EndDrawing()
}

// drawGrid draws every visible cell for the current view.
func (v *Viewer) drawGrid(snap *world.Snapshot) {
	cfg := v.game.Config()
	row0, col0, row1, col1 := v.camera.VisibleCells()
	for r := row0; r < row1; r++ {
		for c := col0; c < col1; c++ {
			cell := snap.At(r, c)
			x, y, size := v.camera.CellRect(r, c)
			rect := rl.Rectangle{X: x, Y: y, Width: size, Height: size}

			if !cell.Ground() {
				rl.DrawRectangleRec(rect, v.theme.Water)
				continue
			}

			switch v.view {
			case game.ViewVegetob:
				rl.DrawRectangleRec(rect, lerp(soil, v.theme.Vegetob, float32(cell.Density)/100))
			case game.ViewErbast:
				rl.DrawRectangleRec(rect, dim(soil))
				if n := len(cell.Herd); n > 0 {
					rl.DrawRectangleRec(rect, fade(v.theme.Erbast, n, cfg.Erbast.MaxGroup))
				}
			case game.ViewCarviz:
				rl.DrawRectangleRec(rect, dim(soil))
				if n := len(cell.Pride); n > 0 {
					rl.DrawRectangleRec(rect, fade(v.theme.Carviz, n, cfg.Carviz.MaxGroup))
				}
			default:
				rl.DrawRectangleRec(rect, lerp(soil, v.theme.Vegetob, float32(cell.Density)/100))
				half := size / 2
				if len(cell.Herd) > 0 {
					rl.DrawRectangleRec(rl.Rectangle{X: x, Y: y, Width: half, Height: half}, v.theme.Erbast)
				}
				if len(cell.Pride) > 0 {
					rl.DrawRectangleRec(rl.Rectangle{X: x + half, Y: y + half, Width: half, Height: half}, v.theme.Carviz)
				}
			}

			// Group sizes once cells are big enough to read
			if size >= 28 && v.view != game.ViewVegetob {
				if n := groupSize(cell, v.view); n > 0 {
					rl.DrawText(fmt.Sprint(n), int32(x)+2, int32(y)+2, 10, rl.Black)
				}
			}
		}
	}
}

func groupSize(cell *world.CellView, view game.ViewMode) int {
	switch view {
	case game.ViewErbast:
		return len(cell.Herd)
	case game.ViewCarviz:
		return len(cell.Pride)
	default:
		return len(cell.Herd) + len(cell.Pride)
	}
}

func lerp(a, b rl.Color, t float32) rl.Color {
	t = max(0, min(t, 1))
	mix := func(x, y uint8) uint8 { return uint8(float32(x) + (float32(y)-float32(x))*t) }
	return rl.Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

func dim(c rl.Color) rl.Color {
	return rl.Color{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: 255}
}

// fade scales alpha with group size so crowded cells stand out.
func fade(c rl.Color, n, limit int) rl.Color {
	a := float32(1)
	if limit > 0 {
		a = 0.35 + 0.65*min(float32(n)/float32(limit), 1)
	}
	c.A = uint8(255 * a)
	return c
}
