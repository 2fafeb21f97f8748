package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/planisuss/world"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Stats          world.Stats
	View           string
	Paused         bool
	Busy           bool
	StepsPerSecond float64
	FPS            int32
	Status         string
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	s := data.Stats
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Day: %d | Erbast: %d in %d herds | Carviz: %d in %d prides",
			s.Day, s.Erbast.Count, s.Erbast.Groups, s.Carviz.Count, s.Carviz.Groups),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Vegetob: %.1f avg | Kills: %d | Births: %d | Deaths: %d",
			s.Vegetob.Mean, s.Events.Kills, s.Erbast.Births+s.Carviz.Births, s.Erbast.Deaths+s.Carviz.Deaths),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("View: %s | Steps/s: %.0f | FPS: %d", data.View, data.StepsPerSecond, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.Busy {
		status += " (stepping)"
	}
	rl.DrawText(status, 10, 95, 16, rl.Yellow)
	if data.Status != "" {
		rl.DrawText(data.Status, 10, 115, 14, rl.Orange)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// DrawLegend renders the cell color key for the current view.
func (h *HUD) DrawLegend(x, y int32) {
	r := h.renderer
	y = r.DrawSwatch(x, y, r.Theme.Water, "water")
	y = r.DrawSwatch(x, y, r.Theme.Vegetob, "vegetob")
	y = r.DrawSwatch(x, y, r.Theme.Erbast, "herd")
	r.DrawSwatch(x, y, r.Theme.Carviz, "pride")
}
