package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/planisuss/game"
)

// Action is what the user asked for through the controls panel.
type Action struct {
	TogglePause bool
	Step        bool
	Snapshot    bool
	SetView     bool
	View        game.ViewMode
}

// ControlsPanel renders the button column of the viewer.
type ControlsPanel struct {
	renderer *Renderer
	x, y     float32
	width    float32
}

const buttonHeight = 26

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width float32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Bounds returns the screen area covered by the panel.
func (c *ControlsPanel) Bounds() rl.Rectangle {
	rows := float32(3 + len(game.ViewModes))
	pad := float32(c.renderer.Theme.Padding)
	return rl.Rectangle{X: c.x, Y: c.y, Width: c.width, Height: rows*(buttonHeight+4) + 2*pad + 20}
}

// Draw renders the panel and returns the buttons pressed this frame.
func (c *ControlsPanel) Draw(paused, finished bool, view game.ViewMode) Action {
	var act Action
	b := c.Bounds()
	r := c.renderer
	pad := float32(r.Theme.Padding)

	r.DrawPanel(int32(b.X), int32(b.Y), int32(b.Width), int32(b.Height))
	rl.DrawText("Controls", int32(b.X+pad), int32(b.Y+pad), r.Theme.HeaderSize, r.Theme.SectionHeader)

	w := b.Width - 2*pad
	y := b.Y + pad + 20
	next := func() rl.Rectangle {
		rect := rl.Rectangle{X: b.X + pad, Y: y, Width: w, Height: buttonHeight}
		y += buttonHeight + 4
		return rect
	}

	label := "Pause [Space]"
	if paused {
		label = "Play [Space]"
	}
	if finished {
		gui.Disable()
	}
	if gui.Button(next(), label) {
		act.TogglePause = true
	}
	if !paused {
		gui.Disable()
	}
	if gui.Button(next(), "Step [U]") {
		act.Step = true
	}
	gui.Enable()
	if gui.Button(next(), "Snapshot [S]") {
		act.Snapshot = true
	}

	for _, v := range game.ViewModes {
		text := v.String() + " [" + strings.ToUpper(string(v.Key())) + "]"
		if gui.Toggle(next(), text, v == view) && v != view {
			act.SetView = true
			act.View = v
		}
	}
	return act
}
