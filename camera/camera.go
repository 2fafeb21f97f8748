// Package camera maps a bounded cell grid onto a screen viewport with pan
// and zoom.
package camera

import "math"

// Camera controls the viewport into the grid. World coordinates are
// pixels at zoom 1: column c spans [c*CellSize, (c+1)*CellSize).
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions
	Rows, Cols int
	CellSize   float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera showing the whole grid.
func New(viewportW, viewportH float32, rows, cols int, cellSize float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Rows:      rows,
		Cols:      cols,
		CellSize:  cellSize,
		MaxZoom:   8.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// WorldW returns the grid width in world coordinates.
func (c *Camera) WorldW() float32 { return float32(c.Cols) * c.CellSize }

// WorldH returns the grid height in world coordinates.
func (c *Camera) WorldH() float32 { return float32(c.Rows) * c.CellSize }

// fitZoom is the zoom at which the whole grid just fits the viewport.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW/c.WorldW(), c.ViewportH/c.WorldH())
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// CellAt returns the cell under a screen position, or ok=false outside the
// grid.
func (c *Camera) CellAt(sx, sy float32) (row, col int, ok bool) {
	wx, wy := c.ScreenToWorld(sx, sy)
	if wx < 0 || wy < 0 {
		return 0, 0, false
	}
	col = int(wx / c.CellSize)
	row = int(wy / c.CellSize)
	if row >= c.Rows || col >= c.Cols {
		return 0, 0, false
	}
	return row, col, true
}

// CellRect returns the screen rectangle of a cell: top-left corner and
// side length.
func (c *Camera) CellRect(row, col int) (x, y, size float32) {
	x, y = c.WorldToScreen(float32(col)*c.CellSize, float32(row)*c.CellSize)
	return x, y, c.CellSize * c.Zoom
}

// VisibleCells returns the half-open cell range intersecting the viewport,
// clamped to the grid.
func (c *Camera) VisibleCells() (row0, col0, row1, col1 int) {
	minX, minY := c.ScreenToWorld(0, 0)
	maxX, maxY := c.ScreenToWorld(c.ViewportW, c.ViewportH)
	col0 = clampInt(int(math.Floor(float64(minX/c.CellSize))), 0, c.Cols)
	row0 = clampInt(int(math.Floor(float64(minY/c.CellSize))), 0, c.Rows)
	col1 = clampInt(int(math.Ceil(float64(maxX/c.CellSize))), 0, c.Cols)
	row1 = clampInt(int(math.Ceil(float64(maxY/c.CellSize))), 0, c.Rows)
	return row0, col0, row1, col1
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center
// stays over the grid.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clampCenter()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCenter()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// ZoomAt zooms by factor while keeping the world point under (sx, sy)
// fixed on screen.
func (c *Camera) ZoomAt(sx, sy, factor float32) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Zoom = clamp(c.Zoom*factor, c.MinZoom, c.MaxZoom)
	c.X = wx - (sx-c.ViewportW/2)/c.Zoom
	c.Y = wy - (sy-c.ViewportH/2)/c.Zoom
	c.clampCenter()
}

// Reset centers the grid at the fit zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW() / 2
	c.Y = c.WorldH() / 2
	c.Zoom = clamp(c.fitZoom(), c.MinZoom, c.MaxZoom)
}

func (c *Camera) clampCenter() {
	c.X = clampAxis(c.X, c.WorldW(), c.ViewportW/c.Zoom)
	c.Y = clampAxis(c.Y, c.WorldH(), c.ViewportH/c.Zoom)
}

// clampAxis keeps the visible span inside [0, size], centering when the
// span is larger than the grid.
func clampAxis(center, size, span float32) float32 {
	if span >= size {
		return size / 2
	}
	return clamp(center, span/2, size-span/2)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampInt(x, lo, hi int) int {
	return min(max(x, lo), hi)
}
