package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNewFitsGrid(t *testing.T) {
	// 50x100 cells of 10px: a 1000x500 world in a 500x500 viewport.
	cam := New(500, 500, 50, 100, 10)

	if !near(cam.Zoom, 0.5) || !near(cam.MinZoom, 0.5) {
		t.Errorf("zoom = %v, min %v, want 0.5", cam.Zoom, cam.MinZoom)
	}
	if !near(cam.X, 500) || !near(cam.Y, 250) {
		t.Errorf("center = (%v, %v), want (500, 250)", cam.X, cam.Y)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(800, 600, 40, 40, 20)
	cam.SetZoom(2)
	cam.Pan(37, -12)

	tests := []struct{ sx, sy float32 }{
		{0, 0}, {400, 300}, {799, 599}, {123.5, 456.25},
	}
	for _, tt := range tests {
		wx, wy := cam.ScreenToWorld(tt.sx, tt.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tt.sx) || !near(sy, tt.sy) {
			t.Errorf("roundtrip (%v,%v) -> (%v,%v)", tt.sx, tt.sy, sx, sy)
		}
	}
}

func TestCellAt(t *testing.T) {
	cam := New(100, 100, 10, 10, 10) // zoom 1, grid fills viewport exactly

	tests := []struct {
		name     string
		sx, sy   float32
		row, col int
		ok       bool
	}{
		{"origin", 0, 0, 0, 0, true},
		{"inside", 35, 72, 7, 3, true},
		{"last cell", 99.9, 99.9, 9, 9, true},
		{"right of grid", 100.5, 50, 0, 0, false},
		{"above grid", 50, -1, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, col, ok := cam.CellAt(tt.sx, tt.sy)
			if ok != tt.ok || (ok && (row != tt.row || col != tt.col)) {
				t.Errorf("CellAt(%v,%v) = %d,%d,%v, want %d,%d,%v", tt.sx, tt.sy, row, col, ok, tt.row, tt.col, tt.ok)
			}
		})
	}
}

func TestCellRect(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	cam.SetZoom(2)

	x, y, size := cam.CellRect(5, 5)
	if !near(size, 20) {
		t.Errorf("size = %v, want 20", size)
	}
	// Cell (5,5) starts at the grid center, which is the screen center.
	if !near(x, 50) || !near(y, 50) {
		t.Errorf("corner = (%v, %v), want (50, 50)", x, y)
	}
}

func TestPanStaysOverGrid(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	cam.SetZoom(2) // 50x50 world units visible

	cam.Pan(-10000, -10000)
	if !near(cam.X, 25) || !near(cam.Y, 25) {
		t.Errorf("center = (%v, %v), want (25, 25)", cam.X, cam.Y)
	}
	cam.Pan(10000, 10000)
	if !near(cam.X, 75) || !near(cam.Y, 75) {
		t.Errorf("center = (%v, %v), want (75, 75)", cam.X, cam.Y)
	}

	// Zoomed out past the grid, the view centers.
	cam.SetZoom(cam.MinZoom)
	if !near(cam.X, 50) || !near(cam.Y, 50) {
		t.Errorf("center = (%v, %v), want (50, 50)", cam.X, cam.Y)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)

	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("zoom = %v, want max %v", cam.Zoom, cam.MaxZoom)
	}
	cam.ZoomBy(0.0001)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("zoom = %v, want min %v", cam.Zoom, cam.MinZoom)
	}
}

func TestZoomAtKeepsPoint(t *testing.T) {
	cam := New(200, 200, 20, 20, 10)
	wx, wy := cam.ScreenToWorld(120, 80)

	cam.ZoomAt(120, 80, 2)
	gx, gy := cam.ScreenToWorld(120, 80)
	if !near(gx, wx) || !near(gy, wy) {
		t.Errorf("point moved from (%v,%v) to (%v,%v)", wx, wy, gx, gy)
	}
}

func TestVisibleCells(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	if r0, c0, r1, c1 := cam.VisibleCells(); r0 != 0 || c0 != 0 || r1 != 10 || c1 != 10 {
		t.Errorf("full view = %d,%d..%d,%d", r0, c0, r1, c1)
	}

	cam.SetZoom(2)
	cam.Pan(-1000, -1000)
	if r0, c0, r1, c1 := cam.VisibleCells(); r0 != 0 || c0 != 0 || r1 != 5 || c1 != 5 {
		t.Errorf("zoomed view = %d,%d..%d,%d, want 0,0..5,5", r0, c0, r1, c1)
	}
}

func TestResize(t *testing.T) {
	cam := New(100, 100, 10, 10, 10)
	cam.Resize(200, 400)
	if !near(cam.MinZoom, 2) || cam.Zoom < cam.MinZoom {
		t.Errorf("after resize zoom %v min %v", cam.Zoom, cam.MinZoom)
	}
}
