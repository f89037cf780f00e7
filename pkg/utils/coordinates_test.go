package utils

import (
	"math"
	"testing"

	"github.com/decker502/grenadegrid/pkg/components"
	"gonum.org/v1/gonum/spatial/r3"
)

// newTestCamera 与默认配置一致的相机
func newTestCamera() *components.CameraComponent {
	return &components.CameraComponent{
		Position: r3.Vec{X: 5, Y: 10, Z: -4},
		FovY:     20,
		Near:     0.1,
		Far:      1000,
		Width:    1024,
		Height:   768,
	}
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestScreenToNDC(t *testing.T) {
	tests := []struct {
		x, y         int
		wantX, wantY float64
	}{
		{0, 0, -1, 1},
		{512, 384, 0, 0},
		{1024, 768, 1, -1},
	}
	for _, tt := range tests {
		gx, gy := ScreenToNDC(tt.x, tt.y, 1024, 768)
		if gx != tt.wantX || gy != tt.wantY {
			t.Errorf("ScreenToNDC(%d, %d) = (%v, %v), want (%v, %v)", tt.x, tt.y, gx, gy, tt.wantX, tt.wantY)
		}
	}
	if x, y := ScreenToNDC(10, 10, 0, 0); x != 0 || y != 0 {
		t.Error("zero-sized viewport should map to the centre")
	}
}

// TestCenterRayHitsTarget 屏幕中心的射线应命中注视点
func TestCenterRayHitsTarget(t *testing.T) {
	cam := newTestCamera()
	hit, ok := PickGround(cam, 512, 384, 1)
	if !ok {
		t.Fatal("centre ray should hit the ground")
	}
	if !near(hit.X, 0, 1e-9) || !near(hit.Z, 0, 1e-9) {
		t.Errorf("centre hit: got %v, want origin", hit)
	}
}

// TestProjectPickRoundTrip 投影到屏幕再拾取回地面，应得到同一个点和格子
func TestProjectPickRoundTrip(t *testing.T) {
	cam := newTestCamera()
	proj := NewProjector(cam)

	for _, cell := range []components.GridCell{{I: -1, K: -1}, {I: 0, K: -1}, {I: -1, K: 0}, {I: 0, K: 0}} {
		center := cell.Center()
		p, ok := proj.Project(center)
		if !ok {
			t.Fatalf("cell %v should be visible", cell)
		}
		ndcX := p.X/float64(cam.Width)*2 - 1
		ndcY := 1 - p.Y/float64(cam.Height)*2
		hit, ok := IntersectGround(RayFromCamera(cam, ndcX, ndcY), 1)
		if !ok {
			t.Fatalf("ray through projected %v missed the ground", cell)
		}
		if !near(hit.X, center.X, 1e-6) || !near(hit.Z, center.Z, 1e-6) {
			t.Errorf("round trip: got %v, want %v", hit, center)
		}
		if SnapToCell(hit) != cell {
			t.Errorf("round trip cell: got %v, want %v", SnapToCell(hit), cell)
		}
	}
}

func TestIntersectGroundMisses(t *testing.T) {
	// 平行于地面
	if _, ok := IntersectGround(Ray{Origin: r3.Vec{Y: 1}, Dir: r3.Vec{X: 1}}, 1); ok {
		t.Error("parallel ray should miss")
	}
	// 背向地面
	if _, ok := IntersectGround(Ray{Origin: r3.Vec{Y: 1}, Dir: r3.Vec{Y: 1}}, 1); ok {
		t.Error("ray pointing away should miss")
	}
	// 超出地面范围
	if _, ok := IntersectGround(Ray{Origin: r3.Vec{X: 5, Y: 1}, Dir: r3.Vec{Y: -1}}, 1); ok {
		t.Error("ray outside the plane extent should miss")
	}
	hit, ok := IntersectGround(Ray{Origin: r3.Vec{X: 0.3, Y: 2, Z: -0.4}, Dir: r3.Vec{Y: -1}}, 1)
	if !ok || hit != (r3.Vec{X: 0.3, Z: -0.4}) {
		t.Errorf("straight-down ray: got %v ok=%v", hit, ok)
	}
}

func TestProjectBehindCamera(t *testing.T) {
	cam := newTestCamera()
	proj := NewProjector(cam)
	// 相机背后的点
	_, _, forward := CameraBasis(cam)
	behind := r3.Add(cam.Position, r3.Scale(-1, forward))
	if _, ok := proj.Project(behind); ok {
		t.Error("point behind the camera should not project")
	}
}

func TestCameraBasisLookingStraightDown(t *testing.T) {
	cam := &components.CameraComponent{Position: r3.Vec{Y: 10}, FovY: 45, Width: 100, Height: 100}
	right, up, forward := CameraBasis(cam)
	for name, v := range map[string]r3.Vec{"right": right, "up": up, "forward": forward} {
		if math.IsNaN(v.X) || !near(r3.Norm(v), 1, 1e-9) {
			t.Errorf("%s should be a unit vector, got %v", name, v)
		}
	}
}
