package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestTrackValueAt(t *testing.T) {
	tr := Track{Keys: []Keyframe{{0, 0}, {1, 10}, {3, 30}}}
	tests := []struct {
		t, want float64
	}{
		{-1, 0},
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 20},
		{3, 30},
		{5, 30},
	}
	for _, tt := range tests {
		if got := tr.ValueAt(tt.t); !approx(got, tt.want) {
			t.Errorf("ValueAt(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func testModel() *Model {
	return &Model{
		Name:  "test",
		Parts: []Part{{Name: "a", Scale: r3.Vec{X: 1, Y: 1, Z: 1}}},
		Clips: []Clip{{
			Name:     "spin",
			Duration: 2,
			Tracks: []Track{
				{Part: "a", Property: PropertyRotationY, Keys: []Keyframe{{0, 0}, {2, 2}}},
				{Part: "a", Property: PropertyScale, Keys: []Keyframe{{0, 2}, {2, 2}}},
			},
		}},
	}
}

// TestPlayerTimeScale 以半速播放时，1 秒只推进 0.5 秒动画
func TestPlayerTimeScale(t *testing.T) {
	p := NewPlayer(testModel(), 0.5)
	p.Advance(1)

	if !approx(p.Actions[0].Time, 0.5) {
		t.Errorf("action time: got %v, want 0.5", p.Actions[0].Time)
	}
	pose := p.Poses()["a"]
	if !approx(pose.Rotation.Y, 0.5) {
		t.Errorf("rotationY: got %v, want 0.5", pose.Rotation.Y)
	}
	if !approx(pose.Scale, 2) {
		t.Errorf("scale: got %v, want 2", pose.Scale)
	}
}

func TestPlayerLoops(t *testing.T) {
	p := NewPlayer(testModel(), 1)
	for i := 0; i < 5; i++ {
		p.Advance(1)
	}
	// 5 秒 mod 2 秒 = 1 秒
	if !approx(p.Actions[0].Time, 1) {
		t.Errorf("looped time: got %v, want 1", p.Actions[0].Time)
	}
	if !approx(p.Elapsed, 5) {
		t.Errorf("Elapsed: got %v, want 5", p.Elapsed)
	}
}

func TestPlayerWithoutClips(t *testing.T) {
	p := NewPlayer(&Model{Name: "static"}, 0.5)
	p.Advance(1)
	if len(p.Poses()) != 0 {
		t.Error("model without clips should produce no poses")
	}
	NewPlayer(nil, 1).Advance(1)
}

func TestRotateEulerOrder(t *testing.T) {
	// Z 先作用：X 轴绕 Z 转 90° 得到 Y 轴，再绕 X 转 90° 得到 Z 轴
	got := RotateEuler(r3.Vec{X: 1}, r3.Vec{X: math.Pi / 2, Z: math.Pi / 2})
	if !approxVec(got, r3.Vec{Z: 1}) {
		t.Errorf("RotateEuler: got %v, want (0,0,1)", got)
	}
}

func TestPartToModel(t *testing.T) {
	part := &Part{Scale: r3.Vec{X: 2, Y: 1, Z: 1}, Offset: r3.Vec{Y: 1}}
	pose := Pose{Scale: 0.5, Offset: r3.Vec{Z: 3}}
	got := PartToModel(part, pose, r3.Vec{X: 1, Y: 1})
	if !approxVec(got, r3.Vec{X: 1, Y: 1.5, Z: 3}) {
		t.Errorf("PartToModel: got %v", got)
	}
}
