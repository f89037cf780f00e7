package components

import "testing"

func TestGridContains(t *testing.T) {
	grid := &GridComponent{Size: 2}
	tests := []struct {
		cell GridCell
		want bool
	}{
		{GridCell{-1, -1}, true},
		{GridCell{0, 0}, true},
		{GridCell{-1, 0}, true},
		{GridCell{1, 0}, false},
		{GridCell{0, -2}, false},
	}
	for _, tt := range tests {
		if got := grid.Contains(tt.cell); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.cell, got, tt.want)
		}
	}
	if grid.HalfExtent() != 1 {
		t.Errorf("HalfExtent: got %v, want 1", grid.HalfExtent())
	}
}

func TestGridCellCenter(t *testing.T) {
	c := GridCell{I: 1, K: 0}
	center := c.Center()
	if center.X != 1.5 || center.Y != 0 || center.Z != 0.5 {
		t.Errorf("Center: got %v, want (1.5, 0, 0.5)", center)
	}
	if c.String() != "(1.5, 0.5)" {
		t.Errorf("String: got %q", c.String())
	}
}
