package types

import "testing"

func TestSceneModeAdvance(t *testing.T) {
	tests := []struct {
		from, to SceneMode
		want     bool
	}{
		{SceneModeInteractive, SceneModeTransitioning, true},
		{SceneModeTransitioning, SceneModeFinal, true},
		{SceneModeInteractive, SceneModeFinal, false},
		{SceneModeFinal, SceneModeInteractive, false},
		{SceneModeTransitioning, SceneModeInteractive, false},
		{SceneModeFinal, SceneModeFinal + 1, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanAdvanceTo(tt.to); got != tt.want {
			t.Errorf("%v -> %v: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestSceneModeAcceptsInput(t *testing.T) {
	if !SceneModeInteractive.AcceptsInput() {
		t.Error("interactive mode should accept input")
	}
	if SceneModeTransitioning.AcceptsInput() || SceneModeFinal.AcceptsInput() {
		t.Error("only interactive mode accepts input")
	}
}

func TestVariantIsValid(t *testing.T) {
	if !VariantExplosion.IsValid() || !VariantVideo.IsValid() {
		t.Error("built-in variants should be valid")
	}
	if Variant("fireworks").IsValid() {
		t.Error("unknown variant should be invalid")
	}
}
