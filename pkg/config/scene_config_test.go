package config

import (
	"errors"
	"image/color"
	"os"
	"testing"
	"testing/fstest"

	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/google/go-cmp/cmp"
)

func loadSchema(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("../../" + SceneSchemaPath)
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	return data
}

// TestLoadBundledSceneConfig 仓库自带的配置必须能通过校验，且与默认值一致
func TestLoadBundledSceneConfig(t *testing.T) {
	cfg, err := LoadSceneConfig(os.DirFS("../.."), DefaultSceneConfigPath)
	if err != nil {
		t.Fatalf("LoadSceneConfig() error: %v", err)
	}

	want := DefaultSceneConfig()
	// 自带配置额外指定了 video 终幕资源
	want.Final.VideoFrames = "video/frame_*.png"
	want.Final.Audio = "audio/explosion.ogg"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("bundled config mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSceneConfigKeepsDefaults(t *testing.T) {
	data := []byte("variant: explosion\ntiming:\n  fadeDuration: 3\n")
	cfg, err := ParseSceneConfig(data, loadSchema(t))
	if err != nil {
		t.Fatalf("ParseSceneConfig() error: %v", err)
	}

	if cfg.Timing.FadeDuration != 3 {
		t.Errorf("FadeDuration: got %v, want 3", cfg.Timing.FadeDuration)
	}
	// 未给出的字段保持默认值
	if cfg.Timing.TriggerDelay != 0.2 {
		t.Errorf("TriggerDelay: got %v, want 0.2", cfg.Timing.TriggerDelay)
	}
	if cfg.Capacity != 4 {
		t.Errorf("Capacity: got %d, want 4", cfg.Capacity)
	}
	if len(cfg.Lights) != 3 {
		t.Errorf("Lights: got %d, want default 3", len(cfg.Lights))
	}
}

func TestParseSceneConfigRejects(t *testing.T) {
	schema := loadSchema(t)
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown variant", "variant: fireworks\n"},
		{"unknown field", "bogus: 1\n"},
		{"negative delay", "timing:\n  triggerDelay: -1\n"},
		{"short vector", "camera:\n  position: [1, 2]\n"},
		{"bad color", "final:\n  background: white\n"},
		{"capacity over cells", "capacity: 5\n"},
		{"video without frames", "variant: video\nfinal:\n  videoFrames: \"\"\n"},
		{"inverted polar limits", "camera:\n  minPolarDeg: 80\n  maxPolarDeg: 10\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSceneConfig([]byte(tt.yaml), schema)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoadSceneConfigMissingFile(t *testing.T) {
	fsys := fstest.MapFS{}
	if _, err := LoadSceneConfig(fsys, DefaultSceneConfigPath); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestParseSceneConfigWithoutSchema(t *testing.T) {
	cfg, err := ParseSceneConfig([]byte("variant: video\n"), nil)
	if err == nil {
		t.Fatalf("video variant without frames should fail validation, got %+v", cfg)
	}

	cfg, err = ParseSceneConfig([]byte("variant: video\nfinal:\n  videoFrames: f/*.png\n"), nil)
	if err != nil {
		t.Fatalf("ParseSceneConfig() error: %v", err)
	}
	if cfg.Variant != types.VariantVideo {
		t.Errorf("Variant: got %v, want video", cfg.Variant)
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#FFFFFF", color.RGBA{255, 255, 255, 255}, true},
		{"#404040", color.RGBA{64, 64, 64, 255}, true},
		{"#FF000080", color.RGBA{255, 0, 0, 128}, true},
		{"FFFF00", color.RGBA{255, 255, 0, 255}, true},
		{"#FFF", color.RGBA{}, false},
		{"#GGGGGG", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseHexColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseHexColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
