package game

import (
	"errors"
	"os"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const testModelYAML = `
name: tri
parts:
  - name: a
    color: "#FF0000"
    vertices: [[0,0,0],[1,0,0],[0,1,0]]
    faces: [[0,1,2]]
`

func newTestFS() fstest.MapFS {
	return fstest.MapFS{
		"data/models/tri.yaml":    {Data: []byte(testModelYAML)},
		"data/models/broken.yaml": {Data: []byte("parts: [[[")},
		"video/frame_010.png":     {Data: []byte("x")},
		"video/frame_002.png":     {Data: []byte("x")},
		"video/frame_001.png":     {Data: []byte("x")},
		"audio/theme.flac":        {Data: []byte("x")},
	}
}

// TestNewResourceManager tests the creation of a new ResourceManager instance.
func TestNewResourceManager(t *testing.T) {
	fsys := newTestFS()
	rm := NewResourceManager(fsys, nil)

	if rm.modelCache == nil || rm.imageCache == nil || rm.audioCache == nil || rm.frameCache == nil {
		t.Fatal("caches must be initialized")
	}
	if rm.audioContext != nil {
		t.Error("audioContext should be nil")
	}
}

// TestLoadModel_Caches tests that a model is parsed once and shared.
func TestLoadModel_Caches(t *testing.T) {
	rm := NewResourceManager(newTestFS(), nil)

	first, err := rm.LoadModel("data/models/tri.yaml")
	if err != nil {
		t.Fatalf("LoadModel error: %v", err)
	}
	if first.Name != "tri" || len(first.Parts) != 1 {
		t.Errorf("unexpected model: %+v", first)
	}
	second, err := rm.LoadModel("data/models/tri.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second LoadModel should return the cached model")
	}
	if len(rm.modelCache) != 1 {
		t.Errorf("modelCache holds %d models, want 1", len(rm.modelCache))
	}
}

// TestLoadModel_Concurrent tests loads from several goroutines at once.
func TestLoadModel_Concurrent(t *testing.T) {
	rm := NewResourceManager(newTestFS(), nil)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := rm.LoadModel("data/models/tri.yaml"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent LoadModel: %v", err)
	}
	if rm.modelCache["data/models/tri.yaml"] == nil {
		t.Error("model should be cached after concurrent loads")
	}
}

// TestLoadModel_Errors tests that failures wrap ErrAssetLoad.
func TestLoadModel_Errors(t *testing.T) {
	rm := NewResourceManager(newTestFS(), nil)

	for _, path := range []string{"data/models/missing.yaml", "data/models/broken.yaml"} {
		_, err := rm.LoadModel(path)
		if !errors.Is(err, ErrAssetLoad) {
			t.Errorf("LoadModel(%s): got %v, want ErrAssetLoad", path, err)
		}
	}
}

// TestLoadModel_Bundled tests the models shipped with the binary.
func TestLoadModel_Bundled(t *testing.T) {
	rm := NewResourceManager(os.DirFS("../.."), nil)
	for _, path := range []string{"data/models/grenade.yaml", "data/models/explosion.yaml"} {
		if _, err := rm.LoadModel(path); err != nil {
			t.Errorf("LoadModel(%s): %v", path, err)
		}
	}
}

// TestFramePaths tests glob expansion and ordering of video frames.
func TestFramePaths(t *testing.T) {
	rm := NewResourceManager(newTestFS(), nil)

	paths, err := rm.FramePaths("video/frame_*.png")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"video/frame_001.png", "video/frame_002.png", "video/frame_010.png"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("FramePaths mismatch (-want +got):\n%s", diff)
	}

	if _, err := rm.FramePaths("video/none_*.png"); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("empty match: got %v, want ErrAssetLoad", err)
	}
	if _, err := rm.FramePaths("video/[.png"); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("bad pattern: got %v, want ErrAssetLoad", err)
	}
}

// TestLoadAudio_Errors tests audio failures without touching an audio device.
func TestLoadAudio_Errors(t *testing.T) {
	rm := NewResourceManager(newTestFS(), nil)

	if _, err := rm.LoadSoundEffect("audio/theme.flac"); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("no audio context: got %v, want ErrAssetLoad", err)
	}
	if _, err := rm.decodeAudio("audio/theme.flac"); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("unsupported format: got %v, want ErrAssetLoad", err)
	}
	if _, err := rm.decodeAudio("audio/missing.ogg"); !errors.Is(err, ErrAssetLoad) {
		t.Errorf("missing file: got %v, want ErrAssetLoad", err)
	}
	if len(rm.audioCache) != 0 {
		t.Error("failed loads must not be cached")
	}
}
