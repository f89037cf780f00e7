package game

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/decker502/grenadegrid/internal/mesh"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// Asset failure kinds. Callers match them with errors.Is.
var (
	// ErrAssetLoad is returned when an asset cannot be opened or decoded.
	ErrAssetLoad = errors.New("asset load failed")
	// ErrAssetTimeout is reported when an asynchronous load does not resolve in time.
	ErrAssetTimeout = errors.New("asset load timed out")
)

// ResourceManager is responsible for centralized management of scene resources.
// It provides loading and caching mechanisms for meshes, images and audio,
// ensuring that resources are loaded only once and reused.
//
// All assets are read from a single fs.FS (see pkg/embedded): "data/..." paths
// resolve to the embedded data directory, everything else to the optional
// -assets directory.
//
// Thread Safety Note:
// LoadModel is called from loader goroutines, so every cache is guarded by mu.
// Decoding happens outside the lock; two goroutines racing on the same path
// decode twice and the first stored result wins.
//
// Usage:
//
//	rm := NewResourceManager(embedded.FS(), audio.NewContext(48000))
//	model, err := rm.LoadModel("data/models/grenade.yaml")
//	if err != nil {
//	    log.Printf("Failed to load model: %v", err)
//	}
type ResourceManager struct {
	fsys         fs.FS
	audioContext *audio.Context // nil in headless runs; audio loads then fail with ErrAssetLoad

	mu         sync.Mutex
	modelCache map[string]*mesh.Model     // path -> parsed model (shared, read-only)
	imageCache map[string]*ebiten.Image   // path -> image
	audioCache map[string]*audio.Player   // path -> player
	frameCache map[string][]*ebiten.Image // glob pattern -> frames in name order
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - fsys: The file system every asset path is resolved against.
//   - audioContext: The global audio context used for decoding audio; may be nil.
//
// Returns:
//   - A pointer to a newly initialized ResourceManager with empty caches.
func NewResourceManager(fsys fs.FS, audioContext *audio.Context) *ResourceManager {
	return &ResourceManager{
		fsys:         fsys,
		audioContext: audioContext,
		modelCache:   make(map[string]*mesh.Model),
		imageCache:   make(map[string]*ebiten.Image),
		audioCache:   make(map[string]*audio.Player),
		frameCache:   make(map[string][]*ebiten.Image),
	}
}

// FS returns the file system the manager reads from.
func (rm *ResourceManager) FS() fs.FS {
	return rm.fsys
}

// LoadModel loads a YAML mesh and caches it for future use.
// Safe to call from multiple goroutines.
//
// Parameters:
//   - path: The mesh path (e.g., "data/models/grenade.yaml").
//
// Returns:
//   - The parsed model. The returned model is shared and must not be mutated.
//   - An error wrapping ErrAssetLoad if the file cannot be read or parsed.
func (rm *ResourceManager) LoadModel(path string) (*mesh.Model, error) {
	rm.mu.Lock()
	if cached, ok := rm.modelCache[path]; ok {
		rm.mu.Unlock()
		return cached, nil
	}
	rm.mu.Unlock()

	model, err := mesh.LoadModel(rm.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: model %s: %v", ErrAssetLoad, path, err)
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if cached, ok := rm.modelCache[path]; ok {
		return cached, nil
	}
	rm.modelCache[path] = model
	return model, nil
}

// decodeImage reads and decodes an image without touching the caches.
func (rm *ResourceManager) decodeImage(path string) (image.Image, error) {
	file, err := rm.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open image %s: %v", ErrAssetLoad, path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w: decode image %s: %v", ErrAssetLoad, path, err)
	}
	return img, nil
}

// LoadImage loads an image file and caches it for future use.
// Supported formats: PNG and JPEG.
func (rm *ResourceManager) LoadImage(path string) (*ebiten.Image, error) {
	rm.mu.Lock()
	if cached, ok := rm.imageCache[path]; ok {
		rm.mu.Unlock()
		return cached, nil
	}
	rm.mu.Unlock()

	img, err := rm.decodeImage(path)
	if err != nil {
		return nil, err
	}
	ebitenImg := ebiten.NewImageFromImage(img)

	rm.mu.Lock()
	rm.imageCache[path] = ebitenImg
	rm.mu.Unlock()
	return ebitenImg, nil
}

// FramePaths expands a frame glob pattern and returns the matches in name order.
//
// Returns:
//   - An error wrapping ErrAssetLoad if the pattern is malformed or matches nothing.
func (rm *ResourceManager) FramePaths(pattern string) ([]string, error) {
	matches, err := fs.Glob(rm.fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: frames %s: %v", ErrAssetLoad, pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: frames %s: no files match", ErrAssetLoad, pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// LoadFrames loads a video frame sequence (e.g., "video/frame_*.png").
// Frames are ordered by file name, so names must be zero-padded.
func (rm *ResourceManager) LoadFrames(pattern string) ([]*ebiten.Image, error) {
	rm.mu.Lock()
	if cached, ok := rm.frameCache[pattern]; ok {
		rm.mu.Unlock()
		return cached, nil
	}
	rm.mu.Unlock()

	paths, err := rm.FramePaths(pattern)
	if err != nil {
		return nil, err
	}
	frames := make([]*ebiten.Image, 0, len(paths))
	for _, p := range paths {
		img, err := rm.LoadImage(p)
		if err != nil {
			return nil, err
		}
		frames = append(frames, img)
	}

	rm.mu.Lock()
	rm.frameCache[pattern] = frames
	rm.mu.Unlock()
	return frames, nil
}

// decodeAudio decodes an audio file by extension.
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
func (rm *ResourceManager) decodeAudio(p string) (io.ReadSeeker, error) {
	// Read the entire file into memory so the stream can seek without an open handle
	data, err := fs.ReadFile(rm.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%w: read audio %s: %v", ErrAssetLoad, p, err)
	}
	reader := bytes.NewReader(data)

	var stream io.ReadSeeker
	switch ext := strings.ToLower(path.Ext(p)); ext {
	case ".mp3":
		stream, err = mp3.DecodeWithoutResampling(reader)
	case ".ogg":
		stream, err = vorbis.DecodeWithoutResampling(reader)
	case ".wav":
		stream, err = wav.DecodeWithoutResampling(reader)
	default:
		return nil, fmt.Errorf("%w: unsupported audio format %s (supported: .mp3, .ogg, .wav)", ErrAssetLoad, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode audio %s: %v", ErrAssetLoad, p, err)
	}
	return stream, nil
}

// LoadSoundEffect loads an audio track that plays once and caches the player.
// Supported formats: MP3 (.mp3), OGG Vorbis (.ogg) and WAV (.wav).
func (rm *ResourceManager) LoadSoundEffect(p string) (*audio.Player, error) {
	rm.mu.Lock()
	if cached, ok := rm.audioCache[p]; ok {
		rm.mu.Unlock()
		return cached, nil
	}
	rm.mu.Unlock()

	if rm.audioContext == nil {
		return nil, fmt.Errorf("%w: audio %s: no audio context", ErrAssetLoad, p)
	}
	stream, err := rm.decodeAudio(p)
	if err != nil {
		return nil, err
	}
	player, err := rm.audioContext.NewPlayer(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: audio player %s: %v", ErrAssetLoad, p, err)
	}

	rm.mu.Lock()
	rm.audioCache[p] = player
	rm.mu.Unlock()
	return player, nil
}
