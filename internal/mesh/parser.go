package mesh

import (
	"fmt"
	"image/color"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// modelDoc mirrors the on-disk YAML layout.
type modelDoc struct {
	Name  string    `yaml:"name"`
	Parts []partDoc `yaml:"parts"`
	Clips []clipDoc `yaml:"clips"`
}

type partDoc struct {
	Name      string        `yaml:"name"`
	Color     string        `yaml:"color"`
	Primitive *primitiveDoc `yaml:"primitive"`
	Vertices  [][3]float64  `yaml:"vertices"`
	Faces     [][3]int      `yaml:"faces"`
	Offset    [3]float64    `yaml:"offset"`
	Scale     *[3]float64   `yaml:"scale"`
}

type primitiveDoc struct {
	Type     string     `yaml:"type"` // box, sphere, cylinder, cone
	Size     [3]float64 `yaml:"size"`
	Radius   float64    `yaml:"radius"`
	Height   float64    `yaml:"height"`
	Segments int        `yaml:"segments"`
	Rings    int        `yaml:"rings"`
}

type clipDoc struct {
	Name     string     `yaml:"name"`
	Duration float64    `yaml:"duration"`
	Tracks   []trackDoc `yaml:"tracks"`
}

type trackDoc struct {
	Part     string       `yaml:"part"`
	Property string       `yaml:"property"`
	Keys     [][2]float64 `yaml:"keys"`
}

// LoadModel reads and parses a model file from fsys.
//
// Parameters:
//   - fsys: asset file system (embedded data or a directory)
//   - path: model path, e.g. "data/models/grenade.yaml"
//
// Returns:
//   - *Model: the parsed model
//   - error: read or parse error
func LoadModel(fsys fs.FS, path string) (*Model, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model '%s': %w", path, err)
	}
	m, err := ParseModel(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model '%s': %w", path, err)
	}
	return m, nil
}

// ParseModel parses model YAML. Primitive parts are expanded into triangle
// meshes, so the returned Model only contains plain vertices and faces.
func ParseModel(data []byte) (*Model, error) {
	var doc modelDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Parts) == 0 {
		return nil, fmt.Errorf("model %q has no parts", doc.Name)
	}

	m := &Model{Name: doc.Name}
	partNames := make(map[string]bool, len(doc.Parts))

	for i, pd := range doc.Parts {
		part, err := buildPart(pd)
		if err != nil {
			return nil, fmt.Errorf("part %d (%s): %w", i, pd.Name, err)
		}
		if part.Name == "" {
			part.Name = "part" + strconv.Itoa(i)
		}
		partNames[part.Name] = true
		m.Parts = append(m.Parts, part)
	}

	for _, cd := range doc.Clips {
		clip, err := buildClip(cd, partNames)
		if err != nil {
			return nil, fmt.Errorf("clip %s: %w", cd.Name, err)
		}
		m.Clips = append(m.Clips, clip)
	}

	return m, nil
}

func buildPart(pd partDoc) (Part, error) {
	c, err := parseColor(pd.Color)
	if err != nil {
		return Part{}, err
	}
	part := Part{
		Name:   pd.Name,
		Color:  c,
		Offset: r3.Vec{X: pd.Offset[0], Y: pd.Offset[1], Z: pd.Offset[2]},
		Scale:  r3.Vec{X: 1, Y: 1, Z: 1},
	}
	if pd.Scale != nil {
		part.Scale = r3.Vec{X: pd.Scale[0], Y: pd.Scale[1], Z: pd.Scale[2]}
	}

	if pd.Primitive != nil {
		part.Vertices, part.Faces, err = buildPrimitive(*pd.Primitive)
		if err != nil {
			return Part{}, err
		}
		return part, nil
	}

	for _, v := range pd.Vertices {
		part.Vertices = append(part.Vertices, r3.Vec{X: v[0], Y: v[1], Z: v[2]})
	}
	for _, f := range pd.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(part.Vertices) {
				return Part{}, fmt.Errorf("face index %d out of range (%d vertices)", idx, len(part.Vertices))
			}
		}
		part.Faces = append(part.Faces, f)
	}
	if len(part.Faces) == 0 {
		return Part{}, fmt.Errorf("part has neither primitive nor faces")
	}
	return part, nil
}

func buildPrimitive(p primitiveDoc) ([]r3.Vec, [][3]int, error) {
	switch p.Type {
	case "box":
		return Box(r3.Vec{X: p.Size[0], Y: p.Size[1], Z: p.Size[2]}), boxFaces(), nil
	case "sphere":
		v, f := Sphere(p.Radius, p.Segments, p.Rings)
		return v, f, nil
	case "cylinder":
		v, f := Cylinder(p.Radius, p.Radius, p.Height, p.Segments)
		return v, f, nil
	case "cone":
		v, f := Cylinder(p.Radius, 0, p.Height, p.Segments)
		return v, f, nil
	default:
		return nil, nil, fmt.Errorf("unknown primitive type %q", p.Type)
	}
}

func buildClip(cd clipDoc, parts map[string]bool) (Clip, error) {
	if cd.Duration <= 0 {
		return Clip{}, fmt.Errorf("duration must be positive, got %v", cd.Duration)
	}
	clip := Clip{Name: cd.Name, Duration: cd.Duration}
	for _, td := range cd.Tracks {
		if !parts[td.Part] {
			return Clip{}, fmt.Errorf("track references unknown part %q", td.Part)
		}
		prop := Property(td.Property)
		if !prop.valid() {
			return Clip{}, fmt.Errorf("unknown track property %q", td.Property)
		}
		if len(td.Keys) == 0 {
			return Clip{}, fmt.Errorf("track %s.%s has no keys", td.Part, td.Property)
		}
		track := Track{Part: td.Part, Property: prop}
		for _, k := range td.Keys {
			track.Keys = append(track.Keys, Keyframe{Time: k[0], Value: k[1]})
		}
		sort.SliceStable(track.Keys, func(i, j int) bool { return track.Keys[i].Time < track.Keys[j].Time })
		clip.Tracks = append(clip.Tracks, track)
	}
	return clip, nil
}

// parseColor accepts "#RRGGBB"; an empty string means light grey.
func parseColor(s string) (color.RGBA, error) {
	if s == "" {
		return color.RGBA{R: 200, G: 200, B: 200, A: 255}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("bad colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("bad colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
