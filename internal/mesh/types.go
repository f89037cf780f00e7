// Package mesh provides data structures and parsers for the YAML model files
// used by the scene. A model is a set of coloured triangle-mesh parts plus
// optional keyframed animation clips that move those parts.
package mesh

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r3"
)

// Model is a parsed model file, shared read-only between every instance
// placed in the scene.
type Model struct {
	// Name is the model name, e.g. "grenade"
	Name string

	// Parts are the rigid pieces of the model, drawn in order
	Parts []Part

	// Clips are the embedded animations; a model may have none
	Clips []Clip
}

// Part is a single rigid triangle mesh.
type Part struct {
	// Name identifies the part for animation tracks
	Name string

	// Color is the base (unlit) colour of every face
	Color color.RGBA

	// Vertices in part-local space
	Vertices []r3.Vec

	// Faces are counter-clockwise triangles indexing Vertices
	Faces [][3]int

	// Offset places the part inside the model
	Offset r3.Vec

	// Scale is applied to Vertices before Offset
	Scale r3.Vec
}

// Property is the part attribute a track animates.
type Property string

const (
	PropertyOffsetX   Property = "offsetX"
	PropertyOffsetY   Property = "offsetY"
	PropertyOffsetZ   Property = "offsetZ"
	PropertyRotationX Property = "rotationX"
	PropertyRotationY Property = "rotationY"
	PropertyRotationZ Property = "rotationZ"
	PropertyScale     Property = "scale"
)

func (p Property) valid() bool {
	switch p {
	case PropertyOffsetX, PropertyOffsetY, PropertyOffsetZ,
		PropertyRotationX, PropertyRotationY, PropertyRotationZ, PropertyScale:
		return true
	}
	return false
}

// Keyframe is a (time, value) pair. Values between keyframes are linearly
// interpolated.
type Keyframe struct {
	Time  float64
	Value float64
}

// Track animates one property of one part.
type Track struct {
	Part     string
	Property Property
	Keys     []Keyframe // sorted by Time
}

// Clip is a named animation made of tracks.
type Clip struct {
	Name     string
	Duration float64 // seconds; always > 0
	Tracks   []Track
}

// Pose is the animated delta applied to a part on top of its rest transform.
type Pose struct {
	Offset   r3.Vec // added to Part.Offset
	Rotation r3.Vec // Euler angles in radians (XYZ order)
	Scale    float64
}

// IdentityPose returns a pose that leaves the part untouched.
func IdentityPose() Pose {
	return Pose{Scale: 1}
}
