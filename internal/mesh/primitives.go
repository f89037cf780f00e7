package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	defaultSegments = 12
	defaultRings    = 8
)

// Box returns the 8 corners of an axis-aligned box centred on the origin.
// Use boxFaces for the matching triangles.
func Box(size r3.Vec) []r3.Vec {
	hx, hy, hz := size.X/2, size.Y/2, size.Z/2
	return []r3.Vec{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz},
		{X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz},
		{X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
	}
}

func boxFaces() [][3]int {
	return [][3]int{
		{0, 2, 1}, {0, 3, 2}, // -Z
		{4, 5, 6}, {4, 6, 7}, // +Z
		{0, 1, 5}, {0, 5, 4}, // -Y
		{3, 7, 6}, {3, 6, 2}, // +Y
		{0, 4, 7}, {0, 7, 3}, // -X
		{1, 2, 6}, {1, 6, 5}, // +X
	}
}

// Sphere returns a UV sphere centred on the origin.
func Sphere(radius float64, segments, rings int) ([]r3.Vec, [][3]int) {
	if segments < 3 {
		segments = defaultSegments
	}
	if rings < 2 {
		rings = defaultRings
	}

	var verts []r3.Vec
	for r := 0; r <= rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y := radius * math.Cos(phi)
		ringR := radius * math.Sin(phi)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			verts = append(verts, r3.Vec{X: ringR * math.Cos(theta), Y: y, Z: ringR * math.Sin(theta)})
		}
	}

	var faces [][3]int
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			a := r*segments + s
			b := r*segments + (s+1)%segments
			c := (r+1)*segments + s
			d := (r+1)*segments + (s+1)%segments
			// 两极处的退化三角形直接跳过
			if r != 0 {
				faces = append(faces, [3]int{a, b, c})
			}
			if r != rings-1 {
				faces = append(faces, [3]int{b, d, c})
			}
		}
	}
	return verts, faces
}

// Cylinder returns a capped cylinder (or cone when topRadius is 0) standing
// on the Y axis and centred on the origin.
func Cylinder(bottomRadius, topRadius, height float64, segments int) ([]r3.Vec, [][3]int) {
	if segments < 3 {
		segments = defaultSegments
	}
	h := height / 2

	var verts []r3.Vec
	for s := 0; s < segments; s++ {
		theta := 2 * math.Pi * float64(s) / float64(segments)
		c, sn := math.Cos(theta), math.Sin(theta)
		verts = append(verts, r3.Vec{X: bottomRadius * c, Y: -h, Z: bottomRadius * sn})
		verts = append(verts, r3.Vec{X: topRadius * c, Y: h, Z: topRadius * sn})
	}
	bottomCenter := len(verts)
	verts = append(verts, r3.Vec{Y: -h})
	topCenter := len(verts)
	verts = append(verts, r3.Vec{Y: h})

	var faces [][3]int
	for s := 0; s < segments; s++ {
		b0, t0 := 2*s, 2*s+1
		b1, t1 := 2*((s+1)%segments), 2*((s+1)%segments)+1
		faces = append(faces, [3]int{b0, t0, b1}, [3]int{b1, t0, t1})
		faces = append(faces, [3]int{bottomCenter, b0, b1})
		if topRadius > 0 {
			faces = append(faces, [3]int{topCenter, t1, t0})
		}
	}
	return verts, faces
}
