package mesh

import "gonum.org/v1/gonum/spatial/r3"

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// RotateEuler rotates v by Euler angles in XYZ order: the matrix is
// Rx*Ry*Rz, so Z is applied first.
func RotateEuler(v, rot r3.Vec) r3.Vec {
	if rot.Z != 0 {
		v = r3.Rotate(v, rot.Z, axisZ)
	}
	if rot.Y != 0 {
		v = r3.Rotate(v, rot.Y, axisY)
	}
	if rot.X != 0 {
		v = r3.Rotate(v, rot.X, axisX)
	}
	return v
}

// MulElem multiplies two vectors component-wise.
func MulElem(a, b r3.Vec) r3.Vec {
	return r3.Vec{X: a.X * b.X, Y: a.Y * b.Y, Z: a.Z * b.Z}
}

// PartToModel maps a part-local vertex into model space, applying the part's
// rest scale and offset and the animated pose.
func PartToModel(part *Part, pose Pose, v r3.Vec) r3.Vec {
	v = r3.Scale(pose.Scale, MulElem(part.Scale, v))
	v = RotateEuler(v, pose.Rotation)
	return r3.Add(v, r3.Add(part.Offset, pose.Offset))
}
