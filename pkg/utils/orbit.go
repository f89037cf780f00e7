package utils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spherical 球坐标（相对于注视点）
//   - Radius: 距离
//   - Polar: 与 +Y 轴的夹角（弧度），0 为正上方
//   - Azimuth: 绕 Y 轴的角度（弧度），从 +Z 轴起算
type Spherical struct {
	Radius  float64
	Polar   float64
	Azimuth float64
}

// SphericalFromOffset 由相对注视点的偏移向量计算球坐标
func SphericalFromOffset(offset r3.Vec) Spherical {
	r := r3.Norm(offset)
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius:  r,
		Polar:   math.Acos(Clamp(offset.Y/r, -1, 1)),
		Azimuth: math.Atan2(offset.X, offset.Z),
	}
}

// Offset 转回偏移向量
func (s Spherical) Offset() r3.Vec {
	sinP := math.Sin(s.Polar)
	return r3.Vec{
		X: s.Radius * sinP * math.Sin(s.Azimuth),
		Y: s.Radius * math.Cos(s.Polar),
		Z: s.Radius * sinP * math.Cos(s.Azimuth),
	}
}

// Clamped 将极角和距离限制在给定范围内
func (s Spherical) Clamped(minPolar, maxPolar, minRadius, maxRadius float64) Spherical {
	s.Polar = Clamp(s.Polar, minPolar, maxPolar)
	s.Radius = Clamp(s.Radius, minRadius, maxRadius)
	return s
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
