package utils

import (
	"math"

	"github.com/decker502/grenadegrid/pkg/components"
	"gonum.org/v1/gonum/spatial/r3"
)

// SnapToCell 将地面命中点吸附到所在格子
// 参数:
//   - hit: 射线与地面的交点（世界坐标）
//
// 返回:
//   - components.GridCell: 格子，中心为 floor(hit)+0.5
//
// 例：(1.3, 0, 0.7) -> 中心 (1.5, 0, 0.5)
func SnapToCell(hit r3.Vec) components.GridCell {
	return components.GridCell{
		I: int(math.Floor(hit.X)),
		K: int(math.Floor(hit.Z)),
	}
}

// CellCorners 返回格子四个角的世界坐标（y=0），逆时针
func CellCorners(c components.GridCell) [4]r3.Vec {
	x0, z0 := float64(c.I), float64(c.K)
	return [4]r3.Vec{
		{X: x0, Z: z0},
		{X: x0 + 1, Z: z0},
		{X: x0 + 1, Z: z0 + 1},
		{X: x0, Z: z0 + 1},
	}
}

// GridLines 返回网格线段端点（每条线两个点）
// 网格以原点为中心，边长 size，每格边长 1
func GridLines(size int) [][2]r3.Vec {
	half := float64(size) / 2
	lines := make([][2]r3.Vec, 0, 2*(size+1))
	for i := 0; i <= size; i++ {
		v := -half + float64(i)
		lines = append(lines,
			[2]r3.Vec{{X: v, Z: -half}, {X: v, Z: half}},
			[2]r3.Vec{{X: -half, Z: v}, {X: half, Z: v}},
		)
	}
	return lines
}
