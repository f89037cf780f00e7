package components

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// GridCell 单位网格上的格子，用整数格点坐标 (I, K) 标识
// 格子中心为 (I+0.5, 0, K+0.5)
type GridCell struct {
	I int // X 方向
	K int // Z 方向
}

// Center 返回格子中心的世界坐标（y=0）
func (c GridCell) Center() r3.Vec {
	return r3.Vec{X: float64(c.I) + 0.5, Z: float64(c.K) + 0.5}
}

// String 以中心坐标形式输出，便于日志阅读
func (c GridCell) String() string {
	center := c.Center()
	return fmt.Sprintf("(%.1f, %.1f)", center.X, center.Z)
}

// GridComponent 网格与不可见地面
// 地面是以原点为中心、边长为 Size 的正方形，只用于射线求交
type GridComponent struct {
	Size int
}

// HalfExtent 返回地面半边长
func (g *GridComponent) HalfExtent() float64 {
	return float64(g.Size) / 2
}

// Contains 检查格子是否位于网格内
func (g *GridComponent) Contains(c GridCell) bool {
	half := g.Size / 2
	return c.I >= -half && c.I < half && c.K >= -half && c.K < half
}
