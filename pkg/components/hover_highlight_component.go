package components

import "image/color"

// 高亮颜色
var (
	HighlightFree     = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF} // 空格子
	HighlightOccupied = color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF} // 已放置
	HighlightPlaced   = color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF} // 刚刚放置
)

// HighlightComponent 悬停高亮格
// 每次指针移动都会更新，不持久化
type HighlightComponent struct {
	// Cell 当前悬停的格子
	Cell GridCell

	// Valid 指针是否曾经命中过地面（初始为 false 时点击无效）
	Valid bool

	// Occupied 当前格子是否已放置
	Occupied bool

	// Color 当前颜色
	Color color.RGBA

	// Opacity 透明度（0.0 - 1.0），由渲染循环按正弦脉动
	Opacity float64
}
