package components

// PlacedObjectComponent 标识一个已放置的手雷
// CreatedAt 为场景时钟（秒），用于计算浮动和旋转
type PlacedObjectComponent struct {
	Cell      GridCell
	CreatedAt float64
}

// TerminalContentComponent 标识终幕内容（爆炸模型或视频）
type TerminalContentComponent struct{}
