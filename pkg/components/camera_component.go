package components

import "gonum.org/v1/gonum/spatial/r3"

// CameraComponent 透视相机
// 场景中只有一个相机实体；视口尺寸随窗口变化（Resize）更新
type CameraComponent struct {
	// Position 相机位置（世界坐标）
	Position r3.Vec

	// Target 注视点（世界坐标）
	Target r3.Vec

	// FovY 垂直视角（度）
	FovY float64

	// Near/Far 裁剪面距离
	Near float64
	Far  float64

	// Width/Height 输出画面尺寸（像素），Aspect = Width / Height
	Width  int
	Height int
}

// Aspect 返回宽高比
func (c *CameraComponent) Aspect() float64 {
	if c.Height <= 0 {
		return 1
	}
	return float64(c.Width) / float64(c.Height)
}

// OrbitComponent 轨道控制状态
// 右键拖动绕 Target 旋转，滚轮缩放；极角和距离受限
type OrbitComponent struct {
	Enabled bool

	MinPolar    float64 // 弧度
	MaxPolar    float64 // 弧度
	MinDistance float64
	MaxDistance float64

	RotateSpeed float64 // 每像素弧度
	ZoomSpeed   float64 // 每格滚轮的缩放比例

	// 上一帧拖动位置
	Dragging bool
	LastX    int
	LastY    int
}
