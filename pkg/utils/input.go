package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState 存储当前帧的输入状态
// 用于统一处理鼠标和触摸输入；系统只依赖该结构体，便于测试注入
type InputState struct {
	// 指针位置（鼠标或第一个触点）
	X, Y int
	// 主按键（左键/单指点击）是否刚刚按下
	JustPressed bool
	// 副按键（右键/双指）是否按住，用于轨道旋转
	SecondaryDown bool
	// 本帧滚轮纵向增量
	WheelY float64
	// 是否来自触摸
	IsTouching bool
}

// GetInputState 获取当前帧的输入状态
// 触摸优先：单指点击放置，双指拖动旋转
func GetInputState() InputState {
	state := InputState{}

	if touches := ebiten.AppendTouchIDs(nil); len(touches) > 0 {
		state.X, state.Y = ebiten.TouchPosition(touches[0])
		state.IsTouching = true
		state.SecondaryDown = len(touches) >= 2
		if len(touches) == 1 && len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 {
			state.JustPressed = true
		}
		return state
	}

	state.X, state.Y = ebiten.CursorPosition()
	state.JustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	state.SecondaryDown = ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	_, state.WheelY = ebiten.Wheel()
	return state
}

// PointerHint HUD 中的操作提示
func PointerHint() string {
	if IsMobile() {
		return "tap a cell to place, two fingers to orbit"
	}
	return "click a cell to place, right-drag to orbit, wheel to zoom"
}
