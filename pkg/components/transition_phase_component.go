package components

import (
	"image/color"

	"github.com/decker502/grenadegrid/pkg/types"
)

// TransitionPhaseComponent 转场状态机
//
// 状态（只能前进）：
//
// Interactive: 可放置/移除
//   - 放满且全部加载完成后进入“已布防”（Armed），立即锁定输入
//   - TriggerTimer（0.2 秒）到时进入 Transitioning
//
// Transitioning: 遮罩淡入
//   - 遮罩 0 -> 1，时长 FadeDuration；video 终幕同时开始播放音频
//   - SwapTimer（= FadeDuration）到时清空场景、加载终幕内容，进入 Final
//
// Final: 终幕
//   - FadeBackTimer（0.5 秒）到时遮罩 1 -> 0
//   - 指针输入全部忽略，渲染循环继续播放终幕动画/视频
//
// 离开一个状态时，该状态持有的计时器全部取消。
type TransitionPhaseComponent struct {
	Mode  types.SceneMode
	Armed bool // 已放满，等待 TriggerTimer

	TriggerTimer  TimerComponent
	SwapTimer     TimerComponent
	FadeBackTimer TimerComponent

	// EnteredTransitioningCount 进入 Transitioning 的次数，只应为 0 或 1
	EnteredTransitioningCount int

	// ModeChangedAt 最近一次切换模式时的场景时钟
	ModeChangedAt float64
}

// FadeOverlayComponent 全屏淡入淡出遮罩
type FadeOverlayComponent struct {
	Color    color.RGBA
	Opacity  float64 // 当前不透明度 0.0 - 1.0
	From     float64
	To       float64
	Elapsed  float64
	Duration float64
	Fading   bool
}

// FadeTo 从当前不透明度渐变到 target
func (f *FadeOverlayComponent) FadeTo(target, duration float64) {
	f.From = f.Opacity
	f.To = target
	f.Elapsed = 0
	f.Duration = duration
	f.Fading = true
}
