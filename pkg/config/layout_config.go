package config

// 布局配置常量
// 本文件定义窗口尺寸和 HUD 元素位置等与场景配置无关的常量

const (
	// GameWindowWidth 默认窗口宽度（像素）
	GameWindowWidth = 1024

	// GameWindowHeight 默认窗口高度（像素）
	GameWindowHeight = 768

	// WindowTitle 窗口标题
	WindowTitle = "Grenade Grid"

	// HUDMarginX HUD 文字左边距
	HUDMarginX = 12

	// HUDMarginY HUD 文字上边距
	HUDMarginY = 12

	// HUDLineHeight HUD 行高
	HUDLineHeight = 18

	// GridLineWidth 网格线宽度（像素）
	GridLineWidth = 1.0
)

// AudioSampleRate 音频上下文采样率
const AudioSampleRate = 48000
