// Package types 定义共享的基础类型
package types

// SceneMode 场景模式
// 只能沿 Interactive -> Transitioning -> Final 单向推进，不可回退
type SceneMode int

const (
	// SceneModeInteractive 可交互：允许放置/移除手雷
	SceneModeInteractive SceneMode = iota
	// SceneModeTransitioning 转场中：遮罩淡入，拒绝输入
	SceneModeTransitioning
	// SceneModeFinal 终幕：播放爆炸模型或视频，拒绝输入
	SceneModeFinal
)

// String 返回模式名称（用于日志和调试报告）
func (m SceneMode) String() string {
	switch m {
	case SceneModeInteractive:
		return "interactive"
	case SceneModeTransitioning:
		return "transitioning"
	case SceneModeFinal:
		return "final"
	default:
		return "unknown"
	}
}

// AcceptsInput 是否接受指针输入
func (m SceneMode) AcceptsInput() bool {
	return m == SceneModeInteractive
}

// CanAdvanceTo 检查是否允许从 m 切换到 next
// 只允许前进一步
func (m SceneMode) CanAdvanceTo(next SceneMode) bool {
	return next == m+1 && next <= SceneModeFinal
}

// Variant 终幕类型
type Variant string

const (
	// VariantExplosion 终幕为 3D 爆炸模型
	VariantExplosion Variant = "explosion"
	// VariantVideo 终幕为全屏视频（帧序列）+ 音频
	VariantVideo Variant = "video"
)

// IsValid 检查终幕类型是否受支持
func (v Variant) IsValid() bool {
	return v == VariantExplosion || v == VariantVideo
}
