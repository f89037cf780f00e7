package components

import "github.com/hajimehoshi/ebiten/v2"

// VideoPlayerComponent 全屏帧序列播放（video 终幕）
// Ebitengine 没有视频解码器，视频以 PNG 帧序列的形式提供
type VideoPlayerComponent struct {
	Frames       []*ebiten.Image // 所有帧
	FPS          float64         // 播放帧率
	Elapsed      float64         // 已播放时间（秒）
	CurrentFrame int             // 当前帧索引(0-based)
	IsLooping    bool            // 是否循环播放
	IsFinished   bool            // 非循环播放是否已结束
}
