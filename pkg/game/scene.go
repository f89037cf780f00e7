package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a scene driven by the frame loop.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景实现后会在窗口尺寸变化时收到通知
// 用于更新相机宽高比和输出画面尺寸
type Resizable interface {
	Resize(width, height int)
}

// Closable 是一个可选接口，用于在切换场景或程序退出时释放资源
// （停止音频、取消未完成的加载、保存设置）
type Closable interface {
	Close()
}
