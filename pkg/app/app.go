// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"strings"

	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/embedded"
	"github.com/decker502/grenadegrid/pkg/game"
	"github.com/decker502/grenadegrid/pkg/scenes"
	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// ErrQuit 用户按 Esc 退出，RunGame 以此结束
var ErrQuit = errors.New("quit requested")

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Variant 覆盖配置文件中的终幕类型（explosion / video），为空则使用配置文件
	Variant string
	// ConfigPath 场景配置路径，为空则使用 data/scene.yaml
	ConfigPath string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settingsManager          *game.SettingsManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// LoadConfig 读取场景配置并应用命令行覆盖
func LoadConfig(cfg Config) (*config.SceneConfig, error) {
	path := cfg.ConfigPath
	if path == "" {
		path = config.DefaultSceneConfigPath
	}
	sceneConfig, err := config.LoadSceneConfig(embedded.FS(), path)
	if err != nil {
		return nil, err
	}
	if cfg.Variant != "" {
		sceneConfig.Variant = types.Variant(cfg.Variant)
		if err := sceneConfig.Validate(); err != nil {
			return nil, fmt.Errorf("-variant %s: %w", cfg.Variant, err)
		}
	}
	return sceneConfig, nil
}

// MissingAssets 返回当前终幕需要、但没有外部资源目录可读的路径
// data/ 以外的路径只能从 -assets 目录读取
func MissingAssets(sceneConfig *config.SceneConfig) []string {
	if embedded.HasAssets() {
		return nil
	}
	var paths []string
	switch sceneConfig.Variant {
	case types.VariantExplosion:
		paths = []string{sceneConfig.Placement.Model, sceneConfig.Final.Model}
	case types.VariantVideo:
		paths = []string{sceneConfig.Placement.Model, sceneConfig.Final.VideoFrames, sceneConfig.Final.Audio}
	}
	var missing []string
	for _, p := range paths {
		if p != "" && p != "data" && !strings.HasPrefix(p, "data/") {
			missing = append(missing, p)
		}
	}
	return missing
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}
	if !embedded.IsInitialized() {
		return nil, embedded.ErrNotInitialized
	}

	sceneConfig, err := LoadConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	log.Printf("[Config] Variant=%s capacity=%d", sceneConfig.Variant, sceneConfig.Capacity)
	for _, p := range MissingAssets(sceneConfig) {
		log.Printf("[Config] Warning: %s is outside data/ and no -assets directory is mounted", p)
	}

	// 初始化音频上下文
	audioContext := audio.NewContext(config.AudioSampleRate)

	// 创建资源管理器
	resourceManager := game.NewResourceManager(embedded.FS(), audioContext)

	// 初始化 AudioManager 并设置到 GameState
	gameState := game.GetGameState()
	settingsManager := gameState.GetSettingsManager()
	audioManager := game.NewAudioManager(resourceManager, settingsManager)
	gameState.SetAudioManager(audioManager)
	log.Printf("[App] AudioManager initialized (persistent settings: %v)", settingsManager.Persistent())

	// 创建场景管理器
	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() game.Scene {
		return scenes.NewGridScene(resourceManager, sceneConfig)
	})
	sceneManager.Restart()

	if settingsManager.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}

	return &App{
		sceneManager:    sceneManager,
		settingsManager: settingsManager,
	}, nil
}

// Update 更新场景逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ErrQuit
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// F5 重新开始
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		log.Printf("[App] Restart requested")
		a.sceneManager.Restart()
	}

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	enable := !ebiten.IsFullscreen()
	if !enable {
		// 退出全屏
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	} else {
		ebiten.SetFullscreen(true)
	}
	a.settingsManager.SetFullscreen(enable)
	if err := a.settingsManager.Save(); err != nil {
		log.Printf("[App] Warning: failed to save settings: %v", err)
	}
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑画面尺寸跟随窗口尺寸，场景据此更新相机宽高比
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return config.GameWindowWidth, config.GameWindowHeight
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器
// 用于在程序关闭时释放场景资源
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

