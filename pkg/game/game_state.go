package game

import (
	"log"

	"github.com/decker502/grenadegrid/pkg/utils"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "grenadegrid"

// GameState 存储跨场景共享的全局状态
// 这是一个单例，持有存储和音频相关的管理器
type GameState struct {
	gdataManager    *gdata.Manager // 可为 nil（存储不可用时降级为内存设置）
	settingsManager *SettingsManager
	audioManager    *AudioManager
}

// 全局单例实例
var globalGameState *GameState

// GetGameState 返回全局 GameState 单例
// 首次调用时初始化 gdata；失败时记录日志并降级
func GetGameState() *GameState {
	if globalGameState == nil {
		globalGameState = newGameState(openStorage())
	}
	return globalGameState
}

func newGameState(gm *gdata.Manager) *GameState {
	return &GameState{
		gdataManager:    gm,
		settingsManager: NewSettingsManager(gm),
	}
}

// openStorage 打开 gdata 存储
func openStorage() *gdata.Manager {
	if dir, err := utils.PrepareSaveDir(); err != nil {
		log.Printf("[GameState] Warning: save dir unavailable: %v", err)
	} else if dir != "" {
		log.Printf("[GameState] Save dir: %s", dir)
	}
	gm, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[GameState] Warning: gdata unavailable: %v (settings are memory-only)", err)
		return nil
	}
	return gm
}

// GetSettingsManager 返回设置管理器
func (gs *GameState) GetSettingsManager() *SettingsManager {
	return gs.settingsManager
}

// SetAudioManager 设置音频管理器（由 App 在创建音频上下文后调用）
func (gs *GameState) SetAudioManager(am *AudioManager) {
	gs.audioManager = am
}

// GetAudioManager 返回音频管理器，未设置时为 nil
func (gs *GameState) GetAudioManager() *AudioManager {
	return gs.audioManager
}
