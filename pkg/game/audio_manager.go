package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// AudioManager 音频管理器
// 职责：
//   - 播放终幕音轨（video 终幕在遮罩淡入时开始播放）
//   - 从 SettingsManager 读取音量和开关
//
// 音轨按资源路径标识（如 "audio/explosion.ogg"），同一时间只播放一条。
type AudioManager struct {
	resourceManager *ResourceManager
	settingsManager *SettingsManager         // 可为 nil，使用默认音量
	players         map[string]*audio.Player // 路径 -> 播放器
	current         *audio.Player
	currentPath     string
}

// NewAudioManager 创建新的音频管理器
//
// 参数：
//   - rm: ResourceManager 实例（用于加载音频文件）
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(rm *ResourceManager, sm *SettingsManager) *AudioManager {
	return &AudioManager{
		resourceManager: rm,
		settingsManager: sm,
		players:         make(map[string]*audio.Player),
	}
}

// PlayTrack 从头播放一条音轨（不循环）
//
// 返回：
//   - bool: 是否开始播放；音乐被禁用或加载失败时返回 false
func (am *AudioManager) PlayTrack(path string) bool {
	if path == "" {
		return false
	}
	if am.settingsManager != nil && !am.settingsManager.GetSettings().MusicEnabled {
		log.Printf("[AudioManager] Music disabled, skip %s", path)
		return false
	}

	am.Stop()

	player := am.getPlayer(path)
	if player == nil {
		return false
	}
	volume := am.Volume()
	player.SetVolume(volume)
	if err := player.Rewind(); err != nil {
		log.Printf("[AudioManager] Warning: Failed to rewind %s: %v", path, err)
	}
	player.Play()

	am.current = player
	am.currentPath = path
	log.Printf("[AudioManager] Playing %s (volume: %.2f)", path, volume)
	return true
}

// Stop 停止当前音轨
func (am *AudioManager) Stop() {
	if am.current != nil {
		am.current.Pause()
		am.current = nil
		am.currentPath = ""
	}
}

// CurrentTrack 返回正在播放的音轨路径，没有则为空
func (am *AudioManager) CurrentTrack() string {
	return am.currentPath
}

// SetVolume 设置音量并立即应用到当前音轨
func (am *AudioManager) SetVolume(volume float64) {
	if am.settingsManager != nil {
		am.settingsManager.SetMusicVolume(volume)
	}
	if am.current != nil {
		am.current.SetVolume(am.Volume())
	}
}

// Volume 返回当前音量设置
func (am *AudioManager) Volume() float64 {
	if am.settingsManager != nil {
		return am.settingsManager.GetSettings().MusicVolume
	}
	return DefaultSettings().MusicVolume
}

// getPlayer 获取或加载播放器
func (am *AudioManager) getPlayer(path string) *audio.Player {
	if player, ok := am.players[path]; ok {
		return player
	}
	player, err := am.resourceManager.LoadSoundEffect(path)
	if err != nil {
		log.Printf("[AudioManager] Warning: Failed to load %s: %v", path, err)
		return nil
	}
	am.players[path] = player
	return player
}
