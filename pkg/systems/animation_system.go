package systems

import (
	"log"
	"math"

	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/utils"
)

// highlightPulsePeriod 高亮脉动的时间单位（毫秒），opacity = 1 + sin(ms / 120)
const highlightPulsePeriod = 120.0

// AnimationSystem 每帧推进所有随时间变化的状态
//   - 已放置的手雷：绕 X/Z 轴旋转并上下浮动
//   - 模型内嵌动画：按 dt * timeScale 推进
//   - 高亮格透明度脉动（任何模式下都计算）
//   - 遮罩淡入淡出
//   - video 终幕的帧序列
type AnimationSystem struct {
	entityManager   *ecs.EntityManager
	placement       config.PlacementConfig
	highlightEntity ecs.EntityID
	overlayEntity   ecs.EntityID
}

// NewAnimationSystem 创建一个新的动画系统
func NewAnimationSystem(
	em *ecs.EntityManager,
	placement config.PlacementConfig,
	highlightEntity, overlayEntity ecs.EntityID,
) *AnimationSystem {
	return &AnimationSystem{
		entityManager:   em,
		placement:       placement,
		highlightEntity: highlightEntity,
		overlayEntity:   overlayEntity,
	}
}

// Update 推进一帧
// 参数:
//   - deltaTime: 帧间隔（秒）
//   - now: 场景时钟（秒）
func (s *AnimationSystem) Update(deltaTime, now float64) {
	s.updatePlaced(now)
	s.updatePlayers(deltaTime)
	s.updateHighlight(now)
	s.updateOverlay(deltaTime)
	s.updateVideo(deltaTime)
}

// updatePlaced 旋转角等于放置后经过的秒数，高度 = base + amp * |sin t|
func (s *AnimationSystem) updatePlaced(now float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.PlacedObjectComponent, *components.TransformComponent](s.entityManager) {
		placed, _ := ecs.GetComponent[*components.PlacedObjectComponent](s.entityManager, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)

		t := now - placed.CreatedAt
		transform.Rotation.X = t
		transform.Rotation.Z = t
		transform.Position.Y = s.placement.BobBase + s.placement.BobAmplitude*math.Abs(math.Sin(t))
	}
}

func (s *AnimationSystem) updatePlayers(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationPlayerComponent](s.entityManager) {
		anim, _ := ecs.GetComponent[*components.AnimationPlayerComponent](s.entityManager, id)
		if anim.Player != nil {
			anim.Player.Advance(deltaTime)
		}
	}
}

func (s *AnimationSystem) updateHighlight(now float64) {
	hl, ok := ecs.GetComponent[*components.HighlightComponent](s.entityManager, s.highlightEntity)
	if !ok {
		return
	}
	hl.Opacity = HighlightOpacity(now)
}

// HighlightOpacity 返回场景时钟 now（秒）时的高亮透明度，范围 [0, 1]
func HighlightOpacity(now float64) float64 {
	return utils.Clamp(1+math.Sin(now*1000/highlightPulsePeriod), 0, 1)
}

func (s *AnimationSystem) updateOverlay(deltaTime float64) {
	overlay, ok := ecs.GetComponent[*components.FadeOverlayComponent](s.entityManager, s.overlayEntity)
	if !ok || !overlay.Fading {
		return
	}
	overlay.Elapsed += deltaTime
	progress := 1.0
	if overlay.Duration > 0 {
		progress = utils.Clamp(overlay.Elapsed/overlay.Duration, 0, 1)
	}
	overlay.Opacity = utils.Lerp(overlay.From, overlay.To, utils.EaseInOutCubic(progress))
	if progress >= 1 {
		overlay.Opacity = overlay.To
		overlay.Fading = false
	}
}

// updateVideo 按固定帧率推进帧序列
func (s *AnimationSystem) updateVideo(deltaTime float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.VideoPlayerComponent](s.entityManager) {
		video, _ := ecs.GetComponent[*components.VideoPlayerComponent](s.entityManager, id)
		if video.IsFinished || len(video.Frames) == 0 || video.FPS <= 0 {
			continue
		}
		video.Elapsed += deltaTime
		frame := int(video.Elapsed * video.FPS)
		if frame >= len(video.Frames) {
			if video.IsLooping {
				frame %= len(video.Frames)
			} else {
				frame = len(video.Frames) - 1
				video.IsFinished = true
				log.Printf("[AnimationSystem] Video finished after %d frames (entity %d)", len(video.Frames), id)
			}
		}
		video.CurrentFrame = frame
	}
}
