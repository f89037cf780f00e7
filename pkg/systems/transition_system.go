package systems

import (
	"log"

	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/types"
)

// AcceptsInput 当前是否接受放置/移除
// 只有 Interactive 且尚未布防时为 true；没有状态机实体时视为锁定
func AcceptsInput(em *ecs.EntityManager, phaseEntity ecs.EntityID) bool {
	phase, ok := ecs.GetComponent[*components.TransitionPhaseComponent](em, phaseEntity)
	if !ok {
		return false
	}
	return phase.Mode.AcceptsInput() && !phase.Armed
}

// CurrentMode 返回场景模式，没有状态机实体时返回 Interactive
func CurrentMode(em *ecs.EntityManager, phaseEntity ecs.EntityID) types.SceneMode {
	phase, ok := ecs.GetComponent[*components.TransitionPhaseComponent](em, phaseEntity)
	if !ok {
		return types.SceneModeInteractive
	}
	return phase.Mode
}

// TransitionSystem 转场状态机
//
// 管理三阶段流程：
// - Interactive: 放满且全部加载完成后布防，TriggerDelay 后进入 Transitioning
// - Transitioning: 遮罩淡入，FadeDuration 后清空场景、加载终幕，进入 Final
// - Final: FadeOutDelay 后遮罩淡出，此后不再变化
//
// 架构说明：
// - 计时器保存在 TransitionPhaseComponent 中，由帧循环推进
// - 离开一个状态时取消该状态的计时器
// - 场景相关的副作用（播放音频、切换内容）通过回调交给 GridScene
type TransitionSystem struct {
	entityManager *ecs.EntityManager
	ledger        *LedgerSystem
	phaseEntity   ecs.EntityID
	overlayEntity ecs.EntityID
	timing        config.TimingConfig

	// onTransitionStart 进入 Transitioning 时调用（video 终幕开始播放音频）
	onTransitionStart func()
	// onSwap 遮罩完全不透明时调用：清空场景并加载终幕内容
	onSwap func()
}

// NewTransitionSystem 创建转场系统
func NewTransitionSystem(
	em *ecs.EntityManager,
	ledger *LedgerSystem,
	phaseEntity, overlayEntity ecs.EntityID,
	timing config.TimingConfig,
) *TransitionSystem {
	return &TransitionSystem{
		entityManager: em,
		ledger:        ledger,
		phaseEntity:   phaseEntity,
		overlayEntity: overlayEntity,
		timing:        timing,
	}
}

// SetTransitionStartCallback 设置进入 Transitioning 时的回调
func (s *TransitionSystem) SetTransitionStartCallback(callback func()) {
	s.onTransitionStart = callback
}

// SetSwapCallback 设置切换终幕内容的回调
func (s *TransitionSystem) SetSwapCallback(callback func()) {
	s.onSwap = callback
}

// Update 推进状态机
// 参数:
//   - deltaTime: 帧间隔（秒）
//   - now: 场景时钟（秒）
func (s *TransitionSystem) Update(deltaTime, now float64) {
	phase, ok := ecs.GetComponent[*components.TransitionPhaseComponent](s.entityManager, s.phaseEntity)
	if !ok {
		return
	}

	switch phase.Mode {
	case types.SceneModeInteractive:
		if !phase.Armed && s.ledger.AllReady() {
			phase.Armed = true
			phase.TriggerTimer.Start(s.timing.TriggerDelay)
			log.Printf("[TransitionSystem] Ledger full (%d/%d ready), armed, trigger in %.2fs",
				s.ledger.ReadyCount(), s.ledger.Capacity(), s.timing.TriggerDelay)
		}
		if phase.TriggerTimer.Tick(deltaTime) {
			s.enterTransitioning(phase, now)
		}

	case types.SceneModeTransitioning:
		if phase.SwapTimer.Tick(deltaTime) {
			s.enterFinal(phase, now)
		}

	case types.SceneModeFinal:
		if phase.FadeBackTimer.Tick(deltaTime) {
			if overlay := s.overlay(); overlay != nil {
				overlay.FadeTo(0, s.timing.FadeDuration)
			}
			log.Printf("[TransitionSystem] Final: overlay fading out")
		}
	}
}

func (s *TransitionSystem) overlay() *components.FadeOverlayComponent {
	overlay, ok := ecs.GetComponent[*components.FadeOverlayComponent](s.entityManager, s.overlayEntity)
	if !ok {
		return nil
	}
	return overlay
}

// advance 切换模式，只允许前进一步
func (s *TransitionSystem) advance(phase *components.TransitionPhaseComponent, next types.SceneMode, now float64) bool {
	if !phase.Mode.CanAdvanceTo(next) {
		log.Printf("[TransitionSystem] Warning: refused %s -> %s", phase.Mode, next)
		return false
	}
	log.Printf("[TransitionSystem] %s -> %s at %.2fs", phase.Mode, next, now)
	phase.Mode = next
	phase.ModeChangedAt = now
	return true
}

// enterTransitioning Interactive -> Transitioning
func (s *TransitionSystem) enterTransitioning(phase *components.TransitionPhaseComponent, now float64) {
	if !s.advance(phase, types.SceneModeTransitioning, now) {
		return
	}
	phase.TriggerTimer.Cancel()
	phase.EnteredTransitioningCount++

	if overlay := s.overlay(); overlay != nil {
		overlay.FadeTo(1, s.timing.FadeDuration)
	}
	phase.SwapTimer.Start(s.timing.FadeDuration)

	if s.onTransitionStart != nil {
		s.onTransitionStart()
	}
}

// enterFinal Transitioning -> Final
func (s *TransitionSystem) enterFinal(phase *components.TransitionPhaseComponent, now float64) {
	phase.SwapTimer.Cancel()
	if s.onSwap != nil {
		s.onSwap()
	}
	if !s.advance(phase, types.SceneModeFinal, now) {
		return
	}
	phase.FadeBackTimer.Start(s.timing.FadeOutDelay)
}
