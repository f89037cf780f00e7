package scenes

import (
	"errors"
	"image/color"
	"log"
	"math"

	"github.com/decker502/grenadegrid/internal/mesh"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/game"
	"github.com/decker502/grenadegrid/pkg/systems"
	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/decker502/grenadegrid/pkg/utils"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"gonum.org/v1/gonum/spatial/r3"
)

// interactiveBackground 交互阶段的背景色
var interactiveBackground = color.RGBA{A: 0xFF}

// overlayColor 转场遮罩颜色
var overlayColor = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// GridScene is the only scene of the program: a small grid on which up to
// Capacity grenades can be placed. Once every slot holds a loaded grenade the
// scene fades to white, swaps in the terminal content (an explosion model or a
// frame-sequence video) and stays there.
//
// The scene owns the ECS world and wires the systems; every rule lives in a
// system. Update order per frame:
//
//	input -> pointer -> click -> placement results -> transition -> orbit -> animation
type GridScene struct {
	resourceManager *game.ResourceManager
	gameState       *game.GameState
	cfg             *config.SceneConfig
	entityManager   *ecs.EntityManager

	// SessionID identifies this run in logs and clipboard reports
	SessionID string

	clock float64 // scene clock in seconds, advanced by Update

	// Entities
	sceneEntity     ecs.EntityID // TransitionPhaseComponent + BackgroundComponent
	overlayEntity   ecs.EntityID
	ledgerEntity    ecs.EntityID
	gridEntity      ecs.EntityID
	highlightEntity ecs.EntityID
	cameraEntity    ecs.EntityID
	lightEntities   []ecs.EntityID

	// Systems
	ledgerSystem     *systems.LedgerSystem
	placementSystem  *systems.PlacementSystem
	transitionSystem *systems.TransitionSystem
	pointerSystem    *systems.PointerSystem
	orbitSystem      *systems.OrbitSystem
	animationSystem  *systems.AnimationSystem
	renderSystem     *systems.RenderSystem

	// input reads the pointer state once per frame; replaced in headless runs
	input func() utils.InputState

	showHUD   bool
	lastError error // 终幕内容加载失败等场景级错误
}

// NewGridScene creates the interactive grid scene.
//
// Parameters:
//   - rm: resource manager used for models, video frames and audio
//   - cfg: validated scene configuration
func NewGridScene(rm *game.ResourceManager, cfg *config.SceneConfig) *GridScene {
	s := &GridScene{
		resourceManager: rm,
		gameState:       game.GetGameState(),
		cfg:             cfg,
		entityManager:   ecs.NewEntityManager(),
		SessionID:       uuid.New().String(),
		input:           utils.GetInputState,
		showHUD:         true,
	}

	s.initEntities(config.GameWindowWidth, config.GameWindowHeight)
	s.initSystems()

	log.Printf("[GridScene] Session %s: variant=%s capacity=%d grid=%dx%d",
		s.SessionID, cfg.Variant, cfg.Capacity, cfg.Grid.Size, cfg.Grid.Size)
	return s
}

// initEntities 创建交互阶段的全部实体
func (s *GridScene) initEntities(width, height int) {
	em := s.entityManager
	cfg := s.cfg

	s.sceneEntity = em.CreateEntity()
	ecs.AddComponent(em, s.sceneEntity, &components.TransitionPhaseComponent{
		Mode:          types.SceneModeInteractive,
		TriggerTimer:  components.TimerComponent{Name: "trigger"},
		SwapTimer:     components.TimerComponent{Name: "swap"},
		FadeBackTimer: components.TimerComponent{Name: "fade-back"},
	})
	ecs.AddComponent(em, s.sceneEntity, &components.BackgroundComponent{Color: interactiveBackground})

	s.overlayEntity = em.CreateEntity()
	ecs.AddComponent(em, s.overlayEntity, &components.FadeOverlayComponent{Color: overlayColor})

	s.ledgerEntity = em.CreateEntity()
	ecs.AddComponent(em, s.ledgerEntity, &components.LedgerComponent{
		Capacity: cfg.Capacity,
		Entries:  make([]components.LedgerEntry, 0, cfg.Capacity),
	})

	s.gridEntity = em.CreateEntity()
	ecs.AddComponent(em, s.gridEntity, &components.GridComponent{Size: cfg.Grid.Size})

	// 高亮格初始位于中心为 (0.5, 0, 0.5) 的格子，指针移动前即可点击
	s.highlightEntity = em.CreateEntity()
	ecs.AddComponent(em, s.highlightEntity, &components.HighlightComponent{
		Cell:    components.GridCell{I: 0, K: 0},
		Valid:   true,
		Color:   components.HighlightFree,
		Opacity: 1,
	})

	cam := cfg.Camera
	s.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, s.cameraEntity, &components.CameraComponent{
		Position: cam.Position.R3(),
		Target:   cam.Target.R3(),
		FovY:     cam.FovY,
		Near:     cam.Near,
		Far:      cam.Far,
		Width:    width,
		Height:   height,
	})
	ecs.AddComponent(em, s.cameraEntity, &components.OrbitComponent{
		Enabled:     true,
		MinPolar:    cam.MinPolarDeg * math.Pi / 180,
		MaxPolar:    cam.MaxPolarDeg * math.Pi / 180,
		MinDistance: cam.MinDistance,
		MaxDistance: cam.MaxDistance,
		RotateSpeed: cam.OrbitSpeed,
		ZoomSpeed:   cam.ZoomSpeed,
	})

	for _, lc := range cfg.Lights {
		s.lightEntities = append(s.lightEntities, s.addLight(lc))
	}
}

// addLight 根据配置创建灯光实体
func (s *GridScene) addLight(lc config.LightConfig) ecs.EntityID {
	kind, ok := components.ParseLightKind(lc.Type)
	if !ok {
		log.Printf("[GridScene] Warning: unknown light type %q, using ambient", lc.Type)
	}
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.LightComponent{
		Kind:      kind,
		Color:     lc.RGBA(),
		Intensity: lc.Intensity,
		Position:  lc.Position.R3(),
		Target:    lc.Target.R3(),
		Distance:  lc.Distance,
	})
	return id
}

// initSystems 创建并连接所有系统
func (s *GridScene) initSystems() {
	em := s.entityManager
	cfg := s.cfg

	s.ledgerSystem = systems.NewLedgerSystem(em, s.ledgerEntity, s.gridEntity)
	s.placementSystem = systems.NewPlacementSystem(em, s.ledgerSystem, s.resourceManager,
		cfg.Placement, cfg.Timing.LoadTimeout, s.sceneEntity, s.highlightEntity)
	s.transitionSystem = systems.NewTransitionSystem(em, s.ledgerSystem, s.sceneEntity, s.overlayEntity, cfg.Timing)
	s.transitionSystem.SetTransitionStartCallback(s.onTransitionStart)
	s.transitionSystem.SetSwapCallback(s.onSwap)
	s.pointerSystem = systems.NewPointerSystem(em, s.ledgerSystem,
		s.cameraEntity, s.gridEntity, s.highlightEntity, s.sceneEntity)
	s.orbitSystem = systems.NewOrbitSystem(em, s.cameraEntity, s.sceneEntity)
	s.animationSystem = systems.NewAnimationSystem(em, cfg.Placement, s.highlightEntity, s.overlayEntity)
	s.renderSystem = systems.NewRenderSystem(em,
		s.cameraEntity, s.gridEntity, s.highlightEntity, s.overlayEntity, s.sceneEntity)
}

// Update advances the scene by deltaTime seconds.
func (s *GridScene) Update(deltaTime float64) {
	s.clock += deltaTime
	s.handleKeys()

	input := s.input()
	s.pointerSystem.Update(input)
	if input.JustPressed {
		s.handleClick()
	}
	s.placementSystem.Update(s.clock)
	s.transitionSystem.Update(deltaTime, s.clock)
	s.orbitSystem.Update(input)
	s.animationSystem.Update(deltaTime, s.clock)

	s.entityManager.RemoveMarkedEntities()
}

func (s *GridScene) handleClick() {
	err := s.placementSystem.HandleClick(s.clock)
	switch {
	case err == nil:
	case errors.Is(err, systems.ErrInputLocked):
		// 转场开始后的点击直接忽略
	default:
		log.Printf("[GridScene] Click rejected: %v", err)
	}
}

// handleKeys 场景级快捷键
//   - F9: 复制场景报告到剪贴板
//   - H: 显示/隐藏 HUD
//   - M: 开关终幕音轨（写入设置）
func (s *GridScene) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		s.CopyReport()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.showHUD = !s.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		s.toggleMusic()
	}
}

// toggleMusic 切换音轨开关，关闭时立即停止正在播放的音轨
func (s *GridScene) toggleMusic() bool {
	sm := s.gameState.GetSettingsManager()
	enabled := !sm.GetSettings().MusicEnabled
	sm.SetMusicEnabled(enabled)
	if !enabled {
		if am := s.gameState.GetAudioManager(); am != nil {
			am.Stop()
		}
	}
	if err := sm.Save(); err != nil {
		log.Printf("[GridScene] Warning: %v", err)
	}
	log.Printf("[GridScene] Music enabled: %v", enabled)
	return enabled
}

// Draw renders the scene.
func (s *GridScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)
	if s.showHUD && s.Mode() == types.SceneModeInteractive {
		s.renderSystem.DrawHUD(screen, s.hudLines())
	}
}

// Resize updates the camera viewport when the window size changes.
func (s *GridScene) Resize(width, height int) {
	if cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity); ok {
		cam.Width, cam.Height = width, height
		log.Printf("[GridScene] Resize %dx%d (aspect %.3f)", width, height, cam.Aspect())
	}
}

// Close cancels pending loads and stops the terminal audio track.
func (s *GridScene) Close() {
	s.placementSystem.Close()
	if am := s.gameState.GetAudioManager(); am != nil {
		am.Stop()
	}
	log.Printf("[GridScene] Session %s closed", s.SessionID)
}

// Mode returns the current scene mode.
func (s *GridScene) Mode() types.SceneMode {
	return systems.CurrentMode(s.entityManager, s.sceneEntity)
}

// Clock returns the scene clock in seconds.
func (s *GridScene) Clock() float64 {
	return s.clock
}

// Ledger returns the placement ledger.
func (s *GridScene) Ledger() *systems.LedgerSystem {
	return s.ledgerSystem
}

// onTransitionStart video 终幕在遮罩淡入时开始播放音频
func (s *GridScene) onTransitionStart() {
	if s.cfg.Variant != types.VariantVideo || s.cfg.Final.Audio == "" {
		return
	}
	if am := s.gameState.GetAudioManager(); am != nil {
		am.PlayTrack(s.cfg.Final.Audio)
	}
}

// onSwap 遮罩完全不透明时清空交互内容并加载终幕
func (s *GridScene) onSwap() {
	em := s.entityManager
	s.placementSystem.CancelPending()

	for _, id := range ecs.GetEntitiesWith1[*components.MeshComponent](em) {
		em.DestroyEntity(id)
	}
	for _, id := range s.lightEntities {
		em.DestroyEntity(id)
	}
	s.lightEntities = nil
	em.DestroyEntity(s.gridEntity)
	em.DestroyEntity(s.highlightEntity)

	final := s.cfg.Final
	if bg, ok := ecs.GetComponent[*components.BackgroundComponent](em, s.sceneEntity); ok {
		if c, err := config.ParseHexColor(final.Background); err == nil {
			bg.Color = c
		}
	}
	s.lightEntities = append(s.lightEntities, s.addLight(final.Light))

	switch s.cfg.Variant {
	case types.VariantExplosion:
		s.loadExplosion()
	case types.VariantVideo:
		s.loadVideo()
	}

	if err := s.gameState.GetSettingsManager().RecordRun(string(s.cfg.Variant)); err != nil {
		log.Printf("[GridScene] Warning: failed to record run: %v", err)
	}
	log.Printf("[GridScene] Final content loaded (%s)", s.cfg.Variant)
}

// loadExplosion 爆炸模型放在原点，相机移到终幕位置并看向原点
func (s *GridScene) loadExplosion() {
	em := s.entityManager
	model, err := s.resourceManager.LoadModel(s.cfg.Final.Model)
	if err != nil {
		s.lastError = err
		log.Printf("[GridScene] Error: %v", err)
		return
	}
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TerminalContentComponent{})
	ecs.AddComponent(em, id, components.NewTransform(r3.Vec{}, s.cfg.Final.Scale))
	ecs.AddComponent(em, id, &components.MeshComponent{Model: model, Visible: true})
	ecs.AddComponent(em, id, &components.AnimationPlayerComponent{Player: mesh.NewPlayer(model, 1)})

	if cam, ok := ecs.GetComponent[*components.CameraComponent](em, s.cameraEntity); ok {
		cam.Position = s.cfg.Camera.FinalPosition.R3()
		cam.Target = r3.Vec{}
	}
}

// loadVideo 加载帧序列，播放一次后停在最后一帧
func (s *GridScene) loadVideo() {
	frames, err := s.resourceManager.LoadFrames(s.cfg.Final.VideoFrames)
	if err != nil {
		s.lastError = err
		log.Printf("[GridScene] Error: %v", err)
		return
	}
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.TerminalContentComponent{})
	ecs.AddComponent(s.entityManager, id, &components.VideoPlayerComponent{
		Frames: frames,
		FPS:    s.cfg.Final.VideoFPS,
	})
	log.Printf("[GridScene] Video: %d frames at %.0f fps", len(frames), s.cfg.Final.VideoFPS)
}

// SetInputSource replaces the per-frame pointer reader (headless runs and tests).
func (s *GridScene) SetInputSource(read func() utils.InputState) {
	s.input = read
}

// CellScreenPosition returns the pixel position of a cell centre under the
// current camera.
func (s *GridScene) CellScreenPosition(cell components.GridCell) (int, int, bool) {
	cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity)
	if !ok {
		return 0, 0, false
	}
	p, ok := utils.NewProjector(cam).Project(cell.Center())
	if !ok {
		return 0, 0, false
	}
	return int(math.Round(p.X)), int(math.Round(p.Y)), true
}
