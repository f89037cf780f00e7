package systems

import (
	"errors"
	"sync"

	"github.com/decker502/grenadegrid/internal/mesh"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"gonum.org/v1/gonum/spatial/r3"
)

var errFakeLoad = errors.New("fake load failure")

// fakeLoader 测试用模型加载器
type fakeLoader struct {
	mu    sync.Mutex
	model *mesh.Model
	err   error
	calls int
}

func (l *fakeLoader) LoadModel(path string) (*mesh.Model, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	return l.model, nil
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{model: &mesh.Model{Name: "grenade"}}
}

// sceneFixture 交互场景的最小实体集合（2x2 网格，容量 4）
type sceneFixture struct {
	em         *ecs.EntityManager
	cfg        *config.SceneConfig
	loader     *fakeLoader
	ledger     *LedgerSystem
	placement  *PlacementSystem
	transition *TransitionSystem

	phase, overlay, ledgerID, grid, highlight, camera ecs.EntityID

	pending []func() // deferredDispatch 收集的加载任务
}

// allCells 2x2 网格的全部格子
var allCells = []components.GridCell{
	{I: -1, K: -1}, {I: 0, K: -1}, {I: -1, K: 0}, {I: 0, K: 0},
}

func newSceneFixture(capacity int) *sceneFixture {
	cfg := config.DefaultSceneConfig()
	cfg.Capacity = capacity

	f := &sceneFixture{em: ecs.NewEntityManager(), cfg: cfg, loader: newFakeLoader()}
	em := f.em

	f.phase = em.CreateEntity()
	ecs.AddComponent(em, f.phase, &components.TransitionPhaseComponent{})

	f.overlay = em.CreateEntity()
	ecs.AddComponent(em, f.overlay, &components.FadeOverlayComponent{})

	f.grid = em.CreateEntity()
	ecs.AddComponent(em, f.grid, &components.GridComponent{Size: cfg.Grid.Size})

	f.ledgerID = em.CreateEntity()
	ecs.AddComponent(em, f.ledgerID, &components.LedgerComponent{Capacity: capacity})

	f.highlight = em.CreateEntity()
	ecs.AddComponent(em, f.highlight, &components.HighlightComponent{Color: components.HighlightFree})

	f.camera = em.CreateEntity()
	ecs.AddComponent(em, f.camera, &components.CameraComponent{
		Position: cfg.Camera.Position.R3(),
		Target:   r3.Vec{},
		FovY:     cfg.Camera.FovY,
		Near:     cfg.Camera.Near,
		Far:      cfg.Camera.Far,
		Width:    1024,
		Height:   768,
	})

	f.ledger = NewLedgerSystem(em, f.ledgerID, f.grid)
	f.placement = NewPlacementSystem(em, f.ledger, f.loader, cfg.Placement, cfg.Timing.LoadTimeout, f.phase, f.highlight)
	f.placement.dispatch = func(task func()) { task() }
	f.transition = NewTransitionSystem(em, f.ledger, f.phase, f.overlay, cfg.Timing)
	return f
}

// deferDispatch 加载任务暂不执行，由 runPending 手动触发
func (f *sceneFixture) deferDispatch() {
	f.placement.dispatch = func(task func()) {
		f.pending = append(f.pending, task)
	}
}

func (f *sceneFixture) runPending() {
	tasks := f.pending
	f.pending = nil
	for _, task := range tasks {
		task()
	}
}

func (f *sceneFixture) phaseComp() *components.TransitionPhaseComponent {
	p, _ := ecs.GetComponent[*components.TransitionPhaseComponent](f.em, f.phase)
	return p
}

func (f *sceneFixture) overlayComp() *components.FadeOverlayComponent {
	o, _ := ecs.GetComponent[*components.FadeOverlayComponent](f.em, f.overlay)
	return o
}

func (f *sceneFixture) highlightComp() *components.HighlightComponent {
	h, _ := ecs.GetComponent[*components.HighlightComponent](f.em, f.highlight)
	return h
}

// fill 同步放满全部格子
func (f *sceneFixture) fill(now float64) {
	for _, c := range allCells[:f.cfg.Capacity] {
		if err := f.placement.Place(c, now); err != nil {
			panic(err)
		}
	}
	f.placement.Update(now)
}

// step 以固定帧间隔推进状态机 n 帧，返回结束时的场景时钟
func (f *sceneFixture) step(now, dt float64, n int) float64 {
	for i := 0; i < n; i++ {
		now += dt
		f.placement.Update(now)
		f.transition.Update(dt, now)
	}
	return now
}
