package systems

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/decker502/grenadegrid/internal/mesh"
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/config"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/game"
)

// ModelLoader 加载可放置模型
// game.ResourceManager 实现该接口；实现必须可以在多个 goroutine 中调用
type ModelLoader interface {
	LoadModel(path string) (*mesh.Model, error)
}

// loadResult 异步加载结果，经 results 通道回到帧循环
type loadResult struct {
	cell       components.GridCell
	ticket     uint64
	generation uint64
	model      *mesh.Model
	err        error
}

// PlacementSystem 处理点击放置/移除
//
// 点击空格子：在记录中占位（Loading），后台 goroutine 加载模型；
// 结果由 Update 在帧循环中取出后才创建实体，加载 goroutine 从不访问场景状态。
// 点击已放置的格子：移除实体和记录。加载中的记录也可以移除，迟到的结果会被丢弃。
type PlacementSystem struct {
	entityManager   *ecs.EntityManager
	ledger          *LedgerSystem
	loader          ModelLoader
	cfg             config.PlacementConfig
	loadTimeout     float64
	phaseEntity     ecs.EntityID
	highlightEntity ecs.EntityID

	results    chan loadResult
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
	nextTicket uint64
	generation uint64

	// dispatch 启动加载任务，默认每个任务一个 goroutine；测试中可替换为同步执行
	dispatch func(task func())

	// LastError 最近一次放置失败的原因（加载失败/超时），用于 HUD 和报告
	LastError error
}

// NewPlacementSystem 创建放置系统
// 参数:
//   - em: EntityManager 实例
//   - ledger: 放置记录系统
//   - loader: 模型加载器
//   - cfg: 可放置模型配置
//   - loadTimeout: 加载超时（秒），<= 0 表示不限
//   - phaseEntity: 转场状态机实体（输入锁定判断）
//   - highlightEntity: 高亮格实体
func NewPlacementSystem(
	em *ecs.EntityManager,
	ledger *LedgerSystem,
	loader ModelLoader,
	cfg config.PlacementConfig,
	loadTimeout float64,
	phaseEntity, highlightEntity ecs.EntityID,
) *PlacementSystem {
	capacity := ledger.Capacity()
	if capacity < 1 {
		capacity = 1
	}
	s := &PlacementSystem{
		entityManager:   em,
		ledger:          ledger,
		loader:          loader,
		cfg:             cfg,
		loadTimeout:     loadTimeout,
		phaseEntity:     phaseEntity,
		highlightEntity: highlightEntity,
		results:         make(chan loadResult, capacity*2),
		done:            make(chan struct{}),
	}
	s.dispatch = s.goDispatch
	return s
}

func (s *PlacementSystem) goDispatch(task func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		task()
	}()
}

func (s *PlacementSystem) highlight() *components.HighlightComponent {
	hl, ok := ecs.GetComponent[*components.HighlightComponent](s.entityManager, s.highlightEntity)
	if !ok {
		return nil
	}
	return hl
}

// HandleClick 处理一次点击：高亮格为空则放置，已放置则移除
// 指针从未命中地面时什么也不做
func (s *PlacementSystem) HandleClick(now float64) error {
	if !AcceptsInput(s.entityManager, s.phaseEntity) {
		return ErrInputLocked
	}
	hl := s.highlight()
	if hl == nil || !hl.Valid {
		return nil
	}
	if s.ledger.IsOccupied(hl.Cell) {
		return s.Remove(hl.Cell)
	}
	return s.Place(hl.Cell, now)
}

// Place 在格子上占位并开始异步加载模型
// 记录已满时直接拒绝，不消耗加载票据
// 返回:
//   - error: ErrInputLocked / ErrLedgerFull / ErrCellOutOfGrid / ErrCellOccupied
func (s *PlacementSystem) Place(cell components.GridCell, now float64) error {
	if !AcceptsInput(s.entityManager, s.phaseEntity) {
		return ErrInputLocked
	}
	if s.ledger.IsFull() {
		return fmt.Errorf("place %v: %w (%d/%d)", cell, ErrLedgerFull, s.ledger.Len(), s.ledger.Capacity())
	}
	ticket := s.nextTicket + 1
	if err := s.ledger.Reserve(cell, now, ticket); err != nil {
		return err
	}
	s.nextTicket = ticket

	req := loadResult{cell: cell, ticket: ticket, generation: s.generation}
	path := s.cfg.Model
	log.Printf("[PlacementSystem] Reserved %v (ticket %d, %d/%d), loading %s",
		cell, ticket, s.ledger.Len(), s.ledger.Capacity(), path)

	s.dispatch(func() {
		req.model, req.err = s.loader.LoadModel(path)
		select {
		case s.results <- req:
		case <-s.done:
		}
	})
	return nil
}

// Remove 移除格子上的手雷和记录
// 返回:
//   - error: ErrInputLocked / ErrCellEmpty
func (s *PlacementSystem) Remove(cell components.GridCell) error {
	if !AcceptsInput(s.entityManager, s.phaseEntity) {
		return ErrInputLocked
	}
	entry, err := s.ledger.Release(cell)
	if err != nil {
		return err
	}
	if entry.Entity != 0 && s.entityManager.Exists(entry.Entity) {
		s.entityManager.DestroyEntity(entry.Entity)
	}
	if hl := s.highlight(); hl != nil && hl.Cell == cell {
		hl.Occupied = false
		hl.Color = components.HighlightFree
	}
	log.Printf("[PlacementSystem] Removed %v (%s, %d/%d)", cell, entry.State, s.ledger.Len(), s.ledger.Capacity())
	return nil
}

// Update 取出已完成的加载结果并处理超时
// 参数:
//   - now: 场景时钟（秒）
func (s *PlacementSystem) Update(now float64) {
	for drained := false; !drained; {
		select {
		case r := <-s.results:
			s.apply(r, now)
		default:
			drained = true
		}
	}

	for _, e := range s.ledger.Expired(now, s.loadTimeout) {
		if _, err := s.ledger.Release(e.Cell); err != nil {
			continue
		}
		s.LastError = fmt.Errorf("place %v: %w after %.1fs", e.Cell, game.ErrAssetTimeout, now-e.RequestedAt)
		log.Printf("[PlacementSystem] Error: %v", s.LastError)
		s.refreshHighlight(e.Cell)
	}
}

// apply 在帧循环中处理一个加载结果
func (s *PlacementSystem) apply(r loadResult, now float64) {
	if r.generation != s.generation {
		log.Printf("[PlacementSystem] Dropped result for %v from a cleared scene", r.cell)
		return
	}
	i, ok := s.ledger.Find(r.cell)
	if !ok || s.ledger.Entries()[i].Ticket != r.ticket {
		log.Printf("[PlacementSystem] Dropped stale result for %v (ticket %d)", r.cell, r.ticket)
		return
	}

	if r.err != nil {
		_, _ = s.ledger.Release(r.cell)
		err := r.err
		if !errors.Is(err, game.ErrAssetLoad) {
			err = fmt.Errorf("%w: %w", game.ErrAssetLoad, err)
		}
		s.LastError = fmt.Errorf("place %v: %w", r.cell, err)
		log.Printf("[PlacementSystem] Error: %v", s.LastError)
		s.refreshHighlight(r.cell)
		return
	}

	id := s.spawn(r.cell, r.model, now)
	if err := s.ledger.Commit(r.cell, r.ticket, id); err != nil {
		s.entityManager.DestroyEntity(id)
		log.Printf("[PlacementSystem] Warning: %v", err)
		return
	}
	if hl := s.highlight(); hl != nil && hl.Cell == r.cell {
		hl.Occupied = true
		hl.Color = components.HighlightPlaced
	}
	log.Printf("[PlacementSystem] Placed %v as entity %d (%d/%d ready)",
		r.cell, id, s.ledger.ReadyCount(), s.ledger.Capacity())
}

// spawn 创建手雷实体：格子中心、统一缩放、循环播放全部内嵌动画
func (s *PlacementSystem) spawn(cell components.GridCell, model *mesh.Model, now float64) ecs.EntityID {
	id := s.entityManager.CreateEntity()
	ecs.AddComponent(s.entityManager, id, &components.PlacedObjectComponent{Cell: cell, CreatedAt: now})
	ecs.AddComponent(s.entityManager, id, components.NewTransform(cell.Center(), s.cfg.Scale))
	ecs.AddComponent(s.entityManager, id, &components.MeshComponent{Model: model, Visible: true})
	ecs.AddComponent(s.entityManager, id, &components.AnimationPlayerComponent{
		Player: mesh.NewPlayer(model, s.cfg.TimeScale),
	})
	return id
}

// refreshHighlight 格子被释放后恢复高亮颜色
func (s *PlacementSystem) refreshHighlight(cell components.GridCell) {
	if hl := s.highlight(); hl != nil && hl.Cell == cell {
		hl.Occupied = false
		hl.Color = components.HighlightFree
	}
}

// CancelPending 使所有未完成的加载失效（场景清空时调用）
func (s *PlacementSystem) CancelPending() {
	s.generation++
}

// Close 取消未完成的加载并等待加载 goroutine 退出
func (s *PlacementSystem) Close() {
	s.CancelPending()
	s.closeOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}
