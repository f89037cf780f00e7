package systems

import (
	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/types"
	"github.com/decker502/grenadegrid/pkg/utils"
)

// PointerSystem 悬停高亮
//
// 指针位置 -> NDC -> 相机射线 -> 与地面求交 -> 吸附到格子，
// 然后根据放置记录把高亮格涂成白色（空）或黄色（已放置）。
// 只在指针移动后重新计算，因此放置后的红色会保持到下一次移动。
type PointerSystem struct {
	entityManager   *ecs.EntityManager
	ledger          *LedgerSystem
	cameraEntity    ecs.EntityID
	gridEntity      ecs.EntityID
	highlightEntity ecs.EntityID
	phaseEntity     ecs.EntityID

	lastX, lastY int
	moved        bool // 是否已收到过指针位置
}

// NewPointerSystem 创建悬停高亮系统
func NewPointerSystem(
	em *ecs.EntityManager,
	ledger *LedgerSystem,
	cameraEntity, gridEntity, highlightEntity, phaseEntity ecs.EntityID,
) *PointerSystem {
	return &PointerSystem{
		entityManager:   em,
		ledger:          ledger,
		cameraEntity:    cameraEntity,
		gridEntity:      gridEntity,
		highlightEntity: highlightEntity,
		phaseEntity:     phaseEntity,
	}
}

// Update 处理本帧指针位置
// 返回:
//   - bool: 高亮格是否被更新
func (s *PointerSystem) Update(input utils.InputState) bool {
	if CurrentMode(s.entityManager, s.phaseEntity) != types.SceneModeInteractive {
		return false
	}
	if s.moved && input.X == s.lastX && input.Y == s.lastY && !input.JustPressed {
		return false
	}
	s.moved = true
	s.lastX, s.lastY = input.X, input.Y
	return s.PointerMove(input.X, input.Y)
}

// PointerMove 对屏幕坐标 (x, y) 做一次拾取
// 未命中地面（或命中网格外）时高亮保持不变
func (s *PointerSystem) PointerMove(x, y int) bool {
	cam, ok := ecs.GetComponent[*components.CameraComponent](s.entityManager, s.cameraEntity)
	if !ok {
		return false
	}
	grid, ok := ecs.GetComponent[*components.GridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return false
	}
	hl, ok := ecs.GetComponent[*components.HighlightComponent](s.entityManager, s.highlightEntity)
	if !ok {
		return false
	}

	hit, ok := utils.PickGround(cam, x, y, grid.HalfExtent())
	if !ok {
		return false
	}
	cell := utils.SnapToCell(hit)
	if !grid.Contains(cell) {
		return false
	}

	hl.Cell = cell
	hl.Valid = true
	hl.Occupied = s.ledger.IsOccupied(cell)
	if hl.Occupied {
		hl.Color = components.HighlightOccupied
	} else {
		hl.Color = components.HighlightFree
	}
	return true
}
