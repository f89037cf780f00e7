package systems

import (
	"errors"
	"fmt"

	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/ecs"
)

// 放置/移除被拒绝的原因
var (
	ErrLedgerFull    = errors.New("ledger is full")
	ErrCellOccupied  = errors.New("cell already occupied")
	ErrCellEmpty     = errors.New("cell is empty")
	ErrCellOutOfGrid = errors.New("cell outside grid")
	ErrInputLocked   = errors.New("input locked")
	ErrStaleTicket   = errors.New("stale load ticket")
)

// LedgerSystem 管理放置记录
// 负责跟踪哪些格子已放置手雷，并提供查询和更新方法
//
// 记录按放置顺序保存；格子在点击时即被占位（Loading），
// 因此并发中的加载也计入容量，长度永远不会超过 Capacity。
type LedgerSystem struct {
	entityManager *ecs.EntityManager
	ledgerEntity  ecs.EntityID
	gridEntity    ecs.EntityID
}

// NewLedgerSystem 创建放置记录系统
// 参数:
//   - em: EntityManager 实例
//   - ledgerEntity: 持有 LedgerComponent 的实体
//   - gridEntity: 持有 GridComponent 的实体，用于边界检查
func NewLedgerSystem(em *ecs.EntityManager, ledgerEntity, gridEntity ecs.EntityID) *LedgerSystem {
	return &LedgerSystem{
		entityManager: em,
		ledgerEntity:  ledgerEntity,
		gridEntity:    gridEntity,
	}
}

func (s *LedgerSystem) ledger() *components.LedgerComponent {
	l, ok := ecs.GetComponent[*components.LedgerComponent](s.entityManager, s.ledgerEntity)
	if !ok {
		return nil
	}
	return l
}

// inGrid 网格实体已被清除时不做边界检查
func (s *LedgerSystem) inGrid(cell components.GridCell) bool {
	grid, ok := ecs.GetComponent[*components.GridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return true
	}
	return grid.Contains(cell)
}

// Find 返回格子对应记录的下标
func (s *LedgerSystem) Find(cell components.GridCell) (int, bool) {
	l := s.ledger()
	if l == nil {
		return -1, false
	}
	for i, e := range l.Entries {
		if e.Cell == cell {
			return i, true
		}
	}
	return -1, false
}

// IsOccupied 检查格子是否已放置（含加载中）
func (s *LedgerSystem) IsOccupied(cell components.GridCell) bool {
	_, ok := s.Find(cell)
	return ok
}

// Len 返回记录数量
func (s *LedgerSystem) Len() int {
	if l := s.ledger(); l != nil {
		return len(l.Entries)
	}
	return 0
}

// Capacity 返回容量
func (s *LedgerSystem) Capacity() int {
	if l := s.ledger(); l != nil {
		return l.Capacity
	}
	return 0
}

// IsFull 记录数量已达到容量
func (s *LedgerSystem) IsFull() bool {
	return s.Len() >= s.Capacity()
}

// ReadyCount 返回已加载完成的记录数量
func (s *LedgerSystem) ReadyCount() int {
	l := s.ledger()
	if l == nil {
		return 0
	}
	n := 0
	for _, e := range l.Entries {
		if e.State == components.LedgerEntryReady {
			n++
		}
	}
	return n
}

// AllReady 已放满且全部加载完成
func (s *LedgerSystem) AllReady() bool {
	c := s.Capacity()
	return c > 0 && s.ReadyCount() == c
}

// Entries 返回记录副本（放置顺序）
func (s *LedgerSystem) Entries() []components.LedgerEntry {
	l := s.ledger()
	if l == nil {
		return nil
	}
	out := make([]components.LedgerEntry, len(l.Entries))
	copy(out, l.Entries)
	return out
}

// Reserve 为格子占位，状态为 Loading
// 返回:
//   - error: ErrCellOutOfGrid / ErrCellOccupied / ErrLedgerFull
func (s *LedgerSystem) Reserve(cell components.GridCell, now float64, ticket uint64) error {
	l := s.ledger()
	if l == nil {
		return fmt.Errorf("ledger entity %d has no LedgerComponent", s.ledgerEntity)
	}
	if !s.inGrid(cell) {
		return fmt.Errorf("reserve %v: %w", cell, ErrCellOutOfGrid)
	}
	if s.IsOccupied(cell) {
		return fmt.Errorf("reserve %v: %w", cell, ErrCellOccupied)
	}
	if len(l.Entries) >= l.Capacity {
		return fmt.Errorf("reserve %v: %w (%d/%d)", cell, ErrLedgerFull, len(l.Entries), l.Capacity)
	}
	l.Entries = append(l.Entries, components.LedgerEntry{
		Cell:        cell,
		State:       components.LedgerEntryLoading,
		RequestedAt: now,
		Ticket:      ticket,
	})
	return nil
}

// Commit 加载完成后标记记录为 Ready
// 票据不匹配（记录已被移除或重新占位）时返回 ErrStaleTicket
func (s *LedgerSystem) Commit(cell components.GridCell, ticket uint64, entity ecs.EntityID) error {
	i, ok := s.Find(cell)
	if !ok {
		return fmt.Errorf("commit %v: %w", cell, ErrStaleTicket)
	}
	e := &s.ledger().Entries[i]
	if e.Ticket != ticket || e.State != components.LedgerEntryLoading {
		return fmt.Errorf("commit %v ticket %d: %w", cell, ticket, ErrStaleTicket)
	}
	e.Entity = entity
	e.State = components.LedgerEntryReady
	return nil
}

// Release 移除格子的记录并返回被移除的记录
// 空格子返回 ErrCellEmpty，记录不变
func (s *LedgerSystem) Release(cell components.GridCell) (components.LedgerEntry, error) {
	i, ok := s.Find(cell)
	if !ok {
		return components.LedgerEntry{}, fmt.Errorf("release %v: %w", cell, ErrCellEmpty)
	}
	l := s.ledger()
	entry := l.Entries[i]
	l.Entries = append(l.Entries[:i], l.Entries[i+1:]...)
	return entry, nil
}

// Expired 返回加载时间超过 timeout 的 Loading 记录
func (s *LedgerSystem) Expired(now, timeout float64) []components.LedgerEntry {
	l := s.ledger()
	if l == nil || timeout <= 0 {
		return nil
	}
	var out []components.LedgerEntry
	for _, e := range l.Entries {
		if e.State == components.LedgerEntryLoading && now-e.RequestedAt >= timeout {
			out = append(out, e)
		}
	}
	return out
}
