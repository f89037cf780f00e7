package components

import "github.com/decker502/grenadegrid/pkg/ecs"

// LedgerEntryState 放置记录状态
type LedgerEntryState int

const (
	// LedgerEntryLoading 已占位，模型仍在异步加载
	LedgerEntryLoading LedgerEntryState = iota
	// LedgerEntryReady 模型已加载并放入场景
	LedgerEntryReady
)

// String 返回状态名称
func (s LedgerEntryState) String() string {
	if s == LedgerEntryReady {
		return "ready"
	}
	return "loading"
}

// LedgerEntry 一条放置记录
type LedgerEntry struct {
	Cell        GridCell
	Entity      ecs.EntityID // 加载完成前为 0
	State       LedgerEntryState
	RequestedAt float64 // 点击时的场景时钟（秒），用于加载超时判断
	Ticket      uint64  // 异步加载票据，用于丢弃过期的加载结果
}

// LedgerComponent 标识放置记录实体
// 用于跟踪哪些格子已放置手雷
//
// Entries 按放置顺序排列，长度始终在 [0, Capacity] 内
type LedgerComponent struct {
	Capacity int
	Entries  []LedgerEntry
}
