package systems

import (
	"errors"
	"testing"
	"time"

	"github.com/decker502/grenadegrid/pkg/components"
	"github.com/decker502/grenadegrid/pkg/ecs"
	"github.com/decker502/grenadegrid/pkg/game"
	"github.com/decker502/grenadegrid/pkg/types"
)

func placedEntities(em *ecs.EntityManager) []ecs.EntityID {
	return ecs.GetEntitiesWith1[*components.PlacedObjectComponent](em)
}

// TestPlaceCommitsOnUpdate 测试加载结果只在 Update 中生效
func TestPlaceCommitsOnUpdate(t *testing.T) {
	f := newSceneFixture(4)
	cell := allCells[3]
	hl := f.highlightComp()
	hl.Cell, hl.Valid = cell, true

	if err := f.placement.Place(cell, 1.5); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got := f.ledger.Entries()[0].State; got != components.LedgerEntryLoading {
		t.Errorf("state before Update = %s, want loading", got)
	}
	if len(placedEntities(f.em)) != 0 {
		t.Error("entity must not be created before Update")
	}

	f.placement.Update(1.6)

	entry := f.ledger.Entries()[0]
	if entry.State != components.LedgerEntryReady || entry.Entity == 0 {
		t.Fatalf("entry after Update = %+v, want ready with entity", entry)
	}
	placed, ok := ecs.GetComponent[*components.PlacedObjectComponent](f.em, entry.Entity)
	if !ok || placed.Cell != cell || placed.CreatedAt != 1.6 {
		t.Errorf("PlacedObjectComponent = %+v", placed)
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](f.em, entry.Entity)
	if !ok {
		t.Fatal("missing TransformComponent")
	}
	if transform.Position.X != 0.5 || transform.Position.Z != 0.5 || transform.Scale.X != 0.8 {
		t.Errorf("transform = %+v, want centre (0.5, 0.5) scale 0.8", transform)
	}
	anim, ok := ecs.GetComponent[*components.AnimationPlayerComponent](f.em, entry.Entity)
	if !ok || anim.Player.TimeScale != 0.5 {
		t.Errorf("AnimationPlayerComponent = %+v, want time scale 0.5", anim)
	}
	if hl.Color != components.HighlightPlaced || !hl.Occupied {
		t.Errorf("highlight = %+v, want red and occupied", hl)
	}
}

// TestHandleClickToggles 测试点击空格子放置，再次点击移除
func TestHandleClickToggles(t *testing.T) {
	f := newSceneFixture(4)
	hl := f.highlightComp()

	if err := f.placement.HandleClick(0); err != nil {
		t.Errorf("click without a highlighted cell: %v", err)
	}
	if f.ledger.Len() != 0 {
		t.Fatal("click without a highlighted cell must not place")
	}

	hl.Cell, hl.Valid = allCells[0], true
	if err := f.placement.HandleClick(0); err != nil {
		t.Fatalf("first click: %v", err)
	}
	f.placement.Update(0)
	id := f.ledger.Entries()[0].Entity

	if err := f.placement.HandleClick(1); err != nil {
		t.Fatalf("second click: %v", err)
	}
	if f.ledger.Len() != 0 {
		t.Errorf("Len = %d after removal, want 0", f.ledger.Len())
	}
	if hl.Color != components.HighlightFree || hl.Occupied {
		t.Errorf("highlight after removal = %+v, want white", hl)
	}
	f.em.RemoveMarkedEntities()
	if f.em.Exists(id) {
		t.Error("removed grenade entity should be destroyed")
	}
}

// TestRemoveEmptyCell 测试移除空格子被拒绝
func TestRemoveEmptyCell(t *testing.T) {
	f := newSceneFixture(4)
	if err := f.placement.Remove(allCells[0]); !errors.Is(err, ErrCellEmpty) {
		t.Errorf("Remove on empty cell: got %v, want ErrCellEmpty", err)
	}
}

// TestFifthPlacementRejected 测试容量满后拒绝放置
func TestFifthPlacementRejected(t *testing.T) {
	f := newSceneFixture(3)
	f.deferDispatch()
	for _, c := range allCells[:3] {
		if err := f.placement.Place(c, 0); err != nil {
			t.Fatalf("Place(%v): %v", c, err)
		}
	}
	if err := f.placement.Place(allCells[3], 0); !errors.Is(err, ErrLedgerFull) {
		t.Errorf("extra Place: got %v, want ErrLedgerFull", err)
	}
	if f.ledger.Len() != 3 {
		t.Errorf("Len = %d, want 3", f.ledger.Len())
	}
	if len(f.pending) != 3 {
		t.Errorf("dispatched %d loads, want 3", len(f.pending))
	}
	// 满员时即使目标格已被占用，也先报告容量已满
	if err := f.placement.Place(allCells[0], 0); !errors.Is(err, ErrLedgerFull) {
		t.Errorf("Place on occupied cell when full: got %v, want ErrLedgerFull", err)
	}
	if f.placement.nextTicket != 3 {
		t.Errorf("rejected places consumed tickets: nextTicket = %d, want 3", f.placement.nextTicket)
	}
}

// TestPlaceLoadError 测试加载失败释放占位
func TestPlaceLoadError(t *testing.T) {
	f := newSceneFixture(4)
	f.loader.err = errFakeLoad

	if err := f.placement.Place(allCells[0], 0); err != nil {
		t.Fatalf("Place: %v", err)
	}
	f.placement.Update(0.1)

	if f.ledger.Len() != 0 {
		t.Errorf("Len = %d after failed load, want 0", f.ledger.Len())
	}
	if !errors.Is(f.placement.LastError, game.ErrAssetLoad) {
		t.Errorf("LastError = %v, want ErrAssetLoad", f.placement.LastError)
	}
	if !errors.Is(f.placement.LastError, errFakeLoad) {
		t.Errorf("LastError = %v, should keep the loader error", f.placement.LastError)
	}
}

// TestPlaceLoadTimeout 测试超时后释放占位并丢弃迟到的结果
func TestPlaceLoadTimeout(t *testing.T) {
	f := newSceneFixture(4)
	f.deferDispatch()

	if err := f.placement.Place(allCells[0], 0); err != nil {
		t.Fatalf("Place: %v", err)
	}
	f.placement.Update(5)
	if f.ledger.Len() != 1 {
		t.Fatal("entry should survive before the timeout")
	}

	f.placement.Update(f.cfg.Timing.LoadTimeout)
	if f.ledger.Len() != 0 {
		t.Errorf("Len = %d after timeout, want 0", f.ledger.Len())
	}
	if !errors.Is(f.placement.LastError, game.ErrAssetTimeout) {
		t.Errorf("LastError = %v, want ErrAssetTimeout", f.placement.LastError)
	}

	f.runPending()
	f.placement.Update(11)
	if f.ledger.Len() != 0 || len(placedEntities(f.em)) != 0 {
		t.Error("late result after timeout must be discarded")
	}
}

// TestRemoveLoadingDropsResult 测试加载中被移除，迟到的结果被丢弃
func TestRemoveLoadingDropsResult(t *testing.T) {
	f := newSceneFixture(4)
	f.deferDispatch()
	cell := allCells[1]

	_ = f.placement.Place(cell, 0)
	if err := f.placement.Remove(cell); err != nil {
		t.Fatalf("Remove loading entry: %v", err)
	}
	// 同一格子重新占位，旧票据的结果不能提交到新记录上
	_ = f.placement.Place(cell, 0.5)

	tasks := f.pending
	f.pending = nil
	tasks[0]()
	f.placement.Update(1)

	entries := f.ledger.Entries()
	if len(entries) != 1 || entries[0].State != components.LedgerEntryLoading {
		t.Fatalf("entries = %+v, want one loading entry", entries)
	}
	if len(placedEntities(f.em)) != 0 {
		t.Error("stale result must not spawn an entity")
	}

	tasks[1]()
	f.placement.Update(1.1)
	if f.ledger.ReadyCount() != 1 {
		t.Errorf("ReadyCount = %d, want 1 after the current load resolves", f.ledger.ReadyCount())
	}
}

// TestCancelPendingDropsResults 测试场景清空后的加载结果被丢弃
func TestCancelPendingDropsResults(t *testing.T) {
	f := newSceneFixture(4)
	f.deferDispatch()
	_ = f.placement.Place(allCells[0], 0)

	f.placement.CancelPending()
	f.runPending()
	f.placement.Update(0.1)

	if len(placedEntities(f.em)) != 0 {
		t.Error("results from before CancelPending must be dropped")
	}
}

// TestInputLockedOutsideInteractive 测试布防后和终幕中拒绝输入
func TestInputLockedOutsideInteractive(t *testing.T) {
	tests := []struct {
		name  string
		setup func(p *components.TransitionPhaseComponent)
	}{
		{"armed", func(p *components.TransitionPhaseComponent) { p.Armed = true }},
		{"transitioning", func(p *components.TransitionPhaseComponent) { p.Mode = types.SceneModeTransitioning }},
		{"final", func(p *components.TransitionPhaseComponent) { p.Mode = types.SceneModeFinal }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSceneFixture(4)
			_ = f.placement.Place(allCells[0], 0)
			f.placement.Update(0)
			tt.setup(f.phaseComp())

			hl := f.highlightComp()
			hl.Cell, hl.Valid = allCells[1], true

			if err := f.placement.HandleClick(1); !errors.Is(err, ErrInputLocked) {
				t.Errorf("HandleClick: got %v, want ErrInputLocked", err)
			}
			if err := f.placement.Remove(allCells[0]); !errors.Is(err, ErrInputLocked) {
				t.Errorf("Remove: got %v, want ErrInputLocked", err)
			}
			if f.ledger.Len() != 1 {
				t.Errorf("Len = %d, ledger must not change", f.ledger.Len())
			}
		})
	}
}

// TestPlaceAsync 测试真实的 goroutine 加载路径
func TestPlaceAsync(t *testing.T) {
	f := newSceneFixture(4)
	f.placement.dispatch = f.placement.goDispatch
	defer f.placement.Close()

	for _, c := range allCells {
		if err := f.placement.Place(c, 0); err != nil {
			t.Fatalf("Place(%v): %v", c, err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for f.ledger.ReadyCount() < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("ReadyCount = %d after 2s, want 4", f.ledger.ReadyCount())
		}
		f.placement.Update(0)
		time.Sleep(time.Millisecond)
	}
	if len(placedEntities(f.em)) != 4 {
		t.Errorf("placed %d entities, want 4", len(placedEntities(f.em)))
	}
}
