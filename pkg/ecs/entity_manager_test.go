package ecs

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// 测试组件类型定义
type testTransform struct {
	X, Y, Z float64
}

type testMesh struct {
	Name string
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	// ID从1开始
	if id1 != 1 || id2 != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", id1, id2)
	}
	if em.Count() != 2 {
		t.Errorf("Count: got %d, want 2", em.Count())
	}
}

func TestGenericGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testTransform{X: 1.5, Z: 0.5})

	tr, ok := GetComponent[*testTransform](em, id)
	if !ok {
		t.Fatal("component should be found")
	}
	if tr.X != 1.5 || tr.Z != 0.5 {
		t.Errorf("component data mismatch: %+v", tr)
	}

	if _, ok := GetComponent[*testMesh](em, id); ok {
		t.Error("missing component should not be found")
	}
	if !HasComponent[*testTransform](em, id) {
		t.Error("HasComponent should be true")
	}

	RemoveComponent[*testTransform](em, id)
	if em.HasComponent(id, reflect.TypeOf(&testTransform{})) {
		t.Error("component should be removed")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	em.AddComponent(id, &testTransform{})

	em.DestroyEntity(id)
	// 标记后、清理前仍然存在
	if !em.Exists(id) {
		t.Error("entity should still exist before RemoveMarkedEntities")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("entity should be gone after RemoveMarkedEntities")
	}
}

func TestIDsNotReused(t *testing.T) {
	em := NewEntityManager()
	for i := 0; i < 5; i++ {
		em.DestroyEntity(em.CreateEntity())
	}
	em.RemoveMarkedEntities()

	if em.Count() != 0 {
		t.Errorf("Count after destroy: got %d, want 0", em.Count())
	}
	// 删除后新实体的ID继续递增，不复用
	if id := em.CreateEntity(); id != 6 {
		t.Errorf("next ID: got %d, want 6", id)
	}
}

func TestGetEntitiesWithIsOrdered(t *testing.T) {
	em := NewEntityManager()
	var want []EntityID
	for i := 0; i < 10; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testTransform{})
		if i%2 == 0 {
			em.AddComponent(id, &testMesh{})
			want = append(want, id)
		}
	}

	got := GetEntitiesWith2[*testTransform, *testMesh](em)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GetEntitiesWith2 mismatch (-want +got):\n%s", diff)
	}
	if n := len(GetEntitiesWith1[*testTransform](em)); n != 10 {
		t.Errorf("GetEntitiesWith1: got %d, want 10", n)
	}
}
