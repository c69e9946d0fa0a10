package ecs

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/transform"
)

func spawnTransform(t *testing.T, w *World, pos mgl32.Vec3) (Entity, *Transform) {
	t.Helper()
	e := CreateEntity(w)
	tr, err := w.AddTransform(e, transform.NewAt[Entity](pos, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent()))
	if err != nil {
		t.Fatalf("add transform: %v", err)
	}
	return e, tr
}

func TestWorldAsTransformRegistry(t *testing.T) {
	w := NewWorld()
	root, rt := spawnTransform(t, w, mgl32.Vec3{})
	a, at := spawnTransform(t, w, mgl32.Vec3{1, 0, 0})
	b, bt := spawnTransform(t, w, mgl32.Vec3{2, 0, 0})

	if !transform.AddChild[Entity](w, root, a) || !transform.AddChild[Entity](w, a, b) {
		t.Fatalf("link failed")
	}

	got, ok := w.Transform(a)
	if !ok || got != at {
		t.Fatalf("Transform should return the stored pointer")
	}

	rt.Translate(mgl32.Vec3{0, 1, 0})
	transform.PropagateTransform[Entity](w)
	transform.ClearCachedTransformations[Entity](w)

	if at.Position != (mgl32.Vec3{1, 1, 0}) || bt.Position != (mgl32.Vec3{2, 1, 0}) {
		t.Fatalf("positions after propagate: %v %v", at.Position, bt.Position)
	}
	if rt.IsModified() || at.IsModified() || bt.IsModified() {
		t.Fatalf("cache should be cleared")
	}
}

func TestWorldDestroyedChildIsSkipped(t *testing.T) {
	w := NewWorld()
	root, rt := spawnTransform(t, w, mgl32.Vec3{})
	a, _ := spawnTransform(t, w, mgl32.Vec3{})
	b, bt := spawnTransform(t, w, mgl32.Vec3{})
	transform.AddChild[Entity](w, root, a)
	transform.AddChild[Entity](w, root, b)

	if !w.Destroy(a) {
		t.Fatalf("destroy failed")
	}
	// recycle the slot so the stale handle shares an index with a live one
	c, ct := spawnTransform(t, w, mgl32.Vec3{})
	if c.Index() != a.Index() {
		t.Fatalf("expected slot reuse")
	}

	rt.Translate(mgl32.Vec3{1, 0, 0})
	rt.State = transform.StateMarkedForDelete
	transform.PropagateTransform[Entity](w)
	transform.PropagateMarkForDestruction[Entity](w)

	if bt.Position != (mgl32.Vec3{1, 0, 0}) || bt.State != transform.StateMarkedForDelete {
		t.Fatalf("live sibling not processed: %v %v", bt.Position, bt.State)
	}
	if ct.Position != (mgl32.Vec3{}) || ct.State != transform.StateIdle {
		t.Fatalf("recycled entity must not receive the stale child's updates")
	}
}

func TestEntitiesWithoutTransformAreIgnored(t *testing.T) {
	w := NewWorld()
	root, rt := spawnTransform(t, w, mgl32.Vec3{})
	bare := CreateEntity(w)
	rt.Children = append(rt.Children, bare)

	rt.Translate(mgl32.Vec3{1, 0, 0})
	transform.PropagateTransform[Entity](w)
	transform.RemoveChild[Entity](w, root, bare)
	if len(rt.Children) != 0 {
		t.Fatalf("bare child should be unlinked")
	}
}
