package system

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/common"
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/transform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spawn(t *testing.T, w *ecs.World, parent ecs.Entity, pos mgl32.Vec3) (ecs.Entity, *ecs.Transform) {
	t.Helper()
	e := ecs.CreateEntity(w)
	tr, err := w.AddTransform(e, transform.NewAt[ecs.Entity](pos, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent()))
	if err != nil {
		t.Fatalf("add transform: %v", err)
	}
	if parent != 0 && !transform.AddChild[ecs.Entity](w, parent, e) {
		t.Fatalf("link %v -> %v failed", parent, e)
	}
	return e, tr
}

func scriptSource(src string) ScriptLoader {
	return func(string) ([]byte, error) { return []byte(src), nil }
}

func drainKinds(w *ecs.World) map[ecs.EventKind]int {
	out := map[ecs.EventKind]int{}
	for _, evt := range w.Events().Drain() {
		out[evt.Kind]++
	}
	return out
}

func TestDestructionHonoursWalls(t *testing.T) {
	w := ecs.NewWorld()
	root, rt := spawn(t, w, 0, mgl32.Vec3{})
	a, _ := spawn(t, w, root, mgl32.Vec3{})
	b, _ := spawn(t, w, a, mgl32.Vec3{})
	wall, wt := spawn(t, w, root, mgl32.Vec3{})
	wt.KeepChildrenAlive = true
	kept, kt := spawn(t, w, wall, mgl32.Vec3{})

	rt.State = transform.StateMarkedForDelete
	NewDestructionSystem(nil).Update(w)

	for _, e := range []ecs.Entity{root, a, b, wall} {
		if ecs.IsAlive(w, e) {
			t.Fatalf("%v should be destroyed", e)
		}
	}
	if !ecs.IsAlive(w, kept) {
		t.Fatalf("child behind keep-alive wall must survive")
	}
	if !kt.IsRoot() || kt.State != transform.StateIdle {
		t.Fatalf("survivor should be an idle root, parent=%v state=%v", kt.Parent, kt.State)
	}

	kinds := drainKinds(w)
	if kinds[ecs.EventEntityDestroyed] != 4 || kinds[ecs.EventEntityOrphaned] != 1 {
		t.Fatalf("events = %v", kinds)
	}
}

func TestDestroyMarkedDetachesFromSurvivingParent(t *testing.T) {
	w := ecs.NewWorld()
	root, rt := spawn(t, w, 0, mgl32.Vec3{})
	leaf, lt := spawn(t, w, root, mgl32.Vec3{})
	lt.State = transform.StateMarkedForDelete

	destroyed, orphaned := DestroyMarked[ecs.Entity](w)
	if len(destroyed) != 1 || destroyed[0] != leaf || len(orphaned) != 0 {
		t.Fatalf("destroyed=%v orphaned=%v", destroyed, orphaned)
	}
	if rt.HasChild(leaf) || len(rt.Children) != 0 {
		t.Fatalf("surviving parent still lists destroyed child")
	}
	if !ecs.IsAlive(w, root) {
		t.Fatalf("parent should survive")
	}
}

func TestDestructionLogsAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := ecs.NewWorld()
	_, rt := spawn(t, w, 0, mgl32.Vec3{})
	rt.State = transform.StateMarkedForDelete

	NewDestructionSystem(zap.New(core)).Update(w)
	entries := logs.FilterMessage("destroyed marked entities").All()
	if len(entries) != 1 {
		t.Fatalf("expected one debug entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["destroyed"]; got != int64(1) {
		t.Fatalf("destroyed field = %v", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	w := ecs.NewWorld()
	frame := NewFrame(FrameConfig{DT: 1.0 / 60})

	root, _ := spawn(t, w, 0, mgl32.Vec3{})
	child, _ := spawn(t, w, root, mgl32.Vec3{})
	if err := ecs.Add(w, root, component.TTLComponent.Kind(), &component.TTL{Frames: 2}); err != nil {
		t.Fatalf("add ttl: %v", err)
	}
	bare := ecs.CreateEntity(w)
	if err := ecs.Add(w, bare, component.TTLComponent.Kind(), &component.TTL{Frames: 1}); err != nil {
		t.Fatalf("add ttl: %v", err)
	}

	frame.Update(w)
	if ecs.IsAlive(w, bare) {
		t.Fatalf("entity without transform should be destroyed directly")
	}
	if !ecs.IsAlive(w, root) || !ecs.IsAlive(w, child) {
		t.Fatalf("hierarchy expired early")
	}

	frame.Update(w)
	if ecs.IsAlive(w, root) || ecs.IsAlive(w, child) {
		t.Fatalf("expired root should take its child with it")
	}
}

func TestScriptMovesHierarchy(t *testing.T) {
	w := ecs.NewWorld()
	frame := NewFrame(FrameConfig{DT: 0.5})
	frame.Scripts.WithLoader(scriptSource(`
update := func(engine) {
	engine.translate(1, 0, engine.dt)
}
`))

	root, rt := spawn(t, w, 0, mgl32.Vec3{})
	_, ct := spawn(t, w, root, mgl32.Vec3{0, 2, 0})
	if err := ecs.Add(w, root, component.ScriptComponent.Kind(), &component.Script{Path: "move.tengo"}); err != nil {
		t.Fatalf("add script: %v", err)
	}

	frame.Update(w)
	frame.Update(w)

	if rt.Position != (mgl32.Vec3{2, 0, 1}) {
		t.Fatalf("root position = %v", rt.Position)
	}
	if ct.Position != (mgl32.Vec3{2, 2, 1}) {
		t.Fatalf("child position = %v", ct.Position)
	}
	if rt.IsModified() || ct.IsModified() {
		t.Fatalf("frame should end with clear caches")
	}
	if frame.Scripts.Tick() != 2 {
		t.Fatalf("tick = %d", frame.Scripts.Tick())
	}
}

func TestScriptRotateAndDestroy(t *testing.T) {
	w := ecs.NewWorld()
	frame := NewFrame(FrameConfig{})
	frame.Scripts.WithLoader(scriptSource(`
update := func(engine) {
	if engine.tick == 0 {
		engine.rotate(0, 0, 1, 90)
	} else {
		engine.destroy()
	}
}
`))

	root, rt := spawn(t, w, 0, mgl32.Vec3{})
	child, ct := spawn(t, w, root, mgl32.Vec3{1, 0, 0})
	if err := ecs.Add(w, root, component.ScriptComponent.Kind(), &component.Script{Path: "spin.tengo"}); err != nil {
		t.Fatalf("add script: %v", err)
	}

	frame.Update(w)
	want := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 0, 1})
	if !common.ApproxQuat(rt.Orientation, want, 1e-4) || !common.ApproxQuat(ct.Orientation, want, 1e-4) {
		t.Fatalf("orientations = %v %v", rt.Orientation, ct.Orientation)
	}
	if ct.Position != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("rotation delta must not move the child, got %v", ct.Position)
	}

	frame.Update(w)
	if ecs.IsAlive(w, root) || ecs.IsAlive(w, child) {
		t.Fatalf("script destroy should cascade")
	}
}

func TestScriptErrorsDisable(t *testing.T) {
	tests := []struct {
		name   string
		loader ScriptLoader
	}{
		{"load", func(string) ([]byte, error) { return nil, errors.New("missing") }},
		{"compile", scriptSource("update := func(engine) {")},
		{"runtime", scriptSource("update := func(engine) { engine.translate(1, 2) }")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			w := ecs.NewWorld()
			frame := NewFrame(FrameConfig{Logger: zap.New(core)})
			frame.Scripts.WithLoader(tc.loader)

			e, _ := spawn(t, w, 0, mgl32.Vec3{})
			sc := &component.Script{Path: "bad.tengo"}
			if err := ecs.Add(w, e, component.ScriptComponent.Kind(), sc); err != nil {
				t.Fatalf("add script: %v", err)
			}

			frame.Update(w)
			frame.Update(w)
			if !sc.Disabled {
				t.Fatalf("script should be disabled after an error")
			}
			if logs.Len() != 1 {
				t.Fatalf("expected one warning, got %d", logs.Len())
			}

			frame.Scripts.Reset(w)
			if sc.Disabled {
				t.Fatalf("reset should re-enable scripts")
			}
		})
	}
}

func TestFrameRunsExtraBeforeCacheClear(t *testing.T) {
	w := ecs.NewWorld()
	var sawDelta bool
	probe := probeSystem(func(w *ecs.World) {
		w.EachTransform(func(_ ecs.Entity, t *ecs.Transform) {
			if t.IsModified() {
				sawDelta = true
			}
		})
	})
	frame := NewFrame(FrameConfig{Extra: []ecs.System{probe}})

	_, rt := spawn(t, w, 0, mgl32.Vec3{})
	rt.Translate(mgl32.Vec3{1, 0, 0})
	frame.Update(w)

	if !sawDelta {
		t.Fatalf("extra systems should see this tick's deltas")
	}
	if rt.IsModified() {
		t.Fatalf("cache should be cleared by the end of the frame")
	}
	if n := len(frame.Systems()); n != 6 {
		t.Fatalf("systems = %d", n)
	}
}

type probeSystem func(w *ecs.World)

func (p probeSystem) Update(w *ecs.World) { p(w) }
