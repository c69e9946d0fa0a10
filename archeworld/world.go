// Package archeworld stores scene-graph transforms in an arche ECS world.
package archeworld

import (
	"fmt"

	"github.com/mlange-42/arche/ecs"
	"github.com/mlange-42/arche/generic"
	"github.com/milk9111/scenegraph/transform"
)

type Entity = ecs.Entity

type Transform = transform.Transform[Entity]

// World adapts an arche world to transform.Store. Component pointers are
// only valid until the next Create, Destroy or AddTransform.
type World struct {
	world      ecs.World
	transforms generic.Map[Transform]
	builder    generic.Map1[Transform]
	filter     *generic.Filter1[Transform]
}

var _ transform.Store[Entity] = (*World)(nil)

func New() *World {
	w := &World{world: ecs.NewWorld()}
	w.transforms = generic.NewMap[Transform](&w.world)
	w.builder = generic.NewMap1[Transform](&w.world)
	w.filter = generic.NewFilter1[Transform]()
	return w
}

func (w *World) Create() Entity {
	return w.world.NewEntity()
}

func (w *World) Destroy(e Entity) bool {
	if !w.Valid(e) {
		return false
	}
	w.world.RemoveEntity(e)
	return true
}

func (w *World) Valid(e Entity) bool {
	return !e.IsZero() && w.world.Alive(e)
}

func (w *World) Transform(e Entity) (*Transform, bool) {
	if !w.Valid(e) || !w.transforms.Has(e) {
		return nil, false
	}
	return w.transforms.Get(e), true
}

// AddTransform stores a copy of t on e, replacing an existing transform.
func (w *World) AddTransform(e Entity, t Transform) (*Transform, error) {
	if !w.Valid(e) {
		return nil, fmt.Errorf("archeworld: add transform: entity %v not alive", e)
	}
	if w.transforms.Has(e) {
		return w.transforms.Set(e, &t), nil
	}
	w.builder.Assign(e, &t)
	return w.transforms.Get(e), nil
}

// EachTransform visits a snapshot of the transform holders, so fn may
// create or destroy entities.
func (w *World) EachTransform(fn func(Entity, *Transform)) {
	for _, e := range w.snapshot() {
		if t, ok := w.Transform(e); ok {
			fn(e, t)
		}
	}
}

// Count returns the number of entities with a transform.
func (w *World) Count() int {
	q := w.filter.Query(&w.world)
	n := q.Count()
	q.Close()
	return n
}

func (w *World) snapshot() []Entity {
	q := w.filter.Query(&w.world)
	out := make([]Entity, 0, q.Count())
	for q.Next() {
		out = append(out, q.Entity())
	}
	return out
}
