package ecs

import (
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/transform"
)

// Transform is the scene-graph transform keyed by this package's handles.
type Transform = transform.Transform[Entity]

var TransformComponent = component.NewComponent[Transform]("transform")

var _ transform.Store[Entity] = (*World)(nil)

func (w *World) Create() Entity { return CreateEntity(w) }

func (w *World) Destroy(e Entity) bool { return DestroyEntity(w, e) }

func (w *World) Valid(e Entity) bool { return IsAlive(w, e) }

func (w *World) Transform(e Entity) (*Transform, bool) {
	return Get(w, e, TransformComponent.Kind())
}

func (w *World) EachTransform(fn func(Entity, *Transform)) {
	ForEach(w, TransformComponent.Kind(), fn)
}

// AddTransform stores a copy of t on e and returns the stored pointer.
func (w *World) AddTransform(e Entity, t Transform) (*Transform, error) {
	stored := t
	if err := Add(w, e, TransformComponent.Kind(), &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}
