package system

import (
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/transform"
)

// TTLSystem decrements frame-based TTL components. An expired entity with a
// transform is marked for delete and left to DestructionSystem; one without
// is destroyed on the spot.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		if ttl == nil {
			return
		}

		if ttl.Frames > 0 {
			ttl.Frames--
			if ttl.Frames > 0 {
				return
			}
		}

		// expired
		if t, ok := w.Transform(e); ok {
			t.State = transform.StateMarkedForDelete
			ecs.Remove(w, e, component.TTLComponent.Kind())
			return
		}
		ecs.DestroyEntity(w, e)
	})
}
