package system

import (
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/transform"
)

// TransformSystem pushes this tick's root motion down to descendants.
type TransformSystem struct{}

func NewTransformSystem() *TransformSystem {
	return &TransformSystem{}
}

func (s *TransformSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	transform.PropagateTransform[ecs.Entity](w)
}

// CacheClearSystem resets per-tick deltas once every consumer has read them.
type CacheClearSystem struct{}

func NewCacheClearSystem() *CacheClearSystem {
	return &CacheClearSystem{}
}

func (s *CacheClearSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	transform.ClearCachedTransformations[ecs.Entity](w)
}
