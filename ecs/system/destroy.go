package system

import (
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/transform"
	"go.uber.org/zap"
)

// DestroyMarked destroys every entity whose transform is marked for delete.
// Each one is detached from its parent first and its surviving children are
// orphaned, so no live transform keeps a link to a destroyed handle.
// It returns the destroyed handles and the survivors that became roots.
func DestroyMarked[E comparable](s transform.Store[E]) (destroyed, orphaned []E) {
	var marked []E
	s.EachTransform(func(e E, t *transform.Transform[E]) {
		if t.State == transform.StateMarkedForDelete {
			marked = append(marked, e)
		}
	})

	for _, e := range marked {
		t, ok := s.Transform(e)
		if !ok {
			continue
		}
		transform.RemoveParent[E](s, e)
		for _, c := range t.Children {
			ct, ok := s.Transform(c)
			if !ok || !s.Valid(c) || ct.State == transform.StateMarkedForDelete {
				continue
			}
			orphaned = append(orphaned, c)
		}
		transform.RemoveChildren[E](s, e)
		if s.Destroy(e) {
			destroyed = append(destroyed, e)
		}
	}
	return destroyed, orphaned
}

// DestructionSystem owns entity lifetime: it spreads destruction marks down
// the hierarchy, then destroys the marked entities.
type DestructionSystem struct {
	logger *zap.Logger
}

func NewDestructionSystem(logger *zap.Logger) *DestructionSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DestructionSystem{logger: logger}
}

func (s *DestructionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	transform.PropagateMarkForDestruction[ecs.Entity](w)
	destroyed, orphaned := DestroyMarked[ecs.Entity](w)

	events := w.Events()
	for _, e := range destroyed {
		events.Push(ecs.Event{Kind: ecs.EventEntityDestroyed, Entity: e})
	}
	for _, e := range orphaned {
		events.Push(ecs.Event{Kind: ecs.EventEntityOrphaned, Entity: e})
	}

	if len(destroyed) > 0 {
		s.logger.Debug("destroyed marked entities",
			zap.Int("destroyed", len(destroyed)),
			zap.Int("orphaned", len(orphaned)),
			zap.Int("alive", ecs.EntityCount(w)),
		)
	}
}
