package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/common"
	"github.com/milk9111/scenegraph/scenes"
	"github.com/milk9111/scenegraph/transform"
)

// BuildHierarchy creates one entity per scene entry in any transform store
// and links them. Entries with a parent are placed relative to it; the rest
// are placed in world space. On error every entity created so far is
// destroyed again.
func BuildHierarchy[E comparable](s transform.Store[E], scene *scenes.Scene) (map[string]E, error) {
	if s == nil {
		return nil, fmt.Errorf("build hierarchy: store is nil")
	}
	if err := scene.Validate(); err != nil {
		return nil, fmt.Errorf("build hierarchy: %w", err)
	}

	ids := make(map[string]E, len(scene.Entities))
	fail := func(err error) (map[string]E, error) {
		for _, e := range ids {
			s.Destroy(e)
		}
		return nil, err
	}

	for _, spec := range scene.Entities {
		e := s.Create()
		ids[spec.Name] = e

		t, err := s.AddTransform(e, transform.New[E]())
		if err != nil {
			return fail(fmt.Errorf("build hierarchy: %q: add transform: %w", spec.Name, err))
		}
		t.KeepChildrenAlive = spec.KeepChildrenAlive

		var parent *transform.Transform[E]
		if spec.Parent != "" {
			p := ids[spec.Parent]
			if !transform.AddChild[E](s, p, e) {
				return fail(fmt.Errorf("build hierarchy: %q: cannot attach to %q", spec.Name, spec.Parent))
			}
			parent, _ = s.Transform(p)
		}

		place(t, parent, spec.Transform)
	}
	return ids, nil
}

// place sets t from scene values, relative to parent when it is not nil.
func place[E comparable](t, parent *transform.Transform[E], spec scenes.TransformSpec) {
	t.LocalScaleBy(parent, spec.ScaleOrOne())
	t.LocalRotate(parent, common.EulerToQuat(mgl32.Vec3(spec.Rotation)))
	t.LocalTranslate(parent, mgl32.Vec3(spec.Position))
}
