// Package entity turns scene descriptions into entities.
package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/scenes"
)

type buildContext struct {
	Scene uuid.UUID
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, spec *scenes.EntitySpec, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"name":   addName,
	"ttl":    addTTL,
	"script": addScript,
	"light":  addLight,
}

var componentBuildOrder = []string{
	"name",
	"ttl",
	"script",
	"light",
}

// BuildScene builds every entity of scene in w: transforms and links first,
// then the remaining components. The returned map is keyed by entity name.
func BuildScene(w *ecs.World, scene *scenes.Scene) (map[string]ecs.Entity, uuid.UUID, error) {
	if w == nil {
		return nil, uuid.Nil, fmt.Errorf("build scene: world is nil")
	}

	ids, err := BuildHierarchy[ecs.Entity](w, scene)
	if err != nil {
		return nil, uuid.Nil, err
	}

	ctx := &buildContext{Scene: uuid.New()}
	for i := range scene.Entities {
		spec := &scene.Entities[i]
		e := ids[spec.Name]
		for _, name := range componentBuildOrder {
			if err := componentRegistry[name](w, e, spec, ctx); err != nil {
				DestroyScene(w, ids)
				return nil, uuid.Nil, fmt.Errorf("build scene %q: %q: add %q: %w", scene.Name, spec.Name, name, err)
			}
		}
	}

	return ids, ctx.Scene, nil
}

// DestroyScene destroys the entities of a built scene. Handles that are
// already dead are skipped.
func DestroyScene(w *ecs.World, ids map[string]ecs.Entity) int {
	n := 0
	for _, e := range ids {
		if ecs.DestroyEntity(w, e) {
			n++
		}
	}
	return n
}

func addName(w *ecs.World, e ecs.Entity, spec *scenes.EntitySpec, ctx *buildContext) error {
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name, Scene: ctx.Scene})
}

func addTTL(w *ecs.World, e ecs.Entity, spec *scenes.EntitySpec, _ *buildContext) error {
	if spec.TTL <= 0 {
		return nil
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: spec.TTL})
}

func addScript(w *ecs.World, e ecs.Entity, spec *scenes.EntitySpec, _ *buildContext) error {
	if spec.Script == "" {
		return nil
	}
	return ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Path: spec.Script})
}

func addLight(w *ecs.World, e ecs.Entity, spec *scenes.EntitySpec, _ *buildContext) error {
	if spec.Light == nil {
		return nil
	}
	source, err := lightSource(spec.Light)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.LightComponent.Kind(), &component.Light{Source: source})
}

func lightSource(l *scenes.LightSpec) (component.LightSource, error) {
	color := l.ColorOrWhite()
	intensity := l.Intensity
	if intensity == 0 {
		intensity = 1
	}

	switch l.Type {
	case "directional":
		dir := mgl32.Vec3(l.Direction)
		if dir.Len() == 0 {
			dir = mgl32.Vec3{0, -1, 0}
		}
		return component.DirectionalLight{Color: color, Intensity: intensity, Direction: dir.Normalize()}, nil
	case "point":
		return component.PointLight{Color: color, Intensity: intensity, Range: l.Range}, nil
	case "spot":
		if l.InnerCone > l.OuterCone {
			return nil, fmt.Errorf("inner cone %v wider than outer cone %v", l.InnerCone, l.OuterCone)
		}
		return component.SpotLight{
			Color:     color,
			Intensity: intensity,
			Range:     l.Range,
			InnerCone: mgl32.DegToRad(l.InnerCone),
			OuterCone: mgl32.DegToRad(l.OuterCone),
		}, nil
	default:
		return nil, fmt.Errorf("unknown light type %q", l.Type)
	}
}
