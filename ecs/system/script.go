package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/ecs"
	"github.com/milk9111/scenegraph/ecs/component"
	"github.com/milk9111/scenegraph/scenes"
	"github.com/milk9111/scenegraph/transform"
	"go.uber.org/zap"
)

// ScriptLoader returns the source of a motion script.
type ScriptLoader func(path string) ([]byte, error)

// ScriptSystem runs each entity's tengo motion script once per tick. Scripts
// define update(engine) and move their entity through the world-space
// mutators, so the motion reaches descendants in the same tick.
type ScriptSystem struct {
	dt     float64
	tick   int64
	load   ScriptLoader
	logger *zap.Logger
	cache  map[ecs.Entity]*scriptRuntime
}

type scriptRuntime struct {
	path     string
	compiled *tengo.Compiled
	state    *tengo.Map
}

const motionDispatchScript = `
update(__engine)
`

func NewScriptSystem(dt float64, logger *zap.Logger) *ScriptSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptSystem{
		dt:     dt,
		load:   scenes.LoadScript,
		logger: logger,
		cache:  map[ecs.Entity]*scriptRuntime{},
	}
}

// WithLoader replaces the script source lookup.
func (s *ScriptSystem) WithLoader(load ScriptLoader) *ScriptSystem {
	if load != nil {
		s.load = load
	}
	return s
}

// Tick returns the number of completed updates.
func (s *ScriptSystem) Tick() int64 {
	return s.tick
}

// Reset drops every compiled script so edited sources are picked up, and
// re-enables scripts that were disabled after an error.
func (s *ScriptSystem) Reset(w *ecs.World) {
	clear(s.cache)
	if w == nil {
		return
	}
	ecs.ForEach(w, component.ScriptComponent.Kind(), func(_ ecs.Entity, sc *component.Script) {
		sc.Disabled = false
	})
}

func (s *ScriptSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for e, rt := range s.cache {
		sc, ok := ecs.Get(w, e, component.ScriptComponent.Kind())
		if !ok || sc.Path != rt.path {
			delete(s.cache, e)
		}
	}

	ecs.ForEach2(w, component.ScriptComponent.Kind(), ecs.TransformComponent.Kind(), func(e ecs.Entity, sc *component.Script, t *ecs.Transform) {
		if sc.Disabled || strings.TrimSpace(sc.Path) == "" {
			return
		}
		rt, err := s.runtime(e, sc.Path)
		if err != nil {
			sc.Disabled = true
			s.logger.Warn("load motion script", zap.Stringer("entity", e), zap.String("script", sc.Path), zap.Error(err))
			return
		}
		if err := rt.run(s.engine(w, e, t)); err != nil {
			sc.Disabled = true
			s.logger.Warn("motion script update", zap.Stringer("entity", e), zap.String("script", sc.Path), zap.Error(err))
		}
	})
	s.tick++
}

func (s *ScriptSystem) runtime(e ecs.Entity, path string) (*scriptRuntime, error) {
	if rt, ok := s.cache[e]; ok && rt.path == path {
		return rt, nil
	}

	src, err := s.load(path)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + motionDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}

	rt := &scriptRuntime{
		path:     path,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	s.cache[e] = rt
	return rt, nil
}

func (rt *scriptRuntime) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// engine builds the object handed to update(). state persists between ticks.
func (s *ScriptSystem) engine(w *ecs.World, e ecs.Entity, t *ecs.Transform) *tengo.ImmutableMap {
	values := map[string]tengo.Object{
		"tick":  &tengo.Int{Value: s.tick},
		"dt":    &tengo.Float{Value: s.dt},
		"name":  &tengo.String{Value: entityName(w, e)},
		"state": s.cache[e].state,
	}

	values["translate"] = &tengo.UserFunction{Name: "translate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vec3Args(args)
		if err != nil {
			return nil, err
		}
		t.Translate(v)
		return tengo.TrueValue, nil
	}}

	values["scale"] = &tengo.UserFunction{Name: "scale", Value: func(args ...tengo.Object) (tengo.Object, error) {
		v, err := vec3Args(args)
		if err != nil {
			return nil, err
		}
		t.ScaleBy(v)
		return tengo.TrueValue, nil
	}}

	values["rotate"] = &tengo.UserFunction{Name: "rotate", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		axis, err := vec3Args(args[:3])
		if err != nil {
			return nil, err
		}
		deg, ok := tengo.ToFloat64(args[3])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "degrees", Expected: "float", Found: args[3].TypeName()}
		}
		if axis.Len() == 0 {
			return tengo.FalseValue, nil
		}
		t.Rotate(mgl32.QuatRotate(mgl32.DegToRad(float32(deg)), axis.Normalize()))
		return tengo.TrueValue, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vec3Object(t.Position), nil
	}}

	values["destroy"] = &tengo.UserFunction{Name: "destroy", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t.State = transform.StateMarkedForDelete
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func entityName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return e.String()
}

func vec3Args(args []tengo.Object) (mgl32.Vec3, error) {
	if len(args) != 3 {
		return mgl32.Vec3{}, tengo.ErrWrongNumArguments
	}
	var v mgl32.Vec3
	for i, arg := range args {
		f, ok := tengo.ToFloat64(arg)
		if !ok {
			return mgl32.Vec3{}, tengo.ErrInvalidArgumentType{Name: string(rune('x' + i)), Expected: "float", Found: arg.TypeName()}
		}
		v[i] = float32(f)
	}
	return v, nil
}

func vec3Object(v mgl32.Vec3) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{
		&tengo.Float{Value: float64(v[0])},
		&tengo.Float{Value: float64(v[1])},
		&tengo.Float{Value: float64(v[2])},
	}}
}
