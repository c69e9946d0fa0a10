package scenes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScene = errors.New("scenes: invalid scene")

// Scene describes a hierarchy of entities.
type Scene struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity. Transform values are local to Parent when
// it is set and world space otherwise.
type EntitySpec struct {
	Name              string        `yaml:"name"`
	Parent            string        `yaml:"parent"`
	Transform         TransformSpec `yaml:"transform"`
	KeepChildrenAlive bool          `yaml:"keep_children_alive"`
	TTL               int           `yaml:"ttl"`
	Script            string        `yaml:"script"`
	Light             *LightSpec    `yaml:"light"`
}

type TransformSpec struct {
	Position Vec3  `yaml:"position"`
	Scale    *Vec3 `yaml:"scale"`
	// Rotation is Euler angles in degrees, applied X then Y then Z.
	Rotation Vec3 `yaml:"rotation"`
}

type LightSpec struct {
	Type      string  `yaml:"type"`
	Color     *Vec3   `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
	Range     float32 `yaml:"range"`
	Direction Vec3    `yaml:"direction"`
	// InnerCone and OuterCone are half angles in degrees.
	InnerCone float32 `yaml:"inner_cone"`
	OuterCone float32 `yaml:"outer_cone"`
}

// Vec3 accepts either a three element sequence or an {x, y, z} mapping.
type Vec3 mgl32.Vec3

func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var xs []float32
		if err := node.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("line %d: vector needs 3 components, got %d", node.Line, len(xs))
		}
		*v = Vec3{xs[0], xs[1], xs[2]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float32 `yaml:"x"`
			Y float32 `yaml:"y"`
			Z float32 `yaml:"z"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		*v = Vec3{m.X, m.Y, m.Z}
		return nil
	default:
		return fmt.Errorf("line %d: vector must be a sequence or mapping", node.Line)
	}
}

// ScaleOrOne returns the declared scale, defaulting to (1, 1, 1).
func (t TransformSpec) ScaleOrOne() mgl32.Vec3 {
	if t.Scale == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3(*t.Scale)
}

// ColorOrWhite returns the declared colour, defaulting to white.
func (l LightSpec) ColorOrWhite() mgl32.Vec3 {
	if l.Color == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3(*l.Color)
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenes: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks names, parent ordering and light types.
func (s *Scene) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil scene", ErrInvalidScene)
	}
	seen := make(map[string]struct{}, len(s.Entities))
	for i, e := range s.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: entity %d has no name", ErrInvalidScene, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate entity %q", ErrInvalidScene, name)
		}
		if e.Parent != "" {
			if e.Parent == name {
				return fmt.Errorf("%w: entity %q is its own parent", ErrInvalidScene, name)
			}
			if _, ok := seen[e.Parent]; !ok {
				return fmt.Errorf("%w: entity %q: parent %q must be declared before it", ErrInvalidScene, name, e.Parent)
			}
		}
		if e.TTL < 0 {
			return fmt.Errorf("%w: entity %q: negative ttl", ErrInvalidScene, name)
		}
		if e.Light != nil {
			switch e.Light.Type {
			case "directional", "point", "spot":
			default:
				return fmt.Errorf("%w: entity %q: unknown light type %q", ErrInvalidScene, name, e.Light.Type)
			}
		}
		seen[name] = struct{}{}
	}
	return nil
}
