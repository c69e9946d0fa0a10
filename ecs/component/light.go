package component

import "github.com/go-gl/mathgl/mgl32"

// LightKind names the payload held by a Light.
type LightKind uint8

const (
	LightDirectional LightKind = iota + 1
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// LightSource is implemented only by the three light payloads.
type LightSource interface {
	Kind() LightKind
	isLightSource()
}

type DirectionalLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Direction mgl32.Vec3
}

type PointLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
}

type SpotLight struct {
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
	// InnerCone and OuterCone are half angles in radians.
	InnerCone float32
	OuterCone float32
}

func (DirectionalLight) Kind() LightKind { return LightDirectional }
func (PointLight) Kind() LightKind       { return LightPoint }
func (SpotLight) Kind() LightKind        { return LightSpot }

func (DirectionalLight) isLightSource() {}
func (PointLight) isLightSource()       {}
func (SpotLight) isLightSource()        {}

// Light wraps exactly one LightSource. Position and direction in world space
// come from the entity's transform.
type Light struct {
	Source LightSource
}

var LightComponent = NewComponent[Light]("light")

// Kind returns the payload kind, or zero for an empty light.
func (l Light) Kind() LightKind {
	if l.Source == nil {
		return 0
	}
	return l.Source.Kind()
}

func (l Light) Directional() (DirectionalLight, bool) {
	d, ok := l.Source.(DirectionalLight)
	return d, ok
}

func (l Light) Point() (PointLight, bool) {
	p, ok := l.Source.(PointLight)
	return p, ok
}

func (l Light) Spot() (SpotLight, bool) {
	s, ok := l.Source.(SpotLight)
	return s, ok
}

// Color returns the colour and intensity shared by every payload.
func (l Light) Color() (mgl32.Vec3, float32, bool) {
	switch s := l.Source.(type) {
	case DirectionalLight:
		return s.Color, s.Intensity, true
	case PointLight:
		return s.Color, s.Intensity, true
	case SpotLight:
		return s.Color, s.Intensity, true
	default:
		return mgl32.Vec3{}, 0, false
	}
}
