// Package render holds renderer-agnostic geometry used by the debug viewer.
package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type Shape uint8

const (
	ShapeBox Shape = iota + 1
	ShapeSphere
)

const sphereSegments = 24

// Wireframe is a set of vertices joined by edges.
type Wireframe struct {
	Vertices []mgl32.Vec3
	Edges    [][2]int
}

// Segment is one edge in world space.
type Segment struct {
	A, B mgl32.Vec3
}

// Segments transforms every edge by model.
func (w *Wireframe) Segments(model mgl32.Mat4) []Segment {
	if w == nil {
		return nil
	}
	world := make([]mgl32.Vec3, len(w.Vertices))
	for i, v := range w.Vertices {
		world[i] = mgl32.TransformCoordinate(v, model)
	}
	out := make([]Segment, 0, len(w.Edges))
	for _, e := range w.Edges {
		out = append(out, Segment{A: world[e[0]], B: world[e[1]]})
	}
	return out
}

// PrimitiveCache owns the shared unit primitives. Build one with
// NewPrimitiveCache and pass it to whatever draws.
type PrimitiveCache struct {
	box    *Wireframe
	sphere *Wireframe
}

func NewPrimitiveCache() *PrimitiveCache {
	return &PrimitiveCache{
		box:    unitBox(),
		sphere: unitSphere(sphereSegments),
	}
}

// Box returns the shared unit cube centred on the origin.
func (c *PrimitiveCache) Box() *Wireframe { return c.box }

// Sphere returns the shared unit-radius sphere.
func (c *PrimitiveCache) Sphere() *Wireframe { return c.sphere }

func (c *PrimitiveCache) IsDefaultBox(w *Wireframe) bool {
	return w != nil && w == c.box
}

func (c *PrimitiveCache) IsDefaultSphere(w *Wireframe) bool {
	return w != nil && w == c.sphere
}

// Wireframe returns the shared primitive for shape, or nil.
func (c *PrimitiveCache) Wireframe(shape Shape) *Wireframe {
	switch shape {
	case ShapeBox:
		return c.box
	case ShapeSphere:
		return c.sphere
	default:
		return nil
	}
}

func unitBox() *Wireframe {
	w := &Wireframe{Vertices: make([]mgl32.Vec3, 0, 8)}
	for i := 0; i < 8; i++ {
		w.Vertices = append(w.Vertices, mgl32.Vec3{
			float32(i&1) - 0.5,
			float32(i>>1&1) - 0.5,
			float32(i>>2&1) - 0.5,
		})
	}
	// vertices differing in exactly one bit share an edge
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if j := i | bit; j != i {
				w.Edges = append(w.Edges, [2]int{i, j})
			}
		}
	}
	return w
}

// unitSphere approximates a sphere with three great circles.
func unitSphere(segments int) *Wireframe {
	w := &Wireframe{}
	for axis := 0; axis < 3; axis++ {
		base := len(w.Vertices)
		for i := 0; i < segments; i++ {
			a := 2 * math.Pi * float64(i) / float64(segments)
			s, c := float32(math.Sin(a)), float32(math.Cos(a))
			var v mgl32.Vec3
			v[(axis+1)%3] = c
			v[(axis+2)%3] = s
			w.Vertices = append(w.Vertices, v)
			w.Edges = append(w.Edges, [2]int{base + i, base + (i+1)%segments})
		}
	}
	return w
}
