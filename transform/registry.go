package transform

// Registry is the part of an entity store the propagation passes read and
// write through. Implementations must report destroyed handles as invalid;
// the passes never cache a registry between calls.
type Registry[E comparable] interface {
	Valid(e E) bool
	Transform(e E) (*Transform[E], bool)
	EachTransform(fn func(e E, t *Transform[E]))
}

// Store is a Registry that can also create and destroy entities. Scene
// builders and lifecycle owners use it; the propagator never does.
type Store[E comparable] interface {
	Registry[E]
	Create() E
	Destroy(e E) bool
	AddTransform(e E, t Transform[E]) (*Transform[E], error)
}

func lookup[E comparable](r Registry[E], e E) (*Transform[E], bool) {
	var null E
	if e == null || !r.Valid(e) {
		return nil, false
	}
	return r.Transform(e)
}
