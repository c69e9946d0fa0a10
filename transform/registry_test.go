package transform

type handle uint32

// mapRegistry is a minimal Store used by the package tests.
type mapRegistry struct {
	next       handle
	transforms map[handle]*Transform[handle]
	alive      map[handle]bool
}

func newMapRegistry() *mapRegistry {
	return &mapRegistry{
		transforms: map[handle]*Transform[handle]{},
		alive:      map[handle]bool{},
	}
}

func (r *mapRegistry) Create() handle {
	r.next++
	r.alive[r.next] = true
	return r.next
}

func (r *mapRegistry) Destroy(e handle) bool {
	if !r.alive[e] {
		return false
	}
	delete(r.alive, e)
	delete(r.transforms, e)
	return true
}

func (r *mapRegistry) Valid(e handle) bool {
	return r.alive[e]
}

func (r *mapRegistry) Transform(e handle) (*Transform[handle], bool) {
	t, ok := r.transforms[e]
	return t, ok
}

func (r *mapRegistry) EachTransform(fn func(e handle, t *Transform[handle])) {
	for e, t := range r.transforms {
		fn(e, t)
	}
}

func (r *mapRegistry) AddTransform(e handle, t Transform[handle]) (*Transform[handle], error) {
	stored := t
	r.transforms[e] = &stored
	return &stored, nil
}

// spawn creates an entity with an identity transform.
func (r *mapRegistry) spawn() (handle, *Transform[handle]) {
	e := r.Create()
	t, _ := r.AddTransform(e, New[handle]())
	return e, t
}

func (r *mapRegistry) get(e handle) *Transform[handle] {
	return r.transforms[e]
}

// chain builds root -> 1 -> 2 ... with n entities in total.
func (r *mapRegistry) chain(n int) []handle {
	out := make([]handle, 0, n)
	for i := 0; i < n; i++ {
		e, _ := r.spawn()
		if i > 0 {
			AddChild[handle](r, out[i-1], e)
		}
		out = append(out, e)
	}
	return out
}

var _ Store[handle] = (*mapRegistry)(nil)
