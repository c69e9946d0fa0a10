package transform

import "gopkg.in/eapache/queue.v1"

// PropagateMarkForDestruction cascades StateMarkedForDelete from every marked
// entity to its descendants. Seeds are all marked entities with children, not
// only marked roots, so a marked inner node under an idle root still takes its
// subtree with it; its ancestors and siblings are left alone. An entity with
// KeepChildrenAlive may itself be marked but the cascade never passes through
// it. Nothing is destroyed here.
func PropagateMarkForDestruction[E comparable](r Registry[E]) {
	work := queue.New()
	seen := make(map[E]struct{})
	r.EachTransform(func(e E, t *Transform[E]) {
		if t.State != StateMarkedForDelete || t.KeepChildrenAlive || len(t.Children) == 0 {
			return
		}
		seen[e] = struct{}{}
		work.Add(e)
	})

	for work.Length() > 0 {
		e := work.Remove().(E)
		t, ok := lookup(r, e)
		if !ok {
			continue
		}
		for _, c := range t.Children {
			ct, ok := lookup(r, c)
			if !ok {
				continue
			}
			ct.State = StateMarkedForDelete
			if ct.KeepChildrenAlive || len(ct.Children) == 0 {
				continue
			}
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			work.Add(c)
		}
	}
}

// PropagateTransform fans each modified entity's cached delta out to its
// children, starting from the roots. A root that was not modified this tick
// skips its whole subtree. Once a parent is visited every child is visited
// too, and receiving the delta marks the child modified, so deltas compound
// down the hierarchy in a single call.
func PropagateTransform[E comparable](r Registry[E]) {
	work := queue.New()
	r.EachTransform(func(e E, t *Transform[E]) {
		if t.IsRoot() && len(t.Children) > 0 {
			work.Add(e)
		}
	})

	for work.Length() > 0 {
		e := work.Remove().(E)
		t, ok := lookup(r, e)
		if !ok || !t.IsModified() {
			continue
		}
		translation, scale, rotation := Decompose(t.CachedLocalToWorldMatrix())
		for _, c := range t.Children {
			ct, ok := lookup(r, c)
			if !ok {
				continue
			}
			work.Add(c)
			ct.Translate(translation).ScaleBy(scale).Rotate(rotation)
		}
	}
}

// ClearCachedTransformations resets the per-tick delta on every transform.
func ClearCachedTransformations[E comparable](r Registry[E]) {
	r.EachTransform(func(_ E, t *Transform[E]) {
		t.ClearCachedTransformation()
	})
}
