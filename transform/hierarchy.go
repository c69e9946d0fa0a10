package transform

import (
	"slices"

	"gopkg.in/eapache/queue.v1"
)

// RemoveChild unlinks child from parent. Each side is updated only if it is
// still a valid entity with a transform, so either handle may be stale.
func RemoveChild[E comparable](r Registry[E], parent, child E) {
	if pt, ok := lookup(r, parent); ok {
		pt.Children = slices.DeleteFunc(pt.Children, func(c E) bool { return c == child })
	}
	if ct, ok := lookup(r, child); ok {
		var null E
		ct.Parent = null
	}
}

// RemoveChildren orphans every still-valid child of parent and empties its
// child list.
func RemoveChildren[E comparable](r Registry[E], parent E) {
	pt, ok := lookup(r, parent)
	if !ok {
		return
	}
	var null E
	for _, c := range pt.Children {
		if ct, ok := lookup(r, c); ok {
			ct.Parent = null
		}
	}
	pt.Children = nil
}

// RemoveParent detaches e from its parent, if it has one.
func RemoveParent[E comparable](r Registry[E], e E) {
	t, ok := lookup(r, e)
	if !ok || t.IsRoot() {
		return
	}
	RemoveChild(r, t.Parent, e)
}

// AddChild links child under parent, detaching it from any previous parent.
// Spatial state is left alone; re-anchor with the Local* mutators.
//
// It refuses null or invalid handles, self-parenting, and links that would
// make parent a descendant of child.
func AddChild[E comparable](r Registry[E], parent, child E) bool {
	if parent == child {
		return false
	}
	pt, ok := lookup(r, parent)
	if !ok {
		return false
	}
	ct, ok := lookup(r, child)
	if !ok {
		return false
	}
	if ct.Parent == parent && pt.HasChild(child) {
		return true
	}
	if isAncestor(r, child, parent) {
		return false
	}

	RemoveParent(r, child)
	pt.Children = append(pt.Children, child)
	ct.Parent = parent
	return true
}

// Descendants lists the valid descendants of root breadth first.
func Descendants[E comparable](r Registry[E], root E) []E {
	var out []E
	work := queue.New()
	work.Add(root)
	for work.Length() > 0 {
		e := work.Remove().(E)
		t, ok := lookup(r, e)
		if !ok {
			continue
		}
		for _, c := range t.Children {
			if _, ok := lookup(r, c); !ok {
				continue
			}
			out = append(out, c)
			work.Add(c)
		}
	}
	return out
}

// isAncestor walks up from e and reports whether candidate is on the path.
func isAncestor[E comparable](r Registry[E], candidate, e E) bool {
	seen := map[E]struct{}{}
	for {
		if e == candidate {
			return true
		}
		if _, dup := seen[e]; dup {
			return false
		}
		seen[e] = struct{}{}
		t, ok := lookup(r, e)
		if !ok || t.IsRoot() {
			return false
		}
		e = t.Parent
	}
}
