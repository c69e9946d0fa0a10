// Package transform holds the scene-graph Transform component and the
// propagation passes that keep world-space state consistent across a
// hierarchy of entities.
//
// The package is generic over the entity handle type. The zero value of the
// handle is the null entity.
package transform

import "github.com/go-gl/mathgl/mgl32"

// State is the lifecycle flag of a transform.
type State uint8

const (
	StateIdle State = iota
	StateMarkedForDelete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateMarkedForDelete:
		return "marked_for_delete"
	default:
		return "unknown"
	}
}

// Transform is the per-entity spatial state plus hierarchy links.
//
// Position, Scale and Orientation are world space. The Local* fields are
// relative to the parent's world frame and are only reconciled with world
// space by the Local* mutators. The Cached* fields hold the net world-space
// delta applied since the last ClearCachedTransformation.
type Transform[E comparable] struct {
	Position    mgl32.Vec3
	Scale       mgl32.Vec3
	Orientation mgl32.Quat

	LocalPosition    mgl32.Vec3
	LocalScale       mgl32.Vec3
	LocalOrientation mgl32.Quat

	CachedTranslation mgl32.Vec3
	CachedScale       mgl32.Vec3
	CachedRotation    mgl32.Quat

	Children []E
	Parent   E

	State             State
	KeepChildrenAlive bool

	modified bool
}

// New returns an idle identity transform with no hierarchy links.
func New[E comparable]() Transform[E] {
	return NewAt[E](mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent())
}

// NewAt returns an idle transform whose world and local state both start at
// the given values.
func NewAt[E comparable](position, scale mgl32.Vec3, orientation mgl32.Quat) Transform[E] {
	orientation = orientation.Normalize()
	return Transform[E]{
		Position:          position,
		Scale:             scale,
		Orientation:       orientation,
		LocalPosition:     position,
		LocalScale:        scale,
		LocalOrientation:  orientation,
		CachedScale:       mgl32.Vec3{1, 1, 1},
		CachedRotation:    mgl32.QuatIdent(),
		CachedTranslation: mgl32.Vec3{},
	}
}

// Translate moves the transform in world space by v.
func (t *Transform[E]) Translate(v mgl32.Vec3) *Transform[E] {
	t.Position = t.Position.Add(v)
	t.CachedTranslation = t.CachedTranslation.Add(v)
	t.modified = true
	return t
}

// ScaleBy multiplies the world scale component-wise by s.
func (t *Transform[E]) ScaleBy(s mgl32.Vec3) *Transform[E] {
	t.Scale = mulVec3(t.Scale, s)
	t.CachedScale = mulVec3(t.CachedScale, s)
	t.modified = true
	return t
}

// Rotate applies q on top of the current world orientation.
func (t *Transform[E]) Rotate(q mgl32.Quat) *Transform[E] {
	t.Orientation = q.Mul(t.Orientation).Normalize()
	t.CachedRotation = q.Mul(t.CachedRotation).Normalize()
	t.modified = true
	return t
}

// LocalTranslate moves the local position by v and re-anchors the world
// position under parent. A nil parent is the world frame.
//
// Local mutators do not record a cached delta, so descendants of t only see
// the change if a world-space mutator is also applied.
func (t *Transform[E]) LocalTranslate(parent *Transform[E], v mgl32.Vec3) *Transform[E] {
	t.LocalPosition = t.LocalPosition.Add(v)
	t.Position = parent.LocalToWorldMatrix().Mul4x1(t.LocalPosition.Vec4(1)).Vec3()
	return t
}

// LocalScaleBy multiplies the local scale by s and re-anchors the world scale.
func (t *Transform[E]) LocalScaleBy(parent *Transform[E], s mgl32.Vec3) *Transform[E] {
	t.LocalScale = mulVec3(t.LocalScale, s)
	parentScale := mgl32.Vec3{1, 1, 1}
	if parent != nil {
		parentScale = parent.Scale
	}
	t.Scale = mulVec3(parentScale, t.LocalScale)
	return t
}

// LocalRotate applies q to the local orientation and re-anchors the world
// orientation.
func (t *Transform[E]) LocalRotate(parent *Transform[E], q mgl32.Quat) *Transform[E] {
	t.LocalOrientation = q.Mul(t.LocalOrientation).Normalize()
	parentOrientation := mgl32.QuatIdent()
	if parent != nil {
		parentOrientation = parent.Orientation
	}
	t.Orientation = parentOrientation.Mul(t.LocalOrientation).Normalize()
	return t
}

// LocalToWorldMatrix composes scale, then rotation, then translation. A nil
// transform yields the identity.
func (t *Transform[E]) LocalToWorldMatrix() mgl32.Mat4 {
	if t == nil {
		return mgl32.Ident4()
	}
	return compose(t.Position, t.Scale, t.Orientation)
}

// WorldToLocalMatrix is the inverse of LocalToWorldMatrix. A singular matrix
// yields the zero matrix.
func (t *Transform[E]) WorldToLocalMatrix() mgl32.Mat4 {
	return t.LocalToWorldMatrix().Inv()
}

// CachedLocalToWorldMatrix composes the delta accumulated this tick.
func (t *Transform[E]) CachedLocalToWorldMatrix() mgl32.Mat4 {
	if t == nil {
		return mgl32.Ident4()
	}
	return compose(t.CachedTranslation, t.CachedScale, t.CachedRotation)
}

// ClearCachedTransformation resets the cached delta to identity.
func (t *Transform[E]) ClearCachedTransformation() {
	t.CachedTranslation = mgl32.Vec3{}
	t.CachedScale = mgl32.Vec3{1, 1, 1}
	t.CachedRotation = mgl32.QuatIdent()
	t.modified = false
}

// IsModified reports whether a world-space mutator ran since the last clear.
func (t *Transform[E]) IsModified() bool {
	return t.modified
}

// IsRoot reports whether the transform has no parent.
func (t *Transform[E]) IsRoot() bool {
	var null E
	return t.Parent == null
}

// HasChild reports whether e is listed as a child.
func (t *Transform[E]) HasChild(e E) bool {
	for _, c := range t.Children {
		if c == e {
			return true
		}
	}
	return false
}

// Equal compares resolved spatial state only; caches and links are ignored.
func (t *Transform[E]) Equal(other *Transform[E]) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.Position == other.Position &&
		t.LocalPosition == other.LocalPosition &&
		t.Scale == other.Scale &&
		t.Orientation == other.Orientation &&
		t.LocalOrientation == other.LocalOrientation
}

func compose(translation, scale mgl32.Vec3, rotation mgl32.Quat) mgl32.Mat4 {
	s := mgl32.Scale3D(scale.X(), scale.Y(), scale.Z())
	r := rotation.Mat4()
	tr := mgl32.Translate3D(translation.X(), translation.Y(), translation.Z())
	return tr.Mul4(r.Mul4(s))
}

func mulVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}
