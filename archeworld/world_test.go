package archeworld

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/scenegraph/ecs/entity"
	"github.com/milk9111/scenegraph/ecs/system"
	"github.com/milk9111/scenegraph/scenes"
	"github.com/milk9111/scenegraph/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawn(t *testing.T, w *World, pos mgl32.Vec3) Entity {
	t.Helper()
	e := w.Create()
	_, err := w.AddTransform(e, transform.NewAt[Entity](pos, mgl32.Vec3{1, 1, 1}, mgl32.QuatIdent()))
	require.NoError(t, err)
	return e
}

func get(t *testing.T, w *World, e Entity) *Transform {
	t.Helper()
	tr, ok := w.Transform(e)
	require.True(t, ok, "entity %v has no transform", e)
	return tr
}

func TestLifecycle(t *testing.T) {
	w := New()
	var null Entity
	assert.False(t, w.Valid(null))

	e := w.Create()
	assert.True(t, w.Valid(e))
	_, ok := w.Transform(e)
	assert.False(t, ok, "bare entity has no transform")

	stored, err := w.AddTransform(e, transform.New[Entity]())
	require.NoError(t, err)
	stored.Translate(mgl32.Vec3{1, 0, 0})
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, get(t, w, e).Position)

	replaced, err := w.AddTransform(e, transform.New[Entity]())
	require.NoError(t, err)
	assert.Equal(t, mgl32.Vec3{}, replaced.Position)
	assert.Equal(t, 1, w.Count())

	assert.True(t, w.Destroy(e))
	assert.False(t, w.Destroy(e))
	assert.False(t, w.Valid(e))
	_, err = w.AddTransform(e, transform.New[Entity]())
	assert.Error(t, err)
	assert.Equal(t, 0, w.Count())
}

func TestPropagateThroughArche(t *testing.T) {
	w := New()
	root := spawn(t, w, mgl32.Vec3{})
	a := spawn(t, w, mgl32.Vec3{1, 0, 0})
	b := spawn(t, w, mgl32.Vec3{2, 0, 0})
	require.True(t, transform.AddChild[Entity](w, root, a))
	require.True(t, transform.AddChild[Entity](w, a, b))

	get(t, w, root).Translate(mgl32.Vec3{0, 3, 0})
	transform.PropagateTransform[Entity](w)
	transform.ClearCachedTransformations[Entity](w)

	assert.Equal(t, mgl32.Vec3{1, 3, 0}, get(t, w, a).Position)
	assert.Equal(t, mgl32.Vec3{2, 3, 0}, get(t, w, b).Position)
	assert.False(t, get(t, w, b).IsModified())
}

func TestDestroyMarkedThroughArche(t *testing.T) {
	w := New()
	root := spawn(t, w, mgl32.Vec3{})
	wall := spawn(t, w, mgl32.Vec3{})
	kept := spawn(t, w, mgl32.Vec3{})
	require.True(t, transform.AddChild[Entity](w, root, wall))
	require.True(t, transform.AddChild[Entity](w, wall, kept))
	get(t, w, wall).KeepChildrenAlive = true
	get(t, w, root).State = transform.StateMarkedForDelete

	transform.PropagateMarkForDestruction[Entity](w)
	destroyed, orphaned := system.DestroyMarked[Entity](w)

	assert.ElementsMatch(t, []Entity{root, wall}, destroyed)
	assert.Equal(t, []Entity{kept}, orphaned)
	assert.True(t, w.Valid(kept))
	assert.True(t, get(t, w, kept).IsRoot())
	assert.Equal(t, 1, w.Count())
}

func TestHumanoidSceneOnArche(t *testing.T) {
	scene, err := scenes.LoadScene("humanoid")
	require.NoError(t, err)

	w := New()
	ids, err := entity.BuildHierarchy[Entity](w, scene)
	require.NoError(t, err)
	require.Len(t, ids, len(scene.Entities))

	before := make(map[string]mgl32.Vec3, len(ids))
	for name, e := range ids {
		before[name] = get(t, w, e).Position
	}

	get(t, w, ids["body"]).Translate(mgl32.Vec3{0, 0, 5})
	transform.PropagateTransform[Entity](w)

	for name, e := range ids {
		want := before[name].Add(mgl32.Vec3{0, 0, 5})
		assert.InDeltaSlice(t, want[:], get(t, w, e).Position[:], 1e-5, name)
	}

	get(t, w, ids["arm_l"]).State = transform.StateMarkedForDelete
	transform.PropagateMarkForDestruction[Entity](w)
	destroyed, _ := system.DestroyMarked[Entity](w)
	assert.ElementsMatch(t, []Entity{ids["arm_l"], ids["hand_l"]}, destroyed)
	assert.Len(t, get(t, w, ids["body"]).Children, 4)
}
