package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

func assertVector(t *testing.T, want, got geom.Vector2) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-9, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-9, "y")
}

func TestSceneIsCenteredOnCanvas(t *testing.T) {
	tree := newTree()

	assertVector(t, geom.V2(400, 300), tree.LocalToWorld(tree.Root(), geom.Vector2{}))

	tree.Resize(200, 100)
	assertVector(t, geom.V2(100, 50), tree.LocalToWorld(tree.Root(), geom.Vector2{}))
}

func TestWorldMatrixComposition(t *testing.T) {
	tree := newTree()
	a := tree.Create(KindTransform, tree.Root(), "A")
	b := tree.Create(KindTransform, a, "B")
	c := tree.Create(KindRectangle, b, "C")

	tree.SetTranslate(a, geom.V2(10, 0))
	tree.SetRotate(a, 90)
	tree.SetScale(b, geom.V2(2, 2))
	tree.SetTranslate(c, geom.V2(5, 0))

	world := tree.LocalToWorld(c, geom.Vector2{})
	assertVector(t, geom.V2(410, 310), world)
	assertVector(t, geom.Vector2{}, tree.WorldToLocal(c, world))

	assertVector(t, geom.V2(410, 312), tree.LocalToWorld(c, geom.V2(1, 0)))
}

func TestInvalidatePropagatesToSubtree(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	a := tree.Create(KindTransform, root, "A")
	b := tree.Create(KindTransform, a, "B")
	other := tree.Create(KindTransform, root, "Other")

	tree.WorldMatrix(b)
	tree.WorldMatrix(other)
	assert.False(t, tree.Dirty(a))
	assert.False(t, tree.Dirty(b))

	tree.SetTranslate(a, geom.V2(1, 1))

	assert.True(t, tree.Dirty(a))
	assert.True(t, tree.Dirty(b))
	assert.False(t, tree.Dirty(root))
	assert.False(t, tree.Dirty(other))

	assertVector(t, geom.V2(401, 301), tree.LocalToWorld(b, geom.Vector2{}))
	assert.False(t, tree.Dirty(b))
}

func TestReparentInvalidates(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	a := tree.Create(KindTransform, root, "A")
	r := tree.Create(KindRectangle, root, "R")
	tree.SetTranslate(a, geom.V2(50, 0))

	assertVector(t, geom.V2(400, 300), tree.LocalToWorld(r, geom.Vector2{}))

	assert.NoError(t, tree.Reparent(r, a, -1))
	assertVector(t, geom.V2(450, 300), tree.LocalToWorld(r, geom.Vector2{}))
}

func TestSetRotateNormalizes(t *testing.T) {
	tree := newTree()
	a := tree.Create(KindTransform, tree.Root(), "")

	tree.SetRotate(a, -90)
	assert.Equal(t, 270.0, tree.Rotate(a))

	tree.SetRotate(a, 720)
	assert.Equal(t, 0.0, tree.Rotate(a))
}

func TestSingularScaleYieldsNonFiniteInverse(t *testing.T) {
	tree := newTree()
	a := tree.Create(KindTransform, tree.Root(), "")
	tree.SetScale(a, geom.V2(0, 1))

	assert.False(t, tree.InverseWorldMatrix(a).IsFinite())
}

func TestCanvasBounds(t *testing.T) {
	tree := newTree()
	root := tree.Root()

	assert.Equal(t, geom.Rect{X: -400, Y: -300, Width: 800, Height: 600}, tree.CanvasBounds(root))

	tree.SetScale(root, geom.V2(2, 2))
	b := tree.CanvasBounds(root)
	assert.InDelta(t, -200, b.X, 1e-9)
	assert.InDelta(t, 400, b.Width, 1e-9)
}

func TestContainsPoint(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	r := tree.Create(KindRectangle, root, "")
	e := tree.Create(KindEllipse, root, "")
	tree.Rectangle(r).Size = geom.V2(-20, 10)
	tree.SetTranslate(e, geom.V2(200, 0))

	assert.True(t, tree.ContainsPoint(r, geom.V2(390, 305)), "negative size")
	assert.False(t, tree.ContainsPoint(r, geom.V2(410, 305)))

	assert.True(t, tree.ContainsPoint(e, geom.V2(600, 300)))
	assert.True(t, tree.ContainsPoint(e, geom.V2(660, 300)))
	assert.False(t, tree.ContainsPoint(e, geom.V2(664, 300)), "boundary is outside")

	assert.False(t, tree.ContainsPoint(root, geom.V2(400, 300)))
}

func TestObjectAtPoint(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	back := tree.Create(KindRectangle, root, "Back")
	front := tree.Create(KindRectangle, root, "Front")
	far := tree.Create(KindTransform, root, "Far")
	tree.SetTranslate(far, geom.V2(-300, -200))

	assert.Equal(t, front, tree.ObjectAtPoint(root, geom.V2(410, 310)), "front shape wins")

	tree.SetTranslate(front, geom.V2(100, 0))
	assert.Equal(t, back, tree.ObjectAtPoint(root, geom.V2(410, 310)))

	assert.Equal(t, far, tree.ObjectAtPoint(root, geom.V2(120, 110)), "nearest origin")
	assert.Equal(t, root, tree.ObjectAtPoint(root, geom.V2(790, 590)), "nothing near")
}

func TestObjectAtPointIncludesHidden(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "")
	tree.SetVisible(r, false)

	assert.Equal(t, r, tree.ObjectAtPoint(tree.Root(), geom.V2(410, 310)))
}

func TestFocus(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	r := tree.Create(KindRectangle, root, "")
	tree.SetTranslate(r, geom.V2(100, 50))
	tree.SetScale(root, geom.V2(2, 2))

	tree.Focus(r)

	assertVector(t, geom.V2(400, 300), tree.LocalToWorld(r, geom.Vector2{}))
}

func TestSpaceMatchesTree(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "")
	tree.SetTranslate(r, geom.V2(10, 20))

	space := tree.Space(r)
	assertVector(t, geom.V2(410, 320), space.LocalToWorld(geom.Vector2{}))
	assertVector(t, geom.V2(1, 1), space.WorldToLocal(geom.V2(411, 321)))
}
