package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

func newTree() *Tree {
	return NewTree(800, 600)
}

func TestNewTreeHasScene(t *testing.T) {
	tree := newTree()

	root := tree.Root()
	assert.Equal(t, KindScene, tree.Kind(root))
	assert.Equal(t, "Scene", tree.Name(root))
	assert.Equal(t, NoNode, tree.Parent(root))
	assert.Equal(t, 1, tree.Len())
}

func TestCreateDefaultsAndUniqueNames(t *testing.T) {
	tree := newTree()
	root := tree.Root()

	a := tree.Create(KindRectangle, root, "")
	b := tree.Create(KindRectangle, root, "")
	c := tree.Create(KindRectangle, root, "Rectangle 1")
	d := tree.Create(KindEllipse, root, "Box 7!")

	assert.Equal(t, "Rectangle", tree.Name(a))
	assert.Equal(t, "Rectangle 1", tree.Name(b))
	assert.Equal(t, "Rectangle 2", tree.Name(c))
	assert.Equal(t, "Box 7", tree.Name(d))

	assert.Equal(t, []NodeID{a, b, c, d}, tree.Children(root))
	assert.Equal(t, DefaultStyle(), tree.Style(a))
	assert.Equal(t, geom.V2(64, 64), tree.Rectangle(a).Size)
	assert.Equal(t, geom.V2(64, 64), tree.Ellipse(d).Radius)
	assert.Equal(t, geom.V2(1, 1), tree.Scale(a))
	assert.True(t, tree.VisibleFlag(a))
}

func TestCreateNewPathIsDrawing(t *testing.T) {
	tree := newTree()
	p := tree.Path(tree.Create(KindPath, tree.Root(), ""))

	assert.True(t, p.Drawing)
	assert.True(t, p.Closed)
	assert.Equal(t, []geom.PathPoint{geom.Pt(0, 0)}, p.Points)
}

func TestCreatePanics(t *testing.T) {
	tree := newTree()

	assert.Panics(t, func() { tree.Create(KindScene, NoNode, "") })
	assert.Panics(t, func() { tree.Create(KindRectangle, NoNode, "") })
	assert.Panics(t, func() { tree.Create(Kind(42), tree.Root(), "") })
	assert.Panics(t, func() { tree.Create(KindRectangle, NodeID(99), "") })
}

func TestDeleteRemovesSubtree(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	g := tree.Create(KindTransform, root, "")
	r := tree.Create(KindRectangle, g, "")
	e := tree.Create(KindEllipse, root, "")

	tree.Delete(g)

	assert.False(t, tree.Exists(g))
	assert.False(t, tree.Exists(r))
	assert.True(t, tree.Exists(e))
	assert.Equal(t, []NodeID{e}, tree.Children(root))
	assert.Panics(t, func() { tree.Name(r) })

	next := tree.Create(KindRectangle, root, "")
	assert.Greater(t, next, e, "ids are not reused")
}

func TestDeleteSceneKeepsScene(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	tree.Create(KindRectangle, root, "")
	tree.Create(KindEllipse, root, "")

	tree.Delete(root)

	assert.True(t, tree.Exists(root))
	assert.Empty(t, tree.Children(root))
	assert.Equal(t, 1, tree.Len())
}

func TestReparent(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	a := tree.Create(KindTransform, root, "A")
	b := tree.Create(KindTransform, a, "B")
	c := tree.Create(KindRectangle, root, "C")

	require.NoError(t, tree.Reparent(c, a, 0))
	assert.Equal(t, []NodeID{c, b}, tree.Children(a))
	assert.Equal(t, a, tree.Parent(c))
	assert.Equal(t, 0, tree.IndexOf(c))

	assert.ErrorIs(t, tree.Reparent(a, b, -1), ErrCycle)
	assert.ErrorIs(t, tree.Reparent(a, a, -1), ErrCycle)
	assert.ErrorIs(t, tree.Reparent(root, a, -1), ErrRoot)

	require.NoError(t, tree.Reparent(b, root, 99))
	assert.Equal(t, []NodeID{a, b}, tree.Children(root))
}

func TestVisibleFollowsAncestors(t *testing.T) {
	tree := newTree()
	a := tree.Create(KindTransform, tree.Root(), "")
	b := tree.Create(KindRectangle, a, "")

	tree.SetVisible(a, false)

	assert.False(t, tree.Visible(b))
	assert.True(t, tree.VisibleFlag(b))

	tree.SetVisible(a, true)
	assert.True(t, tree.Visible(b))
}

func TestTraverseOrder(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	a := tree.Create(KindTransform, root, "")
	a1 := tree.Create(KindRectangle, a, "")
	b := tree.Create(KindRectangle, root, "")

	var forward, reverse []NodeID
	tree.Traverse(root, false, func(id NodeID) { forward = append(forward, id) })
	tree.Traverse(root, true, func(id NodeID) { reverse = append(reverse, id) })

	assert.Equal(t, []NodeID{root, a, a1, b}, forward)
	assert.Equal(t, []NodeID{b, a1, a, root}, reverse)
}

func TestFindByName(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "Box")

	id, ok := tree.FindByName("Box")
	assert.True(t, ok)
	assert.Equal(t, r, id)

	_, ok = tree.FindByName("Missing")
	assert.False(t, ok)
}

func TestKindParse(t *testing.T) {
	k, ok := ParseKind("ellipse")
	assert.True(t, ok)
	assert.Equal(t, KindEllipse, k)

	_, ok = ParseKind("circle")
	assert.False(t, ok)

	assert.True(t, KindText.IsShape())
	assert.False(t, KindTransform.IsShape())
	assert.Equal(t, "Transform", KindTransform.Title())
}

func TestSetStyleNormalizes(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "")

	tree.SetStyle(r, Style{Fill: "#FF0000", LineWidth: -3, LineJoin: "sharp", LineDash: []float64{4, -1, 2}})

	s := tree.Style(r)
	assert.Equal(t, "#FF0000", s.Fill)
	assert.Zero(t, s.LineWidth)
	assert.Equal(t, "miter", s.LineJoin)
	assert.Equal(t, "butt", s.LineCap)
	assert.Equal(t, float64(DefaultMiterLimit), s.MiterLimit)
	assert.Equal(t, []float64{4, 2}, s.LineDash)
	assert.False(t, s.ShouldStroke())

	assert.Panics(t, func() { tree.SetStyle(tree.Root(), Style{}) })
}
