package scene

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

func TestDeserializeSampleRoundTrip(t *testing.T) {
	doc := document.NewSampleDocument("Sample")

	tree := newTree()
	root, err := tree.Deserialize(doc, NoNode)
	require.NoError(t, err)
	assert.Equal(t, root, tree.Root())
	assert.Equal(t, doc.Count(), tree.Len())
	assert.Equal(t, "Sample", tree.Name(root))

	exported := tree.Export(root)
	assert.Equal(t, document.Version, exported.Version)

	again := newTree()
	_, err = again.Deserialize(exported, NoNode)
	require.NoError(t, err)
	assert.Equal(t, exported, again.Export(again.Root()))
}

func TestDeserializeSceneResetsTree(t *testing.T) {
	tree := newTree()
	tree.Create(KindRectangle, tree.Root(), "Old")

	_, err := tree.Deserialize(document.NewEmptyDocument("Fresh"), NoNode)
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, "Fresh", tree.Name(tree.Root()))
	_, ok := tree.FindByName("Old")
	assert.False(t, ok)
}

func TestDeserializeDefaults(t *testing.T) {
	tree := newTree()

	id, err := tree.Deserialize(document.Record{Type: document.TypeRectangle, Name: "R"}, tree.Root())
	require.NoError(t, err)

	assert.True(t, tree.VisibleFlag(id))
	assert.Equal(t, geom.V2(1, 1), tree.Scale(id))
	assert.Equal(t, geom.V2(64, 64), tree.Rectangle(id).Size)
	assert.Equal(t, "", tree.Style(id).Fill, "missing fill means no fill")
	assert.Equal(t, 1.0, tree.Style(id).LineWidth)

	id, err = tree.Deserialize(document.Record{Type: document.TypePath, Name: "P"}, tree.Root())
	require.NoError(t, err)
	p := tree.Path(id)
	assert.Equal(t, []geom.PathPoint{geom.Pt(0, 0)}, p.Points)
	assert.False(t, p.Closed)
	assert.False(t, p.Drawing)
}

func TestDeserializeZeroScaleFallsBackToOne(t *testing.T) {
	tree := newTree()
	rec := document.Record{Type: document.TypeRectangle, Name: "Flat", Scale: &[2]float64{0, 2}}

	id, err := tree.Deserialize(rec, tree.Root())
	require.NoError(t, err)

	assert.Equal(t, geom.V2(1, 2), tree.Scale(id))
	assert.True(t, tree.InverseWorldMatrix(id).IsFinite())
	local := tree.WorldToLocal(id, geom.V2(10, 10))
	assert.True(t, local.IsFinite())
}

func TestDeserializeMalformedFields(t *testing.T) {
	tree := newTree()
	rec := document.Record{
		Type:         document.TypeText,
		Name:         "Téxt",
		FillStyle:    "red",
		StrokeStyle:  "#00ff00",
		LineJoin:     "pointy",
		LineDash:     "4,x",
		Text:         "café\n",
		TextAlign:    "justify",
		TextBaseline: "middle",
	}

	id, err := tree.Deserialize(rec, tree.Root())
	require.NoError(t, err)

	assert.Equal(t, "Txt", tree.Name(id))
	s := tree.Style(id)
	assert.Equal(t, "", s.Fill)
	assert.Equal(t, "#00FF00", s.Stroke)
	assert.Equal(t, "miter", s.LineJoin)
	assert.Empty(t, s.LineDash)

	txt := tree.Text(id)
	assert.Equal(t, "caf", txt.Text)
	assert.Equal(t, DefaultFont, txt.Font)
	assert.Equal(t, "start", txt.TextAlign)
	assert.Equal(t, "middle", txt.TextBaseline)
}

func TestDeserializeRejectsUnknownTypes(t *testing.T) {
	tree := newTree()
	rec := document.Record{
		Type:     document.TypeTransform,
		Name:     "Group",
		Children: []document.Record{{Type: "star", Name: "S"}},
	}

	_, err := tree.Deserialize(rec, tree.Root())
	assert.ErrorIs(t, err, ErrUnknownType)
	assert.Equal(t, 1, tree.Len())

	_, err = tree.Deserialize(document.Record{Type: document.TypeEllipse, Name: "E"}, NoNode)
	assert.ErrorIs(t, err, ErrNoParent)
}

func TestDeserializeWarnsOnVersionMismatch(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	rec := document.NewEmptyDocument("Old")
	rec.Version = "0.9.0"

	tree := newTree()
	_, err := tree.Deserialize(rec, NoNode)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "another version")
	assert.Contains(t, buf.String(), "0.9.0")
}

func TestSerializeMeta(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	p := tree.Create(KindPath, root, "")
	tree.SetStyle(p, Style{Stroke: "#000000", LineWidth: 2, LineJoin: "round", MiterLimit: 4, LineDash: []float64{1, 2}})

	plain := tree.Serialize(root, false)
	meta := tree.Serialize(root, true)

	require.NotNil(t, plain.Visible)
	assert.Nil(t, meta.Visible, "scene visibility is not editor state")

	child := plain.Children[0]
	assert.Nil(t, child.Drawing)
	require.NotNil(t, meta.Children[0].Drawing)
	assert.True(t, *meta.Children[0].Drawing)

	assert.Equal(t, 10.0, *child.MiterLimit, "miter limit only kept for miter joins")
	assert.Equal(t, "1,2", child.LineDash)
}

func TestSerializeDoesNotAlias(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "")
	rec := tree.Serialize(r, false)

	tree.SetRotate(r, 45)
	tree.SetVisible(r, false)

	assert.Equal(t, 0.0, *rec.Rotate)
	assert.True(t, *rec.Visible)
}

func TestDuplicate(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	g := tree.Create(KindTransform, root, "Group")
	tree.Create(KindRectangle, g, "Box")
	tree.SetTranslate(g, geom.V2(5, 6))

	dup, err := tree.Duplicate(g)
	require.NoError(t, err)

	assert.Equal(t, "Group 1", tree.Name(dup))
	assert.Equal(t, root, tree.Parent(dup))
	assert.Equal(t, geom.V2(5, 6), tree.Translate(dup))
	require.Len(t, tree.Children(dup), 1)
	assert.Equal(t, "Box 1", tree.Name(tree.Children(dup)[0]))

	_, err = tree.Duplicate(root)
	assert.ErrorIs(t, err, ErrRoot)
}

func TestCopyStyle(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	src := tree.Create(KindPath, root, "")
	dst := tree.Create(KindPath, root, "")
	txt := tree.Create(KindText, root, "")
	tree.SetStyle(src, Style{Fill: "#123456", LineWidth: 3, LineDash: []float64{2}})
	tree.Path(src).Closed = false

	tree.CopyStyle(dst, src)
	tree.CopyStyle(txt, src)

	assert.Equal(t, tree.Style(src), tree.Style(dst))
	assert.False(t, tree.Path(dst).Closed)
	assert.Equal(t, "#123456", tree.Style(txt).Fill)
	assert.Equal(t, DefaultFont, tree.Text(txt).Font)

	tree.Style(src).LineDash[0] = 9
	assert.Equal(t, []float64{2}, tree.Style(dst).LineDash)
}
