package scene

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/render"
)

func ops(commands []render.DrawCommand) []string {
	out := make([]string, len(commands))
	for i, c := range commands {
		out[i] = c.Op
	}
	return out
}

func TestDrawSkipsHiddenSubtrees(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	r := tree.Create(KindRectangle, root, "")
	g := tree.Create(KindTransform, root, "")
	tree.Create(KindEllipse, g, "")
	tree.SetVisible(g, false)
	tree.SetTranslate(r, geom.V2(10, 0))

	rec := render.NewRecorder()
	tree.Draw(rec)

	assert.Equal(t, []string{
		render.OpSetTransform, render.OpSetPaint, render.OpBeginPath,
		render.OpRect, render.OpFill, render.OpStroke,
	}, ops(rec.Commands()))

	cmds := rec.Commands()
	assert.Equal(t, []float64{1, 0, 0, 1, 410, 300}, cmds[0].Transform)
	assert.Equal(t, []float64{0, 0, 64, 64}, cmds[3].Args)
	require.NotNil(t, cmds[1].Paint)
	assert.Equal(t, "#FFFFFF", cmds[1].Paint.Fill)
}

func TestDrawText(t *testing.T) {
	tree := newTree()
	txt := tree.Create(KindText, tree.Root(), "")
	tree.SetStyle(txt, Style{Fill: "#FF0000"})
	tree.Text(txt).Text = "hello"

	rec := render.NewRecorder()
	tree.Draw(rec)

	cmds := rec.Commands()
	assert.Equal(t, []string{render.OpSetTransform, render.OpSetPaint, render.OpBeginPath, render.OpFillText}, ops(cmds))
	assert.Equal(t, DefaultFont, cmds[1].Paint.Font)
	assert.Equal(t, "hello", cmds[3].Text)
}

func TestDrawPath(t *testing.T) {
	tree := newTree()
	p := tree.Create(KindPath, tree.Root(), "")
	path := tree.Path(p)
	path.Points = []geom.PathPoint{geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(10, 10)}

	rec := render.NewRecorder()
	tree.Draw(rec)

	assert.Equal(t, []string{
		render.OpSetTransform, render.OpSetPaint, render.OpBeginPath,
		render.OpMoveTo, render.OpLineTo, render.OpLineTo, render.OpClosePath,
		render.OpFill, render.OpStroke,
	}, ops(rec.Commands()))
}

func TestDrawCode(t *testing.T) {
	tree := newTree()
	root := tree.Root()
	g := tree.Create(KindTransform, root, "Group")
	r1 := tree.Create(KindRectangle, g, "Box")
	inner := tree.Create(KindEllipse, r1, "Dot")
	tree.Create(KindRectangle, g, "Box B")
	tree.Create(KindPath, root, "Empty")
	label := tree.Create(KindText, root, "Label")

	tree.SetTranslate(root, geom.V2(99, 99))
	tree.SetTranslate(g, geom.V2(10, 20))
	tree.SetRotate(g, 45)
	tree.SetScale(inner, geom.V2(0.5, 0.5))
	tree.Text(label).TextAlign = "center"

	code := tree.DrawCode(root)

	assert.True(t, strings.HasPrefix(code, "// Canvas 2D renderer for object \"Scene\"\n"))
	assert.Contains(t, code, "export default function draw(ctx, setRootTransform = resetTransform) {\n")
	assert.NotContains(t, code, "ctx.translate(99, 99)", "root transform is left to the caller")
	assert.Equal(t, 3, strings.Count(code, "    setRootTransform(ctx);\n"))
	assert.Equal(t, 2, strings.Count(code, "    // Transform \"Group\"\n"))
	assert.Contains(t, code, "    ctx.translate(10, 20);\n    ctx.rotate(45 * d2r);\n")
	assert.Contains(t, code, "    // Transform \"Dot\"\n    ctx.scale(0.5, 0.5);\n    // Draw \"Dot\"\n")
	assert.Contains(t, code, "    ctx.rect(0, 0, 64, 64);\n")
	assert.Contains(t, code, "    ctx.ellipse(0, 0, 64, 64, 0, 0, 360 * d2r);\n")
	assert.NotContains(t, code, "\"Empty\"", "paths need two points")
	assert.Contains(t, code, "    ctx.fillText(\"Text\", 0, 0);\n")
	assert.True(t, strings.HasSuffix(code, "    ctx.textAlign = \"start\";\n}"))
	assert.NotContains(t, code, "ctx.setLineDash(noDash);\n}")
}

func TestDrawCodeOfShape(t *testing.T) {
	tree := newTree()
	r := tree.Create(KindRectangle, tree.Root(), "Solo")
	tree.SetTranslate(r, geom.V2(5, 5))
	tree.SetStyle(r, Style{Stroke: "#000000", LineWidth: 1.23456, LineDash: []float64{4, 2}})

	code := tree.DrawCode(r)

	assert.Contains(t, code, "    // Transform root\n    setRootTransform(ctx);\n    // Draw \"Solo\"\n")
	assert.NotContains(t, code, "ctx.translate(5, 5)")
	assert.NotContains(t, code, "fillStyle")
	assert.Contains(t, code, "    ctx.lineWidth = 1.235;\n")
	assert.Contains(t, code, "    ctx.setLineDash([4, 2]);\n")
	assert.True(t, strings.HasSuffix(code, "    ctx.setLineDash(noDash);\n}"))
}
