package scene

import (
	"fmt"
	"strings"

	"github.com/canvasdraw/editor/backend-go/internal/document"
)

// codeState remembers the last context properties a generated module
// changed so it can restore the defaults at the end.
type codeState struct {
	lineDash     string
	lineJoin     string
	lineCap      string
	textAlign    string
	textBaseline string
}

func num(v float64) string {
	return document.FormatNumber(v, 6)
}

// DrawCode returns a JavaScript module whose default export draws the
// subtree of id onto a CanvasRenderingContext2D. The transform of id
// itself is replaced by the caller's setRootTransform.
func (t *Tree) DrawCode(id NodeID) string {
	var body strings.Builder
	st := &codeState{}
	last := NoNode

	t.Traverse(id, false, func(cur NodeID) {
		n := t.get(cur)
		gen := kinds[n.kind].drawCode
		if gen == nil {
			return
		}
		code, ok := gen(n, st)
		if !ok {
			return
		}

		var chain []NodeID
		c := cur
		for c != last && c != id {
			chain = append(chain, c)
			c = t.get(c).parent
		}
		if c == id {
			body.WriteString("    // Transform root\n")
			body.WriteString("    setRootTransform(ctx);\n")
		}

		for i := len(chain) - 1; i >= 0; i-- {
			if tc := t.transformCode(chain[i]); tc != "" {
				fmt.Fprintf(&body, "    // Transform %s\n", document.QuoteJS(t.get(chain[i]).name))
				body.WriteString(tc)
			}
		}

		fmt.Fprintf(&body, "    // Draw %s\n", document.QuoteJS(n.name))
		body.WriteString(code)
		body.WriteString("\n")
		last = cur
	})

	if st.lineDash != "" {
		body.WriteString("    ctx.setLineDash(noDash);\n")
	}
	if st.lineJoin != "" && st.lineJoin != DefaultLineJoin {
		body.WriteString("    ctx.lineJoin = \"miter\";\n")
	}
	if st.lineCap != "" && st.lineCap != DefaultLineCap {
		body.WriteString("    ctx.lineCap = \"butt\";\n")
	}
	if st.textAlign != "" && st.textAlign != DefaultTextAlign {
		body.WriteString("    ctx.textAlign = \"start\";\n")
	}
	if st.textBaseline != "" && st.textBaseline != DefaultTextBaseline {
		body.WriteString("    ctx.textBaseline = \"alphabetic\";\n")
	}

	return fmt.Sprintf(`// Canvas 2D renderer for object %s

const d2r = Math.PI / 180, noDash = [];

function resetTransform(ctx) {
    ctx.setTransform(1, 0, 0, 1, 0, 0);
}

export default function draw(ctx, setRootTransform = resetTransform) {
%s}`, document.QuoteJS(t.get(id).name), body.String())
}

func (t *Tree) transformCode(id NodeID) string {
	n := t.get(id)
	if n.kind == KindScene {
		return ""
	}

	var b strings.Builder
	if n.translate.X != 0 || n.translate.Y != 0 {
		fmt.Fprintf(&b, "    ctx.translate(%s, %s);\n", num(n.translate.X), num(n.translate.Y))
	}
	if n.rotate != 0 {
		fmt.Fprintf(&b, "    ctx.rotate(%s * d2r);\n", num(n.rotate))
	}
	if n.scale.X != 1 || n.scale.Y != 1 {
		fmt.Fprintf(&b, "    ctx.scale(%s, %s);\n", num(n.scale.X), num(n.scale.Y))
	}
	return b.String()
}

// styleCode sets every paint property the shape uses.
func styleCode(n *node, st *codeState) string {
	var b strings.Builder
	s := n.style

	if s.ShouldFill() {
		fmt.Fprintf(&b, "    ctx.fillStyle = %s;\n", document.QuoteJS(s.Fill))
	}

	if s.ShouldStroke() {
		fmt.Fprintf(&b, "    ctx.strokeStyle = %s;\n", document.QuoteJS(s.Stroke))
		fmt.Fprintf(&b, "    ctx.lineWidth = %s;\n", document.FormatNumber(s.LineWidth, 3))

		dash := document.FormatNumberList(s.LineDash, ", ")
		if dash == "" {
			b.WriteString("    ctx.setLineDash(noDash);\n")
		} else {
			fmt.Fprintf(&b, "    ctx.setLineDash([%s]);\n", dash)
		}
		st.lineDash = dash

		fmt.Fprintf(&b, "    ctx.lineJoin = %s;\n", document.QuoteJS(s.LineJoin))
		if s.LineJoin == "miter" {
			fmt.Fprintf(&b, "    ctx.miterLimit = %s;\n", document.FormatNumber(s.MiterLimit, 3))
		}
		fmt.Fprintf(&b, "    ctx.lineCap = %s;\n", document.QuoteJS(s.LineCap))
		st.lineJoin = s.LineJoin
		st.lineCap = s.LineCap
	}

	return b.String()
}

// paintCode appends the fill and stroke calls for a path built by geometry.
func paintCode(n *node, geometry string, st *codeState) string {
	var b strings.Builder
	b.WriteString(styleCode(n, st))
	b.WriteString("    ctx.beginPath();\n")
	b.WriteString(geometry)
	if n.style.ShouldFill() {
		b.WriteString("    ctx.fill();\n")
	}
	if n.style.ShouldStroke() {
		b.WriteString("    ctx.stroke();\n")
	}
	return b.String()
}

func rectangleCode(n *node, st *codeState) (string, bool) {
	r := n.payload.(*Rectangle)
	geometry := fmt.Sprintf("    ctx.rect(%s, %s, %s, %s);\n",
		num(r.Position.X), num(r.Position.Y), num(r.Size.X), num(r.Size.Y))
	return paintCode(n, geometry, st), true
}

func ellipseCode(n *node, st *codeState) (string, bool) {
	e := n.payload.(*Ellipse)
	geometry := fmt.Sprintf("    ctx.ellipse(%s, %s, %s, %s, 0, 0, 360 * d2r);\n",
		num(e.Position.X), num(e.Position.Y), num(e.Radius.X), num(e.Radius.Y))
	return paintCode(n, geometry, st), true
}

func pathCode(n *node, st *codeState) (string, bool) {
	p := n.payload.(*Path)
	if p.Len() < 2 {
		return "", false
	}

	w := &pathCodeWriter{}
	p.Outline(w)
	return paintCode(n, w.String(), st), true
}

func textCode(n *node, st *codeState) (string, bool) {
	t := n.payload.(*Text)

	var b strings.Builder
	b.WriteString(styleCode(n, st))
	fmt.Fprintf(&b, "    ctx.font = %s;\n", document.QuoteJS(t.Font))
	fmt.Fprintf(&b, "    ctx.textAlign = %s;\n", document.QuoteJS(t.TextAlign))
	fmt.Fprintf(&b, "    ctx.textBaseline = %s;\n", document.QuoteJS(t.TextBaseline))
	st.textAlign = t.TextAlign
	st.textBaseline = t.TextBaseline

	text := document.QuoteJS(t.Text)
	if n.style.ShouldFill() {
		fmt.Fprintf(&b, "    ctx.fillText(%s, 0, 0);\n", text)
	}
	if n.style.ShouldStroke() {
		fmt.Fprintf(&b, "    ctx.strokeText(%s, 0, 0);\n", text)
	}
	return b.String(), true
}

// pathCodeWriter renders a path outline as canvas calls.
type pathCodeWriter struct {
	strings.Builder
}

func (w *pathCodeWriter) MoveTo(x, y float64) {
	fmt.Fprintf(w, "    ctx.moveTo(%s, %s);\n", num(x), num(y))
}

func (w *pathCodeWriter) LineTo(x, y float64) {
	fmt.Fprintf(w, "    ctx.lineTo(%s, %s);\n", num(x), num(y))
}

func (w *pathCodeWriter) BezierCurveTo(c0x, c0y, c1x, c1y, x, y float64) {
	fmt.Fprintf(w, "    ctx.bezierCurveTo(%s, %s, %s, %s, %s, %s);\n",
		num(c0x), num(c0y), num(c1x), num(c1y), num(x), num(y))
}

func (w *pathCodeWriter) ClosePath() {
	w.WriteString("    ctx.closePath();\n")
}
