package scene

import (
	"fmt"
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/render"
)

// Payload is the kind-specific data of a node. Scene and transform nodes
// have none.
type Payload interface {
	payload()
}

// Rectangle is an axis-aligned box in local coordinates.
type Rectangle struct {
	Position geom.Vector2
	Size     geom.Vector2
}

// Ellipse is centered on Position.
type Ellipse struct {
	Position geom.Vector2
	Radius   geom.Vector2
}

// Path is a polyline or bezier path. While Drawing is set the editor
// appends vertices on click.
type Path struct {
	geom.Path
	Drawing bool
}

// Text is a single line of text anchored at the local origin.
type Text struct {
	Text         string
	Font         string
	TextAlign    string
	TextBaseline string
}

func (*Rectangle) payload() {}
func (*Ellipse) payload()   {}
func (*Path) payload()      {}
func (*Text) payload()      {}

// Normalize replaces an empty font and unknown alignments with the
// defaults.
func (t *Text) Normalize() {
	if t.Font == "" {
		t.Font = DefaultFont
	}
	t.TextAlign = oneOf(t.TextAlign, textAligns, DefaultTextAlign)
	t.TextBaseline = oneOf(t.TextBaseline, textBaselines, DefaultTextBaseline)
}

const (
	DefaultText = "Text"
	DefaultFont = "16px sans-serif"
)

// minRadius keeps ellipses drawable.
const minRadius = 0.1

// capabilities is the per-kind behavior table.
type capabilities struct {
	shape         bool
	newPayload    func() Payload
	draw          func(n *node, c render.Canvas)
	containsPoint func(n *node, local geom.Vector2) bool
	serialize     func(n *node, rec *document.Record, meta bool)
	deserialize   func(n *node, rec *document.Record)
	drawCode      func(n *node, st *codeState) (string, bool)
}

var kinds [kindCount]capabilities

func init() {
	none := func() Payload { return nil }

	kinds[KindScene] = capabilities{newPayload: none}
	kinds[KindTransform] = capabilities{newPayload: none}

	kinds[KindRectangle] = capabilities{
		shape: true,
		newPayload: func() Payload {
			return &Rectangle{Size: geom.V2(64, 64)}
		},
		draw: func(n *node, c render.Canvas) {
			r := n.payload.(*Rectangle)
			c.Rect(r.Position.X, r.Position.Y, r.Size.X, r.Size.Y)
		},
		containsPoint: func(n *node, p geom.Vector2) bool {
			r := n.payload.(*Rectangle)
			return geom.RectFromPoints(r.Position, r.Position.Add(r.Size)).Contains(p)
		},
		serialize: func(n *node, rec *document.Record, _ bool) {
			r := n.payload.(*Rectangle)
			rec.Position = pair(r.Position)
			rec.Size = pair(r.Size)
		},
		deserialize: func(n *node, rec *document.Record) {
			r := n.payload.(*Rectangle)
			r.Position = vectorOr(rec.Position, geom.Vector2{})
			r.Size = vectorOr(rec.Size, geom.V2(64, 64))
		},
		drawCode: rectangleCode,
	}

	kinds[KindEllipse] = capabilities{
		shape: true,
		newPayload: func() Payload {
			return &Ellipse{Radius: geom.V2(64, 64)}
		},
		draw: func(n *node, c render.Canvas) {
			e := n.payload.(*Ellipse)
			c.Ellipse(e.Position.X, e.Position.Y, e.Radius.X, e.Radius.Y)
		},
		containsPoint: func(n *node, p geom.Vector2) bool {
			e := n.payload.(*Ellipse)
			if e.Radius.X <= 0 || e.Radius.Y <= 0 {
				return false
			}
			dx := (p.X - e.Position.X) / e.Radius.X
			dy := (p.Y - e.Position.Y) / e.Radius.Y
			return dx*dx+dy*dy < 1
		},
		serialize: func(n *node, rec *document.Record, _ bool) {
			e := n.payload.(*Ellipse)
			rec.Position = pair(e.Position)
			rec.Radius = pair(e.Radius)
		},
		deserialize: func(n *node, rec *document.Record) {
			e := n.payload.(*Ellipse)
			e.Position = vectorOr(rec.Position, geom.Vector2{})
			e.Radius = vectorOr(rec.Radius, geom.V2(64, 64))
			e.Radius.X = math.Max(e.Radius.X, minRadius)
			e.Radius.Y = math.Max(e.Radius.Y, minRadius)
		},
		drawCode: ellipseCode,
	}

	kinds[KindPath] = capabilities{
		shape: true,
		newPayload: func() Payload {
			return &Path{
				Path:    geom.Path{Points: []geom.PathPoint{geom.Pt(0, 0)}, Closed: true},
				Drawing: true,
			}
		},
		draw: func(n *node, c render.Canvas) {
			n.payload.(*Path).Outline(c)
		},
		containsPoint: func(n *node, p geom.Vector2) bool {
			return n.payload.(*Path).ContainsPoint(p)
		},
		serialize: func(n *node, rec *document.Record, meta bool) {
			p := n.payload.(*Path)
			rec.Points = append([]geom.PathPoint(nil), p.Points...)
			rec.Closed = ptrTo(p.Closed)
			if meta {
				rec.Drawing = ptrTo(p.Drawing)
			}
		},
		deserialize: func(n *node, rec *document.Record) {
			p := n.payload.(*Path)
			p.Points = nil
			for _, pt := range rec.Points {
				if isFinite(pt.X) && isFinite(pt.Y) {
					p.Points = append(p.Points, pt)
				}
			}
			if len(p.Points) == 0 {
				p.Points = []geom.PathPoint{geom.Pt(0, 0)}
			}
			p.Closed = rec.Closed != nil && *rec.Closed
			p.Drawing = rec.Drawing != nil && *rec.Drawing
		},
		drawCode: pathCode,
	}

	kinds[KindText] = capabilities{
		shape: true,
		newPayload: func() Payload {
			return &Text{
				Text:         DefaultText,
				Font:         DefaultFont,
				TextAlign:    DefaultTextAlign,
				TextBaseline: DefaultTextBaseline,
			}
		},
		draw: func(n *node, c render.Canvas) {
			t := n.payload.(*Text)
			if n.style.ShouldFill() {
				c.FillText(t.Text, 0, 0)
			}
			if n.style.ShouldStroke() {
				c.StrokeText(t.Text, 0, 0)
			}
		},
		serialize: func(n *node, rec *document.Record, _ bool) {
			t := n.payload.(*Text)
			rec.Text = t.Text
			rec.Font = t.Font
			rec.TextAlign = t.TextAlign
			rec.TextBaseline = t.TextBaseline
		},
		deserialize: func(n *node, rec *document.Record) {
			t := n.payload.(*Text)
			t.Text = document.PrintableASCII(rec.Text)
			t.Font = document.PrintableASCII(rec.Font)
			t.TextAlign = rec.TextAlign
			t.TextBaseline = rec.TextBaseline
			t.Normalize()
		},
		drawCode: textCode,
	}
}

func pair(v geom.Vector2) *[2]float64 {
	return &[2]float64{v.X, v.Y}
}

func vectorOr(p *[2]float64, fallback geom.Vector2) geom.Vector2 {
	if p == nil || !isFinite(p[0]) || !isFinite(p[1]) {
		return fallback
	}
	return geom.V2(p[0], p[1])
}

// Payload returns the kind-specific data of id. The returned pointer is
// owned by the tree; mutations are visible immediately.
func (t *Tree) Payload(id NodeID) Payload {
	return t.get(id).payload
}

// Rectangle returns the payload of a rectangle node.
func (t *Tree) Rectangle(id NodeID) *Rectangle {
	return payloadAs[*Rectangle](t, id)
}

// Ellipse returns the payload of an ellipse node.
func (t *Tree) Ellipse(id NodeID) *Ellipse {
	return payloadAs[*Ellipse](t, id)
}

// Path returns the payload of a path node.
func (t *Tree) Path(id NodeID) *Path {
	return payloadAs[*Path](t, id)
}

// Text returns the payload of a text node.
func (t *Tree) Text(id NodeID) *Text {
	return payloadAs[*Text](t, id)
}

func payloadAs[P Payload](t *Tree, id NodeID) P {
	n := t.get(id)
	p, ok := n.payload.(P)
	if !ok {
		panic(fmt.Sprintf("scene: node %d is a %s", id, n.kind))
	}
	return p
}
