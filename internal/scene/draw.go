package scene

import "github.com/canvasdraw/editor/backend-go/internal/render"

// Draw paints the subtree of the scene onto c. Nodes whose own visible
// flag is clear are skipped together with their children.
func (t *Tree) Draw(c render.Canvas) {
	t.drawNode(t.root, c)
}

// DrawNode paints the subtree of id.
func (t *Tree) DrawNode(id NodeID, c render.Canvas) {
	t.drawNode(id, c)
}

func (t *Tree) drawNode(id NodeID, c render.Canvas) {
	n := t.validate(id)
	if !n.visible {
		return
	}

	if draw := kinds[n.kind].draw; draw != nil {
		c.SetTransform(n.world)
		c.SetPaint(nodePaint(n))
		c.BeginPath()
		draw(n, c)

		if n.kind != KindText {
			if n.style.ShouldFill() {
				c.Fill()
			}
			if n.style.ShouldStroke() {
				c.Stroke()
			}
		}
	}

	for _, child := range t.get(id).children {
		t.drawNode(child, c)
	}
}

func nodePaint(n *node) render.Paint {
	p := n.style.Paint()
	if txt, ok := n.payload.(*Text); ok {
		p.Font = txt.Font
		p.TextAlign = txt.TextAlign
		p.TextBaseline = txt.TextBaseline
	}
	return p
}
