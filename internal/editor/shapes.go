package editor

import (
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/handle"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// shapeEditor exposes the geometry of the selected shape as handles.
// prepare positions the handles before the handle system update, apply
// reads the results back into the shape.
type shapeEditor interface {
	prepare(s *Session, in *input.Snapshot)
	apply(s *Session, in *input.Snapshot)
	draw(s *Session, c render.Canvas)
	release(s *Session)
}

func newShapeEditor(s *Session, id scene.NodeID) shapeEditor {
	switch s.tree.Kind(id) {
	case scene.KindRectangle:
		return newRectangleEditor(s, id)
	case scene.KindEllipse:
		return newEllipseEditor(s, id)
	case scene.KindPath:
		return newPathEditor(s, id)
	}
	return nil
}

// outlinePaint is used for the dashed outline of the edited shape.
var outlinePaint = render.Paint{
	Stroke:    "#FFA200",
	LineWidth: 3,
	LineJoin:  "bevel",
	LineDash:  []float64{6, 6},
}

// boxEditor edits shapes defined by a position and an extent: a square
// handle moves the position, a circle handle at position+extent resizes.
type boxEditor struct {
	id     scene.NodeID
	pos    *handle.Handle
	extent *handle.Handle

	// get and set access the edited shape.
	get func() (pos, extent geom.Vector2)
	set func(pos, extent geom.Vector2)

	extentLabel string
	minExtent   float64
	outline     func(s *Session, c render.Canvas)
}

func (e *boxEditor) prepare(s *Session, _ *input.Snapshot) {
	pos, extent := e.get()
	e.pos.P0 = pos
	e.extent.P0 = pos.Add(extent)

	enabled := !s.Transforming()
	e.pos.Enabled = enabled
	e.extent.Enabled = enabled
}

func (e *boxEditor) apply(s *Session, _ *input.Snapshot) {
	pos, extent := e.get()

	if e.pos.Dragged {
		e.pos.P0 = e.pos.HoveredPosition
		pos = e.pos.HoveredPosition
		e.set(pos, extent)
		s.message = "Offset X:" + num3(pos.X) + " Y:" + num3(pos.Y)
	} else if e.pos.Released {
		s.Commit()
	}

	if e.extent.Dragged {
		e.extent.P0 = e.extent.HoveredPosition
		extent = e.extent.HoveredPosition.Sub(pos)
		if !math.IsInf(e.minExtent, -1) {
			extent = geom.V2(max(e.minExtent, extent.X), max(e.minExtent, extent.Y))
		}
		e.set(pos, extent)
		s.message = e.extentLabel + " X:" + num3(extent.X) + " Y:" + num3(extent.Y)
	} else if e.extent.Released {
		s.Commit()
	}
}

func (e *boxEditor) draw(s *Session, c render.Canvas) {
	c.SetTransform(render.ScreenSpace)
	c.SetPaint(outlinePaint)
	c.BeginPath()
	e.outline(s, c)
	c.Stroke()
}

func (e *boxEditor) release(*Session) {}

func newRectangleEditor(s *Session, id scene.NodeID) *boxEditor {
	r := s.tree.Rectangle(id)
	space := s.tree.Space(id)

	return &boxEditor{
		id:          id,
		pos:         s.handles.Create(space, handle.ShapeSquare, false),
		extent:      s.handles.Create(space, handle.ShapeCircle, false),
		get:         func() (geom.Vector2, geom.Vector2) { return r.Position, r.Size },
		set:         func(pos, size geom.Vector2) { r.Position, r.Size = pos, size },
		extentLabel: "Size",
		minExtent:   math.Inf(-1),
		outline: func(s *Session, c render.Canvas) {
			corners := [4]geom.Vector2{
				r.Position,
				r.Position.Add(geom.V2(r.Size.X, 0)),
				r.Position.Add(r.Size),
				r.Position.Add(geom.V2(0, r.Size.Y)),
			}
			for i, p := range corners {
				w := s.tree.LocalToWorld(id, p)
				if i == 0 {
					c.MoveTo(w.X, w.Y)
				} else {
					c.LineTo(w.X, w.Y)
				}
			}
			c.ClosePath()
		},
	}
}

// ellipseOutlineSegments is the number of sides of the polygon drawn
// around an edited ellipse.
const ellipseOutlineSegments = 24

func newEllipseEditor(s *Session, id scene.NodeID) *boxEditor {
	e := s.tree.Ellipse(id)
	space := s.tree.Space(id)

	return &boxEditor{
		id:          id,
		pos:         s.handles.Create(space, handle.ShapeSquare, false),
		extent:      s.handles.Create(space, handle.ShapeCircle, false),
		get:         func() (geom.Vector2, geom.Vector2) { return e.Position, e.Radius },
		set:         func(pos, radius geom.Vector2) { e.Position, e.Radius = pos, radius },
		extentLabel: "Radius",
		minExtent:   0.1,
		outline: func(s *Session, c render.Canvas) {
			for i := 0; i <= ellipseOutlineSegments; i++ {
				a := float64(i) / ellipseOutlineSegments * 2 * math.Pi
				sin, cos := math.Sincos(a)
				w := s.tree.LocalToWorld(id, e.Position.Add(geom.V2(cos*e.Radius.X, sin*e.Radius.Y)))
				if i == 0 {
					c.MoveTo(w.X, w.Y)
				} else {
					c.LineTo(w.X, w.Y)
				}
			}
		},
	}
}
