package editor

import (
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/handle"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// Every path vertex owns four handles, in this order.
const (
	handleCorner = iota
	handleSide
	handleIn
	handleOut

	handlesPerPoint
)

// pathEditor edits the vertices of a path. Corners move vertices, sides
// insert vertices or pull out new control handles, the control handles
// shape curves. While the path is being drawn only the last corner is
// live and follows the cursor.
type pathEditor struct {
	id      scene.NodeID
	handles []*handle.Handle

	dragging bool

	indicator      bool
	indicatorStart geom.Vector2
	indicatorEnd   geom.Vector2
}

func newPathEditor(s *Session, id scene.NodeID) *pathEditor {
	e := &pathEditor{id: id}
	e.sync(s)
	return e
}

func (e *pathEditor) path(s *Session) *scene.Path {
	return s.tree.Path(e.id)
}

// sync recreates the handles when the vertex count changed.
func (e *pathEditor) sync(s *Session) {
	n := e.path(s).Len() * handlesPerPoint
	if len(e.handles) == n {
		return
	}

	s.handles.Clear()
	e.handles = e.handles[:0]

	space := s.tree.Space(e.id)
	for range e.path(s).Len() {
		e.handles = append(e.handles,
			s.handles.Create(space, handle.ShapeSquare, true),
			s.handles.Create(space, handle.ShapeDiamond, false),
			s.handles.Create(space, handle.ShapeCircle, false),
			s.handles.Create(space, handle.ShapeCircle, false),
		)
	}
}

func (e *pathEditor) handle(i, which int) *handle.Handle {
	return e.handles[i*handlesPerPoint+which]
}

func (e *pathEditor) prepare(s *Session, in *input.Snapshot) {
	e.sync(s)

	p := e.path(s)
	transforming := s.Transforming()
	selected := s.handles.SelectedCount()
	last := p.Len() - 1

	for i, pt := range p.Points {
		corner := e.handle(i, handleCorner)
		switch {
		case !p.Drawing:
			corner.P0 = pt.Position()
			corner.Enabled = !transforming
		case i == last:
			corner.P0 = s.tree.WorldToLocal(e.id, in.Cursor)
			corner.Enabled = !transforming
		default:
			corner.Enabled = false
		}

		seg, curved := p.Segment(i)
		side := e.handle(i, handleSide)
		side.Held = false
		side.Enabled = !transforming && selected < 2 && !p.Drawing
		side.P0, side.P1, side.P2, side.P3 = seg.P0, seg.P1, seg.P2, seg.P3
		side.CurveOrder = handle.CurveSegment
		if curved {
			side.CurveOrder = handle.CurveCubic
		}

		in0 := e.handle(i, handleIn)
		in0.Enabled = !transforming && pt.InX.Valid && !p.Drawing
		in0.P0 = geom.V2(pt.InX.Value, pt.InY.Value)

		out := e.handle(i, handleOut)
		out.Enabled = !transforming && pt.OutX.Valid && !p.Drawing
		out.P0 = geom.V2(pt.OutX.Value, pt.OutY.Value)
	}
}

func (e *pathEditor) apply(s *Session, in *input.Snapshot) {
	p := e.path(s)
	if p.Len() == 0 {
		return
	}
	control := in.Key(input.KeyControl)
	shift := in.Key(input.KeyShift)

	if !s.Transforming() {
		switch {
		case p.Drawing:
			s.message = "Right mouse to finish"
		case shift:
			s.message = "Create handles"
		case control:
			s.message = "Delete node/handle"
		}
	}

	e.indicator = false
	wasDragging := e.dragging
	e.dragging = false
	var changed bool
	if p.Drawing {
		changed = e.applyDrawing(s, p)
	} else {
		changed = e.applyEditing(s, p, control, shift)
	}

	if changed || wasDragging && !e.dragging {
		s.Commit()
	}
}

// applyDrawing moves the last vertex to the cursor and appends a new one
// on click.
func (e *pathEditor) applyDrawing(s *Session, p *scene.Path) bool {
	last := p.Len() - 1
	corner := e.handle(last, handleCorner)
	if !corner.Enabled {
		return false
	}

	at := corner.HoveredPosition
	corner.P0 = at
	p.Points[last].X, p.Points[last].Y = at.X, at.Y

	if !corner.Pressed {
		return false
	}
	p.Points = append(p.Points, geom.Pt(at.X, at.Y))
	e.sync(s)
	return true
}

func (e *pathEditor) applyEditing(s *Session, p *scene.Path, control, shift bool) bool {
	changed := false
	var remove []int

	for i := range p.Points {
		corner := e.handle(i, handleCorner)
		side := e.handle(i, handleSide)

		if !control && !shift && side.Pressed {
			p.InsertPoint(i, side.HoveredPosition)
			e.sync(s)
			e.handle(i, handleCorner).Held = true
			changed = true
			// Vertices after i moved; the remaining handles are stale.
			break
		}

		if control && corner.Pressed || corner.SelectedWithControl {
			if p.Len()-len(remove) > 2 {
				remove = append(remove, i)
			}
		}

		if corner.Dragged {
			corner.P0 = corner.HoveredPosition
			p.MovePoint(i, corner.HoveredPosition)
			e.dragging = true
			s.message = "Node X:" + num3(p.Points[i].X) + " Y:" + num3(p.Points[i].Y)
		}

		if shift && (side.Hovered || side.Pressed) {
			e.pullHandle(s, p, i, side)
		}

		for which := handleIn; which <= handleOut; which++ {
			if e.applyControl(s, p, i, which, control) {
				changed = true
			}
		}
	}

	if len(remove) > 0 {
		p.RemovePoints(remove)
		changed = true
		e.sync(s)
	}
	return changed
}

// pullHandle shows where a new control handle would start and creates it
// on press. The half of the segment nearest the cursor decides between
// the incoming and outgoing handle.
func (e *pathEditor) pullHandle(s *Session, p *scene.Path, i int, side *handle.Handle) {
	seg, _ := p.Segment(i)
	lower := seg.NearestParameter(side.HoveredPosition) < 0.5

	pt := &p.Points[i]
	if side.Pressed {
		which := handleOut
		if lower {
			pt.SetIn(side.HoveredPosition)
			which = handleIn
		} else {
			pt.SetOut(side.HoveredPosition)
		}
		e.handle(i, which).Held = true
		e.dragging = true
	}

	e.indicator = true
	e.indicatorStart = seg.P3
	if lower {
		e.indicatorStart = seg.P0
	}
	e.indicatorEnd = side.HoveredPosition
}

// applyControl moves or deletes one control handle of vertex i and
// reports whether it was deleted.
func (e *pathEditor) applyControl(s *Session, p *scene.Path, i, which int, control bool) bool {
	pt := &p.Points[i]
	present := pt.InX.Valid
	if which == handleOut {
		present = pt.OutX.Valid
	}
	if !present {
		return false
	}

	h := e.handle(i, which)
	if h.Dragged {
		h.P0 = h.HoveredPosition
		if which == handleIn {
			pt.SetIn(h.HoveredPosition)
		} else {
			pt.SetOut(h.HoveredPosition)
		}
		e.dragging = true
		s.message = "Handle X:" + num3(h.HoveredPosition.X) + " Y:" + num3(h.HoveredPosition.Y)
	}

	if !(control && h.Pressed || h.SelectedWithControl) {
		return false
	}
	if which == handleIn {
		pt.ClearIn()
	} else {
		pt.ClearOut()
	}
	return true
}

// finish ends drawing on right click. It reports whether the click was
// consumed.
func (e *pathEditor) finish(s *Session) bool {
	p := e.path(s)
	if !p.Drawing {
		return false
	}
	if p.Len() > 2 {
		p.Drawing = false
		p.Points = p.Points[:p.Len()-1]
		e.sync(s)
		s.Commit()
	}
	return true
}

func (e *pathEditor) release(s *Session) {
	if p := e.path(s); p.Len() > 1 {
		p.Drawing = false
	}
	e.handles = nil
}

var (
	segmentPaint = render.Paint{Stroke: "#f99300", LineWidth: 2}
	controlPaint = render.Paint{
		Stroke:    "#ffff00",
		LineWidth: 2,
		LineJoin:  "bevel",
		LineDash:  []float64{3, 3},
	}
	indicatorPaint = render.Paint{Fill: "#ffff00", Stroke: "#ffff00", LineWidth: 4}
)

const indicatorSize = 14

func (e *pathEditor) draw(s *Session, c render.Canvas) {
	p := e.path(s)
	world := func(v geom.Vector2) geom.Vector2 {
		return s.tree.LocalToWorld(e.id, v)
	}

	c.SetTransform(render.ScreenSpace)

	for i := range p.Points {
		seg, curved := p.Segment(i)
		w0, w3 := world(seg.P0), world(seg.P3)

		paint := segmentPaint
		paint.LineDash = []float64{6, 3}
		if curved {
			paint.LineDash = []float64{3, 3}
		}
		c.SetPaint(paint)
		c.BeginPath()
		c.MoveTo(w0.X, w0.Y)
		if curved {
			w1, w2 := world(seg.P1), world(seg.P2)
			c.BezierCurveTo(w1.X, w1.Y, w2.X, w2.Y, w3.X, w3.Y)
		} else {
			c.LineTo(w3.X, w3.Y)
		}
		c.Stroke()
	}

	c.SetPaint(controlPaint)
	c.BeginPath()
	for i, pt := range p.Points {
		if pt.InX.Valid {
			line(c, world(p.Points[p.Prev(i)].Position()), world(geom.V2(pt.InX.Value, pt.InY.Value)))
		}
		if pt.OutX.Valid {
			line(c, world(pt.Position()), world(geom.V2(pt.OutX.Value, pt.OutY.Value)))
		}
	}
	c.Stroke()

	if !e.indicator {
		return
	}

	w0, w1 := world(e.indicatorStart), world(e.indicatorEnd)
	c.SetPaint(indicatorPaint)
	c.BeginPath()
	c.MoveTo(w0.X, w0.Y)
	c.LineTo(w1.X, w1.Y)
	c.Stroke()

	c.BeginPath()
	c.Rect(w0.X-indicatorSize/2, w0.Y-indicatorSize/2, indicatorSize, indicatorSize)
	c.Fill()
}
