package handle

import (
	"fmt"
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
)

const (
	// MinDistance is the pick radius in canvas pixels.
	MinDistance = 32

	// FineSnap is the position snap used while fine adjustment is active.
	FineSnap = 0.01
)

// System owns the live handles of one editing session.
type System struct {
	handles []*Handle

	selecting            bool
	selectingWithControl bool
	dragStart            geom.Vector2
	dragEnd              geom.Vector2
}

// NewSystem returns an empty handle system.
func NewSystem() *System {
	return &System{}
}

// Create registers a new enabled free-point handle.
func (s *System) Create(space Space, shape Shape, selectable bool) *Handle {
	switch shape {
	case ShapeSquare, ShapeDiamond, ShapeCircle:
	default:
		panic(fmt.Sprintf("handle: invalid shape %d", int(shape)))
	}
	if space == nil {
		panic("handle: nil space")
	}

	h := &Handle{
		CurveOrder: CurvePoint,
		Enabled:    true,
		space:      space,
		shape:      shape,
		selectable: selectable,
	}
	s.handles = append(s.handles, h)
	return h
}

// Clear drops every handle. A marquee in progress is kept.
func (s *System) Clear() {
	clear(s.handles)
	s.handles = s.handles[:0]
}

// Handles returns the live handles in creation order.
func (s *System) Handles() []*Handle {
	return s.handles
}

func (s *System) Len() int {
	return len(s.handles)
}

// SelectedCount returns the number of selected handles.
func (s *System) SelectedCount() int {
	n := 0
	for _, h := range s.handles {
		if h.Selected {
			n++
		}
	}
	return n
}

// Selecting reports whether a marquee is being dragged.
func (s *System) Selecting() bool {
	return s.selecting
}

// SelectingWithControl reports whether the current marquee was started
// with the control key held.
func (s *System) SelectingWithControl() bool {
	return s.selectingWithControl
}

// SelectionRect returns the marquee rectangle in canvas pixels.
func (s *System) SelectionRect() geom.Rect {
	return geom.RectFromPoints(s.dragStart, s.dragEnd)
}

// Update resolves the handle nearest to the cursor and advances every
// handle's interaction state by one frame.
func (s *System) Update(in *input.Snapshot, gridSpacing float64) {
	snap := gridSpacing
	if in.Fine() {
		snap = FineSnap
	}

	mousePressed := in.ButtonDown(input.ButtonLeft)
	mouseReleased := in.ButtonUp(input.ButtonLeft)
	mouseHeld := in.Button(input.ButtonLeft)
	cursor := in.Cursor

	s.dragEnd = cursor
	if mousePressed {
		s.dragStart = cursor
	}

	closest := s.nearest(cursor, snap)

	if mousePressed {
		if closest == nil {
			s.selecting = true
			s.selectingWithControl = in.Key(input.KeyControl)
		} else if !closest.selectable {
			for _, h := range s.handles {
				h.Selected = false
				h.SelectedWithControl = false
			}
		}
	}

	if s.selecting {
		s.updateMarquee(mouseReleased)
	}

	dragging := false
	for _, h := range s.handles {
		h.Hovered = h == closest
		h.Pressed = h.Hovered && mousePressed
		h.Released = h.Held && mouseReleased
		h.Held = h.Held && mouseHeld || h.Pressed
		h.Dragged = h.Held

		if h.Dragged {
			dragging = true
		}
	}

	for _, h := range s.handles {
		h.Hovered = h.Hovered && !dragging

		// Only handles held by the cursor lead a group drag, so handles
		// moved along do not propagate further.
		if !h.Held || !h.selectable {
			continue
		}

		d := h.HoveredPosition.Sub(h.P0)
		for _, other := range s.handles {
			if other != h && other.Selected {
				other.Dragged = true
				other.HoveredPosition = other.P0.Add(d)
			}
		}
	}
}

// nearest returns the enabled handle closest to cursor within MinDistance.
// Free points take precedence over curve handles and the first handle
// found wins ties.
func (s *System) nearest(cursor geom.Vector2, snap float64) *Handle {
	var closest *Handle
	closestDistance2 := math.Inf(1)
	maxDistance2 := float64(MinDistance * MinDistance)

	for _, h := range s.handles {
		h.inSelectionBox = false
	}

	for _, curves := range [2]bool{false, true} {
		if closest != nil {
			break
		}

		for _, h := range s.handles {
			if !h.Enabled || (h.CurveOrder != CurvePoint) != curves {
				continue
			}

			local := h.space.WorldToLocal(cursor)

			var world geom.Vector2
			switch h.CurveOrder {
			case CurvePoint:
				h.HoveredPosition = local.Round(snap)
				world = h.space.LocalToWorld(h.P0)
			case CurveSegment:
				h.HoveredPosition = geom.ClosestPointOnSegment(local, h.P0, h.P1)
				world = h.space.LocalToWorld(h.HoveredPosition)
			case CurveCubic:
				c := geom.CubicBezier{P0: h.P0, P1: h.P1, P2: h.P2, P3: h.P3}
				h.HoveredPosition = c.Point(c.NearestParameter(local))
				world = h.space.LocalToWorld(h.HoveredPosition)
			default:
				panic(fmt.Sprintf("handle: invalid curve order %d", h.CurveOrder))
			}

			d2 := world.DistanceSquared(cursor)
			if d2 < closestDistance2 && d2 <= maxDistance2 {
				closestDistance2 = d2
				closest = h
			}
		}
	}

	return closest
}

func (s *System) updateMarquee(released bool) {
	box := s.SelectionRect()

	for _, h := range s.handles {
		if !h.Enabled || h.CurveOrder != CurvePoint || !h.selectable {
			continue
		}
		h.inSelectionBox = box.Contains(h.space.LocalToWorld(h.P0))
	}

	if !released {
		return
	}

	s.selecting = false
	for _, h := range s.handles {
		h.Selected = h.inSelectionBox && !s.selectingWithControl
		h.SelectedWithControl = h.inSelectionBox && s.selectingWithControl
	}
}
