// Package handle implements on-canvas control points. Shape editors create
// handles for the geometry they expose, the System resolves hover, press,
// drag and marquee selection against the cursor once per frame, and the
// editors read the results back to update their geometry.
package handle

import (
	"fmt"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Shape is how a handle is drawn.
type Shape int

const (
	ShapeSquare Shape = iota
	ShapeDiamond
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "square"
	case ShapeDiamond:
		return "diamond"
	case ShapeCircle:
		return "circle"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

// Curve orders.
const (
	CurvePoint   = 0 // free point at P0
	CurveSegment = 1 // constrained to the segment P0-P1
	CurveCubic   = 3 // constrained to the cubic P0, P1, P2, P3
)

// Space maps between a handle's local coordinates and canvas pixels.
type Space interface {
	LocalToWorld(p geom.Vector2) geom.Vector2
	WorldToLocal(p geom.Vector2) geom.Vector2
}

// Handle is a control point. Anchors and HoveredPosition are in the local
// space of the owning object. The interaction flags are rewritten by every
// System.Update.
type Handle struct {
	CurveOrder int
	Enabled    bool

	Hovered             bool
	Pressed             bool
	Released            bool
	Held                bool
	Dragged             bool
	Selected            bool
	SelectedWithControl bool

	P0, P1, P2, P3 geom.Vector2

	// HoveredPosition is the point on the constraint closest to the
	// cursor. For free points it is the snapped cursor position.
	HoveredPosition geom.Vector2

	space          Space
	shape          Shape
	selectable     bool
	inSelectionBox bool
}

func (h *Handle) Shape() Shape {
	return h.shape
}

func (h *Handle) Selectable() bool {
	return h.selectable
}

// InSelectionBox reports whether the handle lies inside the marquee being
// dragged.
func (h *Handle) InSelectionBox() bool {
	return h.inSelectionBox
}

// WorldPosition returns the position the handle is drawn at.
func (h *Handle) WorldPosition() geom.Vector2 {
	if h.CurveOrder != CurvePoint {
		return h.space.LocalToWorld(h.HoveredPosition)
	}
	return h.space.LocalToWorld(h.P0)
}
