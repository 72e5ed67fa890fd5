package handle

import (
	"fmt"

	"github.com/canvasdraw/editor/backend-go/internal/render"
)

const (
	squareSize   = 8
	diamondSize  = 6
	circleRadius = 5
)

// Color returns the outline color of h in its current state.
func (s *System) Color(h *Handle) string {
	switch {
	case h.Dragged:
		return "#FFFFFF"
	case h.Hovered:
		return "#FF0000"
	case h.inSelectionBox && s.selectingWithControl:
		return "#FF4444"
	case h.inSelectionBox:
		return "#AAAAFF"
	case h.Selected:
		return "#6666FF"
	default:
		return "#FFA200"
	}
}

// Draw paints the visible handles and the marquee in canvas pixels.
// Curve handles are only shown while hovered or dragged.
func (s *System) Draw(c render.Canvas) {
	c.SetTransform(render.ScreenSpace)

	for _, h := range s.handles {
		if !h.Enabled || !h.Hovered && !h.Dragged && h.CurveOrder != CurvePoint {
			continue
		}

		p := h.WorldPosition()

		c.SetPaint(render.Paint{
			Fill:      "#000000",
			Stroke:    s.Color(h),
			LineWidth: 2,
			LineJoin:  "bevel",
		})
		c.BeginPath()

		switch h.shape {
		case ShapeSquare:
			c.Rect(p.X-squareSize/2, p.Y-squareSize/2, squareSize, squareSize)
		case ShapeDiamond:
			c.MoveTo(p.X, p.Y+diamondSize)
			c.LineTo(p.X+diamondSize, p.Y)
			c.LineTo(p.X, p.Y-diamondSize)
			c.LineTo(p.X-diamondSize, p.Y)
			c.ClosePath()
		case ShapeCircle:
			c.Ellipse(p.X, p.Y, circleRadius, circleRadius)
		default:
			panic(fmt.Sprintf("handle: invalid shape %d", int(h.shape)))
		}

		c.Fill()
		c.Stroke()
	}

	if !s.selecting {
		return
	}

	fill, stroke := "#FFFFFF20", "#FFFFFF60"
	if s.selectingWithControl {
		fill, stroke = "#FF888830", "#FF888870"
	}

	c.SetPaint(render.Paint{Fill: fill, Stroke: stroke, LineWidth: 1, LineDash: []float64{5, 5}})
	c.BeginPath()
	c.Rect(s.dragStart.X, s.dragStart.Y, s.dragEnd.X-s.dragStart.X, s.dragEnd.Y-s.dragStart.Y)
	c.Fill()
	c.Stroke()
}
