package editor

import (
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// gridLineLimit is the number of grid cells per axis above which the grid
// is not drawn.
const gridLineLimit = 256

const axisLength = 64

// drawGizmos draws the grid and axis gizmos of id and its visible
// descendants in canvas pixels.
func (s *Session) drawGizmos(c render.Canvas, id scene.NodeID) {
	if !s.tree.VisibleFlag(id) {
		return
	}

	c.SetTransform(render.ScreenSpace)

	isScene := id == s.tree.Root()
	selected := id == s.selected

	if s.gridEnabled && (isScene || selected) {
		s.drawGrid(c, id, selected, isScene)
	}
	if s.gridEnabled && !isScene {
		s.drawAxes(c, id, selected)
	}

	for _, child := range s.tree.Children(id) {
		s.drawGizmos(c, child)
	}
}

// gridStep thins grid labels out as the number of cells grows.
func gridStep(count int) int {
	switch {
	case count < 64:
		return 1
	case count < 128:
		return 2
	case count < 192:
		return 3
	default:
		return 4
	}
}

func (s *Session) drawGrid(c render.Canvas, id scene.NodeID, selected, isScene bool) {
	bounds := s.tree.CanvasBounds(id)
	if !geom.V2(bounds.X, bounds.Y).IsFinite() || !geom.V2(bounds.Width, bounds.Height).IsFinite() {
		return
	}
	spacing := s.gridSpacing
	world := func(x, y float64) geom.Vector2 {
		return s.tree.LocalToWorld(id, geom.V2(x, y))
	}

	minX, maxX := bounds.X, bounds.X+bounds.Width
	minY, maxY := bounds.Y, bounds.Y+bounds.Height

	xMin, xMax := int(math.Floor(minX/spacing)), int(math.Floor(maxX/spacing))
	yMin, yMax := int(math.Floor(minY/spacing)), int(math.Floor(maxY/spacing))
	countX, countY := xMax-xMin, yMax-yMin

	paint := render.Paint{
		Fill:         "#FFFFFF50",
		Stroke:       "#FFFFFF15",
		LineWidth:    1,
		LineJoin:     "bevel",
		LineCap:      "round",
		Font:         messageFont,
		TextAlign:    "center",
		TextBaseline: "middle",
	}
	c.SetPaint(paint)
	c.BeginPath()

	if countX < gridLineLimit {
		for x := xMin; x <= xMax; x += gridStep(countX) {
			p := world(float64(x)*spacing, 0)
			c.FillText(document.FormatNumber(float64(x)*spacing, 6), p.X, p.Y)
		}
		if selected {
			for x := xMin; x <= xMax; x++ {
				from, to := world(float64(x)*spacing, minY), world(float64(x)*spacing, maxY)
				c.MoveTo(from.X, from.Y)
				c.LineTo(to.X, to.Y)
			}
		}
	}

	if countY < gridLineLimit {
		for y := yMin; y <= yMax; y += gridStep(countY) {
			p := world(0, float64(y)*spacing)
			c.FillText(document.FormatNumber(float64(y)*spacing, 6), p.X, p.Y)
		}
		if selected {
			for y := yMin; y <= yMax; y++ {
				from, to := world(minX, float64(y)*spacing), world(maxX, float64(y)*spacing)
				c.MoveTo(from.X, from.Y)
				c.LineTo(to.X, to.Y)
			}
		}
	}

	c.Stroke()

	if isScene {
		paint.LineDash = []float64{6, 6}
	}

	paint.Stroke = "#FF505030"
	c.SetPaint(paint)
	c.BeginPath()
	line(c, world(minX, 0), world(maxX, 0))
	c.Stroke()

	paint.Stroke = "#50FF5030"
	c.SetPaint(paint)
	c.BeginPath()
	line(c, world(0, minY), world(0, maxY))
	c.Stroke()
}

func (s *Session) drawAxes(c render.Canvas, id scene.NodeID, selected bool) {
	origin := s.tree.LocalToWorld(id, geom.Vector2{})

	c.SetPaint(render.Paint{
		Stroke:    "#666666",
		LineWidth: 1,
		LineCap:   "round",
		LineDash:  []float64{6, 6},
	})
	c.BeginPath()
	line(c, s.tree.LocalToWorld(s.tree.Parent(id), geom.Vector2{}), origin)
	c.Stroke()

	outline, red, green := "#000000", "#FF6666", "#66FF66"
	if selected {
		outline, red, green = "#FFFFFF", "#FF0000", "#00FF00"
		if s.Transforming() {
			outline = "#FFFF88"
		}
	}

	for _, axis := range []struct {
		tip   geom.Vector2
		color string
	}{
		{geom.V2(axisLength, 0), red},
		{geom.V2(0, axisLength), green},
	} {
		tip := s.tree.LocalToWorld(id, axis.tip)
		paint := render.Paint{Stroke: outline, LineWidth: 7, LineJoin: "bevel", LineCap: "round"}

		c.SetPaint(paint)
		c.BeginPath()
		line(c, origin, tip)
		c.Stroke()

		paint.Stroke = axis.color
		paint.LineWidth = 3
		c.SetPaint(paint)
		c.Stroke()
	}
}

func line(c render.Canvas, from, to geom.Vector2) {
	c.MoveTo(from.X, from.Y)
	c.LineTo(to.X, to.Y)
}
