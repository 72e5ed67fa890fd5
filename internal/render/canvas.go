// Package render defines the drawing surface the editor paints onto and
// provides two implementations: a command recorder whose output a browser
// replays on a Canvas2D context, and a raster canvas producing PNG images.
package render

import "github.com/canvasdraw/editor/backend-go/internal/geom"

// Paint is the style state applied to subsequent fill, stroke and text
// operations. Empty colors disable the corresponding operation.
type Paint struct {
	Fill         string    `json:"fill,omitempty"`
	Stroke       string    `json:"stroke,omitempty"`
	LineWidth    float64   `json:"lineWidth,omitempty"`
	LineJoin     string    `json:"lineJoin,omitempty"`
	LineCap      string    `json:"lineCap,omitempty"`
	MiterLimit   float64   `json:"miterLimit,omitempty"`
	LineDash     []float64 `json:"lineDash,omitempty"`
	Font         string    `json:"font,omitempty"`
	TextAlign    string    `json:"textAlign,omitempty"`
	TextBaseline string    `json:"textBaseline,omitempty"`
}

// Canvas is a 2D drawing surface modelled on CanvasRenderingContext2D.
// Path coordinates are interpreted through the transform active when they
// are added.
type Canvas interface {
	SetTransform(m geom.Matrix)
	SetPaint(p Paint)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	BezierCurveTo(c0x, c0y, c1x, c1y, x, y float64)
	Rect(x, y, w, h float64)
	Ellipse(x, y, rx, ry float64)
	ClosePath()

	Fill()
	Stroke()
	FillText(s string, x, y float64)
	StrokeText(s string, x, y float64)
}

// ScreenSpace is the identity transform used for gizmos and overlays that
// are drawn in canvas pixels.
var ScreenSpace = geom.Identity()
