package render

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Raster is a Canvas backed by a software gg context.
//
// Text is drawn at the transformed anchor point without rotation or scale,
// and only when a font face has been set.
type Raster struct {
	dc    *gg.Context
	m     geom.Matrix
	paint Paint
	err   error
}

// NewRaster creates a raster canvas cleared to background. An empty
// background leaves the image transparent.
func NewRaster(width, height int, background string) *Raster {
	dc := gg.NewContext(width, height)
	if background != "" {
		dc.ClearWithColor(gg.Hex(background))
	}
	return &Raster{dc: dc, m: geom.Identity()}
}

// LoadFont reads a TrueType or OpenType font and returns a face of the
// given size in points.
func LoadFont(path string, points float64) (text.Face, error) {
	source, err := text.NewFontSourceFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading font %s: %w", path, err)
	}
	return source.Face(points), nil
}

// SetFont sets the face used by FillText and StrokeText.
func (r *Raster) SetFont(face text.Face) {
	r.dc.SetFont(face)
}

// Err returns the first fill or stroke error encountered.
func (r *Raster) Err() error {
	return r.err
}

// EncodePNG writes the image as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	return r.dc.EncodePNG(w)
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.dc.Close()
}

func (r *Raster) SetTransform(m geom.Matrix) {
	r.m = m
	// gg stores the matrix row-major as x' = A*x + B*y + C.
	r.dc.SetTransform(gg.Matrix{
		A: m[0], B: m[2], C: m[4],
		D: m[1], E: m[3], F: m[5],
	})
}

func (r *Raster) SetPaint(p Paint) {
	r.paint = p

	r.dc.SetLineWidth(p.LineWidth)

	switch p.LineJoin {
	case "round":
		r.dc.SetLineJoin(gg.LineJoinRound)
	case "bevel":
		r.dc.SetLineJoin(gg.LineJoinBevel)
	default:
		r.dc.SetLineJoin(gg.LineJoinMiter)
	}

	switch p.LineCap {
	case "round":
		r.dc.SetLineCap(gg.LineCapRound)
	case "square":
		r.dc.SetLineCap(gg.LineCapSquare)
	default:
		r.dc.SetLineCap(gg.LineCapButt)
	}

	if p.MiterLimit > 0 {
		r.dc.SetMiterLimit(p.MiterLimit)
	}

	if len(p.LineDash) > 0 {
		r.dc.SetDash(p.LineDash...)
	} else {
		r.dc.ClearDash()
	}
}

func (r *Raster) BeginPath()          { r.dc.ClearPath() }
func (r *Raster) MoveTo(x, y float64) { r.dc.MoveTo(x, y) }
func (r *Raster) LineTo(x, y float64) { r.dc.LineTo(x, y) }
func (r *Raster) ClosePath()          { r.dc.ClosePath() }

func (r *Raster) BezierCurveTo(c0x, c0y, c1x, c1y, x, y float64) {
	r.dc.CubicTo(c0x, c0y, c1x, c1y, x, y)
}

func (r *Raster) Rect(x, y, w, h float64) {
	r.dc.DrawRectangle(x, y, w, h)
}

func (r *Raster) Ellipse(x, y, rx, ry float64) {
	r.dc.DrawEllipse(x, y, rx, ry)
}

// Fill and Stroke keep the path so a fill can be followed by a stroke of
// the same outline, as on a Canvas2D context. gg shares one brush between
// fill and stroke, so it is set right before each operation.
func (r *Raster) Fill() {
	if r.paint.Fill == "" {
		return
	}
	r.dc.SetFillBrush(gg.SolidHex(r.paint.Fill))
	r.record(r.dc.FillPreserve())
}

func (r *Raster) Stroke() {
	if r.paint.Stroke == "" || r.paint.LineWidth <= 0 {
		return
	}
	r.dc.SetStrokeBrush(gg.SolidHex(r.paint.Stroke))
	r.record(r.dc.StrokePreserve())
}

func (r *Raster) FillText(s string, x, y float64) {
	if r.paint.Fill == "" {
		return
	}
	r.drawText(s, x, y, r.paint.Fill)
}

func (r *Raster) StrokeText(s string, x, y float64) {
	if r.paint.Stroke == "" {
		return
	}
	r.drawText(s, x, y, r.paint.Stroke)
}

func (r *Raster) drawText(s string, x, y float64, color string) {
	if r.dc.Font() == nil {
		return
	}

	px, py := r.m.TransformPoint(x, y)
	w, _ := r.dc.MeasureString(s)
	switch r.paint.TextAlign {
	case "center":
		px -= w / 2
	case "end", "right":
		px -= w
	}

	r.dc.SetHexColor(color)
	r.dc.DrawString(s, px, py)
}

func (r *Raster) record(err error) {
	if err != nil && r.err == nil {
		slog.Warn("raster draw failed", "error", err)
		r.err = err
	}
}
