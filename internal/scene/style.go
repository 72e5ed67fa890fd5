package scene

import (
	"math"
	"slices"

	"github.com/canvasdraw/editor/backend-go/internal/render"
)

var (
	lineJoins     = []string{"round", "bevel", "miter"}
	lineCaps      = []string{"butt", "round", "square"}
	textAligns    = []string{"start", "end", "center", "left", "right"}
	textBaselines = []string{"alphabetic", "top", "hanging", "middle", "ideographic", "bottom"}
)

const (
	DefaultLineJoin     = "miter"
	DefaultLineCap      = "butt"
	DefaultMiterLimit   = 10
	DefaultTextAlign    = "start"
	DefaultTextBaseline = "alphabetic"
)

// oneOf returns v if it is in allowed, fallback otherwise.
func oneOf(v string, allowed []string, fallback string) string {
	if slices.Contains(allowed, v) {
		return v
	}
	return fallback
}

// Style is the paint configuration of a shape. Empty colors mean no fill
// or no stroke.
type Style struct {
	Fill       string
	Stroke     string
	LineWidth  float64
	LineDash   []float64
	LineJoin   string
	LineCap    string
	MiterLimit float64
}

// DefaultStyle is the style new shapes start with.
func DefaultStyle() Style {
	return Style{
		Fill:       "#FFFFFF",
		Stroke:     "#000000",
		LineWidth:  1,
		LineJoin:   DefaultLineJoin,
		LineCap:    DefaultLineCap,
		MiterLimit: DefaultMiterLimit,
	}
}

// Normalize replaces out of range values with defaults.
func (s Style) Normalize() Style {
	s.LineJoin = oneOf(s.LineJoin, lineJoins, DefaultLineJoin)
	s.LineCap = oneOf(s.LineCap, lineCaps, DefaultLineCap)
	if !isFinite(s.LineWidth) || s.LineWidth < 0 {
		s.LineWidth = 0
	}
	if !isFinite(s.MiterLimit) || s.MiterLimit <= 0 {
		s.MiterLimit = DefaultMiterLimit
	}
	s.LineDash = slices.DeleteFunc(slices.Clone(s.LineDash), func(v float64) bool {
		return !isFinite(v) || v < 0
	})
	return s
}

func (s Style) ShouldFill() bool {
	return s.Fill != ""
}

func (s Style) ShouldStroke() bool {
	return s.LineWidth > 0 && s.Stroke != ""
}

// Paint converts the style for a canvas.
func (s Style) Paint() render.Paint {
	return render.Paint{
		Fill:       s.Fill,
		Stroke:     s.Stroke,
		LineWidth:  s.LineWidth,
		LineJoin:   s.LineJoin,
		LineCap:    s.LineCap,
		MiterLimit: s.MiterLimit,
		LineDash:   s.LineDash,
	}
}

// Style returns the style of a shape node. Non-shape nodes have the zero
// style.
func (t *Tree) Style(id NodeID) Style {
	return t.get(id).style
}

// SetStyle replaces the style of a shape node after normalizing it.
func (t *Tree) SetStyle(id NodeID, s Style) {
	n := t.get(id)
	if !n.kind.IsShape() {
		panic("scene: " + n.kind.String() + " has no style")
	}
	n.style = s.Normalize()
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
