package render

import (
	"encoding/json"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Draw command operations.
const (
	OpSetTransform  = "setTransform"
	OpSetPaint      = "setPaint"
	OpBeginPath     = "beginPath"
	OpMoveTo        = "moveTo"
	OpLineTo        = "lineTo"
	OpBezierCurveTo = "bezierCurveTo"
	OpRect          = "rect"
	OpEllipse       = "ellipse"
	OpClosePath     = "closePath"
	OpFill          = "fill"
	OpStroke        = "stroke"
	OpFillText      = "fillText"
	OpStrokeText    = "strokeText"
)

// DrawCommand represents a single drawing operation for the frontend to execute.
// The frontend receives a list of these and executes them on a Canvas2D context.
type DrawCommand struct {
	Op        string    `json:"op"`
	Transform []float64 `json:"transform,omitempty"` // [a, b, c, d, e, f] affine matrix
	Args      []float64 `json:"args,omitempty"`
	Paint     *Paint    `json:"paint,omitempty"`
	Text      string    `json:"text,omitempty"`
}

// Recorder is a Canvas that records draw commands in painter's order.
type Recorder struct {
	commands []DrawCommand
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// JSON serializes the recorded commands.
func (r *Recorder) JSON() (string, error) {
	return DrawCommandsToJSON(r.commands)
}

func (r *Recorder) push(op string, args ...float64) {
	r.commands = append(r.commands, DrawCommand{Op: op, Args: args})
}

func (r *Recorder) SetTransform(m geom.Matrix) {
	r.commands = append(r.commands, DrawCommand{Op: OpSetTransform, Transform: m.ToSlice()})
}

func (r *Recorder) SetPaint(p Paint) {
	r.commands = append(r.commands, DrawCommand{Op: OpSetPaint, Paint: &p})
}

func (r *Recorder) BeginPath()          { r.push(OpBeginPath) }
func (r *Recorder) MoveTo(x, y float64) { r.push(OpMoveTo, x, y) }
func (r *Recorder) LineTo(x, y float64) { r.push(OpLineTo, x, y) }
func (r *Recorder) ClosePath()          { r.push(OpClosePath) }
func (r *Recorder) Fill()               { r.push(OpFill) }
func (r *Recorder) Stroke()             { r.push(OpStroke) }

func (r *Recorder) BezierCurveTo(c0x, c0y, c1x, c1y, x, y float64) {
	r.push(OpBezierCurveTo, c0x, c0y, c1x, c1y, x, y)
}

func (r *Recorder) Rect(x, y, w, h float64) {
	r.push(OpRect, x, y, w, h)
}

func (r *Recorder) Ellipse(x, y, rx, ry float64) {
	r.push(OpEllipse, x, y, rx, ry)
}

func (r *Recorder) FillText(s string, x, y float64) {
	r.commands = append(r.commands, DrawCommand{Op: OpFillText, Text: s, Args: []float64{x, y}})
}

func (r *Recorder) StrokeText(s string, x, y float64) {
	r.commands = append(r.commands, DrawCommand{Op: OpStrokeText, Text: s, Args: []float64{x, y}})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	if commands == nil {
		commands = []DrawCommand{}
	}
	data, err := json.Marshal(commands)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
