package editor

import (
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// Mode is the kind of interactive transform in progress.
type Mode int

const (
	modeNone Mode = iota
	ModeTranslate
	ModeRotate
	ModeScale
)

// ParseMode maps "translate", "rotate" and "scale" to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "translate":
		return ModeTranslate, true
	case "rotate":
		return ModeRotate, true
	case "scale":
		return ModeScale, true
	}
	return modeNone, false
}

func (m Mode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	}
	return ""
}

const (
	scaleSensitivity = 1.0 / 100

	scaleSnap     = 0.1
	scaleSnapFine = 0.01

	rotateSnap     = 5
	rotateSnapFine = 0.01

	positionSnapFine = 0.01
)

// gizmo is the state of the transform in progress on the selected object.
type gizmo struct {
	mode        Mode
	cursorStart geom.Vector2

	translate geom.Vector2
	rotate    float64
	scale     geom.Vector2
}

// StartTransform begins an interactive transform of id, selecting it.
// With zeroOffset the cursor offset is measured from the parent origin
// instead of the current cursor, which moves a new object to the cursor.
func (s *Session) StartTransform(id scene.NodeID, mode Mode, zeroOffset bool) {
	if id == s.tree.Root() || mode == modeNone {
		return
	}

	s.Select(id)
	s.cancelTransform()

	g := &s.gizmo
	g.mode = mode
	g.cursorStart = geom.Vector2{}
	if !zeroOffset {
		g.cursorStart = s.parentCursor(id)
	}
	g.translate = s.tree.Translate(id)
	g.rotate = s.tree.Rotate(id)
	g.scale = s.tree.Scale(id)
}

// ConfirmTransform keeps the transform in progress and records it.
func (s *Session) ConfirmTransform() {
	if s.gizmo.mode == modeNone {
		return
	}
	s.gizmo.mode = modeNone

	s.in.ClearMouseButtons()
	s.tracker.ClearMouseButtons()

	s.Commit()
}

// cancelTransform restores the transformed attribute exactly.
func (s *Session) cancelTransform() {
	g := &s.gizmo
	switch g.mode {
	case ModeTranslate:
		s.tree.SetTranslate(s.selected, g.translate)
	case ModeRotate:
		s.tree.SetRotate(s.selected, g.rotate)
	case ModeScale:
		s.tree.SetScale(s.selected, g.scale)
	}
	g.mode = modeNone
}

// parentCursor returns the cursor in the local space of the parent of id.
func (s *Session) parentCursor(id scene.NodeID) geom.Vector2 {
	return s.tree.WorldToLocal(s.tree.Parent(id), s.in.Cursor)
}

func (s *Session) updateGizmo(in *input.Snapshot) {
	id := s.selected
	if id == s.tree.Root() {
		return
	}

	fine := in.Fine()
	positionSnap := s.gridSpacing
	rotationSnap := float64(rotateSnap)
	scalingSnap := scaleSnap
	if fine {
		positionSnap = positionSnapFine
		rotationSnap = rotateSnapFine
		scalingSnap = scaleSnapFine
	}

	g := &s.gizmo
	active := g.mode != modeNone

	if active && in.ButtonDown(input.ButtonLeft) {
		s.ConfirmTransform()
	}
	if active && (in.KeyDown(input.KeyEscape) || in.ButtonDown(input.ButtonRight)) {
		s.cancelTransform()
	}

	if !in.Key(input.KeyControl) {
		switch {
		case in.KeyDown(input.KeyG):
			s.StartTransform(id, ModeTranslate, false)
		case in.KeyDown(input.KeyR):
			s.StartTransform(id, ModeRotate, false)
		case in.KeyDown(input.KeyS):
			s.StartTransform(id, ModeScale, false)
		}
	}

	cursor := s.parentCursor(id)
	d := cursor.Sub(g.cursorStart)

	switch g.mode {
	case ModeTranslate:
		t := g.translate.Add(d).Round(positionSnap)
		s.tree.SetTranslate(id, t)
		s.message = "Translation X:" + num3(t.X) + " Y:" + num3(t.Y)

	case ModeRotate:
		origin := s.tree.Translate(id)
		from := math.Atan2(g.cursorStart.Y-origin.Y, g.cursorStart.X-origin.X) * 180 / math.Pi
		to := math.Atan2(cursor.Y-origin.Y, cursor.X-origin.X) * 180 / math.Pi

		r := math.Mod(g.rotate+to-from+360, 360)
		r = math.Mod(geom.Snap(r, rotationSnap), 360)
		s.tree.SetRotate(id, r)
		s.message = "Rotation:" + num3(r)

	case ModeScale:
		t := d.Scale(scaleSensitivity)
		rad := -s.tree.Rotate(id) * math.Pi / 180
		sin, cos := math.Sincos(rad)

		sx := geom.Snap(g.scale.X+t.X*cos-t.Y*sin, scalingSnap)
		sy := geom.Snap(g.scale.Y+t.X*sin+t.Y*cos, scalingSnap)
		if sx == 0 {
			sx = scalingSnap
		}
		if sy == 0 {
			sy = scalingSnap
		}
		s.tree.SetScale(id, geom.V2(sx, sy))
		s.message = "Scale X:" + num3(sx) + " Y:" + num3(sy)

	default:
		if !fine {
			cursor = cursor.Round(positionSnap)
		}
		s.message = "X:" + num3(cursor.X) + " Y:" + num3(cursor.Y)
	}
}

func num3(v float64) string {
	return document.FormatNumber(v, 3)
}
