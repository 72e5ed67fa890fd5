// Package editor drives one interactive editing session: it owns the object
// tree, the handle system and the input tracker, and advances them one
// frame at a time.
package editor

import (
	"log/slog"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/handle"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// Config is the initial view of a session.
type Config struct {
	Width       float64
	Height      float64
	GridSpacing float64
	GridEnabled bool
}

// DefaultConfig is used for zero fields of a Config.
var DefaultConfig = Config{
	Width:       1280,
	Height:      720,
	GridSpacing: 16,
	GridEnabled: true,
}

// Session is the editing context of one user on one drawing. It is not
// safe for concurrent use.
type Session struct {
	tree    *scene.Tree
	handles *handle.System
	tracker *input.Tracker

	// in is the snapshot of the frame being processed.
	in input.Snapshot

	gridSpacing float64
	gridEnabled bool

	selected scene.NodeID
	shape    shapeEditor
	gizmo    gizmo
	view     view

	message string
	history history

	onCommit func(document.Record)
}

// New returns a session holding an empty scene with the scene selected.
func New(cfg Config) *Session {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = DefaultConfig.Width, DefaultConfig.Height
	}
	if cfg.GridSpacing < 1 {
		cfg.GridSpacing = DefaultConfig.GridSpacing
	}

	s := &Session{
		tree:        scene.NewTree(cfg.Width, cfg.Height),
		handles:     handle.NewSystem(),
		tracker:     input.NewTracker(),
		gridSpacing: cfg.GridSpacing,
		gridEnabled: cfg.GridEnabled,
		selected:    scene.NoNode,
		view:        newView(),
	}
	s.Select(s.tree.Root())
	s.history.push(s.tree.Serialize(s.tree.Root(), true))
	return s
}

// OnCommit registers fn to receive the exported drawing every time the
// session reaches a history point or moves through its history.
func (s *Session) OnCommit(fn func(document.Record)) {
	s.onCommit = fn
}

// --- Input ---

// Apply queues raw input events for the next frame.
func (s *Session) Apply(events ...input.Event) error {
	for _, e := range events {
		if err := s.tracker.Apply(e); err != nil {
			return err
		}
	}
	return nil
}

// Frame advances the session by one frame using the input queued since
// the previous frame.
func (s *Session) Frame() {
	s.in = s.tracker.Snapshot()
	in := &s.in
	s.message = ""

	s.navigate(in)
	s.shortcuts(in)
	s.updateGizmo(in)

	editing := s.shape != nil && s.tree.Visible(s.selected)
	if editing {
		s.shape.prepare(s, in)
	}

	s.handles.Update(in, s.gridSpacing)

	if editing {
		s.shape.apply(s, in)
	}

	if in.ButtonUp(input.ButtonRight) {
		s.rightClick(in)
	}

	s.tracker.EndFrame()
}

func (s *Session) shortcuts(in *input.Snapshot) {
	control := in.Key(input.KeyControl)
	shift := in.Key(input.KeyShift)

	switch {
	case control && in.KeyDown(input.KeyZ):
		s.Undo()
	case control && in.KeyDown(input.KeyY):
		s.Redo()
	case in.KeyDown(input.KeyZ):
		s.tree.Focus(s.selected)
	case shift && in.KeyDown(input.KeyD):
		if _, err := s.Duplicate(s.selected); err != nil {
			slog.Debug("duplicate shortcut ignored", "error", err)
		}
	case in.KeyDown(input.KeyDelete):
		if s.selected != s.tree.Root() {
			s.Delete(s.selected)
		}
	}
}

// rightClick finishes a path being drawn, otherwise selects the object
// under the cursor.
func (s *Session) rightClick(in *input.Snapshot) {
	if f, ok := s.shape.(interface{ finish(*Session) bool }); ok && f.finish(s) {
		return
	}
	s.Select(s.tree.ObjectAtPoint(s.tree.Root(), in.Cursor))
}

// --- Selection ---

// Select makes id the edited object. The previous object's transform in
// progress is cancelled and its handles are dropped.
func (s *Session) Select(id scene.NodeID) {
	if id == s.selected && s.tree.Exists(id) {
		return
	}
	s.deselect()

	s.selected = id
	s.shape = newShapeEditor(s, id)
}

func (s *Session) deselect() {
	if s.selected == scene.NoNode || !s.tree.Exists(s.selected) {
		s.selected = scene.NoNode
		s.shape = nil
		s.handles.Clear()
		return
	}

	s.cancelTransform()
	if s.shape != nil {
		s.shape.release(s)
	}
	s.shape = nil
	s.handles.Clear()
	s.selected = scene.NoNode
}

// --- History ---

// Commit records a history point and publishes the drawing.
func (s *Session) Commit() {
	s.history.push(s.tree.Serialize(s.tree.Root(), true))
	s.publish()
}

func (s *Session) publish() {
	if s.onCommit != nil {
		s.onCommit(s.tree.Export(s.tree.Root()))
	}
}

// Undo restores the previous history point.
func (s *Session) Undo() bool {
	return s.restore(-1)
}

// Redo restores the next history point.
func (s *Session) Redo() bool {
	return s.restore(1)
}

func (s *Session) restore(delta int) bool {
	rec, ok := s.history.step(delta)
	if !ok {
		return false
	}

	name := ""
	if s.tree.Exists(s.selected) {
		name = s.tree.Name(s.selected)
	}
	if err := s.replace(rec); err != nil {
		slog.Warn("restoring history failed", "error", err)
		return false
	}

	if id, ok := s.tree.FindByName(name); ok {
		s.Select(id)
	}
	s.publish()
	return true
}

// replace swaps in a new scene and selects it. Every NodeID handed out
// before is invalid afterwards.
func (s *Session) replace(rec document.Record) error {
	s.deselect()
	if _, err := s.tree.Deserialize(rec, scene.NoNode); err != nil {
		s.Select(s.tree.Root())
		return err
	}
	s.Select(s.tree.Root())
	return nil
}

// --- Rendering ---

// Render paints the drawing followed by the editor overlays.
func (s *Session) Render(c render.Canvas) {
	s.tree.Draw(c)

	s.drawGizmos(c, s.tree.Root())

	visible := s.tree.Visible(s.selected)
	if s.shape != nil && visible {
		s.shape.draw(s, c)
	}
	if visible {
		s.handles.Draw(c)
	}

	s.drawMessage(c)
}

func (s *Session) drawMessage(c render.Canvas) {
	if s.message == "" {
		return
	}

	c.SetTransform(render.ScreenSpace)
	c.SetPaint(render.Paint{
		Fill:         "#FFFFFF",
		Font:         messageFont,
		TextAlign:    "left",
		TextBaseline: "middle",
	})
	c.FillText(s.message, s.in.Cursor.X+20, s.in.Cursor.Y)
}

const messageFont = "10px JetBrainsMono"

// --- Queries ---

// Tree returns the object tree. Callers must not keep NodeIDs across
// document loads or undo.
func (s *Session) Tree() *scene.Tree {
	return s.tree
}

// Selected returns the edited object.
func (s *Session) Selected() scene.NodeID {
	return s.selected
}

// Message returns the cursor message of the last frame.
func (s *Session) Message() string {
	return s.message
}

// Transforming reports whether a transform gizmo is active.
func (s *Session) Transforming() bool {
	return s.gizmo.mode != modeNone
}

// TransformMode names the active gizmo, or returns "" when none is active.
func (s *Session) TransformMode() string {
	return s.gizmo.mode.String()
}

// Marquee returns the handle selection rectangle in canvas pixels while
// one is being dragged.
func (s *Session) Marquee() (geom.Rect, bool) {
	if !s.handles.Selecting() {
		return geom.Rect{}, false
	}
	return s.handles.SelectionRect(), true
}

// GridSpacing returns the snap spacing in local units.
func (s *Session) GridSpacing() float64 {
	return s.gridSpacing
}

// GridEnabled reports whether the grid gizmo is drawn.
func (s *Session) GridEnabled() bool {
	return s.gridEnabled
}

// Zoom returns the current zoom factor of the scene.
func (s *Session) Zoom() float64 {
	return zoomLevels[s.view.zoomIndex]
}

// Cursor returns the cursor of the last frame in canvas pixels.
func (s *Session) Cursor() geom.Vector2 {
	return s.in.Cursor
}

// HistoryLen returns the number of recorded history points.
func (s *Session) HistoryLen() int {
	return len(s.history.entries)
}

// Document exports the drawing.
func (s *Session) Document() document.Record {
	return s.tree.Export(s.tree.Root())
}
