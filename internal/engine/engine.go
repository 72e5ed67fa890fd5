// Package engine exposes one editing session through a string-in,
// string-out API for hosts that exchange JSON, such as the browser build.
package engine

import (
	"encoding/json"
	"fmt"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/editor"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

// Engine owns a session and a reusable draw command recorder.
type Engine struct {
	session  *editor.Session
	recorder *render.Recorder
	commits  int
}

// NewEngine creates an engine holding an empty drawing.
func NewEngine(cfg editor.Config) *Engine {
	e := &Engine{
		session:  editor.New(cfg),
		recorder: render.NewRecorder(),
	}
	e.session.OnCommit(func(document.Record) { e.commits++ })
	return e
}

// FrameResult is what Frame returns as JSON.
type FrameResult struct {
	Commands []render.DrawCommand `json:"commands"`
	Message  string               `json:"message,omitempty"`
	Selected string               `json:"selected,omitempty"`
	// Changed reports that the drawing reached a history point during the
	// frame and should be saved.
	Changed bool `json:"changed"`
}

type commandResult struct {
	Result *editor.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// --- Commands (frontend → backend) ---

// LoadDocument replaces the drawing with a JSON record tree.
func (e *Engine) LoadDocument(jsonData string) error {
	rec, err := document.Parse([]byte(jsonData))
	if err != nil {
		return err
	}
	return e.session.Load(rec)
}

// LoadSampleDocument replaces the drawing with the sample scene.
func (e *Engine) LoadSampleDocument(name string) {
	if err := e.session.Load(document.NewSampleDocument(name)); err != nil {
		panic(fmt.Sprintf("sample document: %v", err))
	}
}

// PushEvents queues a JSON array of input events for the next frame.
func (e *Engine) PushEvents(jsonData string) error {
	var events []input.Event
	if err := json.Unmarshal([]byte(jsonData), &events); err != nil {
		return fmt.Errorf("parsing events: %w", err)
	}
	return e.session.Apply(events...)
}

// Frame advances the session and returns the frame as JSON.
func (e *Engine) Frame() string {
	before := e.commits
	e.session.Frame()

	e.recorder.Reset()
	e.session.Render(e.recorder)

	res := FrameResult{
		Commands: e.recorder.Commands(),
		Message:  e.session.Message(),
		Selected: e.GetSelection(),
		Changed:  e.commits != before,
	}
	return marshal(res)
}

// Command executes a JSON editor.Command and returns the result or error
// as JSON.
func (e *Engine) Command(jsonData string) string {
	var cmd editor.Command
	if err := json.Unmarshal([]byte(jsonData), &cmd); err != nil {
		return marshal(commandResult{Error: fmt.Sprintf("parsing command: %v", err)})
	}
	res, err := e.session.Execute(cmd)
	if err != nil {
		return marshal(commandResult{Error: err.Error()})
	}
	return marshal(commandResult{Result: &res})
}

// --- Queries (frontend ← backend) ---

// HitTest returns the name of the object at a canvas point, or "" when
// the point hits nothing but the scene.
func (e *Engine) HitTest(x, y float64) string {
	tree := e.session.Tree()
	id := tree.ObjectAtPoint(tree.Root(), geom.V2(x, y))
	if id == tree.Root() {
		return ""
	}
	return tree.Name(id)
}

// DrawCode returns the JavaScript draw module of the named object, or of
// the selection when name is empty.
func (e *Engine) DrawCode(name string) (string, error) {
	tree := e.session.Tree()
	id := e.session.Selected()
	if name != "" {
		var ok bool
		if id, ok = tree.FindByName(name); !ok {
			return "", fmt.Errorf("%w: %q", editor.ErrUnknownObject, name)
		}
	}
	if !tree.Exists(id) {
		id = tree.Root()
	}
	return tree.DrawCode(id), nil
}

// GetDocument returns the drawing as indented JSON.
func (e *Engine) GetDocument() string {
	data, err := document.Marshal(e.session.Document())
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetSelection returns the name of the selected object.
func (e *Engine) GetSelection() string {
	tree := e.session.Tree()
	if id := e.session.Selected(); id != scene.NoNode && tree.Exists(id) {
		return tree.Name(id)
	}
	return ""
}

// GetOutline returns the object tree as JSON for a layers panel.
func (e *Engine) GetOutline() string {
	return marshal(e.session.Outline())
}

func marshal(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":%q}`, err.Error())
	}
	return string(data)
}
