package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/scene"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownObject   = errors.New("unknown object")
	ErrUnknownProperty = errors.New("unknown property")
	ErrWrongKind       = errors.New("property does not apply to this object")
	ErrInvalidValue    = errors.New("invalid property value")
)

// Command types accepted by Execute.
const (
	CommandCreate    = "object.create"
	CommandDelete    = "object.delete"
	CommandReparent  = "object.reparent"
	CommandProperty  = "object.property"
	CommandSelect    = "object.select"
	CommandFocus     = "object.focus"
	CommandDuplicate = "object.duplicate"
	CommandCopyStyle = "object.copyStyle"
	CommandTransform = "object.transform"
	CommandLoad      = "document.load"
	CommandImport    = "document.import"
	CommandView      = "view.update"
	CommandResize    = "view.resize"
	CommandUndo      = "history.undo"
	CommandRedo      = "history.redo"
)

// Command is an editing request from outside the frame loop. Objects are
// addressed by name; an empty Object means the selected object.
type Command struct {
	Type     string          `json:"type"`
	Object   string          `json:"object,omitempty"`
	Parent   string          `json:"parent,omitempty"`
	Source   string          `json:"source,omitempty"`
	Index    *int            `json:"index,omitempty"`
	Kind     string          `json:"kind,omitempty"`
	Name     string          `json:"name,omitempty"`
	Mode     string          `json:"mode,omitempty"`
	Property string          `json:"property,omitempty"`
	Value    json.RawMessage `json:"value,omitempty"`

	// For document.load and document.import
	Document *document.Record `json:"document,omitempty"`

	// For view.update and view.resize
	GridSpacing *float64 `json:"gridSpacing,omitempty"`
	GridEnabled *bool    `json:"gridEnabled,omitempty"`
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
}

// Result reports the object a command produced or acted on.
type Result struct {
	Object string `json:"object,omitempty"`
}

// Execute applies cmd to the session.
func (s *Session) Execute(cmd Command) (Result, error) {
	switch cmd.Type {
	case CommandCreate:
		return s.executeCreate(cmd)
	case CommandDelete:
		return s.executeDelete(cmd)
	case CommandReparent:
		return s.executeReparent(cmd)
	case CommandProperty:
		return s.executeProperty(cmd)
	case CommandSelect:
		return s.withObject(cmd.Object, func(id scene.NodeID) error {
			s.Select(id)
			return nil
		})
	case CommandFocus:
		return s.withObject(cmd.Object, func(id scene.NodeID) error {
			s.tree.Focus(id)
			return nil
		})
	case CommandDuplicate:
		return s.executeDuplicate(cmd)
	case CommandCopyStyle:
		return s.executeCopyStyle(cmd)
	case CommandTransform:
		return s.executeTransform(cmd)
	case CommandLoad:
		return s.executeLoad(cmd)
	case CommandImport:
		return s.executeImport(cmd)
	case CommandView:
		spacing, enabled := s.gridSpacing, s.gridEnabled
		if cmd.GridSpacing != nil {
			spacing = *cmd.GridSpacing
		}
		if cmd.GridEnabled != nil {
			enabled = *cmd.GridEnabled
		}
		s.SetGrid(spacing, enabled)
		return Result{}, nil
	case CommandResize:
		if cmd.Width <= 0 || cmd.Height <= 0 {
			return Result{}, fmt.Errorf("%w: canvas size %vx%v", ErrInvalidValue, cmd.Width, cmd.Height)
		}
		s.Resize(cmd.Width, cmd.Height)
		return Result{}, nil
	case CommandUndo:
		s.Undo()
		return s.selectedResult(), nil
	case CommandRedo:
		s.Redo()
		return s.selectedResult(), nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Type)
	}
}

// lookup resolves an object name. The empty name is the selection.
func (s *Session) lookup(name string) (scene.NodeID, error) {
	if name == "" {
		if !s.tree.Exists(s.selected) {
			return scene.NoNode, fmt.Errorf("%w: nothing selected", ErrUnknownObject)
		}
		return s.selected, nil
	}
	id, ok := s.tree.FindByName(name)
	if !ok {
		return scene.NoNode, fmt.Errorf("%w: %q", ErrUnknownObject, name)
	}
	return id, nil
}

func (s *Session) withObject(name string, fn func(id scene.NodeID) error) (Result, error) {
	id, err := s.lookup(name)
	if err != nil {
		return Result{}, err
	}
	if err := fn(id); err != nil {
		return Result{}, err
	}
	if !s.tree.Exists(id) {
		return Result{}, nil
	}
	return Result{Object: s.tree.Name(id)}, nil
}

func (s *Session) selectedResult() Result {
	if !s.tree.Exists(s.selected) {
		return Result{}
	}
	return Result{Object: s.tree.Name(s.selected)}
}

// --- Object lifecycle ---

// Create adds an object of the given kind under parent, selects it and
// starts moving it with the cursor.
func (s *Session) Create(kind scene.Kind, parent scene.NodeID, name string) scene.NodeID {
	s.ConfirmTransform()

	id := s.tree.Create(kind, parent, name)
	s.Select(id)
	s.StartTransform(id, ModeTranslate, true)
	s.Commit()
	return id
}

// Delete removes id and its subtree. When the selection is removed with
// it, the parent of id is selected.
func (s *Session) Delete(id scene.NodeID) error {
	if id == s.tree.Root() {
		return scene.ErrRoot
	}

	if s.tree.Exists(s.selected) && s.tree.IsAncestor(id, s.selected) {
		s.Select(s.tree.Parent(id))
	}
	s.tree.Delete(id)
	s.Commit()
	return nil
}

// Duplicate copies id next to itself, selects the copy and starts moving
// it.
func (s *Session) Duplicate(id scene.NodeID) (scene.NodeID, error) {
	s.ConfirmTransform()

	dup, err := s.tree.Duplicate(id)
	if err != nil {
		return scene.NoNode, err
	}

	s.Select(dup)
	s.StartTransform(dup, ModeTranslate, false)
	s.Commit()
	return dup, nil
}

func (s *Session) executeCreate(cmd Command) (Result, error) {
	kind, ok := scene.ParseKind(cmd.Kind)
	if !ok || kind == scene.KindScene {
		return Result{}, fmt.Errorf("%w: %q", scene.ErrUnknownType, cmd.Kind)
	}

	parent, err := s.lookup(cmd.Parent)
	if err != nil {
		return Result{}, err
	}

	id := s.Create(kind, parent, cmd.Name)
	return Result{Object: s.tree.Name(id)}, nil
}

func (s *Session) executeDelete(cmd Command) (Result, error) {
	id, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	name := s.tree.Name(id)
	if err := s.Delete(id); err != nil {
		return Result{}, err
	}
	return Result{Object: name}, nil
}

func (s *Session) executeReparent(cmd Command) (Result, error) {
	id, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	parent, err := s.lookup(cmd.Parent)
	if err != nil {
		return Result{}, err
	}

	index := -1
	if cmd.Index != nil {
		index = *cmd.Index
	}
	if err := s.tree.Reparent(id, parent, index); err != nil {
		return Result{}, err
	}
	s.Commit()
	return Result{Object: s.tree.Name(id)}, nil
}

func (s *Session) executeDuplicate(cmd Command) (Result, error) {
	id, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	dup, err := s.Duplicate(id)
	if err != nil {
		return Result{}, err
	}
	return Result{Object: s.tree.Name(dup)}, nil
}

func (s *Session) executeCopyStyle(cmd Command) (Result, error) {
	dst, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	src, err := s.lookup(cmd.Source)
	if err != nil {
		return Result{}, err
	}
	if !s.tree.Kind(dst).IsShape() || !s.tree.Kind(src).IsShape() {
		return Result{}, fmt.Errorf("%w: copying style needs two shapes", ErrWrongKind)
	}

	s.tree.CopyStyle(dst, src)
	s.Commit()
	return Result{Object: s.tree.Name(dst)}, nil
}

func (s *Session) executeTransform(cmd Command) (Result, error) {
	id, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	mode, ok := ParseMode(cmd.Mode)
	if !ok {
		return Result{}, fmt.Errorf("%w: transform mode %q", ErrInvalidValue, cmd.Mode)
	}
	if id == s.tree.Root() {
		return Result{}, scene.ErrRoot
	}

	s.StartTransform(id, mode, false)
	return Result{Object: s.tree.Name(id)}, nil
}

// --- Documents ---

// Load replaces the drawing. The history restarts at the loaded state.
func (s *Session) Load(rec document.Record) error {
	if rec.Type != document.TypeScene {
		return fmt.Errorf("%w: document root is %q", scene.ErrUnknownType, rec.Type)
	}
	if err := s.replace(rec); err != nil {
		return err
	}
	s.history = history{}
	s.history.push(s.tree.Serialize(s.tree.Root(), true))
	return nil
}

// Import adds rec under parent. Scene records replace the drawing as an
// undoable change.
func (s *Session) Import(rec document.Record, parent scene.NodeID) (scene.NodeID, error) {
	if rec.Type == document.TypeScene {
		if err := s.replace(rec); err != nil {
			return scene.NoNode, err
		}
		s.Commit()
		return s.tree.Root(), nil
	}

	id, err := s.tree.Deserialize(rec, parent)
	if err != nil {
		return scene.NoNode, err
	}
	s.Select(id)
	s.Commit()
	return id, nil
}

func (s *Session) executeLoad(cmd Command) (Result, error) {
	if cmd.Document == nil {
		return Result{}, fmt.Errorf("%w: missing document", ErrInvalidValue)
	}
	if err := s.Load(*cmd.Document); err != nil {
		return Result{}, err
	}
	return s.selectedResult(), nil
}

func (s *Session) executeImport(cmd Command) (Result, error) {
	if cmd.Document == nil {
		return Result{}, fmt.Errorf("%w: missing document", ErrInvalidValue)
	}
	parent, err := s.lookup(cmd.Parent)
	if err != nil {
		return Result{}, err
	}
	id, err := s.Import(*cmd.Document, parent)
	if err != nil {
		return Result{}, err
	}
	return Result{Object: s.tree.Name(id)}, nil
}

// --- Properties ---

func (s *Session) executeProperty(cmd Command) (Result, error) {
	id, err := s.lookup(cmd.Object)
	if err != nil {
		return Result{}, err
	}
	if err := s.SetProperty(id, cmd.Property, cmd.Value); err != nil {
		return Result{}, err
	}
	return Result{Object: s.tree.Name(id)}, nil
}

// SetProperty decodes value and assigns it to the named property of id,
// then records a history point. Values are sanitized the same way a loaded
// document is.
func (s *Session) SetProperty(id scene.NodeID, property string, value json.RawMessage) error {
	set, ok := properties[property]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, property)
	}
	if err := set(s, id, value); err != nil {
		return fmt.Errorf("setting %s: %w", property, err)
	}
	s.Commit()
	return nil
}

type propertySetter func(s *Session, id scene.NodeID, value json.RawMessage) error

var properties = map[string]propertySetter{
	"name": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decode[string](value)
		if err != nil {
			return err
		}
		s.tree.SetName(id, v)
		return nil
	},
	"visible": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decode[bool](value)
		if err != nil {
			return err
		}
		s.tree.SetVisible(id, v)
		return nil
	},
	"translate": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decodeVector(value)
		if err != nil {
			return err
		}
		s.tree.SetTranslate(id, v)
		return nil
	},
	"rotate": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decodeNumber(value)
		if err != nil {
			return err
		}
		s.tree.SetRotate(id, v)
		return nil
	},
	"scale": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decodeVector(value)
		if err != nil {
			return err
		}
		// A zero component makes the world matrix singular.
		if v.X == 0 || v.Y == 0 {
			return fmt.Errorf("%w: scale component is zero", ErrInvalidValue)
		}
		s.tree.SetScale(id, v)
		return nil
	},

	"fillStyle":   styleProperty(func(st *scene.Style, v string) { st.Fill = document.SanitizeColor(v) }),
	"strokeStyle": styleProperty(func(st *scene.Style, v string) { st.Stroke = document.SanitizeColor(v) }),
	"lineDash":    styleProperty(func(st *scene.Style, v string) { st.LineDash = document.ParseNumberList(v) }),
	"lineJoin":    styleProperty(func(st *scene.Style, v string) { st.LineJoin = v }),
	"lineCap":     styleProperty(func(st *scene.Style, v string) { st.LineCap = v }),
	"lineWidth":   styleProperty(func(st *scene.Style, v float64) { st.LineWidth = v }),
	"miterLimit":  styleProperty(func(st *scene.Style, v float64) { st.MiterLimit = v }),

	"position": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		v, err := decodeVector(value)
		if err != nil {
			return err
		}
		switch s.tree.Kind(id) {
		case scene.KindRectangle:
			s.tree.Rectangle(id).Position = v
		case scene.KindEllipse:
			s.tree.Ellipse(id).Position = v
		default:
			return ErrWrongKind
		}
		return nil
	},
	"size": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if s.tree.Kind(id) != scene.KindRectangle {
			return ErrWrongKind
		}
		v, err := decodeVector(value)
		if err != nil {
			return err
		}
		s.tree.Rectangle(id).Size = v
		return nil
	},
	"radius": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if s.tree.Kind(id) != scene.KindEllipse {
			return ErrWrongKind
		}
		v, err := decodeVector(value)
		if err != nil {
			return err
		}
		s.tree.Ellipse(id).Radius = geom.V2(max(v.X, 0.1), max(v.Y, 0.1))
		return nil
	},
	"closed": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if s.tree.Kind(id) != scene.KindPath {
			return ErrWrongKind
		}
		v, err := decode[bool](value)
		if err != nil {
			return err
		}
		s.tree.Path(id).Closed = v
		return nil
	},
	"points": func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if s.tree.Kind(id) != scene.KindPath {
			return ErrWrongKind
		}
		v, err := decode[[]geom.PathPoint](value)
		if err != nil {
			return err
		}
		if len(v) == 0 {
			return fmt.Errorf("%w: a path needs at least one point", ErrInvalidValue)
		}
		for _, p := range v {
			if !p.Position().IsFinite() {
				return fmt.Errorf("%w: non-finite point", ErrInvalidValue)
			}
		}

		// The editor keeps one handle set per vertex.
		if s.selected == id {
			s.deselect()
			defer s.Select(id)
		}
		s.tree.Path(id).Points = v
		return nil
	},
	"text":         textProperty(func(t *scene.Text, v string) { t.Text = document.PrintableASCII(v) }),
	"font":         textProperty(func(t *scene.Text, v string) { t.Font = document.PrintableASCII(v) }),
	"textAlign":    textProperty(func(t *scene.Text, v string) { t.TextAlign = v }),
	"textBaseline": textProperty(func(t *scene.Text, v string) { t.TextBaseline = v }),
}

// styleProperty adapts a style field assignment. SetStyle normalizes the
// result.
func styleProperty[T any](assign func(st *scene.Style, v T)) propertySetter {
	return func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if !s.tree.Kind(id).IsShape() {
			return ErrWrongKind
		}
		v, err := decode[T](value)
		if err != nil {
			return err
		}
		st := s.tree.Style(id)
		assign(&st, v)
		s.tree.SetStyle(id, st)
		return nil
	}
}

func textProperty(assign func(t *scene.Text, v string)) propertySetter {
	return func(s *Session, id scene.NodeID, value json.RawMessage) error {
		if s.tree.Kind(id) != scene.KindText {
			return ErrWrongKind
		}
		v, err := decode[string](value)
		if err != nil {
			return err
		}
		t := s.tree.Text(id)
		assign(t, v)
		t.Normalize()
		return nil
	}
}

func decode[T any](value json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(value, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return v, nil
}

func decodeNumber(value json.RawMessage) (float64, error) {
	v, err := decode[float64](value)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidValue
	}
	return v, nil
}

func decodeVector(value json.RawMessage) (geom.Vector2, error) {
	v, err := decode[[2]float64](value)
	if err != nil {
		return geom.Vector2{}, err
	}
	out := geom.V2(v[0], v[1])
	if !out.IsFinite() {
		return geom.Vector2{}, ErrInvalidValue
	}
	return out, nil
}

// --- Outline ---

// ObjectInfo summarizes an object for object lists.
type ObjectInfo struct {
	Name     string       `json:"name"`
	Type     string       `json:"type"`
	Visible  bool         `json:"visible"`
	Selected bool         `json:"selected,omitempty"`
	Children []ObjectInfo `json:"children,omitempty"`
}

// Outline returns the object tree below the scene.
func (s *Session) Outline() ObjectInfo {
	return s.outline(s.tree.Root())
}

func (s *Session) outline(id scene.NodeID) ObjectInfo {
	info := ObjectInfo{
		Name:     s.tree.Name(id),
		Type:     s.tree.Kind(id).String(),
		Visible:  s.tree.VisibleFlag(id),
		Selected: id == s.selected,
	}
	for _, c := range s.tree.Children(id) {
		info.Children = append(info.Children, s.outline(c))
	}
	return info
}

// Sync replaces the drawing with a version committed elsewhere. The local
// view and the selection, matched by name, are kept, a transform in
// progress is dropped, and the new state becomes an undoable history point
// without being published again.
func (s *Session) Sync(rec document.Record) error {
	if rec.Type != document.TypeScene {
		return fmt.Errorf("%w: document root is %q", scene.ErrUnknownType, rec.Type)
	}
	s.cancelTransform()

	root := s.tree.Root()
	translate, rotate, scale := s.tree.Translate(root), s.tree.Rotate(root), s.tree.Scale(root)
	name := ""
	if s.tree.Exists(s.selected) {
		name = s.tree.Name(s.selected)
	}

	if err := s.replace(rec); err != nil {
		return err
	}

	root = s.tree.Root()
	s.tree.SetTranslate(root, translate)
	s.tree.SetRotate(root, rotate)
	s.tree.SetScale(root, scale)
	if id, ok := s.tree.FindByName(name); ok {
		s.Select(id)
	}

	s.history.push(s.tree.Serialize(root, true))
	return nil
}
