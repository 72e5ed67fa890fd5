package scene

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Serialize converts the subtree of id to records. With meta set the
// editor-only state is included, as used for history and duplication.
func (t *Tree) Serialize(id NodeID, meta bool) document.Record {
	n := t.get(id)

	rec := document.Record{
		Type:     n.kind.String(),
		Name:     n.name,
		Children: make([]document.Record, 0, len(n.children)),
	}
	if !meta || n.kind != KindScene {
		rec.Visible = ptrTo(n.visible)
	}

	rec.Translate = pair(n.translate)
	rec.Rotate = ptrTo(n.rotate)
	rec.Scale = pair(n.scale)

	if n.kind.IsShape() {
		s := n.style
		rec.FillStyle = s.Fill
		rec.StrokeStyle = s.Stroke
		rec.LineWidth = ptrTo(s.LineWidth)
		miterLimit := float64(DefaultMiterLimit)
		if s.LineJoin == "miter" {
			miterLimit = s.MiterLimit
		}
		rec.MiterLimit = &miterLimit
		rec.LineDash = document.FormatNumberList(s.LineDash, ",")
		rec.LineJoin = s.LineJoin
		rec.LineCap = s.LineCap
	}

	if serialize := kinds[n.kind].serialize; serialize != nil {
		serialize(n, &rec, meta)
	}

	for _, c := range n.children {
		rec.Children = append(rec.Children, t.Serialize(c, meta))
	}
	return rec
}

// Export serializes the subtree of id for saving, tagged with the format
// version.
func (t *Tree) Export(id NodeID) document.Record {
	rec := t.Serialize(id, false)
	rec.Version = document.Version
	return rec
}

// Deserialize builds the records under parent and returns the new node.
// A scene record replaces the whole tree, invalidating every previous
// NodeID. Missing or malformed fields fall back to defaults; a version
// other than the current one only logs a warning. The tree is left
// untouched when the records contain an unknown type.
func (t *Tree) Deserialize(rec document.Record, parent NodeID) (NodeID, error) {
	if rec.Version != "" && rec.Version != document.Version {
		slog.Warn("object was created by another version and may not load correctly",
			"version", rec.Version, "current", document.Version)
	}

	if err := checkTypes(&rec); err != nil {
		return NoNode, err
	}

	kind, _ := ParseKind(rec.Type)
	if kind == KindScene {
		t.Reset()
		parent = NoNode
	} else if parent == NoNode {
		return NoNode, fmt.Errorf("deserializing %q: %w", rec.Name, ErrNoParent)
	} else {
		t.get(parent)
	}

	return t.build(&rec, parent), nil
}

// checkTypes rejects record trees with unknown types or a nested scene.
func checkTypes(rec *document.Record) error {
	var err error
	depth := 0
	var walk func(r *document.Record)
	walk = func(r *document.Record) {
		kind, ok := ParseKind(r.Type)
		switch {
		case err != nil:
			return
		case !ok:
			err = fmt.Errorf("%w %q", ErrUnknownType, r.Type)
			return
		case kind == KindScene && depth > 0:
			err = fmt.Errorf("%w: nested scene %q", ErrUnknownType, r.Name)
			return
		}
		depth++
		for i := range r.Children {
			walk(&r.Children[i])
		}
		depth--
	}
	walk(rec)
	return err
}

func (t *Tree) build(rec *document.Record, parent NodeID) NodeID {
	kind, _ := ParseKind(rec.Type)
	id := t.Create(kind, parent, rec.Name)
	n := t.get(id)

	if kind != KindScene {
		n.visible = rec.Visible == nil || *rec.Visible
	}

	n.translate = vectorOr(rec.Translate, geom.Vector2{})
	n.scale = scaleOr(rec.Scale)
	n.rotate = 0
	if rec.Rotate != nil && isFinite(*rec.Rotate) {
		n.rotate = math.Mod(*rec.Rotate, 360)
		if n.rotate < 0 {
			n.rotate += 360
		}
	}

	if kind.IsShape() {
		def := DefaultStyle()
		n.style = Style{
			Fill:       document.SanitizeColor(rec.FillStyle),
			Stroke:     document.SanitizeColor(rec.StrokeStyle),
			LineWidth:  floatOr(rec.LineWidth, def.LineWidth),
			LineDash:   document.ParseNumberList(rec.LineDash),
			LineJoin:   rec.LineJoin,
			LineCap:    rec.LineCap,
			MiterLimit: floatOr(rec.MiterLimit, def.MiterLimit),
		}.Normalize()
	}

	if deserialize := kinds[kind].deserialize; deserialize != nil {
		deserialize(n, rec)
	}

	for i := range rec.Children {
		t.build(&rec.Children[i], id)
	}

	t.Invalidate(id)
	return id
}

func ptrTo[T any](v T) *T {
	return &v
}

// scaleOr reads a scale, replacing zero or non-finite components with 1
// so the world matrix stays invertible.
func scaleOr(p *[2]float64) geom.Vector2 {
	v := geom.V2(1, 1)
	if p == nil {
		return v
	}
	if isFinite(p[0]) && p[0] != 0 {
		v.X = p[0]
	}
	if isFinite(p[1]) && p[1] != 0 {
		v.Y = p[1]
	}
	return v
}

func floatOr(p *float64, fallback float64) float64 {
	if p == nil || !isFinite(*p) {
		return fallback
	}
	return *p
}

// Duplicate copies the subtree of id, including editor state, as the
// last child of its parent.
func (t *Tree) Duplicate(id NodeID) (NodeID, error) {
	if id == t.root {
		return NoNode, ErrRoot
	}
	return t.Deserialize(t.Serialize(id, true), t.Parent(id))
}

// CopyStyle copies the paint settings of src onto dst. Paths also take
// the closed flag of a path and text takes the font settings of a text.
func (t *Tree) CopyStyle(dst, src NodeID) {
	d, s := t.get(dst), t.get(src)
	if !d.kind.IsShape() || !s.kind.IsShape() {
		return
	}

	d.style = s.style
	d.style.LineDash = slices.Clone(s.style.LineDash)

	switch dp := d.payload.(type) {
	case *Path:
		if sp, ok := s.payload.(*Path); ok {
			dp.Closed = sp.Closed
		}
	case *Text:
		if sp, ok := s.payload.(*Text); ok {
			dp.Font = sp.Font
			dp.TextAlign = sp.TextAlign
			dp.TextBaseline = sp.TextBaseline
		}
	}
}
