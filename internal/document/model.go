// Package document defines the plain-record tree a drawing is stored and
// exchanged as, plus the sanitizers applied to user-supplied values.
package document

import (
	"encoding/json"
	"fmt"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Version tags exported root records. Importers compare it and warn on
// mismatch.
const Version = "1.0.2"

// Object types.
const (
	TypeScene     = "scene"
	TypeTransform = "transform"
	TypePath      = "path"
	TypeRectangle = "rectangle"
	TypeEllipse   = "ellipse"
	TypeText      = "text"
)

// Record is one object of a drawing and its subtree. Type-specific fields
// are omitted for types that do not use them.
type Record struct {
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Visible  *bool    `json:"visible,omitempty"`
	Children []Record `json:"children"`
	Version  string   `json:"version,omitempty"`

	// Transform
	Translate *[2]float64 `json:"translate,omitempty"`
	Rotate    *float64    `json:"rotate,omitempty"`
	Scale     *[2]float64 `json:"scale,omitempty"`

	// Shape style
	FillStyle   string   `json:"fillStyle,omitempty"`
	StrokeStyle string   `json:"strokeStyle,omitempty"`
	LineWidth   *float64 `json:"lineWidth,omitempty"`
	MiterLimit  *float64 `json:"miterLimit,omitempty"`
	LineDash    string   `json:"lineDash,omitempty"`
	LineJoin    string   `json:"lineJoin,omitempty"`
	LineCap     string   `json:"lineCap,omitempty"`

	// Path
	Points  []geom.PathPoint `json:"points,omitempty"`
	Closed  *bool            `json:"closed,omitempty"`
	Drawing *bool            `json:"drawing,omitempty"`

	// Rectangle and ellipse
	Position *[2]float64 `json:"position,omitempty"`
	Size     *[2]float64 `json:"size,omitempty"`
	Radius   *[2]float64 `json:"radius,omitempty"`

	// Text
	Text         string `json:"text,omitempty"`
	Font         string `json:"font,omitempty"`
	TextAlign    string `json:"textAlign,omitempty"`
	TextBaseline string `json:"textBaseline,omitempty"`
}

// Parse decodes a record tree.
func Parse(data []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parsing document: %w", err)
	}
	if rec.Type == "" {
		return Record{}, fmt.Errorf("parsing document: missing type")
	}
	return rec, nil
}

// Marshal encodes a record tree as indented JSON.
func Marshal(rec Record) ([]byte, error) {
	return json.MarshalIndent(rec, "", "  ")
}

// Walk visits rec and its descendants in pre-order.
func (r *Record) Walk(fn func(*Record)) {
	fn(r)
	for i := range r.Children {
		r.Children[i].Walk(fn)
	}
}

// Count returns the number of records in the tree.
func (r *Record) Count() int {
	n := 0
	r.Walk(func(*Record) { n++ })
	return n
}

// NewEmptyDocument returns a scene with no children.
func NewEmptyDocument(name string) Record {
	return Record{
		Type:      TypeScene,
		Name:      SanitizeName(name),
		Children:  []Record{},
		Version:   Version,
		Translate: &[2]float64{0, 0},
		Rotate:    new(float64),
		Scale:     &[2]float64{1, 1},
	}
}
