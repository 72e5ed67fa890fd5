package scene

import (
	"fmt"
	"strings"

	"github.com/canvasdraw/editor/backend-go/internal/document"
)

// Kind identifies the variant of a node.
type Kind int

const (
	KindScene Kind = iota
	KindTransform
	KindPath
	KindRectangle
	KindEllipse
	KindText

	kindCount
)

var kindNames = [kindCount]string{
	KindScene:     document.TypeScene,
	KindTransform: document.TypeTransform,
	KindPath:      document.TypePath,
	KindRectangle: document.TypeRectangle,
	KindEllipse:   document.TypeEllipse,
	KindText:      document.TypeText,
}

func (k Kind) valid() bool {
	return k >= 0 && k < kindCount
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Title is the default object name for the kind.
func (k Kind) Title() string {
	s := k.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// IsShape reports whether nodes of this kind carry a style and paint
// something.
func (k Kind) IsShape() bool {
	return k.valid() && kinds[k].shape
}

// ParseKind maps a record type to its kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}
