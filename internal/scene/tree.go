// Package scene holds the object hierarchy of a drawing: an arena of nodes
// linked by index, each with a local transform, lazily cached world
// matrices and a kind-specific payload.
package scene

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/canvasdraw/editor/backend-go/internal/document"
	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

var (
	ErrCycle       = errors.New("cannot move an object into its own subtree")
	ErrRoot        = errors.New("the scene cannot be moved")
	ErrUnknownType = errors.New("unknown object type")
	ErrNoParent    = errors.New("object needs a parent")
)

// NodeID addresses a node in the tree arena.
type NodeID int32

// NoNode is the parent of the root.
const NoNode NodeID = -1

type node struct {
	alive bool
	kind  Kind
	name  string

	visible bool

	parent   NodeID
	children []NodeID

	translate geom.Vector2
	rotate    float64
	scale     geom.Vector2

	world   geom.Matrix
	inverse geom.Matrix
	dirty   bool

	style   Style
	payload Payload
}

// Tree is the object hierarchy of one drawing. IDs of deleted nodes are
// never reused until the tree is reset by loading a new scene.
type Tree struct {
	nodes  []node
	root   NodeID
	width  float64
	height float64
}

// NewTree returns a tree holding an empty scene for a canvas of the given
// size.
func NewTree(width, height float64) *Tree {
	t := &Tree{root: NoNode, width: width, height: height}
	t.Create(KindScene, NoNode, "")
	return t
}

func (t *Tree) get(id NodeID) *node {
	if id < 0 || int(id) >= len(t.nodes) || !t.nodes[id].alive {
		panic(fmt.Sprintf("scene: invalid node %d", id))
	}
	return &t.nodes[id]
}

// Exists reports whether id refers to a live node.
func (t *Tree) Exists(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].alive
}

// Root returns the scene node.
func (t *Tree) Root() NodeID {
	return t.root
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	n := 0
	for i := range t.nodes {
		if t.nodes[i].alive {
			n++
		}
	}
	return n
}

// CanvasSize returns the canvas size the scene is centered in.
func (t *Tree) CanvasSize() (float64, float64) {
	return t.width, t.height
}

// Resize changes the canvas size and invalidates every world matrix.
func (t *Tree) Resize(width, height float64) {
	t.width, t.height = width, height
	t.Invalidate(t.root)
}

// Create adds a node of the given kind as the last child of parent. Only
// the scene has no parent and there is only ever one scene.
func (t *Tree) Create(kind Kind, parent NodeID, name string) NodeID {
	if !kind.valid() {
		panic(fmt.Sprintf("scene: invalid kind %d", int(kind)))
	}
	if (kind == KindScene) != (parent == NoNode) {
		panic("scene: only the scene has no parent")
	}
	if kind == KindScene && t.root != NoNode {
		panic("scene: tree already has a scene")
	}
	if parent != NoNode {
		t.get(parent)
	}

	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, node{
		alive:   true,
		kind:    kind,
		visible: true,
		parent:  parent,
		scale:   geom.V2(1, 1),
		world:   geom.Identity(),
		inverse: geom.Identity(),
		dirty:   true,
		payload: kinds[kind].newPayload(),
	})
	if kind.IsShape() {
		t.nodes[id].style = DefaultStyle()
	}

	if parent == NoNode {
		t.root = id
	} else {
		p := t.get(parent)
		p.children = append(p.children, id)
	}

	if name == "" {
		name = kind.Title()
	}
	t.SetName(id, name)

	return id
}

// Delete removes id and its subtree. Deleting the scene removes its
// children only.
func (t *Tree) Delete(id NodeID) {
	n := t.get(id)
	for len(n.children) > 0 {
		t.Delete(n.children[0])
		n = t.get(id)
	}

	if id == t.root {
		return
	}

	p := t.get(n.parent)
	p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == id })

	*n = node{}
}

// Reset discards every node including the scene.
func (t *Tree) Reset() {
	t.nodes = t.nodes[:0]
	t.root = NoNode
}

// Reparent moves id under parent at the given child index. A negative or
// out of range index appends.
func (t *Tree) Reparent(id, parent NodeID, index int) error {
	n := t.get(id)
	t.get(parent)

	if id == t.root {
		return ErrRoot
	}
	if t.IsAncestor(id, parent) {
		return ErrCycle
	}

	old := t.get(n.parent)
	old.children = slices.DeleteFunc(old.children, func(c NodeID) bool { return c == id })

	p := t.get(parent)
	if index < 0 || index > len(p.children) {
		index = len(p.children)
	}
	p.children = slices.Insert(p.children, index, id)
	n.parent = parent

	t.Invalidate(id)
	return nil
}

// IsAncestor reports whether ancestor is id or one of its ancestors.
func (t *Tree) IsAncestor(ancestor, id NodeID) bool {
	for cur := id; cur != NoNode; cur = t.get(cur).parent {
		if cur == ancestor {
			return true
		}
	}
	return false
}

// Parent returns the parent of id, NoNode for the scene.
func (t *Tree) Parent(id NodeID) NodeID {
	return t.get(id).parent
}

// Children returns the children of id in draw order. The slice is owned by
// the tree.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.get(id).children
}

// IndexOf returns the position of id among its siblings.
func (t *Tree) IndexOf(id NodeID) int {
	n := t.get(id)
	if n.parent == NoNode {
		return 0
	}
	return slices.Index(t.get(n.parent).children, id)
}

func (t *Tree) Kind(id NodeID) Kind {
	return t.get(id).kind
}

func (t *Tree) Name(id NodeID) string {
	return t.get(id).name
}

var trailingNumber = regexp.MustCompile(`\s+\d+$`)

// SetName sanitizes name and makes it unique by appending a number, as in
// "Rectangle 2".
func (t *Tree) SetName(id NodeID, name string) {
	n := t.get(id)
	name = document.SanitizeName(name)
	prefix := trailingNumber.ReplaceAllString(name, "")

	for i := 1; t.nameTaken(id, name); i++ {
		name = fmt.Sprintf("%s %d", prefix, i)
	}
	n.name = name
}

func (t *Tree) nameTaken(self NodeID, name string) bool {
	for i := range t.nodes {
		if NodeID(i) != self && t.nodes[i].alive && t.nodes[i].name == name {
			return true
		}
	}
	return false
}

// FindByName returns the node with the given name.
func (t *Tree) FindByName(name string) (NodeID, bool) {
	for i := range t.nodes {
		if t.nodes[i].alive && t.nodes[i].name == name {
			return NodeID(i), true
		}
	}
	return NoNode, false
}

// VisibleFlag returns the node's own visibility flag.
func (t *Tree) VisibleFlag(id NodeID) bool {
	return t.get(id).visible
}

func (t *Tree) SetVisible(id NodeID, visible bool) {
	t.get(id).visible = visible
}

// Visible reports whether id and all of its ancestors are visible.
func (t *Tree) Visible(id NodeID) bool {
	for cur := id; cur != NoNode; {
		n := t.get(cur)
		if !n.visible {
			return false
		}
		cur = n.parent
	}
	return true
}

// Traverse calls fn for id and its subtree. Forward order is pre-order
// in sibling order. Reverse order visits children last to first, each
// before its parent, which is front to back in draw order.
func (t *Tree) Traverse(id NodeID, reverse bool, fn func(NodeID)) {
	n := t.get(id)
	if reverse {
		for i := len(n.children) - 1; i >= 0; i-- {
			t.Traverse(n.children[i], true, fn)
		}
		fn(id)
		return
	}

	fn(id)
	for _, c := range slices.Clone(n.children) {
		t.Traverse(c, false, fn)
	}
}
