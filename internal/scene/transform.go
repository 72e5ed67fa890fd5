package scene

import (
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// pickDistance is the radius around an object's origin within which it
// can be picked when no shape contains the point.
const pickDistance = 128

func (t *Tree) Translate(id NodeID) geom.Vector2 {
	return t.get(id).translate
}

func (t *Tree) Rotate(id NodeID) float64 {
	return t.get(id).rotate
}

func (t *Tree) Scale(id NodeID) geom.Vector2 {
	return t.get(id).scale
}

func (t *Tree) SetTranslate(id NodeID, v geom.Vector2) {
	n := t.get(id)
	if n.translate == v {
		return
	}
	n.translate = v
	t.Invalidate(id)
}

// SetRotate sets the rotation in degrees, normalized to [0, 360).
func (t *Tree) SetRotate(id NodeID, degrees float64) {
	n := t.get(id)
	degrees = math.Mod(degrees, 360)
	if degrees < 0 {
		degrees += 360
	}
	if n.rotate == degrees {
		return
	}
	n.rotate = degrees
	t.Invalidate(id)
}

func (t *Tree) SetScale(id NodeID, v geom.Vector2) {
	n := t.get(id)
	if n.scale == v {
		return
	}
	n.scale = v
	t.Invalidate(id)
}

// Invalidate marks id and its whole subtree dirty.
func (t *Tree) Invalidate(id NodeID) {
	t.Traverse(id, false, func(c NodeID) {
		t.nodes[c].dirty = true
	})
}

// Dirty reports whether the cached matrices of id are stale.
func (t *Tree) Dirty(id NodeID) bool {
	return t.get(id).dirty
}

// validate recomputes the world matrices of id if they are stale. The
// parent is validated first; the scene starts from the canvas center.
func (t *Tree) validate(id NodeID) *node {
	n := t.get(id)
	if !n.dirty {
		return n
	}

	m := geom.Identity()
	if n.parent == NoNode {
		m.Translate(t.width/2, t.height/2)
	} else {
		m = t.validate(n.parent).world
	}

	m.Translate(n.translate.X, n.translate.Y).
		Rotate(n.rotate * math.Pi / 180).
		Scale(n.scale.X, n.scale.Y)

	n.world = m
	n.inverse = m
	n.inverse.Invert()
	n.dirty = false
	return n
}

// WorldMatrix maps local coordinates of id to canvas pixels.
func (t *Tree) WorldMatrix(id NodeID) geom.Matrix {
	return t.validate(id).world
}

// InverseWorldMatrix maps canvas pixels to local coordinates of id.
func (t *Tree) InverseWorldMatrix(id NodeID) geom.Matrix {
	return t.validate(id).inverse
}

func (t *Tree) LocalToWorld(id NodeID, p geom.Vector2) geom.Vector2 {
	return t.validate(id).world.MultiplyPoint(p)
}

func (t *Tree) WorldToLocal(id NodeID, p geom.Vector2) geom.Vector2 {
	return t.validate(id).inverse.MultiplyPoint(p)
}

// Space is the coordinate space of one node. It satisfies handle.Space.
type Space struct {
	tree *Tree
	id   NodeID
}

// Space returns the coordinate space of id.
func (t *Tree) Space(id NodeID) Space {
	t.get(id)
	return Space{tree: t, id: id}
}

func (s Space) LocalToWorld(p geom.Vector2) geom.Vector2 {
	return s.tree.LocalToWorld(s.id, p)
}

func (s Space) WorldToLocal(p geom.Vector2) geom.Vector2 {
	return s.tree.WorldToLocal(s.id, p)
}

// CanvasBounds returns the visible canvas area in local coordinates of id.
func (t *Tree) CanvasBounds(id NodeID) geom.Rect {
	return t.InverseWorldMatrix(id).TransformRect(geom.Rect{Width: t.width, Height: t.height})
}

// ContainsPoint runs the shape containment test of id for a point in
// canvas pixels. Kinds without a shape contain nothing.
func (t *Tree) ContainsPoint(id NodeID, world geom.Vector2) bool {
	n := t.get(id)
	contains := kinds[n.kind].containsPoint
	if contains == nil {
		return false
	}
	return contains(n, t.WorldToLocal(id, world))
}

// ObjectAtPoint returns the object under a canvas point, searching the
// subtree of from front to back. The first shape containing the point
// wins; otherwise the object whose origin is nearest within 128 pixels;
// otherwise from itself.
func (t *Tree) ObjectAtPoint(from NodeID, p geom.Vector2) NodeID {
	closest := from
	closestDistance2 := float64(pickDistance * pickDistance)

	t.Traverse(from, true, func(id NodeID) {
		if closestDistance2 == 0 {
			return
		}

		if t.ContainsPoint(id, p) {
			closestDistance2 = 0
			closest = id
			return
		}

		d2 := t.LocalToWorld(id, geom.Vector2{}).DistanceSquared(p)
		if d2 < closestDistance2 {
			closestDistance2 = d2
			closest = id
		}
	})

	return closest
}

// Focus pans the scene so the origin of id lands on the canvas center.
func (t *Tree) Focus(id NodeID) {
	root := t.root
	p := t.WorldToLocal(root, t.LocalToWorld(id, geom.Vector2{}))
	s := t.Scale(root)
	t.SetTranslate(root, geom.V2(-p.X*s.X, -p.Y*s.Y))
}
