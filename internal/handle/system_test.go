package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
	"github.com/canvasdraw/editor/backend-go/internal/render"
)

// offsetSpace places local coordinates at an offset in canvas pixels.
type offsetSpace struct {
	offset geom.Vector2
}

func (o offsetSpace) LocalToWorld(p geom.Vector2) geom.Vector2 { return p.Add(o.offset) }
func (o offsetSpace) WorldToLocal(p geom.Vector2) geom.Vector2 { return p.Sub(o.offset) }

var identity = offsetSpace{}

func frame(cursor geom.Vector2) *input.Snapshot {
	return &input.Snapshot{Cursor: cursor}
}

func press(cursor geom.Vector2, keys ...int) *input.Snapshot {
	return &input.Snapshot{
		Cursor:      cursor,
		ButtonsDown: []int{input.ButtonLeft},
		Buttons:     []int{input.ButtonLeft},
		Keys:        keys,
	}
}

func hold(cursor geom.Vector2) *input.Snapshot {
	return &input.Snapshot{Cursor: cursor, Buttons: []int{input.ButtonLeft}}
}

func release(cursor geom.Vector2) *input.Snapshot {
	return &input.Snapshot{Cursor: cursor, ButtonsUp: []int{input.ButtonLeft}}
}

func TestNearestHandleHover(t *testing.T) {
	s := NewSystem()
	a := s.Create(identity, ShapeSquare, true)
	a.P0 = geom.V2(0, 0)
	b := s.Create(identity, ShapeSquare, true)
	b.P0 = geom.V2(20, 0)

	s.Update(frame(geom.V2(15, 0)), 1)
	assert.False(t, a.Hovered)
	assert.True(t, b.Hovered)

	s.Update(frame(geom.V2(100, 100)), 1)
	assert.False(t, a.Hovered)
	assert.False(t, b.Hovered)
}

func TestNearestTieFavorsFirstCreated(t *testing.T) {
	s := NewSystem()
	a := s.Create(identity, ShapeSquare, true)
	a.P0 = geom.V2(-10, 0)
	b := s.Create(identity, ShapeSquare, true)
	b.P0 = geom.V2(10, 0)

	s.Update(frame(geom.V2(0, 0)), 1)
	assert.True(t, a.Hovered)
	assert.False(t, b.Hovered)
}

func TestPointTierBeatsCloserCurve(t *testing.T) {
	s := NewSystem()
	side := s.Create(identity, ShapeDiamond, false)
	side.CurveOrder = CurveSegment
	side.P0 = geom.V2(-100, 0)
	side.P1 = geom.V2(100, 0)

	corner := s.Create(identity, ShapeSquare, true)
	corner.P0 = geom.V2(0, 20)

	s.Update(frame(geom.V2(0, 1)), 1)
	assert.True(t, corner.Hovered)
	assert.False(t, side.Hovered)
}

func TestCurveHandlePosition(t *testing.T) {
	s := NewSystem()
	side := s.Create(identity, ShapeDiamond, false)
	side.CurveOrder = CurveSegment
	side.P0 = geom.V2(0, 0)
	side.P1 = geom.V2(100, 0)

	s.Update(frame(geom.V2(40, 10)), 1)
	require.True(t, side.Hovered)
	assert.Equal(t, geom.V2(40, 0), side.HoveredPosition)

	cubic := s.Create(identity, ShapeDiamond, false)
	cubic.CurveOrder = CurveCubic
	cubic.P0 = geom.V2(0, 100)
	cubic.P1 = geom.V2(30, 100)
	cubic.P2 = geom.V2(60, 100)
	cubic.P3 = geom.V2(90, 100)
	side.Enabled = false

	s.Update(frame(geom.V2(45, 105)), 1)
	require.True(t, cubic.Hovered)
	assert.InDelta(t, 45, cubic.HoveredPosition.X, 0.5)
	assert.InDelta(t, 100, cubic.HoveredPosition.Y, 1e-9)
}

func TestSnapping(t *testing.T) {
	s := NewSystem()
	h := s.Create(offsetSpace{offset: geom.V2(100, 100)}, ShapeSquare, true)

	s.Update(frame(geom.V2(107.3, 93.6)), 5)
	assert.Equal(t, geom.V2(5, -5), h.HoveredPosition)

	s.Update(&input.Snapshot{Cursor: geom.V2(107.3, 93.6), Keys: []int{input.KeyShift}}, 5)
	assert.InDelta(t, 7.3, h.HoveredPosition.X, 1e-9)
	assert.InDelta(t, -6.4, h.HoveredPosition.Y, 1e-9)

	s.Update(&input.Snapshot{Cursor: geom.V2(107.3, 93.6), CapsLock: true}, 5)
	assert.InDelta(t, 7.3, h.HoveredPosition.X, 1e-9)
}

func TestPressHoldRelease(t *testing.T) {
	s := NewSystem()
	h := s.Create(identity, ShapeSquare, false)
	other := s.Create(identity, ShapeSquare, false)
	other.P0 = geom.V2(30, 0)

	s.Update(press(geom.V2(1, 1)), 1)
	assert.True(t, h.Pressed)
	assert.True(t, h.Held)
	assert.True(t, h.Dragged)
	assert.False(t, h.Hovered, "hover is suppressed while dragging")

	s.Update(hold(geom.V2(28, 0)), 1)
	assert.False(t, h.Pressed)
	assert.True(t, h.Held)
	assert.False(t, other.Hovered)
	assert.Equal(t, geom.V2(28, 0), h.HoveredPosition)

	s.Update(release(geom.V2(28, 0)), 1)
	assert.True(t, h.Released)
	assert.False(t, h.Held)
	assert.False(t, h.Dragged)

	s.Update(frame(geom.V2(28, 0)), 1)
	assert.False(t, h.Released)
	assert.True(t, other.Hovered)
}

func TestMarqueeSelection(t *testing.T) {
	for _, withControl := range []bool{false, true} {
		s := NewSystem()
		inside := s.Create(identity, ShapeSquare, true)
		inside.P0 = geom.V2(50, 50)
		edge := s.Create(identity, ShapeSquare, true)
		edge.P0 = geom.V2(100, 0)
		outside := s.Create(identity, ShapeSquare, true)
		outside.P0 = geom.V2(150, 50)
		unselectable := s.Create(identity, ShapeSquare, false)
		unselectable.P0 = geom.V2(60, 60)

		var keys []int
		if withControl {
			keys = []int{input.KeyControl}
		}

		// Drag from bottom-right to top-left; the box is normalized.
		s.Update(press(geom.V2(100, 100), keys...), 1)
		require.True(t, s.Selecting())

		s.Update(hold(geom.V2(0, 0)), 1)
		assert.True(t, inside.InSelectionBox())
		assert.True(t, edge.InSelectionBox())
		assert.False(t, outside.InSelectionBox())
		assert.False(t, unselectable.InSelectionBox())
		assert.Equal(t, geom.Rect{Width: 100, Height: 100}, s.SelectionRect())

		s.Update(release(geom.V2(0, 0)), 1)
		assert.False(t, s.Selecting())

		for _, h := range []*Handle{inside, edge} {
			assert.Equal(t, !withControl, h.Selected)
			assert.Equal(t, withControl, h.SelectedWithControl)
		}
		assert.False(t, outside.Selected || outside.SelectedWithControl)
		assert.False(t, unselectable.Selected || unselectable.SelectedWithControl)
	}
}

func TestMarqueeModifierDecidedAtStart(t *testing.T) {
	s := NewSystem()
	h := s.Create(identity, ShapeSquare, true)
	h.P0 = geom.V2(50, 50)

	s.Update(press(geom.V2(100, 100)), 1)
	s.Update(&input.Snapshot{Cursor: geom.V2(0, 0), Buttons: []int{input.ButtonLeft}, Keys: []int{input.KeyControl}}, 1)
	s.Update(&input.Snapshot{Cursor: geom.V2(0, 0), ButtonsUp: []int{input.ButtonLeft}, Keys: []int{input.KeyControl}}, 1)

	assert.True(t, h.Selected)
	assert.False(t, h.SelectedWithControl)
}

func TestPressOnUnselectableClearsSelection(t *testing.T) {
	s := NewSystem()
	a := s.Create(identity, ShapeSquare, true)
	a.Selected = true
	a.P0 = geom.V2(200, 200)
	b := s.Create(identity, ShapeSquare, true)
	b.SelectedWithControl = true
	b.P0 = geom.V2(300, 300)
	plain := s.Create(identity, ShapeCircle, false)

	s.Update(press(geom.V2(0, 0)), 1)
	assert.True(t, plain.Pressed)
	assert.False(t, a.Selected)
	assert.False(t, b.SelectedWithControl)
	assert.False(t, s.Selecting())
}

func TestGroupDrag(t *testing.T) {
	s := NewSystem()
	lead := s.Create(identity, ShapeSquare, true)
	lead.P0 = geom.V2(0, 0)
	lead.Selected = true
	follower := s.Create(identity, ShapeSquare, true)
	follower.P0 = geom.V2(100, 40)
	follower.Selected = true
	bystander := s.Create(identity, ShapeSquare, true)
	bystander.P0 = geom.V2(200, 200)

	s.Update(press(geom.V2(0, 0)), 1)
	s.Update(hold(geom.V2(7, -3)), 1)

	require.True(t, lead.Dragged)
	assert.Equal(t, geom.V2(7, -3), lead.HoveredPosition)
	assert.True(t, follower.Dragged)
	assert.False(t, follower.Held)
	assert.Equal(t, geom.V2(107, 37), follower.HoveredPosition)
	assert.False(t, bystander.Dragged)
	assert.NotEqual(t, geom.V2(207, 197), bystander.HoveredPosition)
}

func TestDisabledHandlesIgnored(t *testing.T) {
	s := NewSystem()
	h := s.Create(identity, ShapeSquare, true)
	h.Enabled = false

	s.Update(press(geom.V2(0, 0)), 1)
	assert.False(t, h.Pressed)
	assert.True(t, s.Selecting())
}

func TestInvalidShapePanics(t *testing.T) {
	assert.Panics(t, func() { NewSystem().Create(identity, Shape(9), false) })
}

func TestInvalidCurveOrderPanics(t *testing.T) {
	s := NewSystem()
	h := s.Create(identity, ShapeDiamond, false)
	h.CurveOrder = 2
	assert.Panics(t, func() { s.Update(frame(geom.V2(0, 0)), 1) })
}

func TestClear(t *testing.T) {
	s := NewSystem()
	s.Create(identity, ShapeSquare, true)
	s.Clear()
	assert.Zero(t, s.Len())
}

func TestDraw(t *testing.T) {
	s := NewSystem()
	corner := s.Create(identity, ShapeSquare, true)
	corner.P0 = geom.V2(10, 10)
	side := s.Create(identity, ShapeDiamond, false)
	side.CurveOrder = CurveSegment
	side.P0 = geom.V2(500, 500)
	side.P1 = geom.V2(600, 500)

	s.Update(press(geom.V2(300, 300)), 1)

	rec := render.NewRecorder()
	s.Draw(rec)

	var rects, fills int
	for _, cmd := range rec.Commands() {
		switch cmd.Op {
		case render.OpRect:
			rects++
		case render.OpFill:
			fills++
		}
	}
	// The corner square and the marquee; the idle side handle is hidden.
	assert.Equal(t, 2, rects)
	assert.Equal(t, 2, fills)
	assert.Equal(t, "#FFA200", s.Color(corner))
}
