package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerKeyEdges(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Apply(Event{Type: EventKeyDown, Key: KeyG}))
	require.NoError(t, tr.Apply(Event{Type: EventKeyDown, Key: KeyG, Repeat: true}))

	s := tr.Snapshot()
	assert.True(t, s.KeyDown(KeyG))
	assert.True(t, s.Key(KeyG))
	assert.Equal(t, []int{KeyG}, s.KeysDown)

	tr.EndFrame()
	s = tr.Snapshot()
	assert.False(t, s.KeyDown(KeyG))
	assert.True(t, s.Key(KeyG))

	require.NoError(t, tr.Apply(Event{Type: EventKeyUp, Key: KeyG}))
	s = tr.Snapshot()
	assert.True(t, s.KeyUp(KeyG))
	assert.False(t, s.Key(KeyG))
}

func TestTrackerKeyUpWithoutDownIgnored(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Apply(Event{Type: EventKeyUp, Key: KeyShift}))
	s := tr.Snapshot()
	assert.False(t, s.KeyUp(KeyShift))
}

func TestTrackerMouse(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Apply(Event{Type: EventMouseDown, Button: ButtonLeft, X: 4, Y: 8}))

	s := tr.Snapshot()
	assert.True(t, s.ButtonDown(ButtonLeft))
	assert.True(t, s.Button(ButtonLeft))
	assert.Equal(t, 4.0, s.Cursor.X)

	tr.EndFrame()
	require.NoError(t, tr.Apply(Event{Type: EventMouseMove, X: 10, Y: 12}))
	require.NoError(t, tr.Apply(Event{Type: EventMouseUp, Button: ButtonLeft, X: 10, Y: 12}))

	s = tr.Snapshot()
	assert.True(t, s.ButtonUp(ButtonLeft))
	assert.False(t, s.Button(ButtonLeft))
	assert.Equal(t, 12.0, s.Cursor.Y)
}

func TestTrackerWheelClamped(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Apply(Event{Type: EventWheel, Delta: 120}))
	require.NoError(t, tr.Apply(Event{Type: EventWheel, Delta: 120}))
	require.NoError(t, tr.Apply(Event{Type: EventWheel, Delta: -0.5}))
	assert.Equal(t, 1.5, tr.Snapshot().WheelDelta)

	tr.EndFrame()
	assert.Zero(t, tr.Snapshot().WheelDelta)
}

func TestTrackerSnapshotIsolated(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Apply(Event{Type: EventMouseDown, Button: ButtonRight}))

	s := tr.Snapshot()
	s.ClearMouseButtons()
	after := tr.Snapshot()
	assert.True(t, after.Button(ButtonRight))

	tr.ClearMouseButtons()
	after = tr.Snapshot()
	assert.False(t, after.Button(ButtonRight))
}

func TestTrackerUnknownEvent(t *testing.T) {
	assert.Error(t, NewTracker().Apply(Event{Type: "touch"}))
}

func TestSnapshotFine(t *testing.T) {
	assert.True(t, (&Snapshot{Keys: []int{KeyShift}}).Fine())
	assert.True(t, (&Snapshot{CapsLock: true}).Fine())
	assert.False(t, (&Snapshot{Keys: []int{KeyControl}}).Fine())
}
