package input

import (
	"fmt"
	"slices"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Event types accepted by Tracker.Apply.
const (
	EventKeyDown   = "keydown"
	EventKeyUp     = "keyup"
	EventMouseDown = "mousedown"
	EventMouseUp   = "mouseup"
	EventMouseMove = "mousemove"
	EventWheel     = "wheel"
)

// Event is a raw input event as delivered by a client.
type Event struct {
	Type     string  `json:"type"`
	Key      int     `json:"key,omitempty"`
	Button   int     `json:"button,omitempty"`
	Repeat   bool    `json:"repeat,omitempty"`
	CapsLock bool    `json:"capsLock,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
}

// Tracker accumulates events between frames.
type Tracker struct {
	state Snapshot
}

// NewTracker returns an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Apply folds one event into the pending state.
func (t *Tracker) Apply(e Event) error {
	s := &t.state

	switch e.Type {
	case EventKeyDown:
		s.CapsLock = e.CapsLock
		if e.Repeat {
			return nil
		}
		s.KeysDown = add(s.KeysDown, e.Key)
		s.Keys = add(s.Keys, e.Key)

	case EventKeyUp:
		s.CapsLock = e.CapsLock
		if e.Repeat {
			return nil
		}
		if slices.Contains(s.Keys, e.Key) {
			s.KeysUp = add(s.KeysUp, e.Key)
			s.Keys = remove(s.Keys, e.Key)
		}

	case EventMouseDown:
		s.ButtonsDown = add(s.ButtonsDown, e.Button)
		s.Buttons = add(s.Buttons, e.Button)
		s.Cursor = geom.V2(e.X, e.Y)

	case EventMouseUp:
		if slices.Contains(s.Buttons, e.Button) {
			s.ButtonsUp = add(s.ButtonsUp, e.Button)
			s.Buttons = remove(s.Buttons, e.Button)
		}
		s.Cursor = geom.V2(e.X, e.Y)

	case EventMouseMove:
		s.Cursor = geom.V2(e.X, e.Y)

	case EventWheel:
		s.WheelDelta += max(-1, min(1, e.Delta))

	default:
		return fmt.Errorf("unknown input event type: %q", e.Type)
	}

	return nil
}

// Snapshot returns a copy of the current state.
func (t *Tracker) Snapshot() Snapshot {
	s := t.state
	s.KeysDown = slices.Clone(s.KeysDown)
	s.KeysUp = slices.Clone(s.KeysUp)
	s.Keys = slices.Clone(s.Keys)
	s.ButtonsDown = slices.Clone(s.ButtonsDown)
	s.ButtonsUp = slices.Clone(s.ButtonsUp)
	s.Buttons = slices.Clone(s.Buttons)
	return s
}

// EndFrame clears edges and the wheel delta. Levels and the cursor persist.
func (t *Tracker) EndFrame() {
	t.state.KeysDown = t.state.KeysDown[:0]
	t.state.KeysUp = t.state.KeysUp[:0]
	t.state.ButtonsDown = t.state.ButtonsDown[:0]
	t.state.ButtonsUp = t.state.ButtonsUp[:0]
	t.state.WheelDelta = 0
}

// ClearMouseButtons forgets every mouse button, held ones included.
func (t *Tracker) ClearMouseButtons() {
	t.state.ButtonsDown = t.state.ButtonsDown[:0]
	t.state.ButtonsUp = t.state.ButtonsUp[:0]
	t.state.Buttons = t.state.Buttons[:0]
}

func add(set []int, v int) []int {
	if slices.Contains(set, v) {
		return set
	}
	return append(set, v)
}

func remove(set []int, v int) []int {
	return slices.DeleteFunc(set, func(x int) bool { return x == v })
}
