package input

import (
	"slices"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
)

// Snapshot is the input state for one frame. Down and Up sets hold edges
// that happened since the previous frame, the plain sets hold levels.
type Snapshot struct {
	KeysDown    []int        `json:"keysDown,omitempty"`
	KeysUp      []int        `json:"keysUp,omitempty"`
	Keys        []int        `json:"keys,omitempty"`
	ButtonsDown []int        `json:"buttonsDown,omitempty"`
	ButtonsUp   []int        `json:"buttonsUp,omitempty"`
	Buttons     []int        `json:"buttons,omitempty"`
	CapsLock    bool         `json:"capsLock,omitempty"`
	Cursor      geom.Vector2 `json:"cursor"`
	WheelDelta  float64      `json:"wheelDelta,omitempty"`
}

func (s *Snapshot) KeyDown(key int) bool {
	return slices.Contains(s.KeysDown, key)
}

func (s *Snapshot) KeyUp(key int) bool {
	return slices.Contains(s.KeysUp, key)
}

func (s *Snapshot) Key(key int) bool {
	return slices.Contains(s.Keys, key)
}

func (s *Snapshot) ButtonDown(button int) bool {
	return slices.Contains(s.ButtonsDown, button)
}

func (s *Snapshot) ButtonUp(button int) bool {
	return slices.Contains(s.ButtonsUp, button)
}

func (s *Snapshot) Button(button int) bool {
	return slices.Contains(s.Buttons, button)
}

// Fine reports whether fine adjustment is active: shift held or caps lock on.
func (s *Snapshot) Fine() bool {
	return s.Key(KeyShift) || s.CapsLock
}

// ClearMouseButtons drops every mouse button edge and level so a consumed
// click is not seen again by later stages of the frame.
func (s *Snapshot) ClearMouseButtons() {
	s.ButtonsDown = nil
	s.ButtonsUp = nil
	s.Buttons = nil
}
