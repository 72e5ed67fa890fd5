// Package input tracks raw keyboard and mouse events and exposes them to
// the editor as one snapshot per frame.
package input

// Key codes follow the browser keyCode values.
const (
	KeyShift    = 16
	KeyControl  = 17
	KeyCapsLock = 20
	KeyEscape   = 27
	KeyDelete   = 46
	KeyD        = 68
	KeyG        = 71
	KeyR        = 82
	KeyS        = 83
	KeyY        = 89
	KeyZ        = 90
)

// Mouse buttons.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)
