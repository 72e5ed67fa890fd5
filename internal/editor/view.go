package editor

import (
	"math"

	"github.com/canvasdraw/editor/backend-go/internal/geom"
	"github.com/canvasdraw/editor/backend-go/internal/input"
)

const defaultZoomIndex = 13

// zoomLevels are the scene scales the mouse wheel steps through.
var zoomLevels = func() [32]float64 {
	var levels [32]float64
	for i := range levels {
		levels[i] = math.Pow(1.25, float64(i-defaultZoomIndex))
	}
	return levels
}()

// view is the navigation state of the scene.
type view struct {
	zoomIndex  int
	lastCursor geom.Vector2
}

func newView() view {
	return view{zoomIndex: defaultZoomIndex}
}

// navigate pans the scene while the middle button is held and zooms it
// around the canvas center on wheel input.
func (s *Session) navigate(in *input.Snapshot) {
	root := s.tree.Root()
	v := &s.view

	if in.Button(input.ButtonMiddle) {
		s.tree.SetTranslate(root, s.tree.Translate(root).Add(in.Cursor.Sub(v.lastCursor)))
	}
	v.lastCursor = in.Cursor

	if in.WheelDelta != 0 {
		last := zoomLevels[v.zoomIndex]
		center := s.tree.Translate(root).Scale(1 / last)

		if in.WheelDelta < 0 {
			v.zoomIndex = max(0, v.zoomIndex-1)
		} else {
			v.zoomIndex = min(len(zoomLevels)-1, v.zoomIndex+1)
		}

		scale := zoomLevels[v.zoomIndex]
		s.tree.SetTranslate(root, center.Scale(scale))
		s.tree.SetScale(root, geom.V2(scale, scale))
	}
}

// Resize changes the canvas size the scene is centered in.
func (s *Session) Resize(width, height float64) {
	s.tree.Resize(width, height)
}

// SetGrid updates the grid settings. Spacings below 1 become 1.
func (s *Session) SetGrid(spacing float64, enabled bool) {
	if math.IsNaN(spacing) || spacing < 1 {
		spacing = 1
	}
	s.gridSpacing = spacing
	s.gridEnabled = enabled
}
