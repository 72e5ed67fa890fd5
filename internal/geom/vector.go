package geom

import "math"

// Vector2 is a 2D point or direction.
type Vector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V2 returns the vector (x, y).
func V2(x, y float64) Vector2 {
	return Vector2{X: x, Y: y}
}

// Set overwrites both components in place.
func (v *Vector2) Set(x, y float64) *Vector2 {
	v.X = x
	v.Y = y
	return v
}

// Copy overwrites v with o in place.
func (v *Vector2) Copy(o Vector2) *Vector2 {
	v.X = o.X
	v.Y = o.Y
	return v
}

func (v Vector2) Add(o Vector2) Vector2 {
	return Vector2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector2) Sub(o Vector2) Vector2 {
	return Vector2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{X: v.X * s, Y: v.Y * s}
}

func (v Vector2) Dot(o Vector2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// DistanceSquared returns the squared euclidean distance between v and o.
func (v Vector2) DistanceSquared(o Vector2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// Round snaps both components to the nearest multiple of step.
func (v Vector2) Round(step float64) Vector2 {
	return Vector2{X: Snap(v.X, step), Y: Snap(v.Y, step)}
}

// IsFinite reports whether neither component is NaN or infinite.
func (v Vector2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// Snap rounds value to the nearest multiple of step.
func Snap(value, step float64) float64 {
	return math.Round(value/step) * step
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
