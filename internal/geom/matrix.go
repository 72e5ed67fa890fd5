package geom

import "math"

// Matrix represents a 2D affine transformation matrix.
// Layout: [a, b, c, d, e, f] representing:
// | a  c  e |
// | b  d  f |
// | 0  0  1 |
//
// Where:
// - a, d = scale
// - b, c = skew/rotation
// - e, f = translation
//
// The composing methods mutate the receiver and return it so calls can be
// chained without allocating. Copy a matrix by value before composing if
// the original is still needed.
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Reset sets m to the identity matrix.
func (m *Matrix) Reset() *Matrix {
	*m = Identity()
	return m
}

// Set overwrites all six coefficients.
func (m *Matrix) Set(a, b, c, d, e, f float64) *Matrix {
	*m = Matrix{a, b, c, d, e, f}
	return m
}

// Multiply right-composes other onto m: m = m * other.
// Points mapped through the result go through other first, then m.
func (m *Matrix) Multiply(other Matrix) *Matrix {
	*m = Matrix{
		m[0]*other[0] + m[2]*other[1],        // a
		m[1]*other[0] + m[3]*other[1],        // b
		m[0]*other[2] + m[2]*other[3],        // c
		m[1]*other[2] + m[3]*other[3],        // d
		m[0]*other[4] + m[2]*other[5] + m[4], // e
		m[1]*other[4] + m[3]*other[5] + m[5], // f
	}
	return m
}

// Translate composes a translation onto m.
func (m *Matrix) Translate(tx, ty float64) *Matrix {
	return m.Multiply(Matrix{1, 0, 0, 1, tx, ty})
}

// Scale composes a scale onto m.
func (m *Matrix) Scale(sx, sy float64) *Matrix {
	return m.Multiply(Matrix{sx, 0, 0, sy, 0, 0})
}

// Rotate composes a rotation onto m (angle in radians).
func (m *Matrix) Rotate(radians float64) *Matrix {
	cos := math.Cos(radians)
	sin := math.Sin(radians)
	return m.Multiply(Matrix{cos, sin, -sin, cos, 0, 0})
}

// Determinant returns the determinant of the linear part.
func (m Matrix) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Invert replaces m with its inverse. A singular matrix is not guarded
// against: the coefficients become infinite or NaN.
func (m *Matrix) Invert() *Matrix {
	det := m.Determinant()
	*m = Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
	return m
}

// TransformPoint applies the matrix to a point.
func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// MultiplyPoint applies the matrix to p, including translation.
func (m Matrix) MultiplyPoint(p Vector2) Vector2 {
	x, y := m.TransformPoint(p.X, p.Y)
	return Vector2{X: x, Y: y}
}

// MultiplyDirection applies only the linear part of the matrix to d.
func (m Matrix) MultiplyDirection(d Vector2) Vector2 {
	return Vector2{X: m[0]*d.X + m[2]*d.Y, Y: m[1]*d.X + m[3]*d.Y}
}

// TransformRect transforms a rectangle and returns its axis-aligned bounding box.
func (m Matrix) TransformRect(r Rect) Rect {
	x0, y0 := m.TransformPoint(r.X, r.Y)
	x1, y1 := m.TransformPoint(r.X+r.Width, r.Y)
	x2, y2 := m.TransformPoint(r.X+r.Width, r.Y+r.Height)
	x3, y3 := m.TransformPoint(r.X, r.Y+r.Height)

	minX := min(x0, x1, x2, x3)
	minY := min(y0, y1, y2, y3)
	maxX := max(x0, x1, x2, x3)
	maxY := max(y0, y1, y2, y3)

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// ToSlice returns the matrix as a float64 slice for JSON serialization.
func (m Matrix) ToSlice() []float64 {
	return []float64{m[0], m[1], m[2], m[3], m[4], m[5]}
}

// IsFinite reports whether every coefficient is finite.
func (m Matrix) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// IsIdentity checks if this is the identity matrix (within epsilon).
func (m Matrix) IsIdentity() bool {
	const eps = 1e-10
	return math.Abs(m[0]-1) < eps &&
		math.Abs(m[1]) < eps &&
		math.Abs(m[2]) < eps &&
		math.Abs(m[3]-1) < eps &&
		math.Abs(m[4]) < eps &&
		math.Abs(m[5]) < eps
}
