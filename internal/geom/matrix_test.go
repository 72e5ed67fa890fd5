package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func assertMatrixEqual(t *testing.T, want, got Matrix) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], eps, "coefficient %d", i)
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Translate then scale: the scale applies to points first.
	m := Identity()
	m.Translate(10, 20).Scale(2, 3)

	p := m.MultiplyPoint(V2(1, 1))
	assert.InDelta(t, 12, p.X, eps)
	assert.InDelta(t, 23, p.Y, eps)
}

func TestMatrixRotate(t *testing.T) {
	m := Identity()
	m.Rotate(math.Pi / 2)

	p := m.MultiplyPoint(V2(1, 0))
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 1, p.Y, eps)
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	cases := []Matrix{
		{1, 0, 0, 1, 5, -7},
		{2, 0.5, -1.25, 3, 40, 12},
		{-1, 0, 0, 1, 0, 0},
	}

	for _, m := range cases {
		inv := m
		inv.Invert()

		twice := inv
		twice.Invert()
		assertMatrixEqual(t, m, twice)

		p := V2(3.5, -8)
		back := inv.MultiplyPoint(m.MultiplyPoint(p))
		assert.InDelta(t, p.X, back.X, eps)
		assert.InDelta(t, p.Y, back.Y, eps)

		product := m
		product.Multiply(inv)
		assert.True(t, product.IsIdentity())
	}
}

func TestMatrixInvertSingular(t *testing.T) {
	m := Identity()
	m.Scale(0, 1).Invert()
	assert.False(t, m.IsFinite())
}

func TestMatrixMultiplyDirectionIgnoresTranslation(t *testing.T) {
	m := Identity()
	m.Translate(100, 100).Scale(2, 2)

	d := m.MultiplyDirection(V2(1, -1))
	assert.Equal(t, V2(2, -2), d)
}

func TestMatrixTransformRect(t *testing.T) {
	m := Identity()
	m.Rotate(math.Pi / 2)

	r := m.TransformRect(Rect{X: 0, Y: 0, Width: 10, Height: 5})
	require.InDelta(t, -5, r.X, eps)
	assert.InDelta(t, 0, r.Y, eps)
	assert.InDelta(t, 5, r.Width, eps)
	assert.InDelta(t, 10, r.Height, eps)
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(V2(100, 0), V2(0, 100))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 100, Height: 100}, r)
	assert.True(t, r.Contains(V2(50, 50)))
	assert.True(t, r.Contains(V2(100, 100)))
	assert.False(t, r.Contains(V2(101, 50)))
	assert.Equal(t, V2(50, 50), r.Center())
}
