package geom

import "math"

// Default knobs for CubicBezier.NearestParameter.
const (
	NearestSearchResolution = 8
	NearestSearchIterations = 8
)

// CubicBezier is a cubic curve from P0 to P3 with control points P1 and P2.
type CubicBezier struct {
	P0, P1, P2, P3 Vector2
}

// Point evaluates the curve at t using the Bernstein form. t is not clamped.
func (c CubicBezier) Point(t float64) Vector2 {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return Vector2{
		X: b0*c.P0.X + b1*c.P1.X + b2*c.P2.X + b3*c.P3.X,
		Y: b0*c.P0.Y + b1*c.P1.Y + b2*c.P2.Y + b3*c.P3.Y,
	}
}

// NearestParameter approximates the parameter of the curve point closest
// to p with the default search settings.
func (c CubicBezier) NearestParameter(p Vector2) float64 {
	return c.NearestParameterN(p, NearestSearchResolution, NearestSearchIterations)
}

// NearestParameterN samples the curve uniformly at resolution points, then
// refines the best sample by comparing closestT-step and closestT+step for
// the given number of iterations, halving step each round. The result is
// clamped to [0, 1].
func (c CubicBezier) NearestParameterN(p Vector2, resolution, iterations int) float64 {
	closestT := 0.5
	closestDistance2 := math.Inf(1)

	if resolution > 1 {
		for i := range resolution {
			t := float64(i) / float64(resolution-1)
			if d2 := c.Point(t).DistanceSquared(p); d2 < closestDistance2 {
				closestDistance2 = d2
				closestT = t
			}
		}
	}

	step := 1 / float64(resolution) / 2

	for range iterations {
		t0 := closestT - step
		t1 := closestT + step
		step /= 2

		if c.Point(t0).DistanceSquared(p) < c.Point(t1).DistanceSquared(p) {
			closestT = t0
		} else {
			closestT = t1
		}
	}

	return max(0, min(closestT, 1))
}

// Split divides the curve at t with de Casteljau's algorithm. The first
// curve ends and the second starts at Point(t).
func (c CubicBezier) Split(t float64) (CubicBezier, CubicBezier) {
	lerp := func(a, b Vector2) Vector2 {
		return Vector2{X: a.X*(1-t) + b.X*t, Y: a.Y*(1-t) + b.Y*t}
	}

	p4 := lerp(c.P0, c.P1)
	p5 := lerp(c.P1, c.P2)
	p6 := lerp(c.P2, c.P3)
	p7 := lerp(p4, p5)
	p8 := lerp(p5, p6)
	p9 := lerp(p7, p8)

	return CubicBezier{P0: c.P0, P1: p4, P2: p7, P3: p9},
		CubicBezier{P0: p9, P1: p8, P2: p6, P3: c.P3}
}
