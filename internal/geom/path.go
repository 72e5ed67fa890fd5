package geom

import (
	"encoding/json"
	"fmt"
)

// SegmentsPerCurve is the number of straight sub-segments a curved segment
// is flattened into for containment tests.
const SegmentsPerCurve = 12

// Opt is a nullable coordinate component.
type Opt struct {
	Value float64
	Valid bool
}

// Some returns a present component.
func Some(v float64) Opt {
	return Opt{Value: v, Valid: true}
}

// Or returns the component value, or fallback when it is absent.
func (o Opt) Or(fallback float64) float64 {
	if o.Valid {
		return o.Value
	}
	return fallback
}

func (o Opt) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// PathPoint is a path vertex with optional handles. In shapes the curve
// arriving at this vertex near the previous vertex, Out shapes it near
// this vertex.
type PathPoint struct {
	X, Y       float64
	InX, InY   Opt
	OutX, OutY Opt
}

// Pt returns a straight vertex.
func Pt(x, y float64) PathPoint {
	return PathPoint{X: x, Y: y}
}

// Position returns the vertex position.
func (p PathPoint) Position() Vector2 {
	return Vector2{X: p.X, Y: p.Y}
}

// IsCurve reports whether the segment arriving at this vertex is a cubic.
func (p PathPoint) IsCurve() bool {
	return p.InX.Valid || p.OutX.Valid
}

// SetIn sets the incoming handle.
func (p *PathPoint) SetIn(v Vector2) {
	p.InX, p.InY = Some(v.X), Some(v.Y)
}

// SetOut sets the outgoing handle.
func (p *PathPoint) SetOut(v Vector2) {
	p.OutX, p.OutY = Some(v.X), Some(v.Y)
}

// ClearIn removes the incoming handle.
func (p *PathPoint) ClearIn() {
	p.InX, p.InY = Opt{}, Opt{}
}

// ClearOut removes the outgoing handle.
func (p *PathPoint) ClearOut() {
	p.OutX, p.OutY = Opt{}, Opt{}
}

// MarshalJSON writes [x, y] for straight vertices and
// [x, y, inX, inY, outX, outY] with nulls for absent components otherwise.
func (p PathPoint) MarshalJSON() ([]byte, error) {
	if !p.IsCurve() {
		return json.Marshal([2]float64{p.X, p.Y})
	}
	return json.Marshal([6]any{p.X, p.Y, p.InX, p.InY, p.OutX, p.OutY})
}

// UnmarshalJSON accepts both the two and six element forms. Anything that
// is not a number is treated as absent (handles) or zero (position).
func (p *PathPoint) UnmarshalJSON(data []byte) error {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("path point: %w", err)
	}

	opt := func(i int) Opt {
		if i >= len(raw) {
			return Opt{}
		}
		if v, ok := raw[i].(float64); ok {
			return Some(v)
		}
		return Opt{}
	}

	*p = PathPoint{X: opt(0).Value, Y: opt(1).Value}
	if len(raw) > 2 {
		p.InX, p.InY, p.OutX, p.OutY = opt(2), opt(3), opt(4), opt(5)
	}
	return nil
}

// OutlineBuilder receives the outline of a path.
type OutlineBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	BezierCurveTo(c0x, c0y, c1x, c1y, x, y float64)
	ClosePath()
}

// Path is an ordered list of vertices. When Closed is set the last vertex
// connects back to the first.
type Path struct {
	Points []PathPoint `json:"points"`
	Closed bool        `json:"closed"`
}

// Len returns the number of vertices.
func (p *Path) Len() int {
	return len(p.Points)
}

// Prev returns the index of the vertex before i, wrapping.
func (p *Path) Prev(i int) int {
	n := len(p.Points)
	return (i - 1 + n) % n
}

// Next returns the index of the vertex after i, wrapping.
func (p *Path) Next(i int) int {
	return (i + 1) % len(p.Points)
}

// Segment returns the segment arriving at vertex i from vertex i-1 as a
// cubic, and whether it is curved. Absent handle components fall back to
// the adjacent vertex. Straight segments have P1 = P3.
func (p *Path) Segment(i int) (CubicBezier, bool) {
	p0 := p.Points[p.Prev(i)]
	p1 := p.Points[i]

	if !p1.IsCurve() {
		return CubicBezier{
			P0: p0.Position(),
			P1: p1.Position(),
			P2: p1.Position(),
			P3: p1.Position(),
		}, false
	}

	return CubicBezier{
		P0: p0.Position(),
		P1: Vector2{X: p1.InX.Or(p0.X), Y: p1.InY.Or(p0.Y)},
		P2: Vector2{X: p1.OutX.Or(p1.X), Y: p1.OutY.Or(p1.Y)},
		P3: p1.Position(),
	}, true
}

// Outline feeds the path to b: a move to the first vertex, then a line or
// curve per segment, closing back to the first vertex when Closed.
func (p *Path) Outline(b OutlineBuilder) {
	n := len(p.Points)
	count := n
	if p.Closed {
		count++
	}

	for i := range count {
		idx := i % n
		pt := p.Points[idx]

		switch {
		case i == 0:
			b.MoveTo(pt.X, pt.Y)
		case pt.IsCurve():
			c, _ := p.Segment(idx)
			b.BezierCurveTo(c.P1.X, c.P1.Y, c.P2.X, c.P2.Y, c.P3.X, c.P3.Y)
		case i < n:
			b.LineTo(pt.X, pt.Y)
		}
	}

	if p.Closed {
		b.ClosePath()
	}
}

// Flatten returns the closed outline with every curved segment split into
// SegmentsPerCurve straight pieces.
func (p *Path) Flatten() []Vector2 {
	ring := make([]Vector2, 0, len(p.Points))
	for i := range p.Points {
		c, curved := p.Segment(i)
		if !curved {
			ring = append(ring, c.P3)
			continue
		}
		for j := range SegmentsPerCurve {
			ring = append(ring, c.Point(float64(j+1)/SegmentsPerCurve))
		}
	}
	return ring
}

// ContainsPoint tests a local-space point against the closed outline with
// the even-odd rule. Paths with fewer than three vertices contain nothing.
func (p *Path) ContainsPoint(pt Vector2) bool {
	if len(p.Points) < 3 {
		return false
	}
	return PointInPolygon(pt, p.Flatten())
}

// InsertPoint adds a vertex on the segment arriving at vertex i, before i.
// Curved segments are split at the parameter nearest at so the outline is
// unchanged; straight segments get a straight vertex at at.
func (p *Path) InsertPoint(i int, at Vector2) {
	c, curved := p.Segment(i)

	inserted := Pt(at.X, at.Y)
	if curved {
		first, second := c.Split(c.NearestParameter(at))
		inserted.SetIn(first.P1)
		inserted.SetOut(first.P2)

		next := &p.Points[i]
		next.SetIn(second.P1)
		next.SetOut(second.P2)
	}

	p.Points = append(p.Points, PathPoint{})
	copy(p.Points[i+1:], p.Points[i:])
	p.Points[i] = inserted
}

// RemovePoint deletes vertex i, handing its incoming handle to the
// following vertex.
func (p *Path) RemovePoint(i int) {
	p.RemovePoints([]int{i})
}

// RemovePoints deletes the vertices at the ascending indices. Each removed
// vertex hands its incoming handle to the following vertex in index order
// before any vertex is deleted.
func (p *Path) RemovePoints(indices []int) {
	for _, i := range indices {
		next := p.Next(i)
		p.Points[next].InX = p.Points[i].InX
		p.Points[next].InY = p.Points[i].InY
	}
	for j := len(indices) - 1; j >= 0; j-- {
		i := indices[j]
		p.Points = append(p.Points[:i], p.Points[i+1:]...)
	}
}

// MovePoint moves vertex i to `to`, carrying the handles attached to it.
func (p *Path) MovePoint(i int, to Vector2) {
	pt := &p.Points[i]
	d := to.Sub(pt.Position())
	pt.X, pt.Y = to.X, to.Y

	next := &p.Points[p.Next(i)]
	if next.InX.Valid {
		next.InX.Value += d.X
		next.InY.Value += d.Y
	}
	if pt.OutX.Valid {
		pt.OutX.Value += d.X
		pt.OutY.Value += d.Y
	}
}
