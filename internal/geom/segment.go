package geom

// ClosestPointOnSegment projects p onto the segment a-b and clamps the
// result to the segment. A zero-length segment returns a.
func ClosestPointOnSegment(p, a, b Vector2) Vector2 {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return a
	}

	t := max(0, min(1, p.Sub(a).Dot(d)/l2))
	return a.Add(d.Scale(t))
}

// PointInPolygon runs the even-odd crossing test of p against the closed
// ring. Rings with fewer than three vertices contain nothing.
func PointInPolygon(p Vector2, ring []Vector2) bool {
	if len(ring) < 3 {
		return false
	}

	inside := false
	prev := ring[len(ring)-1]
	for _, cur := range ring {
		if crosses(p, prev, cur) {
			inside = !inside
		}
		prev = cur
	}
	return inside
}

// crosses reports whether a ray cast from p towards +x crosses the edge a-b.
func crosses(p, a, b Vector2) bool {
	return (b.Y > p.Y) != (a.Y > p.Y) &&
		p.X < (a.X-b.X)*(p.Y-b.Y)/(a.Y-b.Y)+b.X
}
