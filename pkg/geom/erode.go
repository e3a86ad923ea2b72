package geom

import "math"

// Erode shrinks the polygon inward by the given margin and returns the
// eroded polygon. Supports irregular (non-convex) simple polygons.
//
// Each edge is shifted inward along its normal by margin, and consecutive
// shifted edges are intersected to form the new boundary. When the margin
// exceeds half the polygon's minimal width the offset boundary collapses,
// inverts, or pinches into a self-intersection; those cases return the
// empty polygon rather than an error, because "nothing left after
// setbacks" is a legitimate outcome.
func Erode(p Polygon, margin float64) Polygon {
	if p.IsEmpty() {
		return Polygon{}
	}
	if margin <= 0 {
		return p
	}

	src := p.EnsureCCW()
	n := len(src.Vertices)

	// Drop zero-length edges so every edge has a usable normal.
	verts := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		next := src.Vertices[(i+1)%n]
		if src.Vertices[i].Distance(next) > 1e-9 {
			verts = append(verts, src.Vertices[i])
		}
	}
	n = len(verts)
	if n < 3 {
		return Polygon{}
	}

	// Shift each edge inward. For CCW winding the interior lies to the
	// left of each directed edge, so the inward normal is the left normal.
	type line struct{ a, b Point }
	offset := make([]line, n)
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		d := b.Sub(a).Normalize()
		normal := Point{X: -d.Y, Y: d.X}
		shift := normal.Scale(margin)
		offset[i] = line{a: a.Add(shift), b: b.Add(shift)}
	}

	// New vertex i is the intersection of the shifted edges meeting there.
	eroded := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		prev := offset[(i+n-1)%n]
		cur := offset[i]
		ix, ok := lineIntersection(prev.a, prev.b, cur.a, cur.b)
		if !ok {
			// Near-collinear edges: the shifted endpoint is the vertex.
			ix = cur.a
		}
		eroded = append(eroded, ix)
	}

	result := Polygon{Vertices: eroded}

	// A margin wider than half a corridor between two lobes pinches the
	// offset ring into a self-intersecting figure. Its even-odd interior
	// would leak outside the setback, so a pinch collapses to empty just
	// like an over-eroded polygon does.
	if ringSelfIntersects(eroded) {
		return Polygon{}
	}

	// The offset boundary inverts or degenerates past the medial axis.
	area := result.SignedArea()
	if area <= 1e-9 || area > src.SignedArea() {
		return Polygon{}
	}
	for _, v := range result.Vertices {
		if !src.Contains(v) && !onBoundary(src, v) {
			return Polygon{}
		}
	}
	return result
}

// ringSelfIntersects reports whether any two non-adjacent edges of the
// closed ring cross. Adjacent edges share an endpoint and are skipped.
func ringSelfIntersects(ring []Point) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a := ring[i]
		b := ring[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(a, b, ring[j], ring[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

// segmentsCross reports whether segments a-b and c-d properly intersect,
// i.e. cross at a single interior point of both.
func segmentsCross(a, b, c, d Point) bool {
	d1 := b.Sub(a).Cross(c.Sub(a))
	d2 := b.Sub(a).Cross(d.Sub(a))
	d3 := d.Sub(c).Cross(a.Sub(c))
	d4 := d.Sub(c).Cross(b.Sub(c))
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// onBoundary reports whether pt lies within tolerance of the polygon boundary.
func onBoundary(p Polygon, pt Point) bool {
	const tol = 1e-6
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		if distToSegment(pt, a, b) < tol {
			return true
		}
	}
	return false
}

// distToSegment returns the distance from pt to the segment a-b.
func distToSegment(pt, a, b Point) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq < 1e-18 {
		return pt.Distance(a)
	}
	t := math.Max(0, math.Min(1, pt.Sub(a).Dot(d)/lenSq))
	closest := a.Add(d.Scale(t))
	return pt.Distance(closest)
}
