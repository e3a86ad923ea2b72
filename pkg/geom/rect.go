package geom

// Rect is an axis-aligned rectangle, typically a module footprint.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectAt returns the rectangle with the given lower-left corner and size.
func RectAt(x, y, width, height float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Area returns the rectangle area.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the rectangle center point.
func (r Rect) Center() Point {
	return Point{X: (r.MinX + r.MaxX) / 2, Y: (r.MinY + r.MaxY) / 2}
}

// ToPolygon returns the rectangle as a CCW polygon.
func (r Rect) ToPolygon() Polygon {
	return NewPolygon(
		Pt(r.MinX, r.MinY),
		Pt(r.MaxX, r.MinY),
		Pt(r.MaxX, r.MaxY),
		Pt(r.MinX, r.MaxY),
	)
}

// OverlapFraction returns the fraction of the rectangle's area that lies
// inside the polygon, in [0, 1]. A zero-area rectangle yields 0.
//
// The placement engine uses this as its containment test: a candidate
// footprint is accepted only if its overlap fraction meets the threshold.
func OverlapFraction(r Rect, p Polygon) float64 {
	a := r.Area()
	if a <= 0 || p.IsEmpty() {
		return 0
	}
	clipped := ClipToConvex(p, r.ToPolygon())
	if clipped.IsEmpty() {
		return 0
	}
	f := clipped.Area() / a
	if f > 1 {
		return 1
	}
	return f
}
