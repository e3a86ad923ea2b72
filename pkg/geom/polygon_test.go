package geom

import (
	"math"
	"testing"
)

func square(side float64) Polygon {
	return NewPolygon(Pt(0, 0), Pt(side, 0), Pt(side, side), Pt(0, side))
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestSignedArea(t *testing.T) {
	sq := square(10)
	if got := sq.SignedArea(); !almostEqual(got, 100, 1e-9) {
		t.Errorf("SignedArea CCW square = %g, want 100", got)
	}
	if got := sq.Reverse().SignedArea(); !almostEqual(got, -100, 1e-9) {
		t.Errorf("SignedArea CW square = %g, want -100", got)
	}

	tri := NewPolygon(Pt(0, 0), Pt(4, 0), Pt(0, 3))
	if got := tri.Area(); !almostEqual(got, 6, 1e-9) {
		t.Errorf("triangle area = %g, want 6", got)
	}
}

func TestEnsureCCW(t *testing.T) {
	cw := square(10).Reverse()
	if cw.IsCounterClockwise() {
		t.Fatal("reversed square should be clockwise")
	}
	ccw := cw.EnsureCCW()
	if !ccw.IsCounterClockwise() {
		t.Error("EnsureCCW should flip clockwise winding")
	}
	// Already-CCW input is unchanged.
	same := ccw.EnsureCCW()
	for i := range same.Vertices {
		if same.Vertices[i] != ccw.Vertices[i] {
			t.Fatal("EnsureCCW should not reorder CCW input")
		}
	}
}

func TestCentroid(t *testing.T) {
	c := square(10).Centroid()
	if !almostEqual(c.X, 5, 1e-9) || !almostEqual(c.Y, 5, 1e-9) {
		t.Errorf("square centroid = %v, want (5, 5)", c)
	}

	// Winding order must not change the centroid.
	c2 := square(10).Reverse().Centroid()
	if !almostEqual(c2.X, 5, 1e-9) || !almostEqual(c2.Y, 5, 1e-9) {
		t.Errorf("reversed square centroid = %v, want (5, 5)", c2)
	}
}

func TestContains(t *testing.T) {
	sq := square(10)
	tests := []struct {
		pt   Point
		want bool
	}{
		{Pt(5, 5), true},
		{Pt(0.001, 0.001), true},
		{Pt(9.999, 9.999), true},
		{Pt(-1, 5), false},
		{Pt(11, 5), false},
		{Pt(5, -0.001), false},
		{Pt(5, 10.001), false},
	}
	for _, tc := range tests {
		if got := sq.Contains(tc.pt); got != tc.want {
			t.Errorf("Contains(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}
}

func TestContainsConcave(t *testing.T) {
	// L-shape: the notch at the top right is outside.
	l := NewPolygon(
		Pt(0, 0), Pt(10, 0), Pt(10, 5), Pt(5, 5), Pt(5, 10), Pt(0, 10),
	)
	if !l.Contains(Pt(2, 8)) {
		t.Error("point in the vertical arm should be inside")
	}
	if !l.Contains(Pt(8, 2)) {
		t.Error("point in the horizontal arm should be inside")
	}
	if l.Contains(Pt(8, 8)) {
		t.Error("point in the notch should be outside")
	}
}

func TestBoundingBox(t *testing.T) {
	p := NewPolygon(Pt(-3, 2), Pt(7, -1), Pt(4, 9))
	minP, maxP := p.BoundingBox()
	if minP != Pt(-3, -1) || maxP != Pt(7, 9) {
		t.Errorf("BoundingBox = %v, %v", minP, maxP)
	}
}

func TestIsEmpty(t *testing.T) {
	if square(10).IsEmpty() {
		t.Error("square should not be empty")
	}
	if !(Polygon{}).IsEmpty() {
		t.Error("zero polygon should be empty")
	}
	if !NewPolygon(Pt(0, 0), Pt(1, 1)).IsEmpty() {
		t.Error("two vertices should be empty")
	}
}

func TestPerimeter(t *testing.T) {
	if got := square(10).Perimeter(); !almostEqual(got, 40, 1e-9) {
		t.Errorf("Perimeter = %g, want 40", got)
	}
}
