package geom

import "testing"

func TestClipToConvexFullyInside(t *testing.T) {
	inner := NewPolygon(Pt(2, 2), Pt(4, 2), Pt(4, 4), Pt(2, 4))
	clipped := ClipToConvex(inner, square(10))
	if !almostEqual(clipped.Area(), 4, 1e-9) {
		t.Errorf("fully inside subject should be unchanged, area = %g", clipped.Area())
	}
}

func TestClipToConvexPartialOverlap(t *testing.T) {
	// Unit square half inside: x in [-0.5, 0.5].
	sub := NewPolygon(Pt(-0.5, 0), Pt(0.5, 0), Pt(0.5, 1), Pt(-0.5, 1))
	clipped := ClipToConvex(sub, square(10))
	if !almostEqual(clipped.Area(), 0.5, 1e-9) {
		t.Errorf("clipped area = %g, want 0.5", clipped.Area())
	}
}

func TestClipToConvexDisjoint(t *testing.T) {
	far := NewPolygon(Pt(100, 100), Pt(101, 100), Pt(101, 101), Pt(100, 101))
	if got := ClipToConvex(far, square(10)); !got.IsEmpty() {
		t.Errorf("disjoint polygons should clip to empty, got area %g", got.Area())
	}
}

func TestOverlapFraction(t *testing.T) {
	usable := square(10)

	full := RectAt(2, 2, 2, 2)
	if got := OverlapFraction(full, usable); !almostEqual(got, 1, 1e-9) {
		t.Errorf("fully contained rect fraction = %g, want 1", got)
	}

	half := RectAt(-1, 0, 2, 2)
	if got := OverlapFraction(half, usable); !almostEqual(got, 0.5, 1e-9) {
		t.Errorf("half-in rect fraction = %g, want 0.5", got)
	}

	out := RectAt(20, 20, 2, 2)
	if got := OverlapFraction(out, usable); got != 0 {
		t.Errorf("outside rect fraction = %g, want 0", got)
	}

	if got := OverlapFraction(RectAt(0, 0, 0, 2), usable); got != 0 {
		t.Errorf("zero-area rect fraction = %g, want 0", got)
	}
}

func TestRectBasics(t *testing.T) {
	r := RectAt(1, 2, 3, 4)
	if r.Width() != 3 || r.Height() != 4 || r.Area() != 12 {
		t.Errorf("unexpected dims: w=%g h=%g a=%g", r.Width(), r.Height(), r.Area())
	}
	if c := r.Center(); c != Pt(2.5, 4) {
		t.Errorf("Center = %v, want (2.5, 4)", c)
	}
	if !r.ToPolygon().IsCounterClockwise() {
		t.Error("ToPolygon should wind CCW")
	}
}
