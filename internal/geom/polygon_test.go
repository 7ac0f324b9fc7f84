package geom

import (
	"testing"

	"github.com/paulmach/orb"
)

func square(x0, z0, x1, z1 float64) orb.Ring {
	return orb.Ring{
		{x0, z0}, {x1, z0}, {x1, z1}, {x0, z1}, {x0, z0},
	}
}

func TestPointInRingConvexSquare(t *testing.T) {
	ring := square(0, 0, 10, 10)
	if !PointInRing(orb.Point{5, 5}, ring) {
		t.Error("center of square should be inside")
	}
	if PointInRing(orb.Point{15, 15}, ring) {
		t.Error("point outside square should not be inside")
	}
}

func TestTriangulateAndPointInPolygon(t *testing.T) {
	ring := square(0, 0, 10, 10)
	tris := Triangulate(ring)
	if len(tris) == 0 {
		t.Fatal("expected at least one triangle for a square")
	}
	if !PointInPolygon(orb.Point{5, 5}, tris, nil) {
		t.Error("center should be inside via triangulated polygon")
	}
	if PointInPolygon(orb.Point{-1, -1}, tris, nil) {
		t.Error("outside point should not be inside")
	}
}

func TestPointInPolygonWithHole(t *testing.T) {
	outer := square(0, 0, 10, 10)
	inner := square(3, 3, 7, 7)
	tris := Triangulate(outer)
	if PointInPolygon(orb.Point{5, 5}, tris, []orb.Ring{inner}) {
		t.Error("point inside the hole must not count as inside the polygon")
	}
	if !PointInPolygon(orb.Point{1, 1}, tris, []orb.Ring{inner}) {
		t.Error("point inside outer but outside hole should be inside")
	}
}

func TestClipRingToRectInsideNoChange(t *testing.T) {
	ring := square(2, 2, 8, 8)
	rect := Rect{MinX: 0, MinZ: 0, MaxX: 10, MaxZ: 10}
	clipped := ClipRingToRect(ring, rect)
	if len(clipped) == 0 {
		t.Fatal("ring fully inside rect should not be clipped away")
	}
}

func TestClipRingToRectTruncatesOutside(t *testing.T) {
	ring := square(-5, -5, 5, 5)
	rect := Rect{MinX: 0, MinZ: 0, MaxX: 10, MaxZ: 10}
	clipped := ClipRingToRect(ring, rect)
	tris := Triangulate(clipped)
	if PointInPolygon(orb.Point{-2, -2}, tris, nil) {
		t.Error("clipped ring should not include area outside the rect")
	}
	if !PointInPolygon(orb.Point{2, 2}, tris, nil) {
		t.Error("clipped ring should retain area inside both original ring and rect")
	}
}

func TestRingContainsRect(t *testing.T) {
	big := square(0, 0, 100, 100)
	small := Rect{MinX: 10, MinZ: 10, MaxX: 20, MaxZ: 20}
	if !RingContainsRect(big, small) {
		t.Error("a rect fully inside a large ring should be contained")
	}

	small2 := Rect{MinX: 90, MinZ: 90, MaxX: 110, MaxZ: 110}
	if RingContainsRect(big, small2) {
		t.Error("a rect straddling the ring boundary should not be contained")
	}
}

func TestRingIntersectsRect(t *testing.T) {
	ring := square(0, 0, 10, 10)
	overlapping := Rect{MinX: 5, MinZ: 5, MaxX: 15, MaxZ: 15}
	if !RingIntersectsRect(ring, overlapping) {
		t.Error("overlapping rect should intersect ring")
	}
	far := Rect{MinX: 100, MinZ: 100, MaxX: 110, MaxZ: 110}
	if RingIntersectsRect(ring, far) {
		t.Error("disjoint rect should not intersect ring")
	}
}
