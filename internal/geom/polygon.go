package geom

import "github.com/paulmach/orb"

// Rect is an axis-aligned integer rectangle in world-block coordinates,
// inclusive of MinX/MinZ, exclusive of MaxX/MaxZ (so Width = MaxX-MinX).
type Rect struct {
	MinX, MinZ, MaxX, MaxZ int
}

func (r Rect) cellCount() int64 {
	return int64(r.MaxX-r.MinX) * int64(r.MaxZ-r.MinZ)
}

func (r Rect) corners() [4]orb.Point {
	return [4]orb.Point{
		{float64(r.MinX), float64(r.MinZ)},
		{float64(r.MaxX), float64(r.MinZ)},
		{float64(r.MaxX), float64(r.MaxZ)},
		{float64(r.MinX), float64(r.MaxZ)},
	}
}

// PointInRing reports whether p lies strictly inside the simple ring using
// the standard even-odd ray-casting rule.
func PointInRing(p orb.Point, ring orb.Ring) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := ring[i], ring[j]
		if (pi[1] > p[1]) != (pj[1] > p[1]) {
			x := pj[0] + (p[1]-pj[1])*(pi[0]-pj[0])/(pi[1]-pj[1])
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Triangle is a convex subdivision unit used by PointInPolygon.
type Triangle [3]orb.Point

// Triangulate decomposes a simple polygon ring into triangles by ear
// clipping, so point-in-polygon tests reduce to a set of convex (triangle)
// membership tests, per spec §4.E.
func Triangulate(ring orb.Ring) []Triangle {
	pts := dedupeClosing(ring)
	if len(pts) < 3 {
		return nil
	}
	if signedArea(pts) < 0 {
		reverse(pts)
	}

	idx := make([]int, len(pts))
	for i := range idx {
		idx[i] = i
	}

	var tris []Triangle
	guard := 0
	for len(idx) > 3 && guard < len(pts)*len(pts)+8 {
		guard++
		earFound := false
		for i := 0; i < len(idx); i++ {
			ia := idx[(i-1+len(idx))%len(idx)]
			ib := idx[i]
			ic := idx[(i+1)%len(idx)]
			a, b, c := pts[ia], pts[ib], pts[ic]
			if !isConvexVertex(a, b, c) {
				continue
			}
			earClipped := true
			for _, k := range idx {
				if k == ia || k == ib || k == ic {
					continue
				}
				if pointInTriangle(pts[k], a, b, c) {
					earClipped = false
					break
				}
			}
			if !earClipped {
				continue
			}
			tris = append(tris, Triangle{a, b, c})
			idx = append(idx[:i], idx[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break // degenerate/self-intersecting input; stop rather than loop forever
		}
	}
	if len(idx) == 3 {
		tris = append(tris, Triangle{pts[idx[0]], pts[idx[1]], pts[idx[2]]})
	}
	return tris
}

// PointInPolygon tests point membership against a pre-triangulated outer
// polygon (convex subdivision), subtracting any inner (hole) rings.
func PointInPolygon(p orb.Point, outerTris []Triangle, inners []orb.Ring) bool {
	in := false
	for _, tri := range outerTris {
		if pointInTriangleInclusive(p, tri[0], tri[1], tri[2]) {
			in = true
			break
		}
	}
	if !in {
		return false
	}
	for _, inner := range inners {
		if PointInRing(p, inner) {
			return false
		}
	}
	return true
}

func pointInTriangle(p, a, b, c orb.Point) bool {
	d1 := cross(sub(p, a), sub(b, a))
	d2 := cross(sub(p, b), sub(c, b))
	d3 := cross(sub(p, c), sub(a, c))
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func pointInTriangleInclusive(p, a, b, c orb.Point) bool {
	return pointInTriangle(p, a, b, c)
}

func isConvexVertex(a, b, c orb.Point) bool {
	return cross(sub(b, a), sub(c, b)) >= 0
}

func signedArea(pts []orb.Point) float64 {
	sum := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i][0]*pts[j][1] - pts[j][0]*pts[i][1]
	}
	return sum / 2
}

func dedupeClosing(ring orb.Ring) []orb.Point {
	pts := []orb.Point(ring)
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	out := make([]orb.Point, len(pts))
	copy(out, pts)
	return out
}

func reverse(pts []orb.Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func sub(a, b orb.Point) orb.Point { return orb.Point{a[0] - b[0], a[1] - b[1]} }
func cross(a, b orb.Point) float64 { return a[0]*b[1] - a[1]*b[0] }

// ClipRingToRect clips ring against the convex rectangular window rect using
// Sutherland-Hodgman, which produces a single valid output ring even for a
// concave subject polygon because the clip window itself is convex. Used by
// the water-area filler to clip outers to the world rectangle (§4.F step 3).
func ClipRingToRect(ring orb.Ring, rect Rect) orb.Ring {
	pts := dedupeClosing(ring)
	if len(pts) == 0 {
		return nil
	}
	edges := rect.corners()
	for i := 0; i < 4; i++ {
		pts = clipAgainstEdge(pts, edges[i], edges[(i+1)%4])
		if len(pts) == 0 {
			return nil
		}
	}
	if len(pts) < 3 {
		return nil
	}
	pts = append(pts, pts[0])
	return orb.Ring(pts)
}

// clipAgainstEdge clips a polygon against the half-plane to the left of the
// directed edge e0->e1 (rect corners are produced in clockwise order by
// Rect.corners, so "left" is the rectangle interior).
func clipAgainstEdge(pts []orb.Point, e0, e1 orb.Point) []orb.Point {
	var out []orb.Point
	n := len(pts)
	for i := 0; i < n; i++ {
		cur := pts[i]
		prev := pts[(i-1+n)%n]
		curIn := insideHalfPlane(cur, e0, e1)
		prevIn := insideHalfPlane(prev, e0, e1)
		if curIn {
			if !prevIn {
				out = append(out, intersectEdge(prev, cur, e0, e1))
			}
			out = append(out, cur)
		} else if prevIn {
			out = append(out, intersectEdge(prev, cur, e0, e1))
		}
	}
	return out
}

func insideHalfPlane(p, e0, e1 orb.Point) bool {
	return cross(sub(e1, e0), sub(p, e0)) >= 0
}

func intersectEdge(a, b, e0, e1 orb.Point) orb.Point {
	d1 := sub(b, a)
	d2 := sub(e1, e0)
	denom := cross(d1, d2)
	if denom == 0 {
		return a
	}
	t := cross(sub(e0, a), d2) / denom
	return orb.Point{a[0] + t*d1[0], a[1] + t*d1[1]}
}

// SegmentIntersectsRect reports whether the segment a-b intersects rect,
// treating rect as a closed rectangle. Used for the per-cell fallback test
// near polygon edges (§4.F step 5) where robustness matters more than raw
// point-in-polygon speed.
func SegmentIntersectsRect(a, b orb.Point, rect Rect) bool {
	if pointInRect(a, rect) || pointInRect(b, rect) {
		return true
	}
	corners := rect.corners()
	for i := 0; i < 4; i++ {
		if segmentsIntersect(a, b, corners[i], corners[(i+1)%4]) {
			return true
		}
	}
	return false
}

func pointInRect(p orb.Point, rect Rect) bool {
	return p[0] >= float64(rect.MinX) && p[0] <= float64(rect.MaxX) &&
		p[1] >= float64(rect.MinZ) && p[1] <= float64(rect.MaxZ)
}

func segmentsIntersect(p1, p2, p3, p4 orb.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func direction(a, b, c orb.Point) float64 { return cross(sub(b, a), sub(c, a)) }

func onSegment(a, b, p orb.Point) bool {
	return minF(a[0], b[0]) <= p[0] && p[0] <= maxF(a[0], b[0]) &&
		minF(a[1], b[1]) <= p[1] && p[1] <= maxF(a[1], b[1])
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// RingIntersectsRect reports whether ring crosses rect's boundary, has a
// vertex inside rect, or rect has a corner inside ring.
func RingIntersectsRect(ring orb.Ring, rect Rect) bool {
	pts := dedupeClosing(ring)
	if len(pts) == 0 {
		return false
	}
	for i := range pts {
		j := (i + 1) % len(pts)
		if SegmentIntersectsRect(pts[i], pts[j], rect) {
			return true
		}
	}
	for _, c := range rect.corners() {
		if PointInRing(c, ring) {
			return true
		}
	}
	return false
}

// RingContainsRect reports whether rect lies entirely within ring: every
// corner is inside (or on) the ring and no ring edge crosses the rectangle.
func RingContainsRect(ring orb.Ring, rect Rect) bool {
	corners := rect.corners()
	for _, c := range corners {
		if !PointInRing(c, ring) && !onRingBoundary(c, ring) {
			return false
		}
	}
	pts := dedupeClosing(ring)
	for i := range pts {
		j := (i + 1) % len(pts)
		if SegmentIntersectsRect(pts[i], pts[j], rect) {
			// An edge touching the rectangle's boundary exactly is fine;
			// only a genuine interior crossing disqualifies containment.
			if segmentCrossesRectInterior(pts[i], pts[j], rect) {
				return false
			}
		}
	}
	return true
}

func onRingBoundary(p orb.Point, ring orb.Ring) bool {
	pts := dedupeClosing(ring)
	for i := range pts {
		j := (i + 1) % len(pts)
		if onSegment(pts[i], pts[j], p) && direction(pts[i], pts[j], p) == 0 {
			return true
		}
	}
	return false
}

func segmentCrossesRectInterior(a, b orb.Point, rect Rect) bool {
	if pointStrictlyInRect(a, rect) || pointStrictlyInRect(b, rect) {
		return true
	}
	// Clip a-b to the closed rectangle (Liang-Barsky); the clipped part
	// reaches the open interior iff its midpoint lies strictly inside.
	d, t0, t1 := sub(b, a), 0.0, 1.0
	for _, pq := range [4][2]float64{{-d[0], a[0] - float64(rect.MinX)}, {d[0], float64(rect.MaxX) - a[0]}, {-d[1], a[1] - float64(rect.MinZ)}, {d[1], float64(rect.MaxZ) - a[1]}} {
		if pq[0] == 0 && pq[1] < 0 {
			return false
		} else if pq[0] < 0 {
			t0 = maxF(t0, pq[1]/pq[0])
		} else if pq[0] > 0 {
			t1 = minF(t1, pq[1]/pq[0])
		}
	}
	tm := (t0 + t1) / 2
	return t0 <= t1 && pointStrictlyInRect(orb.Point{a[0] + tm*d[0], a[1] + tm*d[1]}, rect)
}

func pointStrictlyInRect(p orb.Point, rect Rect) bool {
	return p[0] > float64(rect.MinX) && p[0] < float64(rect.MaxX) &&
		p[1] > float64(rect.MinZ) && p[1] < float64(rect.MaxZ)
}
