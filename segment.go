package tspline

import "math"

// collinearEps bounds the orientation determinant below which three points
// are treated as collinear during segment intersection.
const collinearEps = 1e-9

// Segment is a directed line segment in parameter space. T-junction
// extensions are represented as segments from the junction to the first
// perpendicular full edge.
type Segment struct {
	Start, End ParamPoint
}

// orient returns the signed area of the triangle (a, b, c). Positive for a
// counter-clockwise turn, negative for clockwise, near zero for collinear.
func orient(a, b, c ParamPoint) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// onSegment reports whether p lies within the bounding box of segment (a, b).
// Only meaningful when p is already known to be collinear with (a, b).
func onSegment(p, a, b ParamPoint) bool {
	return p.S <= math.Max(a.S, b.S) && p.S >= math.Min(a.S, b.S) &&
		p.T <= math.Max(a.T, b.T) && p.T >= math.Min(a.T, b.T)
}

// Intersects reports whether the two segments share at least one point.
// Touching endpoints and collinear overlap count as intersections, which is
// the convention analysis suitability requires: an extension terminating on
// another extension is still a forbidden crossing.
func (s Segment) Intersects(o Segment) bool {
	oa := orient(o.Start, o.End, s.Start)
	ob := orient(o.Start, o.End, s.End)
	oc := orient(s.Start, s.End, o.Start)
	od := orient(s.Start, s.End, o.End)

	// General case: the segments strictly cross.
	if oa*ob < 0 && oc*od < 0 {
		return true
	}

	// Collinear or touching cases.
	if math.Abs(oa) < collinearEps && onSegment(s.Start, o.Start, o.End) {
		return true
	}
	if math.Abs(ob) < collinearEps && onSegment(s.End, o.Start, o.End) {
		return true
	}
	if math.Abs(oc) < collinearEps && onSegment(o.Start, s.Start, s.End) {
		return true
	}
	if math.Abs(od) < collinearEps && onSegment(o.End, s.Start, s.End) {
		return true
	}

	return false
}
