package tspline

import (
	"fmt"
	"math"
)

// Tolerances for parameter-space traversal, matching the scale of knot
// coordinates (mesh parameterizations are O(1)..O(10) in practice).
const (
	// axisEps bounds the perpendicular drift below which an edge is
	// considered aligned with an axis.
	axisEps = 1e-12

	// rayEps widens the band in which a face edge is considered to touch a
	// traversal ray.
	rayEps = 1e-9

	// travelEps is the minimum parametric travel for a ray hit to count as
	// progress (excludes the start vertex itself).
	travelEps = 1e-6
)

// FaceBoundary returns the ordered half-edge loop bounding a face by
// following Next until it returns to the start. It fails with
// ErrTopologyCorrupt if the walk does not close within the total edge
// count, or if a loop edge does not reference the face.
func (m *Mesh) FaceBoundary(f FaceID) ([]EdgeID, error) {
	if f < 0 || int(f) >= len(m.faces) {
		return nil, &IndexError{Kind: "face", ID: int(f)}
	}
	start := m.faces[f].Edge
	if start < 0 || int(start) >= len(m.edges) {
		return nil, fmt.Errorf("%w: face %d references edge %d", ErrTopologyCorrupt, f, start)
	}

	loop := make([]EdgeID, 0, 4)
	cur := start
	for {
		if len(loop) > len(m.edges) {
			return nil, fmt.Errorf("%w: face %d boundary does not close", ErrTopologyCorrupt, f)
		}
		if m.edges[cur].Face != f {
			return nil, fmt.Errorf("%w: edge %d in face %d loop references face %d",
				ErrTopologyCorrupt, cur, f, m.edges[cur].Face)
		}
		loop = append(loop, cur)
		cur = m.edges[cur].Next
		if cur == start {
			return loop, nil
		}
	}
}

// Destination returns the vertex at the far end of a half-edge, derived as
// the origin of its twin. It fails with ErrBoundaryEdge when the half-edge
// has no twin; use DestinationLoose for boundary-tolerant lookup.
func (m *Mesh) Destination(e EdgeID) (VertexID, error) {
	he, err := m.Edge(e)
	if err != nil {
		return NoVertex, err
	}
	if he.Twin == NoEdge {
		return NoVertex, fmt.Errorf("%w: edge %d has no twin", ErrBoundaryEdge, e)
	}
	return m.edges[he.Twin].Origin, nil
}

// DestinationLoose returns the far-end vertex of a half-edge, falling back
// to the origin of the next loop edge when no twin exists.
func (m *Mesh) DestinationLoose(e EdgeID) (VertexID, error) {
	he, err := m.Edge(e)
	if err != nil {
		return NoVertex, err
	}
	if he.Twin != NoEdge {
		return m.edges[he.Twin].Origin, nil
	}
	return m.edges[he.Next].Origin, nil
}

// dest is the unchecked far end of a half-edge within its loop.
func (m *Mesh) dest(e EdgeID) VertexID {
	return m.edges[m.edges[e].Next].Origin
}

// FindEdge circulates the spokes around vStart searching for a half-edge
// whose destination is vEnd. The second result is false when no such edge
// exists or vStart has no outgoing edge. A spoke ring that does not close
// fails with ErrTopologyCorrupt rather than reporting absence.
func (m *Mesh) FindEdge(vStart, vEnd VertexID) (EdgeID, bool, error) {
	if vStart < 0 || int(vStart) >= len(m.verts) {
		return NoEdge, false, nil
	}
	found := NoEdge
	if err := m.forEachSpoke(vStart, func(e EdgeID) bool {
		if m.dest(e) == vEnd {
			found = e
			return false
		}
		return true
	}); err != nil {
		return NoEdge, false, err
	}
	return found, found != NoEdge, nil
}

// forEachSpoke visits every outgoing half-edge of v. It first sweeps
// forward via twin->next; if that sweep hits a boundary gap (a twinless
// spoke) it resumes from the start in the opposite rotation via prev->twin,
// so all spokes are visited even when the vertex sits on an open boundary.
// The callback returns false to stop early.
func (m *Mesh) forEachSpoke(v VertexID, fn func(EdgeID) bool) error {
	start := m.verts[v].Outgoing
	if start == NoEdge {
		return nil
	}

	e := start
	for steps := 0; ; steps++ {
		if steps > len(m.edges) {
			return fmt.Errorf("%w: spoke circulation at vertex %d does not close", ErrTopologyCorrupt, v)
		}
		if !fn(e) {
			return nil
		}
		tw := m.edges[e].Twin
		if tw == NoEdge {
			break // open boundary: finish with a reverse sweep
		}
		e = m.edges[tw].Next
		if e == start {
			return nil
		}
	}

	e = start
	for steps := 0; ; steps++ {
		if steps > len(m.edges) {
			return fmt.Errorf("%w: spoke circulation at vertex %d does not close", ErrTopologyCorrupt, v)
		}
		tw := m.edges[m.edges[e].Prev].Twin
		if tw == NoEdge {
			return nil
		}
		e = tw
		if e == start {
			return nil
		}
		if !fn(e) {
			return nil
		}
	}
}

// stepInDirection finds the vertex adjacent to v along an edge collinear
// with the given axis and sign. The second result is false when no such
// edge exists. Two distinct collinear continuations on the same side are a
// degenerate valence and fail with ErrAmbiguousTraversal: traversal never
// guesses a direction.
func (m *Mesh) stepInDirection(v VertexID, axis Axis, positive bool) (VertexID, bool, error) {
	from := m.verts[v].UV
	perp := axis.Perpendicular()
	found := NoVertex

	var ambiguous bool
	spokeErr := m.forEachSpoke(v, func(e EdgeID) bool {
		d := m.dest(e)
		to := m.verts[d].UV
		if math.Abs(to.Along(perp)-from.Along(perp)) > axisEps {
			return true // not collinear with the traversal axis
		}
		delta := to.Along(axis) - from.Along(axis)
		if (positive && delta > axisEps) || (!positive && delta < -axisEps) {
			if found != NoVertex && found != d {
				ambiguous = true
				return false
			}
			found = d
		}
		return true
	})
	if spokeErr != nil {
		return NoVertex, false, spokeErr
	}
	if ambiguous {
		return NoVertex, false, fmt.Errorf("%w: vertex %d has two %s%s continuations",
			ErrAmbiguousTraversal, v, axis, signStr(positive))
	}
	return found, found != NoVertex, nil
}

func signStr(positive bool) string {
	if positive {
		return "+"
	}
	return "-"
}

// hasPerpendicularEdge reports whether v carries at least one full edge
// perpendicular to the given axis. During knot inference only such vertices
// contribute knots; a T-junction passed tangentially records nothing.
func (m *Mesh) hasPerpendicularEdge(v VertexID, axis Axis) (bool, error) {
	perp := axis.Perpendicular()
	has := false
	if err := m.forEachSpoke(v, func(e EdgeID) bool {
		if m.edges[e].Axis == perp {
			has = true
			return false
		}
		return true
	}); err != nil {
		return false, err
	}
	return has, nil
}

// vertexOnBoundary reports whether v touches the outer boundary: one of its
// spokes (or their twins) is twinless or borders no face.
func (m *Mesh) vertexOnBoundary(v VertexID) (bool, error) {
	if m.verts[v].Outgoing == NoEdge {
		return true, nil
	}
	boundary := false
	if err := m.forEachSpoke(v, func(e EdgeID) bool {
		he := &m.edges[e]
		if he.Face == NoFace || he.Twin == NoEdge {
			boundary = true
			return false
		}
		if m.edges[he.Twin].Face == NoFace {
			boundary = true
			return false
		}
		return true
	}); err != nil {
		return false, err
	}
	return boundary, nil
}

// computeTJunction derives the T-junction flag for v from its cardinal
// neighbor pattern: exactly three of the four axis-aligned neighbors exist
// and the vertex is interior. Boundary vertices with three neighbors are
// ordinary boundary points, not T-junctions.
func (m *Mesh) computeTJunction(v VertexID) (bool, error) {
	count := 0
	for _, dir := range [4]struct {
		axis Axis
		pos  bool
	}{{AxisS, true}, {AxisS, false}, {AxisT, true}, {AxisT, false}} {
		_, ok, err := m.stepInDirection(v, dir.axis, dir.pos)
		if err != nil {
			return false, err
		}
		if ok {
			count++
		}
	}
	if count != 3 {
		return false, nil
	}
	onBoundary, err := m.vertexOnBoundary(v)
	if err != nil {
		return false, err
	}
	return !onBoundary, nil
}

// missingDirection returns the single absent cardinal direction of a
// T-junction, which names its extension axis and sign. A flagged junction
// with zero or more than one missing direction is degenerate and fails
// with ErrAmbiguousTraversal.
func (m *Mesh) missingDirection(v VertexID) (Axis, bool, error) {
	var (
		axis     Axis
		positive bool
		missing  int
	)
	for _, dir := range [4]struct {
		axis Axis
		pos  bool
	}{{AxisS, true}, {AxisS, false}, {AxisT, true}, {AxisT, false}} {
		_, ok, err := m.stepInDirection(v, dir.axis, dir.pos)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			axis, positive = dir.axis, dir.pos
			missing++
		}
	}
	if missing != 1 {
		return 0, false, fmt.Errorf("%w: vertex %d is missing %d cardinal directions",
			ErrAmbiguousTraversal, v, missing)
	}
	return axis, positive, nil
}

// FaceAt returns the face whose parametric extent strictly contains p.
// T-mesh faces are axis-aligned rectangles, so bound containment is exact.
// The second result is false for points outside every face or on a face
// border.
func (m *Mesh) FaceAt(p ParamPoint) (FaceID, bool) {
	for i := range m.faces {
		f := FaceID(i)
		b, err := m.FaceBounds(f)
		if err != nil {
			continue
		}
		if p.S > b.SMin+travelEps && p.S < b.SMax-travelEps &&
			p.T > b.TMin+travelEps && p.T < b.TMax-travelEps {
			return f, true
		}
	}
	return NoFace, false
}

// faceCrossing casts a ray from v along the given axis and sign through the
// faces incident to v, and returns the coordinate of the nearest crossing
// with a face edge. The second result is false when no incident face edge
// crosses the ray.
func (m *Mesh) faceCrossing(v VertexID, axis Axis, positive bool) (float64, bool, error) {
	from := m.verts[v].UV
	perp := axis.Perpendicular()
	rayConst := from.Along(perp)
	rayStart := from.Along(axis)

	closest := math.MaxFloat64
	var (
		coord float64
		hit   bool
	)

	var walkErr error
	if err := m.forEachSpoke(v, func(spoke EdgeID) bool {
		f := m.edges[spoke].Face
		if f == NoFace {
			return true
		}
		loop, err := m.FaceBoundary(f)
		if err != nil {
			walkErr = err
			return false
		}
		for _, e := range loop {
			p1 := m.verts[m.edges[e].Origin].UV
			p2 := m.verts[m.dest(e)].UV

			c1, c2 := p1.Along(perp), p2.Along(perp)
			if rayConst < math.Min(c1, c2)-rayEps || rayConst > math.Max(c1, c2)+rayEps {
				continue // edge does not span the ray line
			}
			if math.Abs(c2-c1) < axisEps {
				continue // collinear with the ray; handled by the edge walk
			}

			frac := (rayConst - c1) / (c2 - c1)
			at := p1.Along(axis) + frac*(p2.Along(axis)-p1.Along(axis))
			travel := at - rayStart
			if (positive && travel > travelEps) || (!positive && travel < -travelEps) {
				if math.Abs(travel) < closest {
					closest = math.Abs(travel)
					coord = at
					hit = true
				}
			}
		}
		return true
	}); err != nil {
		return 0, false, err
	}
	if walkErr != nil {
		return 0, false, walkErr
	}

	return coord, hit, nil
}
