package tspline

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/ungerik/go3d/float64/vec4"
)

// SplitEdge inserts a new control point on an edge at parametric coordinate
// `at` along the edge's axis, splitting the half-edge and its twin (when
// present) and interpolating geometry, weight and knot intervals. The
// coordinate must fall strictly inside the edge's span.
//
// The primitive re-establishes all topology invariants before returning and
// marks every control point whose local neighborhood changed as
// knots-dirty.
func (m *Mesh) SplitEdge(e EdgeID, at float64) (VertexID, error) {
	he, err := m.Edge(e)
	if err != nil {
		return NoVertex, err
	}
	origin := he.Origin
	dst := m.dest(e)

	c1 := m.verts[origin].UV.Along(he.Axis)
	c2 := m.verts[dst].UV.Along(he.Axis)
	if math.Abs(c2-c1) < axisEps {
		return NoVertex, fmt.Errorf("%w: edge %d has zero parametric span", ErrTopologyCorrupt, e)
	}
	alpha := (at - c1) / (c2 - c1)
	if alpha <= 0 || alpha >= 1 {
		return NoVertex, fmt.Errorf("tspline: split coordinate %v outside edge %d span (%v, %v)",
			at, e, c1, c2)
	}

	vo := &m.verts[origin]
	vd := &m.verts[dst]
	newVert := VertexID(len(m.verts))
	m.verts = append(m.verts, ControlPoint{
		Geometry: lerp4(vo.Geometry, vd.Geometry, alpha),
		UV: ParamPoint{
			S: vo.UV.S + (vd.UV.S-vo.UV.S)*alpha,
			T: vo.UV.T + (vd.UV.T-vo.UV.T)*alpha,
		},
		Outgoing: NoEdge,
	})

	// E: origin -> dst becomes E: origin -> new, followed by eNew: new -> dst.
	eNew := EdgeID(len(m.edges))
	oldNext := m.edges[e].Next
	interval := m.edges[e].Interval
	twin := m.edges[e].Twin

	m.edges = append(m.edges, HalfEdge{
		Origin:   newVert,
		Twin:     NoEdge, // wired below when the twin is split
		Face:     m.edges[e].Face,
		Next:     oldNext,
		Prev:     e,
		Axis:     m.edges[e].Axis,
		Interval: interval * (1 - alpha),
	})
	m.edges[e].Next = eNew
	m.edges[e].Interval = interval * alpha
	m.edges[oldNext].Prev = eNew
	m.verts[newVert].Outgoing = eNew

	if twin != NoEdge {
		// T: dst -> origin becomes T: dst -> new, followed by tNew: new -> origin.
		tNew := EdgeID(len(m.edges))
		tOldNext := m.edges[twin].Next
		tInterval := m.edges[twin].Interval

		m.edges = append(m.edges, HalfEdge{
			Origin:   newVert,
			Twin:     e,
			Face:     m.edges[twin].Face,
			Next:     tOldNext,
			Prev:     twin,
			Axis:     m.edges[twin].Axis,
			Interval: tInterval * alpha,
		})
		m.edges[twin].Next = tNew
		m.edges[twin].Interval = tInterval * (1 - alpha)
		m.edges[tOldNext].Prev = tNew

		m.edges[e].Twin = tNew
		m.edges[eNew].Twin = twin
		m.edges[twin].Twin = eNew
	}

	m.refreshTJunction(origin)
	m.refreshTJunction(dst)
	m.refreshTJunction(newVert)
	m.markDirtyWindow(newVert)
	m.markDirtyWindow(origin)
	m.markDirtyWindow(dst)

	Logger().Debug("split edge",
		slog.Int("edge", int(e)),
		slog.Int("vertex", int(newVert)),
		slog.Float64("alpha", alpha))
	return newVert, nil
}

// ConnectVertices inserts an axis-aligned chord between two vertices on the
// boundary loop of one face, splitting the face in two. It returns the new
// half-edge from v1 to v2 and the identity of the new face carved off on
// the v2 -> v1 side.
func (m *Mesh) ConnectVertices(f FaceID, v1, v2 VertexID) (EdgeID, FaceID, error) {
	if v1 == v2 {
		return NoEdge, NoFace, fmt.Errorf("tspline: cannot connect vertex %d to itself", v1)
	}
	loop, err := m.FaceBoundary(f)
	if err != nil {
		return NoEdge, NoFace, err
	}

	end1, start1 := NoEdge, NoEdge // edge ending at v1, edge starting at v1
	end2, start2 := NoEdge, NoEdge
	for _, e := range loop {
		if m.edges[e].Origin == v1 {
			start1 = e
			end1 = m.edges[e].Prev
		}
		if m.edges[e].Origin == v2 {
			start2 = e
			end2 = m.edges[e].Prev
		}
	}
	if start1 == NoEdge || start2 == NoEdge {
		return NoEdge, NoFace, fmt.Errorf("tspline: vertices %d and %d are not both on face %d", v1, v2, f)
	}

	p1, p2 := m.verts[v1].UV, m.verts[v2].UV
	var axis Axis
	switch {
	case math.Abs(p1.T-p2.T) < axisEps:
		axis = AxisS
	case math.Abs(p1.S-p2.S) < axisEps:
		axis = AxisT
	default:
		return NoEdge, NoFace, fmt.Errorf("tspline: chord %d-%d is not axis-aligned", v1, v2)
	}
	interval := math.Abs(p2.Along(axis) - p1.Along(axis))

	cross := EdgeID(len(m.edges))
	crossTwin := cross + 1
	newFace := FaceID(len(m.faces))

	// cross: v1 -> v2 stays with f; crossTwin: v2 -> v1 seeds the new face.
	m.edges = append(m.edges,
		HalfEdge{
			Origin: v1, Twin: crossTwin, Face: f,
			Next: start2, Prev: end1,
			Axis: axis, Interval: interval,
		},
		HalfEdge{
			Origin: v2, Twin: cross, Face: newFace,
			Next: start1, Prev: end2,
			Axis: axis, Interval: interval,
		},
	)
	m.faces = append(m.faces, Face{Edge: crossTwin})

	m.edges[end1].Next = cross
	m.edges[start2].Prev = cross
	m.edges[end2].Next = crossTwin
	m.edges[start1].Prev = crossTwin
	m.faces[f].Edge = cross

	// Reassign the carved-off loop to the new face.
	cur := crossTwin
	for {
		m.edges[cur].Face = newFace
		cur = m.edges[cur].Next
		if cur == crossTwin {
			break
		}
	}

	m.refreshTJunction(v1)
	m.refreshTJunction(v2)
	m.markDirtyWindow(v1)
	m.markDirtyWindow(v2)

	Logger().Debug("connect vertices",
		slog.Int("v1", int(v1)),
		slog.Int("v2", int(v2)),
		slog.Int("face", int(newFace)))
	return cross, newFace, nil
}

// SplitFaceAt cuts a face with an axis-aligned chord: axis names the
// direction the new edge runs along, and `at` is the cut coordinate on the
// perpendicular axis. The two boundary edges crossing the cut line are
// split and the resulting T-junction vertices connected.
//
// The cut must cross exactly two boundary edges strictly between their
// endpoints; a cut through an existing vertex or a degenerate face is
// rejected.
func (m *Mesh) SplitFaceAt(f FaceID, axis Axis, at float64) (EdgeID, FaceID, error) {
	loop, err := m.FaceBoundary(f)
	if err != nil {
		return NoEdge, NoFace, err
	}
	cut := axis.Perpendicular()

	var candidates []EdgeID
	for _, e := range loop {
		c1 := m.verts[m.edges[e].Origin].UV.Along(cut)
		c2 := m.verts[m.dest(e)].UV.Along(cut)
		if at > math.Min(c1, c2)+travelEps && at < math.Max(c1, c2)-travelEps {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) != 2 {
		return NoEdge, NoFace, fmt.Errorf("tspline: cut %s=%v crosses %d edges of face %d, need 2",
			cut, at, len(candidates), f)
	}

	va, err := m.SplitEdge(candidates[0], at)
	if err != nil {
		return NoEdge, NoFace, err
	}
	vb, err := m.SplitEdge(candidates[1], at)
	if err != nil {
		return NoEdge, NoFace, err
	}
	return m.ConnectVertices(f, va, vb)
}

// refreshTJunction recomputes the stored T-junction flag of one vertex.
func (m *Mesh) refreshTJunction(v VertexID) {
	t, err := m.computeTJunction(v)
	if err != nil {
		// Degenerate valence; leave the flag as-is, traversal will surface
		// the error when the vertex is next visited.
		return
	}
	m.verts[v].TJunction = t
}

// markDirtyWindow marks v and every control point within the knot inference
// window of the change: the vertices of all faces incident to v, plus up to
// Degree-1 cardinal steps outward from each. T-spline locality bounds the
// affected set; this over-approximates it without a transitive closure.
func (m *Mesh) markDirtyWindow(v VertexID) {
	seeds := map[VertexID]struct{}{v: {}}
	_ = m.forEachSpoke(v, func(e EdgeID) bool {
		f := m.edges[e].Face
		if f == NoFace {
			return true
		}
		loop, err := m.FaceBoundary(f)
		if err != nil {
			return true
		}
		for _, le := range loop {
			seeds[m.edges[le].Origin] = struct{}{}
		}
		return true
	})

	for s := range seeds {
		m.markDirty(s)
		for _, dir := range [4]struct {
			axis Axis
			pos  bool
		}{{AxisS, true}, {AxisS, false}, {AxisT, true}, {AxisT, false}} {
			cur := s
			for range Degree - 1 {
				next, ok, err := m.stepInDirection(cur, dir.axis, dir.pos)
				if err != nil || !ok {
					break
				}
				m.markDirty(next)
				cur = next
			}
		}
	}
}

// lerp4 interpolates homogeneous coordinates componentwise.
func lerp4(a, b vec4.T, t float64) vec4.T {
	return vec4.T{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
		a[3] + (b[3]-a[3])*t,
	}
}
