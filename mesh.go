package tspline

import (
	"fmt"
	"iter"
	"math"

	"github.com/ungerik/go3d/float64/vec4"
)

// VertexID identifies a control point in a Mesh.
type VertexID int

// EdgeID identifies a half-edge in a Mesh.
type EdgeID int

// FaceID identifies a face in a Mesh.
type FaceID int

// Sentinel identities for absent references.
const (
	NoVertex VertexID = -1
	NoEdge   EdgeID   = -1
	NoFace   FaceID   = -1
)

// ControlPoint is a T-mesh vertex.
type ControlPoint struct {
	// Geometry is the homogeneous coordinate (x, y, z, w) of the control
	// point. The w component is the rational weight.
	Geometry vec4.T

	// UV is the parametric location of the point.
	UV ParamPoint

	// Outgoing is one half-edge starting at this vertex, or NoEdge for an
	// isolated vertex.
	Outgoing EdgeID

	// TJunction marks the vertex as a T-junction: exactly three of its four
	// axis-aligned neighbors exist and every incident face is interior.
	TJunction bool
}

// HalfEdge is one directed half of an undirected mesh edge.
type HalfEdge struct {
	// Origin is the vertex this half-edge starts at.
	Origin VertexID

	// Twin is the opposite-direction half-edge sharing the same undirected
	// edge, or NoEdge on a true mesh boundary.
	Twin EdgeID

	// Face is the face to the left of this half-edge, or NoFace for halves
	// of the outer boundary loop.
	Face FaceID

	// Next and Prev link the half-edge into its face's boundary loop.
	Next, Prev EdgeID

	// Axis tags the parametric direction the edge runs along.
	Axis Axis

	// Interval is the knot interval (parametric length) of this edge. It is
	// carried on the edge and used during ray traversal rather than being
	// recomputed from coordinates.
	Interval float64
}

// Face is a mesh face, recoverable as the loop of half-edges reached by
// following Next from Edge. Faces may have more than four sides where
// T-junctions create hanging boundary structure.
type Face struct {
	Edge EdgeID
}

// Mesh is the topology store: it owns all control points, half-edges and
// faces in flat, identity-indexed arenas. Cross-references between entities
// are plain indices into those arenas, never pointers.
//
// The arenas are append-only. Mutations add entities but never delete or
// compact, so an identity issued at any point remains valid for the life of
// the mesh and stale-index reads cannot occur.
//
// Mesh is not safe for concurrent mutation; see the package documentation
// for the single-writer, many-reader discipline.
type Mesh struct {
	verts []ControlPoint
	edges []HalfEdge
	faces []Face

	// dirty holds vertices whose local neighborhood changed since the knot
	// table was last refreshed.
	dirty map[VertexID]struct{}
}

// NewMesh constructs a mesh from a fully-formed topology and fail-fast
// validates the structural invariants (twin symmetry, loop closure, link
// consistency, axis tags, T-junction flags) before the mesh is usable.
// The input slices are copied.
func NewMesh(verts []ControlPoint, edges []HalfEdge, faces []Face) (*Mesh, error) {
	m := &Mesh{
		verts: append([]ControlPoint(nil), verts...),
		edges: append([]HalfEdge(nil), edges...),
		faces: append([]Face(nil), faces...),
		dirty: make(map[VertexID]struct{}, len(verts)),
	}
	if err := m.Check(); err != nil {
		return nil, err
	}
	// A fresh mesh has no knot table yet; everything starts dirty.
	for v := range m.verts {
		m.dirty[VertexID(v)] = struct{}{}
	}
	return m, nil
}

// SetGeometry replaces the homogeneous coordinate of a control point.
// Geometry carries no topological information, so knot vectors and
// analysis suitability are unaffected.
func (m *Mesh) SetGeometry(v VertexID, g vec4.T) error {
	if v < 0 || int(v) >= len(m.verts) {
		return &IndexError{Kind: "vertex", ID: int(v)}
	}
	m.verts[v].Geometry = g
	return nil
}

// NumVertices returns the number of control points.
func (m *Mesh) NumVertices() int { return len(m.verts) }

// NumEdges returns the number of half-edges.
func (m *Mesh) NumEdges() int { return len(m.edges) }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int { return len(m.faces) }

// Vertex returns the control point with the given identity.
// Fails with an *IndexError wrapping ErrInvalidIndex for an identity the
// mesh never allocated.
func (m *Mesh) Vertex(id VertexID) (*ControlPoint, error) {
	if id < 0 || int(id) >= len(m.verts) {
		return nil, &IndexError{Kind: "vertex", ID: int(id)}
	}
	return &m.verts[id], nil
}

// Edge returns the half-edge with the given identity.
func (m *Mesh) Edge(id EdgeID) (*HalfEdge, error) {
	if id < 0 || int(id) >= len(m.edges) {
		return nil, &IndexError{Kind: "edge", ID: int(id)}
	}
	return &m.edges[id], nil
}

// Face returns the face with the given identity.
func (m *Mesh) Face(id FaceID) (*Face, error) {
	if id < 0 || int(id) >= len(m.faces) {
		return nil, &IndexError{Kind: "face", ID: int(id)}
	}
	return &m.faces[id], nil
}

// Vertices iterates all control points in ascending identity order.
// The order is stable across calls and is the serialization contract for
// the I/O layer.
func (m *Mesh) Vertices() iter.Seq2[VertexID, *ControlPoint] {
	return func(yield func(VertexID, *ControlPoint) bool) {
		for i := range m.verts {
			if !yield(VertexID(i), &m.verts[i]) {
				return
			}
		}
	}
}

// Edges iterates all half-edges in ascending identity order.
func (m *Mesh) Edges() iter.Seq2[EdgeID, *HalfEdge] {
	return func(yield func(EdgeID, *HalfEdge) bool) {
		for i := range m.edges {
			if !yield(EdgeID(i), &m.edges[i]) {
				return
			}
		}
	}
}

// Faces iterates all faces in ascending identity order.
func (m *Mesh) Faces() iter.Seq2[FaceID, *Face] {
	return func(yield func(FaceID, *Face) bool) {
		for i := range m.faces {
			if !yield(FaceID(i), &m.faces[i]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the mesh, including its dirty set.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		verts: append([]ControlPoint(nil), m.verts...),
		edges: append([]HalfEdge(nil), m.edges...),
		faces: append([]Face(nil), m.faces...),
		dirty: make(map[VertexID]struct{}, len(m.dirty)),
	}
	for v := range m.dirty {
		c.dirty[v] = struct{}{}
	}
	return c
}

// markDirty records that v's local neighborhood changed and its knot
// vectors must be re-inferred.
func (m *Mesh) markDirty(v VertexID) {
	m.dirty[v] = struct{}{}
}

// takeDirty returns the accumulated dirty set and clears it.
func (m *Mesh) takeDirty() []VertexID {
	if len(m.dirty) == 0 {
		return nil
	}
	out := make([]VertexID, 0, len(m.dirty))
	for v := range m.dirty {
		out = append(out, v)
	}
	clear(m.dirty)
	return out
}

// Bounds is the axis-aligned extent of the mesh in parameter space.
type Bounds struct {
	SMin, SMax float64
	TMin, TMax float64
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() ParamPoint {
	return Param((b.SMin+b.SMax)/2, (b.TMin+b.TMax)/2)
}

// Interpolate returns sample i of a resolution x resolution grid laid over
// the bounds, in row-major order (s varies fastest).
func (b Bounds) Interpolate(i, resolution int) ParamPoint {
	if resolution <= 1 {
		return Param(b.SMin, b.TMin)
	}
	denom := float64(resolution - 1)
	ui := i % resolution
	vi := i / resolution
	return Param(
		b.SMin+float64(ui)/denom*(b.SMax-b.SMin),
		b.TMin+float64(vi)/denom*(b.TMax-b.TMin),
	)
}

// Bounds returns the parametric bounding box over all control points.
func (m *Mesh) Bounds() Bounds {
	b := Bounds{SMin: math.MaxFloat64, SMax: -math.MaxFloat64,
		TMin: math.MaxFloat64, TMax: -math.MaxFloat64}
	for i := range m.verts {
		uv := m.verts[i].UV
		b.SMin = math.Min(b.SMin, uv.S)
		b.SMax = math.Max(b.SMax, uv.S)
		b.TMin = math.Min(b.TMin, uv.T)
		b.TMax = math.Max(b.TMax, uv.T)
	}
	return b
}

// FaceBounds returns the parametric bounding box of one face's boundary.
func (m *Mesh) FaceBounds(f FaceID) (Bounds, error) {
	loop, err := m.FaceBoundary(f)
	if err != nil {
		return Bounds{}, err
	}
	b := Bounds{SMin: math.MaxFloat64, SMax: -math.MaxFloat64,
		TMin: math.MaxFloat64, TMax: -math.MaxFloat64}
	for _, e := range loop {
		uv := m.verts[m.edges[e].Origin].UV
		b.SMin = math.Min(b.SMin, uv.S)
		b.SMax = math.Max(b.SMax, uv.S)
		b.TMin = math.Min(b.TMin, uv.T)
		b.TMax = math.Max(b.TMax, uv.T)
	}
	return b, nil
}

// Check validates the structural invariants of the mesh and returns an
// error wrapping ErrTopologyCorrupt (or ErrInvalidIndex for out-of-range
// references) describing the first violation found.
func (m *Mesh) Check() error {
	for i := range m.edges {
		e := &m.edges[i]
		id := EdgeID(i)
		if e.Origin < 0 || int(e.Origin) >= len(m.verts) {
			return fmt.Errorf("%w: edge %d origin %d out of range", ErrTopologyCorrupt, id, e.Origin)
		}
		if e.Next < 0 || int(e.Next) >= len(m.edges) || e.Prev < 0 || int(e.Prev) >= len(m.edges) {
			return fmt.Errorf("%w: edge %d has dangling loop links", ErrTopologyCorrupt, id)
		}
		if e.Twin != NoEdge && (e.Twin < 0 || int(e.Twin) >= len(m.edges)) {
			return fmt.Errorf("%w: edge %d twin %d out of range", ErrTopologyCorrupt, id, e.Twin)
		}
		if e.Face != NoFace && (e.Face < 0 || int(e.Face) >= len(m.faces)) {
			return fmt.Errorf("%w: edge %d face %d out of range", ErrTopologyCorrupt, id, e.Face)
		}
		if m.edges[e.Next].Prev != id {
			return fmt.Errorf("%w: edge %d next/prev links disagree", ErrTopologyCorrupt, id)
		}
		if e.Twin != NoEdge {
			if e.Twin == id {
				return fmt.Errorf("%w: edge %d is its own twin", ErrTopologyCorrupt, id)
			}
			if m.edges[e.Twin].Twin != id {
				return fmt.Errorf("%w: twin symmetry broken at edge %d", ErrTopologyCorrupt, id)
			}
			if m.edges[e.Twin].Origin != m.edges[e.Next].Origin {
				return fmt.Errorf("%w: edge %d twin origin disagrees with loop", ErrTopologyCorrupt, id)
			}
		}
		if e.Interval < 0 {
			return fmt.Errorf("%w: edge %d has negative knot interval", ErrTopologyCorrupt, id)
		}
		if err := m.checkEdgeAxis(id); err != nil {
			return err
		}
	}

	for i := range m.faces {
		if _, err := m.FaceBoundary(FaceID(i)); err != nil {
			return err
		}
	}

	for i := range m.verts {
		v := &m.verts[i]
		if v.Outgoing != NoEdge {
			if v.Outgoing < 0 || int(v.Outgoing) >= len(m.edges) {
				return fmt.Errorf("%w: vertex %d outgoing edge out of range", ErrTopologyCorrupt, i)
			}
			if m.edges[v.Outgoing].Origin != VertexID(i) {
				return fmt.Errorf("%w: vertex %d outgoing edge starts elsewhere", ErrTopologyCorrupt, i)
			}
		}
		want, err := m.computeTJunction(VertexID(i))
		if err != nil {
			return err
		}
		if want != v.TJunction {
			return fmt.Errorf("%w: vertex %d T-junction flag is %v, topology says %v",
				ErrTopologyCorrupt, i, v.TJunction, want)
		}
	}
	return nil
}

// checkEdgeAxis verifies that an edge's axis tag agrees with its endpoint
// geometry: the perpendicular coordinate must not change along the edge.
func (m *Mesh) checkEdgeAxis(id EdgeID) error {
	e := &m.edges[id]
	from := m.verts[e.Origin].UV
	to := m.verts[m.edges[e.Next].Origin].UV
	perp := e.Axis.Perpendicular()
	if math.Abs(from.Along(perp)-to.Along(perp)) > axisEps {
		return fmt.Errorf("%w: edge %d tagged %s but endpoints move in %s",
			ErrTopologyCorrupt, id, e.Axis, perp)
	}
	return nil
}
