package tspline

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec4"
)

// BuildVertex is one control point given to BuildMesh.
type BuildVertex struct {
	Geometry vec4.T
	UV       ParamPoint
}

// BuildMesh assembles a mesh from control points and counter-clockwise face
// loops given as vertex indices. It creates the interior half-edges, pairs
// twins, closes the outer boundary with a clockwise loop of faceless
// half-edges, derives axis tags and knot intervals from the parametric
// coordinates, and computes T-junction flags. The result passes NewMesh
// validation.
//
// Every face edge must be axis-aligned in parameter space and the face
// loops must describe a disc: one outer boundary, each boundary vertex
// visited once.
func BuildMesh(verts []BuildVertex, faces [][]int) (*Mesh, error) {
	cps := make([]ControlPoint, len(verts))
	for i, v := range verts {
		cps[i] = ControlPoint{
			Geometry: v.Geometry,
			UV:       v.UV,
			Outgoing: NoEdge,
		}
	}

	var (
		edges   []HalfEdge
		faceRec []Face
		pairs   = make(map[[2]int]EdgeID)
	)

	for fi, loop := range faces {
		if len(loop) < 3 {
			return nil, fmt.Errorf("tspline: face %d has %d vertices, need at least 3", fi, len(loop))
		}
		base := len(edges)
		n := len(loop)
		for j, vi := range loop {
			if vi < 0 || vi >= len(verts) {
				return nil, fmt.Errorf("tspline: face %d references vertex %d", fi, vi)
			}
			di := loop[(j+1)%n]
			axis, interval, err := edgeAxis(verts[vi].UV, verts[di].UV)
			if err != nil {
				return nil, fmt.Errorf("tspline: face %d edge %d->%d: %w", fi, vi, di, err)
			}

			id := EdgeID(len(edges))
			edges = append(edges, HalfEdge{
				Origin:   VertexID(vi),
				Twin:     NoEdge,
				Face:     FaceID(fi),
				Next:     EdgeID(base + (j+1)%n),
				Prev:     EdgeID(base + (j+n-1)%n),
				Axis:     axis,
				Interval: interval,
			})
			if cps[vi].Outgoing == NoEdge {
				cps[vi].Outgoing = id
			}

			key := [2]int{vi, di}
			if _, dup := pairs[key]; dup {
				return nil, fmt.Errorf("tspline: duplicate directed edge %d->%d", vi, di)
			}
			pairs[key] = id
			if twin, ok := pairs[[2]int{di, vi}]; ok {
				edges[id].Twin = twin
				edges[twin].Twin = id
			}
		}
		faceRec = append(faceRec, Face{Edge: EdgeID(base)})
	}

	if err := closeBoundary(cps, &edges); err != nil {
		return nil, err
	}

	m, err := NewMesh(cps, edges, faceRec)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// closeBoundary adds a clockwise faceless half-edge for every interior half
// left without a twin, links the boundary halves into a loop, and derives
// T-junction flags once full adjacency is in place.
func closeBoundary(cps []ControlPoint, edges *[]HalfEdge) error {
	es := *edges
	byOrigin := make(map[VertexID]EdgeID)

	interior := len(es)
	for i := 0; i < interior; i++ {
		if es[i].Twin != NoEdge {
			continue
		}
		origin := es[es[i].Next].Origin
		id := EdgeID(len(es))
		es = append(es, HalfEdge{
			Origin:   origin,
			Twin:     EdgeID(i),
			Face:     NoFace,
			Next:     NoEdge,
			Prev:     NoEdge,
			Axis:     es[i].Axis,
			Interval: es[i].Interval,
		})
		es[i].Twin = id
		if _, dup := byOrigin[origin]; dup {
			return fmt.Errorf("tspline: vertex %d lies on two boundary arcs", origin)
		}
		byOrigin[origin] = id
		if cps[origin].Outgoing == NoEdge {
			cps[origin].Outgoing = id
		}
	}

	for _, b := range byOrigin {
		dst := es[es[b].Twin].Origin
		next, ok := byOrigin[dst]
		if !ok {
			return fmt.Errorf("tspline: boundary loop broken at vertex %d", dst)
		}
		es[b].Next = next
		es[next].Prev = b
	}

	*edges = es

	// With twins and boundary halves wired, cardinal adjacency is complete
	// and the T-junction flags can be derived.
	m := Mesh{verts: cps, edges: es}
	for v := range cps {
		t, err := m.computeTJunction(VertexID(v))
		if err != nil {
			return err
		}
		cps[v].TJunction = t
	}
	return nil
}

// edgeAxis classifies a parametric edge as s- or t-aligned and returns its
// knot interval.
func edgeAxis(from, to ParamPoint) (Axis, float64, error) {
	ds, dt := to.S-from.S, to.T-from.T
	switch {
	case math.Abs(dt) <= axisEps && math.Abs(ds) > axisEps:
		return AxisS, math.Abs(ds), nil
	case math.Abs(ds) <= axisEps && math.Abs(dt) > axisEps:
		return AxisT, math.Abs(dt), nil
	default:
		return 0, 0, fmt.Errorf("edge (%v,%v)->(%v,%v) is not axis-aligned", from.S, from.T, to.S, to.T)
	}
}

// planarVertex places a control point on the z=0 plane at its parametric
// location with unit weight.
func planarVertex(s, t float64) BuildVertex {
	return BuildVertex{
		Geometry: vec4.T{s, t, 0, 1},
		UV:       Param(s, t),
	}
}

// UnitSquare builds the minimal mesh: one face over [0,1]x[0,1] with four
// corner control points on the z=0 plane.
func UnitSquare() (*Mesh, error) {
	return BuildMesh(
		[]BuildVertex{
			planarVertex(0, 0),
			planarVertex(1, 0),
			planarVertex(1, 1),
			planarVertex(0, 1),
		},
		[][]int{{0, 1, 2, 3}},
	)
}

// TJunction builds a three-face mesh with a single T-junction at (1,1),
// a configuration no single NURBS patch can represent. The junction's
// missing direction points left into the pentagonal face.
func TJunction() (*Mesh, error) {
	return BuildMesh(
		[]BuildVertex{
			planarVertex(0, 0), // 0
			planarVertex(1, 0), // 1
			planarVertex(2, 0), // 2
			planarVertex(1, 1), // 3: T-junction
			planarVertex(2, 1), // 4
			planarVertex(0, 2), // 5
			planarVertex(1, 2), // 6
			planarVertex(2, 2), // 7
		},
		[][]int{
			{0, 1, 3, 6, 5},
			{1, 2, 4, 3},
			{3, 4, 7, 6},
		},
	)
}

// SimpleShape builds a three-face mesh with one T-junction at (0.5,0.5)
// and non-planar control geometry, useful for exercising rational
// evaluation away from the z=0 plane.
func SimpleShape() (*Mesh, error) {
	geo := func(s, t, x, y, z, w float64) BuildVertex {
		return BuildVertex{Geometry: vec4.T{x, y, z, w}, UV: Param(s, t)}
	}
	return BuildMesh(
		[]BuildVertex{
			geo(0, 0, 0, 0, 0, 1),      // 0
			geo(0.5, 0, 2, 0, 0.5, 1),  // 1
			geo(1, 0, 4, 0, 0, 1),      // 2
			geo(0, 0.5, 0, 2, 0.5, 1),  // 3
			geo(0.5, 0.5, 2, 2, -1, 1), // 4: T-junction
			geo(1, 0.5, 4, 2, 0.5, 1),  // 5
			geo(0, 1, 0, 4, 0, 1),      // 6
			geo(1, 1, 4, 4, 0, 1),      // 7
		},
		[][]int{
			{0, 1, 4, 3},
			{1, 2, 5, 4},
			{3, 4, 5, 7, 6},
		},
	)
}

// RoundedCube builds the six faces of a cube unfolded into a cross in
// parameter space, with geometry on the unit cube corners. Shared corners
// make every face blend into its neighbors, so the evaluated surface is a
// rounded cube. The mesh has no T-junctions.
func RoundedCube() (*Mesh, error) {
	geo := func(s, t, x, y, z float64) BuildVertex {
		return BuildVertex{Geometry: vec4.T{x, y, z, 1}, UV: Param(s, t)}
	}
	return BuildMesh(
		[]BuildVertex{
			geo(0, 1, -1, -1, -1), // 0
			geo(1, 1, -1, -1, 1),  // 1
			geo(2, 1, 1, -1, 1),   // 2
			geo(3, 1, 1, -1, -1),  // 3
			geo(4, 1, -1, -1, -1), // 4
			geo(0, 2, -1, 1, -1),  // 5
			geo(1, 2, -1, 1, 1),   // 6
			geo(2, 2, 1, 1, 1),    // 7
			geo(3, 2, 1, 1, -1),   // 8
			geo(4, 2, -1, 1, -1),  // 9
			geo(1, 0, -1, -1, -1), // 10
			geo(2, 0, 1, -1, -1),  // 11
			geo(1, 3, -1, 1, -1),  // 12
			geo(2, 3, 1, 1, -1),   // 13
		},
		[][]int{
			{0, 1, 6, 5},   // left
			{1, 2, 7, 6},   // front
			{2, 3, 8, 7},   // right
			{3, 4, 9, 8},   // back
			{10, 11, 2, 1}, // bottom
			{6, 7, 13, 12}, // top
		},
	)
}

// Grid builds a regular cols x rows face grid with integer parametric
// spacing and planar geometry. A grid has no T-junctions, so the surface
// degenerates to a tensor-product B-spline patch.
func Grid(cols, rows int) (*Mesh, error) {
	if cols < 1 || rows < 1 {
		return nil, fmt.Errorf("tspline: grid needs at least 1x1 faces, got %dx%d", cols, rows)
	}
	var verts []BuildVertex
	for j := 0; j <= rows; j++ {
		for i := 0; i <= cols; i++ {
			verts = append(verts, planarVertex(float64(i), float64(j)))
		}
	}
	idx := func(i, j int) int { return j*(cols+1) + i }

	var faces [][]int
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			faces = append(faces, []int{idx(i, j), idx(i+1, j), idx(i+1, j+1), idx(i, j+1)})
		}
	}
	return BuildMesh(verts, faces)
}

// CrossedExtensions builds a mesh with two T-junctions whose extension
// segments intersect at (1,1): the junction at (2,1) extends left, the one
// at (1,2) extends down, and both cross inside the large face. The mesh is
// structurally valid but not analysis-suitable.
func CrossedExtensions() (*Mesh, error) {
	return BuildMesh(
		[]BuildVertex{
			planarVertex(0, 0), // 0
			planarVertex(2, 0), // 1
			planarVertex(3, 0), // 2
			planarVertex(2, 1), // 3: T-junction, extends left
			planarVertex(3, 1), // 4
			planarVertex(0, 2), // 5
			planarVertex(1, 2), // 6: T-junction, extends down
			planarVertex(2, 2), // 7
			planarVertex(3, 2), // 8
			planarVertex(0, 3), // 9
			planarVertex(1, 3), // 10
			planarVertex(2, 3), // 11
			planarVertex(3, 3), // 12
		},
		[][]int{
			{0, 1, 3, 7, 6, 5},
			{1, 2, 4, 3},
			{3, 4, 8, 7},
			{5, 6, 10, 9},
			{6, 7, 11, 10},
			{7, 8, 12, 11},
		},
	)
}
