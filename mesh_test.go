package tspline

import (
	"errors"
	"math"
	"testing"

	"github.com/ungerik/go3d/float64/vec4"
)

func mustMesh(m *Mesh, err error) *Mesh {
	if err != nil {
		panic("building mesh: " + err.Error())
	}
	return m
}

func TestShapeTopology(t *testing.T) {
	tests := []struct {
		name      string
		build     func() (*Mesh, error)
		verts     int
		edges     int
		faces     int
		junctions []VertexID
	}{
		{"unit square", UnitSquare, 4, 8, 1, nil},
		{"t-junction", TJunction, 8, 20, 3, []VertexID{3}},
		{"simple shape", SimpleShape, 8, 20, 3, []VertexID{4}},
		{"rounded cube", RoundedCube, 14, 38, 6, nil},
		{"crossed extensions", CrossedExtensions, 13, 36, 6, []VertexID{3, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMesh(tt.build())
			if m.NumVertices() != tt.verts {
				t.Errorf("vertices = %d, want %d", m.NumVertices(), tt.verts)
			}
			if m.NumEdges() != tt.edges {
				t.Errorf("edges = %d, want %d", m.NumEdges(), tt.edges)
			}
			if m.NumFaces() != tt.faces {
				t.Errorf("faces = %d, want %d", m.NumFaces(), tt.faces)
			}

			var junctions []VertexID
			for id, cp := range m.Vertices() {
				if cp.TJunction {
					junctions = append(junctions, id)
				}
			}
			if len(junctions) != len(tt.junctions) {
				t.Fatalf("junctions = %v, want %v", junctions, tt.junctions)
			}
			for i, id := range tt.junctions {
				if junctions[i] != id {
					t.Errorf("junctions = %v, want %v", junctions, tt.junctions)
					break
				}
			}
		})
	}
}

func TestGridTopology(t *testing.T) {
	m := mustMesh(Grid(2, 3))
	if m.NumVertices() != 12 {
		t.Errorf("vertices = %d, want 12", m.NumVertices())
	}
	if m.NumFaces() != 6 {
		t.Errorf("faces = %d, want 6", m.NumFaces())
	}
	for id, cp := range m.Vertices() {
		if cp.TJunction {
			t.Errorf("grid vertex %d flagged as T-junction", id)
		}
	}

	if _, err := Grid(0, 2); err == nil {
		t.Error("expected error for empty grid")
	}
}

func TestBuildMeshRejectsBadInput(t *testing.T) {
	diag := []BuildVertex{planarVertex(0, 0), planarVertex(1, 1), planarVertex(0, 1)}
	if _, err := BuildMesh(diag, [][]int{{0, 1, 2}}); err == nil {
		t.Error("expected error for non-axis-aligned edge")
	}

	quad := []BuildVertex{planarVertex(0, 0), planarVertex(1, 0), planarVertex(1, 1), planarVertex(0, 1)}
	if _, err := BuildMesh(quad, [][]int{{0, 1, 9, 3}}); err == nil {
		t.Error("expected error for out-of-range vertex")
	}
	if _, err := BuildMesh(quad, [][]int{{0, 1}}); err == nil {
		t.Error("expected error for degenerate face")
	}
}

func TestMeshAccessors(t *testing.T) {
	m := mustMesh(UnitSquare())

	if _, err := m.Vertex(99); err == nil {
		t.Error("expected error for out-of-range vertex")
	}
	var idxErr *IndexError
	_, err := m.Edge(-1)
	if !errors.As(err, &idxErr) || !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected IndexError wrapping ErrInvalidIndex, got %v", err)
	}
	if _, err := m.Face(1); err == nil {
		t.Error("expected error for out-of-range face")
	}

	cp, err := m.Vertex(2)
	if err != nil {
		t.Fatalf("Vertex(2): %v", err)
	}
	if cp.UV != Param(1, 1) {
		t.Errorf("vertex 2 at %v, want (1,1)", cp.UV)
	}
}

func TestMeshIterationOrder(t *testing.T) {
	m := mustMesh(TJunction())

	prev := VertexID(-1)
	for id := range m.Vertices() {
		if id <= prev {
			t.Fatalf("vertex iteration out of order: %d after %d", id, prev)
		}
		prev = id
	}
}

func TestMeshBounds(t *testing.T) {
	m := mustMesh(TJunction())
	b := m.Bounds()
	want := Bounds{SMin: 0, SMax: 2, TMin: 0, TMax: 2}
	if b != want {
		t.Errorf("Bounds = %+v, want %+v", b, want)
	}
	if b.Center() != Param(1, 1) {
		t.Errorf("Center = %v, want (1,1)", b.Center())
	}

	fb, err := m.FaceBounds(1)
	if err != nil {
		t.Fatalf("FaceBounds: %v", err)
	}
	if fb != (Bounds{SMin: 1, SMax: 2, TMin: 0, TMax: 1}) {
		t.Errorf("FaceBounds(1) = %+v", fb)
	}
}

func TestBoundsInterpolate(t *testing.T) {
	b := Bounds{SMin: 0, SMax: 2, TMin: 0, TMax: 4}
	const res = 3
	corners := map[int]ParamPoint{
		0:           Param(0, 0),
		res - 1:     Param(2, 0),
		res*res - 1: Param(2, 4),
	}
	for i, want := range corners {
		got := b.Interpolate(i, res)
		if math.Abs(got.S-want.S) > 1e-12 || math.Abs(got.T-want.T) > 1e-12 {
			t.Errorf("Interpolate(%d) = %v, want %v", i, got, want)
		}
	}
	mid := b.Interpolate(4, res) // center of a 3x3 grid
	if mid != Param(1, 2) {
		t.Errorf("center sample = %v, want (1,2)", mid)
	}
}

func TestMeshCloneIsolation(t *testing.T) {
	m := mustMesh(UnitSquare())
	c := m.Clone()

	if err := c.SetGeometry(0, vec4.T{9, 9, 9, 1}); err != nil {
		t.Fatalf("SetGeometry: %v", err)
	}
	orig, _ := m.Vertex(0)
	if orig.Geometry[0] == 9 {
		t.Error("mutating the clone changed the original")
	}
}

func TestNewMeshRejectsCorruptTopology(t *testing.T) {
	m := mustMesh(UnitSquare())

	// Break twin symmetry on a copy of the arenas.
	verts := make([]ControlPoint, m.NumVertices())
	for id, cp := range m.Vertices() {
		verts[id] = *cp
	}
	edges := make([]HalfEdge, m.NumEdges())
	for id, he := range m.Edges() {
		edges[id] = *he
	}
	faces := make([]Face, m.NumFaces())
	for id, f := range m.Faces() {
		faces[id] = *f
	}
	edges[0].Twin = 0

	if _, err := NewMesh(verts, edges, faces); !errors.Is(err, ErrTopologyCorrupt) {
		t.Errorf("expected ErrTopologyCorrupt, got %v", err)
	}
}

func TestSetGeometry(t *testing.T) {
	m := mustMesh(UnitSquare())
	if err := m.SetGeometry(3, vec4.T{0, 1, 2, 1}); err != nil {
		t.Fatalf("SetGeometry: %v", err)
	}
	cp, _ := m.Vertex(3)
	if cp.Geometry != (vec4.T{0, 1, 2, 1}) {
		t.Errorf("geometry = %v", cp.Geometry)
	}
	if err := m.SetGeometry(-1, vec4.T{}); err == nil {
		t.Error("expected error for bad vertex")
	}
}
