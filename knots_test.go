package tspline

import (
	"errors"
	"testing"
)

func TestInferLocalKnotsUnitSquare(t *testing.T) {
	m := mustMesh(UnitSquare())

	tests := []struct {
		v    VertexID
		s, t KnotVector
	}{
		{0, KnotVector{0, 0, 0, 0, 1}, KnotVector{0, 0, 0, 0, 1}},
		{1, KnotVector{0, 1, 1, 1, 1}, KnotVector{0, 0, 0, 0, 1}},
		{2, KnotVector{0, 1, 1, 1, 1}, KnotVector{0, 1, 1, 1, 1}},
		{3, KnotVector{0, 0, 0, 0, 1}, KnotVector{0, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		lk, err := m.InferLocalKnots(tt.v)
		if err != nil {
			t.Fatalf("InferLocalKnots(%d): %v", tt.v, err)
		}
		if lk.S != tt.s {
			t.Errorf("vertex %d S = %v, want %v", tt.v, lk.S, tt.s)
		}
		if lk.T != tt.t {
			t.Errorf("vertex %d T = %v, want %v", tt.v, lk.T, tt.t)
		}
	}
}

func TestInferLocalKnotsTJunction(t *testing.T) {
	m := mustMesh(TJunction())

	// The junction sees the face interior on its missing side: the ray
	// crosses the pentagon and stops at its far edge.
	lk, err := m.InferLocalKnots(3)
	if err != nil {
		t.Fatalf("InferLocalKnots(3): %v", err)
	}
	want := KnotVector{0, 0, 1, 2, 2}
	if lk.S != want {
		t.Errorf("S = %v, want %v", lk.S, want)
	}
	if lk.T != want {
		t.Errorf("T = %v, want %v", lk.T, want)
	}
}

func TestInferLocalKnotsGridInterior(t *testing.T) {
	m := mustMesh(Grid(4, 4))

	// (2,2) is two full rings away from every boundary.
	lk, err := m.InferLocalKnots(12)
	if err != nil {
		t.Fatalf("InferLocalKnots: %v", err)
	}
	want := KnotVector{0, 1, 2, 3, 4}
	if lk.S != want || lk.T != want {
		t.Errorf("knots = %v / %v, want uniform %v", lk.S, lk.T, want)
	}
}

func TestInferLocalKnotsBoundaryShift(t *testing.T) {
	m := mustMesh(Grid(2, 2))

	// (1,0) sits mid-span on the bottom boundary: full multiplicity in t,
	// plain clamping in s.
	lk, err := m.InferLocalKnots(1)
	if err != nil {
		t.Fatalf("InferLocalKnots: %v", err)
	}
	if want := (KnotVector{0, 0, 1, 2, 2}); lk.S != want {
		t.Errorf("S = %v, want %v", lk.S, want)
	}
	if want := (KnotVector{0, 0, 0, 0, 1}); lk.T != want {
		t.Errorf("T = %v, want %v", lk.T, want)
	}
}

func TestInferLocalKnotsBadVertex(t *testing.T) {
	m := mustMesh(UnitSquare())
	if _, err := m.InferLocalKnots(-1); !errors.Is(err, ErrInvalidIndex) {
		t.Errorf("expected ErrInvalidIndex, got %v", err)
	}
}

func TestLocalKnotsSupports(t *testing.T) {
	lk := LocalKnots{
		S: KnotVector{0, 1, 2, 3, 4},
		T: KnotVector{0, 0, 0, 0, 1},
	}
	tests := []struct {
		p    ParamPoint
		want bool
	}{
		{Param(2, 0.5), true},
		{Param(0, 0), true},
		{Param(4, 1), true},
		{Param(4.5, 0.5), false},
		{Param(2, 1.5), false},
	}
	for _, tt := range tests {
		if got := lk.Supports(tt.p); got != tt.want {
			t.Errorf("Supports(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestKnotTableFillAndDense(t *testing.T) {
	m := mustMesh(TJunction())
	tbl := newKnotTable()
	if err := tbl.fill(m); err != nil {
		t.Fatalf("fill: %v", err)
	}
	dense, err := tbl.dense(m)
	if err != nil {
		t.Fatalf("dense: %v", err)
	}
	if len(dense) != m.NumVertices() {
		t.Fatalf("dense has %d entries, want %d", len(dense), m.NumVertices())
	}
	for v := range m.NumVertices() {
		lk, err := m.InferLocalKnots(VertexID(v))
		if err != nil {
			t.Fatalf("InferLocalKnots(%d): %v", v, err)
		}
		if dense[v] != lk {
			t.Errorf("vertex %d table entry %v, direct inference %v", v, dense[v], lk)
		}
	}
}

func TestKnotTableDenseIncomplete(t *testing.T) {
	m := mustMesh(UnitSquare())
	tbl := newKnotTable()
	if _, err := tbl.dense(m); !errors.Is(err, ErrTopologyCorrupt) {
		t.Errorf("expected ErrTopologyCorrupt for empty table, got %v", err)
	}
}
