package tspline

import (
	"errors"
	"testing"
)

func TestValidateASTSAccepts(t *testing.T) {
	builders := map[string]func() (*Mesh, error){
		"unit square":  UnitSquare,
		"t-junction":   TJunction,
		"simple shape": SimpleShape,
		"rounded cube": RoundedCube,
		"grid":         func() (*Mesh, error) { return Grid(3, 3) },
	}
	for name, build := range builders {
		t.Run(name, func(t *testing.T) {
			m := mustMesh(build())
			if err := m.ValidateASTS(); err != nil {
				t.Errorf("ValidateASTS: %v", err)
			}
		})
	}
}

func TestValidateASTSRejectsCrossing(t *testing.T) {
	m := mustMesh(CrossedExtensions())

	err := m.ValidateASTS()
	var astsErr *ASTSError
	if !errors.As(err, &astsErr) {
		t.Fatalf("expected *ASTSError, got %v", err)
	}
	if !errors.Is(err, ErrASTSViolation) {
		t.Error("ASTSError does not wrap ErrASTSViolation")
	}
	if len(astsErr.Pairs) != 1 {
		t.Fatalf("got %d offending pairs, want 1: %v", len(astsErr.Pairs), astsErr.Pairs)
	}
	p := astsErr.Pairs[0]
	if p.H != 3 || p.V != 6 {
		t.Errorf("pair = {H:%d V:%d}, want {H:3 V:6}", p.H, p.V)
	}
}

func TestValidateASTSAfterTruncation(t *testing.T) {
	m := mustMesh(CrossedExtensions())
	if err := m.ValidateASTS(); err == nil {
		t.Fatal("crossed extensions validated before refinement")
	}

	// Cut the hexagonal face at s=1.5. The chord stops the horizontal
	// extension of vertex 3 short of the vertical one at s=1.
	if _, _, err := m.SplitFaceAt(0, AxisT, 1.5); err != nil {
		t.Fatalf("SplitFaceAt: %v", err)
	}
	if err := m.Check(); err != nil {
		t.Fatalf("Check after split: %v", err)
	}

	if err := m.ValidateASTS(); err != nil {
		t.Errorf("ValidateASTS after truncation: %v", err)
	}

	horizontal, _, err := m.Extensions()
	if err != nil {
		t.Fatalf("Extensions: %v", err)
	}
	if len(horizontal) != 1 {
		t.Fatalf("got %d horizontal extensions, want 1", len(horizontal))
	}
	if end := horizontal[0].Segment.End; end != Param(1.5, 1) {
		t.Errorf("truncated extension ends at %v, want (1.5, 1)", end)
	}
}

func TestExtensions(t *testing.T) {
	m := mustMesh(CrossedExtensions())

	horizontal, vertical, err := m.Extensions()
	if err != nil {
		t.Fatalf("Extensions: %v", err)
	}
	if len(horizontal) != 1 || len(vertical) != 1 {
		t.Fatalf("got %d horizontal, %d vertical, want 1 each", len(horizontal), len(vertical))
	}

	h := horizontal[0]
	if h.Junction != 3 || h.Axis != AxisS {
		t.Errorf("horizontal extension from vertex %d along %s", h.Junction, h.Axis)
	}
	if h.Segment.Start != Param(2, 1) || h.Segment.End != Param(0, 1) {
		t.Errorf("horizontal segment = %v to %v", h.Segment.Start, h.Segment.End)
	}

	v := vertical[0]
	if v.Junction != 6 || v.Axis != AxisT {
		t.Errorf("vertical extension from vertex %d along %s", v.Junction, v.Axis)
	}
	if v.Segment.Start != Param(1, 2) || v.Segment.End != Param(1, 0) {
		t.Errorf("vertical segment = %v to %v", v.Segment.Start, v.Segment.End)
	}
}

func TestJunctionExtensionStopsAtFirstEdge(t *testing.T) {
	m := mustMesh(TJunction())

	ext, ok, err := m.junctionExtension(3)
	if err != nil {
		t.Fatalf("junctionExtension: %v", err)
	}
	if !ok {
		t.Fatal("junction 3 has no extension")
	}
	if ext.Axis != AxisS {
		t.Errorf("extension axis = %s, want s", ext.Axis)
	}
	if ext.Segment.End != Param(0, 1) {
		t.Errorf("extension ends at %v, want (0,1)", ext.Segment.End)
	}
}
