package export

import (
	"strings"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/gogpu/tspline"
)

func TestPLYWriterPoints(t *testing.T) {
	var w PLYWriter
	w.AddPoints([]vec3.T{{0, 0, 0}, {1, 2, 3}})

	var sb strings.Builder
	if _, err := w.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := sb.String()

	if !strings.HasPrefix(out, "ply\nformat ascii 1.0\n") {
		t.Errorf("missing PLY preamble:\n%s", out)
	}
	if !strings.Contains(out, "element vertex 2\n") {
		t.Errorf("missing vertex element:\n%s", out)
	}
	if !strings.Contains(out, "end_header\n1 2 3\n") &&
		!strings.Contains(out, "\n1 2 3\n") {
		t.Errorf("missing point data:\n%s", out)
	}
	if strings.Count(out, "end_header") != 1 {
		t.Error("header terminator repeated")
	}
}

func TestPLYWriterControlNet(t *testing.T) {
	m, err := tspline.TJunction()
	if err != nil {
		t.Fatalf("TJunction: %v", err)
	}

	var w PLYWriter
	var sb strings.Builder
	if _, err := w.AddControlNet(m).WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "element vertex 8\n") {
		t.Errorf("missing vertex element:\n%s", out)
	}
	if !strings.Contains(out, "element edge 10\n") {
		t.Errorf("missing edge element:\n%s", out)
	}

	_, body, found := strings.Cut(out, "end_header\n")
	if !found {
		t.Fatal("no end_header")
	}
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 18 {
		t.Errorf("body has %d lines, want 8 vertices + 10 edges", len(lines))
	}
}
