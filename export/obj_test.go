package export

import (
	"strings"
	"testing"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/gogpu/tspline"
)

func TestOBJWriterTriangles(t *testing.T) {
	var w OBJWriter
	w.AddPoints("markers", []vec3.T{{5, 5, 5}, {6, 6, 6}})
	w.AddTriangles("patch",
		[]vec3.T{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)

	var sb strings.Builder
	if _, err := w.WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := sb.String()

	if !strings.Contains(out, "o markers\n") || !strings.Contains(out, "o patch\n") {
		t.Errorf("object names missing:\n%s", out)
	}
	if strings.Count(out, "\nv ")+boolToInt(strings.HasPrefix(out, "v ")) != 6 {
		t.Errorf("wrong vertex count:\n%s", out)
	}
	// Face indices are one-based and offset past the two marker points.
	if !strings.Contains(out, "f 3 4 5\n") || !strings.Contains(out, "f 3 5 6\n") {
		t.Errorf("face indices wrong:\n%s", out)
	}
}

func TestOBJWriterControlNet(t *testing.T) {
	m, err := tspline.UnitSquare()
	if err != nil {
		t.Fatalf("UnitSquare: %v", err)
	}

	var w OBJWriter
	var sb strings.Builder
	if _, err := w.AddControlNet("net", m).WriteTo(&sb); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := sb.String()

	if got := strings.Count(out, "l "); got != 4 {
		t.Errorf("got %d line elements, want 4:\n%s", got, out)
	}
	for _, want := range []string{"l 1 2\n", "v 0 0 0\n", "v 1 1 0\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
