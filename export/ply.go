package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/gogpu/tspline"
)

// PLYWriter accumulates an ASCII PLY document: element declarations go to
// the header, data lines to the body, and WriteTo emits the whole file.
// The zero value is ready to use.
type PLYWriter struct {
	header strings.Builder
	body   strings.Builder
}

// AddPoints appends a vertex element holding the given points.
func (w *PLYWriter) AddPoints(points []vec3.T) *PLYWriter {
	fmt.Fprintf(&w.header, "element vertex %d\nproperty float x\nproperty float y\nproperty float z\n", len(points))
	for _, p := range points {
		fmt.Fprintf(&w.body, "%g %g %g\n", p[0], p[1], p[2])
	}
	return w
}

// AddControlNet appends the mesh control net: a vertex element with the
// control point geometry and an edge element with one entry per undirected
// mesh edge.
func (w *PLYWriter) AddControlNet(m *tspline.Mesh) *PLYWriter {
	type pair struct{ a, b tspline.VertexID }
	var edges []pair
	for id, he := range m.Edges() {
		if he.Twin != tspline.NoEdge && he.Twin < id {
			continue // twin already emitted this edge
		}
		dst, err := m.DestinationLoose(id)
		if err != nil {
			continue
		}
		edges = append(edges, pair{he.Origin, dst})
	}

	fmt.Fprintf(&w.header, "element vertex %d\nproperty float x\nproperty float y\nproperty float z\n", m.NumVertices())
	fmt.Fprintf(&w.header, "element edge %d\nproperty int vertex1\nproperty int vertex2\n", len(edges))

	for _, cp := range m.Vertices() {
		fmt.Fprintf(&w.body, "%g %g %g\n", cp.Geometry[0], cp.Geometry[1], cp.Geometry[2])
	}
	for _, e := range edges {
		fmt.Fprintf(&w.body, "%d %d\n", e.a, e.b)
	}
	return w
}

// WriteTo writes the assembled PLY document.
func (w *PLYWriter) WriteTo(out io.Writer) (int64, error) {
	var n int64
	for _, s := range []string{"ply\nformat ascii 1.0\n", w.header.String(), "end_header\n", w.body.String()} {
		written, err := io.WriteString(out, s)
		n += int64(written)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
