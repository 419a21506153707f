package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/gogpu/tspline"
)

// OBJWriter accumulates a Wavefront OBJ document with one named object per
// call. Vertex indices are tracked across objects, so points, triangle
// meshes and control nets can share a file. The zero value is ready to use.
type OBJWriter struct {
	buf         strings.Builder
	vertexCount int
}

// AddPoints appends a named point cloud.
func (w *OBJWriter) AddPoints(name string, points []vec3.T) *OBJWriter {
	fmt.Fprintf(&w.buf, "o %s\n", name)
	for _, p := range points {
		w.vertexCount++
		fmt.Fprintf(&w.buf, "v %g %g %g\n", p[0], p[1], p[2])
	}
	return w
}

// AddTriangles appends a named triangle mesh: the points followed by faces
// indexing into them. Triangle indices are zero-based into points; the OBJ
// output is one-based and offset past previously written vertices.
func (w *OBJWriter) AddTriangles(name string, points []vec3.T, triangles [][3]int) *OBJWriter {
	offset := w.vertexCount + 1
	fmt.Fprintf(&w.buf, "o %s\n", name)
	for _, p := range points {
		w.vertexCount++
		fmt.Fprintf(&w.buf, "v %g %g %g\n", p[0], p[1], p[2])
	}
	for _, t := range triangles {
		fmt.Fprintf(&w.buf, "f %d %d %d\n", t[0]+offset, t[1]+offset, t[2]+offset)
	}
	return w
}

// AddControlNet appends the mesh control net as a named object of line
// elements, one per undirected mesh edge.
func (w *OBJWriter) AddControlNet(name string, m *tspline.Mesh) *OBJWriter {
	offset := w.vertexCount + 1
	fmt.Fprintf(&w.buf, "o %s\n", name)
	for _, cp := range m.Vertices() {
		w.vertexCount++
		fmt.Fprintf(&w.buf, "v %g %g %g\n", cp.Geometry[0], cp.Geometry[1], cp.Geometry[2])
	}
	for id, he := range m.Edges() {
		if he.Twin != tspline.NoEdge && he.Twin < id {
			continue
		}
		dst, err := m.DestinationLoose(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(&w.buf, "l %d %d\n", int(he.Origin)+offset, int(dst)+offset)
	}
	return w
}

// WriteTo writes the assembled OBJ document.
func (w *OBJWriter) WriteTo(out io.Writer) (int64, error) {
	n, err := io.WriteString(out, w.buf.String())
	return int64(n), err
}
