package export

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/tspline"
)

// Diagram colors.
var (
	diagramBackground = color.RGBA{255, 255, 255, 255}
	diagramEdge       = color.RGBA{40, 40, 40, 255}
	diagramExtension  = color.RGBA{220, 60, 40, 255}
	diagramJunction   = color.RGBA{30, 90, 200, 255}
)

const diagramMargin = 0.08

// ParamDiagram renders the parameter-space topology of a mesh into an
// image: mesh edges in dark gray, T-junction extension segments in red and
// junction markers in blue. The t axis points up. Intended for debugging
// mesh structure, not for rendering surfaces.
func ParamDiagram(m *tspline.Mesh, width, height int) (*image.RGBA, error) {
	if width < 16 || height < 16 {
		return nil, fmt.Errorf("export: diagram size %dx%d too small", width, height)
	}
	horizontal, vertical, err := m.Extensions()
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{diagramBackground}, image.Point{}, draw.Src)

	b := m.Bounds()
	project := diagramProjection(b, width, height)

	// Mesh edges, one stroke per undirected edge.
	edges := vector.NewRasterizer(width, height)
	for id, he := range m.Edges() {
		if he.Twin != tspline.NoEdge && he.Twin < id {
			continue
		}
		dst, err := m.DestinationLoose(id)
		if err != nil {
			continue
		}
		from, _ := m.Vertex(he.Origin)
		to, _ := m.Vertex(dst)
		x1, y1 := project(from.UV)
		x2, y2 := project(to.UV)
		strokeSegment(edges, x1, y1, x2, y2, 1.5)
	}
	edges.Draw(img, img.Bounds(), &image.Uniform{diagramEdge}, image.Point{})

	// Extension segments.
	if len(horizontal)+len(vertical) > 0 {
		exts := vector.NewRasterizer(width, height)
		for _, ext := range append(append([]tspline.Extension(nil), horizontal...), vertical...) {
			x1, y1 := project(ext.Segment.Start)
			x2, y2 := project(ext.Segment.End)
			strokeSegment(exts, x1, y1, x2, y2, 1.0)
		}
		exts.Draw(img, img.Bounds(), &image.Uniform{diagramExtension}, image.Point{})
	}

	// Junction markers.
	marks := vector.NewRasterizer(width, height)
	for _, cp := range m.Vertices() {
		if !cp.TJunction {
			continue
		}
		x, y := project(cp.UV)
		const r = 3.5
		marks.MoveTo(float32(x-r), float32(y-r))
		marks.LineTo(float32(x+r), float32(y-r))
		marks.LineTo(float32(x+r), float32(y+r))
		marks.LineTo(float32(x-r), float32(y+r))
		marks.ClosePath()
	}
	marks.Draw(img, img.Bounds(), &image.Uniform{diagramJunction}, image.Point{})

	return img, nil
}

// WriteParamDiagramPNG renders ParamDiagram and PNG-encodes it.
func WriteParamDiagramPNG(out io.Writer, m *tspline.Mesh, width, height int) error {
	img, err := ParamDiagram(m, width, height)
	if err != nil {
		return err
	}
	return png.Encode(out, img)
}

// diagramProjection maps parameter space onto pixel coordinates with a
// margin, flipping t so it grows upward.
func diagramProjection(b tspline.Bounds, width, height int) func(tspline.ParamPoint) (float64, float64) {
	spanS := b.SMax - b.SMin
	spanT := b.TMax - b.TMin
	if spanS <= 0 {
		spanS = 1
	}
	if spanT <= 0 {
		spanT = 1
	}
	mx := float64(width) * diagramMargin
	my := float64(height) * diagramMargin
	sx := (float64(width) - 2*mx) / spanS
	sy := (float64(height) - 2*my) / spanT

	return func(p tspline.ParamPoint) (float64, float64) {
		x := mx + (p.S-b.SMin)*sx
		y := float64(height) - my - (p.T-b.TMin)*sy
		return x, y
	}
}

// strokeSegment appends a line segment to the rasterizer as a filled quad
// of the given width.
func strokeSegment(r *vector.Rasterizer, x1, y1, x2, y2, halfWidth float64) {
	dx, dy := x2-x1, y2-y1
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Perpendicular offset of half the stroke width.
	nx := -dy / length * halfWidth
	ny := dx / length * halfWidth

	r.MoveTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x2+nx), float32(y2+ny))
	r.LineTo(float32(x2-nx), float32(y2-ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.ClosePath()
}
