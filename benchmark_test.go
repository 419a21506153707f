package tspline

import (
	"context"
	"testing"
)

// BenchmarkEvaluate benchmarks single-point evaluation on meshes of
// increasing refinement.
func BenchmarkEvaluate(b *testing.B) {
	grids := []struct {
		name string
		n    int
	}{
		{"2x2", 2},
		{"8x8", 8},
		{"16x16", 16},
	}
	for _, g := range grids {
		b.Run(g.name, func(b *testing.B) {
			m, err := Grid(g.n, g.n)
			if err != nil {
				b.Fatal(err)
			}
			sp, err := New(m)
			if err != nil {
				b.Fatal(err)
			}
			surf, err := sp.Surface()
			if err != nil {
				b.Fatal(err)
			}
			u := float64(g.n) / 2
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := surf.Evaluate(u, u); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkTessellate benchmarks full-grid sampling at common resolutions.
func BenchmarkTessellate(b *testing.B) {
	m, err := TJunction()
	if err != nil {
		b.Fatal(err)
	}
	sp, err := New(m)
	if err != nil {
		b.Fatal(err)
	}
	surf, err := sp.Surface()
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	resolutions := []struct {
		name string
		res  int
	}{
		{"16x16", 16},
		{"64x64", 64},
		{"128x128", 128},
	}
	for _, r := range resolutions {
		b.Run(r.name, func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := surf.Tessellate(ctx, r.res); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkInferLocalKnots benchmarks knot inference for an interior vertex
// against a boundary corner, which takes the clamping path.
func BenchmarkInferLocalKnots(b *testing.B) {
	m, err := Grid(8, 8)
	if err != nil {
		b.Fatal(err)
	}
	cases := []struct {
		name string
		v    VertexID
	}{
		{"interior", 40}, // (4,4)
		{"corner", 0},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := m.InferLocalKnots(c.v); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
