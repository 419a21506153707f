package tspline

import (
	"fmt"

	"github.com/ungerik/go3d/float64/vec3"
)

// Evaluator maps parameter-space coordinates to points on a surface.
// Surface is the only implementation; the interface exists so exporters
// and tessellation consumers stay decoupled from the snapshot type.
type Evaluator interface {
	Evaluate(s, t float64) (vec3.T, error)
	Derivative(s, t float64) (ds, dt vec3.T, err error)
}

// Surface is an immutable evaluation snapshot of a spline: a private mesh
// clone plus a dense knot table. It is safe for unsynchronized concurrent
// use and never observes later edits to the spline it came from.
type Surface struct {
	mesh    *Mesh
	knots   []LocalKnots
	tol     float64
	workers int
}

var _ Evaluator = (*Surface)(nil)

// Bounds returns the parametric extent of the snapshot.
func (s *Surface) Bounds() Bounds { return s.mesh.Bounds() }

// ControlPoints returns the number of control points in the snapshot.
func (s *Surface) ControlPoints() int { return s.mesh.NumVertices() }

// Evaluate computes the surface point at (u, v) as the rational blend of
// every control point whose knot support contains (u, v):
//
//	S(u,v) = Σ Pᵢ wᵢ Nᵢ(u) Mᵢ(v) / Σ wᵢ Nᵢ(u) Mᵢ(v)
//
// Control points outside their support are skipped before any basis
// arithmetic runs. A denominator below the configured tolerance fails with
// ErrDegenerateParameter; no point is fabricated.
func (s *Surface) Evaluate(u, v float64) (vec3.T, error) {
	p := Param(u, v)
	var num vec3.T
	var den float64

	for i := range s.knots {
		lk := &s.knots[i]
		if !lk.Supports(p) {
			continue
		}
		g := &s.mesh.verts[i].Geometry
		b := BasisCubic(u, lk.S) * BasisCubic(v, lk.T) * g[3]
		if b == 0 {
			continue
		}
		den += b
		num[0] += g[0] * b
		num[1] += g[1] * b
		num[2] += g[2] * b
	}

	if den < s.tol && den > -s.tol {
		return vec3.T{}, fmt.Errorf("%w: at (%v, %v)", ErrDegenerateParameter, u, v)
	}
	return vec3.T{num[0] / den, num[1] / den, num[2] / den}, nil
}

// Derivative computes the first partial derivatives of the surface at
// (u, v) by the quotient rule over the rational blend. It shares the
// degenerate-denominator behavior of Evaluate.
func (s *Surface) Derivative(u, v float64) (ds, dt vec3.T, err error) {
	p := Param(u, v)
	var num, numU, numV vec3.T
	var den, denU, denV float64

	for i := range s.knots {
		lk := &s.knots[i]
		if !lk.Supports(p) {
			continue
		}
		g := &s.mesh.verts[i].Geometry
		bs, dbs := basisTriangle(u, lk.S)
		bt, dbt := basisTriangle(v, lk.T)
		b := bs * bt * g[3]
		bu := dbs * bt * g[3]
		bv := bs * dbt * g[3]

		den += b
		denU += bu
		denV += bv
		for c := 0; c < 3; c++ {
			num[c] += g[c] * b
			numU[c] += g[c] * bu
			numV[c] += g[c] * bv
		}
	}

	if den < s.tol && den > -s.tol {
		return vec3.T{}, vec3.T{}, fmt.Errorf("%w: at (%v, %v)", ErrDegenerateParameter, u, v)
	}
	for c := 0; c < 3; c++ {
		sc := num[c] / den
		ds[c] = (numU[c] - sc*denU) / den
		dt[c] = (numV[c] - sc*denV) / den
	}
	return ds, dt, nil
}
