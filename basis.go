package tspline

// knotEps bounds the knot-span width below which a Cox–de Boor term is
// dropped: the 0/0 = 0 convention for repeated knots. Repeated knots are
// the normal state of affairs near boundaries and T-junctions, not an edge
// case.
const knotEps = 1e-12

// BasisCubic evaluates the univariate cubic B-spline basis function defined
// by a 5-element local knot vector at parameter u.
//
// The support [k0, k4] is treated as closed on the right: at u = k4 the
// value is the limit from the left, so clamped boundary vectors evaluate to
// 1 at the end of the domain instead of dropping to 0.
func BasisCubic(u float64, k KnotVector) float64 {
	n, _ := basisTriangle(u, k)
	return n
}

// BasisCubicDeriv evaluates the first derivative of the cubic basis
// function defined by a 5-element local knot vector at parameter u,
// using the degree-reduction identity
//
//	N'(u) = 3 * ( N0,2(u)/(k3-k0) - N1,2(u)/(k4-k1) )
//
// with vanished spans contributing zero.
func BasisCubicDeriv(u float64, k KnotVector) float64 {
	_, d := basisTriangle(u, k)
	return d
}

// basisTriangle runs the Cox–de Boor recursion over the local knot vector
// and returns the degree-3 value together with its derivative.
func basisTriangle(u float64, k KnotVector) (val, deriv float64) {
	if u < k[0] || u > k[4] {
		return 0, 0
	}

	// Degree 0: step functions over the four spans, half-open [k_i, k_i+1).
	var n [4]float64
	for i := range 4 {
		if u >= k[i] && u < k[i+1] {
			n[i] = 1
		}
	}
	if u >= k[4] {
		// Right end of the support: seed the last non-empty span so the
		// recursion yields the left limit.
		for i := 3; i >= 0; i-- {
			if k[i] < k[4] {
				n[i] = 1
				break
			}
		}
	}

	// Degrees 1 and 2.
	for p := 1; p <= 2; p++ {
		for i := 0; i+p < 4; i++ {
			var v float64
			if den := k[i+p] - k[i]; den > knotEps {
				v += (u - k[i]) / den * n[i]
			}
			if den := k[i+p+1] - k[i+1]; den > knotEps {
				v += (k[i+p+1] - u) / den * n[i+1]
			}
			n[i] = v
		}
	}

	// n[0] and n[1] now hold N0,2 and N1,2; combine them for the degree-3
	// value and derivative.
	if den := k[3] - k[0]; den > knotEps {
		val += (u - k[0]) / den * n[0]
		deriv += 3 / den * n[0]
	}
	if den := k[4] - k[1]; den > knotEps {
		val += (k[4] - u) / den * n[1]
		deriv -= 3 / den * n[1]
	}
	return val, deriv
}
