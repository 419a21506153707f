package tspline

// Policy selects how Edit responds to a mutation that would leave the mesh
// analysis-unsuitable.
type Policy int

const (
	// PolicyReject refuses the mutation: the spline is left byte-for-byte
	// unchanged and Edit returns the ASTSError.
	PolicyReject Policy = iota

	// PolicyPropagate inserts additional control points (further face
	// splits truncating the offending extensions) until validity is
	// restored, within a bounded number of attempts.
	PolicyPropagate
)

// Option configures a Spline during creation.
//
// Example:
//
//	// Default: reject invalid edits, evaluation tolerance 1e-9.
//	sp, err := tspline.New(mesh)
//
//	// Auto-propagating refinement:
//	sp, err := tspline.New(mesh, tspline.WithPolicy(tspline.PolicyPropagate))
type Option func(*splineOptions)

type splineOptions struct {
	policy    Policy
	workers   int
	tolerance float64
}

func defaultSplineOptions() splineOptions {
	return splineOptions{
		policy:    PolicyReject,
		workers:   0, // GOMAXPROCS
		tolerance: 1e-9,
	}
}

// WithPolicy selects the refinement policy for edits that would violate
// analysis suitability. The default is PolicyReject.
func WithPolicy(p Policy) Option {
	return func(o *splineOptions) {
		o.policy = p
	}
}

// WithWorkers caps the number of goroutines used for parallel tessellation
// and knot-table fills. Zero or negative means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *splineOptions) {
		o.workers = n
	}
}

// WithTolerance sets the denominator magnitude below which evaluation fails
// with ErrDegenerateParameter. The default is 1e-9.
func WithTolerance(tol float64) Option {
	return func(o *splineOptions) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}
