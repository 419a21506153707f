package tspline

import "testing"

func TestOptions(t *testing.T) {
	o := defaultSplineOptions()
	if o.policy != PolicyReject || o.workers != 0 || o.tolerance != 1e-9 {
		t.Errorf("defaults = %+v", o)
	}

	for _, opt := range []Option{
		WithPolicy(PolicyPropagate),
		WithWorkers(3),
		WithTolerance(1e-6),
	} {
		opt(&o)
	}
	if o.policy != PolicyPropagate || o.workers != 3 || o.tolerance != 1e-6 {
		t.Errorf("configured = %+v", o)
	}

	WithTolerance(-1)(&o)
	if o.tolerance != 1e-6 {
		t.Errorf("negative tolerance accepted: %v", o.tolerance)
	}
}
