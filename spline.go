package tspline

import (
	"errors"
	"fmt"
	"log/slog"
)

// Op is a mutation applied to a working copy of the control mesh during
// Edit. Implementations mutate the mesh they are handed and report failure;
// they never see the live mesh.
type Op interface {
	Apply(*Mesh) error
}

// OpFunc adapts a plain function to the Op interface.
type OpFunc func(*Mesh) error

// Apply calls f(m).
func (f OpFunc) Apply(m *Mesh) error { return f(m) }

// View is a read-only operation executed against the live mesh.
type View interface {
	Inspect(*Mesh) error
}

// ViewFunc adapts a plain function to the View interface.
type ViewFunc func(*Mesh) error

// Inspect calls f(m).
func (f ViewFunc) Inspect(m *Mesh) error { return f(m) }

// propagationLimit bounds the number of corrective face splits a single
// Edit may insert under PolicyPropagate before giving up.
const propagationLimit = 8

// Spline owns a T-mesh together with its inferred knot table and keeps both
// consistent across edits. All mutation goes through Edit, which works on a
// clone and swaps it in only after revalidation, so a failed edit leaves
// the spline byte-for-byte unchanged.
//
// A Spline is safe for concurrent reads. Edits require external
// serialization: one writer at a time, no readers during the swap.
type Spline struct {
	mesh  *Mesh
	knots *knotTable
	opts  splineOptions
}

// New builds a spline over a validated control mesh, inferring the full
// knot table and checking analysis suitability up front.
func New(mesh *Mesh, opts ...Option) (*Spline, error) {
	if mesh == nil {
		return nil, fmt.Errorf("tspline: nil mesh")
	}
	o := defaultSplineOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sp := &Spline{
		mesh:  mesh,
		knots: newKnotTable(),
		opts:  o,
	}
	mesh.takeDirty()
	if err := sp.knots.fill(mesh); err != nil {
		return nil, err
	}
	if err := mesh.ValidateASTS(); err != nil {
		return nil, err
	}
	Logger().Debug("spline created",
		slog.Int("vertices", mesh.NumVertices()),
		slog.Int("faces", mesh.NumFaces()))
	return sp, nil
}

// Mesh returns the live control mesh. Callers must not mutate it; use Edit.
func (sp *Spline) Mesh() *Mesh { return sp.mesh }

// Apply executes a read-only operation against the live mesh.
func (sp *Spline) Apply(v View) error { return v.Inspect(sp.mesh) }

// KnotsAt returns the cached local knot vectors of one control point.
func (sp *Spline) KnotsAt(v VertexID) (LocalKnots, error) {
	if lk, ok := sp.knots.entries.Get(v); ok {
		return lk, nil
	}
	if v < 0 || int(v) >= sp.mesh.NumVertices() {
		return LocalKnots{}, &IndexError{Kind: "vertex", ID: int(v)}
	}
	return sp.mesh.InferLocalKnots(v)
}

// Edit applies op to a clone of the control mesh, revalidates topology,
// knot structure and analysis suitability, and atomically adopts the clone
// on success. On any failure the live mesh and knot table are untouched.
//
// When the edit breaks analysis suitability, the configured Policy decides:
// PolicyReject returns the *ASTSError; PolicyPropagate inserts further face
// splits truncating the offending extensions until validity is restored or
// the propagation budget runs out.
func (sp *Spline) Edit(op Op) error {
	work := sp.mesh.Clone()
	if err := op.Apply(work); err != nil {
		return err
	}
	if err := work.Check(); err != nil {
		return err
	}

	knots, err := sp.reknot(work)
	if err != nil {
		return err
	}

	if err := work.ValidateASTS(); err != nil {
		var aerr *ASTSError
		if !errors.As(err, &aerr) || sp.opts.policy != PolicyPropagate {
			Logger().Warn("edit rejected", slog.Any("error", err))
			return err
		}
		if err := work.propagate(propagationLimit); err != nil {
			Logger().Warn("propagation failed", slog.Any("error", err))
			return err
		}
		if knots, err = sp.reknot(work); err != nil {
			return err
		}
	}

	sp.mesh = work
	sp.knots = knots
	return nil
}

// reknot builds the knot table for a working mesh, reusing cached entries
// for every vertex the edit did not dirty.
func (sp *Spline) reknot(work *Mesh) (*knotTable, error) {
	dirty := work.takeDirty()
	touched := make(map[VertexID]struct{}, len(dirty))
	for _, v := range dirty {
		touched[v] = struct{}{}
	}

	t := newKnotTable()
	for v := range sp.mesh.NumVertices() {
		id := VertexID(v)
		if _, ok := touched[id]; ok {
			continue
		}
		if lk, ok := sp.knots.entries.Get(id); ok {
			t.entries.Set(id, lk)
		}
	}
	if err := t.fill(work); err != nil {
		return nil, err
	}
	return t, nil
}

// Revalidate re-infers knot vectors for every vertex marked dirty on the
// live mesh and re-checks analysis suitability. It is the recovery entry
// point after external code mutated the mesh directly.
func (sp *Spline) Revalidate() error {
	if err := sp.knots.refresh(sp.mesh, sp.mesh.takeDirty()); err != nil {
		return err
	}
	if err := sp.knots.fill(sp.mesh); err != nil {
		return err
	}
	return sp.mesh.ValidateASTS()
}

// Surface snapshots the spline into an immutable evaluation surface. The
// snapshot owns a clone of the mesh and a dense copy of the knot table, so
// later edits never disturb in-flight evaluations.
func (sp *Spline) Surface() (*Surface, error) {
	mesh := sp.mesh.Clone()
	mesh.takeDirty()
	knots, err := sp.knots.dense(mesh)
	if err != nil {
		return nil, err
	}
	return &Surface{
		mesh:    mesh,
		knots:   knots,
		tol:     sp.opts.tolerance,
		workers: sp.opts.workers,
	}, nil
}

// propagationFractions are the points along an offending extension at which
// a corrective cut is attempted, in preference order. Later fractions avoid
// cut coordinates that coincide with existing mesh lines.
var propagationFractions = [...]float64{0.5, 0.25, 0.75}

// propagate resolves extension intersections by splitting the face each
// offending horizontal extension crosses with a perpendicular cut, which
// truncates the extension at the new full edge. Each round fixes the first
// reported pair and revalidates.
func (m *Mesh) propagate(limit int) error {
	for round := 0; round < limit; round++ {
		err := m.ValidateASTS()
		if err == nil {
			return nil
		}
		var aerr *ASTSError
		if !errors.As(err, &aerr) {
			return err
		}

		pair := aerr.Pairs[0]
		ext, ok, extErr := m.junctionExtension(pair.H)
		if extErr != nil {
			return extErr
		}
		if !ok {
			return err
		}

		if !m.truncateExtension(ext) {
			return err
		}
		Logger().Debug("propagated corrective split",
			slog.Int("junction", int(pair.H)),
			slog.Int("round", round))
	}
	return m.ValidateASTS()
}

// truncateExtension cuts the face an extension crosses with an edge
// perpendicular to it. Cut placement retries a few fractions along the
// extension because a cut landing exactly on an existing vertex column
// cannot split the face.
func (m *Mesh) truncateExtension(ext Extension) bool {
	span := ext.Segment.End.Along(ext.Axis) - ext.Segment.Start.Along(ext.Axis)
	for _, frac := range propagationFractions {
		at := ext.Segment.Start.Along(ext.Axis) + frac*span
		cut := ext.Segment.Start.With(ext.Axis, at)
		f, ok := m.FaceAt(cut)
		if !ok {
			continue
		}
		if _, _, err := m.SplitFaceAt(f, ext.Axis.Perpendicular(), at); err == nil {
			return true
		}
	}
	return false
}
