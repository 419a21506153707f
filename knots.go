package tspline

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/tspline/internal/cache"
)

// Degree is the fixed parametric degree of the kernel. Local knot vectors
// have 2*Degree - 1 entries.
const Degree = 3

// KnotVector is a local knot vector for one parametric axis: five
// non-decreasing coordinates whose center element equals the owning
// vertex's own coordinate on that axis.
type KnotVector [2*Degree - 1]float64

// NonDecreasing reports whether the vector is sorted.
func (k KnotVector) NonDecreasing() bool {
	for i := 1; i < len(k); i++ {
		if k[i] < k[i-1] {
			return false
		}
	}
	return true
}

// LocalKnots is the pair of per-axis knot vectors inferred for one control
// point. It defines the rectangular support of the point's blending
// function.
type LocalKnots struct {
	S, T KnotVector
}

// Supports reports whether p lies inside the support rectangle. Used as a
// cheap axis-aligned rejection before the basis recursion.
func (lk LocalKnots) Supports(p ParamPoint) bool {
	return p.S >= lk.S[0] && p.S <= lk.S[4] && p.T >= lk.T[0] && p.T <= lk.T[4]
}

// InferLocalKnots derives the local knot vectors of one control point by
// ray-casting through the mesh in the four cardinal directions.
//
// Per direction the walk follows axis-aligned edges outward; every reached
// vertex that carries a perpendicular full edge records a knot (a vertex
// passed tangentially records nothing — this is the rule that distinguishes
// T-Splines from NURBS). A walk that stalls falls back to crossing the
// incident face interior; a walk that exhausts the mesh clamps by repeating
// the boundary coordinate, reproducing open-uniform behavior at mesh edges.
func (m *Mesh) InferLocalKnots(v VertexID) (LocalKnots, error) {
	if v < 0 || int(v) >= len(m.verts) {
		return LocalKnots{}, &IndexError{Kind: "vertex", ID: int(v)}
	}
	uv := m.verts[v].UV

	sPos, err := m.traceKnots(v, AxisS, true)
	if err != nil {
		return LocalKnots{}, err
	}
	sNeg, err := m.traceKnots(v, AxisS, false)
	if err != nil {
		return LocalKnots{}, err
	}
	tPos, err := m.traceKnots(v, AxisT, true)
	if err != nil {
		return LocalKnots{}, err
	}
	tNeg, err := m.traceKnots(v, AxisT, false)
	if err != nil {
		return LocalKnots{}, err
	}

	lk := LocalKnots{
		S: assembleKnots(sNeg, uv.S, sPos),
		T: assembleKnots(tNeg, uv.T, tPos),
	}
	if !lk.S.NonDecreasing() || !lk.T.NonDecreasing() {
		return LocalKnots{}, fmt.Errorf("%w: inferred knots for vertex %d are not monotonic",
			ErrTopologyCorrupt, v)
	}
	return lk, nil
}

// assembleKnots builds one axis vector from the two per-side traces and
// applies the open-uniform boundary shift: a point whose near side yielded
// no interior knots gets the full boundary multiplicity.
func assembleKnots(neg [2]float64, center float64, pos [2]float64) KnotVector {
	k := KnotVector{neg[1], neg[0], center, pos[0], pos[1]}
	if neg[0] == center && neg[1] == center {
		k = KnotVector{center, center, center, center, pos[0]}
	} else if pos[0] == center && pos[1] == center {
		k = KnotVector{neg[1], center, center, center, center}
	}
	return k
}

// traceKnots walks outward from v along the given axis and sign, recording
// the next two knot coordinates.
func (m *Mesh) traceKnots(v VertexID, axis Axis, positive bool) ([2]float64, error) {
	var out [2]float64
	cur := v
	found := 0

	for steps := 0; found < 2; steps++ {
		if steps > len(m.verts) {
			return out, fmt.Errorf("%w: knot trace from vertex %d does not terminate",
				ErrTopologyCorrupt, v)
		}

		next, ok, err := m.stepInDirection(cur, axis, positive)
		if err != nil {
			return out, err
		}
		if ok {
			cur = next
			perp, err := m.hasPerpendicularEdge(cur, axis)
			if err != nil {
				return out, err
			}
			if perp {
				out[found] = m.verts[cur].UV.Along(axis)
				found++
			}
			continue
		}

		// The edge walk stalled. A face interior may still cover the ray:
		// a crossing with a face edge mid-span is a knot and a hard stop.
		c, hit, err := m.faceCrossing(cur, axis, positive)
		if err != nil {
			return out, err
		}
		if hit {
			out[found] = c
			found++
			for found < 2 {
				out[found] = c
				found++
			}
			break
		}

		// Mesh boundary: repeat the last coordinate for the remaining
		// slots (open knot vector clamping).
		last := m.verts[cur].UV.Along(axis)
		if found > 0 {
			last = out[found-1]
		}
		for found < 2 {
			out[found] = last
			found++
		}
		break
	}
	return out, nil
}

// knotTable memoizes inferred local knot vectors keyed by control point
// identity. Lookups during a parallel fill hit the sharded cache from many
// goroutines at once.
type knotTable struct {
	entries *cache.Sharded[VertexID, LocalKnots]
}

func newKnotTable() *knotTable {
	return &knotTable{
		entries: cache.NewSharded[VertexID, LocalKnots](func(v VertexID) uint64 {
			return cache.IntHasher(int(v))
		}),
	}
}

// refresh re-infers the knot vectors of exactly the listed vertices.
func (t *knotTable) refresh(m *Mesh, dirty []VertexID) error {
	for _, v := range dirty {
		lk, err := m.InferLocalKnots(v)
		if err != nil {
			return err
		}
		t.entries.Set(v, lk)
	}
	return nil
}

// fill infers knot vectors for every vertex missing from the table, in
// parallel. Inference is read-only against the mesh, so the only shared
// state is the sharded cache itself.
func (t *knotTable) fill(m *Mesh) error {
	g := new(errgroup.Group)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for v := range m.NumVertices() {
		id := VertexID(v)
		if _, ok := t.entries.Get(id); ok {
			continue
		}
		g.Go(func() error {
			lk, err := m.InferLocalKnots(id)
			if err != nil {
				return err
			}
			t.entries.Set(id, lk)
			return nil
		})
	}
	return g.Wait()
}

// dense flattens the table into a slice indexed by vertex identity.
// The table must already cover every vertex of the mesh.
func (t *knotTable) dense(m *Mesh) ([]LocalKnots, error) {
	out := make([]LocalKnots, m.NumVertices())
	for i := range out {
		lk, ok := t.entries.Get(VertexID(i))
		if !ok {
			return nil, fmt.Errorf("%w: knot table missing vertex %d", ErrTopologyCorrupt, i)
		}
		out[i] = lk
	}
	return out, nil
}
