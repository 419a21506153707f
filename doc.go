// Package tspline is a geometric evaluation kernel for T-Splines.
//
// # Overview
//
// T-Splines generalize NURBS surfaces by allowing local refinement through
// T-junctions: control-mesh vertices where a grid line terminates against an
// adjacent face instead of continuing through. The package provides the four
// tightly coupled pieces that make that work:
//
//   - Mesh: a half-edge topology store holding control points, half-edges
//     and faces in flat, index-addressed arenas.
//   - Knot inference: per-control-point local knot vectors derived from the
//     mesh topology by directional ray traversal.
//   - ASTS validation: the analysis-suitability check that no horizontal
//     T-junction extension crosses a vertical one.
//   - Evaluation: rational cubic blending-function evaluation of surface
//     points and derivatives, plus parallel grid tessellation.
//
// # Quick Start
//
//	import "github.com/gogpu/tspline"
//
//	mesh, err := tspline.TJunction()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sp, err := tspline.New(mesh)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	surf, _ := sp.Surface()
//	p, err := surf.Evaluate(0.5, 0.5)
//
// # Mutation Model
//
// A Spline owns exactly one mutable Mesh. Edits go through [Spline.Edit],
// which runs an [Op] against a working clone, re-infers the affected knot
// vectors and re-checks analysis suitability before swapping the clone in.
// A rejected edit leaves the spline untouched. Convenience operations such
// as face splitting live in the ops subpackage and are built entirely on the
// exported mutation primitives ([Mesh.SplitEdge], [Mesh.ConnectVertices],
// [Mesh.SplitFaceAt]).
//
// # Concurrency
//
// Mutation follows a single-writer discipline: at most one Edit may be in
// flight per Spline. Evaluation is read-only against a [Surface], an
// immutable snapshot safe for any number of concurrent readers;
// [Surface.Tessellate] runs grid samples in parallel and supports
// cooperative cancellation through its context.
//
// # Surface Kinds
//
// The read-only evaluation contract is the [Evaluator] interface. The fixed
// set of kinds implementing it is currently just the bivariate [Surface];
// the interface exists so that callers dispatch over the contract rather
// than the concrete type.
//
// # Logging
//
// The package produces no log output by default. Call [SetLogger] to route
// diagnostics from mutation and validation paths to a log/slog logger.
package tspline
