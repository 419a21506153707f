package tspline

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by topology, traversal and evaluation paths.
// Wrap-aware: test with errors.Is.
var (
	// ErrInvalidIndex indicates a vertex, edge or face identity that was
	// never allocated by the mesh it was presented to.
	ErrInvalidIndex = errors.New("tspline: invalid index")

	// ErrTopologyCorrupt indicates a violated structural invariant (twin
	// symmetry, loop closure, dangling reference). Always a programming or
	// input error; never recoverable in place.
	ErrTopologyCorrupt = errors.New("tspline: topology corrupt")

	// ErrBoundaryEdge indicates an operation that required an interior edge
	// but found a mesh boundary.
	ErrBoundaryEdge = errors.New("tspline: boundary edge")

	// ErrAmbiguousTraversal indicates a directional walk that reached a
	// vertex with degenerate valence it cannot interpret. The mesh must be
	// repaired before evaluation; traversal never guesses a direction.
	ErrAmbiguousTraversal = errors.New("tspline: ambiguous traversal")

	// ErrASTSViolation indicates intersecting T-junction extensions.
	// Returned wrapped inside an *ASTSError naming the offending pairs.
	ErrASTSViolation = errors.New("tspline: analysis suitability violated")

	// ErrDegenerateParameter indicates an evaluation whose blending
	// denominator underflowed: the parameter lies outside the mesh's
	// defined domain or on an unsupported hole.
	ErrDegenerateParameter = errors.New("tspline: degenerate parameter")
)

// IndexError reports an out-of-range entity lookup. It wraps
// ErrInvalidIndex and carries the entity kind and the offending identity.
type IndexError struct {
	Kind string // "vertex", "edge" or "face"
	ID   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("tspline: invalid %s index %d", e.Kind, e.ID)
}

func (e *IndexError) Unwrap() error { return ErrInvalidIndex }

// JunctionPair names two T-junctions whose extensions intersect.
// H carries the horizontally extending junction, V the vertical one.
type JunctionPair struct {
	H VertexID
	V VertexID
}

// ASTSError is the structured failure returned by ASTS validation.
// It enumerates every intersecting horizontal/vertical extension pair so
// the refinement layer can decide which edit to reject or propagate.
// ASTSError wraps ErrASTSViolation.
type ASTSError struct {
	Pairs []JunctionPair
}

func (e *ASTSError) Error() string {
	var sb strings.Builder
	sb.WriteString("tspline: analysis suitability violated:")
	for _, p := range e.Pairs {
		fmt.Fprintf(&sb, " (v%d x v%d)", p.H, p.V)
	}
	return sb.String()
}

func (e *ASTSError) Unwrap() error { return ErrASTSViolation }
