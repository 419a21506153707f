// Package ops provides ready-made mutation commands for use with
// tspline.Spline.Edit.
//
// Commands implement the tspline.Op interface: they run against the
// working clone Edit hands them and report failure through the error
// return. Ad-hoc commands can be written inline with tspline.OpFunc.
package ops

import (
	"github.com/gogpu/tspline"
)

// SplitFace bisects a face at the midpoint of its parametric bounds.
// Axis names the direction the inserted edge runs along: AxisS inserts a
// horizontal edge splitting the face top/bottom, AxisT a vertical edge
// splitting it left/right.
type SplitFace struct {
	Face tspline.FaceID
	Axis tspline.Axis
}

var _ tspline.Op = SplitFace{}

// Apply cuts the face through the center of its bounds.
func (op SplitFace) Apply(m *tspline.Mesh) error {
	b, err := m.FaceBounds(op.Face)
	if err != nil {
		return err
	}
	at := b.Center().Along(op.Axis.Perpendicular())
	_, _, err = m.SplitFaceAt(op.Face, op.Axis, at)
	return err
}

// SplitEdge inserts a control point on an edge at the given parametric
// coordinate along the edge's axis.
type SplitEdge struct {
	Edge tspline.EdgeID
	At   float64
}

var _ tspline.Op = SplitEdge{}

// Apply splits the edge and its twin.
func (op SplitEdge) Apply(m *tspline.Mesh) error {
	_, err := m.SplitEdge(op.Edge, op.At)
	return err
}
