// Package export writes T-spline data to interchange formats: ASCII PLY
// and Wavefront OBJ for evaluated geometry and control nets, and a PNG
// parameter-space diagram for topology debugging.
//
// The PLY and OBJ writers are builders: calls append elements in order and
// the accumulated document is flushed once with WriteTo.
package export
