package tspline

// Axis identifies one of the two parametric directions of the surface.
type Axis uint8

const (
	// AxisS is the horizontal direction in parameter space.
	AxisS Axis = iota
	// AxisT is the vertical direction in parameter space.
	AxisT
)

// String returns "S" or "T".
func (a Axis) String() string {
	if a == AxisS {
		return "S"
	}
	return "T"
}

// Perpendicular returns the other axis.
func (a Axis) Perpendicular() Axis {
	if a == AxisS {
		return AxisT
	}
	return AxisS
}

// ParamPoint is a location in (s, t) parameter space.
type ParamPoint struct {
	S, T float64
}

// Param is a convenience function to create a ParamPoint.
func Param(s, t float64) ParamPoint {
	return ParamPoint{S: s, T: t}
}

// Add returns the sum of two parameter points (vector addition).
func (p ParamPoint) Add(q ParamPoint) ParamPoint {
	return ParamPoint{S: p.S + q.S, T: p.T + q.T}
}

// Sub returns the difference of two parameter points.
func (p ParamPoint) Sub(q ParamPoint) ParamPoint {
	return ParamPoint{S: p.S - q.S, T: p.T - q.T}
}

// Cross returns the 2D cross product (scalar).
func (p ParamPoint) Cross(q ParamPoint) float64 {
	return p.S*q.T - p.T*q.S
}

// Along returns the coordinate of p on the given axis.
func (p ParamPoint) Along(a Axis) float64 {
	if a == AxisS {
		return p.S
	}
	return p.T
}

// With returns a copy of p with the coordinate on the given axis replaced.
func (p ParamPoint) With(a Axis, v float64) ParamPoint {
	if a == AxisS {
		p.S = v
	} else {
		p.T = v
	}
	return p
}
