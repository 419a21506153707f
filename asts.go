package tspline

import "log/slog"

// Extension is the parameter-space segment a T-junction casts across the
// face it points into, ending at the first perpendicular full edge.
type Extension struct {
	Junction VertexID
	Axis     Axis
	Segment  Segment
}

// junctionExtension traces the extension of one T-junction. The extension
// runs along the junction's single missing cardinal direction.
func (m *Mesh) junctionExtension(v VertexID) (Extension, bool, error) {
	axis, positive, err := m.missingDirection(v)
	if err != nil {
		return Extension{}, false, err
	}
	start := m.verts[v].UV
	coord, hit, err := m.faceCrossing(v, axis, positive)
	if err != nil {
		return Extension{}, false, err
	}
	if !hit {
		// The junction points into open space; no extension to check.
		return Extension{}, false, nil
	}
	return Extension{
		Junction: v,
		Axis:     axis,
		Segment:  Segment{Start: start, End: start.With(axis, coord)},
	}, true, nil
}

// Extensions collects the extension segments of every T-junction, split by
// orientation axis. Exposed for the diagram exporter.
func (m *Mesh) Extensions() (horizontal, vertical []Extension, err error) {
	for i := range m.verts {
		if !m.verts[i].TJunction {
			continue
		}
		ext, ok, err := m.junctionExtension(VertexID(i))
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			continue
		}
		if ext.Axis == AxisS {
			horizontal = append(horizontal, ext)
		} else {
			vertical = append(vertical, ext)
		}
	}
	return horizontal, vertical, nil
}

// ValidateASTS checks that the mesh is analysis-suitable: no horizontal
// T-junction extension may cross a vertical one. On failure it returns an
// *ASTSError enumerating every offending junction pair; the caller decides
// whether to reject the edit that caused it or refine further.
func (m *Mesh) ValidateASTS() error {
	horizontal, vertical, err := m.Extensions()
	if err != nil {
		return err
	}

	var pairs []JunctionPair
	for _, h := range horizontal {
		for _, v := range vertical {
			if h.Segment.Intersects(v.Segment) {
				pairs = append(pairs, JunctionPair{H: h.Junction, V: v.Junction})
			}
		}
	}
	if len(pairs) == 0 {
		return nil
	}

	Logger().Debug("asts validation failed",
		slog.Int("horizontal", len(horizontal)),
		slog.Int("vertical", len(vertical)),
		slog.Int("pairs", len(pairs)))
	return &ASTSError{Pairs: pairs}
}
