package tspline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ungerik/go3d/float64/vec3"

	"github.com/gogpu/tspline/internal/parallel"
)

// Tessellate samples the surface on a uniform resolution x resolution grid
// over its parametric bounds and returns the points in row-major order
// (t varies by row, s by column). Rows are evaluated in parallel on a
// work-stealing pool; the snapshot is immutable so workers share it
// without locks.
//
// Cancellation via ctx is checked between samples. On cancellation or any
// evaluation error the whole result is discarded.
func (s *Surface) Tessellate(ctx context.Context, resolution int) ([]vec3.T, error) {
	if resolution < 2 {
		return nil, fmt.Errorf("tspline: tessellation resolution %d, need at least 2", resolution)
	}

	start := time.Now()
	bounds := s.mesh.Bounds()
	points := make([]vec3.T, resolution*resolution)

	pool := parallel.NewWorkerPool(s.workers)
	defer pool.Close()

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	work := make([]func(), resolution)
	for row := range resolution {
		work[row] = func() {
			if failed() {
				return
			}
			for col := range resolution {
				if err := ctx.Err(); err != nil {
					fail(err)
					return
				}
				idx := row*resolution + col
				p := bounds.Interpolate(idx, resolution)
				pt, err := s.Evaluate(p.S, p.T)
				if err != nil {
					fail(err)
					return
				}
				points[idx] = pt
			}
		}
	}

	pool.ExecuteAll(work)

	if firstErr != nil {
		return nil, firstErr
	}
	Logger().Debug("tessellated surface",
		slog.Int("resolution", resolution),
		slog.Int("points", len(points)),
		slog.Duration("elapsed", time.Since(start)))
	return points, nil
}

// GridIndices triangulates the row-major point grid Tessellate produces:
// two counter-clockwise triangles per cell, (resolution-1)^2 cells.
func GridIndices(resolution int) [][3]int {
	if resolution < 2 {
		return nil
	}
	tris := make([][3]int, 0, 2*(resolution-1)*(resolution-1))
	for row := 0; row < resolution-1; row++ {
		for col := 0; col < resolution-1; col++ {
			i := row*resolution + col
			tris = append(tris,
				[3]int{i, i + 1, i + resolution + 1},
				[3]int{i, i + resolution + 1, i + resolution},
			)
		}
	}
	return tris
}
