package nurbs

import (
	"fmt"

	"github.com/chazu/graph3d/pkg/kernel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// chordParams computes averaged chord-length parameters along one grid
// direction. at(k, l) returns the k-th point of line l; there are count
// points per line and lines lines. Lines of zero total length are left out
// of the average.
func chordParams(count, lines int, at func(k, l int) r3.Vec) ([]float64, error) {
	params := make([]float64, count)
	used := 0
	dist := make([]float64, count)
	for l := 0; l < lines; l++ {
		for k := 1; k < count; k++ {
			dist[k] = r3.Norm(r3.Sub(at(k, l), at(k-1, l)))
		}
		total := floats.Sum(dist)
		if total == 0 {
			continue
		}
		used++
		acc := 0.0
		for k := 1; k < count-1; k++ {
			acc += dist[k]
			params[k] += acc / total
		}
	}
	if used == 0 {
		return nil, fmt.Errorf("nurbs: every line of the grid collapses to a point: %w", kernel.ErrGeometryConstruction)
	}
	floats.Scale(1/float64(used), params[1:count-1])
	params[count-1] = 1
	for k := 1; k < count; k++ {
		if params[k] <= params[k-1] {
			return nil, fmt.Errorf("nurbs: coincident parameters at index %d: %w", k, kernel.ErrGeometryConstruction)
		}
	}
	return params, nil
}

// averagedKnots builds a clamped knot vector of degree p whose interior
// knots average p consecutive parameters.
func averagedKnots(params []float64, p int) []float64 {
	n := len(params) - 1
	knots := make([]float64, n+p+2)
	for j := 1; j <= n-p; j++ {
		knots[j+p] = floats.Sum(params[j:j+p]) / float64(p)
	}
	for i := n + 1; i < len(knots); i++ {
		knots[i] = 1
	}
	return knots
}
