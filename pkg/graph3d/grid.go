package graph3d

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is an ordered set of samples, row-major by u with v varying fastest.
type Grid struct {
	Points []r3.Vec
	UCount int
	VCount int
}

// At returns the sample at u index i and v index j.
func (g *Grid) At(i, j int) r3.Vec {
	return g.Points[i*g.VCount+j]
}

// Len returns the number of samples.
func (g *Grid) Len() int {
	return len(g.Points)
}

// SampleGrid evaluates the function at uCount evenly spaced u values crossed
// with vCount evenly spaced v values. Index (i, j) is sampled at
//
//	u = i/(uCount-1) * (U.Max-U.Min) + U.Min
//	v = j/(vCount-1) * (V.Max-V.Min) + V.Min
//
// Both counts must be at least 2. A failing evaluation aborts the whole
// grid.
func (g *Graph3d) SampleGrid(uCount, vCount int) (*Grid, error) {
	if uCount < 2 || vCount < 2 {
		return nil, fmt.Errorf("graph3d: sample counts must be at least 2, got %dx%d: %w",
			uCount, vCount, ErrInvalidArgument)
	}
	if g.F == nil {
		return nil, fmt.Errorf("graph3d: no surface function: %w", ErrInvalidArgument)
	}
	if !g.UInterval.IsFinite() || !g.VInterval.IsFinite() {
		return nil, fmt.Errorf("graph3d: intervals u=%v v=%v must be finite: %w",
			g.UInterval, g.VInterval, ErrInvalidArgument)
	}

	points := make([]r3.Vec, 0, uCount*vCount)
	for i := 0; i < uCount; i++ {
		u := g.UInterval.Lerp(float64(i) / float64(uCount-1))
		for j := 0; j < vCount; j++ {
			v := g.VInterval.Lerp(float64(j) / float64(vCount-1))
			p, err := g.F.Evaluate(u, v)
			if err != nil {
				return nil, fmt.Errorf("graph3d: evaluate at (%g, %g): %w", u, v, err)
			}
			points = append(points, p)
		}
	}
	Logger().Debug("graph3d: sampled grid", "ucount", uCount, "vcount", vCount,
		"u", g.UInterval.String(), "v", g.VInterval.String())
	return &Grid{Points: points, UCount: uCount, VCount: vCount}, nil
}
