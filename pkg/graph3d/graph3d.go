// Package graph3d samples a two-parameter function over a rectangular
// domain and fits an interpolating cubic surface through the samples.
//
// A Graph3d holds the function, the u and v sampling intervals and the
// geometry kernel that performs the fit. It keeps no other state: every
// call samples afresh and is independent of previous calls.
package graph3d

import (
	"errors"
	"fmt"

	"github.com/chazu/graph3d/pkg/document"
	"github.com/chazu/graph3d/pkg/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Degree is the polynomial degree of fitted surfaces in both directions.
const Degree = 3

// DefaultResolution is the sample count per axis used when callers have no
// preference.
const DefaultResolution = 100

var (
	// ErrInvalidArgument reports unusable counts, intervals or functions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrGeometryConstruction is the kernel's construction failure, re-exported
	// so callers need not import the kernel package to test for it.
	ErrGeometryConstruction = kernel.ErrGeometryConstruction
)

// Evaluator maps a parameter pair to a point in space.
type Evaluator interface {
	Evaluate(u, v float64) (r3.Vec, error)
}

// Function is a pure surface function. It never fails.
type Function func(u, v float64) r3.Vec

// Evaluate calls f.
func (f Function) Evaluate(u, v float64) (r3.Vec, error) {
	return f(u, v), nil
}

// Sink receives finished surfaces. *document.Document implements it.
type Sink interface {
	Add(name string, s kernel.Surface) (document.ObjectID, error)
}

// Graph3d is the graph of a function over [UInterval] x [VInterval].
type Graph3d struct {
	F         Evaluator
	UInterval kernel.Interval
	VInterval kernel.Interval

	kernel kernel.Kernel
}

// New returns a graph of f fitted by k, sampling [-1, 1] on both axes.
func New(f Evaluator, k kernel.Kernel) *Graph3d {
	return &Graph3d{
		F:         f,
		UInterval: kernel.UnitInterval,
		VInterval: kernel.UnitInterval,
		kernel:    k,
	}
}

// Kernel returns the geometry kernel used for fitting.
func (g *Graph3d) Kernel() kernel.Kernel {
	return g.kernel
}

// Surface samples the function on a uCount x vCount grid and returns the
// cubic surface interpolating every sample. Both counts must be at least
// Degree+1.
func (g *Graph3d) Surface(uCount, vCount int) (kernel.Surface, error) {
	if uCount < Degree+1 || vCount < Degree+1 {
		return nil, fmt.Errorf("graph3d: a degree %d surface needs at least %d samples per axis, got %dx%d: %w",
			Degree, Degree+1, uCount, vCount, ErrInvalidArgument)
	}
	if g.kernel == nil {
		return nil, fmt.Errorf("graph3d: no geometry kernel: %w", ErrInvalidArgument)
	}
	grid, err := g.SampleGrid(uCount, vCount)
	if err != nil {
		return nil, err
	}
	s, err := g.kernel.InterpolateSurface(grid.Points, uCount, vCount, Degree, Degree)
	if err != nil {
		return nil, fmt.Errorf("graph3d: fit %dx%d grid: %w", uCount, vCount, err)
	}
	Logger().Debug("graph3d: fitted surface", "ucount", uCount, "vcount", vCount)
	return s, nil
}

// Bake builds the surface and adds it to sink under name. The sink is
// called exactly once, and only after the surface was built.
func (g *Graph3d) Bake(sink Sink, name string, uCount, vCount int) (document.ObjectID, error) {
	if sink == nil {
		return document.ZeroID, fmt.Errorf("graph3d: no sink: %w", ErrInvalidArgument)
	}
	s, err := g.Surface(uCount, vCount)
	if err != nil {
		return document.ZeroID, err
	}
	id, err := sink.Add(name, s)
	if err != nil {
		return document.ZeroID, fmt.Errorf("graph3d: add to document: %w", err)
	}
	Logger().Info("graph3d: baked surface", "id", id.Short(), "name", name)
	return id, nil
}
