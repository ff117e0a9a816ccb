package nurbs

import (
	"fmt"
	"math"

	"github.com/chazu/graph3d/pkg/kernel"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// collocation returns the square matrix of degree-p basis functions
// evaluated at params over knots.
func collocation(params, knots []float64, p int) *mat.Dense {
	n := len(params)
	a := mat.NewDense(n, n, nil)
	basis := make([]float64, p+1)
	for k, t := range params {
		span := findSpan(n-1, p, t, knots)
		basisFuns(span, t, p, knots, basis)
		for r := 0; r <= p; r++ {
			a.Set(k, span-p+r, basis[r])
		}
	}
	return a
}

// solve factors a once and solves it against every column of b.
func solve(a, b *mat.Dense) (*mat.Dense, error) {
	n, _ := a.Dims()
	_, cols := b.Dims()
	var qr mat.QR
	qr.Factorize(a)
	x := mat.NewDense(n, cols, nil)
	if err := qr.SolveTo(x, false, b); err != nil {
		return nil, fmt.Errorf("nurbs: interpolation system: %v: %w", err, kernel.ErrGeometryConstruction)
	}
	return x, nil
}

// interpolate performs global surface interpolation of degree (p, q)
// through a uCount x vCount grid stored row-major by u.
func interpolate(points []r3.Vec, uCount, vCount, p, q int) (*Surface, error) {
	switch {
	case p < 1 || q < 1:
		return nil, fmt.Errorf("nurbs: degree (%d, %d) must be at least 1: %w", p, q, kernel.ErrGeometryConstruction)
	case uCount < p+1 || vCount < q+1:
		return nil, fmt.Errorf("nurbs: %dx%d grid too small for degree (%d, %d): %w",
			uCount, vCount, p, q, kernel.ErrGeometryConstruction)
	case len(points) != uCount*vCount:
		return nil, fmt.Errorf("nurbs: got %d points for a %dx%d grid: %w",
			len(points), uCount, vCount, kernel.ErrGeometryConstruction)
	}
	for i, pt := range points {
		if !finite(pt) {
			return nil, fmt.Errorf("nurbs: point %d is not finite (%v): %w", i, pt, kernel.ErrGeometryConstruction)
		}
	}

	at := func(k, l int) r3.Vec { return points[k*vCount+l] }
	uParams, err := chordParams(uCount, vCount, at)
	if err != nil {
		return nil, fmt.Errorf("u direction: %w", err)
	}
	vParams, err := chordParams(vCount, uCount, func(l, k int) r3.Vec { return at(k, l) })
	if err != nil {
		return nil, fmt.Errorf("v direction: %w", err)
	}
	uKnots := averagedKnots(uParams, p)
	vKnots := averagedKnots(vParams, q)

	// Curve interpolation along u for every v column at once.
	b := mat.NewDense(uCount, 3*vCount, nil)
	for k := 0; k < uCount; k++ {
		for l := 0; l < vCount; l++ {
			pt := at(k, l)
			b.Set(k, 3*l, pt.X)
			b.Set(k, 3*l+1, pt.Y)
			b.Set(k, 3*l+2, pt.Z)
		}
	}
	r, err := solve(collocation(uParams, uKnots, p), b)
	if err != nil {
		return nil, err
	}

	// Then along v, using the intermediate control points as data.
	b = mat.NewDense(vCount, 3*uCount, nil)
	for k := 0; k < uCount; k++ {
		for l := 0; l < vCount; l++ {
			b.Set(l, 3*k, r.At(k, 3*l))
			b.Set(l, 3*k+1, r.At(k, 3*l+1))
			b.Set(l, 3*k+2, r.At(k, 3*l+2))
		}
	}
	x, err := solve(collocation(vParams, vKnots, q), b)
	if err != nil {
		return nil, err
	}

	control := make([][]r3.Vec, uCount)
	weights := make([][]float64, uCount)
	for k := range control {
		control[k] = make([]r3.Vec, vCount)
		weights[k] = make([]float64, vCount)
		for l := range control[k] {
			control[k][l] = r3.Vec{X: x.At(l, 3*k), Y: x.At(l, 3*k+1), Z: x.At(l, 3*k+2)}
			weights[k][l] = 1
		}
	}
	return &Surface{
		uDegree: p,
		vDegree: q,
		uKnots:  uKnots,
		vKnots:  vKnots,
		control: control,
		weights: weights,
		uParams: uParams,
		vParams: vParams,
	}, nil
}

func finite(v r3.Vec) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
