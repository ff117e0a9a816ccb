package nurbs

import (
	"math"

	"github.com/chazu/graph3d/pkg/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Surface = (*Surface)(nil)

// Surface is a tensor-product NURBS surface with clamped knot vectors.
// Control points are indexed [u][v]. A Surface is immutable once built.
type Surface struct {
	uDegree, vDegree int
	uKnots, vKnots   []float64
	control          [][]r3.Vec
	weights          [][]float64

	// Parameters at which the interpolated samples are reproduced.
	uParams, vParams []float64
}

// PointAt evaluates the surface. Parameters outside the domain are clamped.
func (s *Surface) PointAt(u, v float64) r3.Vec {
	nu := len(s.control) - 1
	nv := len(s.control[0]) - 1
	u = clamp(u, s.uKnots[s.uDegree], s.uKnots[nu+1])
	v = clamp(v, s.vKnots[s.vDegree], s.vKnots[nv+1])

	uSpan := findSpan(nu, s.uDegree, u, s.uKnots)
	vSpan := findSpan(nv, s.vDegree, v, s.vKnots)
	nu0 := make([]float64, s.uDegree+1)
	nv0 := make([]float64, s.vDegree+1)
	basisFuns(uSpan, u, s.uDegree, s.uKnots, nu0)
	basisFuns(vSpan, v, s.vDegree, s.vKnots, nv0)

	var sum r3.Vec
	var w float64
	for i := 0; i <= s.uDegree; i++ {
		row := uSpan - s.uDegree + i
		for j := 0; j <= s.vDegree; j++ {
			col := vSpan - s.vDegree + j
			bw := nu0[i] * nv0[j] * s.weights[row][col]
			sum = r3.Add(sum, r3.Scale(bw, s.control[row][col]))
			w += bw
		}
	}
	return r3.Scale(1/w, sum)
}

// Domain returns the knot domain, [0, 1] in both directions for
// interpolated surfaces.
func (s *Surface) Domain() (u, v kernel.Interval) {
	nu := len(s.control) - 1
	nv := len(s.control[0]) - 1
	u = kernel.Interval{Min: s.uKnots[s.uDegree], Max: s.uKnots[nu+1]}
	v = kernel.Interval{Min: s.vKnots[s.vDegree], Max: s.vKnots[nv+1]}
	return u, v
}

// Degree returns the degree in u and v.
func (s *Surface) Degree() (u, v int) {
	return s.uDegree, s.vDegree
}

// BoundingBox returns the box around the control net, which encloses the
// surface by the convex hull property.
func (s *Surface) BoundingBox() (min, max r3.Vec) {
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, row := range s.control {
		for _, p := range row {
			min = r3.Vec{X: math.Min(min.X, p.X), Y: math.Min(min.Y, p.Y), Z: math.Min(min.Z, p.Z)}
			max = r3.Vec{X: math.Max(max.X, p.X), Y: math.Max(max.Y, p.Y), Z: math.Max(max.Z, p.Z)}
		}
	}
	return min, max
}

// ControlCount returns the size of the control net.
func (s *Surface) ControlCount() (u, v int) {
	return len(s.control), len(s.control[0])
}

// ControlPoint returns control point (i, j).
func (s *Surface) ControlPoint(i, j int) r3.Vec {
	return s.control[i][j]
}

// GridParameters returns copies of the parameters at which the sample grid
// used to build s is reproduced: sample (k, l) lies at PointAt(u[k], v[l]).
func (s *Surface) GridParameters() (u, v []float64) {
	return append([]float64(nil), s.uParams...), append([]float64(nil), s.vParams...)
}

// translated returns a copy of s with every control point moved by offset.
// Knots and weights are shared since neither is ever mutated.
func (s *Surface) translated(offset r3.Vec) *Surface {
	out := *s
	out.control = make([][]r3.Vec, len(s.control))
	for i, row := range s.control {
		out.control[i] = make([]r3.Vec, len(row))
		for j, p := range row {
			out.control[i][j] = r3.Add(p, offset)
		}
	}
	return &out
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
