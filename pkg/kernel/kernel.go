// Package kernel defines the abstract geometry kernel interface.
// Implementations (nurbs) fit surfaces through sampled points and
// tessellate them behind this interface. The kernel abstraction
// allows swapping backends without changing the rest of the system.
package kernel

import (
	"errors"

	"gonum.org/v1/gonum/spatial/r3"
)

// ErrGeometryConstruction is returned (wrapped) by kernels that cannot build
// the requested geometry, e.g. too few points for the degree, coincident
// points or a singular interpolation system.
var ErrGeometryConstruction = errors.New("geometry construction failed")

// Surface is an opaque handle to a parametric surface owned by a kernel.
// Implementations wrap their internal representation.
type Surface interface {
	// PointAt evaluates the surface at parameters (u, v) within Domain.
	PointAt(u, v float64) r3.Vec
	// Domain returns the parameter intervals of the surface.
	Domain() (u, v Interval)
	// Degree returns the polynomial degree in each direction.
	Degree() (u, v int)
	// BoundingBox returns an axis-aligned box enclosing the surface.
	BoundingBox() (min, max r3.Vec)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// InterpolateSurface fits a surface passing through every point of a
	// uCount x vCount grid. Points are ordered row-major by u with v
	// varying fastest.
	InterpolateSurface(points []r3.Vec, uCount, vCount, uDegree, vDegree int) (Surface, error)

	// Translate returns a copy of s moved by offset.
	Translate(s Surface, offset r3.Vec) Surface

	// ToMesh tessellates s into a uDiv x vDiv lattice of quads, two
	// triangles each.
	ToMesh(s Surface, uDiv, vDiv int) (*Mesh, error)
}
