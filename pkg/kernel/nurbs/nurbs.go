// Package nurbs implements the kernel.Kernel interface with tensor-product
// NURBS surfaces. Interpolation solves the B-spline collocation systems with
// gonum's QR factorization.
package nurbs

import (
	"fmt"

	"github.com/chazu/graph3d/pkg/kernel"
	"gonum.org/v1/gonum/spatial/r3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*NurbsKernel)(nil)

// NurbsKernel implements kernel.Kernel. It holds no state and is safe for
// concurrent use.
type NurbsKernel struct{}

// New returns a new NurbsKernel.
func New() *NurbsKernel {
	return &NurbsKernel{}
}

// unwrap extracts the concrete surface from a kernel.Surface.
func unwrap(s kernel.Surface) *Surface {
	return s.(*Surface)
}

// InterpolateSurface fits a surface of degree (uDegree, vDegree) through
// every point of the grid using averaged chord-length parameters.
func (k *NurbsKernel) InterpolateSurface(points []r3.Vec, uCount, vCount, uDegree, vDegree int) (kernel.Surface, error) {
	s, err := interpolate(points, uCount, vCount, uDegree, vDegree)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Translate moves a surface by offset. The input surface is unchanged.
func (k *NurbsKernel) Translate(s kernel.Surface, offset r3.Vec) kernel.Surface {
	return unwrap(s).translated(offset)
}

// ToMesh samples the surface on a regular (uDiv+1) x (vDiv+1) parameter
// lattice and joins neighbouring samples into triangles. Vertex normals are
// the normalized sum of the adjacent face normals.
func (k *NurbsKernel) ToMesh(s kernel.Surface, uDiv, vDiv int) (*kernel.Mesh, error) {
	if uDiv < 1 || vDiv < 1 {
		return nil, fmt.Errorf("nurbs: mesh divisions %dx%d must be positive", uDiv, vDiv)
	}
	ud, vd := s.Domain()
	cols := vDiv + 1
	pts := make([]r3.Vec, (uDiv+1)*cols)
	for i := 0; i <= uDiv; i++ {
		u := ud.Lerp(float64(i) / float64(uDiv))
		for j := 0; j <= vDiv; j++ {
			pts[i*cols+j] = s.PointAt(u, vd.Lerp(float64(j)/float64(vDiv)))
		}
	}

	normals := make([]r3.Vec, len(pts))
	indices := make([]uint32, 0, uDiv*vDiv*6)
	addFace := func(a, b, c int) {
		n := r3.Cross(r3.Sub(pts[b], pts[a]), r3.Sub(pts[c], pts[a]))
		normals[a] = r3.Add(normals[a], n)
		normals[b] = r3.Add(normals[b], n)
		normals[c] = r3.Add(normals[c], n)
		indices = append(indices, uint32(a), uint32(b), uint32(c))
	}
	for i := 0; i < uDiv; i++ {
		for j := 0; j < vDiv; j++ {
			a := i*cols + j
			b := (i+1)*cols + j
			c := b + 1
			d := a + 1
			addFace(a, b, c)
			addFace(a, c, d)
		}
	}

	vertices := make([]float32, 0, len(pts)*3)
	flatNormals := make([]float32, 0, len(pts)*3)
	for i, p := range pts {
		vertices = append(vertices, float32(p.X), float32(p.Y), float32(p.Z))
		n := normals[i]
		if r3.Norm(n) > 0 {
			n = r3.Unit(n)
		}
		flatNormals = append(flatNormals, float32(n.X), float32(n.Y), float32(n.Z))
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  flatNormals,
		Indices:  indices,
	}, nil
}
