// Package sdfx exports kernel meshes through the github.com/deadsy/sdfx
// rendering package. It converts between kernel.Mesh and sdfx triangle
// soups and writes binary STL files.
package sdfx

import (
	"errors"
	"fmt"

	"github.com/chazu/graph3d/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyMesh is returned when there is nothing to export.
var ErrEmptyMesh = errors.New("no triangles to export")

// Triangles converts a mesh to an sdfx triangle soup. Degenerate
// triangles are kept; STL readers tolerate them.
func Triangles(m *kernel.Mesh) []*sdf.Triangle3 {
	if m == nil {
		return nil
	}
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	m.Triangles(func(a, b, c r3.Vec) {
		tris = append(tris, &sdf.Triangle3{toV3(a), toV3(b), toV3(c)})
	})
	return tris
}

// FromTriangles builds a kernel mesh with flat per-face normals from an
// sdfx triangle soup. Vertices are not shared between triangles.
func FromTriangles(name string, triangles []*sdf.Triangle3) *kernel.Mesh {
	numVerts := len(triangles) * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
		Name:     name,
	}
}

// BoundingBox returns the sdfx box enclosing every vertex of meshes.
func BoundingBox(meshes ...*kernel.Mesh) (sdf.Box3, bool) {
	var bb sdf.Box3
	found := false
	for _, m := range meshes {
		if m == nil {
			continue
		}
		for i := 0; i < m.VertexCount(); i++ {
			p := toV3(m.Vertex(i))
			if !found {
				bb = sdf.Box3{Min: p, Max: p}
				found = true
				continue
			}
			bb = bb.Extend(sdf.Box3{Min: p, Max: p})
		}
	}
	return bb, found
}

// SaveSTL writes all meshes to a single binary STL file at path.
func SaveSTL(path string, meshes ...*kernel.Mesh) error {
	var tris []*sdf.Triangle3
	for _, m := range meshes {
		tris = append(tris, Triangles(m)...)
	}
	if len(tris) == 0 {
		return fmt.Errorf("sdfx: save %s: %w", path, ErrEmptyMesh)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save %s: %w", path, err)
	}
	return nil
}

func toV3(v r3.Vec) v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}
