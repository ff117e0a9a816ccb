// Package tessellate walks a document and produces triangle meshes using a
// geometry kernel. One mesh is produced per object.
package tessellate

import (
	"fmt"

	"github.com/chazu/graph3d/pkg/document"
	"github.com/chazu/graph3d/pkg/kernel"
)

// DefaultDivisions is the lattice size used per axis when the caller passes
// zero divisions.
const DefaultDivisions = 64

// Options controls mesh density.
type Options struct {
	UDivisions int
	VDivisions int
}

func (o Options) withDefaults() Options {
	if o.UDivisions == 0 {
		o.UDivisions = DefaultDivisions
	}
	if o.VDivisions == 0 {
		o.VDivisions = DefaultDivisions
	}
	return o
}

// Tessellate walks the document in insertion order and produces one
// triangle mesh per object using the provided geometry kernel. The
// tessellator is read-only and never mutates the document.
func Tessellate(doc *document.Document, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if doc == nil {
		return nil, nil
	}
	if k == nil {
		return nil, fmt.Errorf("tessellate: no geometry kernel")
	}
	opts = opts.withDefaults()

	var meshes []*kernel.Mesh
	for _, obj := range doc.Objects() {
		m, err := walkObject(k, obj, opts)
		if err != nil {
			return nil, fmt.Errorf("tessellate: object %s: %w", obj.ID.Short(), err)
		}
		if m != nil {
			meshes = append(meshes, m)
		}
	}
	return meshes, nil
}

// walkObject dispatches on the object kind.
func walkObject(k kernel.Kernel, obj *document.Object, opts Options) (*kernel.Mesh, error) {
	switch obj.Kind {
	case document.ObjectSurface:
		return handleSurface(k, obj, opts)
	default:
		return nil, fmt.Errorf("unknown object kind: %v", obj.Kind)
	}
}

// handleSurface meshes a surface object.
func handleSurface(k kernel.Kernel, obj *document.Object, opts Options) (*kernel.Mesh, error) {
	if obj.Surface == nil {
		return nil, fmt.Errorf("surface object has no geometry")
	}
	mesh, err := k.ToMesh(obj.Surface, opts.UDivisions, opts.VDivisions)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed: %w", err)
	}

	// Prefer the object's name, fall back to the short ID.
	if obj.Name != "" {
		mesh.Name = obj.Name
	} else {
		mesh.Name = obj.ID.Short()
	}
	return mesh, nil
}

// Bounds returns the axis-aligned box enclosing every vertex of meshes.
// ok is false when there are no vertices.
func Bounds(meshes []*kernel.Mesh) (min, max [3]float64, ok bool) {
	for _, m := range meshes {
		for i := 0; i < m.VertexCount(); i++ {
			v := m.Vertex(i)
			p := [3]float64{v.X, v.Y, v.Z}
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			for a := 0; a < 3; a++ {
				if p[a] < min[a] {
					min[a] = p[a]
				}
				if p[a] > max[a] {
					max[a] = p[a]
				}
			}
		}
	}
	return min, max, ok
}
