// Package preview renders kernel meshes to a shaded PNG snapshot.
package preview

import (
	"errors"
	"fmt"
	"image"

	"github.com/chazu/graph3d/pkg/kernel"
	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNothingToRender is returned when the meshes hold no triangles.
var ErrNothingToRender = errors.New("no triangles to render")

// View places the camera. The scene is first fitted into the bi-unit cube
// centered at the origin, so positions are in that frame.
type View struct {
	// what position (point) to look at
	LookAt r3.Vec
	// which way is up (direction)
	Up r3.Vec
	// where the camera/eye is located (point)
	Eye r3.Vec

	Near, Far float64
}

// IsoView looks at the origin from the (+,+,+) octant with z up.
var IsoView = View{
	Up:   r3.Vec{Z: 1},
	Eye:  r3.Vec{X: 2.4, Y: 2.4, Z: 2.4},
	Near: 1,
	Far:  10,
}

// Options controls the output image.
type Options struct {
	Width, Height int
	// Supersampling factor; the image is rendered Scale times larger and
	// downsampled.
	Scale int
	View  View
	// Hex colors.
	Background string
	Color      string
}

// DefaultOptions renders an 800x600 iso view with 4x supersampling.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Scale:      4,
		View:       IsoView,
		Background: "#FFF8E3",
		Color:      "#468966",
	}
}

// Render draws meshes into an image of opts.Width x opts.Height.
func Render(meshes []*kernel.Mesh, opts Options) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid image size %dx%d", opts.Width, opts.Height)
	}
	if opts.Scale < 1 {
		opts.Scale = 1
	}
	mesh := toFauxgl(meshes)
	if mesh == nil {
		return nil, ErrNothingToRender
	}

	const fovy = 30 // vertical field of view in degrees

	var (
		view   = opts.View
		eye    = fauxgl.V(view.Eye.X, view.Eye.Y, view.Eye.Z)
		center = fauxgl.V(view.LookAt.X, view.LookAt.Y, view.LookAt.Z)
		up     = fauxgl.V(view.Up.X, view.Up.Y, view.Up.Z)
		light  = fauxgl.V(-0.75, 1, 0.25).Normalize()
	)

	// fit mesh in a bi-unit cube centered at the origin
	mesh.BiUnitCube()
	mesh.SmoothNormals()

	context := fauxgl.NewContext(opts.Width*opts.Scale, opts.Height*opts.Scale)
	context.ClearColorBufferWith(fauxgl.HexColor(opts.Background))
	aspect := float64(opts.Width) / float64(opts.Height)
	matrix := fauxgl.LookAt(eye, center, up).Perspective(fovy, aspect, view.Near, view.Far)
	shader := fauxgl.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = fauxgl.HexColor(opts.Color)
	context.Shader = shader
	context.DrawMesh(mesh)

	// downsample image for antialiasing
	img := context.Image()
	if opts.Scale > 1 {
		img = resize.Resize(uint(opts.Width), uint(opts.Height), img, resize.Bilinear)
	}
	return img, nil
}

// SavePNG renders meshes and writes the image to path.
func SavePNG(path string, meshes []*kernel.Mesh, opts Options) error {
	img, err := Render(meshes, opts)
	if err != nil {
		return err
	}
	if err := fauxgl.SavePNG(path, img); err != nil {
		return fmt.Errorf("preview: save %s: %w", path, err)
	}
	return nil
}

// toFauxgl merges meshes into one fauxgl triangle mesh. It returns nil
// when there are no triangles.
func toFauxgl(meshes []*kernel.Mesh) *fauxgl.Mesh {
	var tris []*fauxgl.Triangle
	for _, m := range meshes {
		if m == nil {
			continue
		}
		m.Triangles(func(a, b, c r3.Vec) {
			tris = append(tris, fauxgl.NewTriangleForPoints(
				fauxgl.V(a.X, a.Y, a.Z),
				fauxgl.V(b.X, b.Y, b.Z),
				fauxgl.V(c.X, c.Y, c.Z),
			))
		})
	}
	if len(tris) == 0 {
		return nil
	}
	return fauxgl.NewTriangleMesh(tris)
}
