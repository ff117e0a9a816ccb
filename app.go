package main

import (
	"fmt"
	"log"

	"github.com/chazu/graph3d/pkg/config"
	"github.com/chazu/graph3d/pkg/document"
	"github.com/chazu/graph3d/pkg/engine"
	"github.com/chazu/graph3d/pkg/graph3d"
	"github.com/chazu/graph3d/pkg/kernel"
	"github.com/chazu/graph3d/pkg/kernel/nurbs"
	"github.com/chazu/graph3d/pkg/kernel/sdfx"
	"github.com/chazu/graph3d/pkg/preview"
	"github.com/chazu/graph3d/pkg/tessellate"
	"gonum.org/v1/gonum/spatial/r3"
)

// colorPalette is a default palette used to assign distinct colors to surfaces.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs surface batches: it compiles each surface function, fits the
// surface, collects it in a document and writes the requested outputs.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
}

// MeshData is the JSON-serializable mesh format of a run result.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable error tied to a surface.
type EvalErrorData struct {
	Surface string `json:"surface,omitempty"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// SurfaceData describes a surface that made it into the document.
type SurfaceData struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	UCount int        `json:"uCount"`
	VCount int        `json:"vCount"`
	Min    [3]float64 `json:"min"`
	Max    [3]float64 `json:"max"`
}

// RunResult is the full result of a batch run.
type RunResult struct {
	Surfaces []SurfaceData   `json:"surfaces"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
	STL      string          `json:"stl,omitempty"`
	Preview  string          `json:"preview,omitempty"`
}

// NewApp creates a new App with an engine and the NURBS kernel.
func NewApp() *App {
	return &App{
		engine: engine.NewEngine(),
		kernel: nurbs.New(),
	}
}

func newRunResult() RunResult {
	return RunResult{
		Surfaces: []SurfaceData{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

// Evaluate fits a single surface function over the default intervals at
// the given resolution and returns its mesh. No files are written.
func (a *App) Evaluate(source string, resolution int) RunResult {
	cfg := &config.Config{
		Surface: map[string]*config.SurfaceConfig{
			"surface": {Function: source, UCount: resolution, VCount: resolution},
		},
	}
	if err := cfg.CheckInit(); err != nil {
		result := newRunResult()
		result.Errors = append(result.Errors, EvalErrorData{Surface: "surface", Message: err.Error()})
		return result
	}
	return a.Run(cfg)
}

// Run builds every surface of cfg into one document, tessellates the
// document and writes the configured STL and preview files. A surface that
// fails is reported in Errors and skipped; the others are still built.
func (a *App) Run(cfg *config.Config) RunResult {
	result := newRunResult()
	doc := document.New()

	// Step 1: Compile, fit and bake each surface.
	for _, sc := range cfg.Surfaces() {
		a.bakeSurface(doc, sc, &result)
	}
	if doc.Len() == 0 {
		return result
	}

	// Step 2: Validate the document.
	findings := document.Validate(doc)
	for _, f := range findings {
		data := EvalErrorData{Message: f.Error()}
		if obj := doc.Get(f.ObjectID); obj != nil {
			data.Surface = obj.Name
		}
		if f.Severity == document.SeverityError {
			result.Errors = append(result.Errors, data)
		} else {
			result.Warnings = append(result.Warnings, data)
		}
	}
	if document.HasErrors(findings) {
		return result
	}

	// Step 3: Tessellate the document into triangle meshes.
	divisions := cfg.Output.MeshDivisions
	meshes, err := tessellate.Tessellate(doc, a.kernel, tessellate.Options{UDivisions: divisions, VDivisions: divisions})
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	// Step 4: Convert kernel meshes to the MeshData format.
	for i, m := range meshes {
		color := colorPalette[i%len(colorPalette)]
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Color:    color,
		})
	}

	// Step 5: Write the requested files.
	if path := cfg.Output.STL; path != "" {
		if err := sdfx.SaveSTL(path, meshes...); err != nil {
			log.Printf("STL export error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		} else {
			result.STL = path
		}
	}
	if path := cfg.Output.Preview; path != "" {
		opts := preview.DefaultOptions()
		if cfg.Output.PreviewWidth > 0 {
			opts.Width = cfg.Output.PreviewWidth
		}
		if cfg.Output.PreviewHeight > 0 {
			opts.Height = cfg.Output.PreviewHeight
		}
		if err := preview.SavePNG(path, meshes, opts); err != nil {
			log.Printf("Preview error: %v", err)
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		} else {
			result.Preview = path
		}
	}

	return result
}

// bakeSurface compiles and fits one configured surface and adds it to doc.
// Failures are appended to result.Errors.
func (a *App) bakeSurface(doc *document.Document, sc *config.SurfaceConfig, result *RunResult) {
	script, evalErrs, err := a.engine.Compile(sc.Function)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Compile fatal error in %s: %v", sc.Name, err)
		result.Errors = append(result.Errors, EvalErrorData{Surface: sc.Name, Message: err.Error()})
		return
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Surface: sc.Name,
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return
	}
	defer script.Close()

	g := graph3d.New(script, a.kernel)
	g.UInterval = kernel.Interval{Min: sc.UMin, Max: sc.UMax}
	g.VInterval = kernel.Interval{Min: sc.VMin, Max: sc.VMax}

	var sink graph3d.Sink = doc
	if sc.HasTranslation() {
		sink = &translatingSink{
			sink:   doc,
			kernel: a.kernel,
			offset: r3.Vec{X: sc.TranslateX, Y: sc.TranslateY, Z: sc.TranslateZ},
		}
	}

	id, err := g.Bake(sink, sc.Name, sc.UCount, sc.VCount)
	if err != nil {
		result.Errors = append(result.Errors, EvalErrorData{Surface: sc.Name, Message: err.Error()})
		return
	}

	obj := doc.Get(id)
	min, max := obj.Surface.BoundingBox()
	result.Surfaces = append(result.Surfaces, SurfaceData{
		ID:     string(id),
		Name:   obj.Name,
		UCount: sc.UCount,
		VCount: sc.VCount,
		Min:    [3]float64{min.X, min.Y, min.Z},
		Max:    [3]float64{max.X, max.Y, max.Z},
	})
}

// translatingSink moves surfaces by a fixed offset before handing them on.
type translatingSink struct {
	sink   graph3d.Sink
	kernel kernel.Kernel
	offset r3.Vec
}

func (t *translatingSink) Add(name string, s kernel.Surface) (document.ObjectID, error) {
	if s == nil {
		return document.ZeroID, fmt.Errorf("translate: nil surface")
	}
	return t.sink.Add(name, t.kernel.Translate(s, t.offset))
}
