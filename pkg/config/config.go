// Package config reads surface batch files. A batch file is an INI file
// with one [surface "name"] section per surface and an optional [output]
// section:
//
//	[surface "saddle"]
//	Function = (vec3 u v (- (* u u) (* v v)))
//	UCount = 100
//	VCount = 100
//
//	[output]
//	STL = graphs.stl
package config

import (
	"fmt"
	"math"
	"sort"

	"gopkg.in/gcfg.v1"
)

const (
	DefaultCount         = 100
	DefaultMeshDivisions = 64
	DefaultIntervalMin   = -1.0
	DefaultIntervalMax   = 1.0

	// Fitted surfaces are cubic in both directions.
	minCount = 4
)

// Example reproduces the two reference surfaces: a saddle, and a cubic
// graph shifted two units along x.
const Example = `# Graph3d example batch.

[surface "saddle"]
Function = (vec3 u v (- (* u u) (* v v)))
UMin = -1
UMax = 1
VMin = -1
VMax = 1
UCount = 100
VCount = 100

[surface "cubic"]
Function = (vec3 u v (+ (* u u u) (* v v)))
UCount = 100
VCount = 100
TranslateX = 2

[output]
STL = graphs.stl
Preview = graphs.png
MeshDivisions = 64
`

type SurfaceConfig struct {
	// Required
	Function string

	// Optional
	UMin, UMax, VMin, VMax float64
	UCount, VCount         int
	TranslateX             float64
	TranslateY             float64
	TranslateZ             float64
	Name                   string
}

// CheckInit validates a surface section and fills in defaults. An
// interval with both bounds zero is treated as unset.
func (s *SurfaceConfig) CheckInit(name string) error {
	if s.Function == "" {
		return fmt.Errorf("Need to specify a Function for surface '%s'.", name)
	}

	if s.UMin == 0 && s.UMax == 0 {
		s.UMin, s.UMax = DefaultIntervalMin, DefaultIntervalMax
	}
	if s.VMin == 0 && s.VMax == 0 {
		s.VMin, s.VMax = DefaultIntervalMin, DefaultIntervalMax
	}
	for _, b := range []struct {
		key string
		val float64
	}{
		{"UMin", s.UMin}, {"UMax", s.UMax}, {"VMin", s.VMin}, {"VMax", s.VMax},
		{"TranslateX", s.TranslateX}, {"TranslateY", s.TranslateY}, {"TranslateZ", s.TranslateZ},
	} {
		if math.IsNaN(b.val) || math.IsInf(b.val, 0) {
			return fmt.Errorf("%s of surface '%s' must be finite, but is %g", b.key, name, b.val)
		}
	}

	if s.UCount == 0 {
		s.UCount = DefaultCount
	} else if s.UCount < minCount {
		return fmt.Errorf(
			"UCount of surface '%s' must be at least %d, but is %d",
			name, minCount, s.UCount,
		)
	}
	if s.VCount == 0 {
		s.VCount = DefaultCount
	} else if s.VCount < minCount {
		return fmt.Errorf(
			"VCount of surface '%s' must be at least %d, but is %d",
			name, minCount, s.VCount,
		)
	}

	s.Name = name
	return nil
}

// HasTranslation reports whether the surface is moved after fitting.
func (s *SurfaceConfig) HasTranslation() bool {
	return s.TranslateX != 0 || s.TranslateY != 0 || s.TranslateZ != 0
}

type OutputConfig struct {
	// Optional
	STL           string
	Preview       string
	MeshDivisions int
	PreviewWidth  int
	PreviewHeight int
}

func (out *OutputConfig) CheckInit() error {
	if out.MeshDivisions == 0 {
		out.MeshDivisions = DefaultMeshDivisions
	} else if out.MeshDivisions < 0 {
		return fmt.Errorf("Output given a negative MeshDivisions, %d.", out.MeshDivisions)
	}
	if out.PreviewWidth < 0 || out.PreviewHeight < 0 {
		return fmt.Errorf(
			"Output preview size must be positive, but is %dx%d",
			out.PreviewWidth, out.PreviewHeight,
		)
	}
	return nil
}

type Config struct {
	Output  OutputConfig
	Surface map[string]*SurfaceConfig
}

// CheckInit validates every section.
func (c *Config) CheckInit() error {
	if len(c.Surface) == 0 {
		return fmt.Errorf("Need to specify at least one surface section.")
	}
	for name, s := range c.Surface {
		if err := s.CheckInit(name); err != nil {
			return err
		}
	}
	return c.Output.CheckInit()
}

// Surfaces returns the surface sections sorted by name.
func (c *Config) Surfaces() []*SurfaceConfig {
	names := make([]string, 0, len(c.Surface))
	for name := range c.Surface {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*SurfaceConfig, len(names))
	for i, name := range names {
		out[i] = c.Surface[name]
	}
	return out
}

// ReadFile parses and validates the batch file fname.
func ReadFile(fname string) (*Config, error) {
	c := &Config{}
	if err := gcfg.ReadFileInto(c, fname); err != nil {
		return nil, err
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadString parses and validates a batch file held in memory.
func ReadString(str string) (*Config, error) {
	c := &Config{}
	if err := gcfg.ReadStringInto(c, str); err != nil {
		return nil, err
	}
	if err := c.CheckInit(); err != nil {
		return nil, err
	}
	return c, nil
}
