package main

import (
	"encoding/json"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Result shape: slices are non-nil so JSON serializes [] not null.
// ---------------------------------------------------------------------------

func TestE2EResultSlicesNonNil(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(vec3 u v", 4)

	if result.Surfaces == nil {
		t.Error("Surfaces should be non-nil empty slice, got nil")
	}
	if result.Meshes == nil {
		t.Error("Meshes should be non-nil empty slice, got nil")
	}
	if result.Warnings == nil {
		t.Error("Warnings should be non-nil empty slice, got nil")
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{"surfaces", "meshes", "errors", "warnings"} {
		if strings.Contains(string(data), `"`+key+`":null`) {
			t.Errorf("%s serialized as null: %s", key, data)
		}
	}
}

// ---------------------------------------------------------------------------
// A failing surface does not stop the others.
// ---------------------------------------------------------------------------

func TestE2EPartialFailure(t *testing.T) {
	app := NewApp()
	cfg := smallBatch(t, `
[surface "bad"]
Function = (vec3 u v undefined_height)
UCount = 6
VCount = 6

[surface "good"]
Function = (vec3 u v (* u v))
UCount = 6
VCount = 6
`)

	result := app.Run(cfg)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for the bad surface")
	}
	for _, e := range result.Errors {
		if e.Surface != "bad" {
			t.Errorf("error attributed to %q, want %q", e.Surface, "bad")
		}
	}
	if len(result.Meshes) != 1 || result.Meshes[0].Name != "good" {
		t.Fatalf("expected exactly the good mesh, got %d meshes", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Function results that are not points.
// ---------------------------------------------------------------------------

func TestE2ENonPointResult(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(* u v)", 4)

	if len(result.Errors) == 0 {
		t.Fatal("expected error for non-vec3 result")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Degenerate functions cannot be fitted.
// ---------------------------------------------------------------------------

func TestE2EConstantFunction(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("(vec3 1 2 3)", 5)

	if len(result.Errors) == 0 {
		t.Fatal("expected geometry construction error for a constant function")
	}
	if len(result.Surfaces) != 0 {
		t.Errorf("expected no surfaces, got %d", len(result.Surfaces))
	}
}

func TestE2ENonFiniteValues(t *testing.T) {
	app := NewApp()
	// log of a non-positive u is -Inf or NaN.
	result := app.Evaluate("(vec3 u v (log u))", 5)

	if len(result.Errors) == 0 {
		t.Fatal("expected an error for non-finite samples")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Comments and whitespace around the function.
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate(";; nothing here", 4)

	if len(result.Errors) == 0 {
		t.Error("expected an error for a function with no body")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes, got %d", len(result.Meshes))
	}
}

func TestE2EWhitespaceOnly(t *testing.T) {
	app := NewApp()
	result := app.Evaluate("   \n\t  \n  ", 4)

	if len(result.Errors) == 0 {
		t.Error("expected an error for whitespace-only source")
	}
}

func TestE2ECommentedFunction(t *testing.T) {
	app := NewApp()
	source := `
;; a paraboloid
(def h (+ (* u u) (* v v))) ; height
(vec3 u v h)
`
	result := app.Evaluate(source, 5)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(result.Meshes))
	}
}

// ---------------------------------------------------------------------------
// Repeated evaluation is stable.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	app := NewApp()
	source := "(vec3 u v (sin (* pi u)))"

	first := app.Evaluate(source, 6)
	if len(first.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", first.Errors)
	}
	for i := 0; i < 5; i++ {
		r := app.Evaluate(source, 6)
		if len(r.Errors) > 0 {
			t.Fatalf("iteration %d: unexpected errors: %v", i, r.Errors)
		}
		if r.Surfaces[0].ID != first.Surfaces[0].ID {
			t.Errorf("iteration %d: ID %s differs from %s", i, r.Surfaces[0].ID, first.Surfaces[0].ID)
		}
		for j := range first.Meshes[0].Vertices {
			if r.Meshes[0].Vertices[j] != first.Meshes[0].Vertices[j] {
				t.Fatalf("iteration %d: vertex data differs at %d", i, j)
			}
		}
	}
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := NewApp()
	sources := []string{
		"(vec3 u v 0)",
		"(vec3 u v (* u v))",
		"(vec3 u v",
	}
	for i := 0; i < 6; i++ {
		src := sources[i%len(sources)]
		r := app.Evaluate(src, 4)
		wantErr := i%len(sources) == 2
		if got := len(r.Errors) > 0; got != wantErr {
			t.Errorf("iteration %d (%s): errors=%v, want error=%v", i, src, r.Errors, wantErr)
		}
	}
}

// ---------------------------------------------------------------------------
// Intervals and colors.
// ---------------------------------------------------------------------------

func TestE2EReversedInterval(t *testing.T) {
	app := NewApp()
	cfg := smallBatch(t, `
[surface "flip"]
Function = (vec3 u v 0)
UMin = 3
UMax = 1
UCount = 5
VCount = 5
`)
	result := app.Run(cfg)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	s := result.Surfaces[0]
	if s.Min[0] > 1+1e-9 || s.Max[0] < 3-1e-9 {
		t.Errorf("x extent = [%g, %g], want to cover [1, 3]", s.Min[0], s.Max[0])
	}
	// The first mesh vertex is the first sample, taken at u = UMin.
	if x := result.Meshes[0].Vertices[0]; x < 2.999 || x > 3.001 {
		t.Errorf("first vertex x = %g, want 3", x)
	}
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	app := NewApp()
	var b strings.Builder
	n := len(colorPalette) + 2
	for i := 0; i < n; i++ {
		b.WriteString("[surface \"s")
		b.WriteByte(byte('a' + i))
		b.WriteString("\"]\nFunction = (vec3 u v 0)\nUCount = 4\nVCount = 4\n")
	}
	b.WriteString("[output]\nMeshDivisions = 1\n")

	result := app.Run(smallBatch(t, b.String()))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Meshes) != n {
		t.Fatalf("expected %d meshes, got %d", n, len(result.Meshes))
	}
	for i, m := range result.Meshes {
		if want := colorPalette[i%len(colorPalette)]; m.Color != want {
			t.Errorf("mesh %d color = %s, want %s", i, m.Color, want)
		}
	}
}
