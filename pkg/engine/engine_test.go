package engine

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/graph3d/pkg/graph3d"
	"github.com/chazu/graph3d/pkg/kernel/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

const saddleSource = "(vec3 u v (- (* u u) (* v v)))"

func mustCompile(t *testing.T, source string) *Script {
	t.Helper()
	s, evalErrs, err := NewEngine().Compile(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if s == nil {
		t.Fatal("expected non-nil script")
	}
	t.Cleanup(s.Close)
	return s
}

func closeTo(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-12
}

func TestCompileEmptyString(t *testing.T) {
	for _, src := range []string{"", "   \n\t  \n  "} {
		s, evalErrs, err := NewEngine().Compile(src)
		if err != nil {
			t.Fatalf("unexpected fatal error: %v", err)
		}
		if s != nil {
			t.Fatal("expected nil script for empty source")
		}
		if len(evalErrs) != 1 || !strings.Contains(evalErrs[0].Message, "empty") {
			t.Errorf("eval errors = %v, want one empty-function error", evalErrs)
		}
	}
}

func TestEvaluateSaddle(t *testing.T) {
	s := mustCompile(t, saddleSource)
	got, err := s.Evaluate(0.5, 0.25)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	want := r3.Vec{X: 0.5, Y: 0.25, Z: 0.1875}
	if !closeTo(got, want) {
		t.Errorf("Evaluate(0.5, 0.25) = %v, want %v", got, want)
	}
}

func TestEvaluateMultipleForms(t *testing.T) {
	source := `
; scale u before building the point
(def a 2)
(vec3 (* a u) v 0)
`
	s := mustCompile(t, source)
	got, err := s.Evaluate(1, 3)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if !closeTo(got, r3.Vec{X: 2, Y: 3}) {
		t.Errorf("Evaluate(1, 3) = %v, want (2, 3, 0)", got)
	}
}

func TestEvaluateIntegerLiterals(t *testing.T) {
	s := mustCompile(t, "(vec3 1 2 3)")
	got, err := s.Evaluate(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if got != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Evaluate() = %v, want (1, 2, 3)", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	s := mustCompile(t, "(vec3 u v (+ (* u u u) (* v v)))")
	first, err := s.Evaluate(-0.3, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := s.Evaluate(-0.3, 0.7)
		if err != nil {
			t.Fatalf("iteration %d: %v", i, err)
		}
		if got != first {
			t.Fatalf("iteration %d: %v differs from %v", i, got, first)
		}
	}
}

func TestCompileSyntaxError(t *testing.T) {
	s, evalErrs, err := NewEngine().Compile("(vec3 u v")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil script on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestCompileUndefinedSymbol(t *testing.T) {
	s, evalErrs, err := NewEngine().Compile("(vec3 u v undefined_symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if s != nil {
		t.Fatal("expected nil script on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestCompileWrongResultType(t *testing.T) {
	_, evalErrs, err := NewEngine().Compile("(+ u v)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval error for non-vec3 result")
	}
	if !strings.Contains(evalErrs[0].Message, "vec3") {
		t.Errorf("message = %q, want mention of vec3", evalErrs[0].Message)
	}
}

func TestClosedScript(t *testing.T) {
	s, _, err := NewEngine().Compile(saddleSource)
	if err != nil || s == nil {
		t.Fatalf("Compile() = %v, %v", s, err)
	}
	s.Close()
	if _, err := s.Evaluate(0, 0); !errors.Is(err, ErrScriptPoisoned) {
		t.Fatalf("Evaluate() after Close error = %v, want ErrScriptPoisoned", err)
	}
}

func TestScriptAsSurfaceFunction(t *testing.T) {
	s := mustCompile(t, saddleSource)
	g := graph3d.New(s, nurbs.New())

	grid, err := g.SampleGrid(5, 5)
	if err != nil {
		t.Fatalf("SampleGrid() error = %v", err)
	}
	if !closeTo(grid.At(0, 0), r3.Vec{X: -1, Y: -1}) {
		t.Errorf("At(0,0) = %v, want (-1,-1,0)", grid.At(0, 0))
	}
	if !closeTo(grid.At(4, 2), r3.Vec{X: 1, Y: 0, Z: 1}) {
		t.Errorf("At(4,2) = %v, want (1,0,1)", grid.At(4, 2))
	}

	surf, err := g.Surface(6, 6)
	if err != nil {
		t.Fatalf("Surface() error = %v", err)
	}
	if p := surf.PointAt(1, 1); math.Abs(p.Z) > 1e-9 {
		t.Errorf("far corner z = %g, want 0", p.Z)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Col: 0, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	e2 := EvalError{Line: 0, Col: 0, Message: "no location"}
	if strings.Contains(e2.Error(), "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", e2.Error())
	}
}

func TestWaitWithTimeoutExpires(t *testing.T) {
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	start := time.Now()
	res := waitWithTimeout(ch, 1, &mu, &gen, 20*time.Millisecond)
	if res.err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !res.fatal {
		t.Error("timeout must be fatal")
	}
	if !strings.Contains(res.err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", res.err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("waitWithTimeout ignored its timeout")
	}
}

func TestWaitWithTimeoutDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // Current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{point: r3.Vec{X: 1}}

	res := waitWithTimeout(ch, 1, &mu, &gen, time.Second)
	if res.err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(res.err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", res.err)
	}
}

func TestWaitWithTimeoutDelivers(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(3)
	ch := make(chan evalResult, 1)
	ch <- evalResult{point: r3.Vec{Z: 4}}

	res := waitWithTimeout(ch, 3, &mu, &gen, time.Second)
	if res.err != nil || res.point != (r3.Vec{Z: 4}) {
		t.Errorf("result = %+v, want point (0,0,4)", res)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
