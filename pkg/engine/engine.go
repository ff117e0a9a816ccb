// Package engine evaluates user-written surface functions. A function is a
// zygomys Lisp program run in a sandbox with the parameters bound to the
// globals u and v; its last form must produce (vec3 x y z).
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"gonum.org/v1/gonum/spatial/r3"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ErrScriptPoisoned is returned by scripts whose interpreter was abandoned
// after a timeout or panic.
var ErrScriptPoisoned = errors.New("script interpreter is no longer usable")

// Engine compiles surface function scripts.
type Engine struct {
	// Timeout bounds every single evaluation of a compiled script.
	Timeout time.Duration
}

// NewEngine creates a new Engine using EvalTimeout.
func NewEngine() *Engine {
	return &Engine{Timeout: EvalTimeout}
}

// Compile prepares source for evaluation and runs it once at (0, 0) so that
// syntax and runtime errors surface before any sampling starts.
//
// Return semantics:
//   - On success: returns script + nil errors + nil error
//   - On parse/eval failure: returns nil script + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Compile(source string) (*Script, []EvalError, error) {
	if strings.TrimSpace(source) == "" {
		return nil, []EvalError{{Message: "empty surface function"}}, nil
	}

	env := zygo.NewZlispSandbox()
	registerBuiltins(env)
	s := &Script{
		source:  preprocessSource(source),
		env:     env,
		timeout: e.Timeout,
	}
	if s.timeout <= 0 {
		s.timeout = EvalTimeout
	}

	if _, err := s.Evaluate(0, 0); err != nil {
		var evalErr *scriptError
		if errors.As(err, &evalErr) {
			s.Close()
			return nil, parseZygomysError(evalErr.err), nil
		}
		s.Close()
		return nil, nil, err
	}
	return s, nil, nil
}

// Script is a compiled surface function. It implements graph3d.Evaluator.
// A Script serializes its evaluations and is safe for concurrent use.
type Script struct {
	evalMu sync.Mutex
	source string
	env    *zygo.Zlisp

	mu         sync.Mutex
	generation uint64
	poisoned   error

	timeout time.Duration
}

// scriptError marks errors raised by user code, as opposed to timeouts and
// panics in the interpreter.
type scriptError struct {
	err error
}

func (e *scriptError) Error() string { return e.err.Error() }
func (e *scriptError) Unwrap() error { return e.err }

// Evaluate runs the script with u and v bound and returns the point it
// produced.
func (s *Script) Evaluate(u, v float64) (r3.Vec, error) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()

	s.mu.Lock()
	if s.poisoned != nil {
		err := s.poisoned
		s.mu.Unlock()
		return r3.Vec{}, err
	}
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r), fatal: true}
			}
		}()
		p, err := s.eval(u, v)
		ch <- evalResult{point: p, err: err}
	}()

	res := waitWithTimeout(ch, gen, &s.mu, &s.generation, s.timeout)
	if res.fatal {
		s.mu.Lock()
		s.poisoned = fmt.Errorf("%v: %w", res.err, ErrScriptPoisoned)
		s.mu.Unlock()
		return r3.Vec{}, res.err
	}
	if res.err != nil {
		return r3.Vec{}, &scriptError{err: res.err}
	}
	return res.point, nil
}

// Close releases the interpreter. Later evaluations fail.
func (s *Script) Close() {
	s.mu.Lock()
	if s.poisoned == nil {
		s.poisoned = fmt.Errorf("script closed: %w", ErrScriptPoisoned)
	}
	s.mu.Unlock()
	s.env.Stop()
}

// eval binds the parameters and runs the program in the script's sandbox.
func (s *Script) eval(u, v float64) (r3.Vec, error) {
	s.env.AddGlobal("u", &zygo.SexpFloat{Val: u})
	s.env.AddGlobal("v", &zygo.SexpFloat{Val: v})
	res, err := s.env.EvalString(s.source)
	if err != nil {
		return r3.Vec{}, err
	}
	vec, ok := res.(*sexpVec3)
	if !ok {
		return r3.Vec{}, fmt.Errorf("surface function must return (vec3 x y z), got %s", res.SexpString(nil))
	}
	return vec.vec, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// zygomys formats parse errors as "Error on line N: <details>\n"
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{
				Line:    line,
				Message: strings.TrimSpace(m[2]),
			}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
