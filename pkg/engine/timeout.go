package engine

import (
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r3"
)

// EvalTimeout is the default hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult is the internal type used to pass evaluation results through channels.
type evalResult struct {
	point r3.Vec
	err   error
	fatal bool // the interpreter can no longer be trusted
}

// waitWithTimeout waits for a result from ch, but returns a fatal timeout
// error if the evaluation exceeds timeout. It uses a generation counter to
// discard stale results from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) evalResult {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return evalResult{err: fmt.Errorf("evaluation superseded by newer request"), fatal: true}
		}
		return res

	case <-timer.C:
		return evalResult{err: fmt.Errorf("evaluation timed out after %s", timeout), fatal: true}
	}
}
