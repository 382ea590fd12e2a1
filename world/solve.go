package world

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/plus3/rigid/constraint"
)

// ErrSolverFailed wraps the errors returned by a Solver during a step.
var ErrSolverFailed = errors.New("world: solver failed")

// Solver consumes the constraints of a step. Solve is called concurrently
// from several goroutines, each with a different constraint; an
// implementation that holds two bodies at once must take them with
// object.BorrowPairMut.
type Solver interface {
	Solve(ctx context.Context, dt float64, c constraint.Constraint) error
}

// SolveSystem hands every constraint of the step to a Solver, spread over Workers goroutines.
type SolveSystem struct {
	Solver  Solver
	Workers int
}

func (s *SolveSystem) Execute(frame *StepFrame) error {
	constraints := frame.Constraints
	errs := make([]error, len(constraints))

	ParallelFor(len(constraints), s.Workers, func(start, end int) {
		for i := start; i < end; i++ {
			errs[i] = s.Solver.Solve(frame.Context, frame.DeltaTime, constraints[i])
		}
	})

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrSolverFailed, err)
	}
	return nil
}

// ParallelFor executes fn over [0, n) split into at most workers contiguous chunks.
func ParallelFor(n, workers int, fn func(start, end int)) {
	if n == 0 {
		return
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
