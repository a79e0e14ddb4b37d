package calibrate

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/maseology/glbopt"
	"github.com/maseology/hymod/internal/log"
)

// SCEOptions settings of the shuffled complex evolution search
type SCEOptions struct {
	Complexes int    // number of complexes, defaults to GOMAXPROCS
	Seed      uint64 // sampling seed
}

// SCE searches the unit hypercube by shuffled complex evolution (Duan
// et al., 1993). Complexes evolve concurrently. Once ctx is done every
// evaluation returns the penalty, which stalls the search.
func SCE(ctx context.Context, ev *Evaluator, opts SCEOptions) (*Result, error) {
	ncmplx := opts.Complexes
	if ncmplx < 1 {
		ncmplx = runtime.GOMAXPROCS(0)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var nevals atomic.Int64
	loss := func(u []float64) float64 {
		nevals.Add(1)
		if ctx.Err() != nil {
			return penalty
		}
		return ev.loss(u)
	}

	log.Infof("calibrate: shuffled complex evolution with %d complexes over %d dimensions", ncmplx, ev.Space.Dim())
	x, _ := glbopt.SCE(ncmplx, ev.Space.Dim(), newRand(opts.Seed), loss, true)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u := make([]float64, len(x))
	for i, v := range x {
		u[i] = clamp01(v)
	}
	score, err := ev.Evaluate(u)
	if err != nil {
		return nil, err
	}
	p, sp := ev.Space.Parameters(u)
	return &Result{U: u, Par: p, Snow: sp, Score: score, Evals: int(nevals.Load())}, nil
}
