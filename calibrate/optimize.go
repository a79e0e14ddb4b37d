package calibrate

import (
	"context"

	"github.com/maseology/hymod"
	"github.com/maseology/hymod/internal/log"
	"gonum.org/v1/gonum/optimize"
)

const penalty = 1e10 // loss of a failed or undefined evaluation

// OptimizeOptions settings of the multi-start search
type OptimizeOptions struct {
	Starts   int    // number of Nelder-Mead starts drawn by Latin hypercube
	MaxEvals int    // model evaluations per start
	Seed     uint64 // sampling seed
}

// Result of a calibration
type Result struct {
	U     []float64 // point in the unit hypercube
	Par   hymod.Parameters
	Snow  hymod.SnowParameters
	Score float64 // objective value, not the loss
	Evals int     // total model evaluations
}

// ctxRecorder stops an optimisation once its context is done
type ctxRecorder struct{ ctx context.Context }

func (r ctxRecorder) Init() error { return r.ctx.Err() }

func (r ctxRecorder) Record(*optimize.Location, optimize.Operation, *optimize.Stats) error {
	return r.ctx.Err()
}

// Optimize searches the unit hypercube for the best-scoring parameters
// by Nelder-Mead restarted from Latin-hypercube points. Trial points
// outside the hypercube are clamped onto it.
func Optimize(ctx context.Context, ev *Evaluator, opts OptimizeOptions) (*Result, error) {
	if opts.Starts < 1 {
		opts.Starts = 1
	}
	if opts.MaxEvals < 1 {
		opts.MaxEvals = 500
	}
	d := ev.Space.Dim()

	nevals := 0
	loss := func(x []float64) float64 {
		nevals++
		return ev.loss(x)
	}

	var best *Result
	for k, u0 := range LatinHypercube(opts.Starts, d, opts.Seed) {
		if err := ctx.Err(); err != nil {
			return best, err
		}
		res, err := optimize.Minimize(
			optimize.Problem{Func: loss},
			u0,
			&optimize.Settings{
				FuncEvaluations: opts.MaxEvals,
				Recorder:        ctxRecorder{ctx},
			},
			&optimize.NelderMead{SimplexSize: .1},
		)
		if res == nil {
			return best, err
		}
		if err != nil && ctx.Err() != nil {
			return best, ctx.Err()
		}
		u := make([]float64, d)
		for i, v := range res.X {
			u[i] = clamp01(v)
		}
		score, err := ev.Evaluate(u)
		if err != nil {
			log.Warnf("calibrate: start %d: %v", k+1, err)
			continue
		}
		log.Infof("calibrate: start %d of %d: %s = %.4f after %d evaluations", k+1, opts.Starts, ev.Objective, score, res.Stats.FuncEvaluations)
		if best == nil || ev.Objective.Loss(score) < ev.Objective.Loss(best.Score) {
			p, sp := ev.Space.Parameters(u)
			best = &Result{U: u, Par: p, Snow: sp, Score: score}
		}
	}
	if best != nil {
		best.Evals = nevals
	}
	return best, nil
}
