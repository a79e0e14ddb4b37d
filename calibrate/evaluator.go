package calibrate

import (
	"fmt"
	"math"
	"strings"

	"github.com/maseology/hymod"
	"github.com/maseology/hymod/forcing"
	"github.com/maseology/hymod/objfunc"
)

// Objective selects the goodness-of-fit measure
type Objective int

const (
	NSE Objective = iota
	KGE
	LogNSE
	RMSE
	Bias
)

var objNames = [...]string{"nse", "kge", "lognse", "rmse", "bias"}

func (o Objective) String() string {
	if o < 0 || int(o) >= len(objNames) {
		return fmt.Sprintf("Objective(%d)", int(o))
	}
	return objNames[o]
}

// ParseObjective returns the objective named s (case insensitive)
func ParseObjective(s string) (Objective, error) {
	for i, n := range objNames {
		if strings.EqualFold(s, n) {
			return Objective(i), nil
		}
	}
	return 0, fmt.Errorf("calibrate: unknown objective %q (want one of %s)", s, strings.Join(objNames[:], ", "))
}

// Score of simulated flows against observed, NaN observations skipped
func (o Objective) Score(obs, sim []float64) float64 {
	switch o {
	case KGE:
		return objfunc.KGE(obs, sim)
	case LogNSE:
		return objfunc.LogNSE(obs, sim)
	case RMSE:
		return objfunc.RMSE(obs, sim)
	case Bias:
		return objfunc.Bias(obs, sim)
	default:
		return objfunc.NSE(obs, sim)
	}
}

// Loss converts a score to a value to be minimised, zero being a perfect fit
func (o Objective) Loss(score float64) float64 {
	if math.IsNaN(score) {
		return math.Inf(1)
	}
	switch o {
	case RMSE:
		return score
	case Bias:
		return math.Abs(score)
	default:
		return 1. - score
	}
}

// Evaluator runs the model for a point of the parameter space and
// scores the run after warm-up. Safe for concurrent use: every
// evaluation builds its own model.
type Evaluator struct {
	Space     Space
	Objective Objective
	frc       *forcing.Forcing
	start, n  int
	warmup    int
	obs       []float64
	opts      []hymod.Option
}

// NewEvaluator scores n days from forcing index start, skipping the
// first warmup days
func NewEvaluator(frc *forcing.Forcing, sp Space, obj Objective, start, n, warmup int, opts ...hymod.Option) (*Evaluator, error) {
	if sp.Nq < 1 {
		return nil, fmt.Errorf("calibrate: number of quickflow tanks %d must be >= 1", sp.Nq)
	}
	if warmup < 0 || warmup >= n {
		return nil, fmt.Errorf("calibrate: warm-up of %d days leaves nothing to score in %d", warmup, n)
	}
	obs, err := frc.Observed(start, n)
	if err != nil {
		return nil, fmt.Errorf("calibrate: %w", err)
	}
	nobs := 0
	for _, v := range obs[warmup:] {
		if !math.IsNaN(v) {
			nobs++
		}
	}
	if nobs < 2 {
		return nil, fmt.Errorf("calibrate: %d observed flows after warm-up", nobs)
	}
	return &Evaluator{
		Space:     sp,
		Objective: obj,
		frc:       frc,
		start:     start,
		n:         n,
		warmup:    warmup,
		obs:       obs[warmup:],
		opts:      opts,
	}, nil
}

// Simulate runs the model for u and returns the full series
func (ev *Evaluator) Simulate(u []float64) (*hymod.Series, error) {
	par, snow := ev.Space.Parameters(u)
	m, err := hymod.New(par, snow, hymod.ZeroState(par.Nq), ev.opts...)
	if err != nil {
		return nil, err
	}
	return m.Run(ev.frc, ev.start, ev.n)
}

// Evaluate returns the score of u
func (ev *Evaluator) Evaluate(u []float64) (float64, error) {
	s, err := ev.Simulate(u)
	if err != nil {
		return math.NaN(), err
	}
	return ev.Objective.Score(ev.obs, s.Q[ev.warmup:]), nil
}

// loss of x clamped onto the unit hypercube. Failed or undefined
// evaluations score the penalty.
func (ev *Evaluator) loss(x []float64) float64 {
	u := make([]float64, len(x))
	for i, v := range x {
		u[i] = clamp01(v)
	}
	s, err := ev.Evaluate(u)
	if err != nil {
		return penalty
	}
	if f := ev.Objective.Loss(s); !math.IsInf(f, 0) {
		return f
	}
	return penalty
}
