package calibrate

import (
	"context"
	"runtime"
	"sync"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/hymod"
	"github.com/maseology/hymod/internal/log"
	"golang.org/x/sync/errgroup"
)

// Sample is one evaluated point of a Monte Carlo batch
type Sample struct {
	Index int
	U     []float64
	Par   hymod.Parameters
	Snow  hymod.SnowParameters
	Score float64
}

// Sink receives evaluated samples; calls are serialised
type Sink interface {
	Put(ctx context.Context, s Sample) error
}

// MonteCarloOptions settings of a sampling run
type MonteCarloOptions struct {
	N        int    // number of samples
	Workers  int    // concurrent evaluations, defaults to GOMAXPROCS
	Seed     uint64 // sampling seed
	Progress bool   // show a progress bar
}

// MonteCarlo evaluates a Latin-hypercube sample of the parameter space
// concurrently. Samples are returned in sampling order and handed to
// sink (which may be nil) as they complete. Failed evaluations are
// kept with a NaN score.
func MonteCarlo(ctx context.Context, ev *Evaluator, opts MonteCarloOptions, sink Sink) ([]Sample, error) {
	nwrkrs := opts.Workers
	if nwrkrs < 1 {
		nwrkrs = runtime.GOMAXPROCS(0)
	}
	us := LatinHypercube(opts.N, ev.Space.Dim(), opts.Seed)
	smpls := make([]Sample, len(us))

	var bar *uiprogress.Bar
	if opts.Progress {
		uiprogress.Start()
		defer uiprogress.Stop()
		bar = uiprogress.AddBar(len(us)).AppendCompleted().PrependElapsed()
	}

	log.Infof("calibrate: sampling %d points of %d dimensions with %d workers", len(us), ev.Space.Dim(), nwrkrs)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nwrkrs)
	for k, u := range us {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := ev.Evaluate(u)
			if err != nil {
				log.Warnf("calibrate: sample %d: %v", k, err)
			}
			p, sp := ev.Space.Parameters(u)
			s := Sample{Index: k, U: u, Par: p, Snow: sp, Score: score}
			log.Debugw("sample evaluated", "index", k, ev.Objective.String(), score)
			smpls[k] = s
			if bar != nil {
				bar.Incr()
			}
			if sink == nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			return sink.Put(gctx, s)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return smpls, nil
}
