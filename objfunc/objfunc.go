// Package objfunc scores simulated against observed hydrographs.
// Observations may contain NaN (missing) values; those days are
// dropped pairwise before scoring. Functions return NaN when fewer
// than two valid pairs remain, when the series lengths differ, or when
// the score is undefined.
package objfunc

import (
	"math"

	mof "github.com/maseology/objfunc"
	"gonum.org/v1/gonum/stat"
)

// pairs returns the days where both series are defined, or nothing
// when their lengths differ
func pairs(o, s []float64) (oo, ss []float64) {
	if len(o) != len(s) {
		return nil, nil
	}
	oo, ss = make([]float64, 0, len(o)), make([]float64, 0, len(s))
	for i, v := range o {
		if math.IsNaN(v) || math.IsNaN(s[i]) || math.IsInf(v, 0) {
			continue
		}
		oo = append(oo, v)
		ss = append(ss, s[i])
	}
	return
}

// nse guards the zero-variance case the kernel divides by
func nse(o, s []float64) float64 {
	if len(o) < 2 || stat.Variance(o, nil) == 0. {
		return math.NaN()
	}
	return mof.NSE(o, s)
}

// NSE Nash-Sutcliffe efficiency, (-Inf,1]
func NSE(o, s []float64) float64 {
	return nse(pairs(o, s))
}

// LogNSE Nash-Sutcliffe efficiency of log-transformed flows, weighting
// low flows. An offset of 1% of the mean observation avoids log(0).
func LogNSE(o, s []float64) float64 {
	oo, ss := pairs(o, s)
	if len(oo) < 2 {
		return math.NaN()
	}
	eps := math.Max(stat.Mean(oo, nil)/100., 1e-6)
	for i := range oo {
		oo[i] = math.Log(math.Max(oo[i], 0.) + eps)
		ss[i] = math.Log(math.Max(ss[i], 0.) + eps)
	}
	return nse(oo, ss)
}

// KGE Kling-Gupta efficiency (Gupta et al., 2009), (-Inf,1]
func KGE(o, s []float64) float64 {
	oo, ss := pairs(o, s)
	if len(oo) < 2 || stat.Mean(oo, nil) == 0. {
		return math.NaN()
	}
	return mof.KGE(oo, ss) // NaN when either series is constant
}

// RMSE root-mean-square error
func RMSE(o, s []float64) float64 {
	oo, ss := pairs(o, s)
	if len(oo) == 0 {
		return math.NaN()
	}
	return mof.RMSE(oo, ss)
}

// Bias fractional volume error (Σs-Σo)/Σo
func Bias(o, s []float64) float64 {
	oo, ss := pairs(o, s)
	if len(oo) == 0 || stat.Mean(oo, nil) == 0. {
		return math.NaN()
	}
	return mof.Bias(oo, ss)
}
