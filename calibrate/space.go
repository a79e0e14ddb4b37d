// Package calibrate fits HyMod parameters to observed flow, either by
// multi-start optimisation or by Monte Carlo sampling of the
// parameter space. Parameters are searched in the unit hypercube and
// transformed to model ranges by a Space.
package calibrate

import (
	"math"

	"github.com/maseology/hymod"
	"github.com/maseology/mmaths"
)

// Space maps points of the unit hypercube to model parameters
type Space struct {
	Nq   int  // number of quickflow tanks (not sampled)
	Snow bool // sample the degree-day snow parameters
}

var names = []string{"Huz", "B", "Alpha", "Kq", "Ks", "Kv", "DDF", "Tth", "Tb"}

// Dim number of sampled parameters
func (sp Space) Dim() int {
	if sp.Snow {
		return 9
	}
	return 6
}

// Names of the sampled parameters, in hypercube order
func (sp Space) Names() []string {
	return append([]string(nil), names[:sp.Dim()]...)
}

// Parameters transforms u ∈ [0,1]^Dim to model parameters
func (sp Space) Parameters(u []float64) (hymod.Parameters, hymod.SnowParameters) {
	p := hymod.Parameters{
		Huz:   logLinearTransform(1., 500., u[0]), // [mm]
		B:     linearTransform(0., 1.99, u[1]),
		Alpha: linearTransform(0., 1., u[2]),
		Nq:    sp.Nq,
		Kq:    logLinearTransform(.001, 1., u[3]),
		Ks:    logLinearTransform(.001, 1., u[4]),
		Kv:    linearTransform(.5, 2., u[5]),
	}
	if !sp.Snow {
		return p, hymod.SnowParameters{}
	}
	return p, hymod.SnowParameters{
		UseSnow: true,
		DDF:     linearTransform(0., 2., u[6]),
		Tth:     linearTransform(-5., 5., u[7]),
		Tb:      linearTransform(-5., 5., u[8]),
	}
}

// mmaths aborts outside [0,1], so trial points are clamped first
func linearTransform(lo, hi, u float64) float64 {
	return mmaths.LinearTransform(lo, hi, clamp01(u))
}

func logLinearTransform(lo, hi, u float64) float64 {
	return math.Max(lo, math.Min(hi, mmaths.LogLinearTransform(lo, hi, clamp01(u))))
}

func clamp01(u float64) float64 {
	return math.Max(0., math.Min(1., u))
}
