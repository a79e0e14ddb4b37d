// Package pdm is the probability-distributed soil-moisture store of
// HyMod (Moore, 1985): storage capacities across the catchment follow a
// Pareto distribution with exponent b and maximum height Huz, holding
// at most Cpar = Huz/(1+b) when every store is full.
package pdm

import (
	"errors"
	"fmt"
	"math"
)

// ErrDegenerate is returned when the store cannot be built from the given shape/capacity.
var ErrDegenerate = errors.New("pdm: degenerate store parameters")

// Flux is the outcome of one daily update
type Flux struct {
	AE     float64 // actual evapotranspiration
	OV     float64 // total excess (OV1 + OV2)
	OV1    float64 // excess from the saturated fraction of stores
	OV2    float64 // excess once the deepest store is full
	Height float64 // critical height at the end of the day
}

// Store of soil moisture
type Store struct {
	Huz, B, Cpar float64 // max height, unscaled shape exponent, max contents
	C            float64 // contents
}

// New constructor, c0 is clamped into [0,Cpar].
func New(huz, b, cpar, c0 float64) (*Store, error) {
	switch {
	case math.IsNaN(b) || math.IsInf(b, 0):
		return nil, fmt.Errorf("%w: shape exponent b=%v", ErrDegenerate, b)
	case b <= -1.:
		return nil, fmt.Errorf("%w: shape exponent b=%v (b+1 must be > 0)", ErrDegenerate, b)
	case !(cpar > 0.) || math.IsInf(cpar, 0):
		return nil, fmt.Errorf("%w: Cpar=%v", ErrDegenerate, cpar)
	case !(huz > 0.) || math.IsInf(huz, 0):
		return nil, fmt.Errorf("%w: Huz=%v", ErrDegenerate, huz)
	}
	s := Store{Huz: huz, B: b, Cpar: cpar}
	s.C = s.clamp(c0)
	return &s, nil
}

func (s *Store) clamp(c float64) float64 {
	return math.Max(0., math.Min(s.Cpar, c))
}

// Height returns the critical height of the store: every store with
// capacity below it is full.
func (s *Store) Height() float64 {
	return s.height(s.C)
}

func (s *Store) height(c float64) float64 {
	r := math.Max(0., math.Min(1., c/s.Cpar))
	return s.Huz * (1. - math.Pow(1.-r, 1./(s.B+1.)))
}

func (s *Store) contents(h float64) float64 {
	r := math.Max(0., math.Min(1., h/s.Huz))
	return s.Cpar * (1. - math.Pow(1.-r, s.B+1.))
}

// Update the store given effective precipitation p and (vegetation
// adjusted) potential evaporation pe; returns AE and the excess.
func (s *Store) Update(p, pe float64) (f Flux) {
	c0 := s.C
	h := s.height(c0)

	f.OV2 = math.Max(0., p+h-s.Huz) // rain beyond the deepest store
	pinf := p - f.OV2
	hint := math.Min(s.Huz, h+pinf)
	cint := s.contents(hint)
	f.OV1 = math.Max(0., pinf+c0-cint) // rain falling on saturated stores
	f.OV = f.OV1 + f.OV2

	f.AE = math.Max(0., math.Min(cint, cint/s.Cpar*pe))
	s.C = s.clamp(cint - f.AE)
	f.Height = s.height(s.C)
	return
}
