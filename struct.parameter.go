package hymod

import (
	"math"

	"github.com/maseology/hymod/snowpack"
)

// Parameters of HyMod
type Parameters struct {
	Huz   float64 // maximum height of the soil moisture accounting tank [mm]   - Range [0, Inf]
	B     float64 // scaled distribution function shape parameter            - Range [0, 2)
	Alpha float64 // quick/slow split parameter                              - Range [0, 1]
	Nq    int     // number of quickflow routing tanks                       - Range [1, Inf] (typically <3)
	Kq    float64 // quickflow routing tanks' rate parameter                 - Range [0, 1]
	Ks    float64 // slowflow routing tank's rate parameter                  - Range [0, 1]
	Kv    float64 // vegetation adjustment to PE                             - Range [0, 2]
}

// Derived parameters, computed once per run from Parameters
type Derived struct {
	B    float64 // unscaled distribution function shape parameter
	Cpar float64 // maximum combined contents of all stores
}

// Derive unscaled shape b and Cpar from the user parameters
func (p Parameters) Derive() Derived {
	b := math.Log(1.-p.B/2.) / math.Log(.5)
	return Derived{B: b, Cpar: p.Huz / (1. + b)}
}

// Validate returns a *ParameterError for the first parameter found out of range
func (p Parameters) Validate() error {
	unit := func(name string, v float64) error {
		if math.IsNaN(v) || v < 0. || v > 1. {
			return &ParameterError{name, v, "outside [0,1]"}
		}
		return nil
	}
	if p.Nq < 1 {
		return &ParameterError{"Nq", float64(p.Nq), "must be >= 1"}
	}
	if math.IsNaN(p.Huz) || math.IsInf(p.Huz, 0) || p.Huz <= 0. {
		return &ParameterError{"Huz", p.Huz, "must be a finite value > 0"}
	}
	if math.IsNaN(p.B) || p.B < 0. || p.B >= 2. {
		return &ParameterError{"B", p.B, "outside [0,2)"}
	}
	for _, u := range []struct {
		n string
		v float64
	}{{"Alpha", p.Alpha}, {"Kq", p.Kq}, {"Ks", p.Ks}} {
		if err := unit(u.n, u.v); err != nil {
			return err
		}
	}
	if math.IsNaN(p.Kv) || p.Kv < 0. || p.Kv > 2. {
		return &ParameterError{"Kv", p.Kv, "outside [0,2]"}
	}
	d := p.Derive()
	if math.IsNaN(d.B) || math.IsInf(d.B, 0) || d.B <= -1. {
		return &ParameterError{"b", d.B, "degenerate distribution shape"}
	}
	if !(d.Cpar > 0.) {
		return &ParameterError{"Cpar", d.Cpar, "must be > 0"}
	}
	return nil
}

// SnowParameters of the degree-day snow model
type SnowParameters struct {
	UseSnow bool    // flag to indicate if the degree day snow model is in use
	DDF     float64 // degree day factor [mm/°C/day] - Range [ 0, 2]
	Tth     float64 // temperature threshold [°C]    - Range [-5, 5]
	Tb      float64 // base temperature of melt [°C] - Range [-5, 5]
}

// Model returns the snow variant selected by the parameters
func (s SnowParameters) Model() (snowpack.Model, error) {
	if !s.UseSnow {
		return snowpack.Disabled{}, nil
	}
	if math.IsNaN(s.DDF) || s.DDF < 0. {
		return nil, &ParameterError{"DDF", s.DDF, "must be >= 0"}
	}
	if math.IsNaN(s.Tth) {
		return nil, &ParameterError{"Tth", s.Tth, "must be a number"}
	}
	if math.IsNaN(s.Tb) {
		return nil, &ParameterError{"Tb", s.Tb, "must be a number"}
	}
	return snowpack.NewDegreeDay(s.DDF, s.Tth, s.Tb)
}
