// Package snowpack separates precipitation into rain and snow and
// releases snowmelt, producing the effective precipitation reaching
// the soil.
package snowpack

import (
	"fmt"
	"math"
)

// Flux is the outcome of one daily update
type Flux struct {
	Rain, Snow, Melt float64
	EffPrecip        float64 // rain + melt
}

// Model is either Disabled or DegreeDay, selected once at configuration.
type Model interface {
	Update(p, t float64) Flux
	Store() float64
	Enabled() bool
	Reset(store float64)
}

// Disabled passes precipitation straight through.
type Disabled struct{}

func (Disabled) Update(p, _ float64) Flux {
	return Flux{Rain: p, EffPrecip: p}
}
func (Disabled) Store() float64  { return 0. }
func (Disabled) Enabled() bool   { return false }
func (Disabled) Reset(_ float64) {}

// DegreeDay snow accumulation and melt
type DegreeDay struct {
	DDF, Tth, Tb float64 // degree-day factor [mm/°C/day], phase threshold [°C], melt base [°C]
	sto          float64
}

// NewDegreeDay constructor
func NewDegreeDay(ddf, tth, tb float64) (*DegreeDay, error) {
	if ddf < 0. || math.IsNaN(ddf) {
		return nil, fmt.Errorf("snowpack: degree-day factor must be >= 0, got %v", ddf)
	}
	if math.IsNaN(tth) || math.IsNaN(tb) {
		return nil, fmt.Errorf("snowpack: temperature thresholds must be numbers (Tth=%v, Tb=%v)", tth, tb)
	}
	return &DegreeDay{DDF: ddf, Tth: tth, Tb: tb}, nil
}

// Update the snowpack given precipitation p and mean temperature t.
// Melt is limited to the snow held once today's snowfall is added.
func (d *DegreeDay) Update(p, t float64) (f Flux) {
	if t <= d.Tth {
		f.Snow = p
	} else {
		f.Rain = p
	}
	d.sto += f.Snow
	f.Melt = math.Max(0., d.DDF*(t-d.Tb))
	if f.Melt > d.sto {
		f.Melt = d.sto
	}
	d.sto -= f.Melt
	if d.sto < 0. {
		d.sto = 0.
	}
	f.EffPrecip = f.Rain + f.Melt
	return
}

// Store returns the snow water equivalent currently held
func (d *DegreeDay) Store() float64 { return d.sto }

func (d *DegreeDay) Enabled() bool { return true }

// Reset the snow store, negative values are taken as zero
func (d *DegreeDay) Reset(store float64) { d.sto = math.Max(0., store) }
