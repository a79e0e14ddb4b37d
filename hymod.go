// Package hymod simulates daily catchment runoff with the HyMod
// conceptual model: a probability-distributed soil-moisture store
// feeding a Nash cascade of quickflow tanks and a single slowflow tank,
// with optional degree-day snow and Hamon potential evapotranspiration.
//
// A Model is a pure function of its parameters, initial state and
// forcing; runs are sequential and a Model must not be shared between
// goroutines while running. Ensembles should build one Model per worker.
package hymod

import (
	"errors"
	"fmt"

	"github.com/maseology/hymod/forcing"
	"github.com/maseology/hymod/pdm"
	"github.com/maseology/hymod/pet"
	"github.com/maseology/hymod/routing"
)

// PESource selects how daily potential evapotranspiration is obtained
type PESource int

const (
	PESupplied PESource = iota // use forcing PE when available, Hamon otherwise
	PEHamon                    // always compute Hamon PE from temperature
)

// Option configures a Model
type Option func(*Model)

// WithPE sets the PE source
func WithPE(s PESource) Option {
	return func(m *Model) { m.pesrc = s }
}

// Model is a validated HyMod parameterisation
type Model struct {
	Par   Parameters
	Drv   Derived
	Snow  SnowParameters
	X0    InitialState
	pesrc PESource
}

// New validates parameters and initial state and derives b and Cpar
func New(par Parameters, snow SnowParameters, x0 InitialState, opts ...Option) (*Model, error) {
	if err := par.Validate(); err != nil {
		return nil, err
	}
	if _, err := snow.Model(); err != nil {
		return nil, err
	}
	m := Model{Par: par, Drv: par.Derive(), Snow: snow}
	if err := x0.validate(par.Nq, m.Drv.Cpar); err != nil {
		return nil, err
	}
	m.X0 = InitialState{
		Soil:  x0.Soil,
		Quick: append([]float64(nil), x0.Quick...),
		Slow:  x0.Slow,
		Snow:  x0.Snow,
	}
	for _, o := range opts {
		o(&m)
	}
	return &m, nil
}

// Simulate builds a Model and runs it over n days from forcing index start
func Simulate(par Parameters, snow SnowParameters, x0 InitialState, frc forcing.Reader, start, n int, opts ...Option) (*Series, error) {
	m, err := New(par, snow, x0, opts...)
	if err != nil {
		return nil, err
	}
	return m.Run(frc, start, n)
}

// Run the model over days [start, start+n) of the forcing. Every run
// starts from the model's initial state. Returns nil on the first
// fatal error.
func (m *Model) Run(frc forcing.Reader, start, n int) (*Series, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative period length %d", ErrInputRange, n)
	}

	// build stores
	snw, err := m.Snow.Model()
	if err != nil {
		return nil, err
	}
	snw.Reset(m.X0.Snow)
	sma, err := pdm.New(m.Par.Huz, m.Drv.B, m.Drv.Cpar, m.X0.Soil)
	if err != nil {
		if errors.Is(err, pdm.ErrDegenerate) {
			return nil, fmt.Errorf("%w: %w", ErrParameter, err)
		}
		return nil, err
	}
	qcasc := routing.NewCascade(m.Par.Kq, m.X0.Quick)
	scasc := routing.NewCascade(m.Par.Ks, []float64{m.X0.Slow})

	x0 := m.X0
	if !snw.Enabled() {
		x0.Snow = 0.
	}
	s := newSeries(n, m.Par.Nq, start, x0, m.Drv.Cpar)
	lat := frc.Latitude()

	for j := 0; j < n; j++ {
		d := start + j
		r, err := frc.Day(d)
		if err != nil {
			return nil, inputRange(d, err)
		}

		hamon := m.pesrc == PEHamon || !r.HasPE
		if !r.HasTemp && (hamon || snw.Enabled()) {
			return nil, inputRange(d, fmt.Errorf("no mean temperature on %s", r.T.Format("2006-01-02")))
		}

		// (1) snow
		sf := snw.Update(r.Precip, r.Temp)

		// (2) evaporative demand
		ep := r.PE
		if hamon {
			h, err := pet.Hamon(r.T.YearDay(), lat, r.Temp)
			if err != nil {
				return nil, inputRange(d, err)
			}
			ep = h.PE
		}
		ep *= m.Par.Kv

		// (3) soil moisture accounting
		f := sma.Update(sf.EffPrecip, ep)

		// (4-6) split and route
		qq := qcasc.Update(m.Par.Alpha * f.OV)
		qs := scasc.Update((1. - m.Par.Alpha) * f.OV)

		// (7) record
		s.T[j] = r.T
		s.Precip[j] = r.Precip
		s.EffPrecip[j] = sf.EffPrecip
		s.Snow[j] = sf.Snow
		s.Melt[j] = sf.Melt
		s.SnowStore[j] = snw.Store()
		s.PE[j] = ep
		s.Huz[j] = f.Height
		s.Cuz[j] = sma.C
		copy(s.Xq(j), qcasc.X)
		s.Xs[j] = scasc.X[0]
		s.AE[j] = f.AE
		s.OV[j] = f.OV
		s.Qq[j] = qq
		s.Qs[j] = qs
		s.Q[j] = qq + qs
	}
	return s, nil
}
