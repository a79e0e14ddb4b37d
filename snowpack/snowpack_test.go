package snowpack

import (
	"math"
	"testing"
)

func TestDisabledPassThrough(t *testing.T) {
	var m Model = Disabled{}
	for _, v := range [][2]float64{{0., -20.}, {12.5, -3.}, {3.3, 25.}, {-1., 0.}} {
		f := m.Update(v[0], v[1])
		if f.EffPrecip != v[0] {
			t.Errorf("EffPrecip = %v, want %v", f.EffPrecip, v[0])
		}
		if m.Store() != 0. {
			t.Errorf("disabled store = %v", m.Store())
		}
	}
	if m.Enabled() {
		t.Error("Disabled reports enabled")
	}
}

func TestDegreeDay(t *testing.T) {
	d, err := NewDegreeDay(.5, 0., -1.)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		p, t          float64
		eff, sto, mlt float64
	}{
		{"cold snowfall", 10., -5., 0., 10., 0.},
		{"at threshold is snow, melts above base", 4., 0., .5, 13.5, .5},
		{"warm rain on snow", 2., 5., 2. + 3., 10.5, 3.},
		{"big melt limited by store", 0., 50., 10.5, 0., 10.5},
		{"no snow left", 0., 20., 0., 0., 0.},
		{"below base no melt", 0., -10., 0., 0., 0.},
	}
	for _, tt := range tests {
		f := d.Update(tt.p, tt.t)
		if math.Abs(f.EffPrecip-tt.eff) > 1e-12 {
			t.Errorf("%s: EffPrecip = %v, want %v", tt.name, f.EffPrecip, tt.eff)
		}
		if math.Abs(f.Melt-tt.mlt) > 1e-12 {
			t.Errorf("%s: Melt = %v, want %v", tt.name, f.Melt, tt.mlt)
		}
		if math.Abs(d.Store()-tt.sto) > 1e-12 {
			t.Errorf("%s: Store = %v, want %v", tt.name, d.Store(), tt.sto)
		}
	}
}

func TestDegreeDayMassBalance(t *testing.T) {
	d, _ := NewDegreeDay(1.2, 1., 0.)
	temps := []float64{-8., -2., 0.5, 1.5, 3., -4., 6., 12., -1., 2.}
	for i, tc := range temps {
		p := float64(i%3) * 4.
		s0 := d.Store()
		f := d.Update(p, tc)
		if r := p - f.EffPrecip - (d.Store() - s0); math.Abs(r) > 1e-12 {
			t.Errorf("day %d: snow balance residual %v", i, r)
		}
		if d.Store() < 0. {
			t.Errorf("day %d: negative store", i)
		}
	}
}

func TestNewDegreeDayRejects(t *testing.T) {
	if _, err := NewDegreeDay(-.1, 0., 0.); err == nil {
		t.Error("expected error on negative DDF")
	}
	if _, err := NewDegreeDay(.1, math.NaN(), 0.); err == nil {
		t.Error("expected error on NaN threshold")
	}
}
