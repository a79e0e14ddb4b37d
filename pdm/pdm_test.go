package pdm

import (
	"errors"
	"math"
	"testing"
)

const tol = 1e-9

func newStore(t *testing.T, huz, b, c0 float64) *Store {
	t.Helper()
	s, err := New(huz, b, huz/(1.+b), c0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewDegenerate(t *testing.T) {
	tests := []struct {
		name         string
		huz, b, cpar float64
	}{
		{"b = -1", 100., -1., 100.},
		{"b below -1", 100., -2., 100.},
		{"b infinite", 100., math.Inf(1), 0.},
		{"b NaN", 100., math.NaN(), 10.},
		{"zero capacity", 100., .5, 0.},
		{"negative capacity", 100., .5, -1.},
		{"zero height", 0., .5, 10.},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.huz, tt.b, tt.cpar, 0.)
			if !errors.Is(err, ErrDegenerate) {
				t.Errorf("expected ErrDegenerate, got %v", err)
			}
		})
	}
}

func TestHeightContentsInverse(t *testing.T) {
	s := newStore(t, 120., .8, 0.)
	for _, c := range []float64{0., 1., 10., 33.3, s.Cpar - 1e-6, s.Cpar} {
		h := s.height(c)
		if h < 0. || h > s.Huz {
			t.Fatalf("height %v outside [0,Huz]", h)
		}
		if got := s.contents(h); math.Abs(got-c) > 1e-8 {
			t.Errorf("contents(height(%v)) = %v", c, got)
		}
	}
	// ratio above one from floating error is clamped
	if h := s.height(s.Cpar * (1. + 1e-12)); h != s.Huz {
		t.Errorf("height of overfull store = %v, want %v", h, s.Huz)
	}
}

func TestMassBalanceAndBounds(t *testing.T) {
	for _, b := range []float64{0., .1, .415, 1., 3., 10.} {
		s := newStore(t, 80., b, 0.)
		for i := 0; i < 400; i++ {
			p := 30. * math.Abs(math.Sin(float64(i)*.37))
			if i%5 == 0 {
				p = 0.
			}
			pe := 6. * math.Abs(math.Cos(float64(i)*.11))
			c0 := s.C
			f := s.Update(p, pe)
			if r := p - (f.AE + f.OV + s.C - c0); math.Abs(r) > tol {
				t.Fatalf("b=%v day %d: mass balance residual %e", b, i, r)
			}
			if s.C < 0. || s.C > s.Cpar {
				t.Fatalf("b=%v day %d: storage %v outside [0,%v]", b, i, s.C, s.Cpar)
			}
			if f.AE < 0. || f.OV < 0. || f.AE > pe+tol {
				t.Fatalf("b=%v day %d: AE=%v OV=%v pe=%v", b, i, f.AE, f.OV, pe)
			}
		}
	}
}

func TestSaturationLimit(t *testing.T) {
	s := newStore(t, 100., .415, 0.)
	for _, p := range []float64{.1, 5., 250.} {
		s.C = s.Cpar
		f := s.Update(p, 0.)
		if f.OV < p-tol {
			t.Errorf("saturated store: OV = %v < P = %v", f.OV, p)
		}
	}
}

func TestDryStore(t *testing.T) {
	s := newStore(t, 100., .415, 0.)
	f := s.Update(0., 7.)
	if f.OV != 0. || f.AE != 0. || s.C != 0. {
		t.Errorf("dry store: OV=%v AE=%v C=%v", f.OV, f.AE, s.C)
	}
}

func TestFirstStorm(t *testing.T) {
	// Huz=100, B=0.5
	b := math.Log(1.-.5/2.) / math.Log(.5)
	s := newStore(t, 100., b, 0.)
	f := s.Update(50., 5.)
	if f.AE > 5. || f.AE <= 0. {
		t.Errorf("AE = %v, want in (0,5]", f.AE)
	}
	if s.C <= 0. || s.C > s.Cpar {
		t.Errorf("storage %v not in (0,Cpar]", s.C)
	}
	if f.OV2 != 0. {
		t.Errorf("store far from saturation produced saturated excess %v", f.OV2)
	}
	if f.OV >= 50. || f.OV < 0. {
		t.Errorf("OV = %v", f.OV)
	}
	if math.Abs(f.OV-5.8316) > 1e-3 {
		t.Errorf("partial-area excess = %v, want ≈5.832", f.OV)
	}
}

func TestUniformCapacityIsBucket(t *testing.T) {
	// b = 0: every store has capacity Huz, no excess until full
	s := newStore(t, 50., 0., 10.)
	f := s.Update(30., 0.)
	if math.Abs(f.OV) > tol || math.Abs(s.C-40.) > tol {
		t.Errorf("OV=%v C=%v, want 0 and 40", f.OV, s.C)
	}
	f = s.Update(30., 0.)
	if math.Abs(f.OV-20.) > tol || math.Abs(s.C-50.) > tol {
		t.Errorf("OV=%v C=%v, want 20 and 50", f.OV, s.C)
	}
}
