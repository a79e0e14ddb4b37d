package objfunc

import (
	"math"
	"testing"
)

var obs = []float64{1., 3., 2., 5., 4., 6., 2., 1.}

func TestPerfect(t *testing.T) {
	for name, f := range map[string]func(o, s []float64) float64{
		"NSE": NSE, "LogNSE": LogNSE, "KGE": KGE,
	} {
		if v := f(obs, obs); math.Abs(v-1.) > 1e-12 {
			t.Errorf("%s(o,o) = %v, want 1", name, v)
		}
	}
	if v := RMSE(obs, obs); v != 0. {
		t.Errorf("RMSE(o,o) = %v", v)
	}
	if v := Bias(obs, obs); v != 0. {
		t.Errorf("Bias(o,o) = %v", v)
	}
}

func TestMeanPredictor(t *testing.T) {
	m := 0.
	for _, v := range obs {
		m += v
	}
	m /= float64(len(obs))
	s := make([]float64, len(obs))
	for i := range s {
		s[i] = m
	}
	if v := NSE(obs, s); math.Abs(v) > 1e-12 {
		t.Errorf("NSE of mean predictor = %v, want 0", v)
	}
	if v := KGE(obs, s); !math.IsNaN(v) {
		t.Errorf("KGE of constant simulation = %v, want NaN", v)
	}
}

func TestScaled(t *testing.T) {
	s := make([]float64, len(obs))
	for i, v := range obs {
		s[i] = 1.2 * v
	}
	if v := Bias(obs, s); math.Abs(v-.2) > 1e-12 {
		t.Errorf("Bias = %v, want 0.2", v)
	}
	// r = 1, alpha = beta = 1.2
	if v, want := KGE(obs, s), 1.-math.Sqrt(.08); math.Abs(v-want) > 1e-12 {
		t.Errorf("KGE = %v, want %v", v, want)
	}
}

func TestRMSE(t *testing.T) {
	o := []float64{0., 0., 0., 0.}
	s := []float64{1., -1., 1., -1.}
	if v := RMSE(o, s); math.Abs(v-1.) > 1e-12 {
		t.Errorf("RMSE = %v, want 1", v)
	}
}

func TestMissingObservations(t *testing.T) {
	nan := math.NaN()
	o := []float64{nan, 1., 3., nan, 2.}
	s := []float64{100., 1., 3., -50., 2.}
	if v := NSE(o, s); v != 1. {
		t.Errorf("NSE with missing = %v, want 1", v)
	}
	if v := RMSE(o, s); v != 0. {
		t.Errorf("RMSE with missing = %v, want 0", v)
	}
	if v := NSE([]float64{nan, 1.}, []float64{1., 1.}); !math.IsNaN(v) {
		t.Errorf("NSE of one pair = %v, want NaN", v)
	}
}

func TestUndefined(t *testing.T) {
	for name, f := range map[string]func(o, s []float64) float64{
		"NSE": NSE, "LogNSE": LogNSE, "KGE": KGE, "RMSE": RMSE, "Bias": Bias,
	} {
		if v := f([]float64{1., 2.}, []float64{1., 2., 3.}); !math.IsNaN(v) {
			t.Errorf("%s of mismatched lengths = %v, want NaN", name, v)
		}
		if v := f(nil, nil); !math.IsNaN(v) {
			t.Errorf("%s of empty series = %v, want NaN", name, v)
		}
	}
	flat := []float64{2., 2., 2.}
	if v := NSE(flat, []float64{1., 2., 3.}); !math.IsNaN(v) {
		t.Errorf("NSE of constant observations = %v, want NaN", v)
	}
	if v := Bias([]float64{0., 0.}, []float64{1., 1.}); !math.IsNaN(v) {
		t.Errorf("Bias of zero observations = %v, want NaN", v)
	}
}
