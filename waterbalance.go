package hymod

import (
	"fmt"
	"math"
)

// WaterBalance returns the daily soil moisture accounting residual
// effPrecip - (AE + OV + ΔCuz) [mm]
func (s *Series) WaterBalance() []float64 {
	wb := make([]float64, s.Len())
	c0 := s.Cuz0
	for j := range wb {
		wb[j] = s.EffPrecip[j] - (s.AE[j] + s.OV[j] + s.Cuz[j] - c0)
		c0 = s.Cuz[j]
	}
	return wb
}

// CheckWaterBalance returns an error wrapping ErrWaterBalance for the
// first day whose soil residual exceeds tol
func (s *Series) CheckWaterBalance(tol float64) error {
	for j, r := range s.WaterBalance() {
		if math.Abs(r) > tol || math.IsNaN(r) {
			return &DayError{s.Start + j, fmt.Errorf("%w: residual %.3e mm", ErrWaterBalance, r)}
		}
	}
	return nil
}

// Budget is the whole-system water budget of a run [mm]
type Budget struct {
	Precip, AE, Q                      float64 // totals
	DeltaSnow, DeltaSoil, DeltaRouting float64 // change in storage
	Residual                           float64 // Precip - AE - Q - ΔS
}

// Budget sums the run's fluxes and storage changes
func (s *Series) Budget() Budget {
	var b Budget
	n := s.Len()
	if n == 0 {
		return b
	}
	for j := 0; j < n; j++ {
		b.Precip += s.Precip[j]
		b.AE += s.AE[j]
		b.Q += s.Q[j]
	}
	xq := 0.
	for _, v := range s.Xq(n - 1) {
		xq += v
	}
	b.DeltaSnow = s.SnowStore[n-1] - s.Snow0
	b.DeltaSoil = s.Cuz[n-1] - s.Cuz0
	b.DeltaRouting = xq + s.Xs[n-1] - s.Xq0 - s.Xs0
	b.Residual = b.Precip - b.AE - b.Q - b.DeltaSnow - b.DeltaSoil - b.DeltaRouting
	return b
}

func (b Budget) String() string {
	return fmt.Sprintf("P %.1f  AE %.1f  Q %.1f  dSnow %.1f  dSoil %.1f  dRouting %.1f  residual %.2e (mm)",
		b.Precip, b.AE, b.Q, b.DeltaSnow, b.DeltaSoil, b.DeltaRouting, b.Residual)
}
