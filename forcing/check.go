package forcing

import (
	"math"
	"time"

	"github.com/maseology/hymod/internal/log"
)

// Summary of a forcing period, totals are annual averages [mm/yr]
type Summary struct {
	From, To       time.Time
	Ndays, Nmissq  int
	P, PE, Q, Tavg float64
}

// Summarize computes annual average totals
func (frc *Forcing) Summarize() Summary {
	nt := len(frc.T)
	s := Summary{Ndays: nt}
	if nt == 0 {
		return s
	}
	s.From, s.To = frc.T[0], frc.T[nt-1]

	npe, nq, ntm := 0, 0, 0
	for j := 0; j < nt; j++ {
		s.P += frc.P[j]
		if frc.Tm != nil && !math.IsNaN(frc.Tm[j]) {
			s.Tavg += frc.Tm[j]
			ntm++
		}
		if frc.PE != nil && !math.IsNaN(frc.PE[j]) {
			s.PE += frc.PE[j]
			npe++
		}
		if frc.Q != nil && !math.IsNaN(frc.Q[j]) {
			s.Q += frc.Q[j]
			nq++
		} else {
			s.Nmissq++
		}
	}
	f := func(v float64, n int) float64 {
		if n == 0 {
			return math.NaN()
		}
		return v * 365.24 / float64(n)
	}
	s.P = f(s.P, nt)
	s.PE = f(s.PE, npe)
	s.Q = f(s.Q, nq)
	if ntm > 0 {
		s.Tavg /= float64(ntm)
	} else {
		s.Tavg = math.NaN()
	}
	return s
}

// CheckAndPrint logs a summary of the forcing
func (frc *Forcing) CheckAndPrint() {
	s := frc.Summarize()
	log.Infow("forcing summary",
		"from", s.From.Format(dateFormat),
		"to", s.To.Format(dateFormat),
		"days", s.Ndays,
		"latitude", frc.Lat,
		"precip_mm_yr", s.P,
		"pe_mm_yr", s.PE,
		"flow_mm_yr", s.Q,
		"missing_flow_days", s.Nmissq,
		"mean_temp", s.Tavg,
	)
}
