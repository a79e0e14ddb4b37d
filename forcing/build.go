package forcing

import (
	"fmt"
	"math"
	"time"
)

const (
	dateFormat = "2006-01-02"
	secperday  = 86400.
)

// New builds a forcing from daily series. tm, pe and q may be nil.
// Dates must be consecutive days.
func New(t []time.Time, p, tm, pe, q []float64, lat float64) (*Forcing, error) {
	frc := Forcing{T: t, P: p, Tm: tm, PE: pe, Q: q, Lat: lat}
	if err := frc.check(); err != nil {
		return nil, err
	}
	return &frc, nil
}

func (frc *Forcing) check() error {
	nt := len(frc.T)
	if nt == 0 {
		return fmt.Errorf("forcing: no dates")
	}
	for _, s := range []struct {
		name string
		v    []float64
		opt  bool
	}{
		{"precipitation", frc.P, false},
		{"temperature", frc.Tm, true},
		{"potential evaporation", frc.PE, true},
		{"flow", frc.Q, true},
	} {
		if s.opt && s.v == nil {
			continue
		}
		if len(s.v) != nt {
			return fmt.Errorf("forcing: %d dates given %d %s values", nt, len(s.v), s.name)
		}
	}
	if math.IsNaN(frc.Lat) || frc.Lat < -90. || frc.Lat > 90. {
		return fmt.Errorf("forcing: latitude %v outside [-90,90]", frc.Lat)
	}

	// sequential dates
	for j := 1; j < nt; j++ {
		if d := dayDate(frc.T[j]).Sub(dayDate(frc.T[j-1])).Seconds(); d != secperday {
			return fmt.Errorf("forcing: dates not sequential at %s (after %s)", frc.T[j].Format(dateFormat), frc.T[j-1].Format(dateFormat))
		}
	}
	for j := range frc.T {
		if math.IsNaN(frc.P[j]) {
			return fmt.Errorf("forcing: missing precipitation on %s", frc.T[j].Format(dateFormat))
		}
	}
	return nil
}
