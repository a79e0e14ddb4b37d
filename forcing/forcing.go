// Package forcing holds the daily climate (and observed flow) series
// driving a HyMod run.
package forcing

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrIndexRange is returned when a day index falls outside the forcing period.
var ErrIndexRange = errors.New("forcing: day index out of range")

// RangeError reports a day index outside [0,N)
type RangeError struct {
	Index, N int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("forcing: day index %d outside [0,%d)", e.Index, e.N)
}

func (e *RangeError) Unwrap() error { return ErrIndexRange }

// Record is one day of forcing
type Record struct {
	T                time.Time
	Precip, Temp, PE float64 // [mm], mean daily [°C], [mm]
	Flow             float64 // observed [mm], NaN when missing
	HasPE, HasTemp   bool
}

// Reader supplies forcing by day index
type Reader interface {
	Len() int
	Day(i int) (Record, error)
	Latitude() float64
}

// Forcing daily series. Tm, PE and Q may be nil; missing values are NaN.
type Forcing struct {
	T            []time.Time
	P, Tm, PE, Q []float64
	Lat          float64 // site latitude [degrees]
}

// Len number of days
func (frc *Forcing) Len() int { return len(frc.T) }

// Latitude of the site [degrees]
func (frc *Forcing) Latitude() float64 { return frc.Lat }

// Day returns the forcing of day index i
func (frc *Forcing) Day(i int) (Record, error) {
	if i < 0 || i >= len(frc.T) {
		return Record{}, &RangeError{i, len(frc.T)}
	}
	r := Record{T: frc.T[i], Precip: frc.P[i], Temp: math.NaN(), Flow: math.NaN()}
	if frc.Tm != nil && !math.IsNaN(frc.Tm[i]) {
		r.Temp, r.HasTemp = frc.Tm[i], true
	}
	if frc.PE != nil && !math.IsNaN(frc.PE[i]) {
		r.PE, r.HasPE = frc.PE[i], true
	}
	if frc.Q != nil {
		r.Flow = frc.Q[i]
	}
	return r, nil
}

// Index returns the day index of date t
func (frc *Forcing) Index(t time.Time) (int, error) {
	if len(frc.T) == 0 {
		return -1, &RangeError{0, 0}
	}
	d := dayDate(t).Sub(dayDate(frc.T[0]))
	i := int(math.Round(d.Hours() / 24.))
	if i < 0 || i >= len(frc.T) {
		return i, &RangeError{i, len(frc.T)}
	}
	return i, nil
}

// Subset returns a copy of the forcing between from and to, inclusive
func (frc *Forcing) Subset(from, to time.Time) (*Forcing, error) {
	i0, err := frc.Index(from)
	if err != nil {
		return nil, fmt.Errorf("forcing.Subset from %s: %w", from.Format(dateFormat), err)
	}
	i1, err := frc.Index(to)
	if err != nil {
		return nil, fmt.Errorf("forcing.Subset to %s: %w", to.Format(dateFormat), err)
	}
	if i1 < i0 {
		return nil, fmt.Errorf("forcing.Subset: %s is before %s", to.Format(dateFormat), from.Format(dateFormat))
	}
	cp := func(s []float64) []float64 {
		if s == nil {
			return nil
		}
		return append([]float64(nil), s[i0:i1+1]...)
	}
	return &Forcing{
		T:   append([]time.Time(nil), frc.T[i0:i1+1]...),
		P:   cp(frc.P),
		Tm:  cp(frc.Tm),
		PE:  cp(frc.PE),
		Q:   cp(frc.Q),
		Lat: frc.Lat,
	}, nil
}

// Observed returns the observed flow over [start,start+n), NaN where missing
func (frc *Forcing) Observed(start, n int) ([]float64, error) {
	if start < 0 || start+n > len(frc.T) {
		return nil, &RangeError{start + n - 1, len(frc.T)}
	}
	o := make([]float64, n)
	for i := range o {
		if frc.Q == nil {
			o[i] = math.NaN()
			continue
		}
		o[i] = frc.Q[start+i]
	}
	return o, nil
}

func dayDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
