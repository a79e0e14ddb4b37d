package pet

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrDayOfYear is returned when a day-of-year falls outside [1,366].
var ErrDayOfYear = errors.New("pet: day-of-year out of range")

// RangeError reports the offending day-of-year.
type RangeError struct {
	DOY int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("pet: day-of-year %d not in [1,366]", e.DOY)
}

func (e *RangeError) Unwrap() error { return ErrDayOfYear }

const (
	// sunrise/sunset taken when the top of the sun is at the horizon, with refraction [deg]
	sunriseAngle = .8333
	deg2rad      = math.Pi / 180.

	hamonCoef = 29.8  // 0.1651 [mm/day per g/m³] × 216.7 × 10 [mb/kPa] / 12 [h]
	kelvin    = 273.3 // offset used by the saturated vapour density term
)

// Day holds the per-day working values of the Hamon computation.
type Day struct {
	DOY       int
	DayLength float64 // hours of daylight
	EStar     float64 // saturation vapour pressure [kPa]
	PE        float64 // potential evapotranspiration [mm/day]
}

// DayLength returns the hours of daylight for a given day-of-year and
// latitude [degrees] using the CBM model (Forsythe et.al., 1995).
// Polar day and night are returned as 24 and 0 hours.
func DayLength(doy int, latitude float64) (float64, error) {
	if doy < 1 || doy > 366 {
		return 0., &RangeError{doy}
	}
	theta := .2163108 + 2.*math.Atan(.9671396*math.Tan(.00860*float64(doy-186))) // revolution angle
	phi := math.Asin(.39795 * math.Cos(theta))                                     // solar declination
	lat := latitude * deg2rad
	c := (math.Sin(sunriseAngle*deg2rad) + math.Sin(lat)*math.Sin(phi)) / (math.Cos(lat) * math.Cos(phi))
	c = math.Max(-1., math.Min(1., c))
	return 24. - 24./math.Pi*math.Acos(c), nil
}

// SaturationVapourPressure [kPa] at temperature t [°C] (Tetens)
func SaturationVapourPressure(t float64) float64 {
	return .6108 * math.Exp(17.27*t/(t+237.3))
}

// Hamon potential evapotranspiration [mm/day] from mean daily temperature [°C]
func Hamon(doy int, latitude, t float64) (Day, error) {
	dl, err := DayLength(doy, latitude)
	if err != nil {
		return Day{}, err
	}
	d := Day{DOY: doy, DayLength: dl}
	if t+kelvin <= 0. {
		return d, nil
	}
	d.EStar = SaturationVapourPressure(t)
	d.PE = math.Max(0., hamonCoef*dl*d.EStar/(t+kelvin))
	return d, nil
}

// Series computes Hamon PE for every date of a period
func Series(dates []time.Time, temp []float64, latitude float64) ([]float64, error) {
	if len(dates) != len(temp) {
		return nil, fmt.Errorf("pet.Series: %d dates given %d temperatures", len(dates), len(temp))
	}
	pe := make([]float64, len(dates))
	for i, dt := range dates {
		d, err := Hamon(dt.YearDay(), latitude, temp[i])
		if err != nil {
			return nil, err
		}
		pe[i] = d.PE
	}
	return pe, nil
}
