package hymod

import "time"

// Series holds the daily model output, one entry per simulated day
type Series struct {
	T                     []time.Time
	Precip, EffPrecip     []float64 // raw and effective (rain+melt) precipitation
	Snow, Melt, SnowStore []float64 // snowfall, snowmelt, snowpack (zero when disabled)
	PE                    []float64 // vegetation-adjusted potential evapotranspiration
	Huz, Cuz              []float64 // soil moisture accounting tank height and contents
	Xs, AE, OV, Qq, Qs, Q []float64
	xq                    []float64 // quickflow tank contents [day*Nq+tank]
	Nq, Start             int       // number of quickflow tanks, forcing index of the first day
	Cuz0, Snow0, Xq0, Xs0 float64   // initial storages
	Cpar                  float64
}

func newSeries(n, nq, start int, x0 InitialState, cpar float64) *Series {
	f := func() []float64 { return make([]float64, n) }
	s := Series{
		T:         make([]time.Time, n),
		Precip:    f(),
		EffPrecip: f(),
		Snow:      f(),
		Melt:      f(),
		SnowStore: f(),
		PE:        f(),
		Huz:       f(),
		Cuz:       f(),
		Xs:        f(),
		AE:        f(),
		OV:        f(),
		Qq:        f(),
		Qs:        f(),
		Q:         f(),
		xq:        make([]float64, n*nq),
		Nq:        nq,
		Start:     start,
		Cuz0:      x0.Soil,
		Snow0:     x0.Snow,
		Xs0:       x0.Slow,
		Cpar:      cpar,
	}
	for _, v := range x0.Quick {
		s.Xq0 += v
	}
	return &s
}

// Len number of simulated days
func (s *Series) Len() int { return len(s.Q) }

// Xq returns the quickflow tank contents at the end of day j
func (s *Series) Xq(j int) []float64 {
	return s.xq[j*s.Nq : (j+1)*s.Nq]
}
