package hymod

import "math"

// InitialState seeds the model stores at the start of a run
type InitialState struct {
	Soil  float64   // soil moisture accounting tank contents, [0,Cpar]
	Quick []float64 // quickflow routing tank contents, len Nq
	Slow  float64   // slowflow routing tank contents
	Snow  float64   // snowpack water equivalent (ignored when snow is disabled)
}

// ZeroState returns empty stores for nq quickflow tanks
func ZeroState(nq int) InitialState {
	return InitialState{Quick: make([]float64, nq)}
}

func (x InitialState) validate(nq int, cpar float64) error {
	bad := func(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) || v < 0. }
	if bad(x.Soil) || x.Soil > cpar {
		return &ParameterError{"initial soil storage", x.Soil, "outside [0,Cpar]"}
	}
	if len(x.Quick) != nq {
		return &ParameterError{"initial quickflow storages", float64(len(x.Quick)), "length must equal Nq"}
	}
	for _, v := range x.Quick {
		if bad(v) {
			return &ParameterError{"initial quickflow storage", v, "must be >= 0"}
		}
	}
	if bad(x.Slow) {
		return &ParameterError{"initial slowflow storage", x.Slow, "must be >= 0"}
	}
	if bad(x.Snow) {
		return &ParameterError{"initial snow storage", x.Snow, "must be >= 0"}
	}
	return nil
}
