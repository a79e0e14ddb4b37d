package routing

// Nash routes qin through a cascade of identical linear reservoirs x
// with rate k. Each reservoir releases k of the storage it held at the
// start of the step before receiving its inflow, such that water takes
// one step to cross each reservoir. x is updated in place; returns the
// outflow of the last reservoir.
func Nash(k float64, x []float64, qin float64) float64 {
	q := qin
	for i := range x {
		o := k * x[i]
		x[i] += q - o
		if x[i] < 0. {
			x[i] = 0.
		}
		q = o
	}
	return q
}

// Cascade is a Nash cascade holding its own storages
type Cascade struct {
	K float64
	X []float64
}

// NewCascade constructor, x0 is copied and negative storages set to zero
func NewCascade(k float64, x0 []float64) *Cascade {
	c := Cascade{K: k, X: make([]float64, len(x0))}
	for i, v := range x0 {
		if v > 0. {
			c.X[i] = v
		}
	}
	return &c
}

// Update cascade, returns outflow
func (c *Cascade) Update(qin float64) float64 {
	return Nash(c.K, c.X, qin)
}

// Storage summed over all reservoirs
func (c *Cascade) Storage() float64 {
	s := 0.
	for _, v := range c.X {
		s += v
	}
	return s
}
