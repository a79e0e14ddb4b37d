package hymod

import (
	"errors"
	"fmt"
)

var (
	// ErrParameter indicates out-of-range or degenerate parameters/initial state.
	ErrParameter = errors.New("hymod: invalid parameter")

	// ErrInputRange indicates a day-of-year or day index outside valid bounds.
	ErrInputRange = errors.New("hymod: input out of range")

	// ErrWaterBalance indicates a daily soil-moisture mass-balance residual above tolerance.
	ErrWaterBalance = errors.New("hymod: water balance error")
)

// ParameterError wraps ErrParameter with the offending value
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("hymod: parameter %s=%v %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error { return ErrParameter }

// DayError reports the simulation day at which a run failed
type DayError struct {
	Day     int // day index into the forcing
	Wrapped error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("day %d: %v", e.Day, e.Wrapped)
}

func (e *DayError) Unwrap() error { return e.Wrapped }

func inputRange(day int, err error) error {
	return &DayError{day, fmt.Errorf("%w: %w", ErrInputRange, err)}
}
