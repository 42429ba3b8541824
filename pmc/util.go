package pmc

import (
	"github.com/orsinium-labs/tinymath"
	"golang.org/x/exp/constraints"
)

// clamp restricts value to [lo, hi]. Generalised from tmc5160/helpers.go's
// constrain[T constraints.Ordered] helper.
func clamp[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// roundDuty rounds a per-unit*pwmR duty value to the nearest integer PWM
// code. Duty rounding is the one place this port keeps the float32/tinymath
// convention instead of staying in float64 throughout: it is a genuine
// host/embedded boundary (the value is about to become an integer register
// write), and tinymath.Round is what tmc5160/helpers.go reaches for at
// exactly that kind of boundary.
func roundDuty(v float64) int {
	return int(tinymath.Round(float32(v)))
}

// magnitude returns sqrt(re^2 + im^2) for an impedance-probe DFT bin,
// using tinymath.Sqrt at the same float32 boundary as roundDuty — this
// value only ever feeds a diagnostic readout, never the control hot path.
func magnitude(re, im float64) float64 {
	return float64(tinymath.Sqrt(float32(re*re + im*im)))
}
