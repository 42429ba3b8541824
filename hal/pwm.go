//go:build tinygo

package hal

import (
	"machine"
)

// PWMComm drives three PWM channels from the duty codes pmc.PM.Tick's
// SVPWM stage computes. It plays the role tmc2209/uartcomm.go's UARTComm
// plays for its driver: a thin framing layer between the core's abstract
// output (three integers) and the concrete peripheral call.
type PWMComm struct {
	pwm           machine.PWM
	chA, chB, chC uint8
	top           uint32
}

// NewPWMComm binds three already-configured PWM channels on a common timer.
// top is the timer's period in counts (the controller's pwmR) so duty
// codes in [0, pwmR] map onto the peripheral's native resolution.
func NewPWMComm(pwm machine.PWM, chA, chB, chC uint8, top uint32) *PWMComm {
	return &PWMComm{pwm: pwm, chA: chA, chB: chB, chC: chC, top: top}
}

// Setup configures the shared PWM timer period.
func (c *PWMComm) Setup() error {
	if c.top == 0 {
		return CustomError("pwm period not set")
	}
	return c.pwm.SetPeriod(c.top)
}

// Write is the hal-side implementation of pmc.PWMWriter: it is handed to
// pmc.PM as the pDC callback. Duty codes arrive already clamped to
// [0, pwmR] and minimum-pulse adjusted by SVPWM — Write does no further
// validation, matching the no-blocking, no-branch-on-fault discipline of
// the hot path it is called from.
func (c *PWMComm) Write(xA, xB, xC uint32) {
	c.pwm.Set(c.chA, xA)
	c.pwm.Set(c.chB, xB)
	c.pwm.Set(c.chC, xC)
}
