// Package hal wires the PMC control core to real ADC/PWM peripherals on a
// TinyGo target: external collaborators the core consumes or exposes, not
// part of the core itself.
package hal

// CustomError is a lightweight error type for TinyGo targets where the
// extra allocation behind fmt.Errorf / errors.New wrapping is undesirable.
type CustomError string

func (e CustomError) Error() string { return string(e) }
