//go:build tinygo

package hal

import (
	"machine"
)

// ADCSampler reads the three raw ADC codes pmc.PM.Tick expects each PWM
// period: phase-A current, phase-B current, and DC-link voltage. It
// mirrors tmc5160/spicomm.go's SPIComm: one struct per set of pins, a
// Setup that configures hardware once, and a hot-path method doing the
// minimum work, no allocation, no error swallowing.
type ADCSampler struct {
	chA, chB, chU machine.ADC
}

// NewADCSampler binds the sampler to three already-Pin-wired ADC channels.
// Pins must be configured by the caller before Setup, matching SPIComm's
// convention of accepting pre-wired peripherals rather than owning pin
// selection itself.
func NewADCSampler(chA, chB, chU machine.ADC) *ADCSampler {
	return &ADCSampler{chA: chA, chB: chB, chU: chU}
}

// Setup configures the three ADC channels.
func (s *ADCSampler) Setup() error {
	if s.chA == (machine.ADC{}) || s.chB == (machine.ADC{}) || s.chU == (machine.ADC{}) {
		return CustomError("adc channel not initialized")
	}
	s.chA.Configure(machine.ADCConfig{})
	s.chB.Configure(machine.ADCConfig{})
	s.chU.Configure(machine.ADCConfig{})
	return nil
}

// Sample reads the three raw codes. machine.ADC.Get returns a 16-bit
// reading; Sample shifts each one right by 4 into the 12-bit code range
// pmc.PM.Tick expects (phase currents centred at 2048) and does nothing
// else, leaving the affine scaling to the caller, same division of labour
// as SPIComm.ReadRegister leaving interpretation to the caller.
func (s *ADCSampler) Sample() (xA, xB, xU uint16) {
	return s.chA.Get() >> 4, s.chB.Get() >> 4, s.chU.Get() >> 4
}
