package pmc

// Tick is the per-PWM-period entry point: feed it this period's three raw
// ADC codes (phase A current, phase B current, DC-link voltage) and it
// drives the whole pipeline — FSM, then (while ModeEKF6xBase is set) the
// EKF measurement update, current regulator, optional speed loop, and
// finally the EKF time update. It must be called from the same context
// every period (an ADC-complete interrupt on a real target); it never
// takes PM's lock, since nothing else is allowed to mutate kX/kP/mS1
// concurrently with it.
func (pm *PM) Tick(xA, xB, xU int) {
	iA := (float64(xA) - pm.adcCenter) * pm.cA1 + pm.cA0
	iB := (float64(xB) - pm.adcCenter) * pm.cB1 + pm.cB0
	uS := float64(xU)*pm.cU1 + pm.cU0

	pm.bFSM(iA, iB, uS)

	if pm.mBit&ModeEKF6xBase != 0 {
		pm.kFB(iA, iB)
		pm.iFB()

		if pm.mBit&ModeSpeedControlLoop != 0 {
			pm.wFB()
		}

		pm.kAT()
	}
}
